// Package client holds the HTTP capability clients the orchestrator calls.
//
// Each client models one remote capability: request shape, response shape,
// and the transport failure modes (timeout, connection error, non-2xx status,
// malformed body). Deadlines come from the caller's context; a client never
// retries.
package client

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/chaoslab/commerce/pkg/apierr"
)

// classifyTransport turns a transport-level error into an apierr code so the
// step executor can record a precise cause.
func classifyTransport(op string, err error) *apierr.Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apierr.Newf(apierr.CodeTimeout, "%s: deadline exceeded", op)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apierr.Newf(apierr.CodeTimeout, "%s: %v", op, err)
	}
	return apierr.Newf(apierr.CodeUnavailable, "%s: %v", op, err)
}

func statusError(op string, status int) *apierr.Error {
	if status == http.StatusNotFound {
		return apierr.Newf(apierr.CodeNotFound, "%s: status %d", op, status)
	}
	return apierr.Newf(apierr.CodeUnavailable, "%s: status %d", op, status)
}
