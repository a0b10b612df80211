// Package response provides common HTTP response helpers.
package response

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/chaoslab/commerce/pkg/apierr"
)

// RequestIDFromRequest extracts request ID from headers.
func RequestIDFromRequest(r *http.Request) string {
	if r == nil {
		return ""
	}
	reqID := strings.TrimSpace(r.Header.Get("X-Request-Id"))
	if reqID == "" {
		reqID = strings.TrimSpace(r.Header.Get("X-Request-ID"))
	}
	return reqID
}

// WriteJSON writes a JSON payload with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteError writes a structured error response based on the apierr code.
func WriteError(w http.ResponseWriter, r *http.Request, err *apierr.Error) {
	if w == nil || err == nil {
		return
	}
	payload := *err
	if reqID := RequestIDFromRequest(r); reqID != "" {
		payload.RequestID = reqID
	}
	WriteJSON(w, payload.HTTPStatus(), &payload)
}

// WriteErrorCode writes an error response using an error code and message.
func WriteErrorCode(w http.ResponseWriter, r *http.Request, code apierr.Code, message string) {
	WriteError(w, r, apierr.New(code, message))
}

// EpochSeconds returns the current time as fractional Unix seconds, the
// timestamp convention used by every payload in the harness.
func EpochSeconds() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}
