package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/chaoslab/commerce/pkg/apierr"
	"github.com/chaoslab/commerce/pkg/tracing"
)

// SendReceipt is the notification service's /send payload.
type SendReceipt struct {
	ID        string  `json:"id"`
	Message   string  `json:"message"`
	Type      string  `json:"type"`
	Recipient string  `json:"recipient"`
	Status    string  `json:"status"`
	Timestamp float64 `json:"timestamp"`
}

// NotificationClient calls the notification capability.
type NotificationClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewNotificationClient(baseURL string) *NotificationClient {
	return &NotificationClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// Notify performs one POST /send round trip. A round-tripped 200 is always a
// successful dispatch.
func (c *NotificationClient) Notify(ctx context.Context, message, typ, recipient string) (*SendReceipt, error) {
	body, err := json.Marshal(map[string]string{
		"message":   message,
		"type":      typ,
		"recipient": recipient,
	})
	if err != nil {
		return nil, apierr.Newf(apierr.CodeInternal, "marshal request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/send", bytes.NewReader(body))
	if err != nil {
		return nil, apierr.Newf(apierr.CodeInternal, "create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	tracing.InjectHTTP(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransport("notification send", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("notification send", resp.StatusCode)
	}

	var receipt SendReceipt
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		return nil, apierr.Newf(apierr.CodeMalformedResponse, "notification send: decode: %v", err)
	}
	return &receipt, nil
}
