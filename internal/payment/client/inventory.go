package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/chaoslab/commerce/pkg/apierr"
	"github.com/chaoslab/commerce/pkg/tracing"
)

// StockInfo is the inventory service's /check payload.
type StockInfo struct {
	ProductID  string  `json:"product_id"`
	Name       string  `json:"name,omitempty"`
	Available  bool    `json:"available"`
	StockCount int     `json:"stock_count,omitempty"`
	Price      float64 `json:"price,omitempty"`
	Timestamp  float64 `json:"timestamp,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// InventoryClient calls the inventory capability.
type InventoryClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewInventoryClient creates the client. Call deadlines are taken from the
// request context, not from the transport.
func NewInventoryClient(baseURL string) *InventoryClient {
	return &InventoryClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// CheckAvailability performs one GET /check/{product_id} round trip.
func (c *InventoryClient) CheckAvailability(ctx context.Context, productID string) (*StockInfo, error) {
	if productID == "" {
		productID = "unknown"
	}

	url := fmt.Sprintf("%s/check/%s", c.baseURL, productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apierr.Newf(apierr.CodeInternal, "create request: %v", err)
	}
	tracing.InjectHTTP(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransport("inventory check", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("inventory check", resp.StatusCode)
	}

	var info StockInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, apierr.Newf(apierr.CodeMalformedResponse, "inventory check: decode: %v", err)
	}
	return &info, nil
}

// ReservationReceipt is the inventory service's /reserve payload.
type ReservationReceipt struct {
	ReservationID string  `json:"reservation_id"`
	ProductID     string  `json:"product_id"`
	Quantity      int     `json:"quantity"`
	Status        string  `json:"status"`
	Timestamp     float64 `json:"timestamp"`
}

// Reserve performs one POST /reserve round trip. An insufficient-stock answer
// maps to an INSUFFICIENT_STOCK error that carries the reported availability
// in its message.
func (c *InventoryClient) Reserve(ctx context.Context, productID string, quantity int) (*ReservationReceipt, error) {
	body, err := json.Marshal(map[string]interface{}{
		"product_id": productID,
		"quantity":   quantity,
	})
	if err != nil {
		return nil, apierr.Newf(apierr.CodeInternal, "marshal request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/reserve", bytes.NewReader(body))
	if err != nil {
		return nil, apierr.Newf(apierr.CodeInternal, "create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	tracing.InjectHTTP(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransport("inventory reserve", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest {
		var denial struct {
			Error     string `json:"error"`
			Available int    `json:"available"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&denial); err != nil {
			return nil, apierr.Newf(apierr.CodeMalformedResponse, "inventory reserve: decode: %v", err)
		}
		return nil, apierr.Newf(apierr.CodeInsufficientStock,
			"inventory reserve: %s (available %d)", denial.Error, denial.Available)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError("inventory reserve", resp.StatusCode)
	}

	var receipt ReservationReceipt
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		return nil, apierr.Newf(apierr.CodeMalformedResponse, "inventory reserve: decode: %v", err)
	}
	return &receipt, nil
}
