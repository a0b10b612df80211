// Package service implements the payment HTTP API and the chain orchestration.
package service

import (
	"context"
	"hash/fnv"
	"strings"
	"time"

	"github.com/chaoslab/commerce/internal/payment/chain"
	"github.com/chaoslab/commerce/internal/payment/client"
	"github.com/chaoslab/commerce/internal/payment/config"
	"github.com/chaoslab/commerce/internal/payment/metrics"
	"github.com/chaoslab/commerce/pkg/ident"
	"github.com/chaoslab/commerce/pkg/logger"
	"github.com/chaoslab/commerce/pkg/response"
)

// Service fronts the downstream capabilities and owns the chain runner.
type Service struct {
	cfg      *config.Config
	log      *logger.Logger
	ids      *ident.Generator
	inv      *client.InventoryClient
	notifier *client.NotificationClient
	runner   *chain.Runner
	metrics  *metrics.Metrics
}

func New(
	cfg *config.Config,
	log *logger.Logger,
	ids *ident.Generator,
	inv *client.InventoryClient,
	notifier *client.NotificationClient,
	runner *chain.Runner,
	m *metrics.Metrics,
) *Service {
	return &Service{
		cfg:      cfg,
		log:      log,
		ids:      ids,
		inv:      inv,
		notifier: notifier,
		runner:   runner,
		metrics:  m,
	}
}

// ProcessRequest is the /payment/process body.
type ProcessRequest struct {
	ProductID string  `json:"product_id"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
}

// ProcessResult is the single-call orchestration payload.
type ProcessResult struct {
	PaymentID string  `json:"payment_id"`
	Status    string  `json:"status"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	// InventoryCheck embeds the downstream response, or a failure
	// placeholder when the call did not succeed.
	InventoryCheck   interface{} `json:"inventory_check"`
	ProcessingTimeMS float64     `json:"processing_time_ms"`
	Timestamp        float64     `json:"timestamp"`
}

// Process runs the degenerate one-step orchestration: a single inventory
// check with its result embedded. The top-level status reflects that check
// (partial_failure when it failed) while the HTTP status stays 200.
func (s *Service) Process(ctx context.Context, req ProcessRequest) *ProcessResult {
	start := time.Now()

	if req.Currency == "" {
		req.Currency = "USD"
	}

	result := &ProcessResult{
		PaymentID: s.ids.NextID("PAY"),
		Status:    string(chain.OverallSuccess),
		Amount:    req.Amount,
		Currency:  req.Currency,
	}

	checkCtx, cancel := context.WithTimeout(ctx, s.cfg.ProcessTimeout)
	defer cancel()

	info, err := s.inv.CheckAvailability(checkCtx, req.ProductID)
	if err != nil {
		s.log.WithError(err).Warn("inventory check failed")
		result.Status = string(chain.OverallPartialFailure)
		result.InventoryCheck = map[string]interface{}{
			"available": false,
			"error":     err.Error(),
		}
	} else {
		result.InventoryCheck = info
	}

	result.ProcessingTimeMS = chain.RoundMS(time.Since(start))
	result.Timestamp = response.EpochSeconds()

	if s.metrics != nil {
		s.metrics.IncPaymentProcessed(result.Status)
	}
	s.log.Infof("payment processed", map[string]interface{}{
		"payment_id":         result.PaymentID,
		"status":             result.Status,
		"processing_time_ms": result.ProcessingTimeMS,
	})
	return result
}

// RefundRequest is the /payment/refund body.
type RefundRequest struct {
	PaymentID string  `json:"payment_id"`
	Amount    float64 `json:"amount"`
}

// RefundResult is the /payment/refund payload.
type RefundResult struct {
	RefundID          string  `json:"refund_id"`
	OriginalPaymentID string  `json:"original_payment_id"`
	Amount            float64 `json:"amount"`
	Status            string  `json:"status"`
	Timestamp         float64 `json:"timestamp"`
}

// Refund issues a refund after a configurable simulated processing delay.
func (s *Service) Refund(ctx context.Context, req RefundRequest) *RefundResult {
	if s.cfg.RefundDelay > 0 {
		select {
		case <-time.After(s.cfg.RefundDelay):
		case <-ctx.Done():
		}
	}

	if s.metrics != nil {
		s.metrics.IncRefund()
	}
	return &RefundResult{
		RefundID:          s.ids.NextID("REF"),
		OriginalPaymentID: req.PaymentID,
		Amount:            req.Amount,
		Status:            "refunded",
		Timestamp:         response.EpochSeconds(),
	}
}

// ValidateResult is the /payment/validate payload.
type ValidateResult struct {
	Valid        bool    `json:"valid"`
	CardType     string  `json:"card_type"`
	MaskedNumber string  `json:"masked_number"`
	Timestamp    float64 `json:"timestamp"`
}

// Validate checks a card number: digits-only length of at least 16 after
// stripping spaces and dashes.
func (s *Service) Validate(cardNumber string) *ValidateResult {
	digits := strings.NewReplacer(" ", "", "-", "").Replace(cardNumber)

	valid := len(digits) >= 16
	for _, r := range digits {
		if r < '0' || r > '9' {
			valid = false
			break
		}
	}

	cardType := "mastercard"
	if strings.HasPrefix(digits, "4") {
		cardType = "visa"
	}

	masked := "****"
	if len(digits) >= 4 {
		masked = "****-****-****-" + digits[len(digits)-4:]
	}

	return &ValidateResult{
		Valid:        valid,
		CardType:     cardType,
		MaskedNumber: masked,
		Timestamp:    response.EpochSeconds(),
	}
}

// StatusResult is the /payment/status payload.
type StatusResult struct {
	PaymentID  string  `json:"payment_id"`
	Status     string  `json:"status"`
	LastUpdate float64 `json:"last_update"`
}

var paymentStates = []string{"completed", "pending", "processing"}

// Status reports a simulated payment state. The state is a deterministic
// function of the ID so repeated polls of one payment are stable.
func (s *Service) Status(paymentID string) *StatusResult {
	h := fnv.New32a()
	_, _ = h.Write([]byte(paymentID))

	return &StatusResult{
		PaymentID:  paymentID,
		Status:     paymentStates[h.Sum32()%uint32(len(paymentStates))],
		LastUpdate: response.EpochSeconds(),
	}
}

// ChainRequest is the /payment/chain body.
type ChainRequest struct {
	ProductID string `json:"product_id"`
}

// Chain runs the two-step transaction: inventory check, then notification.
// Steps execute in order; a failed step never halts the chain.
func (s *Service) Chain(ctx context.Context, req ChainRequest) chain.Result {
	productID := req.ProductID
	if productID == "" {
		productID = "1"
	}

	steps := []chain.StepRequest{
		{
			Service: "inventory",
			Call: func(stepCtx context.Context) error {
				_, err := s.inv.CheckAvailability(stepCtx, productID)
				return err
			},
		},
		{
			Service: "notification",
			Call: func(stepCtx context.Context) error {
				_, err := s.notifier.Notify(stepCtx, "payment flow started", "payment", "system")
				return err
			},
		},
	}

	return s.runner.Run(ctx, steps)
}
