// Package service implements the inventory HTTP API.
package service

import (
	"context"

	"github.com/chaoslab/commerce/internal/inventory/repository"
	"github.com/chaoslab/commerce/pkg/apierr"
	"github.com/chaoslab/commerce/pkg/ident"
	"github.com/chaoslab/commerce/pkg/logger"
	"github.com/chaoslab/commerce/pkg/response"
)

// Service answers availability checks and reservation requests against the
// injected product store.
type Service struct {
	store repository.ProductStore
	log   *logger.Logger
	ids   *ident.Generator
}

func New(store repository.ProductStore, log *logger.Logger, ids *ident.Generator) *Service {
	return &Service{store: store, log: log, ids: ids}
}

// CheckResult is the /check/{product_id} payload.
type CheckResult struct {
	ProductID  string  `json:"product_id"`
	Name       string  `json:"name"`
	Available  bool    `json:"available"`
	StockCount int     `json:"stock_count"`
	Price      float64 `json:"price"`
	Timestamp  float64 `json:"timestamp"`
}

// ReserveResult is the successful /reserve payload.
type ReserveResult struct {
	ReservationID string  `json:"reservation_id"`
	ProductID     string  `json:"product_id"`
	Quantity      int     `json:"quantity"`
	Status        string  `json:"status"`
	Timestamp     float64 `json:"timestamp"`
}

// Check looks up a product's availability. Unknown or empty IDs yield a
// NOT_FOUND error, never a crash.
func (s *Service) Check(ctx context.Context, productID string) (*CheckResult, error) {
	p, err := s.store.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &CheckResult{
		ProductID:  p.ID,
		Name:       p.Name,
		Available:  p.Stock > 0,
		StockCount: p.Stock,
		Price:      p.Price,
		Timestamp:  response.EpochSeconds(),
	}, nil
}

// Reserve validates a reservation and issues a reservation ID. The returned
// available count is meaningful on the insufficient-stock path.
func (s *Service) Reserve(ctx context.Context, productID string, quantity int) (*ReserveResult, int, error) {
	available, err := s.store.Reserve(ctx, productID, quantity)
	if err != nil {
		if apierr.CodeOf(err) == apierr.CodeInsufficientStock {
			s.log.Infof("reservation rejected", map[string]interface{}{
				"product_id": productID,
				"quantity":   quantity,
				"available":  available,
			})
		}
		return nil, available, err
	}

	res := &ReserveResult{
		ReservationID: s.ids.NextID("RES"),
		ProductID:     productID,
		Quantity:      quantity,
		Status:        "reserved",
		Timestamp:     response.EpochSeconds(),
	}
	s.log.Infof("stock reserved", map[string]interface{}{
		"reservation_id": res.ReservationID,
		"product_id":     productID,
		"quantity":       quantity,
	})
	return res, available, nil
}

// List returns the full catalog.
func (s *Service) List(ctx context.Context) ([]*repository.Product, error) {
	return s.store.List(ctx)
}
