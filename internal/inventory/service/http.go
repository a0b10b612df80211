package service

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/chaoslab/commerce/internal/inventory/repository"
	"github.com/chaoslab/commerce/pkg/apierr"
	"github.com/chaoslab/commerce/pkg/health"
	"github.com/chaoslab/commerce/pkg/response"
	"github.com/chaoslab/commerce/pkg/tracing"
)

const version = "1.0.0"

// Routes builds the inventory HTTP handler with the standard middleware.
func (s *Service) Routes(h *health.Health) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", h.Handler())

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		response.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"message": "Inventory Service",
			"version": version,
			"endpoints": []string{
				"/health - liveness",
				"/check/{product_id} - stock check",
				"/reserve - stock reservation (POST)",
				"/list - full catalog",
			},
		})
	})

	mux.HandleFunc("/check/", s.handleCheck)
	mux.HandleFunc("/reserve", s.handleReserve)
	mux.HandleFunc("/list", s.handleList)

	return response.RequestIDMiddleware(
		response.RecoveryMiddleware(
			tracing.HTTPMiddleware(mux)))
}

func (s *Service) handleCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	productID := strings.TrimPrefix(r.URL.Path, "/check/")
	result, err := s.Check(r.Context(), productID)
	if err != nil {
		// only a genuine catalog miss is a 404; a backend failure must
		// surface as the internal fault it is
		if apierr.CodeOf(err) == apierr.CodeNotFound {
			response.WriteJSON(w, http.StatusNotFound, map[string]interface{}{
				"product_id": productID,
				"available":  false,
				"error":      "product not found",
			})
			return
		}
		s.log.WithError(err).Error("check failed")
		response.WriteErrorCode(w, r, apierr.CodeInternal, "internal server error")
		return
	}
	response.WriteJSON(w, http.StatusOK, result)
}

type reserveRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (s *Service) handleReserve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req := reserveRequest{Quantity: 1}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteErrorCode(w, r, apierr.CodeInvalidParam, "invalid request body")
		return
	}

	result, available, err := s.Reserve(r.Context(), req.ProductID, req.Quantity)
	if err != nil {
		switch apierr.CodeOf(err) {
		case apierr.CodeInsufficientStock:
			response.WriteJSON(w, http.StatusBadRequest, map[string]interface{}{
				"error":     "insufficient stock",
				"available": available,
			})
		case apierr.CodeInvalidParam:
			response.WriteErrorCode(w, r, apierr.CodeInvalidParam, "quantity must be at least 1")
		default:
			s.log.WithError(err).Error("reserve failed")
			response.WriteErrorCode(w, r, apierr.CodeInternal, "internal server error")
		}
		return
	}
	response.WriteJSON(w, http.StatusOK, result)
}

func (s *Service) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	products, err := s.List(r.Context())
	if err != nil {
		s.log.WithError(err).Error("list failed")
		response.WriteErrorCode(w, r, apierr.CodeInternal, "internal server error")
		return
	}
	if products == nil {
		products = []*repository.Product{}
	}
	response.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"products":  products,
		"timestamp": response.EpochSeconds(),
	})
}
