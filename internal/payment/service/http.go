package service

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/chaoslab/commerce/pkg/apierr"
	"github.com/chaoslab/commerce/pkg/health"
	"github.com/chaoslab/commerce/pkg/response"
	"github.com/chaoslab/commerce/pkg/tracing"
)

const version = "1.0.0"

// Routes builds the payment HTTP handler with the standard middleware.
func (s *Service) Routes(h *health.Health) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", h.Handler())

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		response.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"message": "Payment Service - chaos test target",
			"version": version,
			"endpoints": []string{
				"/health - liveness",
				"/payment/process - single-call payment (POST)",
				"/payment/status/{payment_id} - payment state",
				"/payment/refund - refund (POST)",
				"/payment/validate - card validation (POST)",
				"/payment/chain - chained transaction (POST)",
				"/metrics - prometheus metrics",
			},
		})
	})

	mux.HandleFunc("/payment/process", s.handleProcess)
	mux.HandleFunc("/payment/refund", s.handleRefund)
	mux.HandleFunc("/payment/validate", s.handleValidate)
	mux.HandleFunc("/payment/chain", s.handleChain)
	mux.HandleFunc("/payment/status/", s.handleStatus)

	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics.Handler())
	}

	return response.RequestIDMiddleware(
		response.RecoveryMiddleware(
			tracing.HTTPMiddleware(mux)))
}

func decodeBody(w http.ResponseWriter, r *http.Request, out interface{}) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	// an empty body means an all-defaults request, as the chaos tooling sends
	if err := json.NewDecoder(r.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		response.WriteErrorCode(w, r, apierr.CodeInvalidParam, "invalid request body")
		return false
	}
	return true
}

func (s *Service) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req ProcessRequest
	if !decodeBody(w, r, &req) {
		return
	}
	response.WriteJSON(w, http.StatusOK, s.Process(r.Context(), req))
}

func (s *Service) handleRefund(w http.ResponseWriter, r *http.Request) {
	var req RefundRequest
	if !decodeBody(w, r, &req) {
		return
	}
	response.WriteJSON(w, http.StatusOK, s.Refund(r.Context(), req))
}

func (s *Service) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CardNumber string `json:"card_number"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	response.WriteJSON(w, http.StatusOK, s.Validate(req.CardNumber))
}

// handleChain always answers 200: downstream outages surface as
// overall_status partial_failure, never as a 5xx at this boundary.
func (s *Service) handleChain(w http.ResponseWriter, r *http.Request) {
	var req ChainRequest
	if !decodeBody(w, r, &req) {
		return
	}
	response.WriteJSON(w, http.StatusOK, s.Chain(r.Context(), req))
}

func (s *Service) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	paymentID := strings.TrimPrefix(r.URL.Path, "/payment/status/")
	response.WriteJSON(w, http.StatusOK, s.Status(paymentID))
}
