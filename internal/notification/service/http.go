package service

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/chaoslab/commerce/internal/notification/history"
	"github.com/chaoslab/commerce/pkg/apierr"
	"github.com/chaoslab/commerce/pkg/health"
	"github.com/chaoslab/commerce/pkg/response"
	"github.com/chaoslab/commerce/pkg/tracing"
)

const version = "1.0.0"

// Routes builds the notification HTTP handler with the standard middleware.
func (s *Service) Routes(h *health.Health) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", h.Handler())

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		response.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"message": "Notification Service",
			"version": version,
			"endpoints": []string{
				"/health - liveness",
				"/send - dispatch notification (POST)",
				"/history - recent notifications",
				"/status/{notification_id} - delivery status",
				"/ws - live feed (websocket)",
			},
		})
	})

	mux.HandleFunc("/send", s.handleSend)
	mux.HandleFunc("/history", s.handleHistory)
	mux.HandleFunc("/status/", s.handleStatus)
	if s.hub != nil {
		mux.HandleFunc("/ws", s.hub.Handler(s.log))
	}

	return response.RequestIDMiddleware(
		response.RecoveryMiddleware(
			tracing.HTTPMiddleware(mux)))
}

func (s *Service) handleSend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteErrorCode(w, r, apierr.CodeInvalidParam, "invalid request body")
		return
	}

	n, err := s.Send(r.Context(), req)
	if err != nil {
		s.log.WithError(err).Error("send failed")
		response.WriteErrorCode(w, r, apierr.CodeInternal, "internal server error")
		return
	}
	response.WriteJSON(w, http.StatusOK, n)
}

func (s *Service) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tail, total, err := s.History(r.Context())
	if err != nil {
		s.log.WithError(err).Error("history failed")
		response.WriteErrorCode(w, r, apierr.CodeInternal, "internal server error")
		return
	}
	if tail == nil {
		tail = []*history.Notification{}
	}
	response.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": tail,
		"total_count":   total,
		"timestamp":     response.EpochSeconds(),
	})
}

func (s *Service) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/status/")
	n, err := s.Status(r.Context(), id)
	if err != nil {
		// a history backend failure is not a missing notification
		if apierr.CodeOf(err) == apierr.CodeNotFound {
			response.WriteJSON(w, http.StatusNotFound, map[string]interface{}{
				"id":     id,
				"status": "not_found",
			})
			return
		}
		s.log.WithError(err).Error("status lookup failed")
		response.WriteErrorCode(w, r, apierr.CodeInternal, "internal server error")
		return
	}
	response.WriteJSON(w, http.StatusOK, n)
}
