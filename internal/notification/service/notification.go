// Package service implements the notification HTTP API.
package service

import (
	"context"
	"encoding/json"

	"github.com/chaoslab/commerce/internal/notification/history"
	"github.com/chaoslab/commerce/internal/notification/ws"
	"github.com/chaoslab/commerce/pkg/ident"
	"github.com/chaoslab/commerce/pkg/logger"
	"github.com/chaoslab/commerce/pkg/response"
)

// Service dispatches notifications, records them, and feeds live subscribers.
type Service struct {
	hist        history.History
	hub         *ws.Hub
	log         *logger.Logger
	ids         *ident.Generator
	historyTail int
}

func New(hist history.History, hub *ws.Hub, log *logger.Logger, ids *ident.Generator, historyTail int) *Service {
	if historyTail <= 0 {
		historyTail = 50
	}
	return &Service{hist: hist, hub: hub, log: log, ids: ids, historyTail: historyTail}
}

// SendRequest is the /send body.
type SendRequest struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	Recipient string `json:"recipient"`
}

// Send records and broadcasts one notification. Dispatch always succeeds once
// the request round-trips; only a history-store failure is an error.
func (s *Service) Send(ctx context.Context, req SendRequest) (*history.Notification, error) {
	if req.Type == "" {
		req.Type = "info"
	}
	if req.Recipient == "" {
		req.Recipient = "system"
	}

	n := &history.Notification{
		ID:        s.ids.NextID("NOT"),
		Message:   req.Message,
		Type:      req.Type,
		Recipient: req.Recipient,
		Status:    "sent",
		Timestamp: response.EpochSeconds(),
	}

	if err := s.hist.Append(ctx, n); err != nil {
		return nil, err
	}

	if s.hub != nil {
		if payload, err := json.Marshal(n); err == nil {
			s.hub.Broadcast(payload)
		}
	}

	s.log.Infof("notification sent", map[string]interface{}{
		"id":   n.ID,
		"type": n.Type,
	})
	return n, nil
}

// History returns the bounded tail plus the total count.
func (s *Service) History(ctx context.Context) ([]*history.Notification, int, error) {
	tail, err := s.hist.Tail(ctx, s.historyTail)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.hist.Total(ctx)
	if err != nil {
		return nil, 0, err
	}
	return tail, total, nil
}

// Status looks up one notification by ID.
func (s *Service) Status(ctx context.Context, id string) (*history.Notification, error) {
	return s.hist.Find(ctx, id)
}
