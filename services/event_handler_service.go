package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"noteria/backend/broker"
	"noteria/backend/models"
	"noteria/backend/store"
)

const eventBatchSize = 100

type EventHandlerServiceInterface interface {
	Run(ctx context.Context)
	ProcessPendingEvents(ctx context.Context) (int, error)
}

// EventHandlerService drains the outbox: every pending event is published to its
// entity subject and then marked dispatched. Delivery is at least once.
type EventHandlerService struct {
	store    store.Store
	broker   broker.Broker
	interval time.Duration
	logger   *slog.Logger
}

func NewEventHandlerService(s store.Store, b broker.Broker, interval time.Duration, logger *slog.Logger) *EventHandlerService {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &EventHandlerService{store: s, broker: b, interval: interval, logger: logger}
}

// Run polls the outbox until ctx is cancelled.
func (s *EventHandlerService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.ProcessPendingEvents(ctx); err != nil && ctx.Err() == nil {
				s.logger.Error("event dispatch failed", "error", err)
			}
		}
	}
}

// ProcessPendingEvents publishes pending events oldest first and returns how many were
// dispatched. It stops at the first publish failure so ordering is preserved.
func (s *EventHandlerService) ProcessPendingEvents(ctx context.Context) (int, error) {
	dispatched := 0
	for {
		events, err := s.store.Events().Pending(ctx, eventBatchSize)
		if err != nil {
			return dispatched, err
		}
		for _, event := range events {
			if err := s.dispatchEvent(ctx, event); err != nil {
				return dispatched, err
			}
			dispatched++
		}
		if len(events) < eventBatchSize {
			break
		}
	}

	if dispatched > 0 {
		s.logger.Debug("dispatched events", "count", dispatched)
	}
	return dispatched, nil
}

func (s *EventHandlerService) dispatchEvent(ctx context.Context, event models.Event) error {
	data := json.RawMessage(event.Data)
	if !json.Valid(data) {
		data = json.RawMessage("null")
	}
	payload, err := json.Marshal(broker.Envelope{
		ID:        event.ID,
		Type:      event.Event,
		Entity:    event.Entity,
		EntityID:  event.EntityID,
		ActorID:   event.ActorID,
		Timestamp: event.Timestamp,
		Data:      data,
	})
	if err != nil {
		return err
	}

	if err := s.broker.Publish(broker.SubjectFor(event.Entity), payload); err != nil {
		return err
	}
	return s.store.Events().MarkDispatched(ctx, event.ID, time.Now().UTC())
}
