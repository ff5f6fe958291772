// Copyright 2026 Chainborn
//
// Result Mirror sync service — asynchronously forwards validation outcomes
// to a Firestore collection for a fleet dashboard. Grounded on
// pkg/firestore/sync_service.go's IsEnabled-gated, logger-bound service
// shape (a thin wrapper around *Client whose methods are safe to call
// even when disabled). The buffered channel and drain goroutine are this
// package's own addition: nothing in the ancestor codebase needed to
// decouple a caller from network latency, since its own sync calls run
// synchronously inside an already-asynchronous consensus pipeline. Here
// the orchestrator's hot path must never block on Firestore, so writes are
// queued and a single background goroutine drains them.
package mirror

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
)

// OutcomeEvent is a single validation decision mirrored to Firestore.
type OutcomeEvent struct {
	EventID     uuid.UUID
	ProductID   string
	IsValid     bool
	ValidatedAt time.Time
	ExpiresAt   *time.Time
}

// queueCapacity bounds how many pending events the service buffers before
// it starts dropping new ones rather than apply backpressure to callers.
const queueCapacity = 256

// SyncService mirrors validation outcomes to Firestore without ever
// blocking the caller.
type SyncService struct {
	client *Client
	logger *log.Logger
	queue  chan OutcomeEvent
	done   chan struct{}
}

// NewSyncService starts a SyncService backed by client. Call Close to
// drain and stop the background goroutine.
func NewSyncService(client *Client) *SyncService {
	s := &SyncService{
		client: client,
		logger: log.New(log.Writer(), "[ResultMirror] ", log.LstdFlags),
		queue:  make(chan OutcomeEvent, queueCapacity),
		done:   make(chan struct{}),
	}
	go s.run()
	return s
}

// IsEnabled reports whether the underlying client performs real writes.
func (s *SyncService) IsEnabled() bool {
	return s.client != nil && s.client.IsEnabled()
}

// Mirror enqueues event for background delivery. It never blocks: if the
// queue is full the event is dropped and logged, since a missed dashboard
// update must never slow down or fail a validation decision.
func (s *SyncService) Mirror(event OutcomeEvent) {
	if !s.IsEnabled() {
		return
	}
	if event.EventID == uuid.Nil {
		event.EventID = uuid.New()
	}

	select {
	case s.queue <- event:
	default:
		s.logger.Printf("mirror queue full, dropping outcome event for product %s", event.ProductID)
	}
}

// Close stops accepting new events and waits for the queue to drain.
func (s *SyncService) Close() {
	close(s.queue)
	<-s.done
}

func (s *SyncService) run() {
	defer close(s.done)
	for event := range s.queue {
		s.deliver(event)
	}
}

func (s *SyncService) deliver(event OutcomeEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	doc := map[string]interface{}{
		"productId":   event.ProductID,
		"isValid":     event.IsValid,
		"validatedAt": event.ValidatedAt,
	}
	if event.ExpiresAt != nil {
		doc["expiresAt"] = *event.ExpiresAt
	}

	collection := s.client.Collection("validationOutcomes")
	if collection == nil {
		return
	}

	if _, err := collection.Doc(event.EventID.String()).Set(ctx, doc); err != nil {
		s.logger.Printf("failed to mirror outcome for product %s: %v", event.ProductID, err)
	}
}
