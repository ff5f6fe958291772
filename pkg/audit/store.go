// Copyright 2026 Chainborn

package audit

import (
	"context"
	"log"
	"time"
)

// Store is the facade the orchestrator's embedding application talks to.
// An empty dsn or an unreachable database at startup puts the store into
// degraded mode, in which Record does nothing; when enabled, a failed
// insert is logged and swallowed. This mirrors the cache's own
// "disable rather than fail the request" contract (spec.md §4.6 Degraded
// mode) applied to the audit trail.
type Store struct {
	client *Client
	repo   *EventRepository
	logger *log.Logger
}

// NewStore constructs a Store, disabling itself if dsn is empty or the
// database cannot be reached and migrated within the startup window.
func NewStore(dsn string) *Store {
	logger := log.New(log.Writer(), "[Audit] ", log.LstdFlags)

	if dsn == "" {
		logger.Println("no audit database configured, audit trail disabled")
		return &Store{logger: logger}
	}

	client, err := NewClient(dsn, WithLogger(logger))
	if err != nil {
		logger.Printf("audit trail disabled: %v", err)
		return &Store{logger: logger}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := client.MigrateUp(ctx); err != nil {
		logger.Printf("audit trail disabled, migration failed: %v", err)
		client.Close()
		return &Store{logger: logger}
	}

	return &Store{client: client, repo: NewEventRepository(client), logger: logger}
}

// Enabled reports whether the store is backed by a live database.
func (s *Store) Enabled() bool { return s.repo != nil }

// Record writes event, logging and swallowing any failure. It never gates
// a validation decision.
func (s *Store) Record(ctx context.Context, event *Event) {
	if s.repo == nil {
		return
	}
	if err := s.repo.Insert(ctx, event); err != nil {
		s.logger.Printf("failed to record audit event for product %s: %v", event.ProductID, err)
	}
}

// Close releases the underlying connection, if any.
func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}
