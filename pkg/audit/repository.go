// Copyright 2026 Chainborn
//
// Event repository — CRUD surface for validation_events, grounded on
// pkg/database/repository_proof.go's repository method shape
// (Create/Get/List on a thin wrapper around *Client).
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event is a single terminal validation decision recorded for audit.
type Event struct {
	EventID     uuid.UUID
	ProductID   string
	CacheKey    string
	IsValid     bool
	Errors      []string
	ValidatedAt time.Time
	ExpiresAt   *time.Time
	CreatedAt   time.Time
}

// EventRepository persists validation events.
type EventRepository struct {
	client *Client
}

// NewEventRepository constructs an EventRepository over client.
func NewEventRepository(client *Client) *EventRepository {
	return &EventRepository{client: client}
}

// Insert records a new validation event, assigning it a fresh id when its
// EventID is unset.
func (r *EventRepository) Insert(ctx context.Context, event *Event) error {
	if event.EventID == uuid.Nil {
		event.EventID = uuid.New()
	}

	errorsJSON, err := json.Marshal(event.Errors)
	if err != nil {
		return fmt.Errorf("audit: marshal errors: %w", err)
	}

	var expiresAt sql.NullTime
	if event.ExpiresAt != nil {
		expiresAt = sql.NullTime{Time: *event.ExpiresAt, Valid: true}
	}

	query := `
		INSERT INTO validation_events (
			event_id, product_id, cache_key, is_valid, errors, validated_at, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = r.client.db.ExecContext(ctx, query,
		event.EventID, event.ProductID, event.CacheKey, event.IsValid,
		errorsJSON, event.ValidatedAt, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("audit: insert event: %w", err)
	}
	return nil
}

// Get retrieves a single event by id.
func (r *EventRepository) Get(ctx context.Context, eventID uuid.UUID) (*Event, error) {
	query := `
		SELECT event_id, product_id, cache_key, is_valid, errors, validated_at, expires_at, created_at
		FROM validation_events WHERE event_id = $1`

	row := r.client.db.QueryRowContext(ctx, query, eventID)
	event, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("audit: get event: %w", err)
	}
	return event, nil
}

// ListByProduct returns the most recent events for productID, newest first.
func (r *EventRepository) ListByProduct(ctx context.Context, productID string, limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT event_id, product_id, cache_key, is_valid, errors, validated_at, expires_at, created_at
		FROM validation_events
		WHERE product_id = $1
		ORDER BY validated_at DESC
		LIMIT $2`

	rows, err := r.client.db.QueryContext(ctx, query, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("audit: list events: %w", err)
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("audit: scan event: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(row rowScanner) (*Event, error) {
	var (
		event      Event
		errorsJSON []byte
		expiresAt  sql.NullTime
	)

	if err := row.Scan(
		&event.EventID, &event.ProductID, &event.CacheKey, &event.IsValid,
		&errorsJSON, &event.ValidatedAt, &expiresAt, &event.CreatedAt,
	); err != nil {
		return nil, err
	}

	if len(errorsJSON) > 0 {
		if err := json.Unmarshal(errorsJSON, &event.Errors); err != nil {
			return nil, fmt.Errorf("unmarshal errors column: %w", err)
		}
	}
	if expiresAt.Valid {
		event.ExpiresAt = &expiresAt.Time
	}

	return &event, nil
}
