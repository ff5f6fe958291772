// Copyright 2026 Chainborn

package audit

import (
	"context"
	"testing"
	"time"
)

func TestNewStoreDegradedWhenDSNEmpty(t *testing.T) {
	s := NewStore("")
	if s.Enabled() {
		t.Fatal("expected store to be disabled with an empty DSN")
	}
}

func TestRecordIsNoOpWhenDisabled(t *testing.T) {
	s := NewStore("")

	// Must not panic or block even though nothing is actually persisted.
	s.Record(context.Background(), &Event{
		ProductID:   "product-a",
		CacheKey:    "key",
		IsValid:     true,
		ValidatedAt: time.Now(),
	})
}

func TestNewStoreDegradedWhenUnreachable(t *testing.T) {
	s := NewStore("postgres://invalid-host-for-testing:5432/nope?connect_timeout=1")
	if s.Enabled() {
		t.Fatal("expected store to be disabled when the database is unreachable")
	}
}

func TestCloseOnDisabledStoreIsSafe(t *testing.T) {
	s := NewStore("")
	if err := s.Close(); err != nil {
		t.Errorf("expected nil error closing a disabled store, got %v", err)
	}
}
