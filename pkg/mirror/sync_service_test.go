// Copyright 2026 Chainborn

package mirror

import (
	"context"
	"testing"
	"time"
)

func TestDisabledClientIsNoOp(t *testing.T) {
	client, err := NewClient(context.Background(), ClientConfig{Enabled: false})
	if err != nil {
		t.Fatalf("unexpected error constructing a disabled client: %v", err)
	}
	if client.IsEnabled() {
		t.Fatal("expected disabled client to report disabled")
	}
	if client.Collection("validationOutcomes") != nil {
		t.Error("expected a disabled client to return a nil collection reference")
	}
}

func TestSyncServiceMirrorIsNoOpWhenDisabled(t *testing.T) {
	client, _ := NewClient(context.Background(), ClientConfig{Enabled: false})
	svc := NewSyncService(client)
	defer svc.Close()

	// Must not panic, block, or attempt any network I/O.
	svc.Mirror(OutcomeEvent{ProductID: "product-a", IsValid: true, ValidatedAt: time.Now()})
}

func TestEnabledClientRequiresProjectID(t *testing.T) {
	_, err := NewClient(context.Background(), ClientConfig{Enabled: true})
	if err == nil {
		t.Fatal("expected an error when enabling the mirror without a project id")
	}
}
