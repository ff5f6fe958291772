// Copyright 2026 Chainborn

package verifier

import (
	"context"

	"github.com/chainborn/license-core/pkg/envelope"
)

// MockGateway reports a valid result for any non-empty proof, verification
// key and challenge nonce, and an invalid one otherwise. Intended for development and for embedding
// applications that have not yet wired a production backend.
type MockGateway struct {
	// PublicInputs, when non-nil, is returned verbatim on every call. Tests
	// use this to exercise binding and policy gating without a real
	// verifier backend surfacing tier/feature claims.
	PublicInputs map[string]string
}

// Verify implements Gateway.
func (m *MockGateway) Verify(_ context.Context, proofBytes, verificationKeyBytes []byte, challenge envelope.Challenge) Result {
	if len(proofBytes) == 0 || len(verificationKeyBytes) == 0 {
		return Result{Valid: false, Error: "mock verifier: proof and verification key must be non-empty"}
	}
	if challenge.Nonce == "" {
		return Result{Valid: false, Error: "mock verifier: challenge nonce must be non-empty"}
	}
	return Result{Valid: true, PublicInputs: m.PublicInputs}
}
