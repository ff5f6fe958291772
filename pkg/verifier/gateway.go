// Copyright 2026 Chainborn
//
// Verifier Gateway — the single cryptographic boundary of the validator
// core. The orchestrator treats every implementation uniformly; which
// backend is wired in (mock, native ZK library, sidecar process) is an
// operator decision made at startup, grounded on the pluggable-strategy
// pattern of pkg/attestation/strategy/interface.go in the ancestor
// codebase.

package verifier

import (
	"context"

	"github.com/chainborn/license-core/pkg/envelope"
)

// Result is the outcome of a verify-proof call. Verify has no Go error
// return: every failure, including "the proof is invalid", "the backend is
// unavailable" and a canceled context, surfaces as Valid=false with a
// human-readable Error.
type Result struct {
	Valid        bool
	Error        string
	PublicInputs map[string]string
}

// Gateway is the narrow interface every verifier backend satisfies. Any
// correct backend — native library, embedded WASM module, sidecar process
// — is acceptable; the gateway is pure with respect to shared mutable
// state, though it may be I/O- or compute-bound.
type Gateway interface {
	Verify(ctx context.Context, proofBytes, verificationKeyBytes []byte, challenge envelope.Challenge) Result
}
