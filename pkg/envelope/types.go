// Copyright 2026 Chainborn
//
// Proof envelope types — the portable, serializable container produced by
// the external ZK proving toolchain and consumed by the validation
// orchestrator. The envelope itself carries no cryptographic logic; it is
// pure data plus the structural invariants needed to trust its shape.

package envelope

import (
	"encoding/base64"
	"time"
)

// DefaultVersion is used when a loaded document omits the version field.
const DefaultVersion = "1.0"

// Challenge is the anti-replay nonce binding a proof to a single
// validation request.
type Challenge struct {
	Nonce     string    `json:"nonce"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// wireEnvelope is the on-disk/inline JSON shape of an unwrapped envelope.
type wireEnvelope struct {
	ProofBytes             string            `json:"proofBytes"`
	VerificationKeyBytes   string            `json:"verificationKeyBytes"`
	ProductID              string            `json:"productId"`
	Challenge              wireChallenge     `json:"challenge"`
	Metadata               map[string]string `json:"metadata,omitempty"`
	Version                string            `json:"version,omitempty"`
}

type wireChallenge struct {
	Nonce     string `json:"nonce"`
	IssuedAt  string `json:"issuedAt"`
	ExpiresAt string `json:"expiresAt"`
}

// wrapper is the "envelope wrapper" shape: {proof: <wireEnvelope>, version, metadata}.
type wrapper struct {
	Proof    *wireEnvelope     `json:"proof"`
	Version  string            `json:"version,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Envelope is the parsed, structurally validated in-memory proof envelope.
type Envelope struct {
	ProofBytes           []byte
	VerificationKeyBytes []byte
	ProductID            string
	Challenge            Challenge
	Metadata             map[string]string
	Version              string
}

// toWire renders the envelope back to its canonical unwrapped JSON
// wire shape. Used for the serialize/deserialize round-trip property.
func (e *Envelope) toWire() wireEnvelope {
	return wireEnvelope{
		ProofBytes:           base64.StdEncoding.EncodeToString(e.ProofBytes),
		VerificationKeyBytes: base64.StdEncoding.EncodeToString(e.VerificationKeyBytes),
		ProductID:            e.ProductID,
		Challenge: wireChallenge{
			Nonce:     e.Challenge.Nonce,
			IssuedAt:  e.Challenge.IssuedAt.UTC().Format(time.RFC3339),
			ExpiresAt: e.Challenge.ExpiresAt.UTC().Format(time.RFC3339),
		},
		Metadata: e.Metadata,
		Version:  e.Version,
	}
}
