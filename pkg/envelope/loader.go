// Copyright 2026 Chainborn
//
// Proof Envelope Loader — resolves a proof envelope from a priority-ordered
// set of sources, deserializes it, and validates its structural integrity.
// Grounded on the fallback-chain resolution style of
// pkg/config/anchor_config.go's LoadAnchorConfig/LoadAnchorConfigFromEnv
// pair in the ancestor codebase.

package envelope

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

const (
	envInlineProof = "LICENSE_PROOF"
	envProofFile   = "LICENSE_PROOF_FILE"
)

// DefaultProofPath is consulted when neither environment source is set.
const DefaultProofPath = "/etc/chainborn/proof.json"

// Loader resolves a proof envelope from LICENSE_PROOF, LICENSE_PROOF_FILE,
// or a configurable default path, in that fixed priority order.
type Loader struct {
	defaultPath string
}

// NewLoader constructs a Loader. An empty defaultPath falls back to
// DefaultProofPath.
func NewLoader(defaultPath string) *Loader {
	if defaultPath == "" {
		defaultPath = DefaultProofPath
	}
	return &Loader{defaultPath: defaultPath}
}

// Load resolves and validates a proof envelope. The first present source
// wins; later sources are never consulted once one is chosen.
func (l *Loader) Load() (*Envelope, error) {
	checked := make([]string, 0, 3)

	if inline, ok := os.LookupEnv(envInlineProof); ok && inline != "" {
		checked = append(checked, envInlineProof)
		return l.loadInline(inline)
	}
	checked = append(checked, envInlineProof)

	if path, ok := os.LookupEnv(envProofFile); ok && path != "" {
		checked = append(checked, envProofFile+"="+path)
		return l.loadFile(path)
	}
	checked = append(checked, envProofFile)

	checked = append(checked, l.defaultPath)
	if _, err := os.Stat(l.defaultPath); err == nil {
		return l.loadFile(l.defaultPath)
	}

	return nil, &NoProofAvailableError{Sources: checked}
}

func (l *Loader) loadInline(encoded string) (*Envelope, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, &Base64DecodeError{Field: envInlineProof, Err: err}
	}
	return parse(raw, envInlineProof)
}

func (l *Loader) loadFile(path string) (*Envelope, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &FileNotFoundError{Path: path}
	}
	if err != nil {
		return nil, fmt.Errorf("envelope: read %s: %w", path, err)
	}
	return parse(raw, path)
}

// parse deserializes raw JSON, accepting both the wrapped and unwrapped
// envelope shapes, and validates the result structurally.
func parse(raw []byte, source string) (*Envelope, error) {
	var probe struct {
		Proof json.RawMessage `json:"proof"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, &JSONParseError{Source: source, Err: err}
	}

	var wire wireEnvelope
	var outerMetadata map[string]string
	var outerVersion string

	if probe.Proof != nil {
		var w wrapper
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, &JSONParseError{Source: source, Err: err}
		}
		if w.Proof == nil {
			return nil, &StructureError{Field: "proof", Reason: "must not be null in wrapped envelope"}
		}
		wire = *w.Proof
		outerMetadata = w.Metadata
		outerVersion = w.Version
	} else {
		if err := json.Unmarshal(raw, &wire); err != nil {
			return nil, &JSONParseError{Source: source, Err: err}
		}
	}

	return validate(wire, outerMetadata, outerVersion)
}

func validate(wire wireEnvelope, outerMetadata map[string]string, outerVersion string) (*Envelope, error) {
	if wire.ProductID == "" {
		return nil, &StructureError{Field: "productId", Reason: "must not be empty"}
	}
	if wire.Challenge.Nonce == "" {
		return nil, &StructureError{Field: "challenge.nonce", Reason: "must not be empty"}
	}

	proofBytes, err := base64.StdEncoding.DecodeString(wire.ProofBytes)
	if err != nil {
		return nil, &Base64DecodeError{Field: "proofBytes", Err: err}
	}
	vkBytes, err := base64.StdEncoding.DecodeString(wire.VerificationKeyBytes)
	if err != nil {
		return nil, &Base64DecodeError{Field: "verificationKeyBytes", Err: err}
	}

	if wire.Challenge.IssuedAt == "" {
		return nil, &StructureError{Field: "challenge.issuedAt", Reason: "must be present"}
	}
	issuedAt, err := time.Parse(time.RFC3339, wire.Challenge.IssuedAt)
	if err != nil {
		return nil, &StructureError{Field: "challenge.issuedAt", Reason: "not a valid ISO-8601 instant"}
	}
	if wire.Challenge.ExpiresAt == "" {
		return nil, &StructureError{Field: "challenge.expiresAt", Reason: "must be present"}
	}
	expiresAt, err := time.Parse(time.RFC3339, wire.Challenge.ExpiresAt)
	if err != nil {
		return nil, &StructureError{Field: "challenge.expiresAt", Reason: "not a valid ISO-8601 instant"}
	}
	if issuedAt.After(expiresAt) {
		return nil, &StructureError{Field: "challenge", Reason: "issuedAt must not be after expiresAt"}
	}

	version := wire.Version
	if version == "" {
		version = outerVersion
	}
	if version == "" {
		version = DefaultVersion
	}

	metadata := wire.Metadata
	if metadata == nil {
		metadata = outerMetadata
	}

	return &Envelope{
		ProofBytes:           proofBytes,
		VerificationKeyBytes: vkBytes,
		ProductID:            wire.ProductID,
		Challenge: Challenge{
			Nonce:     wire.Challenge.Nonce,
			IssuedAt:  issuedAt,
			ExpiresAt: expiresAt,
		},
		Metadata: metadata,
		Version:  version,
	}, nil
}

// MarshalJSON renders e to its canonical unwrapped wire form.
func (e *Envelope) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.toWire())
}

// UnmarshalEnvelopeJSON parses raw as a standalone envelope document
// (either shape) without consulting any environment source. Exposed for
// callers (and tests) that already hold envelope bytes.
func UnmarshalEnvelopeJSON(raw []byte) (*Envelope, error) {
	return parse(raw, "inline")
}
