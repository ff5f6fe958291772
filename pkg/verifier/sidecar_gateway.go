// Copyright 2026 Chainborn
//
// SidecarGateway verifies proofs by delegating to an out-of-process
// verifier over local IPC (a Unix domain socket), the second production
// backend shape the core anticipates alongside the in-process native
// library. Structured the way pkg/database/client.go structures its own
// client: functional options, an explicit constructor, context-scoped
// calls. No example repo in this codebase's lineage ships a generic
// JSON-over-Unix-socket client — the domain-specific RPC clients
// (pkg/accumulate, the lite client's jsonrpc backend) are tied to
// blockchain wire protocols that don't belong here — so this one is built
// directly on net/http's pluggable Transport.DialContext, which is the
// standard way to point an *http.Client at a Unix socket.
package verifier

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/chainborn/license-core/pkg/envelope"
)

// SidecarGateway calls a local verifier process over a Unix domain socket.
type SidecarGateway struct {
	socketPath string
	endpoint   string
	client     *http.Client
}

// SidecarOption configures a SidecarGateway.
type SidecarOption func(*SidecarGateway)

// WithTimeout overrides the default per-call timeout.
func WithTimeout(d time.Duration) SidecarOption {
	return func(g *SidecarGateway) { g.client.Timeout = d }
}

// WithEndpoint overrides the default "/verify" HTTP path.
func WithEndpoint(path string) SidecarOption {
	return func(g *SidecarGateway) { g.endpoint = path }
}

// NewSidecarGateway constructs a gateway that dials socketPath for every
// verify call.
func NewSidecarGateway(socketPath string, opts ...SidecarOption) *SidecarGateway {
	g := &SidecarGateway{
		socketPath: socketPath,
		endpoint:   "/verify",
		client: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
					var d net.Dialer
					return d.DialContext(ctx, "unix", socketPath)
				},
			},
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type sidecarRequest struct {
	ProofBytes           string `json:"proofBytes"`
	VerificationKeyBytes string `json:"verificationKeyBytes"`
	Nonce                string `json:"nonce"`
	IssuedAt             string `json:"issuedAt"`
	ExpiresAt            string `json:"expiresAt"`
}

type sidecarResponse struct {
	Valid        bool              `json:"valid"`
	Error        string            `json:"error,omitempty"`
	PublicInputs map[string]string `json:"publicInputs,omitempty"`
}

// Verify implements Gateway.
func (g *SidecarGateway) Verify(ctx context.Context, proofBytes, verificationKeyBytes []byte, challenge envelope.Challenge) Result {
	reqBody := sidecarRequest{
		ProofBytes:           base64.StdEncoding.EncodeToString(proofBytes),
		VerificationKeyBytes: base64.StdEncoding.EncodeToString(verificationKeyBytes),
		Nonce:                challenge.Nonce,
		IssuedAt:             challenge.IssuedAt.UTC().Format(time.RFC3339),
		ExpiresAt:            challenge.ExpiresAt.UTC().Format(time.RFC3339),
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return Result{Valid: false, Error: fmt.Sprintf("sidecar verifier: encode request: %v", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, "http://sidecar"+g.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Result{Valid: false, Error: fmt.Sprintf("sidecar verifier: build request: %v", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return Result{Valid: false, Error: fmt.Sprintf("sidecar verifier: unreachable at %s: %v", g.socketPath, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{Valid: false, Error: fmt.Sprintf("sidecar verifier: unexpected status %d", resp.StatusCode)}
	}

	var out sidecarResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Result{Valid: false, Error: fmt.Sprintf("sidecar verifier: decode response: %v", err)}
	}

	return Result{Valid: out.Valid, Error: out.Error, PublicInputs: out.PublicInputs}
}
