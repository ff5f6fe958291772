// Copyright 2026 Chainborn

package verifier

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/chainborn/license-core/pkg/envelope"
)

func testChallenge() envelope.Challenge {
	return envelope.Challenge{
		Nonce:     "nonce-abc",
		IssuedAt:  time.Now().Add(-time.Minute),
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestMockGatewayRejectsEmptyInputs(t *testing.T) {
	g := &MockGateway{}

	if r := g.Verify(context.Background(), nil, []byte("vk"), testChallenge()); r.Valid {
		t.Error("expected rejection of empty proof bytes")
	}
	if r := g.Verify(context.Background(), []byte("proof"), nil, testChallenge()); r.Valid {
		t.Error("expected rejection of empty verification key bytes")
	}
}

func TestMockGatewayAcceptsAndReturnsPublicInputs(t *testing.T) {
	g := &MockGateway{PublicInputs: map[string]string{"tier": "pro"}}

	r := g.Verify(context.Background(), []byte("proof"), []byte("vk"), testChallenge())
	if !r.Valid {
		t.Fatalf("expected valid result, got error %q", r.Error)
	}
	if r.PublicInputs["tier"] != "pro" {
		t.Errorf("tier = %q", r.PublicInputs["tier"])
	}
}

func TestMockGatewayRejectsEmptyNonce(t *testing.T) {
	g := &MockGateway{}
	challenge := testChallenge()
	challenge.Nonce = ""

	if r := g.Verify(context.Background(), []byte("proof"), []byte("vk"), challenge); r.Valid {
		t.Error("expected rejection of empty nonce")
	}
}

// fakeSidecar serves a canned /verify response over a Unix socket so the
// HTTP-over-Unix-socket wiring can be exercised without a real sidecar
// process.
func fakeSidecar(t *testing.T, handler http.HandlerFunc) (socketPath string, close func()) {
	t.Helper()

	dir := t.TempDir()
	socketPath = dir + "/sidecar.sock"

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		t.Fatalf("listen on unix socket: %v", err)
	}

	srv := &http.Server{Handler: handler}
	go srv.Serve(listener)

	return socketPath, func() { srv.Close() }
}

func TestSidecarGatewayValidResponse(t *testing.T) {
	socketPath, closeSrv := fakeSidecar(t, func(w http.ResponseWriter, r *http.Request) {
		var req sidecarRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Nonce != "nonce-abc" {
			t.Errorf("nonce = %q", req.Nonce)
		}
		json.NewEncoder(w).Encode(sidecarResponse{
			Valid:        true,
			PublicInputs: map[string]string{"tier": "enterprise"},
		})
	})
	defer closeSrv()

	g := NewSidecarGateway(socketPath)
	r := g.Verify(context.Background(), []byte("proof"), []byte("vk"), testChallenge())

	if !r.Valid {
		t.Fatalf("expected valid result, got error %q", r.Error)
	}
	if r.PublicInputs["tier"] != "enterprise" {
		t.Errorf("tier = %q", r.PublicInputs["tier"])
	}
}

func TestSidecarGatewayRejectedProof(t *testing.T) {
	socketPath, closeSrv := fakeSidecar(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(sidecarResponse{Valid: false, Error: "proof rejected"})
	})
	defer closeSrv()

	g := NewSidecarGateway(socketPath)
	r := g.Verify(context.Background(), []byte("proof"), []byte("vk"), testChallenge())

	if r.Valid {
		t.Fatal("expected invalid result")
	}
	if r.Error != "proof rejected" {
		t.Errorf("error = %q", r.Error)
	}
}

func TestSidecarGatewayUnreachable(t *testing.T) {
	g := NewSidecarGateway("/nonexistent/socket/path.sock", WithTimeout(time.Second))

	r := g.Verify(context.Background(), []byte("proof"), []byte("vk"), testChallenge())
	if r.Valid {
		t.Fatal("expected invalid result for unreachable sidecar")
	}
	if r.Error == "" {
		t.Error("expected a descriptive error")
	}
}

func TestSidecarGatewayCustomEndpoint(t *testing.T) {
	var hitPath string
	socketPath, closeSrv := fakeSidecar(t, func(w http.ResponseWriter, r *http.Request) {
		hitPath = r.URL.Path
		json.NewEncoder(w).Encode(sidecarResponse{Valid: true})
	})
	defer closeSrv()

	g := NewSidecarGateway(socketPath, WithEndpoint("/v2/verify"))
	g.Verify(context.Background(), []byte("proof"), []byte("vk"), testChallenge())

	if hitPath != "/v2/verify" {
		t.Errorf("hit path = %q", hitPath)
	}
}
