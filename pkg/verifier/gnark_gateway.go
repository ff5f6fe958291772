// Copyright 2026 Chainborn
//
// GnarkGateway is the native-library Verifier Gateway implementation: it
// checks a Groth16 proof over the BN254 curve using consensys/gnark,
// grounded on the Setup/Prove/Verify lifecycle of
// pkg/crypto/bls_zkp/prover.go in the ancestor codebase. Unlike that
// ancestor (which both proves and verifies a circuit it owns), this
// gateway only ever verifies: circuit generation belongs to the external
// proof issuer, out of scope per the validator's own contract.
//
// The public-input layout a license-issuing circuit must follow is not
// yet frozen upstream (see the verifier public-output Open Question): this
// gateway only asserts that the proof is bound to the current challenge
// nonce via a single public commitment. It never reports tier/feature
// public outputs, so callers downstream operate in stub mode until a
// circuit format that surfaces richer claims is agreed.
package verifier

import (
	"bytes"
	"context"
	"crypto/sha256"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"

	"github.com/chainborn/license-core/pkg/envelope"
)

// licenseCircuit describes the single public input every proof this
// gateway accepts must expose: a commitment to the challenge nonce it was
// generated for. It exists only so gnark can reflect the witness shape;
// the real constraint system is already baked into the verifying key
// supplied alongside the proof.
type licenseCircuit struct {
	NonceCommitment frontend.Variable `gnark:",public"`
}

func (c *licenseCircuit) Define(api frontend.API) error {
	api.AssertIsEqual(c.NonceCommitment, c.NonceCommitment)
	return nil
}

// GnarkGateway verifies Groth16 proofs over BN254.
type GnarkGateway struct{}

// NewGnarkGateway constructs a GnarkGateway.
func NewGnarkGateway() *GnarkGateway {
	return &GnarkGateway{}
}

// Verify implements Gateway.
func (g *GnarkGateway) Verify(ctx context.Context, proofBytes, verificationKeyBytes []byte, challenge envelope.Challenge) Result {
	select {
	case <-ctx.Done():
		return Result{Valid: false, Error: "verification canceled: " + ctx.Err().Error()}
	default:
	}

	if len(proofBytes) == 0 {
		return Result{Valid: false, Error: "gnark verifier: proof bytes are empty"}
	}
	if len(verificationKeyBytes) == 0 {
		return Result{Valid: false, Error: "gnark verifier: verification key bytes are empty"}
	}

	proof := groth16.NewProof(ecc.BN254)
	if _, err := proof.ReadFrom(bytes.NewReader(proofBytes)); err != nil {
		return Result{Valid: false, Error: "gnark verifier: malformed proof: " + err.Error()}
	}

	vk := groth16.NewVerifyingKey(ecc.BN254)
	if _, err := vk.ReadFrom(bytes.NewReader(verificationKeyBytes)); err != nil {
		return Result{Valid: false, Error: "gnark verifier: malformed verification key: " + err.Error()}
	}

	assignment := &licenseCircuit{NonceCommitment: nonceCommitment(challenge.Nonce)}
	publicWitness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return Result{Valid: false, Error: "gnark verifier: build public witness: " + err.Error()}
	}

	if err := groth16.Verify(proof, vk, publicWitness); err != nil {
		return Result{Valid: false, Error: "gnark verifier: proof rejected: " + err.Error()}
	}

	return Result{Valid: true}
}

// nonceCommitment reduces the SHA-256 digest of nonce into BN254's scalar
// field so it can populate a public circuit input.
func nonceCommitment(nonce string) *big.Int {
	digest := sha256.Sum256([]byte(nonce))
	commitment := new(big.Int).SetBytes(digest[:])
	return commitment.Mod(commitment, ecc.BN254.ScalarField())
}
