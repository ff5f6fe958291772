// Copyright 2026 Chainborn
//
// Validation Orchestrator — the eleven-step pipeline that ties every other
// component together. Grounded on pkg/verification/unified_verifier.go's
// staged, config-driven VerifyFullProofCycle: a single ordered method that
// short-circuits on the first failing stage and accumulates a structured
// result rather than a bare error, the same shape as that verifier's
// VerificationResult/AddError pattern.
package orchestrator

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chainborn/license-core/pkg/binding"
	"github.com/chainborn/license-core/pkg/cache"
	"github.com/chainborn/license-core/pkg/envelope"
	"github.com/chainborn/license-core/pkg/policy"
	"github.com/chainborn/license-core/pkg/verifier"
)

// Orchestrator runs the validation pipeline against a fixed set of
// collaborators. A single instance is safe for concurrent use; every
// component it depends on is itself concurrency-safe.
type Orchestrator struct {
	policyStore *policy.Store
	cache       *cache.Cache
	gateway     verifier.Gateway
	comparator  *binding.Comparator
	collector   *binding.Collector
	logger      *log.Logger
}

// Option configures an Orchestrator at construction time.
type Option func(*Orchestrator)

// WithLogger overrides the default logger.
func WithLogger(l *log.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// New constructs an Orchestrator from its collaborators.
func New(policyStore *policy.Store, validationCache *cache.Cache, gateway verifier.Gateway, comparator *binding.Comparator, collector *binding.Collector, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		policyStore: policyStore,
		cache:       validationCache,
		gateway:     gateway,
		comparator:  comparator,
		collector:   collector,
		logger:      log.New(log.Writer(), "[Orchestrator] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Validate runs the full pipeline for a single proof against vctx. Every
// failure after the product-match guard is reported in the returned
// Result rather than as a Go error; the orchestrator never retries.
func (o *Orchestrator) Validate(ctx context.Context, proof *envelope.Envelope, vctx Context) Result {
	now := time.Now()

	// Step 1: product-match guard.
	if proof.ProductID != vctx.ProductID {
		o.logger.Printf("%v: proof=%q requested=%q", ErrProductMismatch, proof.ProductID, vctx.ProductID)
		return invalidResult(now, fmt.Sprintf("proof product %q does not match requested product %q", proof.ProductID, vctx.ProductID))
	}

	key := cacheKey(vctx.ProductID, proof.Challenge.Nonce, string(vctx.Strictness), vctx.BindingData)

	// Step 2: cache probe, with the TTL invariant re-checked on every hit.
	if entry, ok := o.cache.Get(ctx, key); ok {
		pol, err := o.policyStore.Get(vctx.ProductID)
		if err == nil && pol != nil {
			bound := proof.Challenge.ExpiresAt
			if ttlBound := entry.ValidatedAt.Add(time.Duration(pol.CacheTTLSeconds) * time.Second); ttlBound.Before(bound) {
				bound = ttlBound
			}
			if entry.ExpiresAt.After(bound) {
				o.cache.Invalidate(ctx, key)
				o.logger.Printf("cache invariant violated for key %s: entry expires %s after bound %s", key, entry.ExpiresAt, bound)
				return invalidResult(now, "cache invariant violation")
			}

			expiresAt := entry.ExpiresAt
			cacheKeyCopy := key
			return Result{
				IsValid:     entry.IsValid,
				Errors:      entry.Errors,
				ValidatedAt: entry.ValidatedAt,
				ExpiresAt:   &expiresAt,
				CacheKey:    &cacheKeyCopy,
			}
		}
		// Policy unavailable while validating the cache entry: treat this as
		// a miss and fall through to a full re-validation.
	}

	// Step 3: policy fetch.
	pol, err := o.policyStore.Get(vctx.ProductID)
	if err != nil {
		o.logger.Printf("policy fetch error for %s: %v", vctx.ProductID, err)
		return invalidResult(now, fmt.Sprintf("policy fetch error: %v", err))
	}
	if pol == nil {
		return invalidResult(now, fmt.Sprintf("Policy not found for '%s'", vctx.ProductID))
	}

	// Step 4: binding data assembly.
	bindingData := vctx.BindingData
	if pol.BindingMode != policy.BindingModeNone && len(bindingData) == 0 {
		bindingData = o.collector.Collect()
	}

	// Step 5: nonce checks, cheap and ahead of cryptographic work.
	if !proof.Challenge.ExpiresAt.After(now) {
		return invalidResult(now, fmt.Sprintf("Challenge has expired at %s", proof.Challenge.ExpiresAt.UTC().Format(time.RFC3339)))
	}
	if proof.Challenge.IssuedAt.After(now) {
		return invalidResult(now, fmt.Sprintf("Challenge issued in the future at %s", proof.Challenge.IssuedAt.UTC().Format(time.RFC3339)))
	}

	// Step 6: cryptographic verification.
	verifyResult := o.gateway.Verify(ctx, proof.ProofBytes, proof.VerificationKeyBytes, proof.Challenge)
	if !verifyResult.Valid {
		return invalidResult(now, verifyResult.Error)
	}

	// Step 7: binding check.
	bindingResult := o.comparator.Validate(pol.BindingMode, bindingData, verifyResult.PublicInputs)
	if !bindingResult.Valid {
		return Result{IsValid: false, Errors: bindingResult.Errors, ValidatedAt: now}
	}

	// Step 8: policy gating. Absent public outputs means enforcement is
	// pending, not failed — this mirrors the comparator's own stub mode.
	if len(verifyResult.PublicInputs) > 0 {
		presentTier := verifyResult.PublicInputs["tier"]
		if !policy.TierSatisfies(presentTier, pol.RequiredTier) {
			return invalidResult(now, fmt.Sprintf("required tier %q not satisfied by present tier %q", pol.RequiredTier, presentTier))
		}
		for feature := range pol.RequiredFeatures {
			if !presentFeaturesInclude(verifyResult.PublicInputs, feature) {
				return invalidResult(now, fmt.Sprintf("required feature %q not present", feature))
			}
		}
	} else if pol.RequiredTier != "" || len(pol.RequiredFeatures) > 0 {
		o.logger.Printf("product %s: tier/feature enforcement pending, verifier backend did not surface public outputs", vctx.ProductID)
	}

	// Step 9: compute expires_at, the single authority over cache lifetime.
	ttlBound := now.Add(time.Duration(pol.CacheTTLSeconds) * time.Second)
	expiresAt := proof.Challenge.ExpiresAt
	if ttlBound.Before(expiresAt) {
		expiresAt = ttlBound
	}

	// Step 10: cache write.
	o.cache.Set(ctx, key, cache.Result{
		IsValid:     true,
		ValidatedAt: now,
		ExpiresAt:   expiresAt,
	}, expiresAt.Sub(now))

	// Step 11: return.
	cacheKeyCopy := key
	return Result{
		IsValid:     true,
		ValidatedAt: now,
		ExpiresAt:   &expiresAt,
		CacheKey:    &cacheKeyCopy,
	}
}

// presentFeaturesInclude reports whether feature is listed in the
// verifier's "features" public input, a comma-separated list.
func presentFeaturesInclude(publicInputs map[string]string, feature string) bool {
	for _, f := range strings.Split(publicInputs["features"], ",") {
		if strings.TrimSpace(f) == feature {
			return true
		}
	}
	return false
}

func invalidResult(now time.Time, msg string) Result {
	return Result{IsValid: false, Errors: []string{msg}, ValidatedAt: now}
}
