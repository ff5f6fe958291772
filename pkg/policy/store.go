// Copyright 2026 Chainborn
//
// Policy Store — loads and memoizes per-product license policies from a
// directory of declarative JSON documents. Grounded on the registry
// pattern of pkg/strategy/registry.go in the ancestor codebase: an
// RWMutex-guarded map, populated lazily, append-only after first insert
// per key. A resolved product is served under the read lock without
// touching disk; reads are not lock-free.

package policy

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// entry is the memoized outcome of resolving a product id: either a parsed
// policy, or a negative marker recording that no document exists for it.
// Parse errors and I/O errors are deliberately never memoized here.
type entry struct {
	policy *Policy // nil means "confirmed absent"
	found  bool
}

// Store loads and caches per-product policies. The zero value is not
// usable; construct with NewStore.
type Store struct {
	dir string

	mu    sync.RWMutex
	cache map[string]entry
}

// NewStore creates a policy store rooted at dir. dir need not exist yet;
// Get will surface the underlying I/O error the first time it is needed.
func NewStore(dir string) *Store {
	return &Store{
		dir:   dir,
		cache: make(map[string]entry),
	}
}

// Get returns the policy for productID, or nil if no policy document
// exists. It returns a *ParseError (never cached) if a matching document
// exists but is structurally invalid, and a plain error (never cached) on
// I/O failure other than "file does not exist".
func (s *Store) Get(productID string) (*Policy, error) {
	s.mu.RLock()
	if e, ok := s.cache[productID]; ok {
		s.mu.RUnlock()
		if !e.found {
			return nil, nil
		}
		return e.policy, nil
	}
	s.mu.RUnlock()

	path, err := s.resolvePath(productID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		s.memoize(productID, entry{found: false})
		return nil, nil
	}
	if err != nil {
		// Transient I/O failure: do not cache, allow retry.
		return nil, fmt.Errorf("policy store: read %s: %w", path, err)
	}

	pol, err := parse(productID, data)
	if err != nil {
		// Parse errors are transient-retryable per contract: not cached.
		return nil, err
	}

	s.memoize(productID, entry{policy: pol, found: true})
	return pol, nil
}

func (s *Store) memoize(productID string, e entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.cache[productID]; !exists {
		s.cache[productID] = e
	}
}

// resolvePath maps a product id to a file path inside the policy
// directory, rejecting any id that could escape it.
func (s *Store) resolvePath(productID string) (string, error) {
	if productID == "" || strings.Contains(productID, "..") ||
		strings.ContainsAny(productID, "/\\") {
		return "", ErrInvalidProductID
	}

	candidate := filepath.Join(s.dir, productID+".json")

	root, err := filepath.Abs(s.dir)
	if err != nil {
		return "", fmt.Errorf("policy store: resolve root: %w", err)
	}
	abs, err := filepath.Abs(candidate)
	if err != nil {
		return "", fmt.Errorf("policy store: resolve candidate: %w", err)
	}
	if abs != root && !strings.HasPrefix(abs, root+string(filepath.Separator)) {
		return "", ErrInvalidProductID
	}

	return candidate, nil
}

func parse(productID string, data []byte) (*Policy, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{ProductID: productID, Reason: err.Error()}
	}

	if doc.ProductID == "" {
		return nil, &ParseError{ProductID: productID, Field: "productId", Reason: "must not be empty"}
	}
	if doc.ProductID != productID {
		return nil, &ParseError{ProductID: productID, Field: "productId", Reason: "does not match filename"}
	}
	if doc.SchemaVersion == "" {
		return nil, &ParseError{ProductID: productID, Field: "version", Reason: "must not be empty"}
	}
	if !doc.BindingMode.valid() {
		return nil, &ParseError{ProductID: productID, Field: "bindingMode", Reason: fmt.Sprintf("unknown value %q", doc.BindingMode)}
	}
	if !doc.RevocationModel.valid() {
		return nil, &ParseError{ProductID: productID, Field: "revocationModel", Reason: fmt.Sprintf("unknown value %q", doc.RevocationModel)}
	}
	if doc.CacheTTLSeconds < MinCacheTTLSeconds || doc.CacheTTLSeconds > MaxCacheTTLSeconds {
		return nil, &ParseError{ProductID: productID, Field: "cacheTtl", Reason: fmt.Sprintf("%d seconds out of bounds [%d, %d]", doc.CacheTTLSeconds, MinCacheTTLSeconds, MaxCacheTTLSeconds)}
	}
	if doc.GracePeriod < 0 {
		return nil, &ParseError{ProductID: productID, Field: "gracePeriod", Reason: "must be >= 0"}
	}

	features := make(map[string]struct{}, len(doc.RequiredFeatures))
	for _, f := range doc.RequiredFeatures {
		if _, dup := features[f]; dup {
			return nil, &ParseError{ProductID: productID, Field: "requiredFeatures", Reason: fmt.Sprintf("duplicate feature %q", f)}
		}
		features[f] = struct{}{}
	}

	return &Policy{
		ProductID:        doc.ProductID,
		SchemaVersion:    doc.SchemaVersion,
		RequiredTier:     doc.RequiredTier,
		RequiredFeatures: features,
		BindingMode:      doc.BindingMode,
		CacheTTLSeconds:  doc.CacheTTLSeconds,
		RevocationModel:  doc.RevocationModel,
		GracePeriodSecs:  doc.GracePeriod,
		CustomProperties: doc.CustomProperties,
	}, nil
}
