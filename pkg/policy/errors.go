// Copyright 2026 Chainborn

package policy

import "errors"

// Sentinel errors for policy store operations.
var (
	// ErrInvalidProductID is returned when a product id cannot be safely
	// mapped to a filename inside the policy directory.
	ErrInvalidProductID = errors.New("invalid product id")

	// ErrNotFound names the "no policy document" condition. Store.Get does
	// not return it: a missing document is reported as a nil *Policy with a
	// nil error.
	ErrNotFound = errors.New("policy not found")
)

// ParseError is returned when a policy document exists but is structurally
// invalid. Per the store's caching contract, parse errors are never cached
// and a later read may succeed once the document is fixed.
type ParseError struct {
	ProductID string
	Field     string
	Reason    string
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return "policy " + e.ProductID + ": field " + e.Field + ": " + e.Reason
	}
	return "policy " + e.ProductID + ": " + e.Reason
}
