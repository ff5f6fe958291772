// Copyright 2026 Chainborn

package orchestrator

import "errors"

// ErrProductMismatch describes a proof whose product_id does not match the
// product_id the caller asked to validate against. Validate logs it and
// reports the mismatch as an invalid Result; it is never returned.
var ErrProductMismatch = errors.New("orchestrator: proof product does not match requested product")
