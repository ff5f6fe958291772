// Copyright 2026 Chainborn

package audit

import "errors"

// ErrEventNotFound is returned when a requested event id has no matching row.
var ErrEventNotFound = errors.New("audit: event not found")
