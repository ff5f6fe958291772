// Copyright 2026 Chainborn

package cache

import "errors"

// ErrDegraded is returned by callers that want to distinguish "the cache
// directory could not be created at startup" from an ordinary miss. The
// cache itself never returns it from Get/Set/Invalidate — those degrade
// silently per contract — but Degraded() exposes the condition so an
// embedding application can log it once at startup.
var ErrDegraded = errors.New("cache: directory unavailable, running in degraded mode")
