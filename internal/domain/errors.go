package domain

import "errors"

// ErrNotFound marks a missing conversation or message. Surfaced as 404
// before any streaming begins.
var ErrNotFound = errors.New("not found")

// ErrPolicyBlocked marks a request rejected by the admission policy.
var ErrPolicyBlocked = errors.New("blocked by policy")
