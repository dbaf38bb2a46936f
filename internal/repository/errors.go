// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting driver-specific errors. For example, ErrEmailExists signals
// a unique-key violation on users.email, while ErrTokenInvalid covers
// both a missing and an expired reset token so that callers cannot tell
// the two apart.
package repository

import "errors"

// ErrNotFound is returned when a requested row does not exist. Handlers
// should translate this into an HTTP 404 response, or into a generic
// invalid-credentials answer on authentication paths.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when an insert collides with the unique
// email index. Handlers should translate this into an HTTP 400/409.
var ErrEmailExists = errors.New("email already exists")

// ErrTokenInvalid is returned when a reset token is absent, expired, or
// already consumed by a concurrent request. The three cases are
// deliberately indistinguishable.
var ErrTokenInvalid = errors.New("invalid or expired token")
