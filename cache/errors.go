package cache

import (
	"errors"
	"fmt"
)

// Sentinel errors for cache operations.
var (
	// ErrLockTimeout is returned by BlockingCache.Get when the wait for a
	// key gate exceeds the configured timeout. The gate is not consumed;
	// the caller may retry or abandon.
	ErrLockTimeout = errors.New("cache: timed out waiting for key lock")

	// ErrLockNotHeld is returned when a lock release is attempted for a key
	// with no held gate. It signals a protocol violation by the caller and
	// should be treated as a programming error, not retried.
	ErrLockNotHeld = errors.New("cache: released a lock that was not held")

	// ErrNotSerializable is returned by SerializedCache when a value cannot
	// be encoded.
	ErrNotSerializable = errors.New("cache: value is not serializable")

	// ErrBuilderConsumed is returned by Builder.Build after a successful
	// build; a Builder describes exactly one chain.
	ErrBuilderConsumed = errors.New("cache: builder already consumed")
)

// BuildError reports a failed Builder.Build. It names the cache identity and
// the component (implementation or decorator) that failed, and wraps the
// cause. Build errors are fatal: no partially built chain is ever returned.
type BuildError struct {
	CacheID   string
	Component string
	Err       error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("cache: building %q: component %q: %v", e.CacheID, e.Component, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// PropertyError reports a configuration property that could not be applied:
// a malformed value for its declared kind, or a kind outside the supported
// coercion set.
type PropertyError struct {
	Name string
	Kind string
	Err  error
}

func (e *PropertyError) Error() string {
	return fmt.Sprintf("cache: property %q (%s): %v", e.Name, e.Kind, e.Err)
}

func (e *PropertyError) Unwrap() error { return e.Err }
