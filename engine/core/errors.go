package core

import (
	"errors"
	"fmt"
)

// Failure categories used across the renderer. Backend setup problems are
// InitError values and never cross the facade as panics; the selector
// aggregates them into its diagnostics.
var (
	// ErrPoolExhausted is returned by the descriptor allocator once the
	// free list is empty and the high-water mark reached capacity.
	ErrPoolExhausted = errors.New("descriptor pool exhausted")
	// ErrSwapchainBooting signals that the swapchain was resized or
	// recreated and the frame should be skipped.
	ErrSwapchainBooting = errors.New("swapchain resized or recreated, booting")
)

// InitError wraps a backend-specific initialization failure. Non-fatal at
// the selector level: it triggers fallback to the next backend in the
// attempt order.
type InitError struct {
	Backend string
	Reason  string
}

func (e *InitError) Error() string {
	return fmt.Sprintf("%s: %s", e.Backend, e.Reason)
}

func NewInitError(backend, format string, args ...interface{}) *InitError {
	return &InitError{Backend: backend, Reason: fmt.Sprintf(format, args...)}
}

// ConfigError marks an unusable configuration value, e.g. an unrecognized
// renderer override. Fatal: no fallback is attempted.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return e.Reason
}

func NewConfigError(format string, args ...interface{}) *ConfigError {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// DecodeError marks a texture file that failed to decode. The whole
// texture-cache refresh for the current mesh fails; the mesh renders
// wireframe-only for that frame.
type DecodeError struct {
	Path   string
	Reason error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %q: %v", e.Path, e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return e.Reason
}

// DegradationError is raised when the automatic software fallback itself
// fails to initialize. It ends the session.
type DegradationError struct {
	Reason string
}

func (e *DegradationError) Error() string {
	return "automatic software fallback failed: " + e.Reason
}
