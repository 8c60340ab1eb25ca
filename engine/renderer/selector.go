package renderer

import (
	"fmt"
	"strings"

	"github.com/spaghettifunk/prisma/engine/core"
	"github.com/spaghettifunk/prisma/engine/platform"
)

// background pixel probed by the blank-output watchdog
const (
	samplePixelX = 30
	samplePixelY = 30
)

// BackendFactory constructs one backend instance. A fresh instance is
// built per attempt so a failed Initialize never leaves state behind.
type BackendFactory func() RendererBackend

// Selector picks the active backend at startup and supervises it during
// the session, reinitializing onto the software backend when the
// blank-output watchdog fires.
type Selector struct {
	factories map[Kind]BackendFactory

	plat       *platform.Platform
	active     RendererBackend
	activeKind Kind
	overridden bool
	status     string

	// startupFailures keeps the captured error of every backend that
	// failed before the active one came up, in attempt order.
	startupFailures []string

	watchdog *BlankWatchdog
}

func NewSelector(factories map[Kind]BackendFactory) *Selector {
	return &Selector{
		factories: factories,
		watchdog:  NewBlankWatchdog(),
	}
}

// SelectAndInitialize tries backends until one comes up. A non-empty
// override names a single backend: no fallback happens, and a name that
// does not parse is a hard configuration error. Without an override the
// fixed priority order is walked and the errors of every failed attempt
// are aggregated.
func (s *Selector) SelectAndInitialize(plat *platform.Platform, override string) (RendererBackend, error) {
	var overrideKind *Kind
	if override != "" {
		kind, err := ParseKind(override)
		if err != nil {
			return nil, err
		}
		overrideKind = &kind
	}

	attempts := BuildAttemptOrder(overrideKind)
	failures := make([]string, 0, len(attempts))

	for _, kind := range attempts {
		backend, err := s.tryBackend(plat, kind)
		if err != nil {
			core.LogWarn("%s renderer failed: %v", kind, err)
			failures = append(failures, fmt.Sprintf("%s: %v", kind, err))
			continue
		}

		s.plat = plat
		s.active = backend
		s.activeKind = kind
		s.overridden = overrideKind != nil
		s.startupFailures = failures
		s.status = s.startupStatus(kind, overrideKind, failures)
		core.LogInfo("initialized renderer: %s", backend.Name())
		return backend, nil
	}

	s.startupFailures = failures

	if overrideKind != nil {
		return nil, core.NewInitError(string(*overrideKind), "requested renderer backend failed: %s", strings.Join(failures, "; "))
	}
	return nil, fmt.Errorf("no renderer backend available: %s", strings.Join(failures, "; "))
}

func (s *Selector) tryBackend(plat *platform.Platform, kind Kind) (RendererBackend, error) {
	factory, ok := s.factories[kind]
	if !ok {
		return nil, core.NewInitError(string(kind), "no factory registered")
	}
	backend := factory()
	if err := backend.Initialize(plat); err != nil {
		backend.Shutdown()
		return nil, err
	}
	return backend, nil
}

// startupStatus builds the overlay line for the selection outcome. The
// failed attempts' errors are woven in so the reason a backend was
// skipped survives past the startup log.
func (s *Selector) startupStatus(kind Kind, override *Kind, failures []string) string {
	switch {
	case override != nil:
		return fmt.Sprintf("Using renderer backend override: %s.", kind)
	case kind == KindVulkan:
		return fmt.Sprintf("DirectX 12 failed (%s), using Vulkan fallback.", strings.Join(failures, "; "))
	case kind == KindSoftware:
		return fmt.Sprintf("Hardware backends unavailable (%s), using software fallback renderer.", strings.Join(failures, "; "))
	default:
		return "Using DirectX 12 renderer."
	}
}

// StartupFailures returns the errors captured from the backends tried
// and rejected during the last selection, in attempt order. Empty when
// the first attempt succeeded.
func (s *Selector) StartupFailures() []string {
	return s.startupFailures
}

// Active returns the current backend. Nil before selection.
func (s *Selector) Active() RendererBackend {
	return s.active
}

func (s *Selector) ActiveKind() Kind {
	return s.activeKind
}

// Status is the human-readable line the overlay shows, reflecting the
// active backend and any fallback that occurred.
func (s *Selector) Status() string {
	return s.status
}

// ObserveFrame runs the blank-output watchdog for one presented frame
// and performs the one-shot software reinitialization when it fires.
// The watchdog only arms on a hardware backend chosen by auto-detect.
// The returned error is fatal: the automatic fallback itself failed.
func (s *Selector) ObserveFrame(overlayPresent bool) error {
	if s.active == nil || s.overridden || s.watchdog.Fired() {
		return nil
	}
	if !s.active.Capabilities().Hardware {
		return nil
	}
	if !s.watchdog.ObserveFrame(s.active, samplePixelX, samplePixelY, overlayPresent) {
		return nil
	}

	core.LogWarn("detected probable blank output on accelerated backend, reinitializing with software fallback")
	s.active.Shutdown()
	s.active = nil

	backend, err := s.tryBackend(s.plat, KindSoftware)
	if err != nil {
		s.status = fmt.Sprintf("Automatic software fallback failed: %v", err)
		return &core.DegradationError{Reason: err.Error()}
	}
	s.active = backend
	s.activeKind = KindSoftware
	s.status = "Detected blank accelerated output. Switched to software renderer."
	core.LogInfo("initialized renderer: %s", backend.Name())
	return nil
}

// Shutdown tears down the active backend.
func (s *Selector) Shutdown() {
	if s.active != nil {
		s.active.Shutdown()
		s.active = nil
	}
}
