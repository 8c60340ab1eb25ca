package renderer

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/prisma/engine/core"
	"github.com/spaghettifunk/prisma/engine/platform"
	"github.com/spaghettifunk/prisma/engine/resources"
)

// fakeBackend is a scriptable RendererBackend for selection tests.
type fakeBackend struct {
	name      string
	initErr   error
	caps      Capabilities
	sample    color.RGBA
	sampleOK  bool
	initCount int
	shutdowns int
}

func (f *fakeBackend) Initialize(plat *platform.Platform) error {
	f.initCount++
	return f.initErr
}
func (f *fakeBackend) Shutdown()                 { f.shutdowns++ }
func (f *fakeBackend) BeginFrame() error         { return nil }
func (f *fakeBackend) EndFrame() error           { return nil }
func (f *fakeBackend) DrawOverlay(*image.RGBA)   {}
func (f *fakeBackend) Name() string              { return f.name }
func (f *fakeBackend) Capabilities() Capabilities { return f.caps }
func (f *fakeBackend) RenderModelWireframe(*resources.MeshAsset, float32, float32, float32, float32, bool) {
}
func (f *fakeBackend) InvalidateTextures() {}
func (f *fakeBackend) SamplePixel(x, y int) (color.RGBA, bool) {
	return f.sample, f.sampleOK
}

type fakeSet struct {
	dx12     *fakeBackend
	vulkan   *fakeBackend
	software *fakeBackend
}

func newFakeSet() *fakeSet {
	return &fakeSet{
		dx12:     &fakeBackend{name: "DirectX 12", caps: Capabilities{Hardware: true, PixelReadback: true}, sampleOK: true},
		vulkan:   &fakeBackend{name: "Vulkan", caps: Capabilities{Hardware: true, PixelReadback: true}, sampleOK: true},
		software: &fakeBackend{name: "Software", caps: Capabilities{PixelReadback: true}, sampleOK: true},
	}
}

func (s *fakeSet) factories() map[Kind]BackendFactory {
	return map[Kind]BackendFactory{
		KindDx12:     func() RendererBackend { return s.dx12 },
		KindVulkan:   func() RendererBackend { return s.vulkan },
		KindSoftware: func() RendererBackend { return s.software },
	}
}

func TestSelectInvalidOverrideFailsWithoutAttempts(t *testing.T) {
	set := newFakeSet()
	s := NewSelector(set.factories())

	_, err := s.SelectAndInitialize(nil, "metal")
	require.Error(t, err)

	var cfgErr *core.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
	assert.Zero(t, set.dx12.initCount)
	assert.Zero(t, set.vulkan.initCount)
	assert.Zero(t, set.software.initCount)
}

func TestSelectOverrideFailureDoesNotFallBack(t *testing.T) {
	set := newFakeSet()
	set.vulkan.initErr = errors.New("no suitable physical device")
	s := NewSelector(set.factories())

	_, err := s.SelectAndInitialize(nil, "vulkan")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no suitable physical device")

	assert.Zero(t, set.dx12.initCount)
	assert.Zero(t, set.software.initCount)
	// failed attempt was torn down
	assert.Equal(t, 1, set.vulkan.shutdowns)
}

func TestSelectAutoFallsBackInPriorityOrder(t *testing.T) {
	set := newFakeSet()
	set.dx12.initErr = errors.New("d3d12 device creation failed")
	s := NewSelector(set.factories())

	backend, err := s.SelectAndInitialize(nil, "")
	require.NoError(t, err)
	assert.Equal(t, "Vulkan", backend.Name())
	assert.Equal(t, KindVulkan, s.ActiveKind())
	assert.Contains(t, s.Status(), "Vulkan fallback")

	// The primary's captured error stays available for diagnostics.
	assert.Contains(t, s.Status(), "d3d12 device creation failed")
	require.Len(t, s.StartupFailures(), 1)
	assert.Contains(t, s.StartupFailures()[0], "d3d12 device creation failed")
}

func TestSelectAutoAllHardwareFailsLandsOnSoftware(t *testing.T) {
	set := newFakeSet()
	set.dx12.initErr = errors.New("d3d12 unavailable")
	set.vulkan.initErr = errors.New("vulkan loader missing")
	s := NewSelector(set.factories())

	backend, err := s.SelectAndInitialize(nil, "")
	require.NoError(t, err)
	assert.Equal(t, "Software", backend.Name())
	assert.Contains(t, s.Status(), "software fallback")

	require.Len(t, s.StartupFailures(), 2)
	assert.Contains(t, s.StartupFailures()[0], "d3d12 unavailable")
	assert.Contains(t, s.StartupFailures()[1], "vulkan loader missing")
}

func TestSelectAllBackendsFailAggregatesErrors(t *testing.T) {
	set := newFakeSet()
	set.dx12.initErr = errors.New("d3d12 unavailable")
	set.vulkan.initErr = errors.New("vulkan loader missing")
	set.software.initErr = errors.New("framebuffer allocation failed")
	s := NewSelector(set.factories())

	_, err := s.SelectAndInitialize(nil, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "d3d12 unavailable")
	assert.Contains(t, err.Error(), "vulkan loader missing")
	assert.Contains(t, err.Error(), "framebuffer allocation failed")
}

func TestObserveFrameTriggersOneShotSoftwareFallback(t *testing.T) {
	set := newFakeSet()
	set.dx12.sample = color.RGBA{R: ClearR, G: ClearG, B: ClearB, A: 255}
	s := NewSelector(set.factories())

	_, err := s.SelectAndInitialize(nil, "")
	require.NoError(t, err)
	require.Equal(t, KindDx12, s.ActiveKind())

	for i := 0; i < blankDetectThreshold; i++ {
		require.NoError(t, s.ObserveFrame(true))
	}

	assert.Equal(t, KindSoftware, s.ActiveKind())
	assert.Equal(t, "Software", s.Active().Name())
	assert.Equal(t, 1, set.dx12.shutdowns)
	assert.Contains(t, s.Status(), "Switched to software renderer")

	// further blank frames never trigger a second switch
	softwareInits := set.software.initCount
	for i := 0; i < blankDetectThreshold*2; i++ {
		require.NoError(t, s.ObserveFrame(true))
	}
	assert.Equal(t, softwareInits, set.software.initCount)
}

func TestObserveFrameNeverArmsWithOverride(t *testing.T) {
	set := newFakeSet()
	set.dx12.sample = color.RGBA{R: ClearR, G: ClearG, B: ClearB, A: 255}
	s := NewSelector(set.factories())

	_, err := s.SelectAndInitialize(nil, "dx12")
	require.NoError(t, err)

	for i := 0; i < blankDetectThreshold*2; i++ {
		require.NoError(t, s.ObserveFrame(true))
	}
	assert.Equal(t, KindDx12, s.ActiveKind())
	assert.Zero(t, set.software.initCount)
}

func TestObserveFrameNeverArmsOnSoftware(t *testing.T) {
	set := newFakeSet()
	set.dx12.initErr = errors.New("unavailable")
	set.vulkan.initErr = errors.New("unavailable")
	set.software.sample = color.RGBA{R: ClearR, G: ClearG, B: ClearB, A: 255}
	s := NewSelector(set.factories())

	_, err := s.SelectAndInitialize(nil, "")
	require.NoError(t, err)

	for i := 0; i < blankDetectThreshold*2; i++ {
		require.NoError(t, s.ObserveFrame(true))
	}
	assert.Equal(t, 1, set.software.initCount)
}

func TestObserveFrameFallbackFailureIsFatal(t *testing.T) {
	set := newFakeSet()
	set.dx12.sample = color.RGBA{R: ClearR, G: ClearG, B: ClearB, A: 255}
	s := NewSelector(set.factories())

	_, err := s.SelectAndInitialize(nil, "")
	require.NoError(t, err)

	set.software.initErr = errors.New("framebuffer allocation failed")
	var observeErr error
	for i := 0; i < blankDetectThreshold; i++ {
		observeErr = s.ObserveFrame(true)
		if observeErr != nil {
			break
		}
	}
	require.Error(t, observeErr)

	var degradation *core.DegradationError
	assert.ErrorAs(t, observeErr, &degradation)
	assert.Contains(t, s.Status(), "Automatic software fallback failed")
}
