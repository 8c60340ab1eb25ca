package renderer

import (
	"image"
	"image/color"

	"github.com/spaghettifunk/prisma/engine/platform"
	"github.com/spaghettifunk/prisma/engine/resources"
)

// Clear color every backend paints before drawing. The blank-output
// watchdog compares sampled pixels against these channels.
const (
	ClearR uint8 = 18
	ClearG uint8 = 20
	ClearB uint8 = 24
)

// Camera constants shared by all backends.
const (
	CameraMinDistance float32 = 1.0
	CameraMaxDistance float32 = 20.0
	CameraFovDegrees  float32 = 60.0
	CameraNearClip    float32 = 0.1
	CameraFarClip     float32 = 100.0
)

// depthRangeCheck gates the optional NDC depth rejection during
// projection. Off by default; set once at startup from configuration.
var depthRangeCheck bool

func SetDepthRangeCheck(enabled bool) {
	depthRangeCheck = enabled
}

func DepthRangeCheck() bool {
	return depthRangeCheck
}

// Capabilities describes what the active backend can do, carried as
// data so callers never have to inspect the concrete type.
type Capabilities struct {
	// Hardware is true for GPU-accelerated backends. The live-fallback
	// watchdog only ever arms on hardware backends.
	Hardware bool
	// NativeOverlay reports whether the backend composites the UI
	// overlay inside its own frame instead of a separate blit.
	NativeOverlay bool
	// PixelReadback reports whether SamplePixel returns real data.
	PixelReadback bool
}

// RendererBackend is the uniform contract every backend implements.
// All failures are returned as errors; nothing panics across this
// boundary.
type RendererBackend interface {
	Initialize(plat *platform.Platform) error
	// Shutdown is idempotent and safe on a partially initialized
	// instance.
	Shutdown()
	BeginFrame() error
	EndFrame() error
	// RenderModelWireframe draws the mesh with the current camera pose.
	// Invalid meshes are ignored. cameraDistance is clamped to
	// [CameraMinDistance, CameraMaxDistance] before use.
	RenderModelWireframe(mesh *resources.MeshAsset, yaw, pitch, roll, cameraDistance float32, wireOverlay bool)
	// DrawOverlay composites the UI overlay image for this frame. A nil
	// image means no overlay geometry was produced.
	DrawOverlay(img *image.RGBA)
	// InvalidateTextures forces the backend's texture cache to rebuild
	// on the next draw, even for an unchanged texture list. Called when
	// a source image changed on disk.
	InvalidateTextures()
	// SamplePixel reads back one pixel of the last presented frame.
	// ok is false when the backend cannot read back.
	SamplePixel(x, y int) (c color.RGBA, ok bool)
	Name() string
	Capabilities() Capabilities
}
