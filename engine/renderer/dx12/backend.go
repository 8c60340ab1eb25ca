package dx12

import (
	"image"
	"image/color"
	"runtime"

	"github.com/spaghettifunk/prisma/engine/core"
	"github.com/spaghettifunk/prisma/engine/platform"
	"github.com/spaghettifunk/prisma/engine/renderer"
	"github.com/spaghettifunk/prisma/engine/resources"
)

// Backend is the DirectX 12 renderer. D3D12 only exists on Windows, so
// on every other platform Initialize reports a probe failure and the
// selector falls through to Vulkan. This keeps the attempt order
// identical on all platforms instead of special-casing the list.
type Backend struct {
	initialized bool
}

func New() renderer.RendererBackend {
	return &Backend{}
}

func (b *Backend) Initialize(plat *platform.Platform) error {
	if runtime.GOOS != "windows" {
		return core.NewInitError("dx12", "DirectX 12 is only supported on Windows (running on %s)", runtime.GOOS)
	}
	// d3d12.dll loading is not wired up yet; probe as unavailable so
	// selection falls through to Vulkan on Windows too.
	return core.NewInitError("dx12", "d3d12 device creation unavailable")
}

func (b *Backend) Shutdown() {
	b.initialized = false
}

func (b *Backend) BeginFrame() error {
	return core.NewInitError("dx12", "backend not initialized")
}

func (b *Backend) EndFrame() error {
	return core.NewInitError("dx12", "backend not initialized")
}

func (b *Backend) RenderModelWireframe(mesh *resources.MeshAsset, yaw, pitch, roll, cameraDistance float32, wireOverlay bool) {
}

func (b *Backend) DrawOverlay(img *image.RGBA) {}

func (b *Backend) InvalidateTextures() {}

func (b *Backend) SamplePixel(x, y int) (color.RGBA, bool) {
	return color.RGBA{}, false
}

func (b *Backend) Name() string {
	return "DirectX 12"
}

func (b *Backend) Capabilities() renderer.Capabilities {
	return renderer.Capabilities{Hardware: true, NativeOverlay: true, PixelReadback: false}
}
