package software

import (
	"fmt"
	"image"
	"image/color"

	"github.com/spaghettifunk/prisma/engine/core"
	"github.com/spaghettifunk/prisma/engine/platform"
	"github.com/spaghettifunk/prisma/engine/renderer"
	"github.com/spaghettifunk/prisma/engine/resources"
)

// Backend is the CPU rasterizer. It draws into an RGBA framebuffer and
// presents through an OpenGL blit, so it works wherever a GL 4.1
// context can be created. It is the last-resort fallback and the
// target of the blank-output watchdog.
type Backend struct {
	plat   *platform.Platform
	window *platform.Window

	raster    *renderer.Rasterizer
	fence     *immediateFence
	pacer     *renderer.FramePacer
	pool      *renderer.DescriptorPool
	cache     *renderer.TextureCache
	names     *renderer.DebugNameRegistry
	presenter *glPresenter

	textures   map[renderer.TextureHandle]*image.RGBA
	nextHandle renderer.TextureHandle

	inFrame     bool
	initialized bool
}

// immediateFence models the pacer's fence for a device with no queue:
// CPU rasterization is complete the moment the frame is submitted.
type immediateFence struct {
	value uint64
}

func (f *immediateFence) CompletedValue() uint64 {
	return f.value
}

func (f *immediateFence) WaitFor(value uint64) {
	if value > f.value {
		f.value = value
	}
}

func New() renderer.RendererBackend {
	return &Backend{}
}

func (b *Backend) Initialize(plat *platform.Platform) error {
	if plat == nil || plat.Window() == nil {
		return core.NewInitError("software", "no window available")
	}
	// the blit needs a GL context; hardware backends run with NoAPI
	if err := plat.Recreate(platform.ClientOpenGL); err != nil {
		return core.NewInitError("software", "window recreation for OpenGL failed: %v", err)
	}

	b.plat = plat
	b.window = plat.Window()
	w, h := b.window.Size()

	presenter, err := newGLPresenter(b.window.Handle(), int(w), int(h))
	if err != nil {
		return core.NewInitError("software", "%v", err)
	}
	b.presenter = presenter

	b.raster = renderer.NewRasterizer(int(w), int(h))

	session := core.NewSessionID()
	b.fence = &immediateFence{}
	b.pacer = renderer.NewFramePacer(b.fence, renderer.FrameSlotCount)
	b.pool = renderer.NewDescriptorPool(renderer.DescriptorPoolCapacity)
	b.names = renderer.NewDebugNameRegistry(session)
	b.names.NameSlot(renderer.FontSlot(), "ui-font-atlas")
	b.cache = renderer.NewTextureCache(b, b.pool)
	b.textures = make(map[renderer.TextureHandle]*image.RGBA)
	b.nextHandle = 1

	b.initialized = true
	core.LogInfo("software renderer ready: %dx%d framebuffer, session %s", w, h, session.Short())
	return nil
}

func (b *Backend) Shutdown() {
	if b.cache != nil {
		b.cache.Shutdown()
		b.cache = nil
	}
	if b.presenter != nil {
		b.presenter.destroy()
		b.presenter = nil
	}
	b.raster = nil
	b.textures = nil
	b.initialized = false
}

func (b *Backend) BeginFrame() error {
	if !b.initialized {
		return fmt.Errorf("software backend not initialized")
	}
	if _, err := b.pacer.AcquireSlot(); err != nil {
		return err
	}
	b.inFrame = true

	w, h := b.window.Size()
	b.raster.Resize(int(w), int(h))
	b.raster.Clear(color.RGBA{R: renderer.ClearR, G: renderer.ClearG, B: renderer.ClearB, A: 255})
	return nil
}

func (b *Backend) EndFrame() error {
	if !b.inFrame {
		return fmt.Errorf("EndFrame without BeginFrame")
	}
	b.inFrame = false

	b.presenter.present(b.raster.Framebuffer())

	value, err := b.pacer.SubmitSlot()
	if err != nil {
		return err
	}
	// CPU work is done by the time the frame is submitted
	b.fence.value = value
	return nil
}

func (b *Backend) RenderModelWireframe(mesh *resources.MeshAsset, yaw, pitch, roll, cameraDistance float32, wireOverlay bool) {
	if !mesh.Valid() || !b.inFrame {
		return
	}

	texturesReady := true
	if err := b.cache.EnsureTexturesFor(mesh); err != nil {
		core.LogWarn("texture cache refresh failed, rendering wireframe only: %v", err)
		texturesReady = false
	}

	width, height := b.raster.Size()
	mvp := renderer.CameraMatrix(yaw, pitch, roll, cameraDistance, uint32(width), uint32(height))
	verts := renderer.ProjectVertices(mesh, mvp, uint32(width), uint32(height), renderer.DepthRangeCheck())

	var prims []renderer.Primitive
	if texturesReady {
		prims = renderer.BuildPrimitives(mesh, verts, b.cache.Resolve)
	}
	if len(prims) > 0 {
		renderer.SortPrimitives(prims)
		for _, batch := range renderer.BatchPrimitives(prims) {
			tex := b.textures[batch.ColorTexture]
			for i := batch.Start; i < batch.Start+batch.Count; i++ {
				b.raster.FillTriangle(&prims[i], tex)
			}
		}
	}

	if len(prims) == 0 || wireOverlay {
		for _, seg := range renderer.BuildWireframe(mesh, verts) {
			b.raster.DrawLine(seg)
		}
	}
}

// DrawOverlay source-over blends the overlay into the framebuffer.
func (b *Backend) DrawOverlay(img *image.RGBA) {
	if !b.inFrame {
		return
	}
	b.raster.BlendImage(img)
}

func (b *Backend) InvalidateTextures() {
	if b.cache != nil {
		b.cache.Invalidate()
	}
}

func (b *Backend) SamplePixel(x, y int) (color.RGBA, bool) {
	if b.raster == nil {
		return color.RGBA{}, false
	}
	return b.raster.At(x, y)
}

func (b *Backend) Name() string {
	return "Software"
}

func (b *Backend) Capabilities() renderer.Capabilities {
	return renderer.Capabilities{Hardware: false, NativeOverlay: false, PixelReadback: true}
}

// UploadTexture implements renderer.TextureUploader. Textures live on
// the heap; the handle indexes this backend's table.
func (b *Backend) UploadTexture(img *image.RGBA, slot renderer.DescriptorSlot) (renderer.TextureHandle, error) {
	handle := b.nextHandle
	b.nextHandle++
	b.textures[handle] = img
	b.names.NameTexture(handle, "software-texture-%d", handle)
	b.names.NameSlot(slot, "software-texture-%d", handle)
	core.LogDebug("uploaded %s into %s", b.names.TextureName(handle), b.names.SlotName(slot))
	return handle, nil
}

func (b *Backend) DestroyTexture(handle renderer.TextureHandle) {
	core.LogDebug("destroying %s", b.names.TextureName(handle))
	delete(b.textures, handle)
	b.names.ForgetTexture(handle)
}

// WaitIdle implements renderer.TextureUploader.
func (b *Backend) WaitIdle() {
	b.pacer.WaitIdle()
}
