package vulkan

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"runtime"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/prisma/engine/core"
	"github.com/spaghettifunk/prisma/engine/platform"
	"github.com/spaghettifunk/prisma/engine/renderer"
	"github.com/spaghettifunk/prisma/engine/resources"
)

// Backend rasterizes frames on the CPU and presents them through a
// Vulkan swapchain. Each frame the shared framebuffer is staged into a
// host-visible buffer and copied into the acquired swapchain image.
type Backend struct {
	plat    *platform.Platform
	window  *platform.Window
	context *VulkanContext

	raster *renderer.Rasterizer
	device *queueFenceDevice
	pacer  *renderer.FramePacer
	pool   *renderer.DescriptorPool
	cache  *renderer.TextureCache
	names  *renderer.DebugNameRegistry

	imageAvailableSemaphores []vk.Semaphore
	queueCompleteSemaphores  []vk.Semaphore
	slotFences               []*VulkanFence
	commandBuffers           []*VulkanCommandBuffer

	staging  *VulkanBuffer
	readback *VulkanBuffer
	scratch  []byte

	textures   map[renderer.TextureHandle]*image.RGBA
	nextHandle renderer.TextureHandle

	currentSlot    int
	lastImageIndex int
	inFrame        bool
	initialized    bool
	debug          bool
}

func New() renderer.RendererBackend {
	return &Backend{
		lastImageIndex: -1,
	}
}

func (b *Backend) Initialize(plat *platform.Platform) error {
	if plat == nil || plat.Window() == nil {
		return core.NewInitError("vulkan", "no window available")
	}
	// hardware surfaces need a window without a client API
	if err := plat.Recreate(platform.ClientNoAPI); err != nil {
		return core.NewInitError("vulkan", "window recreation failed: %v", err)
	}
	b.plat = plat
	b.window = plat.Window()

	procAddr := glfw.GetVulkanGetInstanceProcAddress()
	if procAddr == nil {
		return core.NewInitError("vulkan", "Vulkan loader not available")
	}
	vk.SetGetInstanceProcAddr(procAddr)
	if err := vk.Init(); err != nil {
		return core.NewInitError("vulkan", "library initialization failed: %v", err)
	}

	b.context = &VulkanContext{
		Device: &VulkanDevice{
			GraphicsQueueIndex: -1,
			PresentQueueIndex:  -1,
		},
	}

	if err := b.createInstance(); err != nil {
		return core.NewInitError("vulkan", "%v", err)
	}

	if b.debug {
		if err := b.createDebugMessenger(); err != nil {
			return core.NewInitError("vulkan", "%v", err)
		}
	}

	core.LogDebug("Creating Vulkan surface...")
	surface, err := b.window.Handle().CreateWindowSurface(b.context.Instance, nil)
	if err != nil {
		b.Shutdown()
		return core.NewInitError("vulkan", "surface creation failed: %v", err)
	}
	b.context.Surface = vk.SurfaceFromPointer(surface)
	core.LogDebug("Vulkan surface created.")

	if err := DeviceCreate(b.context); err != nil {
		b.Shutdown()
		return core.NewInitError("vulkan", "%v", err)
	}

	width, height := b.window.Size()
	sc, err := SwapchainCreate(b.context, width, height)
	if err != nil {
		b.Shutdown()
		return core.NewInitError("vulkan", "%v", err)
	}
	b.context.Swapchain = sc

	if err := b.createFrameResources(); err != nil {
		b.Shutdown()
		return core.NewInitError("vulkan", "%v", err)
	}

	b.raster = renderer.NewRasterizer(int(b.context.FramebufferWidth), int(b.context.FramebufferHeight))

	session := core.NewSessionID()
	b.device = newQueueFenceDevice(b.context)
	b.pacer = renderer.NewFramePacer(b.device, renderer.FrameSlotCount)
	b.pool = renderer.NewDescriptorPool(renderer.DescriptorPoolCapacity)
	b.names = renderer.NewDebugNameRegistry(session)
	b.names.NameSlot(renderer.FontSlot(), "ui-font-atlas")
	b.cache = renderer.NewTextureCache(b, b.pool)
	b.textures = make(map[renderer.TextureHandle]*image.RGBA)
	b.nextHandle = 1
	b.lastImageIndex = -1

	b.initialized = true
	core.LogInfo("Vulkan renderer initialized successfully: %dx%d swapchain, session %s",
		b.context.FramebufferWidth, b.context.FramebufferHeight, session.Short())
	return nil
}

func (b *Backend) createInstance() error {
	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         uint32(vk.MakeVersion(1, 0, 0)),
		ApplicationVersion: uint32(vk.MakeVersion(1, 0, 0)),
		PApplicationName:   VulkanSafeString("Prisma"),
		PEngineName:        VulkanSafeString("Prisma Engine"),
	}

	createInfo := vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: appInfo,
	}

	requiredExtensions := []string{"VK_KHR_surface"}
	requiredExtensions = append(requiredExtensions, b.plat.GetRequiredExtensionNames()...)

	if runtime.GOOS == "darwin" {
		requiredExtensions = append(requiredExtensions,
			"VK_KHR_portability_enumeration",
			"VK_KHR_get_physical_device_properties2",
		)
		createInfo.Flags |= 1 // VK_INSTANCE_CREATE_ENUMERATE_PORTABILITY_BIT_KHR
	}

	requiredLayers := []string{}
	if b.debug {
		requiredExtensions = append(requiredExtensions, vk.ExtDebugReportExtensionName)
		requiredLayers = append(requiredLayers, "VK_LAYER_KHRONOS_validation")
		if err := verifyValidationLayers(requiredLayers); err != nil {
			return err
		}
	}

	createInfo.EnabledExtensionCount = uint32(len(requiredExtensions))
	createInfo.PpEnabledExtensionNames = VulkanSafeStrings(requiredExtensions)
	createInfo.EnabledLayerCount = uint32(len(requiredLayers))
	createInfo.PpEnabledLayerNames = VulkanSafeStrings(requiredLayers)

	if res := vk.CreateInstance(&createInfo, b.context.Allocator, &b.context.Instance); res != vk.Success {
		return fmt.Errorf("instance creation failed with %s", VulkanResultString(res))
	}
	if err := vk.InitInstance(b.context.Instance); err != nil {
		return err
	}

	core.LogInfo("Vulkan instance created.")
	return nil
}

func verifyValidationLayers(required []string) error {
	var availableLayerCount uint32
	if res := vk.EnumerateInstanceLayerProperties(&availableLayerCount, nil); res != vk.Success {
		return fmt.Errorf("failed to enumerate instance layers: %s", VulkanResultString(res))
	}
	availableLayers := make([]vk.LayerProperties, availableLayerCount)
	if res := vk.EnumerateInstanceLayerProperties(&availableLayerCount, availableLayers); res != vk.Success {
		return fmt.Errorf("failed to enumerate instance layers: %s", VulkanResultString(res))
	}

	for _, name := range required {
		found := false
		for j := range availableLayers {
			availableLayers[j].Deref()
			end := FindFirstZeroInByteArray(availableLayers[j].LayerName[:])
			if name == string(availableLayers[j].LayerName[:end]) {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("required validation layer is missing: %s", name)
		}
	}
	return nil
}

func (b *Backend) createDebugMessenger() error {
	core.LogDebug("Creating Vulkan debugger...")
	debugCreateInfo := vk.DebugReportCallbackCreateInfo{
		SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit),
		PfnCallback: dbgCallbackFunc,
	}

	var dbg vk.DebugReportCallback
	if err := vk.Error(vk.CreateDebugReportCallback(b.context.Instance, &debugCreateInfo, nil, &dbg)); err != nil {
		return fmt.Errorf("debug callback creation failed: %w", err)
	}
	b.context.debugMessenger = dbg
	core.LogDebug("Vulkan debugger created.")
	return nil
}

func (b *Backend) createFrameResources() error {
	b.imageAvailableSemaphores = make([]vk.Semaphore, renderer.FrameSlotCount)
	b.queueCompleteSemaphores = make([]vk.Semaphore, renderer.FrameSlotCount)
	b.slotFences = make([]*VulkanFence, renderer.FrameSlotCount)
	b.commandBuffers = make([]*VulkanCommandBuffer, renderer.FrameSlotCount)

	for i := 0; i < renderer.FrameSlotCount; i++ {
		semaphoreCreateInfo := vk.SemaphoreCreateInfo{
			SType: vk.StructureTypeSemaphoreCreateInfo,
		}
		if res := vk.CreateSemaphore(b.context.Device.LogicalDevice, &semaphoreCreateInfo, b.context.Allocator, &b.imageAvailableSemaphores[i]); res != vk.Success {
			return fmt.Errorf("failed to create semaphore on image available: %s", VulkanResultString(res))
		}
		if res := vk.CreateSemaphore(b.context.Device.LogicalDevice, &semaphoreCreateInfo, b.context.Allocator, &b.queueCompleteSemaphores[i]); res != vk.Success {
			return fmt.Errorf("failed to create semaphore on queue complete: %s", VulkanResultString(res))
		}

		fence, err := NewFence(b.context, false)
		if err != nil {
			return err
		}
		b.slotFences[i] = fence

		cb, err := NewVulkanCommandBuffer(b.context, b.context.Device.GraphicsCommandPool, true)
		if err != nil {
			return err
		}
		b.commandBuffers[i] = cb
	}

	return b.createTransferBuffers()
}

func (b *Backend) createTransferBuffers() error {
	size := vk.DeviceSize(b.context.FramebufferWidth) * vk.DeviceSize(b.context.FramebufferHeight) * 4
	staging, err := BufferCreate(b.context, size, vk.BufferUsageTransferSrcBit)
	if err != nil {
		return err
	}
	b.staging = staging

	readback, err := BufferCreate(b.context, 4, vk.BufferUsageTransferDstBit)
	if err != nil {
		return err
	}
	b.readback = readback
	return nil
}

func (b *Backend) Shutdown() {
	if b.context == nil {
		return
	}
	if b.context.Device != nil && b.context.Device.LogicalDevice != nil {
		vk.DeviceWaitIdle(b.context.Device.LogicalDevice)
	}

	if b.cache != nil {
		b.cache.Shutdown()
		b.cache = nil
	}

	if b.staging != nil {
		b.staging.BufferDestroy(b.context)
		b.staging = nil
	}
	if b.readback != nil {
		b.readback.BufferDestroy(b.context)
		b.readback = nil
	}

	for i := range b.commandBuffers {
		if b.commandBuffers[i] != nil && b.commandBuffers[i].Handle != nil {
			b.commandBuffers[i].Free(b.context, b.context.Device.GraphicsCommandPool)
		}
	}
	b.commandBuffers = nil

	for i := range b.imageAvailableSemaphores {
		if b.imageAvailableSemaphores[i] != vk.NullSemaphore {
			vk.DestroySemaphore(b.context.Device.LogicalDevice, b.imageAvailableSemaphores[i], b.context.Allocator)
		}
	}
	b.imageAvailableSemaphores = nil
	for i := range b.queueCompleteSemaphores {
		if b.queueCompleteSemaphores[i] != vk.NullSemaphore {
			vk.DestroySemaphore(b.context.Device.LogicalDevice, b.queueCompleteSemaphores[i], b.context.Allocator)
		}
	}
	b.queueCompleteSemaphores = nil
	for i := range b.slotFences {
		if b.slotFences[i] != nil {
			b.slotFences[i].FenceDestroy(b.context)
		}
	}
	b.slotFences = nil

	if b.context.Swapchain != nil {
		b.context.Swapchain.SwapchainDestroy(b.context)
		b.context.Swapchain = nil
	}

	if b.context.Device != nil && b.context.Device.LogicalDevice != nil {
		core.LogDebug("Destroying Vulkan device...")
		DeviceDestroy(b.context)
	}

	if b.context.Surface != vk.NullSurface {
		core.LogDebug("Destroying Vulkan surface...")
		vk.DestroySurface(b.context.Instance, b.context.Surface, b.context.Allocator)
		b.context.Surface = vk.NullSurface
	}

	if b.context.debugMessenger != vk.NullDebugReportCallback {
		vk.DestroyDebugReportCallback(b.context.Instance, b.context.debugMessenger, b.context.Allocator)
		b.context.debugMessenger = vk.NullDebugReportCallback
	}

	if b.context.Instance != nil {
		core.LogDebug("Destroying Vulkan instance...")
		vk.DestroyInstance(b.context.Instance, b.context.Allocator)
		b.context.Instance = nil
	}

	b.context = nil
	b.raster = nil
	b.textures = nil
	b.lastImageIndex = -1
	b.initialized = false
}

func (b *Backend) BeginFrame() error {
	if !b.initialized {
		return fmt.Errorf("vulkan backend not initialized")
	}
	if b.context.RecreatingSwapchain {
		if err := b.recreateSwapchain(); err != nil {
			return err
		}
		return core.ErrSwapchainBooting
	}

	slot, err := b.pacer.AcquireSlot()
	if err != nil {
		return err
	}
	b.currentSlot = slot

	imageIndex, ok := b.context.Swapchain.SwapchainAcquireNextImageIndex(
		b.context, math.MaxUint64, b.imageAvailableSemaphores[slot], nil)
	if !ok {
		// Close out the aborted frame so the pacer keeps cycling.
		if _, serr := b.pacer.SubmitSlot(); serr != nil {
			return serr
		}
		return core.ErrSwapchainBooting
	}
	b.context.ImageIndex = imageIndex
	b.inFrame = true

	b.raster.Resize(int(b.context.FramebufferWidth), int(b.context.FramebufferHeight))
	b.raster.Clear(color.RGBA{R: renderer.ClearR, G: renderer.ClearG, B: renderer.ClearB, A: 255})
	return nil
}

func (b *Backend) EndFrame() error {
	if !b.inFrame {
		return fmt.Errorf("EndFrame without BeginFrame")
	}
	b.inFrame = false

	slot := b.currentSlot
	cb := b.commandBuffers[slot]
	fence := b.slotFences[slot]
	swapchainImage := b.context.Swapchain.Images[b.context.ImageIndex]

	b.staging.Upload(b.packFramebuffer())

	cb.Reset()
	if err := cb.Begin(false, false); err != nil {
		return err
	}

	ImageTransitionLayout(cb, swapchainImage, vk.ImageLayoutUndefined, vk.ImageLayoutTransferDstOptimal)

	region := vk.BufferImageCopy{
		ImageSubresource: vk.ImageSubresourceLayers{
			AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
			MipLevel:       0,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
		ImageExtent: vk.Extent3D{
			Width:  b.context.FramebufferWidth,
			Height: b.context.FramebufferHeight,
			Depth:  1,
		},
	}
	vk.CmdCopyBufferToImage(cb.Handle, b.staging.Handle, swapchainImage,
		vk.ImageLayoutTransferDstOptimal, 1, []vk.BufferImageCopy{region})

	ImageTransitionLayout(cb, swapchainImage, vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutPresentSrc)

	if err := cb.End(); err != nil {
		return err
	}

	if err := fence.FenceReset(b.context); err != nil {
		return err
	}

	submitInfo := vk.SubmitInfo{
		SType:                vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount:   1,
		PWaitSemaphores:      []vk.Semaphore{b.imageAvailableSemaphores[slot]},
		PWaitDstStageMask:    []vk.PipelineStageFlags{vk.PipelineStageFlags(vk.PipelineStageTransferBit)},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{cb.Handle},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{b.queueCompleteSemaphores[slot]},
	}
	if res := vk.QueueSubmit(b.context.Device.GraphicsQueue, 1, []vk.SubmitInfo{submitInfo}, fence.Handle); res != vk.Success {
		return fmt.Errorf("frame submission failed: %s", VulkanResultString(res))
	}
	cb.UpdateSubmitted()

	value, err := b.pacer.SubmitSlot()
	if err != nil {
		return err
	}
	b.device.register(value, fence)

	b.context.Swapchain.SwapchainPresent(b.context, b.context.Device.PresentQueue,
		b.queueCompleteSemaphores[slot], b.context.ImageIndex)
	b.lastImageIndex = int(b.context.ImageIndex)
	return nil
}

func (b *Backend) recreateSwapchain() error {
	vk.DeviceWaitIdle(b.context.Device.LogicalDevice)

	width, height := b.window.Size()
	sc, err := b.context.Swapchain.SwapchainRecreate(b.context, width, height)
	if err != nil {
		return err
	}
	b.context.Swapchain = sc
	b.context.RecreatingSwapchain = false
	b.lastImageIndex = -1

	// the staging buffer has to cover the new extent
	needed := vk.DeviceSize(b.context.FramebufferWidth) * vk.DeviceSize(b.context.FramebufferHeight) * 4
	if b.staging.Size < needed {
		b.staging.BufferDestroy(b.context)
		staging, err := BufferCreate(b.context, needed, vk.BufferUsageTransferSrcBit)
		if err != nil {
			return err
		}
		b.staging = staging
	}

	core.LogInfo("Swapchain recreated: %dx%d", b.context.FramebufferWidth, b.context.FramebufferHeight)
	return nil
}

// packFramebuffer returns the framebuffer bytes in the swapchain's
// pixel order.
func (b *Backend) packFramebuffer() []byte {
	pix := b.raster.Framebuffer().Pix
	if b.context.Swapchain.ImageFormat.Format != vk.FormatB8g8r8a8Unorm {
		return pix
	}
	if len(b.scratch) < len(pix) {
		b.scratch = make([]byte, len(pix))
	}
	swizzleRGBAToBGRA(b.scratch[:len(pix)], pix)
	return b.scratch[:len(pix)]
}

func swizzleRGBAToBGRA(dst, src []byte) {
	for i := 0; i+3 < len(src); i += 4 {
		dst[i] = src[i+2]
		dst[i+1] = src[i+1]
		dst[i+2] = src[i]
		dst[i+3] = src[i+3]
	}
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

// DrawOverlay source-over blends the overlay into the framebuffer
// before it is staged for the swapchain copy.
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

// SamplePixel reads one pixel back from the last presented swapchain
// image through a single-use transfer. This observes what actually
// reached the device, not the CPU-side framebuffer.
func (b *Backend) SamplePixel(x, y int) (color.RGBA, bool) {
	if !b.initialized || b.lastImageIndex < 0 {
		return color.RGBA{}, false
	}
	if x < 0 || y < 0 || uint32(x) >= b.context.FramebufferWidth || uint32(y) >= b.context.FramebufferHeight {
		return color.RGBA{}, false
	}

	b.pacer.WaitIdle()

	cb, err := AllocateAndBeginSingleUse(b.context, b.context.Device.GraphicsCommandPool)
	if err != nil {
		return color.RGBA{}, false
	}

	swapchainImage := b.context.Swapchain.Images[b.lastImageIndex]
	ImageTransitionLayout(cb, swapchainImage, vk.ImageLayoutPresentSrc, vk.ImageLayoutTransferSrcOptimal)

	region := vk.BufferImageCopy{
		ImageSubresource: vk.ImageSubresourceLayers{
			AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
			MipLevel:       0,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
		ImageOffset: vk.Offset3D{X: int32(x), Y: int32(y)},
		ImageExtent: vk.Extent3D{Width: 1, Height: 1, Depth: 1},
	}
	vk.CmdCopyImageToBuffer(cb.Handle, swapchainImage, vk.ImageLayoutTransferSrcOptimal,
		b.readback.Handle, 1, []vk.BufferImageCopy{region})

	ImageTransitionLayout(cb, swapchainImage, vk.ImageLayoutTransferSrcOptimal, vk.ImageLayoutPresentSrc)

	if err := cb.EndSingleUse(b.context, b.context.Device.GraphicsCommandPool, b.context.Device.GraphicsQueue); err != nil {
		return color.RGBA{}, false
	}

	return pixelFromBytes(b.context.Swapchain.ImageFormat.Format, b.readback.Read(4)), true
}

func pixelFromBytes(format vk.Format, raw []byte) color.RGBA {
	if len(raw) < 4 {
		return color.RGBA{}
	}
	if format == vk.FormatB8g8r8a8Unorm {
		return color.RGBA{R: raw[2], G: raw[1], B: raw[0], A: raw[3]}
	}
	return color.RGBA{R: raw[0], G: raw[1], B: raw[2], A: raw[3]}
}

func (b *Backend) Name() string {
	return "Vulkan"
}

func (b *Backend) Capabilities() renderer.Capabilities {
	return renderer.Capabilities{Hardware: true, NativeOverlay: false, PixelReadback: true}
}

// UploadTexture implements renderer.TextureUploader. Rasterization is
// CPU-side, so textures live on the heap and the handle indexes this
// backend's table.
func (b *Backend) UploadTexture(img *image.RGBA, slot renderer.DescriptorSlot) (renderer.TextureHandle, error) {
	handle := b.nextHandle
	b.nextHandle++
	b.textures[handle] = img
	b.names.NameTexture(handle, "vulkan-texture-%d", handle)
	b.names.NameSlot(slot, "vulkan-texture-%d", handle)
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
	if b.context != nil && b.context.Device != nil && b.context.Device.LogicalDevice != nil {
		vk.DeviceWaitIdle(b.context.Device.LogicalDevice)
	}
}

func dbgCallbackFunc(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType, object uint64, location uint64, messageCode int32, pLayerPrefix string, pMessage string, pUserData unsafe.Pointer) vk.Bool32 {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		core.LogError("[%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0:
		core.LogWarn("[%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	default:
		core.LogInfo("[%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	}
	return vk.Bool32(vk.False)
}
