package engine

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/spaghettifunk/prisma/engine/assets"
	"github.com/spaghettifunk/prisma/engine/config"
	"github.com/spaghettifunk/prisma/engine/core"
	"github.com/spaghettifunk/prisma/engine/overlay"
	"github.com/spaghettifunk/prisma/engine/platform"
	"github.com/spaghettifunk/prisma/engine/renderer"
	"github.com/spaghettifunk/prisma/engine/renderer/components"
	"github.com/spaghettifunk/prisma/engine/renderer/dx12"
	"github.com/spaghettifunk/prisma/engine/renderer/software"
	"github.com/spaghettifunk/prisma/engine/renderer/vulkan"
	"github.com/spaghettifunk/prisma/engine/resources"
)

const (
	targetFrameSeconds = 1.0 / 60.0

	dragDegreesPerPixel      = 0.4
	zoomDistancePerStep      = 0.5
	idleSpinDegreesPerSecond = 12.0
)

// Application wires the platform, the backend selector and the content
// layer into the run loop. One instance drives one window for the
// lifetime of the process.
type Application struct {
	cfg  *config.Config
	game *Game

	plat     *platform.Platform
	selector *renderer.Selector
	overlay  *overlay.Renderer
	watcher  *assets.Watcher
	camera   *components.OrbitCamera

	mesh      *resources.MeshAsset
	meshPath  string
	clock     *core.Clock
	lastTime  float64
	isRunning bool

	wireOverlay bool
	wireKeyHeld bool
}

func New(cfg *config.Config, game *Game) (*Application, error) {
	if cfg == nil || game == nil {
		return nil, fmt.Errorf("application requires a config and a game")
	}
	return &Application{
		cfg:   cfg,
		game:  game,
		clock: core.NewClock(),
		selector: renderer.NewSelector(map[renderer.Kind]renderer.BackendFactory{
			renderer.KindDx12:     dx12.New,
			renderer.KindVulkan:   vulkan.New,
			renderer.KindSoftware: software.New,
		}),
	}, nil
}

func (a *Application) Initialize() error {
	core.SetLogLevel(a.cfg.LogLevel)
	if err := core.MetricsInitialize(); err != nil {
		return err
	}

	plat, err := platform.New()
	if err != nil {
		return err
	}
	a.plat = plat
	if err := plat.Startup(a.cfg.Window.Title, a.cfg.Window.PosX, a.cfg.Window.PosY,
		a.cfg.Window.Width, a.cfg.Window.Height, platform.ClientNoAPI); err != nil {
		return err
	}

	renderer.SetDepthRangeCheck(a.cfg.Renderer.DepthRangeCheck)
	if _, err := a.selector.SelectAndInitialize(plat, a.cfg.Renderer.Backend); err != nil {
		return err
	}

	a.overlay = overlay.New(a.cfg.AssetsDir)
	a.camera = components.NewOrbitCamera(
		a.cfg.Camera.Distance, a.cfg.Camera.MinDistance, a.cfg.Camera.MaxDistance)

	watcher, err := assets.NewWatcher()
	if err != nil {
		core.LogWarn("asset watching disabled: %v", err)
	} else {
		a.watcher = watcher
	}

	mesh, err := a.game.initialize()
	if err != nil {
		return err
	}
	a.setMesh(mesh)

	a.isRunning = true
	return nil
}

// setMesh swaps the displayed mesh and repoints the file watcher at its
// source files.
func (a *Application) setMesh(mesh *resources.MeshAsset) {
	a.mesh = mesh
	a.meshPath = ""
	if mesh == nil {
		return
	}
	if mesh.SourcePath != "" {
		if abs, err := filepath.Abs(mesh.SourcePath); err == nil {
			a.meshPath = abs
		}
	}

	if a.watcher == nil {
		return
	}
	watched := append([]string(nil), mesh.TexturePaths...)
	if mesh.SourcePath != "" {
		watched = append(watched, mesh.SourcePath)
	}
	if err := a.watcher.WatchFiles(watched); err != nil {
		core.LogWarn("cannot watch mesh sources: %v", err)
	}
}

func (a *Application) Run() error {
	a.clock.Start()
	a.clock.Update()
	a.lastTime = a.clock.Elapsed()

	for a.isRunning && !a.plat.Window().ShouldClose() {
		a.clock.Update()
		elapsed := a.clock.Elapsed()
		delta := elapsed - a.lastTime
		a.lastTime = elapsed
		frameStart := platform.GetAbsoluteTime()

		a.plat.PumpMessages()
		a.handleInput(delta)
		a.applyAssetChanges()

		if err := a.game.update(delta); err != nil {
			core.LogError("game update failed: %v", err)
			return err
		}

		if err := a.renderFrame(); err != nil {
			return err
		}

		frameElapsed := platform.GetAbsoluteTime() - frameStart
		core.MetricsUpdate(frameElapsed)
		if !a.cfg.Renderer.Vsync && frameElapsed < targetFrameSeconds {
			time.Sleep(time.Duration((targetFrameSeconds - frameElapsed) * float64(time.Second)))
		}
	}
	return nil
}

func (a *Application) renderFrame() error {
	backend := a.selector.Active()
	overlayImg := a.overlay.RenderStatus(a.statusLines())

	err := backend.BeginFrame()
	if errors.Is(err, core.ErrSwapchainBooting) {
		// Swapchain is mid-recreate; skip this frame entirely.
		return nil
	}
	if err != nil {
		return fmt.Errorf("begin frame: %w", err)
	}

	backend.RenderModelWireframe(a.mesh,
		a.camera.Yaw, a.camera.Pitch, a.camera.Roll, a.camera.Distance, a.wireOverlay)
	backend.DrawOverlay(overlayImg)

	if err := backend.EndFrame(); err != nil {
		return fmt.Errorf("end frame: %w", err)
	}

	// A DegradationError here means the automatic software fallback
	// itself failed; there is nothing left to render with.
	return a.selector.ObserveFrame(overlayImg != nil)
}

func (a *Application) handleInput(delta float64) {
	in := a.plat.Window().Input()

	if in.KeyDown(glfw.KeyEscape) {
		a.isRunning = false
		return
	}

	wireHeld := in.KeyDown(glfw.KeyW)
	if wireHeld && !a.wireKeyHeld {
		a.wireOverlay = !a.wireOverlay
	}
	a.wireKeyHeld = wireHeld

	if in.KeyDown(glfw.KeyR) {
		a.camera.Reset()
	}

	if in.MouseLeftDown() {
		a.camera.Rotate(
			float32(in.DeltaX)*dragDegreesPerPixel,
			float32(in.DeltaY)*dragDegreesPerPixel)
	} else {
		a.camera.Spin(idleSpinDegreesPerSecond * float32(delta))
	}

	if in.ScrollY != 0 {
		a.camera.Zoom(float32(in.ScrollY) * zoomDistancePerStep)
	}
}

// applyAssetChanges reacts to files the watcher saw change on disk: a
// changed model reloads outright, a changed texture just invalidates
// the backend's cache so the next draw re-decodes it.
func (a *Application) applyAssetChanges() {
	if a.watcher == nil {
		return
	}
	changes := a.watcher.TakeChanges()
	if len(changes) == 0 {
		return
	}

	for _, path := range changes {
		if a.meshPath != "" && path == a.meshPath {
			core.LogInfo("model changed on disk, reloading: %s", path)
			mesh, err := assets.LoadModel(a.meshPath)
			if err != nil {
				core.LogWarn("model reload failed, keeping previous mesh: %v", err)
				continue
			}
			a.setMesh(mesh)
		}
	}
	a.selector.Active().InvalidateTextures()
}

func (a *Application) statusLines() []string {
	backend := a.selector.Active()
	if backend == nil {
		return nil
	}

	fps, frameMS := core.MetricsFrame()
	lines := []string{
		a.cfg.Window.Title,
		fmt.Sprintf("Renderer: %s", backend.Name()),
		a.selector.Status(),
		fmt.Sprintf("%.0f fps / %.2f ms", fps, frameMS),
	}
	if a.mesh.Valid() {
		lines = append(lines, fmt.Sprintf("%d triangles, %d submeshes",
			a.mesh.TriangleCount(), len(a.mesh.Submeshes)))
		if n := len(a.mesh.Animations); n > 0 {
			lines = append(lines, fmt.Sprintf("%d animation clips (not played)", n))
		}
	}
	lines = append(lines, "Drag to orbit, scroll to zoom, W wireframe, R reset")
	return lines
}

func (a *Application) Shutdown() error {
	a.isRunning = false

	if err := a.game.shutdown(); err != nil {
		core.LogError("game shutdown failed: %v", err)
	}
	if a.watcher != nil {
		a.watcher.Close()
		a.watcher = nil
	}
	a.selector.Shutdown()
	if a.plat != nil {
		a.plat.Shutdown()
		a.plat = nil
	}
	return nil
}
