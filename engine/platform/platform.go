package platform

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/spaghettifunk/prisma/engine/containers"
	"github.com/spaghettifunk/prisma/engine/core"
)

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

// ClientAPI selects the window surface mode. Hardware backends drive
// the surface themselves and need NoAPI; the software backend blits
// through an OpenGL context.
type ClientAPI int

const (
	ClientNoAPI ClientAPI = iota
	ClientOpenGL
)

// Window wraps the native window plus the event queue feeding the
// per-frame input snapshot.
type Window struct {
	handle *glfw.Window
	width  uint32
	height uint32

	events *containers.RingQueue[Event]
	input  InputState
}

// Handle exposes the native window for backend surface creation.
func (w *Window) Handle() *glfw.Window {
	return w.handle
}

func (w *Window) Size() (uint32, uint32) {
	return w.width, w.height
}

func (w *Window) ShouldClose() bool {
	return w.handle.ShouldClose()
}

// Input returns the snapshot built by the last PumpMessages call.
func (w *Window) Input() *InputState {
	return &w.input
}

type Platform struct {
	window *Window

	title string
	posX  int32
	posY  int32
	api   ClientAPI
}

func New() (*Platform, error) {
	return &Platform{}, nil
}

func (p *Platform) Startup(title string, x, y int32, width, height uint32, api ClientAPI) error {
	if err := glfw.Init(); err != nil {
		core.LogError("failed to initialize glfw: %s", err)
		return err
	}

	p.title = title
	p.posX = x
	p.posY = y

	return p.createWindow(width, height, api)
}

func (p *Platform) createWindow(width, height uint32, api ClientAPI) error {
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	switch api {
	case ClientOpenGL:
		glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLAPI)
		glfw.WindowHint(glfw.ContextVersionMajor, 4)
		glfw.WindowHint(glfw.ContextVersionMinor, 1)
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
		glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	default:
		glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // Required for Vulkan.
	}

	handle, err := glfw.CreateWindow(int(width), int(height), p.title, nil, nil)
	if err != nil {
		core.LogError("failed to create window: %s", err)
		return err
	}

	win := &Window{
		handle: handle,
		width:  width,
		height: height,
		events: containers.NewRingQueue[Event](eventQueueCapacity),
	}
	win.installCallbacks()

	if api == ClientOpenGL {
		handle.MakeContextCurrent()
	}
	handle.SetPos(int(p.posX), int(p.posY))
	handle.Show()

	p.window = win
	p.api = api
	return nil
}

// Recreate destroys the current window and builds a new one with a
// different client API. Used when falling back from a hardware backend
// to the software one, which presents through OpenGL.
func (p *Platform) Recreate(api ClientAPI) error {
	if p.window == nil {
		return fmt.Errorf("platform has no window to recreate")
	}
	if p.api == api {
		return nil
	}
	width, height := p.window.Size()
	x, y := p.window.handle.GetPos()
	p.posX, p.posY = int32(x), int32(y)
	p.window.handle.Destroy()
	p.window = nil

	return p.createWindow(width, height, api)
}

func (p *Platform) Shutdown() error {
	if p.window != nil {
		p.window.handle.Destroy()
		p.window = nil
	}
	glfw.Terminate()
	return nil
}

func (p *Platform) Window() *Window {
	return p.window
}

// GetRequiredExtensionNames lists the instance extensions the window
// system needs for Vulkan surface creation.
func (p *Platform) GetRequiredExtensionNames() []string {
	if p.window == nil {
		return nil
	}
	return p.window.handle.GetRequiredInstanceExtensions()
}

// PumpMessages polls the OS, then dispatches every queued event into
// the window's input snapshot. Dispatch is synchronous on the calling
// thread; nothing is handled from inside GLFW callbacks.
func (p *Platform) PumpMessages() {
	if p.window == nil {
		return
	}
	p.window.input.beginFrame()
	glfw.PollEvents()

	for {
		ev, err := p.window.events.Dequeue()
		if err != nil {
			break
		}
		p.window.input.apply(ev)
		if ev.Type == EventResize {
			p.window.width = uint32(ev.Width)
			p.window.height = uint32(ev.Height)
		}
	}
}

// GetAbsoluteTime returns the GLFW timebase in seconds.
func GetAbsoluteTime() float64 {
	return glfw.GetTime()
}
