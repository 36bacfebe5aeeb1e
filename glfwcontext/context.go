// Package glfwcontext provides GLFW windows that act both as graphics
// contexts for the renderer and as frame-callback surfaces for the
// scheduler.
package glfwcontext

import (
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/goshadervj/scheduler"
)

// Options describes a window.
type Options struct {
	Width   int
	Height  int
	Title   string
	Visible bool
	// Share is the context whose objects the new window shares; nil for
	// the primary window.
	Share *Context
	// Monitor selects a monitor to go fullscreen on, or -1 for a window.
	Monitor int
}

// Context is one GLFW window and its GL context.
type Context struct {
	window *glfw.Window
	lost   bool

	// A map to store functions to be called on key presses.
	keyCallbacks map[glfw.Key]func()

	requests map[uint64]func(now time.Duration)
	nextID   uint64
}

// New creates and initializes a new GLFW window and returns a Context object.
func New(opts Options) (*Context, error) {
	var share *glfw.Window
	if opts.Share != nil {
		share = opts.Share.window
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	if opts.Visible {
		glfw.WindowHint(glfw.Visible, glfw.True)
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	title := opts.Title
	if title == "" {
		title = "goshadervj"
	}
	width, height := opts.Width, opts.Height
	var monitor *glfw.Monitor
	if opts.Monitor >= 0 {
		monitors := glfw.GetMonitors()
		if opts.Monitor >= len(monitors) {
			return nil, fmt.Errorf("monitor %d not found (%d connected)", opts.Monitor, len(monitors))
		}
		monitor = monitors[opts.Monitor]
		if mode := monitor.GetVideoMode(); mode != nil {
			width, height = mode.Width, mode.Height
		}
	}

	win, err := glfw.CreateWindow(width, height, title, monitor, share)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	c := &Context{
		window:       win,
		keyCallbacks: make(map[glfw.Key]func()),
		requests:     make(map[uint64]func(time.Duration)),
	}
	win.SetKeyCallback(c.glfwKeyCallback)

	win.MakeContextCurrent()
	glfw.SwapInterval(1)
	log.Debugf("created %dx%d window %q", width, height, title)
	return c, nil
}

// RegisterKeyCallback allows the main application to register a function to be
// called when a specific key is pressed.
func (c *Context) RegisterKeyCallback(key glfw.Key, f func()) {
	c.keyCallbacks[key] = f
}

func (c *Context) glfwKeyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}
	if key == glfw.KeyEscape {
		w.SetShouldClose(true)
	}
	if callback, ok := c.keyCallbacks[key]; ok {
		callback()
	}
}

// frameRequest cancels against the context that issued it.
type frameRequest struct {
	owner *Context
	id    uint64
}

func (r frameRequest) Cancel() {
	delete(r.owner.requests, r.id)
}

// RequestFrame queues fn for the next DispatchFrame of this window.
func (c *Context) RequestFrame(fn func(now time.Duration)) scheduler.Pending {
	c.nextID++
	c.requests[c.nextID] = fn
	return frameRequest{owner: c, id: c.nextID}
}

// DispatchFrame runs the queued frame callbacks with this context current
// and presents the result. It reports whether anything was drawn; the
// swap blocks on the display refresh, which paces the loop.
func (c *Context) DispatchFrame() bool {
	if len(c.requests) == 0 || !c.Current() {
		return false
	}
	ids := make([]uint64, 0, len(c.requests))
	for id := range c.requests {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	pending := c.requests
	c.requests = make(map[uint64]func(time.Duration))

	c.window.MakeContextCurrent()
	now := time.Duration(glfw.GetTime() * float64(time.Second))
	for _, id := range ids {
		pending[id](now)
	}
	c.window.SwapBuffers()
	return true
}

// Current reports whether the window is still open.
func (c *Context) Current() bool {
	return c.window != nil && !c.lost && !c.window.ShouldClose()
}

// Lost reports whether the window and its context have been destroyed.
func (c *Context) Lost() bool {
	return c.window == nil || c.lost
}

// Pointer returns the cursor position in framebuffer pixels, origin at the
// bottom left.
func (c *Context) Pointer() (float32, float32, bool) {
	if c.Lost() {
		return 0, 0, false
	}
	fbWidth, fbHeight := c.GetFramebufferSize()
	winWidth, winHeight := c.window.GetSize()
	scaleX, scaleY := 1.0, 1.0
	if winWidth > 0 && winHeight > 0 {
		scaleX = float64(fbWidth) / float64(winWidth)
		scaleY = float64(fbHeight) / float64(winHeight)
	}

	cursorX, cursorY := c.window.GetCursorPos()
	x := cursorX * scaleX
	y := float64(fbHeight) - cursorY*scaleY
	inside := x >= 0 && y >= 0 && x < float64(fbWidth) && y < float64(fbHeight)
	return float32(x), float32(y), inside
}

// MakeCurrent makes the context current for the calling goroutine.
func (c *Context) MakeCurrent() {
	if !c.Lost() {
		c.window.MakeContextCurrent()
	}
}

// Shutdown destroys the window. Pending frame requests are dropped.
func (c *Context) Shutdown() {
	if c.Lost() {
		return
	}
	c.window.Destroy()
	c.lost = true
	c.requests = make(map[uint64]func(time.Duration))
}

func (c *Context) ShouldClose() bool {
	return c.Lost() || c.window.ShouldClose()
}

func (c *Context) GetFramebufferSize() (int, int) {
	if c.Lost() {
		return 0, 0
	}
	return c.window.GetFramebufferSize()
}

func (c *Context) Time() float64 {
	return glfw.GetTime()
}

// SetTitle updates the window title.
func (c *Context) SetTitle(title string) {
	if !c.Lost() {
		c.window.SetTitle(title)
	}
}

// Window returns the underlying *glfw.Window.
func (c *Context) Window() *glfw.Window {
	return c.window
}

// PollEvents processes pending window events.
func PollEvents() {
	glfw.PollEvents()
}

// WaitEvents sleeps until an event arrives or timeout passes.
func WaitEvents(timeout time.Duration) {
	glfw.WaitEventsTimeout(timeout.Seconds())
}

// InitGraphics initializes the main graphics subsystem (GLFW). Must be called from the main thread.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}
	log.Info("GLFW initialized")
	return nil
}

// TerminateGraphics shuts down the graphics subsystem. Must be called from the main thread.
func TerminateGraphics() {
	glfw.Terminate()
	log.Info("GLFW terminated")
}
