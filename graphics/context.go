package graphics

// Context defines the interface for an OpenGL context.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	GetFramebufferSize() (int, int)
	Time() float64
	// Pointer returns the cursor position in framebuffer pixels with the
	// origin at the bottom left. ok is false when the cursor is outside.
	Pointer() (x, y float32, ok bool)
	// Lost reports whether the context can no longer be rendered to.
	Lost() bool
}
