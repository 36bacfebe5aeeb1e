package glfwcontext

import (
	"testing"
	"time"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/goshadervj/graphics"
	"github.com/richinsley/goshadervj/scheduler"
	"github.com/stretchr/testify/assert"
)

var (
	_ graphics.Context  = (*Context)(nil)
	_ scheduler.Surface = (*Context)(nil)
)

func detached() *Context {
	return &Context{
		keyCallbacks: make(map[glfw.Key]func()),
		requests:     make(map[uint64]func(time.Duration)),
	}
}

func TestCancelTargetsTheIssuingWindow(t *testing.T) {
	primary, projection := detached(), detached()

	p := primary.RequestFrame(func(time.Duration) {})
	projection.RequestFrame(func(time.Duration) {})
	assert.Len(t, primary.requests, 1)
	assert.Len(t, projection.requests, 1)

	p.Cancel()
	assert.Empty(t, primary.requests)
	assert.Len(t, projection.requests, 1)

	p.Cancel()
	assert.Len(t, projection.requests, 1, "cancelling twice is harmless")
}

func TestRequestIDsAreDistinct(t *testing.T) {
	c := detached()
	a := c.RequestFrame(func(time.Duration) {})
	c.RequestFrame(func(time.Duration) {})
	a.Cancel()
	assert.Len(t, c.requests, 1)
}

func TestWindowlessContextIsLost(t *testing.T) {
	c := detached()
	c.RequestFrame(func(time.Duration) { t.Fatal("dispatched without a window") })

	assert.True(t, c.Lost())
	assert.False(t, c.Current())
	assert.True(t, c.ShouldClose())
	assert.False(t, c.DispatchFrame())
	_, _, ok := c.Pointer()
	assert.False(t, ok)
	w, h := c.GetFramebufferSize()
	assert.Zero(t, w)
	assert.Zero(t, h)

	c.Shutdown()
	c.MakeCurrent()
}
