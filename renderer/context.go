package renderer

import (
	"image"

	"github.com/charmbracelet/log"
	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goshadervj/audio"
	"github.com/richinsley/goshadervj/config"
	"github.com/richinsley/goshadervj/graphics"
	"github.com/richinsley/goshadervj/media"
	"github.com/richinsley/goshadervj/transpiler"
)

// Sources resolves shader keys to source text.
type Sources interface {
	Source(key string) (string, bool)
}

// MediaSource resolves overlay keys. Refresh is called once per frame
// before any scene is drawn.
type MediaSource interface {
	Lookup(key string) (media.Overlay, bool)
	Refresh()
}

// Transition is the cross-fade state of the current frame.
type Transition struct {
	Active    bool
	Progress  float64 // 0 shows the outgoing scene, 1 the incoming one
	FromMedia string
	ToMedia   string
}

// RenderContext carries everything a render stage needs. Stages read the
// per-frame fields and never keep references to the context.
type RenderContext struct {
	Device   graphics.Device
	Programs *ProgramCache
	Targets  *TargetSet
	Library  Sources
	Media    MediaSource

	// per frame
	Width      int
	Height     int
	Clock      float64 // simulation seconds
	Delta      float64 // simulation seconds since the previous frame
	Audio      audio.Bands
	Pointer    [2]float32 // framebuffer pixels
	HasPointer bool
	Controls   config.Controls
	Transition Transition

	// context objects
	quad        uint32
	quadBuffer  uint32
	nullTexture uint32
	models      map[*media.Model]modelArrays

	bodies      map[string]string
	spin        map[string]float64
	blurSamples int
	warned      map[string]bool
}

type modelArrays struct {
	triangles uint32
	edges     uint32
}

func newRenderContext(device graphics.Device, programs *ProgramCache, library Sources, mediaSource MediaSource, blurSamples int) *RenderContext {
	return &RenderContext{
		Device:      device,
		Programs:    programs,
		Targets:     NewTargetSet(device),
		Library:     library,
		Media:       mediaSource,
		Controls:    config.DefaultControls(),
		models:      make(map[*media.Model]modelArrays),
		bodies:      make(map[string]string),
		spin:        make(map[string]float64),
		blurSamples: blurSamples,
		warned:      make(map[string]bool),
	}
}

// warnOnce logs msg the first time it is seen.
func (rc *RenderContext) warnOnce(msg string, keyvals ...interface{}) {
	if rc.warned[msg] {
		return
	}
	rc.warned[msg] = true
	log.Warn(msg, keyvals...)
}

// body returns the adapted mainImage body for a shader key, composing
// "shape+color" keys from their two halves. Misses are not remembered so a
// shader added to the library later is picked up.
func (rc *RenderContext) body(key string) (string, bool) {
	if b, ok := rc.bodies[key]; ok {
		return b, true
	}
	if rc.Library == nil {
		return "", false
	}

	var b string
	if shape, color, ok := transpiler.SplitComposite(key); ok {
		s, okS := rc.Library.Source(shape)
		c, okC := rc.Library.Source(color)
		if okS && okC {
			b = transpiler.WrapComposite(transpiler.Adapt(s), transpiler.Adapt(c))
		}
	} else if src, ok := rc.Library.Source(key); ok {
		b = transpiler.Adapt(src)
	}
	if b == "" {
		return "", false
	}
	rc.bodies[key] = b
	return b, true
}

// createContextObjects builds the objects that cannot be shared between
// GL contexts.
func (rc *RenderContext) createContextObjects() {
	rc.quad, rc.quadBuffer = graphics.NewQuad()
	if rc.nullTexture == 0 {
		rc.nullTexture = graphics.NewTexture(1, 1, image.NewRGBA(image.Rect(0, 0, 1, 1)))
	}
}

// releaseContextObjects deletes per-context objects. The owning context
// must be current.
func (rc *RenderContext) releaseContextObjects() {
	rc.Targets.Destroy()
	for m, a := range rc.models {
		gl.DeleteVertexArrays(1, &a.triangles)
		gl.DeleteVertexArrays(1, &a.edges)
		delete(rc.models, m)
	}
	if rc.quad != 0 {
		gl.DeleteVertexArrays(1, &rc.quad)
		gl.DeleteBuffers(1, &rc.quadBuffer)
	}
	rc.quad, rc.quadBuffer = 0, 0
}

// forgetContextObjects drops per-context handles whose context is gone.
func (rc *RenderContext) forgetContextObjects() {
	rc.Targets.Forget()
	rc.models = make(map[*media.Model]modelArrays)
	rc.quad, rc.quadBuffer = 0, 0
}

func (rc *RenderContext) arraysFor(m *media.Model) modelArrays {
	if a, ok := rc.models[m]; ok {
		return a
	}
	var a modelArrays

	gl.GenVertexArrays(1, &a.triangles)
	gl.BindVertexArray(a.triangles)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.TriangleBuffer)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 6*4, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, 6*4, 3*4)

	gl.GenVertexArrays(1, &a.edges)
	gl.BindVertexArray(a.edges)
	if m.EdgeBuffer != 0 {
		gl.BindBuffer(gl.ARRAY_BUFFER, m.EdgeBuffer)
		gl.EnableVertexAttribArray(0)
		gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	rc.models[m] = a
	return a
}
