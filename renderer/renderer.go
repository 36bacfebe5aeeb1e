package renderer

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goshadervj/audio"
	"github.com/richinsley/goshadervj/config"
	"github.com/richinsley/goshadervj/graphics"
	"github.com/richinsley/goshadervj/translator"
)

const defaultBlurSamples = 24

// Scene names what one side of a transition shows.
type Scene struct {
	Shader string
	Media  string
	Model  config.ModelSettings
}

// FrameInput is everything that varies from one frame to the next.
type FrameInput struct {
	From          Scene
	To            Scene
	Transitioning bool
	Progress      float64
	Controls      config.Controls
	Audio         audio.Bands
	Delta         time.Duration
	Paused        bool // freeze the simulation clock
}

type Options struct {
	// BlurSamples is the tap count of the transition zoom blur.
	BlurSamples int
	// OnShaderError is told about shader build failures and recoveries.
	OnShaderError ErrorFunc
}

// Renderer runs the full frame pipeline on one context at a time.
type Renderer struct {
	context graphics.Context
	rc      *RenderContext
}

// NewRenderer prepares the pipeline on ctx, which must be current.
func NewRenderer(ctx graphics.Context, tr translator.Translator, library Sources, mediaSource MediaSource, opts Options) (*Renderer, error) {
	if err := graphics.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	if opts.BlurSamples <= 0 {
		opts.BlurSamples = defaultBlurSamples
	}
	device := graphics.GLDevice{}
	programs := NewProgramCache(device, tr, opts.OnShaderError)

	r := &Renderer{
		context: ctx,
		rc:      newRenderContext(device, programs, library, mediaSource, opts.BlurSamples),
	}
	r.rc.createContextObjects()
	log.Debugf("renderer ready: %s", gl.GoStr(gl.GetString(gl.VERSION)))
	return r, nil
}

// Context returns the context the renderer currently draws to.
func (r *Renderer) Context() graphics.Context {
	return r.context
}

// Clock returns the simulation time in seconds.
func (r *Renderer) Clock() float64 {
	return r.rc.Clock
}

// Rebind moves the pipeline to another context. The contexts must share
// objects; only framebuffers and vertex arrays are rebuilt.
func (r *Renderer) Rebind(ctx graphics.Context) {
	if ctx == r.context {
		return
	}
	if r.context != nil && !r.context.Lost() {
		r.context.MakeCurrent()
		r.rc.releaseContextObjects()
	} else {
		r.rc.forgetContextObjects()
	}
	r.context = ctx
	ctx.MakeCurrent()
	r.rc.createContextObjects()
	log.Debug("renderer rebound to new surface")
}

// RenderFrame draws one frame onto the current surface.
func (r *Renderer) RenderFrame(in FrameInput) {
	if r.context == nil || r.context.Lost() {
		return
	}
	width, height := r.context.GetFramebufferSize()
	if width <= 0 || height <= 0 {
		return
	}

	rc := r.rc
	rc.Targets.EnsureSized(width, height)

	controls := in.Controls.Clamp()
	dt := 0.0
	if !in.Paused {
		dt = in.Delta.Seconds() * controls.TimeScale()
	}
	rc.Clock += dt
	rc.Delta = dt
	rc.Width, rc.Height = width, height
	rc.Controls = controls
	rc.Audio = in.Audio.Scale(controls.AudioScale())
	x, y, ok := r.context.Pointer()
	rc.Pointer, rc.HasPointer = [2]float32{x, y}, ok
	rc.Transition = Transition{
		Active:    in.Transitioning,
		Progress:  in.Progress,
		FromMedia: in.From.Media,
		ToMedia:   in.To.Media,
	}

	if rc.Media != nil {
		rc.Media.Refresh()
	}
	if in.Transitioning {
		rc.advanceSpin(in.To, in.From)
	} else {
		rc.advanceSpin(in.To)
	}

	RenderScene(rc, SceneRequest{Shader: in.To.Shader, Media: in.To.Media, Model: in.To.Model, Target: TargetSceneB})
	if in.Transitioning {
		RenderScene(rc, SceneRequest{Shader: in.From.Shader, Media: in.From.Media, Model: in.From.Model, Target: TargetSceneA})
	}
	RenderTransition(rc)
	RenderPost(rc)
	RenderParticles(rc)
}

// Shutdown releases everything the renderer created. The context must be
// current; the media catalog and the context itself belong to the caller.
func (r *Renderer) Shutdown() {
	if r.context != nil && !r.context.Lost() {
		r.rc.releaseContextObjects()
		r.rc.Programs.Destroy()
		graphics.DeleteTexture(r.rc.nullTexture)
	}
	r.rc.nullTexture = 0
}
