package renderer

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goshadervj/graphics"
	"github.com/richinsley/goshadervj/shader"
)

const transitionProgramKey = "pass:transition"

// blurStrength peaks at the midpoint of a transition and vanishes at both
// ends.
func blurStrength(progress float64) float64 {
	p := clamp01(progress)
	return 4 * p * (1 - p)
}

// transitionCenter is the zoom-blur origin in uv space: the pointer when
// it is over the surface, else the middle.
func transitionCenter(rc *RenderContext) (float32, float32) {
	if !rc.HasPointer || rc.Width <= 0 || rc.Height <= 0 {
		return 0.5, 0.5
	}
	return rc.Pointer[0] / float32(rc.Width), rc.Pointer[1] / float32(rc.Height)
}

// transitionInputs picks the buffers and blend values for the transition
// pass. Outside a transition, or when scene A is missing, both sides are
// scene B at full progress with no blur.
func transitionInputs(rc *RenderContext) (from, to graphics.Target, progress, strength float64, ok bool) {
	to, ok = rc.Targets.Get(TargetSceneB)
	if !ok {
		return graphics.Target{}, graphics.Target{}, 0, 0, false
	}
	from, progress, strength = to, 1, 0
	if rc.Transition.Active {
		if a, okA := rc.Targets.Get(TargetSceneA); okA {
			from = a
		}
		progress = clamp01(rc.Transition.Progress)
		strength = blurStrength(progress) * (1 + rc.Audio.Overall)
	}
	return from, to, progress, strength, true
}

// RenderTransition combines the two scene buffers into the post target.
func RenderTransition(rc *RenderContext) {
	out, ok := rc.Targets.Get(TargetPost)
	if !ok {
		return
	}
	from, to, progress, strength, ok := transitionInputs(rc)
	if !ok {
		return
	}

	prog := rc.Programs.Get(transitionProgramKey, shader.QuadVertex, shader.TransitionFragment)
	if prog == nil {
		return
	}
	cx, cy := transitionCenter(rc)

	bindTarget(out)
	gl.Disable(gl.BLEND)
	gl.UseProgram(prog.ID)
	bindTexture(prog.Uniform("uFrom"), 0, from.Texture)
	bindTexture(prog.Uniform("uTo"), 1, to.Texture)
	setFloat(prog.Uniform("uProgress"), float32(progress))
	setFloat(prog.Uniform("uStrength"), float32(strength))
	setVec2(prog.Uniform("uCenter"), cx, cy)
	setInt(prog.Uniform("uSamples"), int32(rc.blurSamples))
	graphics.DrawQuad(rc.quad)
	unbindTextures(2)
}
