package renderer

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goshadervj/graphics"
	"github.com/richinsley/goshadervj/shader"
)

const particleProgramKey = "pass:particles"

// RenderParticles adds the particle layer onto the surface. It draws
// nothing while the particle control is off.
func RenderParticles(rc *RenderContext) {
	amount := rc.Controls.Particles / 100
	if amount <= effectEpsilon {
		return
	}
	prog := rc.Programs.Get(particleProgramKey, shader.QuadVertex, shader.ParticleFragment)
	if prog == nil {
		return
	}

	bindScreen(rc.Width, rc.Height)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.ONE, gl.ONE)
	gl.UseProgram(prog.ID)
	setVec2(prog.Uniform("uResolution"), float32(rc.Width), float32(rc.Height))
	setFloat(prog.Uniform("uTime"), float32(rc.Clock))
	setVec4(prog.Uniform("uAudio"), rc.Audio.Vec4())
	setFloat(prog.Uniform("uAmount"), float32(amount))
	graphics.DrawQuad(rc.quad)
	gl.Disable(gl.BLEND)
}
