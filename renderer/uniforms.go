package renderer

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goshadervj/graphics"
)

func setFloat(loc int32, v float32) {
	if loc != -1 {
		gl.Uniform1f(loc, v)
	}
}

func setInt(loc int32, v int32) {
	if loc != -1 {
		gl.Uniform1i(loc, v)
	}
}

func setVec2(loc int32, x, y float32) {
	if loc != -1 {
		gl.Uniform2f(loc, x, y)
	}
}

func setVec3(loc int32, v mgl32.Vec3) {
	if loc != -1 {
		gl.Uniform3f(loc, v[0], v[1], v[2])
	}
}

func setVec4(loc int32, v [4]float32) {
	if loc != -1 {
		gl.Uniform4f(loc, v[0], v[1], v[2], v[3])
	}
}

func setMat4(loc int32, m mgl32.Mat4) {
	if loc != -1 {
		gl.UniformMatrix4fv(loc, 1, false, &m[0])
	}
}

// bindTexture binds tex to a texture unit and points the sampler at it.
func bindTexture(loc int32, unit uint32, tex uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	setInt(loc, int32(unit))
}

func unbindTextures(units uint32) {
	for i := uint32(0); i < units; i++ {
		gl.ActiveTexture(gl.TEXTURE0 + i)
		gl.BindTexture(gl.TEXTURE_2D, 0)
	}
	gl.ActiveTexture(gl.TEXTURE0)
}

func bindTarget(t graphics.Target) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.FBO)
	gl.Viewport(0, 0, int32(t.Width), int32(t.Height))
}

func bindScreen(width, height int) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(width), int32(height))
}
