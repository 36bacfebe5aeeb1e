package renderer

import (
	"math"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goshadervj/config"
	"github.com/richinsley/goshadervj/graphics"
	"github.com/richinsley/goshadervj/shader"
)

const (
	postProgramKey = "pass:post"

	// controls below this are treated as off
	effectEpsilon = 0.001

	maxBlurRadius = 12.0 // pixels
	maxChroma     = 0.03 // uv offset at the edge
)

// postParams are the shader-space values of the post chain. Zero (or 1 for
// the multiplicative ones) disables a stage.
type postParams struct {
	Mandala    float32
	Blur       float32
	Glow       float32
	Chroma     float32
	Hue        float32
	Saturation float32
	Black      float32
	White      float32
	Gamma      float32
}

func postParamsFor(c config.Controls) postParams {
	p := postParams{Saturation: 1, White: 1, Gamma: 1}

	// rounded, so the fold switches on at 1.5
	if seg := math.Floor(c.Mandala + 0.5); seg >= 2 {
		p.Mandala = float32(seg)
	}
	if c.Blur > effectEpsilon {
		p.Blur = float32(c.Blur / 100 * maxBlurRadius)
	}
	if c.Glow > effectEpsilon {
		p.Glow = float32(c.Glow / 100)
	}
	if c.Chroma > effectEpsilon {
		p.Chroma = float32(c.Chroma / 100 * maxChroma)
	}
	if hue := math.Mod(c.HueShift, 360); math.Abs(hue) > effectEpsilon {
		p.Hue = float32(hue * math.Pi / 180)
	}
	if math.Abs(c.Saturation-100) > effectEpsilon {
		p.Saturation = float32(c.Saturation / 100)
	}

	black := c.LevelShadows / 100
	white := c.LevelHighlights / 100
	gamma := math.Pow(2, (c.LevelMidtones-50)/25)
	if math.Abs(black) > effectEpsilon || math.Abs(white-1) > effectEpsilon || math.Abs(gamma-1) > effectEpsilon {
		if white <= black {
			white = black + 0.01
		}
		p.Black, p.White, p.Gamma = float32(black), float32(white), float32(gamma)
	}
	return p
}

// RenderPost runs the post chain from the post target onto the surface.
func RenderPost(rc *RenderContext) {
	in, ok := rc.Targets.Get(TargetPost)
	if !ok {
		return
	}
	prog := rc.Programs.Get(postProgramKey, shader.QuadVertex, shader.PostFragment)
	if prog == nil {
		return
	}
	p := postParamsFor(rc.Controls)

	bindScreen(rc.Width, rc.Height)
	gl.Disable(gl.BLEND)
	gl.UseProgram(prog.ID)
	bindTexture(prog.Uniform("uInput"), 0, in.Texture)
	setVec2(prog.Uniform("uResolution"), float32(in.Width), float32(in.Height))
	setFloat(prog.Uniform("uMandala"), p.Mandala)
	setFloat(prog.Uniform("uBlur"), p.Blur)
	setFloat(prog.Uniform("uGlow"), p.Glow)
	setFloat(prog.Uniform("uChroma"), p.Chroma)
	setFloat(prog.Uniform("uHue"), p.Hue)
	setFloat(prog.Uniform("uSaturation"), p.Saturation)
	setFloat(prog.Uniform("uBlack"), p.Black)
	setFloat(prog.Uniform("uWhite"), p.White)
	setFloat(prog.Uniform("uGamma"), p.Gamma)
	graphics.DrawQuad(rc.quad)
	unbindTextures(1)
}
