package shader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourcesDeclareUniforms(t *testing.T) {
	cases := map[string]struct {
		src      string
		uniforms []string
	}{
		"composite":  {CompositeFragment, []string{"uBase", "uOverlay", "uHasOverlay", "uCanvasSize", "uOverlaySize", "uOpacity"}},
		"transition": {TransitionFragment, []string{"uFrom", "uTo", "uProgress", "uStrength", "uCenter", "uSamples"}},
		"post":       {PostFragment, []string{"uInput", "uResolution", "uMandala", "uBlur", "uGlow", "uChroma", "uHue", "uSaturation", "uBlack", "uWhite", "uGamma"}},
		"particles":  {ParticleFragment, []string{"uResolution", "uTime", "uAudio", "uAmount"}},
		"model-vs":   {ModelVertex, []string{"uModel", "uView", "uProjection", "uTime", "uNoise"}},
		"model-fs":   {ModelFragment, []string{"uColor", "uAlpha", "uUseTexture", "uBaseTexture", "uCameraPos"}},
	}
	for name, c := range cases {
		assert.True(t, strings.HasPrefix(c.src, "#version 300 es\n"), name)
		for _, u := range c.uniforms {
			assert.Regexp(t, `uniform\s+\w+\s+`+u+`;`, c.src, "%s: %s", name, u)
		}
	}
}

func TestBodiesDefineMainImage(t *testing.T) {
	for _, body := range []string{ErrorBody, BlackBody} {
		assert.Contains(t, body, "void mainImage(out vec4 fragColor, in vec2 fragCoord)")
		assert.NotContains(t, body, "#version")
	}
}

func TestPostChromaKeepsGlow(t *testing.T) {
	assert.Contains(t, PostFragment, "c.r += blurred(uv + offset).r - base.r;")
	assert.Contains(t, PostFragment, "c.b += blurred(uv - offset).b - base.b;")
	assert.NotRegexp(t, `c\.[rb]\s*=\s*blurred`, PostFragment)
}

func TestParticleDensityFollowsAudio(t *testing.T) {
	assert.Regexp(t, `float density = [^;]*uAudio\.w[^;]*;`, ParticleFragment)
}
