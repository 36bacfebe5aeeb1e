package renderer

import (
	"math"
	"testing"

	"github.com/richinsley/goshadervj/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostParamsDefaultsAreNeutral(t *testing.T) {
	p := postParamsFor(config.DefaultControls())
	assert.Equal(t, postParams{Saturation: 1, White: 1, Gamma: 1}, p)
}

func TestPostParamsMandalaRounds(t *testing.T) {
	c := config.DefaultControls()
	for _, tc := range []struct {
		in   float64
		want float32
	}{
		{0, 0}, {1, 0}, {1.4, 0}, {1.5, 2}, {1.6, 2}, {6.2, 6}, {24, 24},
	} {
		c.Mandala = tc.in
		assert.Equal(t, tc.want, postParamsFor(c).Mandala, "mandala %v", tc.in)
	}
}

func TestPostParamsScaling(t *testing.T) {
	c := config.DefaultControls()
	c.Blur = 50
	c.Glow = 40
	c.Chroma = 100
	c.HueShift = 180
	c.Saturation = 150

	p := postParamsFor(c)
	assert.InDelta(t, 6, p.Blur, eps)
	assert.InDelta(t, 0.4, p.Glow, eps)
	assert.InDelta(t, maxChroma, p.Chroma, eps)
	assert.InDelta(t, math.Pi, p.Hue, eps)
	assert.InDelta(t, 1.5, p.Saturation, eps)

	c.HueShift = 360
	assert.Zero(t, postParamsFor(c).Hue, "a full turn is no shift")
}

func TestPostParamsLevels(t *testing.T) {
	c := config.DefaultControls()
	c.LevelMidtones = 75
	p := postParamsFor(c)
	assert.InDelta(t, 2, p.Gamma, eps)
	assert.Zero(t, p.Black)
	assert.InDelta(t, 1, p.White, eps)

	c = config.DefaultControls()
	c.LevelShadows = 60
	c.LevelHighlights = 40
	p = postParamsFor(c)
	assert.InDelta(t, 0.6, p.Black, eps)
	assert.Greater(t, p.White, p.Black, "white point never crosses the black point")
}

func TestBlurStrength(t *testing.T) {
	assert.Zero(t, blurStrength(0))
	assert.Zero(t, blurStrength(1))
	assert.InDelta(t, 1, blurStrength(0.5), 1e-9)
	assert.Less(t, blurStrength(0.25), blurStrength(0.5))
	assert.InDelta(t, blurStrength(0.25), blurStrength(0.75), 1e-9)
	assert.Zero(t, blurStrength(-2))
}

func TestTransitionCenter(t *testing.T) {
	rc := &RenderContext{Width: 800, Height: 600}
	x, y := transitionCenter(rc)
	assert.Equal(t, float32(0.5), x)
	assert.Equal(t, float32(0.5), y)

	rc.HasPointer = true
	rc.Pointer = [2]float32{200, 150}
	x, y = transitionCenter(rc)
	assert.InDelta(t, 0.25, x, eps)
	assert.InDelta(t, 0.25, y, eps)
}

func TestRenderContextBody(t *testing.T) {
	lib := fakeLibrary{
		"plasma": "void mainImage(out vec4 fragColor, in vec2 fragCoord) { fragColor = vec4(1.0); }",
		"stripes": "void mainImage(out vec4 fragColor, in vec2 fragCoord) { fragColor = vec4(fragCoord.x); }",
		"sandbox": "uniform float time;\nvoid main() { gl_FragColor = vec4(time); }",
	}
	rc := newRenderContext(newFakeDevice(), nil, lib, nil, 8)

	b, ok := rc.body("plasma")
	require.True(t, ok)
	assert.Equal(t, lib["plasma"], b)

	b, ok = rc.body("sandbox")
	require.True(t, ok)
	assert.Contains(t, b, "mainImage")
	assert.Contains(t, b, "iTime")
	assert.NotContains(t, b, "gl_FragColor")

	b, ok = rc.body("plasma+stripes")
	require.True(t, ok)
	assert.Contains(t, b, "shapeImage")
	assert.Contains(t, b, "colorImage")

	_, ok = rc.body("plasma+missing")
	assert.False(t, ok)

	_, ok = rc.body("later")
	assert.False(t, ok)
	lib["later"] = lib["plasma"]
	_, ok = rc.body("later")
	assert.True(t, ok, "misses are retried")
}
