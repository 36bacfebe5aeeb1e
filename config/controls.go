package config

import "math"

// Controls is the flat record of user-adjustable render parameters. Values
// are in slider units; the renderer maps them to shader ranges.
type Controls struct {
	Speed           float64 `toml:"speed"`            // percent of realtime, 0..400
	Zoom            float64 `toml:"zoom"`             // slider 0..100, 50 is 1x
	AudioInfluence  float64 `toml:"audio_influence"`  // percent, 0..200
	OverlayOpacity  float64 `toml:"overlay_opacity"`  // percent
	Blur            float64 `toml:"blur"`             // percent
	Glow            float64 `toml:"glow"`             // percent
	Chroma          float64 `toml:"chroma"`           // percent
	HueShift        float64 `toml:"hue_shift"`        // degrees
	Saturation      float64 `toml:"saturation"`       // percent, 100 unchanged
	LevelShadows    float64 `toml:"level_shadows"`    // black point, percent
	LevelMidtones   float64 `toml:"level_midtones"`   // 50 is gamma 1
	LevelHighlights float64 `toml:"level_highlights"` // white point, percent
	Mandala         float64 `toml:"mandala"`          // fold segments
	Particles       float64 `toml:"particles"`        // percent
}

// DefaultControls returns the neutral control set: realtime, 1x zoom and
// every effect off.
func DefaultControls() Controls {
	return Controls{
		Speed:           100,
		Zoom:            50,
		AudioInfluence:  100,
		OverlayOpacity:  100,
		Saturation:      100,
		LevelMidtones:   50,
		LevelHighlights: 100,
	}
}

// Clamp forces every field into its valid range.
func (c Controls) Clamp() Controls {
	c.Speed = clamp(c.Speed, 0, 400)
	c.Zoom = clamp(c.Zoom, 0, 100)
	c.AudioInfluence = clamp(c.AudioInfluence, 0, 200)
	c.OverlayOpacity = clamp(c.OverlayOpacity, 0, 100)
	c.Blur = clamp(c.Blur, 0, 100)
	c.Glow = clamp(c.Glow, 0, 100)
	c.Chroma = clamp(c.Chroma, 0, 100)
	c.HueShift = math.Mod(c.HueShift, 360)
	if c.HueShift < 0 {
		c.HueShift += 360
	}
	c.Saturation = clamp(c.Saturation, 0, 200)
	c.LevelShadows = clamp(c.LevelShadows, 0, 100)
	c.LevelMidtones = clamp(c.LevelMidtones, 0, 100)
	c.LevelHighlights = clamp(c.LevelHighlights, 0, 100)
	c.Mandala = clamp(c.Mandala, 0, 24)
	c.Particles = clamp(c.Particles, 0, 100)
	return c
}

const (
	minZoom = 0.002
	maxZoom = 500.0
)

// ZoomFactor maps the linear zoom slider onto an exponential curve so
// that 50 is 1x and each end spans the same number of octaves.
func (c Controls) ZoomFactor() float64 {
	t := clamp(c.Zoom, 0, 100) / 100
	return math.Exp(math.Log(minZoom) + t*(math.Log(maxZoom)-math.Log(minZoom)))
}

// TimeScale is the simulation clock rate relative to wall time.
func (c Controls) TimeScale() float64 {
	return clamp(c.Speed, 0, 400) / 100
}

// AudioScale is the multiplier applied to band levels before they reach
// shaders.
func (c Controls) AudioScale() float64 {
	return clamp(c.AudioInfluence, 0, 200) / 100
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
