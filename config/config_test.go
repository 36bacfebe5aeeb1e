package config

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZoomFactor(t *testing.T) {
	c := DefaultControls()
	assert.InDelta(t, 1.0, c.ZoomFactor(), 1e-9)

	c.Zoom = 0
	assert.InDelta(t, 0.002, c.ZoomFactor(), 1e-9)
	c.Zoom = 100
	assert.InDelta(t, 500.0, c.ZoomFactor(), 1e-6)

	// equal slider steps give equal ratios
	c.Zoom = 25
	lo := c.ZoomFactor()
	c.Zoom = 75
	hi := c.ZoomFactor()
	assert.InDelta(t, 1.0, lo*hi, 1e-9)
}

func TestModelZoomIsLinear(t *testing.T) {
	m := DefaultModelSettings()
	m.Zoom = 0
	assert.InDelta(t, 0.1, m.ZoomFactor(), 1e-9)
	m.Zoom = 50
	assert.InDelta(t, 2.1, m.ZoomFactor(), 1e-9)
	m.Zoom = 100
	assert.InDelta(t, 4.1, m.ZoomFactor(), 1e-9)
}

func TestClamp(t *testing.T) {
	c := Controls{
		Speed:    -10,
		Zoom:     math.NaN(),
		Blur:     300,
		HueShift: -90,
		Mandala:  99,
	}.Clamp()
	assert.Equal(t, 0.0, c.Speed)
	assert.Equal(t, 0.0, c.Zoom)
	assert.Equal(t, 100.0, c.Blur)
	assert.Equal(t, 270.0, c.HueShift)
	assert.Equal(t, 24.0, c.Mandala)
}

func TestClipPlanes(t *testing.T) {
	near, far := ModelSettings{}.ClipPlanes()
	assert.Equal(t, 0.1, near)
	assert.Greater(t, far, near)

	near, far = ModelSettings{Near: 1, Far: 50}.ClipPlanes()
	assert.Equal(t, 1.0, near)
	assert.Equal(t, 50.0, far)
}

func TestKindText(t *testing.T) {
	var cam CameraKind
	require.NoError(t, cam.UnmarshalText([]byte(" Fisheye ")))
	assert.Equal(t, CameraFisheye, cam)
	assert.Equal(t, 140.0, cam.FieldOfView())
	assert.Error(t, cam.UnmarshalText([]byte("telephoto")))

	var anim AnimationKind
	require.NoError(t, anim.UnmarshalText([]byte("audio-spin")))
	assert.Equal(t, AnimationAudioSpin, anim)

	tr := TransitionSpiral
	require.NoError(t, tr.UnmarshalText([]byte("melt")))
	assert.Equal(t, TransitionFade, tr)

	b, err := CameraOrthographic.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "orthographic", string(b))
	assert.Equal(t, "camera(9)", CameraKind(9).String())
}

func TestLoadPreset(t *testing.T) {
	p, err := LoadPreset(filepath.Join("testdata", "show.toml"))
	require.NoError(t, err)

	assert.Equal(t, "shaders", p.ShaderDir)
	assert.True(t, p.Watch)
	assert.Equal(t, 2*time.Second, p.Transition.Duration)
	assert.Equal(t, 30*time.Second, p.AutoAdvance.Duration)

	assert.Equal(t, 150.0, p.Controls.Speed)
	assert.Equal(t, 100.0, p.Controls.Blur, "clamped")
	assert.Equal(t, 6.0, p.Controls.Mandala)

	assert.Equal(t, CameraFisheye, p.Model.Camera)
	assert.Equal(t, AnimationAudioSpin, p.Model.Animation)
	assert.Equal(t, TransitionFade, p.Model.Transition)
	assert.Equal(t, [3]float64{1, 0.5, 0.25}, p.Model.Color)
	// untouched keys keep their defaults
	assert.Equal(t, 100.0, p.Model.Far)

	require.Len(t, p.Media, 2)
	assert.Equal(t, "model", p.Media[1].Kind)

	require.Len(t, p.Playlist, 2)
	assert.Equal(t, CameraFisheye, p.ModelFor(p.Playlist[0]).Camera)
	assert.Equal(t, CameraOrthographic, p.ModelFor(p.Playlist[1]).Camera)
	assert.Equal(t, AnimationTumble, p.ModelFor(p.Playlist[1]).Animation)

	// keys the scene table leaves out come from the preset-wide model
	scene := p.ModelFor(p.Playlist[1])
	assert.Equal(t, [3]float64{1, 0.5, 0.25}, scene.Color)
	assert.Equal(t, 2.0, scene.AnimationSpeed)
	assert.Equal(t, 50.0, scene.Zoom)
	assert.Equal(t, 100.0, scene.Far)
}

func TestLoadPresetSceneModelStartsFromDefaults(t *testing.T) {
	p, err := LoadPreset(filepath.Join("testdata", "scenemodel.toml"))
	require.NoError(t, err)
	require.Len(t, p.Playlist, 2)

	want := DefaultModelSettings()
	want.Camera = CameraFisheye
	require.NotNil(t, p.Playlist[0].Model)
	assert.Equal(t, want, *p.Playlist[0].Model)

	assert.Nil(t, p.Playlist[1].Model)
	assert.Equal(t, DefaultModelSettings(), p.ModelFor(p.Playlist[1]))
}

func TestLoadPresetErrors(t *testing.T) {
	_, err := LoadPreset(filepath.Join("testdata", "typo.toml"))
	assert.ErrorContains(t, err, "unknown keys")

	_, err = LoadPreset(filepath.Join("testdata", "scenetypo.toml"))
	assert.ErrorContains(t, err, "playlist.model.camra")

	_, err = LoadPreset(filepath.Join("testdata", "badcamera.toml"))
	assert.ErrorContains(t, err, "telephoto")

	_, err = LoadPreset(filepath.Join("testdata", "missing.toml"))
	assert.Error(t, err)
}
