package main

import (
	"testing"
	"time"

	"github.com/richinsley/goshadervj/config"
	"github.com/richinsley/goshadervj/library"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenes(keys ...string) []config.Scene {
	out := make([]config.Scene, len(keys))
	for i, k := range keys {
		out[i] = config.Scene{Shader: k}
	}
	return out
}

func TestPlaylistTransition(t *testing.T) {
	preset := config.DefaultPreset()
	p := newPlaylist(scenes("plasma", "tunnel"), time.Second, 0)

	in := p.Frame(preset)
	assert.False(t, in.Transitioning)
	assert.Equal(t, "plasma", in.To.Shader)
	assert.Equal(t, "plasma", in.From.Shader)

	p.Next()
	p.Advance(250 * time.Millisecond)
	in = p.Frame(preset)
	require.True(t, in.Transitioning)
	assert.Equal(t, "plasma", in.From.Shader)
	assert.Equal(t, "tunnel", in.To.Shader)
	assert.InDelta(t, 0.25, in.Progress, 1e-9)

	p.Advance(time.Second)
	in = p.Frame(preset)
	assert.False(t, in.Transitioning)
	assert.Equal(t, "tunnel", in.To.Shader)
	assert.Equal(t, 1.0, in.Progress)

	p.Next()
	assert.Equal(t, "plasma", p.Frame(preset).To.Shader, "wraps around")
}

func TestPlaylistInstantWithoutDuration(t *testing.T) {
	p := newPlaylist(scenes("a", "b"), 0, 0)
	p.Next()
	in := p.Frame(config.DefaultPreset())
	assert.False(t, in.Transitioning)
	assert.Equal(t, "b", in.To.Shader)
}

func TestPlaylistAutoAdvance(t *testing.T) {
	p := newPlaylist(scenes("a", "b", "c"), 500*time.Millisecond, 10*time.Second)
	p.Advance(9 * time.Second)
	assert.False(t, p.transitioning())

	p.Advance(time.Second)
	assert.True(t, p.transitioning())

	// the timer does not run during the transition
	p.Advance(time.Second)
	assert.False(t, p.transitioning())
	assert.Equal(t, "b", p.Frame(config.DefaultPreset()).To.Shader)
	p.Advance(5 * time.Second)
	assert.False(t, p.transitioning())
}

func TestPlaylistSingleSceneNeverTransitions(t *testing.T) {
	p := newPlaylist(scenes("only"), time.Second, time.Second)
	p.Next()
	p.Advance(2 * time.Second)
	assert.False(t, p.transitioning())
}

func TestPlaylistEmptyFallsBackToBlack(t *testing.T) {
	p := newPlaylist(nil, time.Second, 0)
	assert.Equal(t, library.BlackKey, p.Frame(config.DefaultPreset()).To.Shader)
}

func TestPlaylistModelSettings(t *testing.T) {
	preset := config.DefaultPreset()
	custom := config.DefaultModelSettings()
	custom.Zoom = 80
	list := []config.Scene{{Shader: "a", Media: "teapot", Model: &custom}, {Shader: "b", Media: "bunny"}}
	p := newPlaylist(list, time.Second, 0)

	in := p.Frame(preset)
	assert.Equal(t, "teapot", in.To.Media)
	assert.Equal(t, 80.0, in.To.Model.Zoom)

	p.Next()
	p.Advance(100 * time.Millisecond)
	in = p.Frame(preset)
	assert.Equal(t, "teapot", in.From.Media)
	assert.Equal(t, preset.Model, in.To.Model)
}

func TestDefaultScenes(t *testing.T) {
	got := defaultScenes([]string{"black", "plasma", "tunnel"})
	assert.Equal(t, scenes("plasma", "tunnel", "black"), got)
}
