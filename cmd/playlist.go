package main

import (
	"time"

	"github.com/richinsley/goshadervj/config"
	"github.com/richinsley/goshadervj/library"
	"github.com/richinsley/goshadervj/renderer"
)

// playlist steps through the preset's scenes, cross-fading from one to the
// next.
type playlist struct {
	scenes []config.Scene

	current  int
	previous int // -1 outside a transition
	progress float64

	transition time.Duration
	auto       time.Duration
	shown      time.Duration // since the current scene finished entering
}

func newPlaylist(scenes []config.Scene, transition, auto time.Duration) *playlist {
	if len(scenes) == 0 {
		scenes = []config.Scene{{Shader: library.BlackKey}}
	}
	return &playlist{
		scenes:     scenes,
		previous:   -1,
		progress:   1,
		transition: transition,
		auto:       auto,
	}
}

// defaultScenes is every library program in name order, black last.
func defaultScenes(names []string) []config.Scene {
	var scenes []config.Scene
	for _, n := range names {
		if n != library.BlackKey {
			scenes = append(scenes, config.Scene{Shader: n})
		}
	}
	return append(scenes, config.Scene{Shader: library.BlackKey})
}

func (p *playlist) transitioning() bool {
	return p.previous >= 0
}

// Next starts the transition to the following scene. Called mid-transition
// it starts over from the scene that was entering.
func (p *playlist) Next() {
	p.jump((p.current + 1) % len(p.scenes))
}

func (p *playlist) jump(i int) {
	if i == p.current {
		return
	}
	p.previous, p.current = p.current, i
	p.progress = 0
	p.shown = 0
	if p.transition <= 0 {
		p.finish()
	}
}

func (p *playlist) finish() {
	p.previous = -1
	p.progress = 1
}

// Advance moves the transition and the auto-advance timer on by dt of
// wall time.
func (p *playlist) Advance(dt time.Duration) {
	if p.transitioning() {
		p.progress += dt.Seconds() / p.transition.Seconds()
		if p.progress >= 1 {
			p.finish()
		}
		return
	}
	p.shown += dt
	if p.auto > 0 && p.shown >= p.auto {
		p.Next()
	}
}

// Frame fills in the scene half of a renderer frame.
func (p *playlist) Frame(preset config.Preset) renderer.FrameInput {
	to := sceneFor(preset, p.scenes[p.current])
	in := renderer.FrameInput{From: to, To: to, Progress: 1}
	if p.transitioning() {
		in.From = sceneFor(preset, p.scenes[p.previous])
		in.Transitioning = true
		in.Progress = p.progress
	}
	return in
}

func sceneFor(preset config.Preset, s config.Scene) renderer.Scene {
	return renderer.Scene{Shader: s.Shader, Media: s.Media, Model: preset.ModelFor(s)}
}
