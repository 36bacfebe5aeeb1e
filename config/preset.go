// Package config holds the render controls, model staging settings and the
// TOML preset files that bundle them with a shader playlist.
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Scene is one playlist entry: a shader key plus an optional overlay key.
type Scene struct {
	Shader string         `toml:"shader"`
	Media  string         `toml:"media"`
	Model  *ModelSettings `toml:"model"`
}

// MediaEntry registers an overlay source under a key.
type MediaEntry struct {
	Key  string `toml:"key"`
	Path string `toml:"path"`
	Kind string `toml:"kind"` // image, video or model; inferred from the extension when empty
}

// Preset is the on-disk performance setup.
type Preset struct {
	ShaderDir   string        `toml:"shader_dir"`
	Watch       bool          `toml:"watch"`
	Transition  Duration      `toml:"transition"`
	AutoAdvance Duration      `toml:"auto_advance"`
	Controls    Controls      `toml:"controls"`
	Model       ModelSettings `toml:"model"`
	Media       []MediaEntry  `toml:"media"`
	Playlist    []Scene       `toml:"playlist"`
}

// Duration is a time.Duration that decodes from strings like "1.5s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// DefaultPreset is used when no preset file is given.
func DefaultPreset() Preset {
	return Preset{
		Transition: Duration{1500 * time.Millisecond},
		Controls:   DefaultControls(),
		Model:      DefaultModelSettings(),
	}
}

// presetFile is the decode shape of a preset. Scene model tables are held
// back until the preset-wide model is known, since they override it key by
// key.
type presetFile struct {
	Preset
	Playlist []sceneFile `toml:"playlist"`
}

type sceneFile struct {
	Shader string          `toml:"shader"`
	Media  string          `toml:"media"`
	Model  *toml.Primitive `toml:"model"`
}

// LoadPreset decodes a preset file over the defaults. Keys the file does
// not recognise are reported as an error so typos don't go unnoticed. A
// scene's model table starts from the preset-wide model.
func LoadPreset(path string) (Preset, error) {
	f := presetFile{Preset: DefaultPreset()}
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return Preset{}, fmt.Errorf("failed to load preset %s: %w", path, err)
	}

	p := f.Preset
	p.Playlist = make([]Scene, 0, len(f.Playlist))
	for i, sf := range f.Playlist {
		if sf.Shader == "" {
			return Preset{}, fmt.Errorf("preset %s: playlist entry %d has no shader", path, i)
		}
		scene := Scene{Shader: sf.Shader, Media: sf.Media}
		if sf.Model != nil {
			m := p.Model
			if err := md.PrimitiveDecode(*sf.Model, &m); err != nil {
				return Preset{}, fmt.Errorf("preset %s: playlist entry %d: %w", path, i, err)
			}
			scene.Model = &m
		}
		p.Playlist = append(p.Playlist, scene)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Preset{}, fmt.Errorf("preset %s: unknown keys %v", path, undecoded)
	}
	p.Controls = p.Controls.Clamp()
	return p, nil
}

// ModelFor returns the staging for a scene, falling back to the preset-wide
// settings.
func (p Preset) ModelFor(s Scene) ModelSettings {
	if s.Model != nil {
		return *s.Model
	}
	return p.Model
}
