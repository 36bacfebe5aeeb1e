package config

// ModelSettings describes how a 3D overlay is staged.
type ModelSettings struct {
	Camera         CameraKind     `toml:"camera"`
	Animation      AnimationKind  `toml:"animation"`
	AnimationSpeed float64        `toml:"animation_speed"`
	Transition     TransitionKind `toml:"transition"`

	// static rotation in degrees, applied before the animation
	RotationX float64 `toml:"rotation_x"`
	RotationY float64 `toml:"rotation_y"`
	RotationZ float64 `toml:"rotation_z"`

	Zoom        float64    `toml:"zoom"` // slider 0..100
	Wireframe   bool       `toml:"wireframe"`
	UseTexture  bool       `toml:"use_texture"` // shade with the base layer
	AutoOrbit   bool       `toml:"auto_orbit"`
	VertexNoise float64    `toml:"vertex_noise"` // 0..1
	Color       [3]float64 `toml:"color"`
	Near        float64    `toml:"near"`
	Far         float64    `toml:"far"`
}

// DefaultModelSettings returns a front-facing, slowly rotating model.
func DefaultModelSettings() ModelSettings {
	return ModelSettings{
		Camera:         CameraPerspective,
		Animation:      AnimationRotate,
		AnimationSpeed: 1,
		Transition:     TransitionFade,
		Zoom:           25,
		Color:          [3]float64{0.85, 0.85, 0.9},
		Near:           0.1,
		Far:            100,
	}
}

// ZoomFactor maps the model zoom slider linearly onto 0.1..4.1.
func (m ModelSettings) ZoomFactor() float64 {
	return 0.1 + clamp(m.Zoom, 0, 100)/100*4
}

// ClipPlanes returns usable near/far distances, substituting defaults for
// values that would produce a degenerate projection.
func (m ModelSettings) ClipPlanes() (near, far float64) {
	near, far = m.Near, m.Far
	if near <= 0 {
		near = 0.1
	}
	if far <= near {
		far = near + 100
	}
	return near, far
}
