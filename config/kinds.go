package config

import (
	"fmt"
	"strings"
)

// CameraKind selects the model projection.
type CameraKind int

const (
	CameraPerspective CameraKind = iota
	CameraExaggerated
	CameraFisheye
	CameraOrthographic
)

var cameraNames = []string{"perspective", "exaggerated", "fisheye", "orthographic"}

func (k CameraKind) String() string {
	if k < 0 || int(k) >= len(cameraNames) {
		return fmt.Sprintf("camera(%d)", int(k))
	}
	return cameraNames[k]
}

func (k CameraKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *CameraKind) UnmarshalText(b []byte) error {
	i, err := lookup(cameraNames, "camera", string(b))
	if err != nil {
		return err
	}
	*k = CameraKind(i)
	return nil
}

// FieldOfView is the vertical field of view in degrees. Orthographic
// cameras report zero.
func (k CameraKind) FieldOfView() float64 {
	switch k {
	case CameraExaggerated:
		return 90
	case CameraFisheye:
		return 140
	case CameraOrthographic:
		return 0
	default:
		return 45
	}
}

// AnimationKind selects the per-frame model motion.
type AnimationKind int

const (
	AnimationNone AnimationKind = iota
	AnimationRotate
	AnimationTumble
	AnimationPulse
	AnimationWobble
	AnimationAudioSpin
)

var animationNames = []string{"none", "rotate", "tumble", "pulse", "wobble", "audio-spin"}

func (k AnimationKind) String() string {
	if k < 0 || int(k) >= len(animationNames) {
		return fmt.Sprintf("animation(%d)", int(k))
	}
	return animationNames[k]
}

func (k AnimationKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *AnimationKind) UnmarshalText(b []byte) error {
	i, err := lookup(animationNames, "animation", string(b))
	if err != nil {
		return err
	}
	*k = AnimationKind(i)
	return nil
}

// TransitionKind selects how a model enters and leaves during a scene
// transition.
type TransitionKind int

const (
	TransitionFade TransitionKind = iota
	TransitionScale
	TransitionDrop
	TransitionSpiral
)

var transitionNames = []string{"fade", "scale", "drop", "spiral"}

func (k TransitionKind) String() string {
	if k < 0 || int(k) >= len(transitionNames) {
		return fmt.Sprintf("transition(%d)", int(k))
	}
	return transitionNames[k]
}

func (k TransitionKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText never fails: unknown names fall back to fade.
func (k *TransitionKind) UnmarshalText(b []byte) error {
	i, err := lookup(transitionNames, "transition", string(b))
	if err != nil {
		*k = TransitionFade
		return nil
	}
	*k = TransitionKind(i)
	return nil
}

func lookup(names []string, what, s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q (want one of %s)", what, s, strings.Join(names, ", "))
}
