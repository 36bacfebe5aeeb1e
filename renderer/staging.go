package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goshadervj/audio"
	"github.com/richinsley/goshadervj/config"
	"github.com/richinsley/goshadervj/media"
)

const (
	cameraDistance = 3.0
	orthoHalfSize  = 1.25
	orbitRate      = 0.25 // radians per simulation second
)

type transitionRole int

const (
	roleSteady transitionRole = iota
	roleEntering
	roleLeaving
)

// modelRole decides whether a model is entering or leaving. A model that
// is on both sides of a transition stays put.
func modelRole(mediaKey string, t Transition) transitionRole {
	if !t.Active {
		return roleSteady
	}
	switch {
	case mediaKey == t.ToMedia && mediaKey != t.FromMedia:
		return roleEntering
	case mediaKey == t.FromMedia && mediaKey != t.ToMedia:
		return roleLeaving
	}
	return roleSteady
}

// transitionTransform returns the outermost model transform and the alpha
// for a model entering or leaving.
func transitionTransform(kind config.TransitionKind, role transitionRole, progress float64) (mgl32.Mat4, float32) {
	if role == roleSteady {
		return mgl32.Ident4(), 1
	}
	p := clamp01(progress)
	if role == roleLeaving {
		p = 1 - p
	}
	s := float32(p)

	switch kind {
	case config.TransitionScale:
		return mgl32.Scale3D(s, s, s), 1
	case config.TransitionDrop:
		return mgl32.Translate3D(0, float32(1-p)*2*cameraDistance, 0), 1
	case config.TransitionSpiral:
		spin := mgl32.HomogRotate3DY(float32((1 - p) * 2 * math.Pi))
		return spin.Mul4(mgl32.Scale3D(s, s, s)), s
	}
	return mgl32.Ident4(), s
}

// projection returns the GL clip transform for the camera kind.
func projection(kind config.CameraKind, aspect float32, near, far float64) mgl32.Mat4 {
	n, f := float32(near), float32(far)
	if kind == config.CameraOrthographic {
		h := float32(orthoHalfSize)
		w := h * aspect
		return mgl32.Mat4{
			1 / w, 0, 0, 0,
			0, 1 / h, 0, 0,
			0, 0, -2 / (f - n), 0,
			0, 0, -(f + n) / (f - n), 1,
		}
	}
	fov := kind.FieldOfView() * math.Pi / 180
	cot := float32(1 / math.Tan(fov/2))
	return mgl32.Mat4{
		cot / aspect, 0, 0, 0,
		0, cot, 0, 0,
		0, 0, (f + n) / (n - f), -1,
		0, 0, 2 * f * n / (n - f), 0,
	}
}

// cameraEye is the camera position; it circles the origin when orbiting.
func cameraEye(orbit bool, clock float64) mgl32.Vec3 {
	if !orbit {
		return mgl32.Vec3{0, 0, cameraDistance}
	}
	a := clock * orbitRate
	return mgl32.Vec3{
		float32(math.Sin(a) * cameraDistance),
		0.6,
		float32(math.Cos(a) * cameraDistance),
	}
}

// viewMatrix looks from eye at the origin with +Y up.
func viewMatrix(eye mgl32.Vec3) mgl32.Mat4 {
	fwd := eye.Mul(-1).Normalize()
	side := fwd.Cross(mgl32.Vec3{0, 1, 0}).Normalize()
	up := side.Cross(fwd)
	return mgl32.Mat4{
		side[0], up[0], -fwd[0], 0,
		side[1], up[1], -fwd[1], 0,
		side[2], up[2], -fwd[2], 0,
		-side.Dot(eye), -up.Dot(eye), fwd.Dot(eye), 1,
	}
}

type animationInput struct {
	Clock float64
	Speed float64
	Bands audio.Bands
	Spin  float64 // accumulated angle for audio-driven spin
}

func animationTransform(kind config.AnimationKind, in animationInput) mgl32.Mat4 {
	t := float32(in.Clock * in.Speed)
	switch kind {
	case config.AnimationRotate:
		return mgl32.HomogRotate3DY(t * 0.8)
	case config.AnimationTumble:
		return mgl32.HomogRotate3DX(t * 0.7).Mul4(mgl32.HomogRotate3DY(t)).Mul4(mgl32.HomogRotate3DZ(t * 0.4))
	case config.AnimationPulse:
		s := 1 + 0.12*sin32(t*3)
		if in.Bands.Low > 0.01 {
			s = 1 + 0.35*float32(in.Bands.Low)
		}
		return mgl32.Scale3D(s, s, s)
	case config.AnimationWobble:
		return mgl32.Translate3D(0, 0.08*sin32(t*2.1), 0).
			Mul4(mgl32.HomogRotate3DZ(0.15 * sin32(t*2.9))).
			Mul4(mgl32.HomogRotate3DX(0.1 * sin32(t*1.7)))
	case config.AnimationAudioSpin:
		return mgl32.HomogRotate3DY(float32(in.Spin))
	}
	return mgl32.Ident4()
}

// spinRate is the audio-spin angular velocity for the given level.
func spinRate(speed float64, b audio.Bands) float64 {
	return speed * (0.3 + 3*b.Overall)
}

// advanceSpin turns each audio-spin model on screen once per frame, even
// when both sides of a transition show it.
func (rc *RenderContext) advanceSpin(scenes ...Scene) {
	seen := make(map[string]bool, len(scenes))
	for _, sc := range scenes {
		if sc.Media == "" || seen[sc.Media] || sc.Model.Animation != config.AnimationAudioSpin {
			continue
		}
		seen[sc.Media] = true
		rc.spin[sc.Media] += rc.Delta * spinRate(sc.Model.AnimationSpeed, rc.Audio)
	}
}

func staticRotation(m config.ModelSettings) mgl32.Mat4 {
	return mgl32.HomogRotate3DX(mgl32.DegToRad(float32(m.RotationX))).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(float32(m.RotationY)))).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(float32(m.RotationZ))))
}

// modelMatrix centres the mesh, scales it to the zoom, applies the static
// rotation, then the animation, then the transition outermost.
func modelMatrix(mesh *media.Mesh, settings config.ModelSettings, anim, trans mgl32.Mat4) mgl32.Mat4 {
	s := float32(settings.ZoomFactor()) / mesh.Radius
	normalize := mgl32.Scale3D(s, s, s).Mul4(mgl32.Translate3D(-mesh.Center[0], -mesh.Center[1], -mesh.Center[2]))
	return trans.Mul4(anim).Mul4(staticRotation(settings)).Mul4(normalize)
}

func sin32(x float32) float32 {
	return float32(math.Sin(float64(x)))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
