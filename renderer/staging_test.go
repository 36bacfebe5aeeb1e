package renderer

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goshadervj/audio"
	"github.com/richinsley/goshadervj/config"
	"github.com/richinsley/goshadervj/media"
	"github.com/stretchr/testify/assert"
)

const eps = 1e-4

func TestModelRole(t *testing.T) {
	moving := Transition{Active: true, FromMedia: "teapot", ToMedia: "bunny"}
	assert.Equal(t, roleEntering, modelRole("bunny", moving))
	assert.Equal(t, roleLeaving, modelRole("teapot", moving))

	same := Transition{Active: true, FromMedia: "teapot", ToMedia: "teapot"}
	assert.Equal(t, roleSteady, modelRole("teapot", same), "a model on both sides stays put")

	idle := Transition{FromMedia: "teapot", ToMedia: "bunny"}
	assert.Equal(t, roleSteady, modelRole("bunny", idle))
}

func TestTransitionTransformSteady(t *testing.T) {
	m, alpha := transitionTransform(config.TransitionSpiral, roleSteady, 0.2)
	assert.True(t, m.ApproxEqual(mgl32.Ident4()))
	assert.Equal(t, float32(1), alpha)
}

func TestTransitionTransformFade(t *testing.T) {
	m, alpha := transitionTransform(config.TransitionFade, roleEntering, 0.25)
	assert.True(t, m.ApproxEqual(mgl32.Ident4()))
	assert.InDelta(t, 0.25, alpha, eps)

	_, alpha = transitionTransform(config.TransitionFade, roleLeaving, 0.25)
	assert.InDelta(t, 0.75, alpha, eps, "leaving runs the entrance backwards")

	_, alpha = transitionTransform(config.TransitionKind(42), roleEntering, 0.5)
	assert.InDelta(t, 0.5, alpha, eps, "unknown kinds fade")
}

func TestTransitionTransformScale(t *testing.T) {
	m, alpha := transitionTransform(config.TransitionScale, roleEntering, 0.5)
	assert.Equal(t, float32(1), alpha)
	v := m.Mul4x1(mgl32.Vec4{1, 1, 1, 1})
	assert.InDelta(t, 0.5, v[0], eps)
	assert.InDelta(t, 0.5, v[1], eps)

	m, _ = transitionTransform(config.TransitionScale, roleEntering, 1)
	assert.True(t, m.ApproxEqual(mgl32.Ident4()))

	// progress is clamped
	m, _ = transitionTransform(config.TransitionScale, roleEntering, 3)
	assert.True(t, m.ApproxEqual(mgl32.Ident4()))
}

func TestTransitionTransformDrop(t *testing.T) {
	m, _ := transitionTransform(config.TransitionDrop, roleEntering, 0)
	v := m.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 2*cameraDistance, v[1], eps, "starts above the frame")

	m, _ = transitionTransform(config.TransitionDrop, roleEntering, 1)
	v = m.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 0, v[1], eps)
}

func TestTransitionTransformSpiral(t *testing.T) {
	m, alpha := transitionTransform(config.TransitionSpiral, roleEntering, 1)
	assert.True(t, m.ApproxEqualThreshold(mgl32.Ident4(), 1e-5))
	assert.Equal(t, float32(1), alpha)

	m, alpha = transitionTransform(config.TransitionSpiral, roleLeaving, 1)
	v := m.Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 0, v.Vec3().Len(), eps, "fully left means shrunk to nothing")
	assert.Zero(t, alpha)
}

func TestProjection(t *testing.T) {
	persp := projection(config.CameraPerspective, 1, 0.1, 100)
	fish := projection(config.CameraFisheye, 1, 0.1, 100)
	ortho := projection(config.CameraOrthographic, 2, 0.1, 100)

	// wider field of view, shorter focal length
	assert.Greater(t, persp[5], fish[5])
	assert.InDelta(t, 1/math.Tan(22.5*math.Pi/180), persp[5], eps)

	// orthographic has no perspective divide
	assert.Zero(t, ortho[11])
	assert.InDelta(t, 1/orthoHalfSize, ortho[5], eps)
	assert.InDelta(t, 1/(orthoHalfSize*2), ortho[0], eps)
}

func TestCameraEye(t *testing.T) {
	assert.Equal(t, mgl32.Vec3{0, 0, cameraDistance}, cameraEye(false, 123))

	eye := cameraEye(true, math.Pi/2/orbitRate)
	assert.InDelta(t, cameraDistance, eye[0], eps)
	assert.InDelta(t, 0, eye[2], eps)

	v := viewMatrix(mgl32.Vec3{0, 0, cameraDistance}).Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, -cameraDistance, v[2], eps, "origin sits in front of the camera")
}

func TestAnimationTransform(t *testing.T) {
	assert.True(t, animationTransform(config.AnimationNone, animationInput{Clock: 5, Speed: 1}).ApproxEqual(mgl32.Ident4()))
	assert.True(t, animationTransform(config.AnimationRotate, animationInput{Clock: 0, Speed: 1}).ApproxEqual(mgl32.Ident4()))

	pulse := animationTransform(config.AnimationPulse, animationInput{Bands: audio.Bands{Low: 1}})
	assert.InDelta(t, 1.35, pulse[0], eps, "pulse follows the bass")

	spin := animationTransform(config.AnimationAudioSpin, animationInput{Spin: math.Pi})
	v := spin.Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.InDelta(t, -1, v[0], eps)
}

func TestSpinRate(t *testing.T) {
	assert.InDelta(t, 0.3, spinRate(1, audio.Bands{}), eps)
	assert.InDelta(t, 2*(0.3+1.5), spinRate(2, audio.Bands{Overall: 0.5}), eps)
}

func TestAdvanceSpinOncePerFrame(t *testing.T) {
	rc := newRenderContext(newFakeDevice(), nil, nil, nil, 8)
	rc.Delta = 0.5
	rc.Audio = audio.Bands{Overall: 0.5}
	spinning := config.ModelSettings{Animation: config.AnimationAudioSpin, AnimationSpeed: 1}
	same := Scene{Shader: "a", Media: "teapot", Model: spinning}

	rc.advanceSpin(same, Scene{Shader: "b", Media: "teapot", Model: spinning})
	assert.InDelta(t, 0.5*1.8, rc.spin["teapot"], eps)

	rc.advanceSpin(Scene{Media: "cube", Model: config.ModelSettings{Animation: config.AnimationRotate}})
	_, ok := rc.spin["cube"]
	assert.False(t, ok)
}

func TestModelMatrixCentresAndScales(t *testing.T) {
	mesh := &media.Mesh{Center: mgl32.Vec3{10, 20, 30}, Radius: 5}
	settings := config.DefaultModelSettings()
	settings.Zoom = 50 // factor 2.1

	m := modelMatrix(mesh, settings, mgl32.Ident4(), mgl32.Ident4())

	c := m.Mul4x1(mgl32.Vec4{10, 20, 30, 1})
	assert.InDelta(t, 0, c.Vec3().Len(), eps, "mesh centre lands on the origin")

	edge := m.Mul4x1(mgl32.Vec4{15, 20, 30, 1})
	assert.InDelta(t, 2.1, edge.Vec3().Len(), eps, "bounding radius scales to the zoom factor")
}

func TestModelMatrixAppliesRotationBeforeTransition(t *testing.T) {
	mesh := &media.Mesh{Radius: 1}
	settings := config.DefaultModelSettings()
	settings.Zoom = 22.5 // factor 1
	settings.RotationZ = 90

	trans := mgl32.Translate3D(0, 5, 0)
	m := modelMatrix(mesh, settings, mgl32.Ident4(), trans)
	v := m.Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 0, v[0], eps)
	assert.InDelta(t, 6, v[1], eps)
}
