package renderer

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goshadervj/config"
	"github.com/richinsley/goshadervj/graphics"
	"github.com/richinsley/goshadervj/media"
	"github.com/richinsley/goshadervj/shader"
	"github.com/richinsley/goshadervj/transpiler"
)

const (
	errorProgramKey     = "pass:error"
	compositeProgramKey = "pass:composite"
	modelProgramKey     = "pass:model"
	wireProgramKey      = "pass:wire"
)

// SceneRequest is one scene to draw into a target.
type SceneRequest struct {
	Shader string
	Media  string
	Model  config.ModelSettings
	Target TargetName
}

type overlayTexture struct {
	texture uint32
	width   int
	height  int
}

// RenderScene draws the base layer, resolves the overlay (drawing the 3D
// model if the key names one) and composites the two into req.Target.
func RenderScene(rc *RenderContext, req SceneRequest) {
	dst, ok := rc.Targets.Get(req.Target)
	if !ok {
		rc.warnOnce("scene target unavailable", "target", req.Target)
		return
	}
	base, ok := rc.Targets.Get(TargetBase)
	if !ok {
		rc.warnOnce("base target unavailable")
		return
	}

	renderBase(rc, req.Shader, base)

	var overlay *overlayTexture
	if req.Media != "" {
		overlay = resolveOverlay(rc, req, base)
	}
	composite(rc, base, overlay, dst)
}

// baseProgram returns the program for a shader key, or the error program
// when the key is unknown or fails to build.
func baseProgram(rc *RenderContext, key string) *Program {
	if p := rc.Programs.Lookup(key); p != nil {
		return p
	}
	if body, ok := rc.body(key); ok {
		if p := rc.Programs.Get(key, shader.QuadVertex, transpiler.WrapTiled(body)); p != nil {
			return p
		}
	} else {
		rc.warnOnce("unknown shader "+key, "key", key)
	}
	return rc.Programs.Get(errorProgramKey, shader.QuadVertex, transpiler.WrapTiled(shader.ErrorBody))
}

func renderBase(rc *RenderContext, key string, base graphics.Target) {
	prog := baseProgram(rc, key)
	if prog == nil {
		return
	}

	bindTarget(base)
	gl.Disable(gl.BLEND)
	gl.UseProgram(prog.ID)
	setVec3(prog.Uniform("iResolution"), mgl32.Vec3{float32(base.Width), float32(base.Height), 1})
	setFloat(prog.Uniform("iTime"), float32(rc.Clock))
	setVec4(prog.Uniform("iMouse"), [4]float32{rc.Pointer[0], rc.Pointer[1], 0, 0})
	setVec4(prog.Uniform("iAudio"), rc.Audio.Vec4())
	setFloat(prog.Uniform("iZoom"), float32(rc.Controls.ZoomFactor()))
	graphics.DrawQuad(rc.quad)
}

func resolveOverlay(rc *RenderContext, req SceneRequest, base graphics.Target) *overlayTexture {
	if rc.Media == nil {
		return nil
	}
	o, ok := rc.Media.Lookup(req.Media)
	if !ok {
		rc.warnOnce("unknown media "+req.Media, "key", req.Media)
		return nil
	}
	switch o.Kind {
	case media.KindImage, media.KindVideo:
		return &overlayTexture{texture: o.Texture, width: o.Width, height: o.Height}
	case media.KindModel:
		return renderModel(rc, req, o.Model, base)
	}
	return nil
}

func renderModel(rc *RenderContext, req SceneRequest, m *media.Model, base graphics.Target) *overlayTexture {
	target, ok := rc.Targets.Get(TargetModel)
	if !ok || m == nil {
		return nil
	}
	settings := req.Model

	var prog *Program
	if settings.Wireframe {
		prog = rc.Programs.Get(wireProgramKey, shader.ModelVertex, shader.WireFragment)
	} else {
		prog = rc.Programs.Get(modelProgramKey, shader.ModelVertex, shader.ModelFragment)
	}
	if prog == nil {
		return nil
	}

	role := modelRole(req.Media, rc.Transition)
	trans, alpha := transitionTransform(settings.Transition, role, rc.Transition.Progress)
	anim := animationTransform(settings.Animation, animationInput{
		Clock: rc.Clock,
		Speed: settings.AnimationSpeed,
		Bands: rc.Audio,
		Spin:  rc.spin[req.Media],
	})
	model := modelMatrix(m.Mesh, settings, anim, trans)
	near, far := settings.ClipPlanes()
	eye := cameraEye(settings.AutoOrbit, rc.Clock)
	aspect := float32(target.Width) / float32(target.Height)
	color := mgl32.Vec3{float32(settings.Color[0]), float32(settings.Color[1]), float32(settings.Color[2])}

	bindTarget(target)
	gl.ClearColor(0, 0, 0, 0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.Enable(gl.DEPTH_TEST)
	gl.Disable(gl.BLEND)

	gl.UseProgram(prog.ID)
	setMat4(prog.Uniform("uModel"), model)
	setMat4(prog.Uniform("uView"), viewMatrix(eye))
	setMat4(prog.Uniform("uProjection"), projection(settings.Camera, aspect, near, far))
	setFloat(prog.Uniform("uTime"), float32(rc.Clock))
	setFloat(prog.Uniform("uNoise"), float32(clamp01(settings.VertexNoise)))
	setVec3(prog.Uniform("uColor"), color)
	setFloat(prog.Uniform("uAlpha"), alpha)
	setVec3(prog.Uniform("uCameraPos"), eye)

	arrays := rc.arraysFor(m)
	if settings.Wireframe {
		gl.BindVertexArray(arrays.edges)
		gl.DrawArrays(gl.LINES, 0, m.EdgeVertices)
	} else {
		useTexture := int32(0)
		if settings.UseTexture {
			useTexture = 1
		}
		setInt(prog.Uniform("uUseTexture"), useTexture)
		bindTexture(prog.Uniform("uBaseTexture"), 0, base.Texture)
		gl.BindVertexArray(arrays.triangles)
		gl.DrawArrays(gl.TRIANGLES, 0, m.TriangleVertices)
		unbindTextures(1)
	}
	gl.BindVertexArray(0)
	gl.Disable(gl.DEPTH_TEST)

	return &overlayTexture{texture: target.Texture, width: target.Width, height: target.Height}
}

// composite blends an overlay over the base layer into dst. Without an
// overlay it is a straight copy.
func composite(rc *RenderContext, base graphics.Target, overlay *overlayTexture, dst graphics.Target) {
	prog := rc.Programs.Get(compositeProgramKey, shader.QuadVertex, shader.CompositeFragment)
	if prog == nil {
		return
	}

	bindTarget(dst)
	gl.Disable(gl.BLEND)
	gl.UseProgram(prog.ID)
	bindTexture(prog.Uniform("uBase"), 0, base.Texture)
	setVec2(prog.Uniform("uCanvasSize"), float32(dst.Width), float32(dst.Height))
	setFloat(prog.Uniform("uOpacity"), float32(rc.Controls.OverlayOpacity/100))
	if overlay != nil {
		bindTexture(prog.Uniform("uOverlay"), 1, overlay.texture)
		setInt(prog.Uniform("uHasOverlay"), 1)
		setVec2(prog.Uniform("uOverlaySize"), float32(overlay.width), float32(overlay.height))
	} else {
		bindTexture(prog.Uniform("uOverlay"), 1, rc.nullTexture)
		setInt(prog.Uniform("uHasOverlay"), 0)
		setVec2(prog.Uniform("uOverlaySize"), 0, 0)
	}
	graphics.DrawQuad(rc.quad)
	unbindTextures(2)
}
