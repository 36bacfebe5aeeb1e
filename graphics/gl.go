package graphics

import (
	"fmt"
	"strings"
	"sync"

	gl "github.com/go-gl/gl/v4.1-core/gl"
)

var (
	initOnce sync.Once
	initErr  error
)

// Init loads the GL entry points. It must run with a context current and
// is a no-op after the first call.
func Init() error {
	initOnce.Do(func() {
		initErr = gl.Init()
	})
	return initErr
}

// GLDevice implements Device on the current OpenGL context.
type GLDevice struct{}

func (GLDevice) CompileShader(stage Stage, source string) (uint32, error) {
	var shaderType uint32
	switch stage {
	case StageVertex:
		shaderType = gl.VERTEX_SHADER
	case StageFragment:
		shaderType = gl.FRAGMENT_SHADER
	default:
		return 0, fmt.Errorf("cannot compile %s stage", stage)
	}

	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
		gl.DeleteShader(shader)
		return 0, &CompileError{Stage: stage, Log: strings.TrimRight(logText, "\x00\n")}
	}
	return shader, nil
}

func (GLDevice) LinkProgram(vertex, fragment uint32) (uint32, error) {
	program := gl.CreateProgram()
	gl.AttachShader(program, vertex)
	gl.AttachShader(program, fragment)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(logText))
		gl.DeleteProgram(program)
		return 0, &CompileError{Stage: StageLink, Log: strings.TrimRight(logText, "\x00\n")}
	}

	gl.DetachShader(program, vertex)
	gl.DetachShader(program, fragment)
	return program, nil
}

func (GLDevice) DeleteShader(shader uint32) { gl.DeleteShader(shader) }

func (GLDevice) DeleteProgram(program uint32) { gl.DeleteProgram(program) }

func (GLDevice) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (GLDevice) CreateTarget(width, height int, depth bool) (Target, error) {
	t := Target{Width: width, Height: height}

	gl.GenTextures(1, &t.Texture)
	gl.BindTexture(gl.TEXTURE_2D, t.Texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	gl.GenFramebuffers(1, &t.FBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.FBO)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, t.Texture, 0)

	if depth {
		gl.GenRenderbuffers(1, &t.Depth)
		gl.BindRenderbuffer(gl.RENDERBUFFER, t.Depth)
		gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT16, int32(width), int32(height))
		gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, t.Depth)
		gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
	}

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		GLDevice{}.DeleteTarget(t)
		return Target{}, fmt.Errorf("framebuffer %dx%d is not complete: 0x%x", width, height, status)
	}
	return t, nil
}

func (GLDevice) DeleteTarget(t Target) {
	if t.FBO != 0 {
		gl.DeleteFramebuffers(1, &t.FBO)
	}
	if t.Texture != 0 {
		gl.DeleteTextures(1, &t.Texture)
	}
	if t.Depth != 0 {
		gl.DeleteRenderbuffers(1, &t.Depth)
	}
}
