package renderer

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/richinsley/goshadervj/graphics"
	"github.com/richinsley/goshadervj/translator"
)

// uniformNames is every uniform any pipeline program may declare. Each
// program resolves the whole set; names it lacks resolve to -1.
var uniformNames = []string{
	// base layer
	"iResolution", "iTime", "iMouse", "iAudio", "iZoom",
	// composite
	"uBase", "uOverlay", "uHasOverlay", "uCanvasSize", "uOverlaySize", "uOpacity",
	// transition
	"uFrom", "uTo", "uProgress", "uStrength", "uCenter", "uSamples",
	// post
	"uInput", "uResolution", "uMandala", "uBlur", "uGlow", "uChroma", "uHue", "uSaturation", "uBlack", "uWhite", "uGamma",
	// particles
	"uTime", "uAudio", "uAmount",
	// model
	"uModel", "uView", "uProjection", "uNoise", "uColor", "uAlpha", "uUseTexture", "uBaseTexture", "uCameraPos",
}

// Program is a linked shader program and its resolved uniform locations.
type Program struct {
	Key      string
	ID       uint32
	uniforms map[string]int32
}

// Uniform returns the location of name, or -1.
func (p *Program) Uniform(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	return -1
}

// ShaderError describes why a program could not be built.
type ShaderError struct {
	Key   string
	Stage graphics.Stage
	Log   string
}

func (e *ShaderError) Error() string {
	return fmt.Sprintf("shader %q failed at %s stage: %s", e.Key, e.Stage, e.Log)
}

func (e *ShaderError) Unwrap() error {
	if e.Stage == graphics.StageLink {
		return graphics.ErrLink
	}
	return graphics.ErrCompile
}

// ErrorFunc receives build failures for a key, and a nil error once the
// key builds again. It is called only when a key's state changes.
type ErrorFunc func(key string, err error)

// ProgramCache builds programs on first use and keeps them for the life of
// the process. Failures are not cached, so a broken key is rebuilt on
// every request until it succeeds.
type ProgramCache struct {
	device     graphics.Device
	translator translator.Translator
	onError    ErrorFunc

	programs map[string]*Program
	failures map[string]string
}

func NewProgramCache(device graphics.Device, tr translator.Translator, onError ErrorFunc) *ProgramCache {
	return &ProgramCache{
		device:     device,
		translator: tr,
		onError:    onError,
		programs:   make(map[string]*Program),
		failures:   make(map[string]string),
	}
}

// Lookup returns the cached program for key without building anything.
func (c *ProgramCache) Lookup(key string) *Program {
	return c.programs[key]
}

// Get returns the program for key, building it from the given sources on a
// miss. The sources are only read on a miss. It returns nil when the build
// fails.
func (c *ProgramCache) Get(key, vertexSrc, fragmentSrc string) *Program {
	if p, ok := c.programs[key]; ok {
		c.report(key, nil)
		return p
	}

	p, err := c.build(key, vertexSrc, fragmentSrc)
	if err != nil {
		c.report(key, err)
		return nil
	}
	c.programs[key] = p
	c.report(key, nil)
	log.Debugf("built program %q", key)
	return p
}

// Len returns the number of cached programs.
func (c *ProgramCache) Len() int {
	return len(c.programs)
}

// Destroy deletes every cached program.
func (c *ProgramCache) Destroy() {
	for key, p := range c.programs {
		c.device.DeleteProgram(p.ID)
		delete(c.programs, key)
	}
}

func (c *ProgramCache) build(key, vertexSrc, fragmentSrc string) (*Program, *ShaderError) {
	vres, err := c.translator.Translate("vertex", vertexSrc)
	if err != nil {
		return nil, &ShaderError{Key: key, Stage: graphics.StageVertex, Log: err.Error()}
	}
	fres, err := c.translator.Translate("fragment", fragmentSrc)
	if err != nil {
		return nil, &ShaderError{Key: key, Stage: graphics.StageFragment, Log: err.Error()}
	}

	vs, err := c.device.CompileShader(graphics.StageVertex, vres.Code)
	if err != nil {
		return nil, shaderError(key, graphics.StageVertex, err)
	}
	defer c.device.DeleteShader(vs)

	fs, err := c.device.CompileShader(graphics.StageFragment, fres.Code)
	if err != nil {
		return nil, shaderError(key, graphics.StageFragment, err)
	}
	defer c.device.DeleteShader(fs)

	id, err := c.device.LinkProgram(vs, fs)
	if err != nil {
		return nil, shaderError(key, graphics.StageLink, err)
	}

	p := &Program{Key: key, ID: id, uniforms: make(map[string]int32, len(uniformNames))}
	for _, name := range uniformNames {
		loc := c.device.UniformLocation(id, fres.MappedName(name))
		if loc == -1 {
			loc = c.device.UniformLocation(id, vres.MappedName(name))
		}
		p.uniforms[name] = loc
	}
	return p, nil
}

func shaderError(key string, stage graphics.Stage, err error) *ShaderError {
	var ce *graphics.CompileError
	if errors.As(err, &ce) {
		return &ShaderError{Key: key, Stage: ce.Stage, Log: ce.Log}
	}
	return &ShaderError{Key: key, Stage: stage, Log: err.Error()}
}

func (c *ProgramCache) report(key string, err *ShaderError) {
	if err == nil {
		if _, failed := c.failures[key]; !failed {
			return
		}
		delete(c.failures, key)
		log.Infof("shader %q recovered", key)
		if c.onError != nil {
			c.onError(key, nil)
		}
		return
	}

	msg := err.Error()
	if c.failures[key] == msg {
		return
	}
	c.failures[key] = msg
	log.Warn("shader build failed", "key", key, "stage", err.Stage, "log", err.Log)
	if c.onError != nil {
		c.onError(key, err)
	}
}
