// Package graphics wraps the GL calls the render pipeline needs behind a
// small Device interface.
package graphics

import (
	"errors"
	"fmt"
)

var (
	ErrCompile = errors.New("shader compile failed")
	ErrLink    = errors.New("program link failed")
)

// Stage identifies which step of building a program failed.
type Stage int

const (
	StageVertex Stage = iota
	StageFragment
	StageLink
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	case StageLink:
		return "link"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// CompileError carries the driver's info log for a failed compile or link.
type CompileError struct {
	Stage Stage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s: %s", e.Stage, e.Log)
}

func (e *CompileError) Unwrap() error {
	if e.Stage == StageLink {
		return ErrLink
	}
	return ErrCompile
}

// Target is an offscreen framebuffer with a color texture and an optional
// depth attachment.
type Target struct {
	FBO     uint32
	Texture uint32
	Depth   uint32
	Width   int
	Height  int
}

// Device creates and destroys GPU objects. Handles are only meaningful to
// the device that produced them.
type Device interface {
	CompileShader(stage Stage, source string) (uint32, error)
	LinkProgram(vertex, fragment uint32) (uint32, error)
	DeleteShader(shader uint32)
	DeleteProgram(program uint32)
	// UniformLocation returns -1 when the program has no such active uniform.
	UniformLocation(program uint32, name string) int32
	CreateTarget(width, height int, depth bool) (Target, error)
	DeleteTarget(t Target)
}
