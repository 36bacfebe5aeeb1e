package renderer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/richinsley/goshadervj/graphics"
	"github.com/richinsley/goshadervj/translator"
)

// fakeDevice records calls and fails compiles whose source contains
// "BROKEN" and links whose fragment contains "UNLINKABLE".
type fakeDevice struct {
	nextID   uint32
	sources  map[uint32]string
	compiles int
	links    int

	deletedShaders  []uint32
	deletedPrograms []uint32

	failTarget map[int]bool // creation index that fails
	creates    int
	created    []graphics.Target
	deleted    []graphics.Target
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{sources: make(map[uint32]string), failTarget: make(map[int]bool)}
}

func (d *fakeDevice) id() uint32 {
	d.nextID++
	return d.nextID
}

func (d *fakeDevice) CompileShader(stage graphics.Stage, source string) (uint32, error) {
	d.compiles++
	if strings.Contains(source, "BROKEN") {
		return 0, &graphics.CompileError{Stage: stage, Log: "ERROR: 0:1: 'BROKEN' : syntax error"}
	}
	id := d.id()
	d.sources[id] = source
	return id, nil
}

func (d *fakeDevice) LinkProgram(vertex, fragment uint32) (uint32, error) {
	d.links++
	if strings.Contains(d.sources[fragment], "UNLINKABLE") {
		return 0, &graphics.CompileError{Stage: graphics.StageLink, Log: "varying mismatch"}
	}
	return d.id(), nil
}

func (d *fakeDevice) DeleteShader(shader uint32) {
	d.deletedShaders = append(d.deletedShaders, shader)
}

func (d *fakeDevice) DeleteProgram(program uint32) {
	d.deletedPrograms = append(d.deletedPrograms, program)
}

// UniformLocation only knows translated names, which the fake translator
// prefixes with "_u".
func (d *fakeDevice) UniformLocation(program uint32, name string) int32 {
	switch name {
	case "_uiTime":
		return 3
	case "_uiResolution":
		return 4
	case "_uuModel":
		return 7
	}
	return -1
}

func (d *fakeDevice) CreateTarget(width, height int, depth bool) (graphics.Target, error) {
	n := d.creates
	d.creates++
	if d.failTarget[n] {
		return graphics.Target{}, errors.New("out of memory")
	}
	t := graphics.Target{FBO: d.id(), Texture: d.id(), Width: width, Height: height}
	if depth {
		t.Depth = d.id()
	}
	d.created = append(d.created, t)
	return t, nil
}

func (d *fakeDevice) DeleteTarget(t graphics.Target) {
	d.deleted = append(d.deleted, t)
}

// fakeTranslator passes sources through and maps every uniform it is asked
// about to a "_u" prefixed name.
type fakeTranslator struct {
	calls int
	fail  bool
}

func (t *fakeTranslator) Translate(stage, source string) (*translator.Result, error) {
	t.calls++
	if t.fail && stage == "fragment" {
		return nil, fmt.Errorf("translation failed")
	}
	names := make(map[string]string)
	for _, n := range uniformNames {
		if strings.Contains(source, n) {
			names[n] = "_u" + n
		}
	}
	return &translator.Result{Code: source, Names: names}, nil
}

type fakeLibrary map[string]string

func (l fakeLibrary) Source(key string) (string, bool) {
	s, ok := l[key]
	return s, ok
}

type reported struct {
	key string
	err error
}

type errorLog struct {
	calls []reported
}

func (l *errorLog) record(key string, err error) {
	l.calls = append(l.calls, reported{key, err})
}
