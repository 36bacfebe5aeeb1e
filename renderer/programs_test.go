package renderer

import (
	"errors"
	"testing"

	"github.com/richinsley/goshadervj/graphics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	okVertex   = "void main() { gl_Position = uModel[0]; }"
	okFragment = "uniform float iTime; uniform vec3 iResolution; void main() {}"
)

func TestProgramCacheBuildsOnce(t *testing.T) {
	dev := newFakeDevice()
	tr := &fakeTranslator{}
	errs := &errorLog{}
	cache := NewProgramCache(dev, tr, errs.record)

	p := cache.Get("plasma", okVertex, okFragment)
	require.NotNil(t, p)
	assert.Equal(t, "plasma", p.Key)
	assert.Equal(t, 2, dev.compiles)
	assert.Equal(t, 1, dev.links)
	assert.Len(t, dev.deletedShaders, 2, "shaders are released once linked")

	// a hit ignores the sources entirely
	again := cache.Get("plasma", "garbage", "BROKEN")
	assert.Same(t, p, again)
	assert.Equal(t, 2, dev.compiles)
	assert.Equal(t, 2, tr.calls)
	assert.Same(t, p, cache.Lookup("plasma"))
	assert.Equal(t, 1, cache.Len())
	assert.Empty(t, errs.calls)
}

func TestProgramCacheIdentityIsByKey(t *testing.T) {
	dev := newFakeDevice()
	cache := NewProgramCache(dev, &fakeTranslator{}, nil)

	a := cache.Get("a", okVertex, okFragment)
	b := cache.Get("b", okVertex, okFragment)
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.NotSame(t, a, b, "identical sources under another key build another program")
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, dev.links)
	assert.Equal(t, 2, cache.Len())
}

func TestProgramCacheResolvesMappedUniforms(t *testing.T) {
	cache := NewProgramCache(newFakeDevice(), &fakeTranslator{}, nil)
	p := cache.Get("plasma", okVertex, okFragment)
	require.NotNil(t, p)

	assert.Equal(t, int32(3), p.Uniform("iTime"))
	assert.Equal(t, int32(4), p.Uniform("iResolution"))
	assert.Equal(t, int32(7), p.Uniform("uModel"), "vertex-stage uniforms fall back to the vertex mapping")
	assert.Equal(t, int32(-1), p.Uniform("iMouse"))
	assert.Equal(t, int32(-1), p.Uniform("notAUniform"))
}

func TestProgramCacheRetriesFailuresAndReportsChanges(t *testing.T) {
	dev := newFakeDevice()
	errs := &errorLog{}
	cache := NewProgramCache(dev, &fakeTranslator{}, errs.record)

	assert.Nil(t, cache.Get("bad", okVertex, "BROKEN"))
	require.Len(t, errs.calls, 1)
	assert.Equal(t, "bad", errs.calls[0].key)

	var se *ShaderError
	require.True(t, errors.As(errs.calls[0].err, &se))
	assert.Equal(t, graphics.StageFragment, se.Stage)
	assert.Contains(t, se.Log, "syntax error")
	assert.True(t, errors.Is(errs.calls[0].err, graphics.ErrCompile))

	// retried, but the unchanged failure is not reported twice
	compiles := dev.compiles
	assert.Nil(t, cache.Get("bad", okVertex, "BROKEN"))
	assert.Greater(t, dev.compiles, compiles)
	assert.Len(t, errs.calls, 1)
	assert.Equal(t, 0, cache.Len())

	// fixed source clears the error
	require.NotNil(t, cache.Get("bad", okVertex, okFragment))
	require.Len(t, errs.calls, 2)
	assert.Equal(t, "bad", errs.calls[1].key)
	assert.NoError(t, errs.calls[1].err)

	// further hits stay quiet
	cache.Get("bad", okVertex, okFragment)
	assert.Len(t, errs.calls, 2)
}

func TestProgramCacheLinkFailure(t *testing.T) {
	errs := &errorLog{}
	cache := NewProgramCache(newFakeDevice(), &fakeTranslator{}, errs.record)

	assert.Nil(t, cache.Get("mismatch", okVertex, "UNLINKABLE"))
	require.Len(t, errs.calls, 1)
	assert.True(t, errors.Is(errs.calls[0].err, graphics.ErrLink))
	assert.Contains(t, errs.calls[0].err.Error(), `shader "mismatch" failed at link stage`)
}

func TestProgramCacheTranslatorFailure(t *testing.T) {
	dev := newFakeDevice()
	errs := &errorLog{}
	cache := NewProgramCache(dev, &fakeTranslator{fail: true}, errs.record)

	assert.Nil(t, cache.Get("plasma", okVertex, okFragment))
	require.Len(t, errs.calls, 1)
	var se *ShaderError
	require.True(t, errors.As(errs.calls[0].err, &se))
	assert.Equal(t, graphics.StageFragment, se.Stage)
	assert.Equal(t, 0, dev.compiles)
}

func TestProgramCacheVertexFailureReleasesNothingExtra(t *testing.T) {
	dev := newFakeDevice()
	cache := NewProgramCache(dev, &fakeTranslator{}, nil)

	assert.Nil(t, cache.Get("v", "BROKEN", okFragment))
	assert.Equal(t, 1, dev.compiles, "fragment stage is not compiled after a vertex failure")
	assert.Empty(t, dev.deletedShaders)
}

func TestProgramCacheDestroy(t *testing.T) {
	dev := newFakeDevice()
	cache := NewProgramCache(dev, &fakeTranslator{}, nil)
	a := cache.Get("a", okVertex, okFragment)
	b := cache.Get("b", okVertex, okFragment)

	cache.Destroy()
	assert.ElementsMatch(t, []uint32{a.ID, b.ID}, dev.deletedPrograms)
	assert.Equal(t, 0, cache.Len())
	assert.Nil(t, cache.Lookup("a"))
}
