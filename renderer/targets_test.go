package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetSetEnsureSized(t *testing.T) {
	dev := newFakeDevice()
	s := NewTargetSet(dev)

	assert.True(t, s.EnsureSized(800, 600))
	require.Len(t, dev.created, int(numTargets))
	for name := TargetName(0); name < numTargets; name++ {
		tgt, ok := s.Get(name)
		require.True(t, ok, name.String())
		assert.Equal(t, 800, tgt.Width)
		assert.Equal(t, 600, tgt.Height)
		if name == TargetModel {
			assert.NotZero(t, tgt.Depth)
		} else {
			assert.Zero(t, tgt.Depth, name.String())
		}
	}

	// idempotent at the same size
	assert.False(t, s.EnsureSized(800, 600))
	assert.Len(t, dev.created, int(numTargets))
	assert.Empty(t, dev.deleted)

	// a resize replaces everything
	assert.True(t, s.EnsureSized(1024, 768))
	assert.Len(t, dev.deleted, int(numTargets))
	assert.Len(t, dev.created, 2*int(numTargets))
	w, h := s.Size()
	assert.Equal(t, 1024, w)
	assert.Equal(t, 768, h)
}

func TestTargetSetIgnoresEmptySize(t *testing.T) {
	dev := newFakeDevice()
	s := NewTargetSet(dev)
	assert.False(t, s.EnsureSized(0, 600))
	assert.False(t, s.EnsureSized(800, -1))
	assert.Empty(t, dev.created)
	_, ok := s.Get(TargetBase)
	assert.False(t, ok)
}

func TestTargetSetPartialFailure(t *testing.T) {
	dev := newFakeDevice()
	dev.failTarget[int(TargetSceneA)] = true
	s := NewTargetSet(dev)

	assert.True(t, s.EnsureSized(320, 240))
	_, ok := s.Get(TargetSceneA)
	assert.False(t, ok)
	_, ok = s.Get(TargetSceneB)
	assert.True(t, ok)

	s.Destroy()
	assert.Len(t, dev.deleted, int(numTargets)-1, "only allocated targets are deleted")
}

func TestTargetSetRetriesFailedTargetsAtSameSize(t *testing.T) {
	dev := newFakeDevice()
	dev.failTarget[int(TargetSceneA)] = true
	s := NewTargetSet(dev)

	assert.True(t, s.EnsureSized(320, 240))
	_, ok := s.Get(TargetSceneA)
	require.False(t, ok)

	assert.True(t, s.EnsureSized(320, 240))
	a, ok := s.Get(TargetSceneA)
	require.True(t, ok)
	assert.Equal(t, 320, a.Width)
	assert.Len(t, dev.created, int(numTargets))
	assert.Empty(t, dev.deleted, "targets that exist are kept")

	assert.False(t, s.EnsureSized(320, 240))
	assert.Len(t, dev.created, int(numTargets))
}

func TestTargetSetDestroyAndForget(t *testing.T) {
	dev := newFakeDevice()
	s := NewTargetSet(dev)
	s.EnsureSized(64, 64)

	s.Destroy()
	_, ok := s.Get(TargetPost)
	assert.False(t, ok)
	assert.True(t, s.EnsureSized(64, 64), "recreated after Destroy")

	s.Forget()
	deleted := len(dev.deleted)
	_, ok = s.Get(TargetPost)
	assert.False(t, ok)
	assert.True(t, s.EnsureSized(64, 64))
	assert.Len(t, dev.deleted, deleted, "forgotten targets are not deleted")
}

func TestTargetNameString(t *testing.T) {
	assert.Equal(t, "sceneB", TargetSceneB.String())
	assert.Equal(t, "target(9)", TargetName(9).String())
	_, ok := NewTargetSet(newFakeDevice()).Get(TargetName(9))
	assert.False(t, ok)
}
