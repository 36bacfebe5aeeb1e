package renderer

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/richinsley/goshadervj/graphics"
)

// TargetName identifies one of the offscreen buffers a frame renders
// through.
type TargetName int

const (
	TargetBase   TargetName = iota // base layer of the scene being drawn
	TargetModel                    // 3D overlay, the only target with depth
	TargetSceneA                   // outgoing scene
	TargetSceneB                   // incoming (current) scene
	TargetPost                     // transition output, post-processing input
	numTargets
)

func (n TargetName) String() string {
	switch n {
	case TargetBase:
		return "base"
	case TargetModel:
		return "model"
	case TargetSceneA:
		return "sceneA"
	case TargetSceneB:
		return "sceneB"
	case TargetPost:
		return "post"
	}
	return fmt.Sprintf("target(%d)", int(n))
}

// TargetSet owns the offscreen buffers and keeps them the size of the
// surface.
type TargetSet struct {
	device  graphics.Device
	targets [numTargets]graphics.Target
	valid   [numTargets]bool
	width   int
	height  int
}

func NewTargetSet(device graphics.Device) *TargetSet {
	return &TargetSet{device: device}
}

// EnsureSized recreates every target when the surface size changed and
// reports whether anything was created. At the same size it only retries
// targets that failed to allocate, so a complete set is left alone.
func (s *TargetSet) EnsureSized(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	if width == s.width && height == s.height {
		return s.allocate(width, height, log.Debugf) > 0
	}

	s.Destroy()
	s.allocate(width, height, log.Errorf)
	s.width, s.height = width, height
	log.Debugf("render targets sized to %dx%d", width, height)
	return true
}

// allocate creates the targets that are missing and returns how many it
// created. Retries report failures at debug level.
func (s *TargetSet) allocate(width, height int, logf func(string, ...interface{})) int {
	n := 0
	for name := TargetName(0); name < numTargets; name++ {
		if s.valid[name] {
			continue
		}
		t, err := s.device.CreateTarget(width, height, name == TargetModel)
		if err != nil {
			logf("failed to create %s target: %v", name, err)
			continue
		}
		s.targets[name] = t
		s.valid[name] = true
		n++
	}
	return n
}

// Get returns the named target. ok is false if it failed to allocate.
func (s *TargetSet) Get(name TargetName) (graphics.Target, bool) {
	if name < 0 || name >= numTargets || !s.valid[name] {
		return graphics.Target{}, false
	}
	return s.targets[name], true
}

// Size returns the dimensions the targets were last created at.
func (s *TargetSet) Size() (int, int) {
	return s.width, s.height
}

// Destroy releases every target. The next EnsureSized recreates them.
func (s *TargetSet) Destroy() {
	for name := range s.targets {
		if s.valid[name] {
			s.device.DeleteTarget(s.targets[name])
		}
		s.targets[name] = graphics.Target{}
		s.valid[name] = false
	}
	s.width, s.height = 0, 0
}

// Forget drops every target without deleting it, for when the context that
// owned them is already gone.
func (s *TargetSet) Forget() {
	s.targets = [numTargets]graphics.Target{}
	s.valid = [numTargets]bool{}
	s.width, s.height = 0, 0
}
