// Package scheduler drives the render loop from a display surface's frame
// callbacks.
//
// Every scheduled callback is tied to the surface that scheduled it and to
// the scheduler generation it was scheduled in. Cancelling always goes back
// to that surface, so retargeting never leaves a callback pending on a
// surface the loop has moved away from, and a callback that still fires
// after Stop or Retarget finds its generation outdated and does nothing.
package scheduler

import (
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// ErrContextLost is reported by Err after the loop stopped because its
// surface lost the graphics context.
var ErrContextLost = errors.New("graphics context lost")

const (
	fpsWindow       = 30
	fpsInterval     = 250 * time.Millisecond
	targetFPS       = 60.0
	minQualityScale = 0.25
)

// Pending is a scheduled frame callback. Cancel is bound to the surface
// that produced it.
type Pending interface {
	Cancel()
}

// Surface is something that can call back once per display refresh.
type Surface interface {
	// RequestFrame arranges for fn to be called once at the next refresh.
	// It must not call fn before returning.
	RequestFrame(fn func(now time.Duration)) Pending
	// Current reports whether the surface still exists and can be drawn to.
	Current() bool
	// Lost reports whether the surface's graphics context has been lost.
	Lost() bool
}

// FrameFunc renders one frame. dt is zero on the first frame after Start
// or Retarget.
type FrameFunc func(now, dt time.Duration)

// FPSFunc receives the smoothed frame rate and a 0.25..1 scale suggesting
// how much rendering quality the frame rate can afford.
type FPSFunc func(fps, qualityScale float64)

// Scheduler runs FrameFunc once per refresh of its active surface.
type Scheduler struct {
	mu      sync.Mutex
	onFrame FrameFunc
	onFPS   FPSFunc

	surface    Surface
	pending    Pending
	generation uint64
	running    bool
	err        error

	last     time.Duration
	haveLast bool

	samples    [fpsWindow]float64
	count      int
	next       int
	reportFrom time.Duration
}

// New returns a stopped scheduler. onFPS may be nil.
func New(onFrame FrameFunc, onFPS FPSFunc) *Scheduler {
	return &Scheduler{onFrame: onFrame, onFPS: onFPS}
}

// Start begins scheduling frames on surface, cancelling anything pending
// on a previous surface first.
func (s *Scheduler) Start(surface Surface) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()
	s.surface = surface
	s.running = true
	s.err = nil
	s.resetTimingLocked()
	s.scheduleLocked()
	log.Debug("frame loop started")
}

// Retarget moves the loop to surface. The callback pending on the old
// surface is cancelled on the old surface. A stopped scheduler only
// records the surface for the next Start.
func (s *Scheduler) Retarget(surface Surface) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()
	s.surface = surface
	if !s.running {
		return
	}
	s.resetTimingLocked()
	s.scheduleLocked()
	log.Debug("frame loop retargeted")
}

// Stop cancels the pending callback. It is safe to call from inside the
// FrameFunc.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()
	if s.running {
		log.Debug("frame loop stopped")
	}
	s.running = false
}

// Running reports whether frames are being scheduled.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Err returns ErrContextLost if the loop stopped on a lost context.
func (s *Scheduler) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Surface returns the surface the loop is anchored to.
func (s *Scheduler) Surface() Surface {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surface
}

func (s *Scheduler) cancelLocked() {
	// outdates any callback already on its way
	s.generation++
	if s.pending != nil {
		s.pending.Cancel()
		s.pending = nil
	}
}

func (s *Scheduler) resetTimingLocked() {
	s.haveLast = false
	s.count, s.next = 0, 0
}

func (s *Scheduler) scheduleLocked() {
	gen := s.generation
	s.pending = s.surface.RequestFrame(func(now time.Duration) {
		s.tick(gen, now)
	})
}

func (s *Scheduler) tick(gen uint64, now time.Duration) {
	s.mu.Lock()
	if !s.running || gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.pending = nil
	surface := s.surface

	if surface.Lost() {
		s.running = false
		s.err = ErrContextLost
		s.mu.Unlock()
		log.Error("stopping frame loop", "err", ErrContextLost)
		return
	}
	if !surface.Current() {
		s.running = false
		s.mu.Unlock()
		log.Warn("frame loop surface went away")
		return
	}

	var dt time.Duration
	if s.haveLast {
		dt = now - s.last
	} else {
		s.reportFrom = now
	}
	s.last, s.haveLast = now, true

	fps, report := s.sampleLocked(now, dt)
	s.mu.Unlock()

	s.onFrame(now, dt)
	if report && s.onFPS != nil {
		s.onFPS(fps, qualityScale(fps))
	}

	s.mu.Lock()
	if s.running && gen == s.generation {
		s.scheduleLocked()
	}
	s.mu.Unlock()
}

// sampleLocked adds the instantaneous rate of dt to the rolling window and
// reports the window average when a report is due.
func (s *Scheduler) sampleLocked(now, dt time.Duration) (float64, bool) {
	if dt <= 0 {
		return 0, false
	}
	s.samples[s.next] = float64(time.Second) / float64(dt)
	s.next = (s.next + 1) % fpsWindow
	if s.count < fpsWindow {
		s.count++
	}
	if now-s.reportFrom < fpsInterval {
		return 0, false
	}
	s.reportFrom = now

	var sum float64
	for i := 0; i < s.count; i++ {
		sum += s.samples[i]
	}
	return sum / float64(s.count), true
}

func qualityScale(fps float64) float64 {
	q := fps / targetFPS
	if q > 1 {
		return 1
	}
	if q < minQualityScale {
		return minQualityScale
	}
	return q
}
