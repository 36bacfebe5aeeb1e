package audio

import (
	"context"
	"math"
	"sync"

	fft "github.com/mjibson/go-dsp/fft"
)

const (
	fftInputSize      = 2048
	historyBufferSize = fftInputSize * 4

	lowCutoff  = 250.0  // Hz
	highCutoff = 4000.0 // Hz

	peakDecay = 0.995
	peakFloor = 1e-4
	attack    = 0.6
	release   = 0.12
)

// Bands are normalised band levels in [0,1].
type Bands struct {
	Low     float64
	Mid     float64
	High    float64
	Overall float64
}

// Scale multiplies every band by f and clamps the result to [0,1].
func (b Bands) Scale(f float64) Bands {
	return Bands{
		Low:     clamp01(b.Low * f),
		Mid:     clamp01(b.Mid * f),
		High:    clamp01(b.High * f),
		Overall: clamp01(b.Overall * f),
	}
}

// Vec4 packs the bands for a vec4 uniform: low, mid, high, overall.
func (b Bands) Vec4() [4]float32 {
	return [4]float32{float32(b.Low), float32(b.Mid), float32(b.High), float32(b.Overall)}
}

// BandFollower turns a sample stream into smoothed low/mid/high/overall
// levels. Each band is normalised against its own slowly decaying peak so
// the levels adapt to the input's loudness.
type BandFollower struct {
	sampleRate int
	window     []float64

	mu            sync.Mutex
	historyBuffer []float32
	bufferPos     int

	peaks [4]float64 // [0] is shared by low/mid/high, [3] is overall
	bands Bands
}

func NewBandFollower(sampleRate int) *BandFollower {
	return &BandFollower{
		sampleRate:    sampleRate,
		window:        blackmanWindow(fftInputSize),
		historyBuffer: make([]float32, historyBufferSize),
		peaks:         [4]float64{peakFloor, peakFloor, peakFloor, peakFloor},
	}
}

// Run consumes chunks until ch closes or ctx is done.
func (f *BandFollower) Run(ctx context.Context, ch <-chan []float32) {
	for {
		select {
		case <-ctx.Done():
			return
		case samples, ok := <-ch:
			if !ok {
				return
			}
			f.Write(samples)
		}
	}
}

// Write appends samples to the analysis history.
func (f *BandFollower) Write(samples []float32) {
	f.mu.Lock()
	for _, s := range samples {
		f.historyBuffer[f.bufferPos] = s
		f.bufferPos = (f.bufferPos + 1) % historyBufferSize
	}
	f.mu.Unlock()
}

func (f *BandFollower) recentSamples() []float64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]float64, fftInputSize)
	for i := range out {
		index := (f.bufferPos - fftInputSize + i + historyBufferSize) % historyBufferSize
		out[i] = float64(f.historyBuffer[index]) * f.window[i]
	}
	return out
}

// Update analyses the most recent samples and returns the new levels. It
// is meant to be called once per rendered frame.
func (f *BandFollower) Update() Bands {
	spectrum := fft.FFTReal(f.recentSamples())

	binHz := float64(f.sampleRate) / fftInputSize
	var energy [4]float64
	for i := 1; i < fftInputSize/2; i++ {
		mag := cmplxAbs(spectrum[i]) * (2.0 / fftInputSize)
		power := mag * mag
		band := 1
		switch hz := float64(i) * binHz; {
		case hz < lowCutoff:
			band = 0
		case hz >= highCutoff:
			band = 2
		}
		energy[band] += power
		energy[3] += power
	}

	var amp [4]float64
	for i := range energy {
		amp[i] = math.Sqrt(energy[i])
	}

	// the three bands share one reference so they stay comparable
	loudest := math.Max(amp[0], math.Max(amp[1], amp[2]))
	f.peaks[0] = math.Max(math.Max(f.peaks[0]*peakDecay, loudest), peakFloor)
	f.peaks[3] = math.Max(math.Max(f.peaks[3]*peakDecay, amp[3]), peakFloor)

	levels := [4]float64{
		clamp01(amp[0] / f.peaks[0]),
		clamp01(amp[1] / f.peaks[0]),
		clamp01(amp[2] / f.peaks[0]),
		clamp01(amp[3] / f.peaks[3]),
	}

	f.bands = Bands{
		Low:     follow(f.bands.Low, levels[0]),
		Mid:     follow(f.bands.Mid, levels[1]),
		High:    follow(f.bands.High, levels[2]),
		Overall: follow(f.bands.Overall, levels[3]),
	}
	return f.bands
}

// Bands returns the levels computed by the last Update.
func (f *BandFollower) Bands() Bands {
	return f.bands
}

func follow(current, target float64) float64 {
	k := release
	if target > current {
		k = attack
	}
	return current + (target-current)*k
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// blackmanWindow generates a Blackman window of the given size.
func blackmanWindow(size int) []float64 {
	window := make([]float64, size)
	for i := range window {
		x := float64(i) / float64(size-1)
		window[i] = 0.42 - 0.5*math.Cos(2*math.Pi*x) + 0.08*math.Cos(4*math.Pi*x)
	}
	return window
}
