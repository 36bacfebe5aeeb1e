package audio

// We'll be using portaudio for audio input handling.
// macos:	brew install portaudio
// debian:	sudo apt-get install portaudio19-dev
// windows:	pacman -S mingw-w64-x86_64-portaudio

// AudioDevice produces a stream of mono sample chunks.
type AudioDevice interface {
	// Start begins audio processing and returns a receive-only channel of audio chunks.
	Start() (<-chan []float32, error)
	// Stop terminates the audio stream and closes the channel.
	Stop() error
	// SampleRate returns the sample rate of the device.
	SampleRate() int
}

// NullDevice is a silent source used when no input is available.
type NullDevice struct {
	rate int
	ch   chan []float32
}

func NewNullDevice(sampleRate int) *NullDevice {
	return &NullDevice{rate: sampleRate}
}

// Start returns a channel that never delivers samples and closes on Stop.
func (d *NullDevice) Start() (<-chan []float32, error) {
	d.ch = make(chan []float32)
	return d.ch, nil
}

func (d *NullDevice) Stop() error {
	if d.ch != nil {
		close(d.ch)
		d.ch = nil
	}
	return nil
}

func (d *NullDevice) SampleRate() int { return d.rate }
