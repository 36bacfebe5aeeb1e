package audio

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/gordonklaus/portaudio"
)

// Microphone captures the default input device through PortAudio.
type Microphone struct {
	sampleRate  int
	stream      *portaudio.Stream
	audioChan   chan []float32
	isStreaming bool
}

func NewMicrophone(sampleRate int) (*Microphone, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}
	return &Microphone{sampleRate: sampleRate}, nil
}

func (m *Microphone) audioCallback(in []float32) {
	// PortAudio reuses its buffer
	dataCopy := make([]float32, len(in))
	copy(dataCopy, in)

	// never block the audio thread
	select {
	case m.audioChan <- dataCopy:
	default:
		log.Debug("audio channel full, dropping chunk")
	}
}

func (m *Microphone) Start() (<-chan []float32, error) {
	m.audioChan = make(chan []float32, 16)

	host, err := portaudio.DefaultHostApi()
	if err != nil {
		close(m.audioChan)
		return nil, err
	}
	if host.DefaultInputDevice == nil {
		close(m.audioChan)
		return nil, fmt.Errorf("host api %s has no default input device", host.Name)
	}

	params := portaudio.HighLatencyParameters(host.DefaultInputDevice, nil)
	params.Input.Channels = 1
	params.SampleRate = float64(m.sampleRate)

	stream, err := portaudio.OpenStream(params, m.audioCallback)
	if err != nil {
		close(m.audioChan)
		return nil, fmt.Errorf("failed to open audio stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		close(m.audioChan)
		return nil, fmt.Errorf("failed to start audio stream: %w", err)
	}
	m.stream = stream
	m.isStreaming = true
	log.Infof("capturing from %s at %d Hz", host.DefaultInputDevice.Name, m.sampleRate)

	return m.audioChan, nil
}

func (m *Microphone) Stop() error {
	if !m.isStreaming {
		return portaudio.Terminate()
	}
	if err := m.stream.Close(); err != nil {
		portaudio.Terminate()
		return err
	}
	m.isStreaming = false
	close(m.audioChan)
	return portaudio.Terminate()
}

func (m *Microphone) SampleRate() int {
	return m.sampleRate
}
