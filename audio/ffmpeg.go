package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os/exec"
	"runtime"
	"strconv"

	"github.com/charmbracelet/log"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

const chunkSamples = 1024

// FFmpegInput decodes audio through an ffmpeg child process into mono
// float samples. It reads either a media file, paced to realtime and looped,
// or a live capture device.
type FFmpegInput struct {
	input      string
	inputArgs  ffmpeg.KwArgs
	sampleRate int

	cmd       *exec.Cmd
	pipe      *io.PipeReader
	audioChan chan []float32
}

// NewFileInput plays a media file's audio track in a loop at realtime
// speed.
func NewFileInput(path string, sampleRate int) *FFmpegInput {
	return &FFmpegInput{
		input:      path,
		inputArgs:  ffmpeg.KwArgs{"re": "", "stream_loop": "-1"},
		sampleRate: sampleRate,
	}
}

// NewCaptureInput captures a named system device using the platform's
// ffmpeg capture backend.
func NewCaptureInput(device string, sampleRate int) (*FFmpegInput, error) {
	args := ffmpeg.KwArgs{"fflags": "nobuffer"}
	switch runtime.GOOS {
	case "darwin":
		args["f"] = "avfoundation"
	case "linux":
		args["f"] = "pulse"
	case "windows":
		args["f"] = "dshow"
	default:
		return nil, fmt.Errorf("audio capture is not supported on %s", runtime.GOOS)
	}
	return &FFmpegInput{input: device, inputArgs: args, sampleRate: sampleRate}, nil
}

func (d *FFmpegInput) Start() (<-chan []float32, error) {
	pr, pw := io.Pipe()
	d.pipe = pr
	d.cmd = ffmpeg.Input(d.input, d.inputArgs).
		Output("pipe:", ffmpeg.KwArgs{
			"f":  "f32le",
			"ac": "1",
			"ar": strconv.Itoa(d.sampleRate),
			"vn": "",
		}).
		WithOutput(pw).
		ErrorToStdOut().
		Compile()

	if err := d.cmd.Start(); err != nil {
		pw.Close()
		return nil, fmt.Errorf("failed to start ffmpeg for %s: %w", d.input, err)
	}

	d.audioChan = make(chan []float32, 16)
	go func() {
		err := d.cmd.Wait()
		if err != nil {
			log.Debugf("ffmpeg audio input %s exited: %v", d.input, err)
		}
		pw.CloseWithError(err)
	}()
	go d.readLoop()

	log.Infof("decoding audio from %s", d.input)
	return d.audioChan, nil
}

func (d *FFmpegInput) readLoop() {
	defer close(d.audioChan)
	buf := make([]byte, chunkSamples*4)
	for {
		n, err := io.ReadFull(d.pipe, buf)
		if n >= 4 {
			d.audioChan <- decodeF32LE(buf[:n-n%4])
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.ErrClosedPipe) {
				log.Warnf("audio input %s: %v", d.input, err)
			}
			return
		}
	}
}

func (d *FFmpegInput) Stop() error {
	if d.pipe != nil {
		d.pipe.Close()
	}
	if d.cmd != nil && d.cmd.Process != nil {
		return d.cmd.Process.Kill()
	}
	return nil
}

func (d *FFmpegInput) SampleRate() int { return d.sampleRate }

func decodeF32LE(b []byte) []float32 {
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out
}
