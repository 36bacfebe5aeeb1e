package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os/exec"
	"runtime"
	"strconv"

	"github.com/charmbracelet/log"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Player monitors a sample stream on the system output through ffmpeg, so
// the performer hears a file input while it drives the visuals.
type Player struct {
	device     string
	sampleRate int
	cmd        *exec.Cmd
	pipeWriter *io.PipeWriter
}

// NewPlayer creates a player for the named output device. An empty name
// selects the platform default.
func NewPlayer(device string, sampleRate int) *Player {
	return &Player{device: device, sampleRate: sampleRate}
}

func (p *Player) outputArgs() (string, ffmpeg.KwArgs, error) {
	args := ffmpeg.KwArgs{}
	target := p.device
	switch runtime.GOOS {
	case "darwin":
		args["f"] = "audiotoolbox"
		if target != "" {
			args["audio_device_index"] = target
		}
		target = "-"
	case "linux":
		args["f"] = "pulse"
		if target == "" {
			target = "default"
		}
	case "windows":
		args["f"] = "dshow"
	default:
		return "", nil, fmt.Errorf("audio playback is not supported on %s", runtime.GOOS)
	}
	return target, args, nil
}

// Start plays samples from input until it closes.
func (p *Player) Start(input <-chan []float32) error {
	target, args, err := p.outputArgs()
	if err != nil {
		return err
	}

	pr, pw := io.Pipe()
	p.pipeWriter = pw
	p.cmd = ffmpeg.Input("pipe:", ffmpeg.KwArgs{
		"f":  "f32le",
		"ar": strconv.Itoa(p.sampleRate),
		"ac": "1",
	}).Output(target, args).WithInput(pr).ErrorToStdOut().Compile()

	if err := p.cmd.Start(); err != nil {
		return fmt.Errorf("failed to start audio player: %w", err)
	}
	go func() {
		if err := p.cmd.Wait(); err != nil {
			log.Debugf("audio player exited: %v", err)
		}
		pr.Close()
	}()

	go func() {
		buf := make([]byte, 0, chunkSamples*4)
		for data := range input {
			buf = buf[:0]
			for _, v := range data {
				buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
			}
			if _, err := pw.Write(buf); err != nil {
				log.Warnf("audio player pipe: %v", err)
				break
			}
		}
		pw.Close()
	}()
	return nil
}

func (p *Player) Stop() error {
	if p.pipeWriter != nil {
		p.pipeWriter.Close()
	}
	if p.cmd != nil && p.cmd.Process != nil {
		return p.cmd.Process.Kill()
	}
	return nil
}
