package media

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/charmbracelet/log"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Video decodes a file to RGBA frames on a background goroutine, looping
// at realtime speed. Only the newest frame is kept.
type Video struct {
	Path   string
	Width  int
	Height int

	cmd  *exec.Cmd
	pipe *io.PipeReader

	mu     sync.Mutex
	latest []byte
	fresh  bool
	out    []byte
}

type probeResult struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
}

// probeSize reads the first video stream's dimensions from ffprobe output.
func probeSize(probeJSON string) (int, int, error) {
	var pr probeResult
	if err := json.Unmarshal([]byte(probeJSON), &pr); err != nil {
		return 0, 0, fmt.Errorf("failed to parse probe output: %w", err)
	}
	for _, s := range pr.Streams {
		if s.CodecType == "video" && s.Width > 0 && s.Height > 0 {
			return s.Width, s.Height, nil
		}
	}
	return 0, 0, errors.New("no video stream")
}

// OpenVideo probes path and starts decoding it.
func OpenVideo(path string) (*Video, error) {
	probe, err := ffmpeg.Probe(path)
	if err != nil {
		return nil, fmt.Errorf("failed to probe %s: %w", path, err)
	}
	w, h, err := probeSize(probe)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	v := &Video{Path: path, Width: w, Height: h}
	pr, pw := io.Pipe()
	v.pipe = pr
	v.cmd = ffmpeg.Input(path, ffmpeg.KwArgs{"re": "", "stream_loop": "-1"}).
		Output("pipe:", ffmpeg.KwArgs{
			"f":       "rawvideo",
			"pix_fmt": "rgba",
			"vf":      "vflip",
			"an":      "",
		}).
		WithOutput(pw).
		Compile()

	if err := v.cmd.Start(); err != nil {
		pw.Close()
		return nil, fmt.Errorf("failed to start decoder for %s: %w", path, err)
	}
	go func() {
		pw.CloseWithError(v.cmd.Wait())
	}()
	go v.decodeLoop()
	return v, nil
}

func (v *Video) decodeLoop() {
	frameSize := v.Width * v.Height * 4
	buf := make([]byte, frameSize)
	v.mu.Lock()
	v.latest = make([]byte, frameSize)
	v.mu.Unlock()
	for {
		if _, err := io.ReadFull(v.pipe, buf); err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrClosedPipe) {
				log.Warnf("video %s stopped: %v", v.Path, err)
			}
			return
		}
		v.mu.Lock()
		v.latest, buf = buf, v.latest
		v.fresh = true
		v.mu.Unlock()
	}
}

// TakeFrame returns the newest frame if one arrived since the last call.
// The slice is reused by the next call.
func (v *Video) TakeFrame() []byte {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.fresh {
		return nil
	}
	v.fresh = false
	if len(v.out) != len(v.latest) {
		v.out = make([]byte, len(v.latest))
	}
	copy(v.out, v.latest)
	return v.out
}

func (v *Video) Close() {
	v.pipe.Close()
	if v.cmd != nil && v.cmd.Process != nil {
		v.cmd.Process.Kill()
	}
}
