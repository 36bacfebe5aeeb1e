// Package recorder streams the visible surface into a video file through
// an ffmpeg process.
package recorder

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"sync"

	"github.com/charmbracelet/log"
	gl "github.com/go-gl/gl/v4.1-core/gl"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

const queueDepth = 5

var ErrClosed = errors.New("recorder closed")

// Options configures a recording.
type Options struct {
	Path   string
	Width  int
	Height int
	FPS    int
	// Codec is "h264" (default) or "hevc".
	Codec string
	// FFmpegPath overrides the ffmpeg binary found on PATH.
	FFmpegPath string
}

// Recorder captures frames on the render thread and hands them to ffmpeg
// on a writer goroutine. Frames are dropped rather than stalling the
// render loop when ffmpeg falls behind.
type Recorder struct {
	opts Options

	cmd    *exec.Cmd
	pipe   *io.PipeWriter
	frames chan []byte
	free   chan []byte
	done   chan error

	closeOnce sync.Once
	closed    bool
	dropped   int
	mismatch  bool
}

// videoEncoder picks the encoder for codec on goos, preferring the
// platform's hardware encoder where ffmpeg builds normally ship one.
func videoEncoder(codec, goos string) string {
	switch codec {
	case "hevc", "h265":
		if goos == "darwin" {
			return "hevc_videotoolbox"
		}
		return "libx265"
	default:
		if goos == "darwin" {
			return "h264_videotoolbox"
		}
		return "libx264"
	}
}

func inputArgs(o Options) ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"f":       "rawvideo",
		"pix_fmt": "rgba",
		"s":       fmt.Sprintf("%dx%d", o.Width, o.Height),
		"r":       o.FPS,
	}
}

func outputArgs(o Options, goos string) ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"c:v":     videoEncoder(o.Codec, goos),
		"pix_fmt": "yuv420p",
		// GL rows run bottom to top
		"vf": "vflip",
	}
}

// Start launches ffmpeg writing to opts.Path.
func Start(opts Options) (*Recorder, error) {
	if opts.Path == "" {
		return nil, errors.New("no output path")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid recording size %dx%d", opts.Width, opts.Height)
	}
	if opts.FPS <= 0 {
		opts.FPS = 60
	}

	pr, pw := io.Pipe()
	r := &Recorder{
		opts:   opts,
		pipe:   pw,
		frames: make(chan []byte, queueDepth),
		free:   make(chan []byte, queueDepth+1),
		done:   make(chan error, 1),
	}
	stream := ffmpeg.Input("pipe:", inputArgs(opts)).
		Output(opts.Path, outputArgs(opts, runtime.GOOS)).
		OverWriteOutput().
		WithInput(pr)
	if opts.FFmpegPath != "" {
		stream = stream.SetFfmpegPath(opts.FFmpegPath)
	}
	r.cmd = stream.Compile()
	if err := r.cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}
	go r.writeLoop()
	log.Info("recording started", "path", opts.Path, "size", fmt.Sprintf("%dx%d", opts.Width, opts.Height), "encoder", videoEncoder(opts.Codec, runtime.GOOS))
	return r, nil
}

func (r *Recorder) writeLoop() {
	var werr error
	for frame := range r.frames {
		if werr == nil {
			if _, err := r.pipe.Write(frame); err != nil {
				werr = fmt.Errorf("failed to write frame: %w", err)
				log.Error("recording failed", "err", err)
			}
		}
		select {
		case r.free <- frame:
		default:
		}
	}
	r.pipe.Close()
	if err := r.cmd.Wait(); err != nil && werr == nil {
		werr = fmt.Errorf("ffmpeg exited: %w", err)
	}
	r.done <- werr
}

func (r *Recorder) buffer() []byte {
	select {
	case b := <-r.free:
		return b
	default:
		return make([]byte, r.opts.Width*r.opts.Height*4)
	}
}

// Capture reads the back buffer of the current context and queues it.
// Frames whose size differs from the recording size are skipped.
func (r *Recorder) Capture(width, height int) {
	if r.closed {
		return
	}
	if width != r.opts.Width || height != r.opts.Height {
		if !r.mismatch {
			log.Warn("surface size differs from recording size, skipping frames",
				"surface", fmt.Sprintf("%dx%d", width, height))
			r.mismatch = true
		}
		return
	}
	r.mismatch = false

	buf := r.buffer()
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	gl.ReadBuffer(gl.BACK)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(buf))
	r.enqueue(buf)
}

func (r *Recorder) enqueue(frame []byte) {
	select {
	case r.frames <- frame:
	default:
		r.dropped++
		if r.dropped == 1 || r.dropped%100 == 0 {
			log.Warn("encoder behind, dropping frames", "dropped", r.dropped)
		}
	}
}

// Close flushes queued frames and waits for ffmpeg to finish the file.
func (r *Recorder) Close() error {
	err := ErrClosed
	r.closeOnce.Do(func() {
		r.closed = true
		close(r.frames)
		err = <-r.done
		log.Info("recording finished", "path", r.opts.Path, "dropped", r.dropped)
	})
	return err
}
