package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/goshadervj/audio"
	"github.com/richinsley/goshadervj/config"
	"github.com/richinsley/goshadervj/glfwcontext"
	"github.com/richinsley/goshadervj/library"
	"github.com/richinsley/goshadervj/media"
	"github.com/richinsley/goshadervj/recorder"
	"github.com/richinsley/goshadervj/renderer"
	"github.com/richinsley/goshadervj/scheduler"
	"github.com/richinsley/goshadervj/translator"
	"github.com/urfave/cli/v2"
)

const sampleRate = 44100

func init() {
	runtime.LockOSThread()
}

func main() {
	app := &cli.App{
		Name:  "goshadervj",
		Usage: "audio-reactive shader performance",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "preset", Aliases: []string{"p"}, Usage: "TOML preset with controls, media and playlist"},
			&cli.StringFlag{Name: "shaders", Usage: "directory of .glsl/.frag programs", EnvVars: []string{"GOSHADERVJ_SHADERS"}},
			&cli.BoolFlag{Name: "watch", Usage: "pick up programs added to the shader directory"},
			&cli.StringFlag{Name: "log-level", Value: "info", Usage: "debug, info, warn or error"},
			&cli.IntFlag{Name: "width", Value: 1280, Usage: "window width"},
			&cli.IntFlag{Name: "height", Value: 720, Usage: "window height"},
			&cli.IntFlag{Name: "monitor", Value: -1, Usage: "monitor index for the projection surface, -1 for a window"},
			&cli.StringFlag{Name: "audio-file", Usage: "drive the visuals from a media file's audio"},
			&cli.StringFlag{Name: "audio-device", Usage: "ffmpeg capture device instead of the default microphone"},
			&cli.BoolFlag{Name: "listen", Usage: "play the audio file through the default output"},
			&cli.StringFlag{Name: "record", Usage: "record the visible surface to this file"},
			&cli.StringFlag{Name: "codec", Value: "h264", Usage: "recording codec, h264 or hevc"},
			&cli.IntFlag{Name: "fps", Value: 60, Usage: "recording frame rate"},
			&cli.StringFlag{Name: "ffmpeg", Usage: "path to the ffmpeg executable"},
			&cli.StringSliceFlag{Name: "shadertoy", Usage: "Shadertoy id or URL to add to the front of the playlist"},
			&cli.StringFlag{Name: "api-key", Usage: "Shadertoy API key", EnvVars: []string{"SHADERTOY_KEY"}},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	level, err := log.ParseLevel(c.String("log-level"))
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	log.SetLevel(level)

	preset := config.DefaultPreset()
	if path := c.String("preset"); path != "" {
		if preset, err = config.LoadPreset(path); err != nil {
			return err
		}
	}
	if dir := c.String("shaders"); dir != "" {
		preset.ShaderDir = dir
	}
	if c.IsSet("watch") {
		preset.Watch = c.Bool("watch")
	}

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	lib := library.New()
	if preset.ShaderDir != "" {
		if _, err := lib.LoadDir(preset.ShaderDir); err != nil {
			return err
		}
		if preset.Watch {
			go func() {
				if err := lib.Watch(ctx, preset.ShaderDir); err != nil {
					log.Warn("shader directory watch stopped", "err", err)
				}
			}()
		}
	}

	scenes := preset.Playlist
	if len(scenes) == 0 {
		scenes = defaultScenes(lib.Names())
	}
	if ids := c.StringSlice("shadertoy"); len(ids) > 0 {
		client := library.NewShadertoyClient(c.String("api-key"))
		var fetched []config.Scene
		for _, id := range ids {
			key, err := client.FetchInto(ctx, lib, id)
			if err != nil {
				return err
			}
			fetched = append(fetched, config.Scene{Shader: key})
		}
		scenes = append(fetched, scenes...)
	}

	device, err := openAudio(c)
	if err != nil {
		return err
	}
	samples, err := device.Start()
	if err != nil {
		log.Warn("audio input unavailable, running silent", "err", err)
		device = audio.NewNullDevice(sampleRate)
		samples, _ = device.Start()
	}
	defer device.Stop()

	follower := audio.NewBandFollower(sampleRate)
	if c.Bool("listen") && c.String("audio-file") != "" {
		toFollower := make(chan []float32, 16)
		toPlayer := make(chan []float32, 16)
		audio.Tee(samples, toFollower, toPlayer)
		player := audio.NewPlayer("", sampleRate)
		if err := player.Start(toPlayer); err != nil {
			log.Warn("audio monitor unavailable", "err", err)
			go func() {
				for range toPlayer {
				}
			}()
		} else {
			defer player.Stop()
		}
		samples = toFollower
	}
	go follower.Run(ctx, samples)

	if err := glfwcontext.InitGraphics(); err != nil {
		return err
	}
	defer glfwcontext.TerminateGraphics()

	primary, err := glfwcontext.New(glfwcontext.Options{
		Width:   c.Int("width"),
		Height:  c.Int("height"),
		Visible: true,
		Monitor: -1,
	})
	if err != nil {
		return err
	}
	defer primary.Shutdown()

	tr, err := translator.GetTranslator()
	if err != nil {
		return err
	}

	catalog := media.NewCatalog()
	defer catalog.Destroy()

	s := &show{
		preset:   preset,
		controls: preset.Controls,
		playlist: newPlaylist(scenes, preset.Transition.Duration, preset.AutoAdvance.Duration),
		follower: follower,
		primary:  primary,
		monitor:  c.Int("monitor"),
		width:    c.Int("width"),
		height:   c.Int("height"),
	}
	s.renderer, err = renderer.NewRenderer(primary, tr, lib, catalog, renderer.Options{
		OnShaderError: s.shaderError,
	})
	if err != nil {
		return err
	}
	defer s.renderer.Shutdown()

	for _, m := range preset.Media {
		if err := catalog.Add(m.Key, m.Path, m.Kind); err != nil {
			log.Warn("skipping media", "key", m.Key, "path", m.Path, "err", err)
		}
	}

	if path := c.String("record"); path != "" {
		w, h := primary.GetFramebufferSize()
		s.recorder, err = recorder.Start(recorder.Options{
			Path:       path,
			Width:      w,
			Height:     h,
			FPS:        c.Int("fps"),
			Codec:      c.String("codec"),
			FFmpegPath: c.String("ffmpeg"),
		})
		if err != nil {
			return err
		}
		defer func() {
			if err := s.recorder.Close(); err != nil {
				log.Error("recording incomplete", "err", err)
			}
		}()
	}

	s.scheduler = scheduler.New(s.frame, s.fps)
	s.bindKeys(primary)
	s.scheduler.Start(primary)
	log.Info("show started", "scenes", len(scenes))
	return s.loop()
}

func openAudio(c *cli.Context) (audio.AudioDevice, error) {
	if path := c.String("audio-file"); path != "" {
		return audio.NewFileInput(path, sampleRate), nil
	}
	if dev := c.String("audio-device"); dev != "" {
		return audio.NewCaptureInput(dev, sampleRate)
	}
	mic, err := audio.NewMicrophone(sampleRate)
	if err != nil {
		log.Warn("microphone unavailable, running silent", "err", err)
		return audio.NewNullDevice(sampleRate), nil
	}
	return mic, nil
}

// show is the running performance. Everything on it is touched from the
// main thread only.
type show struct {
	preset   config.Preset
	controls config.Controls
	playlist *playlist
	follower *audio.BandFollower
	paused   bool

	// set from key callbacks, where windows must not be created or destroyed
	toggleRequested bool

	renderer  *renderer.Renderer
	scheduler *scheduler.Scheduler
	recorder  *recorder.Recorder

	primary    *glfwcontext.Context
	projection *glfwcontext.Context
	monitor    int
	width      int
	height     int
}

func (s *show) frame(now, dt time.Duration) {
	s.playlist.Advance(dt)
	in := s.playlist.Frame(s.preset)
	in.Controls = s.controls
	in.Audio = s.follower.Update()
	in.Delta = dt
	in.Paused = s.paused
	s.renderer.RenderFrame(in)

	if s.recorder != nil {
		w, h := s.renderer.Context().GetFramebufferSize()
		s.recorder.Capture(w, h)
	}
}

func (s *show) fps(fps, quality float64) {
	log.Debug("frame rate", "fps", fmt.Sprintf("%.1f", fps), "quality", fmt.Sprintf("%.2f", quality))
	s.primary.SetTitle(fmt.Sprintf("goshadervj  %.0f fps", fps))
}

func (s *show) shaderError(key string, err error) {
	if err != nil {
		s.primary.SetTitle(fmt.Sprintf("goshadervj  shader %q failed", key))
		return
	}
	s.primary.SetTitle("goshadervj")
}

func (s *show) bindKeys(c *glfwcontext.Context) {
	c.RegisterKeyCallback(glfw.KeyN, s.playlist.Next)
	c.RegisterKeyCallback(glfw.KeyP, s.requestProjectionToggle)
	c.RegisterKeyCallback(glfw.KeySpace, func() { s.paused = !s.paused })
}

func (s *show) requestProjectionToggle() {
	s.toggleRequested = true
}

// takeProjectionToggle reports and clears a pending toggle request.
func (s *show) takeProjectionToggle() bool {
	requested := s.toggleRequested
	s.toggleRequested = false
	return requested
}

// toggleProjection opens or closes the projection surface and moves the
// frame loop and the pipeline onto whichever surface is now active.
func (s *show) toggleProjection() {
	if s.projection != nil {
		s.closeProjection()
		return
	}
	proj, err := glfwcontext.New(glfwcontext.Options{
		Width:   s.width,
		Height:  s.height,
		Title:   "goshadervj projection",
		Visible: true,
		Share:   s.primary,
		Monitor: s.monitor,
	})
	if err != nil {
		log.Error("failed to open projection surface", "err", err)
		s.primary.MakeCurrent()
		return
	}
	s.bindKeys(proj)
	s.projection = proj
	s.scheduler.Retarget(proj)
	s.renderer.Rebind(proj)
	log.Info("projecting")
}

func (s *show) closeProjection() {
	proj := s.projection
	s.projection = nil
	s.scheduler.Retarget(s.primary)
	s.renderer.Rebind(s.primary)
	proj.Shutdown()
	s.primary.MakeCurrent()
	log.Info("projection closed")
}

func (s *show) loop() error {
	for !s.primary.ShouldClose() {
		if s.takeProjectionToggle() {
			s.toggleProjection()
		}
		if s.projection != nil && s.projection.ShouldClose() {
			s.closeProjection()
		}
		drew := s.primary.DispatchFrame()
		if s.projection != nil && s.projection.DispatchFrame() {
			drew = true
		}
		if drew {
			glfwcontext.PollEvents()
		} else {
			glfwcontext.WaitEvents(100 * time.Millisecond)
		}
		if err := s.scheduler.Err(); err != nil {
			return err
		}
	}
	s.scheduler.Stop()
	if s.projection != nil {
		s.closeProjection()
	}
	return nil
}
