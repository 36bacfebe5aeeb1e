// Package media loads overlay sources (still images, looping videos and
// OBJ models) onto the GPU and looks them up by key.
package media

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/richinsley/goshadervj/graphics"
)

var ErrUnknownMedia = errors.New("unknown media type")

// Kind is the closed set of overlay sources.
type Kind int

const (
	KindImage Kind = iota + 1
	KindVideo
	KindModel
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	case KindModel:
		return "model"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind accepts the names produced by Kind.String.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "image":
		return KindImage, nil
	case "video":
		return KindVideo, nil
	case "model":
		return KindModel, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMedia, s)
}

var extensionKinds = map[string]Kind{
	".png": KindImage, ".jpg": KindImage, ".jpeg": KindImage, ".gif": KindImage,
	".webp": KindImage, ".bmp": KindImage, ".tif": KindImage, ".tiff": KindImage,
	".mp4": KindVideo, ".mov": KindVideo, ".webm": KindVideo, ".mkv": KindVideo, ".avi": KindVideo,
	".obj": KindModel,
}

// KindForPath infers the media kind from a file extension.
func KindForPath(path string) (Kind, error) {
	if k, ok := extensionKinds[strings.ToLower(filepath.Ext(path))]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownMedia, path)
}

// Overlay is what the renderer draws for a media key.
type Overlay struct {
	Kind    Kind
	Texture uint32 // image and video only
	Width   int
	Height  int
	Model   *Model // model only
}

type entry struct {
	overlay Overlay
	video   *Video
}

// Catalog owns every loaded overlay. It must be used on the thread that
// owns the GL context.
type Catalog struct {
	entries        map[string]*entry
	maxTextureSize int
}

func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]*entry)}
}

// Add loads path under key. kind may be empty to infer it from the
// extension. A key is only ever loaded once; later calls are no-ops.
func (c *Catalog) Add(key, path, kind string) error {
	var k Kind
	var err error
	if kind == "" {
		k, err = KindForPath(path)
	} else {
		k, err = ParseKind(kind)
	}
	if err != nil {
		return err
	}
	switch k {
	case KindImage:
		return c.AddImage(key, path)
	case KindVideo:
		return c.AddVideo(key, path)
	case KindModel:
		return c.AddModel(key, path)
	}
	return fmt.Errorf("%w: %s", ErrUnknownMedia, k)
}

func (c *Catalog) has(key string) bool {
	if _, ok := c.entries[key]; ok {
		log.Debugf("media %q already loaded", key)
		return true
	}
	return false
}

func (c *Catalog) textureLimit() int {
	if c.maxTextureSize == 0 {
		c.maxTextureSize = graphics.MaxTextureSize()
	}
	return c.maxTextureSize
}

func (c *Catalog) AddImage(key, path string) error {
	if c.has(key) {
		return nil
	}
	img, err := LoadImage(path, c.textureLimit())
	if err != nil {
		return err
	}
	b := img.Bounds()
	tex := graphics.NewTexture(b.Dx(), b.Dy(), img)
	c.entries[key] = &entry{overlay: Overlay{Kind: KindImage, Texture: tex, Width: b.Dx(), Height: b.Dy()}}
	log.Infof("loaded image %q (%dx%d)", key, b.Dx(), b.Dy())
	return nil
}

func (c *Catalog) AddVideo(key, path string) error {
	if c.has(key) {
		return nil
	}
	v, err := OpenVideo(path)
	if err != nil {
		return err
	}
	tex := graphics.NewTexture(v.Width, v.Height, nil)
	c.entries[key] = &entry{
		overlay: Overlay{Kind: KindVideo, Texture: tex, Width: v.Width, Height: v.Height},
		video:   v,
	}
	log.Infof("opened video %q (%dx%d)", key, v.Width, v.Height)
	return nil
}

func (c *Catalog) AddModel(key, path string) error {
	if c.has(key) {
		return nil
	}
	mesh, err := LoadOBJ(path)
	if err != nil {
		return err
	}
	m := UploadModel(mesh)
	c.entries[key] = &entry{overlay: Overlay{Kind: KindModel, Model: m}}
	log.Infof("loaded model %q (%d triangles)", key, len(mesh.Triangles)/(3*vertexStride))
	return nil
}

// Lookup returns the overlay for key.
func (c *Catalog) Lookup(key string) (Overlay, bool) {
	e, ok := c.entries[key]
	if !ok {
		return Overlay{}, false
	}
	return e.overlay, true
}

// Keys returns the loaded keys in sorted order.
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Refresh uploads the newest decoded frame of every video.
func (c *Catalog) Refresh() {
	for _, e := range c.entries {
		if e.video == nil {
			continue
		}
		if frame := e.video.TakeFrame(); frame != nil {
			graphics.UpdateTexture(e.overlay.Texture, e.video.Width, e.video.Height, frame)
		}
	}
}

// Destroy stops decoders and releases GPU objects.
func (c *Catalog) Destroy() {
	for key, e := range c.entries {
		if e.video != nil {
			e.video.Close()
		}
		graphics.DeleteTexture(e.overlay.Texture)
		if e.overlay.Model != nil {
			e.overlay.Model.Delete()
		}
		delete(c.entries, key)
	}
}
