package media

import (
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOBJCube(t *testing.T) {
	m, err := LoadOBJ(filepath.Join("testdata", "cube.obj"))
	require.NoError(t, err)

	assert.Len(t, m.Triangles, 12*3*vertexStride)
	assert.Len(t, m.Edges, 12*2*3)
	assert.True(t, m.Center.ApproxEqual(mgl32.Vec3{1, 0, 0}))
	assert.InDelta(t, float32(1.7320508), m.Radius, 1e-5)

	// first face is wound towards -z
	n := mgl32.Vec3{m.Triangles[3], m.Triangles[4], m.Triangles[5]}
	assert.True(t, n.ApproxEqual(mgl32.Vec3{0, 0, -1}), "got %v", n)
}

func TestParseOBJNormalsAndNegativeIndices(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 2
f -3//1 -2//1 -1//1
`
	m, err := ParseOBJ(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, m.Triangles, 3*vertexStride)
	for i := 0; i < 3; i++ {
		off := i * vertexStride
		assert.Equal(t, []float32{0, 0, 1}, m.Triangles[off+3:off+6])
	}
	assert.Len(t, m.Edges, 3*2*3)
}

func TestParseOBJTexturedFace(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0 0\nf 1/1 2/1 3/1\n"
	m, err := ParseOBJ(strings.NewReader(src))
	require.NoError(t, err)
	assert.Len(t, m.Triangles, 3*vertexStride)
}

func TestParseOBJErrors(t *testing.T) {
	cases := map[string]string{
		"no faces":     "v 0 0 0\n",
		"short vertex": "v 0 0\n",
		"bad number":   "v 0 x 0\n",
		"out of range": "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n",
		"short face":   "v 0 0 0\nv 1 0 0\nf 1 2\n",
	}
	for name, src := range cases {
		_, err := ParseOBJ(strings.NewReader(src))
		assert.Error(t, err, name)
	}
}

func TestKindForPath(t *testing.T) {
	k, err := KindForPath("clips/Intro.MP4")
	require.NoError(t, err)
	assert.Equal(t, KindVideo, k)

	k, err = KindForPath("logo.webp")
	require.NoError(t, err)
	assert.Equal(t, KindImage, k)

	_, err = KindForPath("notes.txt")
	assert.True(t, errors.Is(err, ErrUnknownMedia))

	k, err = ParseKind("Model")
	require.NoError(t, err)
	assert.Equal(t, KindModel, k)
	assert.Equal(t, "model", k.String())
}

func TestFitWithin(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 400, 100))
	out := FitWithin(src, 200)
	assert.Equal(t, image.Rect(0, 0, 200, 50), out.Bounds())

	tall := image.NewGray(image.Rect(10, 10, 60, 210))
	out = FitWithin(tall, 100)
	assert.Equal(t, image.Rect(0, 0, 25, 100), out.Bounds())

	small := image.NewRGBA(image.Rect(0, 0, 8, 4))
	small.Set(1, 1, color.RGBA{R: 255, A: 255})
	out = FitWithin(small, 0)
	assert.Equal(t, small.Bounds(), out.Bounds())
	assert.Equal(t, color.RGBA{R: 255, A: 255}, out.RGBAAt(1, 1))

	// offset bounds are copied to the origin
	offset := image.NewRGBA(image.Rect(5, 5, 9, 9))
	offset.SetRGBA(5, 5, color.RGBA{G: 255, A: 255})
	out = FitWithin(offset, 64)
	assert.Equal(t, image.Rect(0, 0, 4, 4), out.Bounds())
	assert.Equal(t, color.RGBA{G: 255, A: 255}, out.RGBAAt(0, 0))
}

func TestFlipVertical(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 3))
	img.SetRGBA(0, 0, color.RGBA{R: 1, A: 255})
	img.SetRGBA(0, 2, color.RGBA{R: 3, A: 255})
	flipVertical(img)
	assert.Equal(t, uint8(3), img.RGBAAt(0, 0).R)
	assert.Equal(t, uint8(1), img.RGBAAt(0, 2).R)
}

func TestProbeSize(t *testing.T) {
	w, h, err := probeSize(`{"streams":[{"codec_type":"audio"},{"codec_type":"video","width":1280,"height":720}]}`)
	require.NoError(t, err)
	assert.Equal(t, 1280, w)
	assert.Equal(t, 720, h)

	_, _, err = probeSize(`{"streams":[{"codec_type":"audio"}]}`)
	assert.Error(t, err)
	_, _, err = probeSize(`not json`)
	assert.Error(t, err)
}
