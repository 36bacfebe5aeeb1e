package media

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// vertexStride is the number of floats per triangle vertex: position then
// normal.
const vertexStride = 6

// Mesh is triangle and edge geometry ready for upload.
type Mesh struct {
	Triangles []float32 // interleaved position and normal
	Edges     []float32 // position pairs, each polygon edge once
	Center    mgl32.Vec3
	Radius    float32 // bounding radius about Center
}

// LoadOBJ parses a Wavefront OBJ file.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model: %w", err)
	}
	defer f.Close()
	m, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

type faceVertex struct {
	v, n int // zero-based, n is -1 when absent
}

// ParseOBJ reads positions, normals and polygonal faces. Polygons are fan
// triangulated; faces without normals get a flat face normal. Texture
// coordinates, groups and materials are ignored.
func ParseOBJ(r io.Reader) (*Mesh, error) {
	var positions, normals []mgl32.Vec3
	var faces [][]faceVertex

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "v", "vn":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: %s needs three components", line, fields[0])
			}
			var vec mgl32.Vec3
			for i := 0; i < 3; i++ {
				x, err := strconv.ParseFloat(fields[i+1], 32)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
				vec[i] = float32(x)
			}
			if fields[0] == "v" {
				positions = append(positions, vec)
			} else {
				normals = append(normals, vec)
			}
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least three vertices", line)
			}
			face := make([]faceVertex, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				fv, err := parseFaceVertex(tok, len(positions), len(normals))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
				face = append(face, fv)
			}
			faces = append(faces, face)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(faces) == 0 {
		return nil, errors.New("model has no faces")
	}
	return buildMesh(positions, normals, faces), nil
}

func parseFaceVertex(tok string, numPositions, numNormals int) (faceVertex, error) {
	parts := strings.Split(tok, "/")
	v, err := resolveIndex(parts[0], numPositions)
	if err != nil {
		return faceVertex{}, err
	}
	fv := faceVertex{v: v, n: -1}
	if len(parts) == 3 && parts[2] != "" {
		if fv.n, err = resolveIndex(parts[2], numNormals); err != nil {
			return faceVertex{}, err
		}
	}
	return fv, nil
}

// resolveIndex converts a one-based (or negative, relative) OBJ index.
func resolveIndex(s string, count int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad index %q", s)
	}
	if i < 0 {
		i = count + i
	} else {
		i--
	}
	if i < 0 || i >= count {
		return 0, fmt.Errorf("index %s out of range", s)
	}
	return i, nil
}

func buildMesh(positions, normals []mgl32.Vec3, faces [][]faceVertex) *Mesh {
	m := &Mesh{}
	edges := make(map[[2]int]bool)

	appendVertex := func(fv faceVertex, flat mgl32.Vec3) {
		p := positions[fv.v]
		n := flat
		if fv.n >= 0 {
			n = normals[fv.n].Normalize()
		}
		m.Triangles = append(m.Triangles, p[0], p[1], p[2], n[0], n[1], n[2])
	}

	for _, face := range faces {
		a, b, c := positions[face[0].v], positions[face[1].v], positions[face[2].v]
		flat := b.Sub(a).Cross(c.Sub(a))
		if flat.Len() > 0 {
			flat = flat.Normalize()
		}
		for i := 1; i+1 < len(face); i++ {
			appendVertex(face[0], flat)
			appendVertex(face[i], flat)
			appendVertex(face[i+1], flat)
		}
		for i := range face {
			u, w := face[i].v, face[(i+1)%len(face)].v
			if u > w {
				u, w = w, u
			}
			key := [2]int{u, w}
			if u == w || edges[key] {
				continue
			}
			edges[key] = true
			pu, pw := positions[u], positions[w]
			m.Edges = append(m.Edges, pu[0], pu[1], pu[2], pw[0], pw[1], pw[2])
		}
	}

	lo := mgl32.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32}
	hi := mgl32.Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32}
	for _, p := range positions {
		for i := 0; i < 3; i++ {
			lo[i] = min(lo[i], p[i])
			hi[i] = max(hi[i], p[i])
		}
	}
	m.Center = lo.Add(hi).Mul(0.5)
	for _, p := range positions {
		m.Radius = max(m.Radius, p.Sub(m.Center).Len())
	}
	if m.Radius == 0 {
		m.Radius = 1
	}
	return m
}
