package media

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// Model is a mesh uploaded to vertex buffers. Buffers are shared between
// contexts; vertex arrays are not, so renderers build their own.
type Model struct {
	Mesh             *Mesh
	TriangleBuffer   uint32
	TriangleVertices int32
	EdgeBuffer       uint32
	EdgeVertices     int32
}

// UploadModel copies a mesh into static vertex buffers.
func UploadModel(mesh *Mesh) *Model {
	m := &Model{
		Mesh:             mesh,
		TriangleVertices: int32(len(mesh.Triangles) / vertexStride),
		EdgeVertices:     int32(len(mesh.Edges) / 3),
	}
	gl.GenBuffers(1, &m.TriangleBuffer)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.TriangleBuffer)
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Triangles)*4, gl.Ptr(mesh.Triangles), gl.STATIC_DRAW)

	if len(mesh.Edges) > 0 {
		gl.GenBuffers(1, &m.EdgeBuffer)
		gl.BindBuffer(gl.ARRAY_BUFFER, m.EdgeBuffer)
		gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Edges)*4, gl.Ptr(mesh.Edges), gl.STATIC_DRAW)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return m
}

func (m *Model) Delete() {
	if m.TriangleBuffer != 0 {
		gl.DeleteBuffers(1, &m.TriangleBuffer)
	}
	if m.EdgeBuffer != 0 {
		gl.DeleteBuffers(1, &m.EdgeBuffer)
	}
}
