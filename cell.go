// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package powerdiag computes power diagrams (weighted Voronoi diagrams) of
// weighted point sites in R^3, as the dual of the regular triangulation.

package powerdiag

import (
	"fmt"

	"github.com/2dChan/powerdiag/regular"
	"github.com/golang/geo/r3"
)

// Cell represents a power cell. It is a view structure for accessing a cell
// in a Diagram. The cell's index corresponds to the index of its site in
// the Diagram's Sites.
type Cell struct {
	idx int
	d   *Diagram
}

// Cell returns the cell owned by the site with the given index.
func (d *Diagram) Cell(i int) (Cell, error) {
	if i < 0 || i >= d.NumCells() {
		return Cell{}, fmt.Errorf("Cell: index %d out of range [0 %d)", i, d.NumCells())
	}
	return Cell{idx: i, d: d}, nil
}

// SiteIndex returns the index of the site in the Diagram's Sites.
func (c Cell) SiteIndex() int {
	return c.idx
}

// Site returns the weighted site owning the cell.
func (c Cell) Site() regular.Site {
	return c.d.Sites[c.idx]
}

// Volume returns the cell volume; zero for empty or fully degenerate
// cells, and the bounded part only for unbounded cells.
func (c Cell) Volume() float64 {
	return c.d.Volumes[c.idx]
}

// NumFaces returns the number of faces bounding the cell.
func (c Cell) NumFaces() int {
	return c.d.CellFaceOffsets[c.idx+1] - c.d.CellFaceOffsets[c.idx]
}

// FaceIndices returns the indices of the cell's faces in the Diagram's
// Faces. Each face also appears once in the face list of the neighboring
// cell on its other side.
func (c Cell) FaceIndices() []int {
	return c.d.CellFaces[c.d.CellFaceOffsets[c.idx]:c.d.CellFaceOffsets[c.idx+1]]
}

// Face returns the face at the specified position in the cell's face list.
// It returns an error if the index is out of range.
func (c Cell) Face(i int) (Face, error) {
	start := c.d.CellFaceOffsets[c.idx]
	end := c.d.CellFaceOffsets[c.idx+1]
	if i < 0 || i >= end-start {
		return Face{}, fmt.Errorf("Face: index %d out of range [0 %d)", i, end-start)
	}
	return c.d.Faces[c.d.CellFaces[start+i]], nil
}

// NeighborIndices returns the site indices adjacent to the cell, one per
// face, in the cell's face order.
func (c Cell) NeighborIndices() []int {
	out := make([]int, 0, c.NumFaces())
	for _, fi := range c.FaceIndices() {
		f := c.d.Faces[fi]
		if f.SiteA == c.idx {
			out = append(out, f.SiteB)
		} else {
			out = append(out, f.SiteA)
		}
	}
	return out
}

// NumVertices returns the number of power vertices on the cell boundary.
func (c Cell) NumVertices() int {
	return c.d.CellVertOffsets[c.idx+1] - c.d.CellVertOffsets[c.idx]
}

// VertexIndices returns the indices of the cell's power vertices in the
// Diagram's Vertices, ascending. A convex polyhedron has no canonical
// single vertex cycle; the geometric ordering lives on the per-face
// polygons.
func (c Cell) VertexIndices() []int {
	return c.d.CellVerts[c.d.CellVertOffsets[c.idx]:c.d.CellVertOffsets[c.idx+1]]
}

// Vertex returns the folded position of the cell vertex at the specified
// index. It returns an error if the index is out of range.
func (c Cell) Vertex(i int) (r3.Vector, error) {
	start := c.d.CellVertOffsets[c.idx]
	end := c.d.CellVertOffsets[c.idx+1]
	if i < 0 || i >= end-start {
		return r3.Vector{}, fmt.Errorf("Vertex: index %d out of range [0 %d)", i, end-start)
	}
	return c.d.Vertices[c.d.CellVerts[start+i]], nil
}
