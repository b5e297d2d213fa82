package driver

import (
	"github.com/paulmach/orb"
	"github.com/theoremus-urban-solutions/gpsdio-vector/errors"
)

// Vertex is one accumulated position. Either ordinate may be missing.
type Vertex struct {
	X, Y *float64
}

// Complete reports whether both ordinates are present.
func (v Vertex) Complete() bool {
	return v.X != nil && v.Y != nil
}

// Track accumulates the positions of every message written while line
// tracking is enabled, including those lacking an ordinate.
type Track struct {
	vertices []Vertex
}

// Append records a vertex.
func (t *Track) Append(x, y *float64) {
	t.vertices = append(t.vertices, Vertex{X: x, Y: y})
}

// Len returns the number of vertices.
func (t *Track) Len() int { return len(t.vertices) }

// Vertices returns a copy of the accumulated vertices in insertion order.
func (t *Track) Vertices() []Vertex {
	return append([]Vertex(nil), t.vertices...)
}

// Reset discards all vertices.
func (t *Track) Reset() { t.vertices = nil }

// LineString builds the line through all vertices in insertion order.
// An incomplete vertex is an error unless skipIncomplete is set, in which
// case it is left out.
func (t *Track) LineString(skipIncomplete bool) (orb.LineString, error) {
	line := make(orb.LineString, 0, len(t.vertices))
	for i, v := range t.vertices {
		if !v.Complete() {
			if skipIncomplete {
				continue
			}
			return nil, errors.WithHint(
				errors.Wrapf(errors.ErrIncompleteVertex, "vertex %d", i),
				"enable skip_incomplete to leave such vertices out of the line",
			)
		}
		line = append(line, orb.Point{*v.X, *v.Y})
	}
	return line, nil
}
