package vector

import (
	"github.com/paulmach/orb"
	"github.com/theoremus-urban-solutions/gpsdio-vector/schema"
	"go.uber.org/zap/zapcore"
)

// ModeWrite is the only open mode supported.
const ModeWrite = "w"

// DefaultFormat is the format used when none is configured.
const DefaultFormat = "ESRI Shapefile"

// GeometryType is the geometry kind of a collection.
type GeometryType string

const (
	GeometryPoint      GeometryType = "Point"
	GeometryLineString GeometryType = "LineString"
)

// Meta describes a dataset at open time.
// Meta is a value type; derive variants with the With* builders.
type Meta struct {
	// Driver is the format identifier, e.g. "ESRI Shapefile" or "GeoJSON"
	Driver string
	// CRS is recorded as metadata; coordinates are never transformed
	CRS CRS
	// Schema is the ordered property schema
	Schema schema.Schema
	// Geometry is the kind of geometry every feature must carry
	Geometry GeometryType
}

// WithSchema returns a copy of m using s as property schema.
func (m Meta) WithSchema(s schema.Schema) Meta {
	m.Schema = s
	return m
}

// WithGeometry returns a copy of m with geometry kind g.
func (m Meta) WithGeometry(g GeometryType) Meta {
	m.Geometry = g
	return m
}

// MarshalLogObject lets Meta be logged as a structured zap field.
func (m Meta) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("driver", m.Driver)
	enc.AddString("crs", m.CRS.String())
	enc.AddString("geometry", string(m.Geometry))
	enc.AddString("schema", m.Schema.String())
	return nil
}

// Property is one named property value of a feature.
type Property struct {
	Name  string
	Value any
}

// Feature is a geometry with ordered properties.
type Feature struct {
	Geometry   orb.Geometry
	Properties []Property
}
