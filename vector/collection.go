package vector

import (
	"sort"
	"strings"

	"github.com/paulmach/orb"
	"github.com/theoremus-urban-solutions/gpsdio-vector/errors"
	"github.com/theoremus-urban-solutions/gpsdio-vector/schema"
)

// Collection is an open dataset in write mode.
type Collection interface {
	// Write validates f against the schema and geometry kind and persists it
	Write(f Feature) error
	// Close flushes and releases the dataset
	Close() error
	// Meta returns the metadata the collection was opened with
	Meta() Meta
	// Path returns the destination
	Path() string
	// Len returns the number of features written
	Len() int
}

// backend encodes already validated features for one format.
// values are ordered like the schema and hold int64, float64, string,
// bool or nil.
type backend interface {
	writeFeature(g orb.Geometry, values []any) error
	close() error
}

type openFunc func(path string, meta Meta, defs []schema.Definition) (backend, error)

type format struct {
	name string
	open openFunc
}

var formats = map[string]format{}

func registerFormat(name string, open openFunc) {
	formats[strings.ToLower(name)] = format{name: name, open: open}
}

func init() {
	registerFormat("ESRI Shapefile", openShapefile)
	registerFormat("GeoJSON", openGeoJSON)
	registerFormat("GeoJSONSeq", openGeoJSONSeq)
	registerFormat("CSV", openCSV)
}

// Formats returns the supported format identifiers, sorted.
func Formats() []string {
	names := make([]string, 0, len(formats))
	for _, f := range formats {
		names = append(names, f.name)
	}
	sort.Strings(names)
	return names
}

// Supported reports whether the format identifier has a backend.
// Identifiers are matched case-insensitively.
func Supported(driver string) bool {
	_, ok := formats[strings.ToLower(driver)]
	return ok
}

// Open opens path for writing. Only ModeWrite is accepted.
func Open(path, mode string, meta Meta) (Collection, error) {
	if mode != ModeWrite {
		return nil, errors.Wrapf(errors.ErrUnsupportedMode, "mode %q, datasets are write-only", mode)
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.Wrap(errors.ErrInvalidDestination, "empty path")
	}
	if meta.Geometry != GeometryPoint && meta.Geometry != GeometryLineString {
		return nil, errors.Wrapf(errors.ErrGeometryMismatch, "unsupported geometry kind %q", meta.Geometry)
	}
	f, ok := formats[strings.ToLower(meta.Driver)]
	if !ok {
		return nil, errors.WithHintf(
			errors.Wrapf(errors.ErrUnsupportedFormat, "%q", meta.Driver),
			"supported formats: %s", strings.Join(Formats(), ", "),
		)
	}
	defs, err := meta.Schema.Definitions()
	if err != nil {
		return nil, err
	}

	b, err := f.open(path, meta, defs)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}

	names := meta.Schema.Names()
	index := make(map[string]int, len(names))
	for i, name := range names {
		index[name] = i
	}
	return &collection{
		path:    path,
		meta:    meta,
		defs:    defs,
		index:   index,
		backend: b,
	}, nil
}

type collection struct {
	path    string
	meta    Meta
	defs    []schema.Definition
	index   map[string]int
	backend backend
	count   int
	closed  bool
}

func (c *collection) Meta() Meta   { return c.meta }
func (c *collection) Path() string { return c.path }
func (c *collection) Len() int     { return c.count }

func (c *collection) Write(f Feature) error {
	if c.closed {
		return errors.Wrapf(errors.ErrClosed, "collection %s", c.path)
	}
	if f.Geometry == nil {
		return errors.Wrapf(errors.ErrGeometryMismatch, "nil geometry, collection expects %s", c.meta.Geometry)
	}
	if got := GeometryType(f.Geometry.GeoJSONType()); got != c.meta.Geometry {
		return errors.Wrapf(errors.ErrGeometryMismatch, "got %s, collection expects %s", got, c.meta.Geometry)
	}

	values := make([]any, len(c.defs))
	for _, p := range f.Properties {
		i, ok := c.index[p.Name]
		if !ok {
			return errors.Wrapf(errors.ErrSchemaMismatch, "unknown property %q", p.Name)
		}
		v, err := coerce(c.defs[i], p.Value)
		if err != nil {
			return errors.Wrapf(errors.ErrSchemaMismatch, "property %q: %v", p.Name, err)
		}
		values[i] = v
	}

	if err := c.backend.writeFeature(f.Geometry, values); err != nil {
		return errors.Wrapf(err, "write %s", c.path)
	}
	c.count++
	return nil
}

func (c *collection) Close() error {
	if c.closed {
		return errors.Wrapf(errors.ErrClosed, "collection %s", c.path)
	}
	c.closed = true
	if err := c.backend.close(); err != nil {
		return errors.Wrapf(err, "close %s", c.path)
	}
	return nil
}
