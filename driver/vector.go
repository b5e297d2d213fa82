package driver

import (
	"strings"

	"github.com/paulmach/orb"
	"github.com/theoremus-urban-solutions/gpsdio-vector/errors"
	"github.com/theoremus-urban-solutions/gpsdio-vector/plugin"
	"github.com/theoremus-urban-solutions/gpsdio-vector/schema"
	"github.com/theoremus-urban-solutions/gpsdio-vector/vector"
	"go.uber.org/zap"
)

// Vector writes positional messages as point features.
// It is not safe for concurrent use.
type Vector struct {
	points   vector.Collection
	meta     vector.Meta
	lineDest string
	lineMeta vector.Meta
	track    *Track
	skip     bool
	log      *zap.SugaredLogger
	closed   bool
}

var _ plugin.Driver = (*Vector)(nil)

// New opens a Vector driver on target, which must be a path string.
// Configuration problems are reported before any output is created.
func New(target any, mode string, opts Options) (*Vector, error) {
	dest, ok := target.(string)
	if !ok {
		return nil, errors.WithHint(
			errors.Wrapf(errors.ErrInvalidDestination, "target must be a string path, got %T", target),
			"connection objects are not supported, pass a file path",
		)
	}
	if strings.TrimSpace(dest) == "" {
		return nil, errors.Wrap(errors.ErrInvalidDestination, "empty path")
	}
	if mode != vector.ModeWrite {
		return nil, errors.Wrapf(errors.ErrUnsupportedMode, "Vector driver is write-only, got mode %q", mode)
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	format := opts.OutputFormat
	if format == "" {
		format = vector.DefaultFormat
	}
	crs := opts.CRS
	if crs.IsZero() {
		crs = vector.WGS84
	}

	props, err := opts.Fields.Resolve(schema.Defaults)
	if err != nil {
		return nil, err
	}
	if _, err := props.Definitions(); err != nil {
		return nil, err
	}

	v := &Vector{
		meta: vector.Meta{
			Driver:   format,
			CRS:      crs,
			Schema:   props,
			Geometry: vector.GeometryPoint,
		},
		skip: opts.SkipIncomplete,
		log:  log,
	}
	if opts.LineDestination != "" {
		v.lineDest = opts.LineDestination
		v.lineMeta = v.meta.WithSchema(schema.Schema{}).WithGeometry(vector.GeometryLineString)
		v.track = &Track{}
	}

	log.Debugw("Vector meta", "destination", dest, "meta", v.meta)
	log.Debugw("Line meta", "meta", v.lineMeta)
	log.Debugw("Line", "destination", v.lineDest)

	v.points, err = vector.Open(dest, vector.ModeWrite, v.meta)
	if err != nil {
		return nil, err
	}
	log.Debugw("Opened point collection", "path", v.points.Path(), "fields", props.Names())
	return v, nil
}

// Meta returns the point output configuration.
func (v *Vector) Meta() vector.Meta { return v.meta }

// LineMeta returns the line output configuration and whether line
// tracking is enabled.
func (v *Vector) LineMeta() (vector.Meta, bool) { return v.lineMeta, v.track != nil }

// Track returns the coordinate accumulator, or nil when line tracking is
// disabled.
func (v *Vector) Track() *Track { return v.track }

// Write writes one point feature when msg carries both lon and lat, and
// records the position for the line when tracking is enabled. A message
// without coordinates is not an error.
func (v *Vector) Write(msg plugin.Message) error {
	if v.closed {
		return errors.Wrap(errors.ErrClosed, "Vector driver")
	}

	x, err := coordinate(msg, "lon")
	if err != nil {
		return err
	}
	y, err := coordinate(msg, "lat")
	if err != nil {
		return err
	}

	if x != nil && y != nil {
		names := v.meta.Schema.Names()
		props := make([]vector.Property, len(names))
		for i, name := range names {
			props[i] = vector.Property{Name: name, Value: msg[name]}
		}
		f := vector.Feature{Geometry: orb.Point{*x, *y}, Properties: props}
		if err := v.points.Write(f); err != nil {
			return err
		}
	}

	if v.track != nil {
		v.track.Append(x, y)
	}
	return nil
}

// Close closes the point output and, when line tracking is enabled, writes
// the accumulated track as a single LineString. The accumulator is reset
// whatever the outcome.
func (v *Vector) Close() error {
	if v.closed {
		return errors.Wrap(errors.ErrClosed, "Vector driver")
	}
	v.closed = true
	if v.track != nil {
		defer v.track.Reset()
	}

	if err := v.points.Close(); err != nil {
		return err
	}
	if v.track == nil {
		return nil
	}
	return v.writeLine()
}

func (v *Vector) writeLine() error {
	line, err := v.track.LineString(v.skip)
	if err != nil {
		return errors.Wrapf(err, "build line for %s", v.lineDest)
	}
	if dropped := v.track.Len() - len(line); dropped > 0 {
		v.log.Debugw("Dropped incomplete vertices", "dropped", dropped, "kept", len(line))
	}

	dst, err := vector.Open(v.lineDest, vector.ModeWrite, v.lineMeta)
	if err != nil {
		return err
	}
	werr := dst.Write(vector.Feature{Geometry: line})
	cerr := dst.Close()
	if werr != nil {
		return werr
	}
	if cerr != nil {
		return cerr
	}
	v.log.Debugw("Wrote line", "path", v.lineDest, "vertices", len(line))
	return nil
}

// coordinate returns the numeric value of msg[key], or nil when the key is
// absent or null.
func coordinate(msg plugin.Message, key string) (*float64, error) {
	raw, ok := msg[key]
	if !ok || raw == nil {
		return nil, nil
	}
	f, ok := vector.Numeric(raw)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidCoordinate, "%s: %T %v is not a number", key, raw, raw)
	}
	return &f, nil
}
