package vector

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/theoremus-urban-solutions/gpsdio-vector/errors"
	"github.com/theoremus-urban-solutions/gpsdio-vector/schema"
)

const (
	shapefileEncoding  = "UTF-8"
	maxFieldNameLength = 10
	maxFieldWidth      = 254
)

// Widths used when a definition gives none.
var defaultWidths = map[schema.Type]schema.Definition{
	schema.TypeInt:      {Type: schema.TypeInt, Width: 10},
	schema.TypeFloat:    {Type: schema.TypeFloat, Width: 24, Precision: 15},
	schema.TypeString:   {Type: schema.TypeString, Width: 80},
	schema.TypeDate:     {Type: schema.TypeDate, Width: 8},
	schema.TypeDateTime: {Type: schema.TypeDateTime, Width: 24},
	schema.TypeBool:     {Type: schema.TypeBool, Width: 1},
}

type shapefileWriter struct {
	w       *shp.Writer
	base    string
	defs    []schema.Definition
	fields  []shp.Field
	names   []string
	fidOnly bool
}

func openShapefile(path string, meta Meta, defs []schema.Definition) (backend, error) {
	shpPath, err := shapefilePath(path)
	if err != nil {
		return nil, err
	}

	var shapeType shp.ShapeType = shp.POINT
	if meta.Geometry == GeometryLineString {
		shapeType = shp.POLYLINE
	}

	names := meta.Schema.Names()
	defs = append([]schema.Definition(nil), defs...)
	fields, err := shapefileFields(names, defs)
	if err != nil {
		return nil, err
	}
	fidOnly := len(fields) == 0
	if fidOnly {
		// OGR writes an FID column when a layer has no attributes
		fields = []shp.Field{shp.NumberField("FID", 11)}
	}

	w, err := shp.Create(shpPath, shapeType)
	if err != nil {
		return nil, err
	}
	if err := w.SetFields(fields); err != nil {
		w.Close()
		return nil, errors.Wrap(err, "set dbf fields")
	}
	if err := writeSidecars(shpPath, meta.CRS); err != nil {
		w.Close()
		return nil, err
	}

	return &shapefileWriter{
		w:       w,
		base:    strings.TrimSuffix(shpPath, filepath.Ext(shpPath)),
		defs:    defs,
		fields:  fields,
		names:   names,
		fidOnly: fidOnly,
	}, nil
}

// shapefilePath resolves the .shp file for a destination. A path without
// extension is a directory holding <base>.shp.
func shapefilePath(path string) (string, error) {
	ext := filepath.Ext(path)
	switch {
	case strings.EqualFold(ext, ".shp"):
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return "", err
			}
		}
		return path, nil
	case ext == "":
		if err := os.MkdirAll(path, 0o755); err != nil {
			return "", err
		}
		return filepath.Join(path, filepath.Base(path)+".shp"), nil
	}
	return "", errors.WithHint(
		errors.Wrapf(errors.ErrInvalidDestination, "shapefile destination %q", path),
		"use a .shp path or a directory",
	)
}

// shapefileFields builds dbf fields, filling default widths into defs.
func shapefileFields(names []string, defs []schema.Definition) ([]shp.Field, error) {
	fields := make([]shp.Field, 0, len(defs))
	seen := make(map[string]string, len(defs))
	for i, def := range defs {
		name := names[i]
		short := truncateUTF8(name, maxFieldNameLength)
		if prev, dup := seen[strings.ToLower(short)]; dup {
			return nil, errors.Wrapf(errors.ErrInvalidFieldDefinition,
				"fields %q and %q collide as %q in dbf", prev, name, short)
		}
		seen[strings.ToLower(short)] = name

		if def.Width == 0 {
			d := defaultWidths[def.Type]
			def.Width, def.Precision = d.Width, d.Precision
		}
		if def.Width > maxFieldWidth {
			return nil, errors.Wrapf(errors.ErrInvalidFieldDefinition,
				"field %q width %d exceeds %d", name, def.Width, maxFieldWidth)
		}
		defs[i] = def

		width, prec := uint8(def.Width), uint8(def.Precision)
		switch def.Type {
		case schema.TypeInt:
			fields = append(fields, shp.NumberField(short, width))
		case schema.TypeFloat:
			fields = append(fields, shp.FloatField(short, width, prec))
		case schema.TypeDate:
			fields = append(fields, shp.DateField(short))
		case schema.TypeBool:
			f := shp.StringField(short, 1)
			f.Fieldtype = 'L'
			fields = append(fields, f)
		default:
			fields = append(fields, shp.StringField(short, width))
		}
	}
	return fields, nil
}

func writeSidecars(shpPath string, crs CRS) error {
	base := strings.TrimSuffix(shpPath, filepath.Ext(shpPath))
	if err := os.WriteFile(base+".cpg", []byte(shapefileEncoding), 0o644); err != nil {
		return errors.Wrap(err, "write .cpg")
	}
	if wkt, ok := crs.WellKnownText(); ok {
		if err := os.WriteFile(base+".prj", []byte(wkt), 0o644); err != nil {
			return errors.Wrap(err, "write .prj")
		}
	}
	return nil
}

func (s *shapefileWriter) writeFeature(g orb.Geometry, values []any) error {
	var shape shp.Shape
	switch geom := g.(type) {
	case orb.Point:
		shape = &shp.Point{X: geom.X(), Y: geom.Y()}
	case orb.LineString:
		points := make([]shp.Point, len(geom))
		for i, p := range geom {
			points[i] = shp.Point{X: p.X(), Y: p.Y()}
		}
		shape = shp.NewPolyLine([][]shp.Point{points})
	default:
		return errors.Wrapf(errors.ErrGeometryMismatch, "shapefile cannot store %s", g.GeoJSONType())
	}

	if s.fidOnly {
		row := int(s.w.Write(shape))
		return s.w.WriteAttribute(row, 0, row)
	}

	// Write commits the shape immediately; widths are checked before it.
	attrs := make([]any, len(values))
	for i, v := range values {
		attrs[i] = s.dbfValue(i, v)
		if n := s.formattedLen(i, attrs[i]); n > int(s.fields[i].Size) {
			return errors.Wrapf(errors.ErrSchemaMismatch,
				"field %q: value %v needs %d bytes, width is %d", s.names[i], v, n, s.fields[i].Size)
		}
	}

	row := int(s.w.Write(shape))
	for i, a := range attrs {
		if err := s.w.WriteAttribute(row, i, a); err != nil {
			return errors.Wrapf(errors.ErrSchemaMismatch, "field %q: %v", s.names[i], err)
		}
	}
	return nil
}

// formattedLen is the length go-shp gives a dbfValue result.
func (s *shapefileWriter) formattedLen(i int, a any) int {
	switch val := a.(type) {
	case int:
		return len(strconv.Itoa(val))
	case float64:
		return len(strconv.FormatFloat(val, 'f', int(s.fields[i].Precision), 64))
	case string:
		return len(val)
	}
	return 0
}

// dbfValue converts a coerced value to what go-shp writes. Nulls are
// blank-filled; strings are truncated to the field width, as OGR does.
func (s *shapefileWriter) dbfValue(i int, v any) any {
	size := int(s.fields[i].Size)
	switch val := v.(type) {
	case nil:
		return strings.Repeat(" ", size)
	case int64:
		return int(val)
	case float64:
		return val
	case bool:
		if val {
			return "T"
		}
		return "F"
	case string:
		if s.defs[i].Type == schema.TypeDate {
			val = strings.ReplaceAll(val, "-", "")
		}
		return truncateUTF8(val, size)
	}
	return truncateUTF8(toString(v), size)
}

// truncateUTF8 cuts s to at most n bytes without splitting a character.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// close flushes the writer and moves the attribute table go-shp names
// <base>dbf to <base>.dbf.
func (s *shapefileWriter) close() error {
	s.w.Close()
	if _, err := os.Stat(s.base + "dbf"); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, "stat dbf")
	}
	return errors.Wrap(os.Rename(s.base+"dbf", s.base+".dbf"), "rename dbf")
}
