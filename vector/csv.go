package vector

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/theoremus-urban-solutions/gpsdio-vector/schema"
)

const wktColumn = "WKT"

type csvWriter struct {
	f    *os.File
	w    *csv.Writer
	defs []schema.Definition
	row  []string
}

func openCSV(path string, meta Meta, defs []schema.Definition) (backend, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := csv.NewWriter(f)
	header := append([]string{wktColumn}, meta.Schema.Names()...)
	if err := w.Write(header); err != nil {
		f.Close()
		return nil, err
	}
	return &csvWriter{
		f:    f,
		w:    w,
		defs: defs,
		row:  make([]string, len(header)),
	}, nil
}

func (c *csvWriter) writeFeature(g orb.Geometry, values []any) error {
	c.row[0] = wkt.MarshalString(g)
	for i, v := range values {
		c.row[i+1] = formatCSV(c.defs[i], v)
	}
	return c.w.Write(c.row)
}

func formatCSV(def schema.Definition, v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		if def.Precision > 0 {
			return strconv.FormatFloat(val, 'f', def.Precision, 64)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	}
	return toString(v)
}

func (c *csvWriter) close() error {
	c.w.Flush()
	err := c.w.Error()
	if cerr := c.f.Close(); err == nil {
		err = cerr
	}
	return err
}
