package vector

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/theoremus-urban-solutions/gpsdio-vector/errors"
	"github.com/theoremus-urban-solutions/gpsdio-vector/schema"
)

// geojsonWriter streams features so memory does not grow with the number
// of messages. Properties are serialized by hand to keep schema order.
type geojsonWriter struct {
	f     *os.File
	bw    *bufio.Writer
	names []string
	seq   bool
	count int
}

func openGeoJSON(path string, meta Meta, _ []schema.Definition) (backend, error) {
	return newGeoJSONWriter(path, meta, false)
}

func openGeoJSONSeq(path string, meta Meta, _ []schema.Definition) (backend, error) {
	return newGeoJSONWriter(path, meta, true)
}

func newGeoJSONWriter(path string, meta Meta, seq bool) (*geojsonWriter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := &geojsonWriter{
		f:     f,
		bw:    bufio.NewWriter(f),
		names: meta.Schema.Names(),
		seq:   seq,
	}
	if !seq {
		w.bw.WriteString(`{"type":"FeatureCollection",`)
		if urn := meta.CRS.URN(); urn != "" && !meta.CRS.IsWGS84() {
			crs, _ := json.Marshal(urn)
			w.bw.WriteString(`"crs":{"type":"name","properties":{"name":`)
			w.bw.Write(crs)
			w.bw.WriteString(`}},`)
		}
		w.bw.WriteString(`"features":[`)
	}
	return w, nil
}

func (w *geojsonWriter) writeFeature(g orb.Geometry, values []any) error {
	b, err := encodeFeature(g, w.names, values)
	if err != nil {
		return err
	}
	if !w.seq && w.count > 0 {
		w.bw.WriteByte(',')
	}
	if !w.seq {
		w.bw.WriteByte('\n')
	}
	w.bw.Write(b)
	if w.seq {
		w.bw.WriteByte('\n')
	}
	w.count++
	return nil
}

func encodeFeature(g orb.Geometry, names []string, values []any) ([]byte, error) {
	geom, err := json.Marshal(geojson.NewGeometry(g))
	if err != nil {
		return nil, errors.Wrap(err, "encode geometry")
	}

	buf := make([]byte, 0, 64+len(geom)+16*len(names))
	buf = append(buf, `{"type":"Feature","geometry":`...)
	buf = append(buf, geom...)
	buf = append(buf, `,"properties":{`...)
	for i, name := range names {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, _ := json.Marshal(name)
		val, err := json.Marshal(values[i])
		if err != nil {
			return nil, errors.Wrapf(errors.ErrSchemaMismatch, "property %q: %v", name, err)
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		buf = append(buf, val...)
	}
	buf = append(buf, "}}"...)
	return buf, nil
}

func (w *geojsonWriter) close() error {
	if !w.seq {
		w.bw.WriteString("\n]}\n")
	}
	err := w.bw.Flush()
	if cerr := w.f.Close(); err == nil {
		err = cerr
	}
	return err
}
