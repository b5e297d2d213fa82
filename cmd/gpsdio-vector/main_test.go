package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theoremus-urban-solutions/gpsdio-vector/errors"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConvert_NDJSONToGeoJSON(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "msgs.ndjson")
	require.NoError(t, os.WriteFile(input, []byte(strings.Join([]string{
		`{"mmsi": 366123000, "lon": 0, "lat": 0, "heading": 90}`,
		`{"mmsi": 366123000, "lon": 1, "lat": 1}`,
		`{"mmsi": 366123000, "lon": 2, "lat": 2, "status": "moored"}`,
	}, "\n")), 0o644))

	dest := filepath.Join(dir, "points.geojson")
	line := filepath.Join(dir, "line.geojson")
	out, err := run(t, "convert", "--input", input, "--dest", dest, "--driver", "GeoJSON",
		"--line", line, "--fields", "status:str:20")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 3 points from 3 messages")

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	fc, err := geojson.UnmarshalFeatureCollection(data)
	require.NoError(t, err)
	require.Len(t, fc.Features, 3)
	assert.Equal(t, 90.0, fc.Features[0].Properties["heading"])
	assert.Equal(t, "moored", fc.Features[2].Properties["status"])

	data, err = os.ReadFile(line)
	require.NoError(t, err)
	lc, err := geojson.UnmarshalFeatureCollection(data)
	require.NoError(t, err)
	require.Len(t, lc.Features, 1)
	assert.Equal(t, orb.LineString{{0, 0}, {1, 1}, {2, 2}}, lc.Features[0].Geometry)
}

func TestConvert_FromConfig(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "msgs.ndjson")
	require.NoError(t, os.WriteFile(input, []byte(`{"lon": 5, "lat": 6}`+"\n"), 0o644))

	dest := filepath.Join(dir, "out.csv")
	cfg := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(cfg, []byte(`
input:
  path: `+input+`
outputs:
  - name: other
    destination: `+filepath.Join(dir, "other.csv")+`
    output_format: CSV
  - name: main
    destination: `+dest+`
    output_format: CSV
`), 0o644))

	_, err := run(t, "convert", "--config", cfg, "--output", "main")
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "POINT(5 6)")
	assert.NoFileExists(t, filepath.Join(dir, "other.csv"))
}

func TestConvert_ConfigurationErrors(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "msgs.ndjson")
	require.NoError(t, os.WriteFile(input, []byte(`{"lon": 5, "lat": 6}`), 0o644))
	dest := filepath.Join(dir, "points.shp")

	_, err := run(t, "convert", "--input", input, "--dest", dest, "--fields", "heading")
	assert.True(t, errors.Is(err, errors.ErrMalformedField), "got %v", err)
	assert.NoFileExists(t, dest)

	_, err = run(t, "convert", "--input", input, "--dest", dest, "--crs", "nowhere")
	assert.True(t, errors.Is(err, errors.ErrInvalidCRS), "got %v", err)

	_, err = run(t, "convert", "--dest", dest)
	assert.Error(t, err)
}

func TestSchemaCommand(t *testing.T) {
	out, err := run(t, "schema", "--fields", "heading:int:3,status:str:20")
	require.NoError(t, err)
	assert.Equal(t, "mmsi:int:30\ntimestamp:str:40\ncourse:float:12.1\nspeed:float:10.1\nheading:int:3\nstatus:str:20\n", out)

	_, err = run(t, "schema", "--fields", "x:complex")
	assert.True(t, errors.Is(err, errors.ErrInvalidFieldDefinition), "got %v", err)
}

func TestDriversCommand(t *testing.T) {
	out, err := run(t, "drivers")
	require.NoError(t, err)
	assert.Contains(t, out, "Vector 0.1.0 (modes: w)")
	assert.Contains(t, out, "vector formats: CSV, ESRI Shapefile, GeoJSON, GeoJSONSeq")
}
