package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theoremus-urban-solutions/gpsdio-vector/schema"
	"github.com/theoremus-urban-solutions/gpsdio-vector/vector"
)

const sample = `
logging:
  json: true
  level: debug
input:
  path: https://example.com/vehicle-positions.pb
  format: gtfsrt
  timeoutMS: 5000
outputs:
  - name: harbour
    destination: out/points.shp
    line_destination: out/track.shp
    crs:
      init: epsg:3857
    fields:
      heading: int:3
      status: str:20
    skip_incomplete: true
  - name: web
    destination: out/points.geojson
    output_format: GeoJSON
    fields: "heading:int:3, status:str:20"
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.True(t, cfg.Logging.JSON)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "gtfsrt", cfg.Input.Format)
	assert.Equal(t, 5000, cfg.Input.TimeoutMS)
	require.Len(t, cfg.Outputs, 2)

	harbour := cfg.Outputs[0]
	assert.Equal(t, vector.DefaultFormat, harbour.OutputFormat)
	assert.Equal(t, vector.CRS{Authority: "EPSG", Code: 3857}, harbour.CRS)
	assert.True(t, harbour.SkipIncomplete)
	assert.Equal(t, schema.SpecMapping, harbour.Fields.Kind())

	web := cfg.Outputs[1]
	assert.Equal(t, vector.WGS84, web.CRS)
	assert.Equal(t, schema.SpecString, web.Fields.Kind())

	// both syntaxes resolve to the same schema
	a, err := harbour.Fields.Resolve(schema.Defaults)
	require.NoError(t, err)
	b, err := web.Fields.Resolve(schema.Defaults)
	require.NoError(t, err)
	if diff := cmp.Diff(a.Fields(), b.Fields()); diff != "" {
		t.Errorf("schemas differ (-mapping +string):\n%s", diff)
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("outputs:\n  - name: a\n    destination: a.shp\n"))
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "ndjson", cfg.Input.Format)
	assert.Equal(t, vector.DefaultFormat, cfg.Outputs[0].OutputFormat)
	assert.True(t, cfg.Outputs[0].Fields.IsZero())
}

func TestParse_Invalid(t *testing.T) {
	tests := map[string]string{
		"missing destination": "outputs:\n  - name: a\n",
		"missing name":        "outputs:\n  - destination: a.shp\n",
		"bad level":           "logging:\n  level: loud\n",
		"bad input format":    "input:\n  format: nmea\n",
		"negative timeout":    "input:\n  timeoutMS: -1\n",
		"bad crs":             "outputs:\n  - name: a\n    destination: a.shp\n    crs: nowhere\n",
		"numeric fields":      "outputs:\n  - name: a\n    destination: a.shp\n    fields: 5\n",
		"not yaml":            "outputs: [",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadAppConfig(t *testing.T) {
	orig := Config
	defer func() { Config = orig }()

	path := filepath.Join(t.TempDir(), "gpsdio.yml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	require.NoError(t, LoadAppConfig(path))

	out, ok := SelectOutput("web")
	require.True(t, ok)
	assert.Equal(t, "out/points.geojson", out.Destination)

	out, ok = SelectOutput("unknown")
	require.True(t, ok)
	assert.Equal(t, "harbour", out.Name)

	out, ok = SelectOutput("")
	require.True(t, ok)
	assert.Equal(t, "harbour", out.Name)
}

func TestLoadAppConfig_MissingFile(t *testing.T) {
	orig := Config
	defer func() { Config = orig }()

	err := LoadAppConfig(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestSelectOutput_None(t *testing.T) {
	orig := Config
	defer func() { Config = orig }()

	Config = AppConfig{}
	_, ok := SelectOutput("any")
	assert.False(t, ok)
}
