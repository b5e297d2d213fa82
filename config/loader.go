package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/theoremus-urban-solutions/gpsdio-vector/errors"
	"github.com/theoremus-urban-solutions/gpsdio-vector/vector"
	"gopkg.in/yaml.v3"
)

// DefaultPaths are tried in order when no config path is given
var DefaultPaths = []string{"config.yml", "./config/config.yml"}

// Config is the global application configuration
var Config AppConfig

// LoadAppConfig loads and validates the application configuration from path,
// or from the first of DefaultPaths that exists when path is empty.
func LoadAppConfig(path string) error {
	paths := DefaultPaths
	if path != "" {
		paths = []string{path}
	}
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return errors.Wrap(err, "read config")
	}

	cfg, err := Parse(data)
	if err != nil {
		return err
	}
	Config = cfg
	return nil
}

// Parse unmarshals, validates and applies defaults to a YAML document.
func Parse(data []byte) (AppConfig, error) {
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, errors.Wrap(err, "parse config")
	}
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return AppConfig{}, errors.Wrap(err, "validate config")
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Input.Format == "" {
		cfg.Input.Format = "ndjson"
	}
	for i := range cfg.Outputs {
		out := &cfg.Outputs[i]
		if out.OutputFormat == "" {
			out.OutputFormat = vector.DefaultFormat
		}
		if out.CRS.IsZero() {
			out.CRS = vector.WGS84
		}
	}
}

// SelectOutput chooses an output by name; fallback to first; if none, returns false.
func SelectOutput(name string) (OutputConfig, bool) {
	if name != "" {
		for _, o := range Config.Outputs {
			if o.Name == name {
				return o, true
			}
		}
	}
	if len(Config.Outputs) > 0 {
		return Config.Outputs[0], true
	}
	return OutputConfig{}, false
}
