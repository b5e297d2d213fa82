package config

import (
	"github.com/theoremus-urban-solutions/gpsdio-vector/schema"
	"github.com/theoremus-urban-solutions/gpsdio-vector/vector"
)

// LoggingConfig contains logger configuration
type LoggingConfig struct {
	JSON  bool   `yaml:"json"`
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
}

// InputConfig describes where messages come from
type InputConfig struct {
	Path      string `yaml:"path"`
	Format    string `yaml:"format" validate:"omitempty,oneof=ndjson gtfsrt"`
	TimeoutMS int    `yaml:"timeoutMS" validate:"gte=0"`
}

// OutputConfig configures one Vector driver instance
type OutputConfig struct {
	Name            string           `yaml:"name" validate:"required"`
	Destination     string           `yaml:"destination" validate:"required"`
	OutputFormat    string           `yaml:"output_format"`
	LineDestination string           `yaml:"line_destination"`
	CRS             vector.CRS       `yaml:"crs"`
	Fields          schema.FieldSpec `yaml:"fields"`
	SkipIncomplete  bool             `yaml:"skip_incomplete"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Logging LoggingConfig  `yaml:"logging"`
	Input   InputConfig    `yaml:"input"`
	Outputs []OutputConfig `yaml:"outputs" validate:"dive"`
}
