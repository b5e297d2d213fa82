package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/theoremus-urban-solutions/gpsdio-vector/config"
	"github.com/theoremus-urban-solutions/gpsdio-vector/driver"
	"github.com/theoremus-urban-solutions/gpsdio-vector/errors"
	"github.com/theoremus-urban-solutions/gpsdio-vector/logger"
	"github.com/theoremus-urban-solutions/gpsdio-vector/plugin"
)

// version is the host version drivers are checked against
var version = "0.1.0"

type globalFlags struct {
	configPath string
	jsonLogs   bool
	verbose    bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "gpsdio-vector",
		Short: "Write positional messages to vector files",
		Long: `gpsdio-vector writes positional messages as point features to a vector
dataset and can write the track of all messages as a single line.

Available commands:
  convert - Read messages and write them through the Vector driver
  schema  - Print the resolved field schema
  drivers - List registered drivers and vector formats

Examples:
  gpsdio-vector convert --input msgs.ndjson --dest out/points.shp --line out/track.shp
  gpsdio-vector convert --config config.yml --output harbour
  gpsdio-vector schema --fields "heading:int:3,status:str:20"`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "info"
			if g.verbose {
				level = "debug"
			}
			if err := logger.Initialize(g.jsonLogs, level); err != nil {
				return errors.Wrap(err, "failed to initialize logger")
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&g.configPath, "config", "", "Config file (default: config.yml or ./config/config.yml when present)")
	root.PersistentFlags().BoolVar(&g.jsonLogs, "json-logs", false, "Log as JSON")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Debug logging")

	root.AddCommand(newConvertCmd(g))
	root.AddCommand(newSchemaCmd())
	root.AddCommand(newDriversCmd())
	return root
}

// newRegistry returns a registry holding every built-in driver
func newRegistry() (*plugin.Registry, error) {
	r := plugin.NewRegistry(version)
	if err := driver.Register(r, logger.Named("vector")); err != nil {
		return nil, err
	}
	return r, nil
}

// loadConfig loads the explicit config file, or the default one if present
func loadConfig(path string) (config.AppConfig, error) {
	if path == "" && !anyExists(config.DefaultPaths) {
		return config.AppConfig{}, nil
	}
	if err := config.LoadAppConfig(path); err != nil {
		return config.AppConfig{}, err
	}
	return config.Config, nil
}

func anyExists(paths []string) bool {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return true
		}
	}
	return false
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintf(os.Stderr, "hint: %s\n", hint)
		}
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}
