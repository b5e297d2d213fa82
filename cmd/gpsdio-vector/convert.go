package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/theoremus-urban-solutions/gpsdio-vector/config"
	"github.com/theoremus-urban-solutions/gpsdio-vector/driver"
	"github.com/theoremus-urban-solutions/gpsdio-vector/errors"
	"github.com/theoremus-urban-solutions/gpsdio-vector/feed"
	"github.com/theoremus-urban-solutions/gpsdio-vector/logger"
	"github.com/theoremus-urban-solutions/gpsdio-vector/schema"
	"github.com/theoremus-urban-solutions/gpsdio-vector/utils"
	"github.com/theoremus-urban-solutions/gpsdio-vector/vector"
)

type convertFlags struct {
	input          string
	inputFormat    string
	dest           string
	driver         string
	line           string
	crs            string
	fields         string
	skipIncomplete bool
	output         string
}

func newConvertCmd(g *globalFlags) *cobra.Command {
	f := &convertFlags{}
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Read messages and write them through the Vector driver",
		Long: `Read positional messages from an NDJSON file or a GTFS-Realtime vehicle
positions feed (local file or URL) and write them with the Vector driver.

Flags override the selected output of the config file.

Examples:
  gpsdio-vector convert --input msgs.ndjson --dest points.shp
  gpsdio-vector convert --input https://example.com/vp.pb --input-format gtfsrt \
      --dest points.geojson --driver GeoJSON --line track.geojson`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, g, f)
		},
	}

	cmd.Flags().StringVarP(&f.input, "input", "i", "", "Input file or http(s) URL")
	cmd.Flags().StringVar(&f.inputFormat, "input-format", "", "Input format: ndjson|gtfsrt")
	cmd.Flags().StringVarP(&f.dest, "dest", "d", "", "Point output destination")
	cmd.Flags().StringVar(&f.driver, "driver", "", "Vector format (default: ESRI Shapefile)")
	cmd.Flags().StringVar(&f.line, "line", "", "Line output destination")
	cmd.Flags().StringVar(&f.crs, "crs", "", "CRS recorded on the outputs (default: EPSG:4326)")
	cmd.Flags().StringVar(&f.fields, "fields", "", "Extra or overriding fields as name:type[:width[.precision]],...")
	cmd.Flags().BoolVar(&f.skipIncomplete, "skip-incomplete", false, "Leave positions without lon or lat out of the line")
	cmd.Flags().StringVar(&f.output, "output", "", "Output name from config outputs[]")
	return cmd
}

func runConvert(cmd *cobra.Command, g *globalFlags, f *convertFlags) error {
	log := logger.Named("convert")

	cfg, err := loadConfig(g.configPath)
	if err != nil {
		return err
	}
	config.Config = cfg
	out, _ := config.SelectOutput(f.output)
	in := cfg.Input

	flags := cmd.Flags()
	if flags.Changed("input") {
		in.Path = f.input
	}
	if flags.Changed("input-format") {
		in.Format = f.inputFormat
	}
	if flags.Changed("dest") {
		out.Destination = f.dest
	}
	if flags.Changed("driver") {
		out.OutputFormat = f.driver
	}
	if flags.Changed("line") {
		out.LineDestination = f.line
	}
	if flags.Changed("crs") {
		if out.CRS, err = vector.ParseCRS(f.crs); err != nil {
			return err
		}
	}
	if flags.Changed("fields") {
		out.Fields = schema.FromString(f.fields)
	}
	if flags.Changed("skip-incomplete") {
		out.SkipIncomplete = f.skipIncomplete
	}

	if in.Path == "" {
		return errors.WithHint(errors.New("no input"), "pass --input or set input.path in the config file")
	}
	if out.Destination == "" {
		return errors.WithHint(errors.New("no destination"), "pass --dest or configure an output")
	}

	client := feed.NewClient(utils.DurationFromMillis(in.TimeoutMS))
	data, err := client.Fetch(context.Background(), in.Path)
	if err != nil {
		return err
	}
	msgs, err := feed.Decode(in.Format, data)
	if err != nil {
		return errors.Wrapf(err, "decode %s", in.Path)
	}
	log.Debugw("Decoded input", "path", in.Path, "format", in.Format, "messages", len(msgs))

	registry, err := newRegistry()
	if err != nil {
		return err
	}
	d, err := registry.Open(driver.Name, out.Destination, vector.ModeWrite, map[string]any{
		driver.OptOutputFormat:    out.OutputFormat,
		driver.OptLineDestination: out.LineDestination,
		driver.OptCRS:             out.CRS,
		driver.OptFields:          out.Fields,
		driver.OptSkipIncomplete:  out.SkipIncomplete,
	})
	if err != nil {
		return err
	}

	points := 0
	for i, msg := range msgs {
		if err := d.Write(msg); err != nil {
			_ = d.Close()
			return errors.Wrapf(err, "message %d", i+1)
		}
		if msg["lon"] != nil && msg["lat"] != nil {
			points++
		}
	}
	if err := d.Close(); err != nil {
		return err
	}

	log.Infow("Conversion complete", "messages", len(msgs), "points", points, "destination", out.Destination)
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d points from %d messages to %s\n", points, len(msgs), out.Destination)
	if out.LineDestination != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "wrote track to %s\n", out.LineDestination)
	}
	return nil
}
