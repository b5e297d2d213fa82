package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/theoremus-urban-solutions/gpsdio-vector/schema"
	"github.com/theoremus-urban-solutions/gpsdio-vector/vector"
)

func newSchemaCmd() *cobra.Command {
	var fields string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the resolved field schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			spec := schema.FieldSpec{}
			if fields != "" {
				spec = schema.FromString(fields)
			}
			s, err := schema.Resolve(spec)
			if err != nil {
				return err
			}
			if _, err := s.Definitions(); err != nil {
				return err
			}
			for _, f := range s.Fields() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s:%s\n", f.Name, f.Definition)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&fields, "fields", "", "Extra or overriding fields as name:type[:width[.precision]],...")
	return cmd
}

func newDriversCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drivers",
		Short: "List registered drivers and vector formats",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRegistry()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, name := range r.List() {
				meta, _ := r.Metadata(name)
				fmt.Fprintf(w, "%s %s (modes: %s)\n  %s\n", meta.Name, meta.Version,
					strings.Join(meta.IOModes, ","), meta.Description)
			}
			fmt.Fprintf(w, "vector formats: %s\n", strings.Join(vector.Formats(), ", "))
			return nil
		},
	}
}
