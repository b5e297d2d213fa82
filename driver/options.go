package driver

import (
	"sort"
	"strings"

	"github.com/theoremus-urban-solutions/gpsdio-vector/errors"
	"github.com/theoremus-urban-solutions/gpsdio-vector/schema"
	"github.com/theoremus-urban-solutions/gpsdio-vector/vector"
	"go.uber.org/zap"
)

// Options configures a Vector driver. The zero value writes the default
// fields to an ESRI Shapefile in EPSG:4326 without a line file.
type Options struct {
	// OutputFormat is the vector format identifier, default "ESRI Shapefile"
	OutputFormat string
	// LineDestination enables the line output when non-empty
	LineDestination string
	// CRS is recorded on both outputs, default EPSG:4326
	CRS vector.CRS
	// Fields overrides or extends the default schema
	Fields schema.FieldSpec
	// SkipIncomplete drops vertices with a missing ordinate from the line
	// instead of failing Close
	SkipIncomplete bool
	// Logger receives debug output; nil means no logging
	Logger *zap.SugaredLogger
}

// Option keys accepted by ParseOptions. Aliases map to their canonical key.
const (
	OptOutputFormat    = "output_format"
	OptLineDestination = "line_destination"
	OptCRS             = "crs"
	OptFields          = "fields"
	OptSkipIncomplete  = "skip_incomplete"
)

var optionAliases = map[string]string{
	OptOutputFormat:    OptOutputFormat,
	"driver":           OptOutputFormat,
	OptLineDestination: OptLineDestination,
	"line":             OptLineDestination,
	"line_file":        OptLineDestination,
	OptCRS:             OptCRS,
	OptFields:          OptFields,
	OptSkipIncomplete:  OptSkipIncomplete,
}

// ParseOptions decodes a free-form option map as handed over by a host.
// Unknown keys, a key given twice through aliases, and values of the wrong
// type are rejected with errors.ErrInvalidOption.
func ParseOptions(m map[string]any) (Options, error) {
	var opts Options

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	seen := make(map[string]string, len(m))
	for _, key := range keys {
		canonical, ok := optionAliases[strings.ToLower(key)]
		if !ok {
			return Options{}, errors.WithHintf(
				errors.Wrapf(errors.ErrInvalidOption, "unknown option %q", key),
				"accepted options: %s", strings.Join(optionNames(), ", "),
			)
		}
		if prev, dup := seen[canonical]; dup {
			return Options{}, errors.Wrapf(errors.ErrInvalidOption, "%q and %q set the same option", prev, key)
		}
		seen[canonical] = key

		v := m[key]
		switch canonical {
		case OptOutputFormat:
			s, err := stringOption(key, v)
			if err != nil {
				return Options{}, err
			}
			opts.OutputFormat = s
		case OptLineDestination:
			s, err := stringOption(key, v)
			if err != nil {
				return Options{}, err
			}
			opts.LineDestination = s
		case OptCRS:
			crs, err := vector.ParseCRSValue(v)
			if err != nil {
				return Options{}, err
			}
			opts.CRS = crs
		case OptFields:
			spec, err := schema.ParseFieldSpec(v)
			if err != nil {
				return Options{}, err
			}
			if _, err := spec.Overrides(); err != nil {
				return Options{}, err
			}
			opts.Fields = spec
		case OptSkipIncomplete:
			b, ok := v.(bool)
			if !ok && v != nil {
				return Options{}, errors.Wrapf(errors.ErrInvalidOption, "%s must be a bool, got %T", key, v)
			}
			opts.SkipIncomplete = b
		}
	}
	return opts, nil
}

func stringOption(key string, v any) (string, error) {
	switch s := v.(type) {
	case nil:
		return "", nil
	case string:
		return s, nil
	}
	return "", errors.Wrapf(errors.ErrInvalidOption, "%s must be a string, got %T", key, v)
}

func optionNames() []string {
	names := make([]string, 0, len(optionAliases))
	for k := range optionAliases {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
