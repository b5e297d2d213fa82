package schema

import (
	"strings"

	"github.com/theoremus-urban-solutions/gpsdio-vector/errors"
)

// Field is one name:definition entry of a Schema.
type Field struct {
	Name       string
	Definition string
}

// Schema is an ordered, immutable mapping of field name to definition.
// The zero value is an empty schema.
type Schema struct {
	fields []Field
	index  map[string]int
}

// Defaults is the property schema used when no fields are supplied.
var Defaults = MustSchema(
	Field{Name: "mmsi", Definition: "int:30"},
	Field{Name: "timestamp", Definition: "str:40"},
	Field{Name: "course", Definition: "float:12.1"},
	Field{Name: "speed", Definition: "float:10.1"},
	Field{Name: "heading", Definition: "int:7"},
)

// NewSchema builds a schema from fields in order. Duplicate or empty names
// are rejected.
func NewSchema(fields ...Field) (Schema, error) {
	s := Schema{
		fields: make([]Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		if f.Name == "" {
			return Schema{}, errors.Wrapf(ErrEmptyName, "definition %q", f.Definition)
		}
		if _, dup := s.index[f.Name]; dup {
			return Schema{}, errors.Wrapf(errors.ErrMalformedField, "duplicate field %q", f.Name)
		}
		s.index[f.Name] = len(s.fields)
		s.fields = append(s.fields, f)
	}
	return s, nil
}

// MustSchema is NewSchema for package-level literals.
func MustSchema(fields ...Field) Schema {
	s, err := NewSchema(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// ErrEmptyName is returned for a field without a name.
var ErrEmptyName = errors.Wrap(errors.ErrMalformedField, "empty field name")

// Len returns the number of fields.
func (s Schema) Len() int { return len(s.fields) }

// Names returns the field names in order.
func (s Schema) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Fields returns a copy of the fields in order.
func (s Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Definition returns the definition for name.
func (s Schema) Definition(name string) (string, bool) {
	i, ok := s.index[name]
	if !ok {
		return "", false
	}
	return s.fields[i].Definition, true
}

// Has reports whether name is part of the schema.
func (s Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Merge returns a new schema with overrides applied on top of s.
// Overridden names keep their position in s; new names are appended in
// the order of overrides.
func (s Schema) Merge(overrides Schema) Schema {
	out := Schema{
		fields: make([]Field, len(s.fields), len(s.fields)+len(overrides.fields)),
		index:  make(map[string]int, len(s.fields)+len(overrides.fields)),
	}
	copy(out.fields, s.fields)
	for name, i := range s.index {
		out.index[name] = i
	}
	for _, f := range overrides.fields {
		if i, ok := out.index[f.Name]; ok {
			out.fields[i].Definition = f.Definition
			continue
		}
		out.index[f.Name] = len(out.fields)
		out.fields = append(out.fields, f)
	}
	return out
}

// Definitions parses every definition in order.
func (s Schema) Definitions() ([]Definition, error) {
	defs := make([]Definition, len(s.fields))
	for i, f := range s.fields {
		d, err := ParseDefinition(f.Definition)
		if err != nil {
			return nil, errors.Wrapf(err, "field %q", f.Name)
		}
		defs[i] = d
	}
	return defs, nil
}

// String renders the schema in the comma-delimited field syntax.
func (s Schema) String() string {
	parts := make([]string, len(s.fields))
	for i, f := range s.fields {
		parts[i] = f.Name + ":" + f.Definition
	}
	return strings.Join(parts, ",")
}
