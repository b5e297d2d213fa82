package schema

import (
	"sort"
	"strings"

	"github.com/theoremus-urban-solutions/gpsdio-vector/errors"
	"gopkg.in/yaml.v3"
)

// SpecKind tags the syntax a FieldSpec was written in.
type SpecKind int

const (
	SpecNone SpecKind = iota
	SpecString
	SpecList
	SpecMapping
)

func (k SpecKind) String() string {
	switch k {
	case SpecString:
		return "string"
	case SpecList:
		return "list"
	case SpecMapping:
		return "mapping"
	}
	return "none"
}

const fieldSyntaxHint = "fields are written as name:type[:width[.precision]], e.g. heading:int:7"

// FieldSpec is a user field specification normalized at the boundary.
// The zero value means no overrides.
type FieldSpec struct {
	kind    SpecKind
	raw     string
	tokens  []string
	mapping Schema
}

// FromString wraps a comma-delimited specification.
func FromString(s string) FieldSpec {
	return FieldSpec{kind: SpecString, raw: s}
}

// FromList wraps a list of name:definition tokens.
func FromList(tokens []string) FieldSpec {
	cp := make([]string, len(tokens))
	copy(cp, tokens)
	return FieldSpec{kind: SpecList, tokens: cp}
}

// FromMapping wraps an ordered mapping of name to definition.
func FromMapping(m Schema) FieldSpec {
	return FieldSpec{kind: SpecMapping, mapping: m}
}

// FromMap wraps an unordered mapping. Names are taken in sorted order so
// appended fields are deterministic.
func FromMap(m map[string]string) (FieldSpec, error) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]Field, 0, len(names))
	for _, name := range names {
		fields = append(fields, Field{Name: name, Definition: m[name]})
	}
	s, err := NewSchema(fields...)
	if err != nil {
		return FieldSpec{}, err
	}
	return FromMapping(s), nil
}

// ParseFieldSpec normalizes a loosely typed value, as found in driver
// option maps, into a FieldSpec.
func ParseFieldSpec(v any) (FieldSpec, error) {
	switch val := v.(type) {
	case nil:
		return FieldSpec{}, nil
	case FieldSpec:
		return val, nil
	case *FieldSpec:
		if val == nil {
			return FieldSpec{}, nil
		}
		return *val, nil
	case string:
		return FromString(val), nil
	case []string:
		return FromList(val), nil
	case []any:
		tokens := make([]string, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return FieldSpec{}, unsupported(item, "list element %d", i)
			}
			tokens[i] = s
		}
		return FromList(tokens), nil
	case Schema:
		return FromMapping(val), nil
	case map[string]string:
		return FromMap(val)
	case map[string]any:
		m := make(map[string]string, len(val))
		for name, def := range val {
			s, ok := def.(string)
			if !ok {
				return FieldSpec{}, unsupported(def, "definition of %q", name)
			}
			m[name] = s
		}
		return FromMap(m)
	}
	return FieldSpec{}, unsupported(v, "fields")
}

func unsupported(v any, format string, args ...any) error {
	err := errors.Wrapf(errors.ErrUnsupportedFieldSpec, format, args...)
	err = errors.Wrapf(err, "got %T", v)
	return errors.WithHint(err, "fields may be a comma-delimited string, a list of strings, or a mapping")
}

// Kind returns the syntax the spec was written in.
func (fs FieldSpec) Kind() SpecKind { return fs.kind }

// IsZero reports whether the spec carries no overrides.
func (fs FieldSpec) IsZero() bool { return fs.kind == SpecNone }

// Overrides parses the spec into an ordered mapping. A name given twice
// keeps its first position and its last definition.
func (fs FieldSpec) Overrides() (Schema, error) {
	switch fs.kind {
	case SpecNone:
		return Schema{}, nil
	case SpecMapping:
		return fs.mapping, nil
	case SpecString:
		return parseTokens(strings.Split(fs.raw, ","))
	case SpecList:
		return parseTokens(fs.tokens)
	}
	return Schema{}, errors.Newf("unknown field spec kind %d", fs.kind)
}

// Resolve merges the spec on top of defaults.
func (fs FieldSpec) Resolve(defaults Schema) (Schema, error) {
	if fs.IsZero() {
		return defaults, nil
	}
	overrides, err := fs.Overrides()
	if err != nil {
		return Schema{}, err
	}
	return defaults.Merge(overrides), nil
}

// Resolve merges spec on top of Defaults.
func Resolve(spec FieldSpec) (Schema, error) {
	return spec.Resolve(Defaults)
}

func parseTokens(tokens []string) (Schema, error) {
	out := Schema{}
	for _, tok := range tokens {
		f, err := parseToken(tok)
		if err != nil {
			return Schema{}, err
		}
		out = out.Merge(Schema{fields: []Field{f}, index: map[string]int{f.Name: 0}})
	}
	return out, nil
}

func parseToken(tok string) (Field, error) {
	name, def, ok := strings.Cut(strings.TrimSpace(tok), ":")
	if !ok {
		return Field{}, errors.WithHint(
			errors.Wrapf(errors.ErrMalformedField, "token %q has no definition", tok),
			fieldSyntaxHint,
		)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Field{}, errors.WithHint(
			errors.Wrapf(errors.ErrMalformedField, "token %q has no name", tok),
			fieldSyntaxHint,
		)
	}
	return Field{Name: name, Definition: strings.TrimSpace(def)}, nil
}

// UnmarshalYAML accepts a scalar string, a sequence of strings, or a
// mapping. Mapping order is preserved.
func (fs *FieldSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	switch node.Kind {
	case yaml.ScalarNode:
		switch node.ShortTag() {
		case "!!null":
			*fs = FieldSpec{}
			return nil
		case "!!str":
			*fs = FromString(node.Value)
			return nil
		}
		return yamlUnsupported(node, "fields")
	case yaml.SequenceNode:
		tokens := make([]string, 0, len(node.Content))
		for i, item := range node.Content {
			if item.Kind != yaml.ScalarNode || item.ShortTag() != "!!str" {
				return yamlUnsupported(item, "list element %d", i)
			}
			tokens = append(tokens, item.Value)
		}
		*fs = FromList(tokens)
		return nil
	case yaml.MappingNode:
		fields := make([]Field, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, val := node.Content[i], node.Content[i+1]
			if key.Kind != yaml.ScalarNode || val.Kind != yaml.ScalarNode || val.ShortTag() == "!!null" {
				return yamlUnsupported(val, "definition of %q", key.Value)
			}
			fields = append(fields, Field{Name: key.Value, Definition: val.Value})
		}
		s, err := NewSchema(fields...)
		if err != nil {
			return errors.Wrapf(err, "line %d", node.Line)
		}
		*fs = FromMapping(s)
		return nil
	}
	return yamlUnsupported(node, "fields")
}

func yamlUnsupported(node *yaml.Node, format string, args ...any) error {
	err := errors.Wrapf(errors.ErrUnsupportedFieldSpec, format, args...)
	return errors.Wrapf(err, "line %d: yaml %s", node.Line, node.ShortTag())
}
