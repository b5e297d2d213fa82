package schema

import (
	"strconv"
	"strings"

	"github.com/theoremus-urban-solutions/gpsdio-vector/errors"
)

// Type is the value type of a field.
type Type string

const (
	TypeInt      Type = "int"
	TypeString   Type = "str"
	TypeFloat    Type = "float"
	TypeDate     Type = "date"
	TypeDateTime Type = "datetime"
	TypeBool     Type = "bool"
)

var typeAliases = map[string]Type{
	"int":      TypeInt,
	"integer":  TypeInt,
	"int32":    TypeInt,
	"int64":    TypeInt,
	"str":      TypeString,
	"string":   TypeString,
	"float":    TypeFloat,
	"double":   TypeFloat,
	"real":     TypeFloat,
	"date":     TypeDate,
	"datetime": TypeDateTime,
	"bool":     TypeBool,
	"boolean":  TypeBool,
}

// Definition is the parsed form of type[:width[.precision]].
// Width and Precision are zero when not given.
type Definition struct {
	Type      Type
	Width     int
	Precision int
}

// ParseDefinition parses a definition string such as "float:12.1".
func ParseDefinition(s string) (Definition, error) {
	raw := strings.TrimSpace(s)
	typ, size, hasSize := strings.Cut(raw, ":")

	t, ok := typeAliases[strings.ToLower(strings.TrimSpace(typ))]
	if !ok {
		return Definition{}, errors.WithHint(
			errors.Wrapf(errors.ErrInvalidFieldDefinition, "unknown type in %q", s),
			"supported types: int, str, float, date, datetime, bool",
		)
	}
	d := Definition{Type: t}
	if !hasSize {
		return d, nil
	}

	width, prec, hasPrec := strings.Cut(size, ".")
	w, err := strconv.Atoi(strings.TrimSpace(width))
	if err != nil || w <= 0 {
		return Definition{}, errors.Wrapf(errors.ErrInvalidFieldDefinition, "bad width in %q", s)
	}
	d.Width = w
	if hasPrec {
		p, err := strconv.Atoi(strings.TrimSpace(prec))
		if err != nil || p < 0 {
			return Definition{}, errors.Wrapf(errors.ErrInvalidFieldDefinition, "bad precision in %q", s)
		}
		d.Precision = p
	}
	return d, nil
}

// String renders the definition back to its canonical string.
func (d Definition) String() string {
	var b strings.Builder
	b.WriteString(string(d.Type))
	if d.Width > 0 {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(d.Width))
		if d.Precision > 0 {
			b.WriteByte('.')
			b.WriteString(strconv.Itoa(d.Precision))
		}
	}
	return b.String()
}
