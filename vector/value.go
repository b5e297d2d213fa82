package vector

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/theoremus-urban-solutions/gpsdio-vector/errors"
	"github.com/theoremus-urban-solutions/gpsdio-vector/schema"
)

// coerce converts a message value to the Go type backends expect for the
// field type: int64, float64, string or bool. nil stays nil.
func coerce(def schema.Definition, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch def.Type {
	case schema.TypeInt:
		return toInt(v)
	case schema.TypeFloat:
		return toFloat(v)
	case schema.TypeString:
		return toString(v), nil
	case schema.TypeDate:
		return toTimeString(v, "2006-01-02", def.Type)
	case schema.TypeDateTime:
		return toTimeString(v, time.RFC3339, def.Type)
	case schema.TypeBool:
		return toBool(v)
	}
	return nil, errors.Newf("unsupported field type %q", def.Type)
}

func cannotConvert(v any, t schema.Type) error {
	return errors.Newf("cannot convert %T %v to %s", v, v, t)
}

func toInt(v any) (any, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint:
		return int64(n), nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return nil, cannotConvert(v, schema.TypeInt)
		}
		return int64(n), nil
	case float32:
		return truncate(float64(n), v)
	case float64:
		return truncate(n, v)
	case bool:
		if n {
			return int64(1), nil
		}
		return int64(0), nil
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		f, err := n.Float64()
		if err != nil {
			return nil, cannotConvert(v, schema.TypeInt)
		}
		return truncate(f, v)
	case string:
		s := strings.TrimSpace(n)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, cannotConvert(v, schema.TypeInt)
		}
		return truncate(f, v)
	}
	return nil, cannotConvert(v, schema.TypeInt)
}

func truncate(f float64, orig any) (any, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f >= 1<<63 || f < math.MinInt64 {
		return nil, cannotConvert(orig, schema.TypeInt)
	}
	return int64(math.Trunc(f)), nil
}

// Numeric returns v as float64 when it is any Go number or json.Number.
// Strings are not accepted.
func Numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func toFloat(v any) (any, error) {
	if f, ok := Numeric(v); ok {
		return f, nil
	}
	switch n := v.(type) {
	case bool:
		if n {
			return 1.0, nil
		}
		return 0.0, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return nil, cannotConvert(v, schema.TypeFloat)
		}
		return f, nil
	}
	return nil, cannotConvert(v, schema.TypeFloat)
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case time.Time:
		return s.UTC().Format(time.RFC3339)
	case fmt.Stringer:
		return s.String()
	}
	return fmt.Sprint(v)
}

func toTimeString(v any, layout string, typ schema.Type) (any, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format(layout), nil
	case string:
		return t, nil
	}
	return nil, cannotConvert(v, typ)
}

func toBool(v any) (any, error) {
	if b, ok := v.(bool); ok {
		return b, nil
	}
	if f, ok := Numeric(v); ok {
		return f != 0, nil
	}
	if s, ok := v.(string); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return nil, cannotConvert(v, schema.TypeBool)
		}
		return b, nil
	}
	return nil, cannotConvert(v, schema.TypeBool)
}
