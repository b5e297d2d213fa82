package vector

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/theoremus-urban-solutions/gpsdio-vector/errors"
	"gopkg.in/yaml.v3"
)

// CRS is a coordinate reference system descriptor. It is carried through
// to the output as metadata and never used to transform coordinates.
type CRS struct {
	// Authority and Code identify the CRS, e.g. EPSG and 4326
	Authority string
	Code      int
	// WKT holds well-known text supplied by the user
	WKT string
	// Proj holds a PROJ-style definition such as "+proj=longlat +datum=WGS84"
	Proj string
}

// WGS84 is EPSG:4326, the default CRS.
var WGS84 = CRS{Authority: "EPSG", Code: 4326}

// ESRI flavoured WKT, as expected in .prj files.
var knownWKT = map[int]string{
	4326: `GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137.0,298.257223563]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]]`,
	3857: `PROJCS["WGS_1984_Web_Mercator_Auxiliary_Sphere",GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137.0,298.257223563]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]],PROJECTION["Mercator_Auxiliary_Sphere"],PARAMETER["False_Easting",0.0],PARAMETER["False_Northing",0.0],PARAMETER["Central_Meridian",0.0],PARAMETER["Standard_Parallel_1",0.0],PARAMETER["Auxiliary_Sphere_Type",0.0],UNIT["Meter",1.0]]`,
}

var wktPrefixes = []string{"GEOGCS[", "PROJCS[", "GEOCCS[", "COMPD_CS[", "GEOGCRS[", "PROJCRS["}

// ParseCRS parses a string descriptor: EPSG:4326, +init=epsg:4326,
// urn:ogc:def:crs:EPSG::4326, OGC:CRS84, a PROJ string, or WKT.
// The empty string yields the zero CRS, meaning none.
func ParseCRS(s string) (CRS, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CRS{}, nil
	}
	upper := strings.ToUpper(s)
	for _, p := range wktPrefixes {
		if strings.HasPrefix(upper, p) {
			return CRS{WKT: s}, nil
		}
	}

	lower := strings.ToLower(s)
	switch {
	case lower == "ogc:crs84" || lower == "crs84" || lower == "urn:ogc:def:crs:ogc:1.3:crs84":
		return WGS84, nil
	case strings.HasPrefix(lower, "+init="):
		return ParseCRS(s[len("+init="):])
	case strings.HasPrefix(lower, "+proj="):
		return CRS{Proj: s}, nil
	case strings.HasPrefix(lower, "urn:ogc:def:crs:"):
		// urn:ogc:def:crs:EPSG::4326 or urn:ogc:def:crs:EPSG:6.6:4326
		parts := strings.Split(s[len("urn:ogc:def:crs:"):], ":")
		if len(parts) >= 2 {
			return authorityCode(parts[0], parts[len(parts)-1], s)
		}
	default:
		if auth, code, ok := strings.Cut(s, ":"); ok {
			return authorityCode(auth, code, s)
		}
	}
	return CRS{}, errors.WithHint(
		errors.Wrapf(errors.ErrInvalidCRS, "%q", s),
		"use an authority code such as EPSG:4326, a PROJ string, or WKT",
	)
}

func authorityCode(auth, code, raw string) (CRS, error) {
	auth = strings.ToUpper(strings.TrimSpace(auth))
	n, err := strconv.Atoi(strings.TrimSpace(code))
	if auth == "" || err != nil || n <= 0 {
		return CRS{}, errors.Wrapf(errors.ErrInvalidCRS, "%q", raw)
	}
	return CRS{Authority: auth, Code: n}, nil
}

// ParseCRSValue accepts a CRS, a string descriptor, or a mapping.
// Mappings take one of {init: epsg:4326}, {epsg: 4326}, {wkt: ...}, or
// PROJ parameters such as {proj: longlat, datum: WGS84, no_defs: true}.
func ParseCRSValue(v any) (CRS, error) {
	switch val := v.(type) {
	case nil:
		return CRS{}, nil
	case CRS:
		return val, nil
	case string:
		return ParseCRS(val)
	case map[string]string:
		m := make(map[string]any, len(val))
		for k, s := range val {
			m[k] = s
		}
		return crsFromMap(m)
	case map[string]any:
		return crsFromMap(val)
	}
	return CRS{}, errors.Wrapf(errors.ErrInvalidCRS, "unsupported descriptor type %T", v)
}

func crsFromMap(m map[string]any) (CRS, error) {
	if init, ok := m["init"]; ok {
		s, ok := init.(string)
		if !ok {
			return CRS{}, errors.Wrapf(errors.ErrInvalidCRS, "init must be a string, got %T", init)
		}
		return ParseCRS(s)
	}
	if code, ok := m["epsg"]; ok {
		return authorityCode("EPSG", fmt.Sprint(code), fmt.Sprintf("epsg=%v", code))
	}
	if wkt, ok := m["wkt"]; ok {
		s, ok := wkt.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return CRS{}, errors.Wrap(errors.ErrInvalidCRS, "wkt must be a non-empty string")
		}
		return CRS{WKT: s}, nil
	}
	if _, ok := m["proj"]; !ok {
		return CRS{}, errors.Wrap(errors.ErrInvalidCRS, "mapping needs one of init, epsg, wkt, or proj")
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		if k != "proj" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	keys = append([]string{"proj"}, keys...)

	params := make([]string, 0, len(keys))
	for _, k := range keys {
		switch val := m[k].(type) {
		case bool:
			if val {
				params = append(params, "+"+k)
			}
		default:
			params = append(params, fmt.Sprintf("+%s=%v", k, val))
		}
	}
	return CRS{Proj: strings.Join(params, " ")}, nil
}

// IsZero reports whether no CRS was given.
func (c CRS) IsZero() bool {
	return c == CRS{}
}

// IsWGS84 reports whether c is EPSG:4326.
func (c CRS) IsWGS84() bool {
	return c.Authority == "EPSG" && c.Code == 4326
}

// String renders the descriptor in the form it is most often written.
func (c CRS) String() string {
	switch {
	case c.Code > 0:
		return c.Authority + ":" + strconv.Itoa(c.Code)
	case c.Proj != "":
		return c.Proj
	case c.WKT != "":
		return c.WKT
	}
	return ""
}

// WellKnownText returns WKT for the CRS when it is known.
func (c CRS) WellKnownText() (string, bool) {
	if c.WKT != "" {
		return c.WKT, true
	}
	if c.Authority == "EPSG" {
		wkt, ok := knownWKT[c.Code]
		return wkt, ok
	}
	return "", false
}

// URN returns the OGC URN for authority codes, e.g.
// urn:ogc:def:crs:EPSG::3857, or "" when the CRS has no code.
func (c CRS) URN() string {
	if c.Code <= 0 {
		return ""
	}
	return "urn:ogc:def:crs:" + c.Authority + "::" + strconv.Itoa(c.Code)
}

// UnmarshalYAML accepts a scalar descriptor or a mapping.
func (c *CRS) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		parsed, err := ParseCRS(node.Value)
		if err != nil {
			return errors.Wrapf(err, "line %d", node.Line)
		}
		*c = parsed
		return nil
	case yaml.MappingNode:
		var m map[string]any
		if err := node.Decode(&m); err != nil {
			return err
		}
		parsed, err := crsFromMap(m)
		if err != nil {
			return errors.Wrapf(err, "line %d", node.Line)
		}
		*c = parsed
		return nil
	}
	return errors.Wrapf(errors.ErrInvalidCRS, "line %d: unsupported yaml node", node.Line)
}
