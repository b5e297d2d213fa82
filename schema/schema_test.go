package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theoremus-urban-solutions/gpsdio-vector/errors"
	"gopkg.in/yaml.v3"
)

var defaultFields = []Field{
	{"mmsi", "int:30"},
	{"timestamp", "str:40"},
	{"course", "float:12.1"},
	{"speed", "float:10.1"},
	{"heading", "int:7"},
}

func TestResolve_NoOverrides(t *testing.T) {
	got, err := Resolve(FieldSpec{})
	require.NoError(t, err)

	if diff := cmp.Diff(defaultFields, got.Fields()); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_EquivalentSyntaxes(t *testing.T) {
	want := []Field{
		{"mmsi", "int:30"},
		{"timestamp", "str:40"},
		{"course", "float:12.1"},
		{"speed", "float:10.1"},
		{"heading", "int:3"},
	}

	specs := map[string]any{
		"string":  "heading:int:3",
		"list":    []string{"heading:int:3"},
		"anylist": []any{"heading:int:3"},
		"map":     map[string]string{"heading": "int:3"},
		"anymap":  map[string]any{"heading": "int:3"},
		"schema":  MustSchema(Field{"heading", "int:3"}),
	}

	for name, raw := range specs {
		t.Run(name, func(t *testing.T) {
			spec, err := ParseFieldSpec(raw)
			require.NoError(t, err)

			got, err := Resolve(spec)
			require.NoError(t, err)
			if diff := cmp.Diff(want, got.Fields()); diff != "" {
				t.Errorf("resolved schema mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolve_AppendsNewFields(t *testing.T) {
	spec := FromString("dest:str:20, heading:int:3,eta:datetime")

	got, err := Resolve(spec)
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"mmsi", "timestamp", "course", "speed", "heading", "dest", "eta"},
		got.Names())
	def, ok := got.Definition("heading")
	require.True(t, ok)
	assert.Equal(t, "int:3", def)
}

func TestResolve_UnorderedMapAppendsSorted(t *testing.T) {
	spec, err := FromMap(map[string]string{"zeta": "str", "alpha": "int", "speed": "float:5.2"})
	require.NoError(t, err)

	got, err := Resolve(spec)
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"mmsi", "timestamp", "course", "speed", "heading", "alpha", "zeta"},
		got.Names())
}

func TestResolve_LastDuplicateWins(t *testing.T) {
	got, err := Resolve(FromList([]string{"dest:str:10", "heading:int:3", "dest:str:30"}))
	require.NoError(t, err)

	assert.Equal(t, "mmsi:int:30,timestamp:str:40,course:float:12.1,speed:float:10.1,heading:int:3,dest:str:30", got.String())
}

func TestResolve_MalformedToken(t *testing.T) {
	specs := []FieldSpec{
		FromString("heading"),
		FromList([]string{"heading"}),
		FromString("heading:int:3,"),
		FromList([]string{":int"}),
	}

	for _, spec := range specs {
		t.Run(spec.Kind().String(), func(t *testing.T) {
			_, err := Resolve(spec)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrMalformedField), "got %v", err)
			assert.NotEmpty(t, errors.GetAllHints(err))
		})
	}
}

func TestParseFieldSpec_UnsupportedShapes(t *testing.T) {
	values := []any{
		42,
		3.5,
		[]any{"heading:int", 7},
		map[string]any{"heading": 7},
		[]int{1, 2},
		struct{}{},
	}

	for _, v := range values {
		_, err := ParseFieldSpec(v)
		require.Error(t, err, "%#v", v)
		assert.True(t, errors.Is(err, errors.ErrUnsupportedFieldSpec), "got %v", err)
	}
}

func TestParseFieldSpec_Nil(t *testing.T) {
	spec, err := ParseFieldSpec(nil)
	require.NoError(t, err)
	assert.True(t, spec.IsZero())
	assert.Equal(t, SpecNone, spec.Kind())
}

func TestNewSchema_RejectsDuplicates(t *testing.T) {
	_, err := NewSchema(Field{"a", "int"}, Field{"a", "str"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMalformedField))

	_, err = NewSchema(Field{"", "int"})
	require.Error(t, err)
}

func TestMerge_DoesNotMutateReceiver(t *testing.T) {
	base := MustSchema(Field{"a", "int"}, Field{"b", "str"})
	merged := base.Merge(MustSchema(Field{"a", "float"}, Field{"c", "bool"}))

	assert.Equal(t, "a:int,b:str", base.String())
	assert.Equal(t, "a:float,b:str,c:bool", merged.String())
	assert.False(t, base.Has("c"))
}

func TestFieldSpec_UnmarshalYAML(t *testing.T) {
	type wrapper struct {
		Fields FieldSpec `yaml:"fields"`
	}

	tests := []struct {
		name string
		doc  string
		kind SpecKind
		want string
	}{
		{
			name: "string",
			doc:  "fields: heading:int:3,dest:str:20\n",
			kind: SpecString,
			want: "mmsi:int:30,timestamp:str:40,course:float:12.1,speed:float:10.1,heading:int:3,dest:str:20",
		},
		{
			name: "list",
			doc:  "fields:\n  - dest:str:20\n  - heading:int:3\n",
			kind: SpecList,
			want: "mmsi:int:30,timestamp:str:40,course:float:12.1,speed:float:10.1,heading:int:3,dest:str:20",
		},
		{
			name: "ordered mapping",
			doc:  "fields:\n  zeta: str:5\n  alpha: int\n  heading: int:3\n",
			kind: SpecMapping,
			want: "mmsi:int:30,timestamp:str:40,course:float:12.1,speed:float:10.1,heading:int:3,zeta:str:5,alpha:int",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var w wrapper
			require.NoError(t, yaml.Unmarshal([]byte(tt.doc), &w))
			assert.Equal(t, tt.kind, w.Fields.Kind())

			got, err := Resolve(w.Fields)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestFieldSpec_UnmarshalYAMLRejectsNested(t *testing.T) {
	var w struct {
		Fields FieldSpec `yaml:"fields"`
	}
	err := yaml.Unmarshal([]byte("fields:\n  - [a, b]\n"), &w)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnsupportedFieldSpec), "got %v", err)

	err = yaml.Unmarshal([]byte("fields: 12\n"), &w)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnsupportedFieldSpec), "got %v", err)
}

func TestParseDefinition(t *testing.T) {
	tests := []struct {
		in   string
		want Definition
	}{
		{"int", Definition{Type: TypeInt}},
		{"int:30", Definition{Type: TypeInt, Width: 30}},
		{"integer:7", Definition{Type: TypeInt, Width: 7}},
		{"str:40", Definition{Type: TypeString, Width: 40}},
		{"float:12.1", Definition{Type: TypeFloat, Width: 12, Precision: 1}},
		{"double:24.15", Definition{Type: TypeFloat, Width: 24, Precision: 15}},
		{"date", Definition{Type: TypeDate}},
		{"datetime", Definition{Type: TypeDateTime}},
		{"Boolean", Definition{Type: TypeBool}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDefinition(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDefinition_Invalid(t *testing.T) {
	for _, in := range []string{"", "blob", "int:", "int:x", "float:12.x", "int:-3", "float:5.-1"} {
		_, err := ParseDefinition(in)
		require.Error(t, err, in)
		assert.True(t, errors.Is(err, errors.ErrInvalidFieldDefinition), "%s: %v", in, err)
	}
}

func TestDefinitionString(t *testing.T) {
	for _, in := range []string{"int", "int:30", "float:12.1", "str:40"} {
		d, err := ParseDefinition(in)
		require.NoError(t, err)
		assert.Equal(t, in, d.String())
	}
}

func TestSchemaDefinitions(t *testing.T) {
	defs, err := Defaults.Definitions()
	require.NoError(t, err)
	require.Len(t, defs, 5)
	assert.Equal(t, Definition{Type: TypeFloat, Width: 12, Precision: 1}, defs[2])

	_, err = MustSchema(Field{"bad", "blob:3"}).Definitions()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `field "bad"`)
}
