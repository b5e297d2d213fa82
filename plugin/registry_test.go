package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theoremus-urban-solutions/gpsdio-vector/errors"
)

type recorder struct {
	msgs   []Message
	closed bool
}

func (r *recorder) Write(msg Message) error {
	r.msgs = append(r.msgs, msg)
	return nil
}

func (r *recorder) Close() error {
	r.closed = true
	return nil
}

func recorderFactory(rec *recorder) Factory {
	return func(target any, mode string, opts map[string]any) (Driver, error) {
		return rec, nil
	}
}

func TestRegistry_RegisterAndOpen(t *testing.T) {
	r := NewRegistry("1.2.0")
	rec := &recorder{}
	require.NoError(t, r.Register(Metadata{Name: "Rec", IOModes: []string{"w"}}, recorderFactory(rec)))
	require.NoError(t, r.Register(Metadata{Name: "Alpha", IOModes: []string{"r"}}, recorderFactory(&recorder{})))

	assert.Equal(t, []string{"Alpha", "Rec"}, r.List())

	meta, ok := r.Metadata("Rec")
	require.True(t, ok)
	assert.Equal(t, []string{"w"}, meta.IOModes)

	d, err := r.Open("Rec", "out.shp", "w", nil)
	require.NoError(t, err)
	require.NoError(t, d.Write(Message{"lat": 1.0}))
	require.NoError(t, d.Close())
	assert.Len(t, rec.msgs, 1)
	assert.True(t, rec.closed)
}

func TestRegistry_RejectsDuplicates(t *testing.T) {
	r := NewRegistry("1.0.0")
	require.NoError(t, r.Register(Metadata{Name: "Rec"}, recorderFactory(&recorder{})))
	assert.Error(t, r.Register(Metadata{Name: "Rec"}, recorderFactory(&recorder{})))
	assert.Error(t, r.Register(Metadata{}, recorderFactory(&recorder{})))
	assert.Error(t, r.Register(Metadata{Name: "Nil"}, nil))
}

func TestRegistry_VersionConstraint(t *testing.T) {
	r := NewRegistry("0.9.3")
	assert.NoError(t, r.Register(Metadata{Name: "Ok", HostVersion: ">=0.9.0, <1.0.0"}, recorderFactory(&recorder{})))
	assert.Error(t, r.Register(Metadata{Name: "Newer", HostVersion: ">=1.0.0"}, recorderFactory(&recorder{})))
	assert.Error(t, r.Register(Metadata{Name: "Bad", HostVersion: "not a constraint"}, recorderFactory(&recorder{})))

	_, ok := r.Get("Newer")
	assert.False(t, ok)
}

func TestRegistry_OpenChecksMode(t *testing.T) {
	r := NewRegistry("1.0.0")
	require.NoError(t, r.Register(Metadata{Name: "Rec", IOModes: []string{"w"}}, recorderFactory(&recorder{})))

	_, err := r.Open("Rec", "out.shp", "r", nil)
	assert.True(t, errors.Is(err, errors.ErrUnsupportedMode), "got %v", err)

	_, err = r.Open("Missing", "out.shp", "w", nil)
	require.Error(t, err)
	assert.Contains(t, errors.FlattenHints(err), "Rec")
}
