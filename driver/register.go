package driver

import (
	"github.com/theoremus-urban-solutions/gpsdio-vector/plugin"
	"github.com/theoremus-urban-solutions/gpsdio-vector/vector"
	"go.uber.org/zap"
)

const (
	// Name is the registry name of the driver
	Name = "Vector"
	// Version of the driver
	Version = "0.1.0"
)

// Metadata describes the Vector driver. It has no extensions, so hosts
// cannot select it from a file name.
func Metadata() plugin.Metadata {
	return plugin.Metadata{
		Name:        Name,
		Version:     Version,
		HostVersion: ">=0.1.0",
		IOModes:     []string{vector.ModeWrite},
		Description: "Write positional messages to a vector file, optionally with a track line",
	}
}

// Factory adapts New to the registry. Options come in as a free-form map
// and are decoded with ParseOptions; log is injected into every driver.
func Factory(log *zap.SugaredLogger) plugin.Factory {
	return func(target any, mode string, opts map[string]any) (plugin.Driver, error) {
		o, err := ParseOptions(opts)
		if err != nil {
			return nil, err
		}
		o.Logger = log
		v, err := New(target, mode, o)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

// Register adds the Vector driver to r.
func Register(r *plugin.Registry, log *zap.SugaredLogger) error {
	return r.Register(Metadata(), Factory(log))
}
