package plugin

import (
	"sort"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/theoremus-urban-solutions/gpsdio-vector/errors"
)

type entry struct {
	meta    Metadata
	factory Factory
}

// Registry manages the drivers a host can open
type Registry struct {
	mu      sync.RWMutex
	drivers map[string]entry
	version string // host version
}

// NewRegistry creates a new driver registry
func NewRegistry(hostVersion string) *Registry {
	return &Registry{
		drivers: make(map[string]entry),
		version: hostVersion,
	}
}

// Register registers a driver factory
// Returns error if the name conflicts or the host version is incompatible
func (r *Registry) Register(meta Metadata, factory Factory) error {
	if meta.Name == "" {
		return errors.New("driver name is required")
	}
	if factory == nil {
		return errors.Newf("driver %s: nil factory", meta.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.drivers[meta.Name]; exists {
		return errors.Newf("driver already registered: %s", meta.Name)
	}
	if err := r.validateVersion(meta); err != nil {
		return errors.Wrapf(err, "version incompatible for %s", meta.Name)
	}

	r.drivers[meta.Name] = entry{meta: meta, factory: factory}
	return nil
}

// Get retrieves a driver factory by name
func (r *Registry) Get(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.drivers[name]
	return e.factory, ok
}

// Metadata returns the metadata a driver was registered with
func (r *Registry) Metadata(name string) (Metadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.drivers[name]
	return e.meta, ok
}

// List returns all registered driver names in sorted order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.drivers))
	for name := range r.drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open opens the named driver. The mode must be one the driver declares.
func (r *Registry) Open(name string, target any, mode string, opts map[string]any) (Driver, error) {
	r.mu.RLock()
	e, ok := r.drivers[name]
	r.mu.RUnlock()

	if !ok {
		return nil, errors.WithHintf(
			errors.Newf("unknown driver %q", name),
			"registered drivers: %s", strings.Join(r.List(), ", "),
		)
	}
	if !e.meta.SupportsMode(mode) {
		return nil, errors.Wrapf(errors.ErrUnsupportedMode,
			"driver %s supports modes %v, got %q", name, e.meta.IOModes, mode)
	}
	return e.factory(target, mode, opts)
}

// validateVersion checks if the driver's constraint accepts the host version
func (r *Registry) validateVersion(meta Metadata) error {
	if meta.HostVersion == "" {
		// No version constraint specified
		return nil
	}

	hostVer, err := semver.NewVersion(r.version)
	if err != nil {
		return errors.Wrapf(err, "invalid host version %s", r.version)
	}

	constraint, err := semver.NewConstraint(meta.HostVersion)
	if err != nil {
		return errors.Wrapf(err, "invalid version constraint %s", meta.HostVersion)
	}

	if !constraint.Check(hostVer) {
		return errors.Newf("driver requires host %s, but running %s", meta.HostVersion, r.version)
	}
	return nil
}
