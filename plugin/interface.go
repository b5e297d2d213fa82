// Package plugin defines the contract between gpsdio-style hosts and the
// drivers they open.
//
// A driver consumes a stream of messages and persists them somewhere. The
// host looks drivers up by name in a Registry and opens them with a target,
// a mode and a free-form option map.
package plugin

// Message is one positional message: a mapping from field name to value.
// Drivers must treat it as read-only.
type Message map[string]any

// Driver is an open driver instance.
type Driver interface {
	// Write persists one message
	Write(msg Message) error

	// Close flushes output and releases resources. Calling Close twice is
	// an error.
	Close() error
}

// Metadata describes a driver
type Metadata struct {
	// Name is the registry key (e.g., "Vector")
	Name string

	// Version is the driver version (semver)
	Version string

	// HostVersion is the required host version (semver constraint)
	HostVersion string

	// IOModes lists the modes the driver can be opened in ("r", "w", "a")
	IOModes []string

	// Extensions are file extensions used for driver detection. Empty
	// means the driver must be named explicitly.
	Extensions []string

	// Description is a human-readable description
	Description string
}

// SupportsMode reports whether mode is one of m.IOModes.
func (m Metadata) SupportsMode(mode string) bool {
	for _, io := range m.IOModes {
		if io == mode {
			return true
		}
	}
	return false
}

// Factory opens a driver on target.
type Factory func(target any, mode string, opts map[string]any) (Driver, error)
