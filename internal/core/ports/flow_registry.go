package ports

import (
	"freightops/internal/core/domain/model/flow"
)

// FlowRegistry resolves flow configurations by name. The built-in registry is
// static data, but the port keeps the application layer open to a
// configuration-backed implementation.
type FlowRegistry interface {
	// Get returns the flow configuration with the given name, or an
	// object-not-found error.
	Get(name string) (flow.Flow, error)

	// Names returns the names of all registered flows.
	Names() []string
}
