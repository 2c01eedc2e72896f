package capability

import (
	"fmt"
	"sort"
	"sync"
)

type registry struct {
	entries map[string]Capability
	mu      sync.RWMutex
}

var register = &registry{
	entries: make(map[string]Capability),
}

// Register adds a capability to the global registry.
// Returns ErrAlreadyExists if one with the same name is already registered.
// Use Replace to update an existing capability's handler.
// Thread-safe for concurrent registration.
func Register(c Capability) error {
	if c.Name() == "" {
		return ErrEmptyName
	}

	register.mu.Lock()
	defer register.mu.Unlock()

	if _, exists := register.entries[c.Name()]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, c.Name())
	}

	register.entries[c.Name()] = c
	return nil
}

// Replace updates an existing capability's handler.
// Returns ErrNotFound if no capability with the given name is registered.
func Replace(c Capability) error {
	if c.Name() == "" {
		return ErrEmptyName
	}

	register.mu.Lock()
	defer register.mu.Unlock()

	if _, exists := register.entries[c.Name()]; !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, c.Name())
	}

	register.entries[c.Name()] = c
	return nil
}

// Deregister removes a capability by name. Missing names are a no-op.
func Deregister(name string) {
	register.mu.Lock()
	defer register.mu.Unlock()
	delete(register.entries, name)
}

// Get resolves a capability by name.
// Returns the capability and true if found, nil and false otherwise.
func Get(name string) (Capability, bool) {
	register.mu.RLock()
	defer register.mu.RUnlock()

	c, exists := register.entries[name]
	if !exists {
		return nil, false
	}
	return c, true
}

// List returns all registered capabilities, sorted by name.
func List() []Capability {
	register.mu.RLock()
	defer register.mu.RUnlock()

	caps := make([]Capability, 0, len(register.entries))
	for _, c := range register.entries {
		caps = append(caps, c)
	}
	sort.Slice(caps, func(i, j int) bool { return caps[i].Name() < caps[j].Name() })
	return caps
}

// Names returns the sorted names of all registered capabilities.
func Names() []string {
	caps := List()
	names := make([]string, len(caps))
	for i, c := range caps {
		names[i] = c.Name()
	}
	return names
}
