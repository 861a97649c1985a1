package cipher

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/priikone/crypto/modes"
)

// Registry holds the cipher descriptors known to one cryptographic
// configuration, in priority order. Separate registries are fully
// independent. A Registry is safe for concurrent use, the instances it
// creates are not.
type Registry struct {
	mtx sync.RWMutex

	// ciphers is the priority order, earliest registered first.
	ciphers []*Descriptor

	// byName indexes ciphers.
	byName map[string]*Descriptor

	stats usage
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*Descriptor),
	}
}

// Register adds a descriptor under its name. Registering a name that is
// already present replaces the old descriptor and moves the name to the end
// of the priority order. The registry keeps its own copy of d.
func (r *Registry) Register(d *Descriptor) error {
	if d == nil {
		return fmt.Errorf("%w: nil descriptor", ErrInvalidDescriptor)
	}
	if err := d.validate(); err != nil {
		return err
	}

	r.mtx.Lock()
	defer r.mtx.Unlock()

	if _, ok := r.byName[d.Name]; ok {
		log.Debugf("Replacing cipher %v", d.Name)
		r.remove(d.Name)
	} else {
		log.Tracef("Registering cipher %v", d.Name)
	}

	dc := *d
	r.ciphers = append(r.ciphers, &dc)
	r.byName[dc.Name] = &dc

	return nil
}

// remove drops name from the priority order. The caller must hold the write
// lock.
func (r *Registry) remove(name string) {
	r.ciphers = slices.DeleteFunc(r.ciphers, func(d *Descriptor) bool {
		return d.Name == name
	})
	delete(r.byName, name)
}

// Unregister removes the descriptor registered under name.
func (r *Registry) Unregister(name string) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if _, ok := r.byName[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCipher, name)
	}
	r.remove(name)

	log.Debugf("Unregistered cipher %v", name)

	return nil
}

// UnregisterAll removes every descriptor. Existing instances keep working
// with the descriptor they were created from.
func (r *Registry) UnregisterAll() {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	log.Debugf("Unregistering all %d ciphers", len(r.ciphers))

	r.ciphers = nil
	r.byName = make(map[string]*Descriptor)
}

// RegisterDefault registers every built-in descriptor in the default
// priority order.
func (r *Registry) RegisterDefault() error {
	descs := DefaultDescriptors()
	for _, d := range descs {
		if err := r.Register(d); err != nil {
			return err
		}
	}

	log.Infof("Registered %d default ciphers", len(descs))

	return nil
}

// Lookup returns the descriptor registered under exactly name.
func (r *Registry) Lookup(name string) (*Descriptor, error) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	d, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCipher, name)
	}

	return d, nil
}

// IsSupported returns true if name is registered.
func (r *Registry) IsSupported(name string) bool {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	_, ok := r.byName[name]

	return ok
}

// Supported returns the registered names in priority order.
func (r *Registry) Supported() []string {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	names := make([]string, 0, len(r.ciphers))
	for _, d := range r.ciphers {
		names = append(names, d.Name)
	}

	return names
}

// SupportedList returns the registered names in priority order as one comma
// separated string.
func (r *Registry) SupportedList() string {
	return strings.Join(r.Supported(), ",")
}

// Descriptors returns the registered descriptors in priority order.
func (r *Registry) Descriptors() []*Descriptor {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	return slices.Clone(r.ciphers)
}

// Len returns the number of registered descriptors.
func (r *Registry) Len() int {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	return len(r.ciphers)
}

// New allocates an unkeyed instance of the cipher registered under name.
func (r *Registry) New(name string) (*Cipher, error) {
	d, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}

	return newCipher(d, &r.stats), nil
}

// NewFull allocates an unkeyed instance from its algorithm name, key size
// and mode.
func (r *Registry) NewFull(alg string, keyBits uint32,
	mode modes.Mode) (*Cipher, error) {

	return r.New(CipherName(alg, keyBits, mode))
}

// Stats returns a copy of the usage counters.
func (r *Registry) Stats() Stats {
	s := r.stats.snapshot()
	s.Registered = r.Len()

	return s
}
