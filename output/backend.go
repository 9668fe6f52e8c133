package output

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// Backend is a place audio can be played.
type Backend interface {
	// Init should do nothing if called more than once.
	Init() error
	Close() error

	Devices() ([]Device, error)
	DefaultDevice() (Device, error)
	Start(SessionConfig) (Session, error)
}

// Prober is implemented by backends that need something outside the process,
// a binary or a server, before they can play.
type Prober interface {
	Available() bool
}

type entry struct {
	name    string
	rank    int
	backend Backend
}

var (
	registryMu sync.Mutex
	registry   []entry
)

// Register adds a backend under name. A lower rank is preferred when no
// backend is asked for. Output packages call it from init. Registering a
// name twice panics.
func Register(name string, rank int, b Backend) {
	registryMu.Lock()
	defer registryMu.Unlock()

	for _, e := range registry {
		if e.name == name {
			panic("output: backend registered twice: " + name)
		}
	}

	registry = append(registry, entry{name: name, rank: rank, backend: b})

	sort.SliceStable(registry, func(i, j int) bool {
		return registry[i].rank < registry[j].rank
	})
}

// Names lists the registered backends, preferred first.
func Names() []string {
	registryMu.Lock()
	defer registryMu.Unlock()

	names := make([]string, len(registry))
	for i, e := range registry {
		names[i] = e.name
	}
	return names
}

// Lookup returns the backend registered under name.
func Lookup(name string) (Backend, bool) {
	registryMu.Lock()
	defer registryMu.Unlock()

	for _, e := range registry {
		if e.name == name {
			return e.backend, true
		}
	}
	return nil, false
}

// DefaultBackend names the preferred backend that can play here, or "" when
// none can.
func DefaultBackend() string {
	registryMu.Lock()
	defer registryMu.Unlock()

	for _, e := range registry {
		if p, ok := e.backend.(Prober); ok && !p.Available() {
			continue
		}
		return e.name
	}
	return ""
}

// Open initializes the backend registered under name. An empty name opens
// DefaultBackend.
func Open(name string) (Backend, error) {
	if name == "" {
		if name = DefaultBackend(); name == "" {
			return nil, errors.New("no usable output backend")
		}
	}

	b, ok := Lookup(name)
	if !ok {
		return nil, errors.Errorf("unknown backend %q; check list-backends", name)
	}

	if err := b.Init(); err != nil {
		return nil, errors.Wrapf(err, "failed to initialize %s", name)
	}

	return b, nil
}

// FindDevice returns the device of b whose name is name, or the default
// device when name is empty.
func FindDevice(b Backend, name string) (Device, error) {
	if name == "" {
		dev, err := b.DefaultDevice()
		return dev, errors.Wrap(err, "failed to get default device")
	}

	devices, err := b.Devices()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list devices")
	}

	for _, dev := range devices {
		if dev.String() == name {
			return dev, nil
		}
	}

	return nil, errors.Errorf("device %q not found; check list-devices", name)
}
