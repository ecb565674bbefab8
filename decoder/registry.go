package decoder

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// Preset produces the starting configuration for a registered mode.
type Preset func() Config

// Registry maps mode names to configuration presets. Unlike load-time
// plugin probing, a Registry is an explicit object: construct one,
// register what the deployment needs, and hand it to whatever loads
// pipeline configuration. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	presets map[Mode]Preset
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{presets: make(map[Mode]Preset)}
}

// DefaultRegistry returns a registry with the built-in overlay modes
// registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	_ = r.Register(ModeFaceLandmark, func() Config { return DefaultConfig(ModeFaceLandmark) })
	_ = r.Register(ModeFaceMesh, func() Config { return DefaultConfig(ModeFaceMesh) })
	return r
}

// Register adds or replaces a mode preset.
func (r *Registry) Register(mode Mode, preset Preset) error {
	if mode == "" || preset == nil {
		return errors.New("registry needs a mode name and a preset")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.presets[mode] = preset
	return nil
}

// Unregister removes a mode. Removing an absent mode is a no-op.
func (r *Registry) Unregister(mode Mode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.presets, mode)
}

// Lookup resolves a mode name to a fresh preset configuration.
func (r *Registry) Lookup(mode Mode) (Config, error) {
	r.mu.RLock()
	preset, ok := r.presets[mode]
	r.mu.RUnlock()
	if !ok {
		return Config{}, errors.Wrapf(ErrUnknownMode, "%q", mode)
	}
	return preset(), nil
}

// Modes lists the registered mode names, sorted.
func (r *Registry) Modes() []Mode {
	r.mu.RLock()
	defer r.mu.RUnlock()
	modes := make([]Mode, 0, len(r.presets))
	for m := range r.presets {
		modes = append(modes, m)
	}
	sort.Slice(modes, func(i, j int) bool { return modes[i] < modes[j] })
	return modes
}

// Configure resolves a mode by name, applies numbered options on top of
// its preset, and returns a ready decoder. Option 1 is ignored here; the
// mode argument wins.
//
// Arguments:
//   - mode: The registered mode name.
//   - options: Numbered option values, as from a pipeline description.
//
// Returns:
//   - *Decoder: A ready decoder.
//   - error: ErrUnknownMode, an option parse failure, or the
//     configuration problem.
func (r *Registry) Configure(mode string, options map[int]string) (*Decoder, error) {
	cfg, err := r.Lookup(Mode(mode))
	if err != nil {
		return nil, err
	}
	for n, value := range options {
		if n == 1 {
			continue
		}
		if err := cfg.SetOption(n, value); err != nil {
			return nil, err
		}
	}
	return NewWithConfig(cfg)
}
