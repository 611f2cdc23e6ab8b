package effects

import (
	"sort"

	"weatherfx/pkg/core"
)

// Constructor builds a profile from the tuning.
type Constructor func(t Tuning, rnd core.Rand) Profile

var profiles = map[string]Constructor{}

// Register adds a profile constructor under the provided name.
func Register(name string, c Constructor) {
	if name == "" || c == nil {
		return
	}
	profiles[name] = c
}

// Profiles lists the registered profile names in sorted order.
func Profiles() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New constructs a registered profile.
func New(name string, t Tuning, rnd core.Rand) (Profile, bool) {
	c, ok := profiles[name]
	if !ok {
		return nil, false
	}
	return c(t, rnd), true
}

func init() {
	Register("rain", func(t Tuning, rnd core.Rand) Profile { return NewRain(t.Rain, rnd) })
	Register("snow", func(t Tuning, rnd core.Rand) Profile { return NewSnow(t.Snow, rnd) })
	Register("leaf", func(t Tuning, rnd core.Rand) Profile { return NewLeaf(t.Leaf, rnd) })
}
