package pipeline

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/louisbranch/voidsheet/internal/services/sheet/domain/actor"
)

// Capability selects an optional resolver stage.
type Capability string

const (
	CapabilityExperience  Capability = "experience"
	CapabilityPsy         Capability = "psy"
	CapabilityEncumbrance Capability = "encumbrance"
	CapabilityArmour      Capability = "armour"
	CapabilityMovement    Capability = "movement"
	CapabilityHorde       Capability = "horde"
)

// Profile is the resolver composition for one actor kind. Characteristics,
// skills, initiative, fatigue and resources always resolve; capabilities add
// the rest.
type Profile struct {
	Kind         actor.Kind
	Version      string
	Name         string
	Capabilities []Capability
}

// Has reports whether the profile enables c.
func (p Profile) Has(c Capability) bool {
	return slices.Contains(p.Capabilities, c)
}

// CharacterProfile is the player-character composition.
func CharacterProfile() Profile {
	return Profile{
		Kind:    actor.KindCharacter,
		Version: "1.0.0",
		Name:    "Acolyte",
		Capabilities: []Capability{
			CapabilityExperience,
			CapabilityPsy,
			CapabilityEncumbrance,
			CapabilityArmour,
			CapabilityMovement,
		},
	}
}

// NPCProfile is the non-player composition.
func NPCProfile() Profile {
	return Profile{
		Kind:    actor.KindNPC,
		Version: "1.0.0",
		Name:    "NPC",
		Capabilities: []Capability{
			CapabilityArmour,
			CapabilityMovement,
			CapabilityPsy,
			CapabilityHorde,
			CapabilityEncumbrance,
		},
	}
}

// ProfileKey identifies a specific version of a profile.
type ProfileKey struct {
	Kind    actor.Kind
	Version string
}

// Registry manages registered profiles.
type Registry struct {
	mu       sync.RWMutex
	profiles map[ProfileKey]Profile
	defaults map[actor.Kind]string
}

// NewRegistry creates an empty profile registry.
func NewRegistry() *Registry {
	return &Registry{
		profiles: make(map[ProfileKey]Profile),
		defaults: make(map[actor.Kind]string),
	}
}

// Register adds a profile. The first version registered for a kind becomes
// its default. Panics on an empty version or a duplicate.
func (r *Registry) Register(profile Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()

	version := strings.TrimSpace(profile.Version)
	if version == "" {
		panic(fmt.Sprintf("profile %s must define a version", profile.Kind))
	}
	key := ProfileKey{Kind: profile.Kind, Version: version}
	if _, exists := r.profiles[key]; exists {
		panic(fmt.Sprintf("profile %s version %s already registered", profile.Kind, version))
	}
	if _, exists := r.defaults[profile.Kind]; !exists {
		r.defaults[profile.Kind] = version
	}
	profile.Version = version
	r.profiles[key] = profile
}

// Get returns the default profile for kind.
func (r *Registry) Get(kind actor.Kind) (Profile, bool) {
	return r.GetVersion(kind, "")
}

// GetVersion returns the profile for kind and version. An empty version
// selects the default.
func (r *Registry) GetVersion(kind actor.Kind, version string) (Profile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	resolved := strings.TrimSpace(version)
	if resolved == "" {
		resolved = r.defaults[kind]
	}
	if resolved == "" {
		return Profile{}, false
	}
	profile, ok := r.profiles[ProfileKey{Kind: kind, Version: resolved}]
	return profile, ok
}

// List returns every registered profile ordered by kind then version.
func (r *Registry) List() []Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Profile, 0, len(r.profiles))
	for _, profile := range r.profiles {
		result = append(result, profile)
	}
	slices.SortFunc(result, func(a, b Profile) int {
		return cmp.Or(cmp.Compare(a.Kind, b.Kind), cmp.Compare(a.Version, b.Version))
	})
	return result
}

// DefaultRegistry holds the character and NPC profiles.
var DefaultRegistry = newDefaultRegistry()

func newDefaultRegistry() *Registry {
	registry := NewRegistry()
	registry.Register(CharacterProfile())
	registry.Register(NPCProfile())
	return registry
}
