package actor

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	apperrors "github.com/louisbranch/voidsheet/internal/platform/errors"
)

// DefaultSize is the "Average" size category.
const DefaultSize = 4

// Kind selects which resolver stages run for an actor.
type Kind string

const (
	KindCharacter Kind = "character"
	KindNPC       Kind = "npc"
)

// ParseKind normalises a stored kind label. Empty means character.
func ParseKind(value string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "character", "acolyte", "pc":
		return KindCharacter, nil
	case "npc":
		return KindNPC, nil
	default:
		return "", apperrors.WithMetadata(
			apperrors.CodeActorInvalidKind,
			fmt.Sprintf("actor kind %q is not supported", value),
			map[string]string{"Kind": value},
		)
	}
}

// Initiative names the characteristic whose bonus drives initiative.
type Initiative struct {
	Characteristic string
	Base           int
}

// Psy holds the stored psychic rating.
type Psy struct {
	Rating    int
	Sustained int
	Cost      int
	Class     string
}

// Experience holds the authoritative experience totals.
type Experience struct {
	Total int
	Used  int
}

// Fatigue holds the current fatigue level.
type Fatigue struct {
	Value int
}

// Resource is a current/max pool such as wounds or fate.
type Resource struct {
	Value int
	Max   int
}

// Horde holds the magnitude of a swarm-type actor.
type Horde struct {
	Enabled bool
	Current int
	Max     int
}

// Backpack describes an equipped carrying container.
type Backpack struct {
	Equipped   bool
	CombatVest bool
	Max        float64
}

// Actor is a snapshot of every stored base field the pipeline reads.
type Actor struct {
	ID              string
	Name            string
	Kind            Kind
	Characteristics map[CharacteristicKey]Characteristic
	Skills          map[string]Skill
	Initiative      Initiative
	Size            int
	Psy             Psy
	Experience      Experience
	Fatigue         Fatigue
	Wounds          Resource
	Fate            Resource
	Horde           Horde
	Backpack        Backpack
}

// New returns an actor with every characteristic present at base 0.
func New(id, name string, kind Kind) Actor {
	chars := make(map[CharacteristicKey]Characteristic, len(CharacteristicKeys))
	for _, key := range CharacteristicKeys {
		chars[key] = NewCharacteristic(key, 0)
	}
	return Actor{
		ID:              id,
		Name:            name,
		Kind:            kind,
		Characteristics: chars,
		Skills:          map[string]Skill{},
		Initiative:      Initiative{Characteristic: string(Agility)},
		Size:            DefaultSize,
	}
}

// SkillKeys returns the skill keys in a stable order.
func (a Actor) SkillKeys() []string {
	return slices.Sorted(maps.Keys(a.Skills))
}

// InitiativeCharacteristic resolves the initiative characteristic, falling
// back to agility when unset.
func (a Actor) InitiativeCharacteristic() string {
	if a.Initiative.Characteristic == "" {
		return string(Agility)
	}
	return a.Initiative.Characteristic
}

// EffectiveSize returns Size, or DefaultSize when unset.
func (a Actor) EffectiveSize() int {
	if a.Size == 0 {
		return DefaultSize
	}
	return a.Size
}
