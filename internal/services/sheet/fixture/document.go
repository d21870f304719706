// Package fixture loads actor documents, the YAML or JSON form an actor and
// its owned records are authored and exchanged in.
package fixture

import (
	"github.com/louisbranch/voidsheet/internal/services/sheet/domain/record"
)

// CharacteristicDocument is the persisted shape of a characteristic.
type CharacteristicDocument struct {
	Base      record.Scalar `yaml:"base" json:"base"`
	Advance   record.Scalar `yaml:"advance,omitempty" json:"advance,omitempty"`
	Modifier  record.Scalar `yaml:"modifier,omitempty" json:"modifier,omitempty"`
	Unnatural record.Scalar `yaml:"unnatural,omitempty" json:"unnatural,omitempty"`
	Cost      record.Scalar `yaml:"cost,omitempty" json:"cost,omitempty"`
}

// EntryDocument is the persisted shape of a specialisation entry.
type EntryDocument struct {
	Name           string        `yaml:"name" json:"name"`
	Characteristic string        `yaml:"characteristic,omitempty" json:"characteristic,omitempty"`
	Trained        bool          `yaml:"trained,omitempty" json:"trained,omitempty"`
	Plus10         bool          `yaml:"plus10,omitempty" json:"plus10,omitempty"`
	Plus20         bool          `yaml:"plus20,omitempty" json:"plus20,omitempty"`
	Bonus          record.Scalar `yaml:"bonus,omitempty" json:"bonus,omitempty"`
	Cost           record.Scalar `yaml:"cost,omitempty" json:"cost,omitempty"`
}

// SkillDocument is the persisted shape of a skill.
type SkillDocument struct {
	Label          string          `yaml:"label,omitempty" json:"label,omitempty"`
	Characteristic string          `yaml:"characteristic" json:"characteristic"`
	Trained        bool            `yaml:"trained,omitempty" json:"trained,omitempty"`
	Plus10         bool            `yaml:"plus10,omitempty" json:"plus10,omitempty"`
	Plus20         bool            `yaml:"plus20,omitempty" json:"plus20,omitempty"`
	Bonus          record.Scalar   `yaml:"bonus,omitempty" json:"bonus,omitempty"`
	Cost           record.Scalar   `yaml:"cost,omitempty" json:"cost,omitempty"`
	Advanced       bool            `yaml:"advanced,omitempty" json:"advanced,omitempty"`
	Entries        []EntryDocument `yaml:"entries,omitempty" json:"entries,omitempty"`
}

// InitiativeDocument names the initiative characteristic.
type InitiativeDocument struct {
	Characteristic string        `yaml:"characteristic,omitempty" json:"characteristic,omitempty"`
	Base           record.Scalar `yaml:"base,omitempty" json:"base,omitempty"`
}

// PsyDocument is the persisted psychic rating.
type PsyDocument struct {
	Rating    record.Scalar `yaml:"rating,omitempty" json:"rating,omitempty"`
	Sustained record.Scalar `yaml:"sustained,omitempty" json:"sustained,omitempty"`
	Cost      record.Scalar `yaml:"cost,omitempty" json:"cost,omitempty"`
	Class     string        `yaml:"class,omitempty" json:"class,omitempty"`
}

// ExperienceDocument is the authoritative experience ledger.
type ExperienceDocument struct {
	Total record.Scalar `yaml:"total,omitempty" json:"total,omitempty"`
	Used  record.Scalar `yaml:"used,omitempty" json:"used,omitempty"`
}

// ResourceDocument is a current/max pool.
type ResourceDocument struct {
	Value record.Scalar `yaml:"value,omitempty" json:"value,omitempty"`
	Max   record.Scalar `yaml:"max,omitempty" json:"max,omitempty"`
}

// HordeDocument is the persisted horde magnitude.
type HordeDocument struct {
	Enabled bool          `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	Current record.Scalar `yaml:"current,omitempty" json:"current,omitempty"`
	Max     record.Scalar `yaml:"max,omitempty" json:"max,omitempty"`
}

// BackpackDocument is the persisted backpack state.
type BackpackDocument struct {
	Equipped   bool          `yaml:"equipped,omitempty" json:"equipped,omitempty"`
	CombatVest bool          `yaml:"combatVest,omitempty" json:"combatVest,omitempty"`
	Max        record.Scalar `yaml:"max,omitempty" json:"max,omitempty"`
}

// CombatDocument carries the round-scoped combat flags.
type CombatDocument struct {
	AlreadyHit bool `yaml:"alreadyHit,omitempty" json:"alreadyHit,omitempty"`
}

// Document is one actor with its owned records. RecordsLoaded defaults to
// true; setting it to false exercises the Stage 2 precondition.
type Document struct {
	ID              string                            `yaml:"id,omitempty" json:"id,omitempty"`
	Name            string                            `yaml:"name" json:"name"`
	Kind            string                            `yaml:"kind,omitempty" json:"kind,omitempty"`
	Size            record.Scalar                     `yaml:"size,omitempty" json:"size,omitempty"`
	Characteristics map[string]CharacteristicDocument `yaml:"characteristics" json:"characteristics"`
	Skills          map[string]SkillDocument          `yaml:"skills,omitempty" json:"skills,omitempty"`
	Initiative      InitiativeDocument                `yaml:"initiative,omitempty" json:"initiative,omitempty"`
	Psy             PsyDocument                       `yaml:"psy,omitempty" json:"psy,omitempty"`
	Experience      ExperienceDocument                `yaml:"experience,omitempty" json:"experience,omitempty"`
	Fatigue         record.Scalar                     `yaml:"fatigue,omitempty" json:"fatigue,omitempty"`
	Wounds          ResourceDocument                  `yaml:"wounds,omitempty" json:"wounds,omitempty"`
	Fate            ResourceDocument                  `yaml:"fate,omitempty" json:"fate,omitempty"`
	Horde           HordeDocument                     `yaml:"horde,omitempty" json:"horde,omitempty"`
	Backpack        BackpackDocument                  `yaml:"backpack,omitempty" json:"backpack,omitempty"`
	Combat          CombatDocument                    `yaml:"combat,omitempty" json:"combat,omitempty"`
	RecordsLoaded   *bool                             `yaml:"recordsLoaded,omitempty" json:"recordsLoaded,omitempty"`
	Items           []record.Document                 `yaml:"items,omitempty" json:"items,omitempty"`
}
