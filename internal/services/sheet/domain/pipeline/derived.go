package pipeline

import (
	"maps"
	"slices"

	"github.com/louisbranch/voidsheet/internal/services/sheet/domain/actor"
	"github.com/louisbranch/voidsheet/internal/services/sheet/domain/rules"
)

// Derived is the read-only snapshot consumed by sheet rendering and the
// roll subsystem. Sections a profile does not enable stay nil.
type Derived struct {
	ActorID         string                       `json:"actorId"`
	Name            string                       `json:"name"`
	Kind            actor.Kind                   `json:"kind"`
	Profile         string                       `json:"profile"`
	RulesVersion    string                       `json:"rulesVersion"`
	Stage           int                          `json:"stage"`
	Characteristics rules.Characteristics        `json:"characteristics"`
	Skills          map[string]rules.SkillResult `json:"skills"`
	Initiative      rules.InitiativeResult       `json:"initiative"`
	Fatigue         rules.FatigueResult          `json:"fatigue"`
	Resources       rules.Resources              `json:"resources"`
	Movement        *rules.Movement              `json:"movement,omitempty"`
	Lift            *rules.Lift                  `json:"lift,omitempty"`
	Psy             *rules.PsyResult             `json:"psy,omitempty"`
	Horde           *rules.HordeResult           `json:"horde,omitempty"`
	Armour          *rules.Armour                `json:"armour,omitempty"`
	Encumbrance     *rules.Encumbrance           `json:"encumbrance,omitempty"`
	Experience      *rules.ExperienceResult      `json:"experience,omitempty"`
	Aptitudes       []string                     `json:"aptitudes,omitempty"`
	Combat          map[string]int               `json:"combat,omitempty"`
	Modifiers       *rules.ModifierSet           `json:"modifiers,omitempty"`
	OriginPath      *rules.OriginPathGrants      `json:"originPath,omitempty"`
	Diagnostics     []rules.Diagnostic           `json:"diagnostics,omitempty"`
}

// Bindings is the roll variable table: short codes to resolved values.
type Bindings map[string]float64

// Keys returns the binding names in sorted order.
func (b Bindings) Keys() []string {
	return slices.Sorted(maps.Keys(b))
}

// Bindings builds the roll variable table. Every characteristic binds its
// short code to the total and the short code plus "B" to the bonus, so
// strength gives S and SB.
func (d Derived) Bindings() Bindings {
	out := Bindings{}
	for key, c := range d.Characteristics {
		short := c.Short
		if short == "" {
			short = key.Short()
		}
		if short == "" {
			continue
		}
		out[short] = float64(c.Total)
		out[short+"B"] = float64(c.Bonus)
	}
	out["init"] = float64(d.Initiative.Bonus + d.Initiative.Base + d.Initiative.Modifier)
	out["fatigue"] = float64(d.Fatigue.Value)
	if d.Psy != nil {
		out["pr"] = float64(d.Psy.Current)
	}
	if d.Movement != nil {
		out["move"] = float64(d.Movement.Base)
	}
	if d.Horde != nil && d.Horde.Enabled {
		out["mag"] = float64(d.Horde.Current)
		out["hordeDmg"] = d.Horde.DamageMultiplier
	}
	return out
}
