package rules

import (
	"maps"
	"slices"

	"github.com/louisbranch/voidsheet/internal/services/sheet/domain/actor"
	"github.com/louisbranch/voidsheet/internal/services/sheet/domain/record"
)

// Combat modifier keys recognised by the aggregator.
const (
	CombatAttack      = "attack"
	CombatDamage      = "damage"
	CombatPenetration = "penetration"
	CombatDefense     = "defense"
	CombatInitiative  = "initiative"
	CombatSpeed       = "speed"
)

// Resource modifier keys recognised by the aggregator.
const (
	ResourceWounds = "wounds"
	ResourceFate   = "fate"
)

// CombatKeys lists the recognised combat keys.
var CombatKeys = []string{CombatAttack, CombatDamage, CombatPenetration, CombatDefense, CombatInitiative, CombatSpeed}

// ResourceKeys lists the recognised resource keys.
var ResourceKeys = []string{ResourceWounds, ResourceFate}

// ModifierSource is one record's contribution to one target.
type ModifierSource struct {
	Name  string      `json:"name"`
	Kind  record.Kind `json:"kind"`
	ID    string      `json:"id,omitempty"`
	Value int         `json:"value"`
}

// ModifierSet holds the per-target buckets built from owned records. The
// buckets stay inspectable so callers can show where a number came from.
type ModifierSet struct {
	Characteristics map[actor.CharacteristicKey][]ModifierSource `json:"characteristics,omitempty"`
	Skills          map[string][]ModifierSource                  `json:"skills,omitempty"`
	Combat          map[string][]ModifierSource                  `json:"combat,omitempty"`
	Resources       map[string][]ModifierSource                  `json:"resources,omitempty"`
	Diagnostics     []Diagnostic                                 `json:"diagnostics,omitempty"`
}

// AggregateModifiers buckets the non-zero modifiers of every contributing
// record. knownSkills, when non-nil, is used to flag skill keys the actor does
// not have; those modifiers are still bucketed.
func AggregateModifiers(records []record.Record, knownSkills []string) ModifierSet {
	set := ModifierSet{
		Characteristics: map[actor.CharacteristicKey][]ModifierSource{},
		Skills:          map[string][]ModifierSource{},
		Combat:          map[string][]ModifierSource{},
		Resources:       map[string][]ModifierSource{},
	}
	charNames := characteristicNames()
	for _, r := range records {
		mods, ok := r.Contribution()
		if !ok {
			continue
		}
		source := func(v int) ModifierSource {
			return ModifierSource{Name: r.Name, Kind: r.Kind, ID: r.ID, Value: v}
		}

		for _, name := range slices.Sorted(maps.Keys(mods.Characteristics)) {
			v := mods.Characteristics[name]
			if v == 0 {
				continue
			}
			key, ok := actor.LookupCharacteristic(name)
			if !ok {
				set.Diagnostics = append(set.Diagnostics, diagnosticFor(r, DiagnosticUnknownCharacteristic, name, suggest(name, charNames)))
				continue
			}
			set.Characteristics[key] = append(set.Characteristics[key], source(v))
		}

		for _, name := range slices.Sorted(maps.Keys(mods.Skills)) {
			v := mods.Skills[name]
			if v == 0 {
				continue
			}
			if knownSkills != nil && !slices.Contains(knownSkills, name) {
				set.Diagnostics = append(set.Diagnostics, diagnosticFor(r, DiagnosticUnknownSkill, name, suggest(name, knownSkills)))
			}
			set.Skills[name] = append(set.Skills[name], source(v))
		}

		for _, name := range slices.Sorted(maps.Keys(mods.Combat)) {
			v := mods.Combat[name]
			if v == 0 {
				continue
			}
			if !slices.Contains(CombatKeys, name) {
				set.Diagnostics = append(set.Diagnostics, diagnosticFor(r, DiagnosticUnknownCombatKey, name, suggest(name, CombatKeys)))
				continue
			}
			set.Combat[name] = append(set.Combat[name], source(v))
		}

		for _, name := range slices.Sorted(maps.Keys(mods.Resources)) {
			v := mods.Resources[name]
			if v == 0 {
				continue
			}
			if !slices.Contains(ResourceKeys, name) {
				set.Diagnostics = append(set.Diagnostics, diagnosticFor(r, DiagnosticUnknownResource, name, suggest(name, ResourceKeys)))
				continue
			}
			set.Resources[name] = append(set.Resources[name], source(v))
		}
	}
	return set
}

// CharacteristicTotals sums each characteristic bucket.
func (s ModifierSet) CharacteristicTotals() map[actor.CharacteristicKey]int {
	out := make(map[actor.CharacteristicKey]int, len(s.Characteristics))
	for key, sources := range s.Characteristics {
		out[key] = sumSources(sources)
	}
	return out
}

// SkillTotals sums each skill bucket.
func (s ModifierSet) SkillTotals() map[string]int {
	out := make(map[string]int, len(s.Skills))
	for key, sources := range s.Skills {
		out[key] = sumSources(sources)
	}
	return out
}

// CombatTotal sums one combat bucket.
func (s ModifierSet) CombatTotal(key string) int {
	return sumSources(s.Combat[key])
}

// ResourceTotal sums one resource bucket.
func (s ModifierSet) ResourceTotal(key string) int {
	return sumSources(s.Resources[key])
}

// OriginPathGrants are the characteristic, wound and fate grants of
// origin-path records. They are kept apart from ModifierSet so a grant is
// never applied twice.
type OriginPathGrants struct {
	Characteristics map[actor.CharacteristicKey][]ModifierSource `json:"characteristics,omitempty"`
	Wounds          int                                          `json:"wounds"`
	Fate            int                                          `json:"fate"`
}

// OriginPathModifiers sums the grants of origin-path records only.
func OriginPathModifiers(records []record.Record) OriginPathGrants {
	grants := OriginPathGrants{Characteristics: map[actor.CharacteristicKey][]ModifierSource{}}
	for _, r := range records {
		if r.Kind != record.KindOriginPath || r.Modifiers == nil {
			continue
		}
		for _, name := range slices.Sorted(maps.Keys(r.Modifiers.Characteristics)) {
			v := r.Modifiers.Characteristics[name]
			key, ok := actor.LookupCharacteristic(name)
			if v == 0 || !ok {
				continue
			}
			grants.Characteristics[key] = append(grants.Characteristics[key], ModifierSource{Name: r.Name, Kind: r.Kind, ID: r.ID, Value: v})
		}
		grants.Wounds += r.Modifiers.Wounds
		grants.Fate += r.Modifiers.Fate
	}
	return grants
}

// CharacteristicTotals sums each origin-path characteristic grant.
func (g OriginPathGrants) CharacteristicTotals() map[actor.CharacteristicKey]int {
	out := make(map[actor.CharacteristicKey]int, len(g.Characteristics))
	for key, sources := range g.Characteristics {
		out[key] = sumSources(sources)
	}
	return out
}

func sumSources(sources []ModifierSource) int {
	total := 0
	for _, s := range sources {
		total += s.Value
	}
	return total
}

func diagnosticFor(r record.Record, code, key, suggestion string) Diagnostic {
	return Diagnostic{Code: code, RecordID: r.ID, RecordName: r.Name, Key: key, Suggestion: suggestion}
}

func characteristicNames() []string {
	names := make([]string, 0, len(actor.CharacteristicKeys)*2)
	for _, key := range actor.CharacteristicKeys {
		names = append(names, string(key), key.Short())
	}
	return names
}
