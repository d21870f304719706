package rules

import (
	"github.com/louisbranch/voidsheet/internal/services/sheet/domain/actor"
)

// Training levels.
const (
	TrainingNone    = 0
	TrainingTrained = 1
	TrainingPlus10  = 2
	TrainingPlus20  = 3
)

// SkillResult is a resolved skill.
type SkillResult struct {
	Key            string        `json:"key"`
	Label          string        `json:"label"`
	Characteristic string        `json:"characteristic"`
	Level          int           `json:"level"`
	Advanced       bool          `json:"advanced,omitempty"`
	ItemModifier   int           `json:"itemModifier"`
	Current        int           `json:"current"`
	Entries        []EntryResult `json:"entries,omitempty"`
}

// EntryResult is a resolved specialisation entry.
type EntryResult struct {
	Name           string `json:"name"`
	Characteristic string `json:"characteristic"`
	Level          int    `json:"level"`
	Current        int    `json:"current"`
}

// TrainingLevel ranks the training flags; the highest set flag wins.
func TrainingLevel(trained, plus10, plus20 bool) int {
	switch {
	case plus20:
		return TrainingPlus20
	case plus10:
		return TrainingPlus10
	case trained:
		return TrainingTrained
	default:
		return TrainingNone
	}
}

func trainingBonus(level int) int {
	switch {
	case level >= TrainingPlus20:
		return 20
	case level >= TrainingPlus10:
		return 10
	default:
		return 0
	}
}

// skillTarget is the shared target-number formula for skills and entries.
func skillTarget(charTotal, level, flatBonus, itemMod int) int {
	base := charTotal
	if level == TrainingNone {
		base = floorDiv(charTotal, 2)
	}
	return base + trainingBonus(level) + flatBonus + itemMod
}

// ResolveSkill computes the current value of a skill and its entries. It
// reads resolved characteristic totals, so characteristics resolve first.
func ResolveSkill(key string, s actor.Skill, chars Characteristics, itemMod int) SkillResult {
	level := TrainingLevel(s.Trained, s.Plus10, s.Plus20)
	result := SkillResult{
		Key:            key,
		Label:          s.Label,
		Characteristic: s.Characteristic,
		Level:          level,
		Advanced:       s.Advanced,
		ItemModifier:   itemMod,
		Current:        skillTarget(chars.Total(s.Characteristic), level, s.Bonus, itemMod),
	}
	for _, entry := range s.Entries {
		charName := s.EntryCharacteristic(entry)
		entryLevel := TrainingLevel(entry.Trained, entry.Plus10, entry.Plus20)
		result.Entries = append(result.Entries, EntryResult{
			Name:           entry.Name,
			Characteristic: charName,
			Level:          entryLevel,
			Current:        skillTarget(chars.Total(charName), entryLevel, entry.Bonus, itemMod),
		})
	}
	return result
}

// ResolveSkills resolves every stored skill with per-skill item modifiers.
func ResolveSkills(skills map[string]actor.Skill, chars Characteristics, items map[string]int) map[string]SkillResult {
	out := make(map[string]SkillResult, len(skills))
	for key, s := range skills {
		out[key] = ResolveSkill(key, s, chars, items[key])
	}
	return out
}
