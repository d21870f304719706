package rules

import (
	"github.com/louisbranch/voidsheet/internal/services/sheet/domain/actor"
	"github.com/louisbranch/voidsheet/internal/services/sheet/domain/record"
)

// ExperienceResult is the experience ledger. Total and Used are the stored
// authoritative values; the spent fields are recomputed every pass.
type ExperienceResult struct {
	Total                int `json:"total"`
	Used                 int `json:"used"`
	Available            int `json:"available"`
	SpentCharacteristics int `json:"spentCharacteristics"`
	SpentSkills          int `json:"spentSkills"`
	SpentTalents         int `json:"spentTalents"`
	SpentPsychicPowers   int `json:"spentPsychicPowers"`
	CalculatedTotal      int `json:"calculatedTotal"`
}

// ResolveExperience sums the experience recorded against each category.
func ResolveExperience(a actor.Actor, records []record.Record) ExperienceResult {
	out := ExperienceResult{
		Total:     a.Experience.Total,
		Used:      a.Experience.Used,
		Available: a.Experience.Total - a.Experience.Used,
	}
	for _, c := range a.Characteristics {
		out.SpentCharacteristics += c.Cost
	}
	for _, s := range a.Skills {
		out.SpentSkills += s.SpentExperience()
	}
	out.SpentPsychicPowers = a.Psy.Cost
	for _, r := range records {
		switch r.Kind {
		case record.KindTalent:
			out.SpentTalents += r.Cost
		case record.KindPsychicPower:
			out.SpentPsychicPowers += r.Cost
		}
	}
	out.CalculatedTotal = out.SpentCharacteristics + out.SpentSkills + out.SpentTalents + out.SpentPsychicPowers
	return out
}
