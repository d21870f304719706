package rules

import (
	"github.com/louisbranch/voidsheet/internal/services/sheet/domain/record"
)

// ExplainStep is one deterministic evaluation step.
type ExplainStep struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// Explanation answers "why is this number X" for one derived value.
type Explanation struct {
	Target       string        `json:"target"`
	Value        int           `json:"value"`
	RulesVersion string        `json:"rulesVersion"`
	Steps        []ExplainStep `json:"steps"`
}

// ExplainCharacteristic walks the total and bonus computation, listing every
// record that contributed a modifier.
func ExplainCharacteristic(c CharacteristicResult, mods ModifierSet, origin OriginPathGrants) Explanation {
	steps := []ExplainStep{
		{
			Code:    "BASE_VALUE",
			Message: "Start from base plus advances",
			Data: map[string]any{
				"base":     c.Base,
				"advance":  c.Advance,
				"advances": c.Advance * 5,
				"modifier": c.Modifier,
			},
		},
		{
			Code:    "ORIGIN_PATH",
			Message: "Apply origin path grants",
			Data: map[string]any{
				"total":   c.OriginPathModifier,
				"sources": sourceData(origin.Characteristics[c.Key]),
			},
		},
		{
			Code:    "ITEM_MODIFIERS",
			Message: "Apply talent, trait, condition and equipment modifiers",
			Data: map[string]any{
				"total":   c.ItemModifier,
				"sources": sourceData(mods.Characteristics[c.Key]),
			},
		},
		{
			Code:    "BONUS",
			Message: "Take the tens digit, multiplied by unnatural level",
			Data: map[string]any{
				"total":     c.Total,
				"unnatural": c.Unnatural,
				"bonus":     c.Bonus,
			},
		},
	}
	return Explanation{
		Target:       string(c.Key),
		Value:        c.Total,
		RulesVersion: RulesVersion().RulesVersion,
		Steps:        steps,
	}
}

// ExplainSkill walks the target-number computation of a skill.
func ExplainSkill(s SkillResult, chars Characteristics, mods ModifierSet) Explanation {
	charTotal := chars.Total(s.Characteristic)
	base := charTotal
	if s.Level == TrainingNone {
		base = floorDiv(charTotal, 2)
	}
	return Explanation{
		Target:       s.Key,
		Value:        s.Current,
		RulesVersion: RulesVersion().RulesVersion,
		Steps: []ExplainStep{
			{
				Code:    "CHARACTERISTIC",
				Message: "Read the characteristic total, halved when untrained",
				Data: map[string]any{
					"characteristic": s.Characteristic,
					"total":          charTotal,
					"level":          s.Level,
					"base":           base,
				},
			},
			{
				Code:    "TRAINING",
				Message: "Add the training bonus",
				Data:    map[string]any{"training_bonus": trainingBonus(s.Level)},
			},
			{
				Code:    "ITEM_MODIFIERS",
				Message: "Apply talent, trait, condition and equipment modifiers",
				Data: map[string]any{
					"total":   s.ItemModifier,
					"sources": sourceData(mods.Skills[s.Key]),
				},
			},
			{
				Code:    "CURRENT",
				Message: "Sum into the current value",
				Data:    map[string]any{"current": s.Current},
			},
		},
	}
}

// ExplainArmourLocation lists the terms of one location's armour.
func ExplainArmourLocation(la LocationArmour) Explanation {
	return Explanation{
		Target:       string(la.Location),
		Value:        la.Total,
		RulesVersion: RulesVersion().RulesVersion,
		Steps: []ExplainStep{
			{Code: "TOUGHNESS_BONUS", Message: "Start from toughness bonus", Data: map[string]any{"value": la.ToughnessBonus}},
			{Code: "NATURAL_ARMOUR", Message: "Add the highest natural armour trait", Data: map[string]any{"value": la.TraitBonus}},
			{Code: "CYBERNETICS", Message: "Add equipped cybernetics", Data: map[string]any{"value": la.Cybernetic}},
			{Code: "ARMOUR_ITEM", Message: "Add the best equipped armour covering the location", Data: map[string]any{"value": la.Item, "source": la.ItemSource}},
			{Code: "CRAFTSMANSHIP", Message: "Add the good craftsmanship bonus unless already hit this round", Data: map[string]any{"value": la.Craftsmanship}},
			{Code: "TOTAL", Message: "Sum into the location total", Data: map[string]any{"total": la.Total}},
		},
	}
}

// ArmourLocationLabel returns a display label for a location.
func ArmourLocationLabel(loc record.Location) string {
	switch loc {
	case record.LocationHead:
		return "Head"
	case record.LocationBody:
		return "Body"
	case record.LocationLeftArm:
		return "Left Arm"
	case record.LocationRightArm:
		return "Right Arm"
	case record.LocationLeftLeg:
		return "Left Leg"
	case record.LocationRightLeg:
		return "Right Leg"
	default:
		return string(loc)
	}
}

func sourceData(sources []ModifierSource) []map[string]any {
	out := make([]map[string]any, 0, len(sources))
	for _, s := range sources {
		out = append(out, map[string]any{
			"name":  s.Name,
			"kind":  string(s.Kind),
			"id":    s.ID,
			"value": s.Value,
		})
	}
	return out
}
