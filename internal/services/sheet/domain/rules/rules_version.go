package rules

// RulesMetadata describes the ruleset the resolvers implement.
type RulesMetadata struct {
	System        string    `json:"system"`
	RulesVersion  string    `json:"rulesVersion"`
	BonusFormula  string    `json:"bonusFormula"`
	SkillFormula  string    `json:"skillFormula"`
	ArmourFormula string    `json:"armourFormula"`
	CarryingTable []float64 `json:"carryingTable"`
	NaturalArmour []string  `json:"naturalArmour"`
	CombatKeys    []string  `json:"combatKeys"`
}

// RulesVersion returns the static ruleset metadata.
func RulesVersion() RulesMetadata {
	return RulesMetadata{
		System:        "Voidsheet",
		RulesVersion:  "1.0.0",
		BonusFormula:  "floor(total/10), times unnatural when unnatural >= 2",
		SkillFormula:  "characteristic (halved when untrained) + training + bonus + item",
		ArmourFormula: "TB + natural armour + cybernetics + max(equipped armour) + craftsmanship",
		CarryingTable: append([]float64(nil), CarryingCapacity...),
		NaturalArmour: append([]string(nil), NaturalArmourTraits...),
		CombatKeys:    append([]string(nil), CombatKeys...),
	}
}
