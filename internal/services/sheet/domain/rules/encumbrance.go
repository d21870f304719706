package rules

import (
	"github.com/louisbranch/voidsheet/internal/services/sheet/domain/actor"
	"github.com/louisbranch/voidsheet/internal/services/sheet/domain/record"
)

// CarryingCapacity maps SB+TB to a maximum carried weight in kilograms.
var CarryingCapacity = []float64{
	0.9, 2.25, 4.5, 9, 18, 27, 36, 45, 56, 67, 78,
	90, 112, 225, 337, 450, 675, 900, 1350, 1800, 2250,
}

// EncumbranceInput carries everything the encumbrance resolver reads.
type EncumbranceInput struct {
	StrengthBonus  int
	ToughnessBonus int
	Records        []record.Record
	Backpack       actor.Backpack
}

// BackpackLoad is the backpack sub-ledger.
type BackpackLoad struct {
	Equipped   bool    `json:"equipped"`
	CombatVest bool    `json:"combatVest"`
	Value      float64 `json:"value"`
	Max        float64 `json:"max"`
	Encumbered bool    `json:"encumbered"`
}

// Encumbrance is the resolved carried weight.
type Encumbrance struct {
	AttributeBonus int          `json:"attributeBonus"`
	Max            float64      `json:"max"`
	Value          float64      `json:"value"`
	Encumbered     bool         `json:"encumbered"`
	Backpack       BackpackLoad `json:"backpack"`
}

// CarryingMax returns the capacity for SB+TB, clamped to the table.
func CarryingMax(strengthBonus, toughnessBonus int) (int, float64) {
	idx := clampInt(strengthBonus+toughnessBonus, 0, len(CarryingCapacity)-1)
	return idx, CarryingCapacity[idx]
}

// ResolveEncumbrance sums carried weight. Storage containers and items in
// ship storage never count. With an equipped backpack, items flagged as in
// the backpack go to the backpack ledger; a combat vest folds that weight
// back into the carried total. Reported weights are rounded to two decimals;
// the comparisons use the unrounded sums at gram resolution.
func ResolveEncumbrance(in EncumbranceInput) Encumbrance {
	idx, capacity := CarryingMax(in.StrengthBonus, in.ToughnessBonus)
	current, pack := 0.0, 0.0
	for _, r := range in.Records {
		if !r.Carried() {
			continue
		}
		if in.Backpack.Equipped && r.InBackpack {
			pack += r.TotalWeight()
			continue
		}
		current += r.TotalWeight()
	}
	if in.Backpack.Equipped && in.Backpack.CombatVest {
		current += pack
	}
	return Encumbrance{
		AttributeBonus: idx,
		Max:            capacity,
		Value:          roundTo(current, 2),
		Encumbered:     exceedsWeight(current, capacity),
		Backpack: BackpackLoad{
			Equipped:   in.Backpack.Equipped,
			CombatVest: in.Backpack.CombatVest,
			Value:      roundTo(pack, 2),
			Max:        in.Backpack.Max,
			Encumbered: in.Backpack.Equipped && exceedsWeight(pack, in.Backpack.Max),
		},
	}
}
