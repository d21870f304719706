// Package rules holds the derived-attribute resolvers. Every resolver is a
// pure function of its arguments: no resolver mutates its inputs, returns an
// error or panics on malformed data.
package rules

import (
	"fmt"

	"github.com/louisbranch/voidsheet/internal/services/sheet/domain/actor"
)

// CharacteristicResult is a resolved characteristic.
type CharacteristicResult struct {
	Key                actor.CharacteristicKey `json:"key"`
	Label              string                  `json:"label"`
	Short              string                  `json:"short"`
	Base               int                     `json:"base"`
	Advance            int                     `json:"advance"`
	Modifier           int                     `json:"modifier"`
	Unnatural          int                     `json:"unnatural"`
	OriginPathModifier int                     `json:"originPathModifier"`
	ItemModifier       int                     `json:"itemModifier"`
	Total              int                     `json:"total"`
	Bonus              int                     `json:"bonus"`
}

// Characteristics maps each key to its resolved value.
type Characteristics map[actor.CharacteristicKey]CharacteristicResult

// Lookup resolves a key or short code.
func (c Characteristics) Lookup(name string) (CharacteristicResult, bool) {
	key, ok := actor.LookupCharacteristic(name)
	if !ok {
		return CharacteristicResult{}, false
	}
	result, ok := c[key]
	return result, ok
}

// Total returns the total for a key or short code, or 0 when unknown.
func (c Characteristics) Total(name string) int {
	result, _ := c.Lookup(name)
	return result.Total
}

// Bonus returns the bonus for a key or short code, or 0 when unknown.
func (c Characteristics) Bonus(name string) int {
	result, _ := c.Lookup(name)
	return result.Bonus
}

// ResolveCharacteristic computes total and bonus:
//
//	total = base + advance*5 + modifier + originMod + itemMod
//	bonus = floor(total/10), times unnatural when unnatural >= 2
func ResolveCharacteristic(key actor.CharacteristicKey, c actor.Characteristic, originMod, itemMod int) CharacteristicResult {
	total := c.Base + c.Advance*5 + c.Modifier + originMod + itemMod
	bonus := floorDiv(total, 10)
	if c.Unnatural >= 2 {
		bonus *= c.Unnatural
	}
	label, short := c.Label, c.Short
	if label == "" {
		label = key.Label()
	}
	if short == "" {
		short = key.Short()
	}
	return CharacteristicResult{
		Key:                key,
		Label:              label,
		Short:              short,
		Base:               c.Base,
		Advance:            c.Advance,
		Modifier:           c.Modifier,
		Unnatural:          c.Unnatural,
		OriginPathModifier: originMod,
		ItemModifier:       itemMod,
		Total:              total,
		Bonus:              bonus,
	}
}

// ResolveCharacteristics resolves every stored characteristic. Nil modifier
// maps mean no modifiers (Stage 1).
func ResolveCharacteristics(stored map[actor.CharacteristicKey]actor.Characteristic, origin, items map[actor.CharacteristicKey]int) Characteristics {
	out := make(Characteristics, len(stored))
	for key, c := range stored {
		out[key] = ResolveCharacteristic(key, c, origin[key], items[key])
	}
	return out
}

// InitiativeResult is the resolved initiative.
type InitiativeResult struct {
	Characteristic string `json:"characteristic"`
	Bonus          int    `json:"bonus"`
	Base           int    `json:"base"`
	Modifier       int    `json:"modifier"`
	Formula        string `json:"formula"`
}

// ResolveInitiative copies the bonus of the configured characteristic.
// An unknown characteristic yields a bonus of 0.
func ResolveInitiative(name string, base int, chars Characteristics, modifier int) InitiativeResult {
	bonus := chars.Bonus(name)
	return InitiativeResult{
		Characteristic: name,
		Bonus:          bonus,
		Base:           base,
		Modifier:       modifier,
		Formula:        fmt.Sprintf("1d10+%d", bonus+base+modifier),
	}
}
