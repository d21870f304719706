// Package actor holds the stored base fields of a character sheet. Nothing in
// this package is derived; resolvers read these values and return their own
// result types.
package actor

// CharacteristicKey identifies one of the ten characteristics.
type CharacteristicKey string

const (
	WeaponSkill    CharacteristicKey = "weaponSkill"
	BallisticSkill CharacteristicKey = "ballisticSkill"
	Strength       CharacteristicKey = "strength"
	Toughness      CharacteristicKey = "toughness"
	Agility        CharacteristicKey = "agility"
	Intelligence   CharacteristicKey = "intelligence"
	Perception     CharacteristicKey = "perception"
	Willpower      CharacteristicKey = "willpower"
	Fellowship     CharacteristicKey = "fellowship"
	Influence      CharacteristicKey = "influence"
)

// CharacteristicKeys lists every characteristic in sheet order.
var CharacteristicKeys = []CharacteristicKey{
	WeaponSkill,
	BallisticSkill,
	Strength,
	Toughness,
	Agility,
	Intelligence,
	Perception,
	Willpower,
	Fellowship,
	Influence,
}

var shortCodes = map[CharacteristicKey]string{
	WeaponSkill:    "WS",
	BallisticSkill: "BS",
	Strength:       "S",
	Toughness:      "T",
	Agility:        "Ag",
	Intelligence:   "Int",
	Perception:     "Per",
	Willpower:      "WP",
	Fellowship:     "Fel",
	Influence:      "Inf",
}

var labels = map[CharacteristicKey]string{
	WeaponSkill:    "Weapon Skill",
	BallisticSkill: "Ballistic Skill",
	Strength:       "Strength",
	Toughness:      "Toughness",
	Agility:        "Agility",
	Intelligence:   "Intelligence",
	Perception:     "Perception",
	Willpower:      "Willpower",
	Fellowship:     "Fellowship",
	Influence:      "Influence",
}

var byShortCode = func() map[string]CharacteristicKey {
	m := make(map[string]CharacteristicKey, len(shortCodes))
	for key, code := range shortCodes {
		m[code] = key
	}
	return m
}()

// Short returns the short code (WS, BS, ...) or "" for unknown keys.
func (k CharacteristicKey) Short() string {
	return shortCodes[k]
}

// Label returns the display label or "" for unknown keys.
func (k CharacteristicKey) Label() string {
	return labels[k]
}

// Valid reports whether k is one of the known characteristics.
func (k CharacteristicKey) Valid() bool {
	_, ok := shortCodes[k]
	return ok
}

// LookupCharacteristic resolves a key or a short code as authored. Matching is
// case-sensitive.
func LookupCharacteristic(name string) (CharacteristicKey, bool) {
	key := CharacteristicKey(name)
	if key.Valid() {
		return key, true
	}
	key, ok := byShortCode[name]
	return key, ok
}

// Characteristic is the stored part of a characteristic.
type Characteristic struct {
	Label    string
	Short    string
	Base     int
	Advance  int
	Modifier int
	// Unnatural is the multiplier level; 0 and 1 mean none.
	Unnatural int
	// Cost is the experience spent on advances.
	Cost int
}

// NewCharacteristic returns a characteristic labelled for key.
func NewCharacteristic(key CharacteristicKey, base int) Characteristic {
	return Characteristic{
		Label: key.Label(),
		Short: key.Short(),
		Base:  base,
	}
}
