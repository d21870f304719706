package actor

// Skill is the stored part of a skill. Characteristic holds a key or short
// code as authored.
type Skill struct {
	Label          string
	Characteristic string
	Trained        bool
	Plus10         bool
	Plus20         bool
	Bonus          int
	Cost           int
	Advanced       bool
	Entries        []SpecializationEntry
}

// SpecializationEntry is one specialisation of a grouped skill. An empty
// Characteristic inherits the parent's.
type SpecializationEntry struct {
	Name           string
	Characteristic string
	Trained        bool
	Plus10         bool
	Plus20         bool
	Bonus          int
	Cost           int
}

// EntryCharacteristic returns the characteristic reference an entry uses.
func (s Skill) EntryCharacteristic(entry SpecializationEntry) string {
	if entry.Characteristic != "" {
		return entry.Characteristic
	}
	return s.Characteristic
}

// SpentExperience is the entries' total cost when the skill has entries,
// otherwise the skill's own cost.
func (s Skill) SpentExperience() int {
	if len(s.Entries) == 0 {
		return s.Cost
	}
	total := 0
	for _, entry := range s.Entries {
		total += entry.Cost
	}
	return total
}
