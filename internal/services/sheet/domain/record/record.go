// Package record models the owned records of an actor (equipment, talents,
// traits, conditions, origin-path steps) and their storage boundary.
package record

// Kind is the record variant tag.
type Kind string

const (
	KindWeapon          Kind = "weapon"
	KindArmour          Kind = "armour"
	KindTalent          Kind = "talent"
	KindTrait           Kind = "trait"
	KindCondition       Kind = "condition"
	KindCybernetic      Kind = "cybernetic"
	KindGear            Kind = "gear"
	KindOriginPath      Kind = "originPath"
	KindPsychicPower    Kind = "psychicPower"
	KindStorageLocation Kind = "storageLocation"
)

// Craftsmanship is an item quality tier.
type Craftsmanship string

const (
	CraftsmanshipPoor   Craftsmanship = "poor"
	CraftsmanshipCommon Craftsmanship = "common"
	CraftsmanshipGood   Craftsmanship = "good"
	CraftsmanshipBest   Craftsmanship = "best"
)

// Modifiers is the optional modifier substructure a record may carry.
// Wounds and Fate are the origin-path grant fields; Resources holds the
// generic resource modifiers.
type Modifiers struct {
	Characteristics map[string]int
	Skills          map[string]int
	Combat          map[string]int
	Resources       map[string]int
	Wounds          int
	Fate            int
}

// Empty reports whether m carries no non-zero value.
func (m *Modifiers) Empty() bool {
	if m == nil {
		return true
	}
	for _, values := range []map[string]int{m.Characteristics, m.Skills, m.Combat, m.Resources} {
		for _, v := range values {
			if v != 0 {
				return false
			}
		}
	}
	return m.Wounds == 0 && m.Fate == 0
}

// ArmourData holds the armour-point data of armour and cybernetic records.
// Points and Coverage are the modern format; LegacyPoints and LegacyLocations
// keep older free-text values as authored. UnknownLocations collects modern
// point keys and coverage entries that name no body location.
type ArmourData struct {
	Points           map[Location]int
	Coverage         LocationSet
	LegacyPoints     string
	LegacyLocations  string
	UnknownLocations []string
}

// Record is one owned record. Kind selects which fields are meaningful.
type Record struct {
	ID            string
	Name          string
	Kind          Kind
	Equipped      bool
	Modifiers     *Modifiers
	Weight        float64
	Quantity      int
	InBackpack    bool
	InShipStorage bool
	Craftsmanship Craftsmanship
	// Cost is the experience cost of talents and psychic powers.
	Cost int
	// Level is the rating of traits such as Natural Armour (X).
	Level      int
	Aptitudes  []string
	Armour     *ArmourData
	OriginStep string
}

// Contributor is implemented by anything that can feed the generic modifier
// buckets.
type Contributor interface {
	Contribution() (*Modifiers, bool)
}

// Contribution returns the record's modifiers when it takes part in generic
// aggregation: every talent, trait and condition, plus equipped armour,
// cybernetics and gear. Origin-path steps never contribute here; their grants
// are read through the origin-path accessor instead.
func (r Record) Contribution() (*Modifiers, bool) {
	if r.Kind == KindOriginPath || r.Modifiers == nil {
		return nil, false
	}
	switch r.Kind {
	case KindTalent, KindTrait, KindCondition:
		return r.Modifiers, true
	case KindArmour, KindCybernetic, KindGear:
		if r.Equipped {
			return r.Modifiers, true
		}
	}
	return nil, false
}

// TotalWeight is weight times quantity. A zero quantity counts as one item.
func (r Record) TotalWeight() float64 {
	quantity := r.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	return r.Weight * float64(quantity)
}

// Carried reports whether the record counts toward carried weight.
func (r Record) Carried() bool {
	return r.Kind != KindStorageLocation && !r.InShipStorage
}

var _ Contributor = Record{}

// Collection is the read-only set of owned records. The zero value is not
// loaded; Stage 2 of the pipeline refuses to run on it.
type Collection struct {
	records []Record
	loaded  bool
}

// NewCollection returns a loaded collection over a copy of records.
func NewCollection(records ...Record) Collection {
	copied := make([]Record, len(records))
	copy(copied, records)
	return Collection{records: copied, loaded: true}
}

// Loaded reports whether the host confirmed the records are populated.
func (c Collection) Loaded() bool {
	return c.loaded
}

// Len returns the number of records.
func (c Collection) Len() int {
	return len(c.records)
}

// All returns a copy of the records in their stored order.
func (c Collection) All() []Record {
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

// OfKind returns the records of the given kind, in order.
func (c Collection) OfKind(kind Kind) []Record {
	var out []Record
	for _, r := range c.records {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

// Equipped returns the equipped records of the given kind, in order.
func (c Collection) Equipped(kind Kind) []Record {
	var out []Record
	for _, r := range c.records {
		if r.Kind == kind && r.Equipped {
			out = append(out, r)
		}
	}
	return out
}
