package record

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// ModifiersDocument is the persisted shape of Modifiers.
type ModifiersDocument struct {
	Characteristics map[string]Scalar `yaml:"characteristics,omitempty" json:"characteristics,omitempty"`
	Skills          map[string]Scalar `yaml:"skills,omitempty" json:"skills,omitempty"`
	Combat          map[string]Scalar `yaml:"combat,omitempty" json:"combat,omitempty"`
	Resources       map[string]Scalar `yaml:"resources,omitempty" json:"resources,omitempty"`
	Wounds          Scalar            `yaml:"wounds,omitempty" json:"wounds,omitempty"`
	Fate            Scalar            `yaml:"fate,omitempty" json:"fate,omitempty"`
}

// Document is the persisted shape of a record, including every legacy field
// the pipeline still reads.
type Document struct {
	ID            string             `yaml:"id,omitempty" json:"id,omitempty"`
	Name          string             `yaml:"name" json:"name"`
	Type          string             `yaml:"type" json:"type"`
	Equipped      bool               `yaml:"equipped,omitempty" json:"equipped,omitempty"`
	OriginPath    bool               `yaml:"isOriginPath,omitempty" json:"isOriginPath,omitempty"`
	Step          string             `yaml:"step,omitempty" json:"step,omitempty"`
	Modifiers     *ModifiersDocument `yaml:"modifiers,omitempty" json:"modifiers,omitempty"`
	Weight        Scalar             `yaml:"weight,omitempty" json:"weight,omitempty"`
	Quantity      Scalar             `yaml:"quantity,omitempty" json:"quantity,omitempty"`
	InBackpack    bool               `yaml:"inBackpack,omitempty" json:"inBackpack,omitempty"`
	InShipStorage bool               `yaml:"inShipStorage,omitempty" json:"inShipStorage,omitempty"`
	Craftsmanship string             `yaml:"craftsmanship,omitempty" json:"craftsmanship,omitempty"`
	Cost          Scalar             `yaml:"cost,omitempty" json:"cost,omitempty"`
	Level         Scalar             `yaml:"level,omitempty" json:"level,omitempty"`
	Aptitudes     []string           `yaml:"aptitudes,omitempty" json:"aptitudes,omitempty"`
	Description   string             `yaml:"description,omitempty" json:"description,omitempty"`
	ArmourPoints  map[string]Scalar  `yaml:"armourPoints,omitempty" json:"armourPoints,omitempty"`
	Coverage      []string           `yaml:"coverage,omitempty" json:"coverage,omitempty"`
	AP            Scalar             `yaml:"ap,omitempty" json:"ap,omitempty"`
	Locations     string             `yaml:"locations,omitempty" json:"locations,omitempty"`
}

// ParseKind maps a stored type label to a Kind. Unknown labels are kept as
// authored and never contribute to any resolver.
func ParseKind(value string) Kind {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "weapon":
		return KindWeapon
	case "armour", "armor":
		return KindArmour
	case "talent":
		return KindTalent
	case "trait":
		return KindTrait
	case "condition":
		return KindCondition
	case "cybernetic":
		return KindCybernetic
	case "gear":
		return KindGear
	case "originpath", "origin-path", "origin":
		return KindOriginPath
	case "psychicpower", "psychic-power", "power":
		return KindPsychicPower
	case "storagelocation", "storage-location":
		return KindStorageLocation
	default:
		return Kind(value)
	}
}

// ParseCraftsmanship normalises a craftsmanship label; unknown means common.
func ParseCraftsmanship(value string) Craftsmanship {
	switch c := Craftsmanship(strings.ToLower(strings.TrimSpace(value))); c {
	case CraftsmanshipPoor, CraftsmanshipGood, CraftsmanshipBest:
		return c
	default:
		return CraftsmanshipCommon
	}
}

// FromStorage converts a persisted document into a record. It never fails:
// unparseable numbers become 0 and missing substructures stay nil.
func FromStorage(doc Document) Record {
	kind := ParseKind(doc.Type)
	if doc.OriginPath {
		kind = KindOriginPath
	}
	r := Record{
		ID:            doc.ID,
		Name:          doc.Name,
		Kind:          kind,
		Equipped:      doc.Equipped,
		Modifiers:     modifiersFromStorage(doc.Modifiers),
		Weight:        ParseWeight(string(doc.Weight)),
		Quantity:      doc.Quantity.IntOr(1),
		InBackpack:    doc.InBackpack,
		InShipStorage: doc.InShipStorage,
		Craftsmanship: ParseCraftsmanship(doc.Craftsmanship),
		Cost:          doc.Cost.Int(),
		Level:         doc.Level.Int(),
		Aptitudes:     slices.Clone(doc.Aptitudes),
		OriginStep:    doc.Step,
	}
	if len(r.Aptitudes) == 0 {
		r.Aptitudes = ParseAptitudes(doc.Description)
	}
	if kind == KindArmour || kind == KindCybernetic || len(doc.ArmourPoints) > 0 || doc.AP != "" {
		r.Armour = armourFromStorage(doc)
	}
	return r
}

// ToStorage converts a record back to its persisted document. Legacy armour
// fields are written back as read; they are never synthesised.
func ToStorage(r Record) Document {
	doc := Document{
		ID:            r.ID,
		Name:          r.Name,
		Type:          string(r.Kind),
		Equipped:      r.Equipped,
		Step:          r.OriginStep,
		Modifiers:     modifiersToStorage(r.Modifiers),
		InBackpack:    r.InBackpack,
		InShipStorage: r.InShipStorage,
		Aptitudes:     slices.Clone(r.Aptitudes),
	}
	if r.Weight != 0 {
		doc.Weight = Scalar(strconv.FormatFloat(r.Weight, 'f', -1, 64))
	}
	if r.Quantity != 0 {
		doc.Quantity = Scalar(strconv.Itoa(r.Quantity))
	}
	if r.Craftsmanship != "" && r.Craftsmanship != CraftsmanshipCommon {
		doc.Craftsmanship = string(r.Craftsmanship)
	}
	if r.Cost != 0 {
		doc.Cost = Scalar(strconv.Itoa(r.Cost))
	}
	if r.Level != 0 {
		doc.Level = Scalar(strconv.Itoa(r.Level))
	}
	if a := r.Armour; a != nil {
		if len(a.Points) > 0 {
			doc.ArmourPoints = make(map[string]Scalar, len(a.Points))
			for _, l := range slices.Sorted(maps.Keys(a.Points)) {
				doc.ArmourPoints[string(l)] = Scalar(strconv.Itoa(a.Points[l]))
			}
		}
		if !a.Coverage.Empty() {
			doc.Coverage = LocationSetToStorage(a.Coverage)
		}
		doc.AP = Scalar(a.LegacyPoints)
		doc.Locations = a.LegacyLocations
	}
	return doc
}

func armourFromStorage(doc Document) *ArmourData {
	coverage, unknown := ParseLocationList(doc.Coverage)
	a := &ArmourData{
		Coverage:         coverage,
		LegacyPoints:     strings.TrimSpace(string(doc.AP)),
		LegacyLocations:  strings.TrimSpace(doc.Locations),
		UnknownLocations: unknown,
	}
	if len(doc.ArmourPoints) > 0 {
		a.Points = make(map[Location]int, len(doc.ArmourPoints))
		// Sorted keys keep the result stable when two spellings of one
		// location are authored; the higher value wins.
		for _, key := range slices.Sorted(maps.Keys(doc.ArmourPoints)) {
			loc, ok := ParseLocation(key)
			if !ok {
				a.UnknownLocations = append(a.UnknownLocations, key)
				continue
			}
			if v := doc.ArmourPoints[key].Int(); v > a.Points[loc] {
				a.Points[loc] = v
			} else if _, seen := a.Points[loc]; !seen {
				a.Points[loc] = v
			}
		}
	}
	return a
}

func modifiersFromStorage(doc *ModifiersDocument) *Modifiers {
	if doc == nil {
		return nil
	}
	return &Modifiers{
		Characteristics: numericOnly(doc.Characteristics),
		Skills:          numericOnly(doc.Skills),
		Combat:          numericOnly(doc.Combat),
		Resources:       numericOnly(doc.Resources),
		Wounds:          doc.Wounds.Int(),
		Fate:            doc.Fate.Int(),
	}
}

func modifiersToStorage(m *Modifiers) *ModifiersDocument {
	if m == nil {
		return nil
	}
	doc := &ModifiersDocument{
		Characteristics: toScalars(m.Characteristics),
		Skills:          toScalars(m.Skills),
		Combat:          toScalars(m.Combat),
		Resources:       toScalars(m.Resources),
	}
	if m.Wounds != 0 {
		doc.Wounds = Scalar(strconv.Itoa(m.Wounds))
	}
	if m.Fate != 0 {
		doc.Fate = Scalar(strconv.Itoa(m.Fate))
	}
	return doc
}

// numericOnly keeps the integral entries; anything else counts as "no
// modifier" for that key.
func numericOnly(values map[string]Scalar) map[string]int {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]int, len(values))
	for key, value := range values {
		if v, ok := value.IntOK(); ok {
			out[key] = v
		}
	}
	return out
}

func toScalars(values map[string]int) map[string]Scalar {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]Scalar, len(values))
	for key, value := range values {
		out[key] = Scalar(strconv.Itoa(value))
	}
	return out
}
