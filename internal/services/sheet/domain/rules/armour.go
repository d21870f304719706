package rules

import (
	"slices"

	"github.com/louisbranch/voidsheet/internal/services/sheet/domain/record"
)

// NaturalArmourTraits are the trait names whose level adds to every location.
// Matching is exact and case-sensitive.
var NaturalArmourTraits = []string{"Machine", "Natural Armour", "Natural Armor"}

// Armour sources reported per location.
const (
	ArmourFormatModern = "modern"
	ArmourFormatLegacy = "legacy"
	ArmourFormatNone   = "none"
)

// ArmourInput carries everything the armour resolver reads. AlreadyHit is the
// round-scoped combat flag; it is an argument so the resolver stays pure.
type ArmourInput struct {
	ToughnessBonus int
	Records        []record.Record
	AlreadyHit     bool
}

// LocationArmour is the resolved armour at one body location.
type LocationArmour struct {
	Location       record.Location `json:"location"`
	ToughnessBonus int             `json:"toughnessBonus"`
	TraitBonus     int             `json:"traitBonus"`
	Cybernetic     int             `json:"cybernetic"`
	Item           int             `json:"item"`
	ItemSource     string          `json:"itemSource,omitempty"`
	Craftsmanship  int             `json:"craftsmanship"`
	Total          int             `json:"total"`
}

// Armour is the resolved armour for every location in sheet order.
type Armour struct {
	Locations   []LocationArmour `json:"locations"`
	Diagnostics []Diagnostic     `json:"diagnostics,omitempty"`
}

// At returns the armour at loc, or the zero value when loc is unknown.
func (a Armour) At(loc record.Location) LocationArmour {
	for _, l := range a.Locations {
		if l.Location == loc {
			return l
		}
	}
	return LocationArmour{Location: loc}
}

// ItemArmour is the armour one record provides per location.
type ItemArmour struct {
	Format string                  `json:"format"`
	Points map[record.Location]int `json:"points,omitempty"`
}

// At returns the points at loc.
func (i ItemArmour) At(loc record.Location) int {
	return i.Points[loc]
}

// ResolveArmour computes every location:
//
//	toughnessBonus + traitBonus + cybernetic + max(equipped armour) + craftsmanship
//
// Equipped armour takes the maximum over items, never the sum.
func ResolveArmour(in ArmourInput) Armour {
	var out Armour
	trait := NaturalArmourBonus(in.Records)
	craft := 0
	if !in.AlreadyHit && hasGoodArmour(in.Records) {
		craft = 1
	}

	var cybernetics, armours []ItemArmour
	var armourNames []string
	for _, r := range in.Records {
		if !r.Equipped {
			continue
		}
		switch r.Kind {
		case record.KindCybernetic:
			item, diags := ItemAP(r)
			cybernetics = append(cybernetics, item)
			out.Diagnostics = append(out.Diagnostics, diags...)
		case record.KindArmour:
			item, diags := ItemAP(r)
			armours = append(armours, item)
			armourNames = append(armourNames, r.Name)
			out.Diagnostics = append(out.Diagnostics, diags...)
		}
	}

	for _, loc := range record.Locations {
		la := LocationArmour{
			Location:       loc,
			ToughnessBonus: in.ToughnessBonus,
			TraitBonus:     trait,
			Craftsmanship:  craft,
		}
		for _, item := range cybernetics {
			la.Cybernetic += item.At(loc)
		}
		for i, item := range armours {
			if ap := item.At(loc); ap > la.Item {
				la.Item = ap
				la.ItemSource = armourNames[i]
			}
		}
		la.Total = la.ToughnessBonus + la.TraitBonus + la.Cybernetic + la.Item + la.Craftsmanship
		out.Locations = append(out.Locations, la)
	}
	return out
}

// NaturalArmourBonus is the highest level among owned natural-armour traits.
func NaturalArmourBonus(records []record.Record) int {
	best := 0
	for _, r := range records {
		if r.Kind != record.KindTrait || !slices.Contains(NaturalArmourTraits, r.Name) {
			continue
		}
		best = max(best, r.Level)
	}
	return best
}

// CyberneticAP sums the armour of equipped cybernetics at loc.
func CyberneticAP(records []record.Record, loc record.Location) int {
	total := 0
	for _, r := range records {
		if r.Kind != record.KindCybernetic || !r.Equipped {
			continue
		}
		item, _ := ItemAP(r)
		total += item.At(loc)
	}
	return total
}

// The good-craftsmanship bonus applies to every location as soon as one
// equipped good item exists, whatever that item covers.
func hasGoodArmour(records []record.Record) bool {
	for _, r := range records {
		if r.Kind == record.KindArmour && r.Equipped && r.Craftsmanship == record.CraftsmanshipGood {
			return true
		}
	}
	return false
}

// ItemAP resolves the armour an item provides, trying the per-location map
// first, then the legacy text fields, then nothing.
func ItemAP(r record.Record) (ItemArmour, []Diagnostic) {
	if r.Armour == nil {
		return ItemArmour{Format: ArmourFormatNone}, nil
	}
	diags := unknownLocationDiagnostics(r)
	if item, ok := modernItemAP(r); ok {
		return item, diags
	}
	item, legacy := legacyItemAP(r)
	return item, append(diags, legacy...)
}

func unknownLocationDiagnostics(r record.Record) []Diagnostic {
	var diags []Diagnostic
	for _, name := range r.Armour.UnknownLocations {
		diags = append(diags, diagnosticFor(r, DiagnosticUnknownLocation, name, suggest(name, locationNames())))
	}
	return diags
}

func locationNames() []string {
	names := make([]string, 0, len(record.Locations)+1)
	for _, loc := range record.Locations {
		names = append(names, string(loc))
	}
	return append(names, string(record.LocationAll))
}

func modernItemAP(r record.Record) (ItemArmour, bool) {
	points := r.Armour.Points
	positive := false
	for _, v := range points {
		if v > 0 {
			positive = true
			break
		}
	}
	if !positive {
		return ItemArmour{}, false
	}

	coverage := r.Armour.Coverage
	if coverage.Empty() {
		for _, loc := range record.Locations {
			if points[loc] > 0 {
				coverage = coverage.With(loc)
			}
		}
	}
	bonus := 0
	if r.Craftsmanship == record.CraftsmanshipBest {
		bonus = 1
	}

	item := ItemArmour{Format: ArmourFormatModern, Points: map[record.Location]int{}}
	for _, loc := range record.Locations {
		if !coverage.Covers(loc) {
			continue
		}
		item.Points[loc] = max(points[loc], 0) + bonus
	}
	return item, true
}

func legacyItemAP(r record.Record) (ItemArmour, []Diagnostic) {
	none := ItemArmour{Format: ArmourFormatNone}
	if r.Armour.LegacyPoints == "" {
		return none, nil
	}
	ap, ok := ParseLegacyPoints(r.Armour.LegacyPoints)
	if !ok {
		if isSpecialLegacyPoints(r.Armour.LegacyPoints) {
			return none, nil
		}
		return none, []Diagnostic{diagnosticFor(r, DiagnosticUnparsedArmourPoints, r.Armour.LegacyPoints, "")}
	}

	coverage := ParseCoverage(r.Armour.LegacyLocations)
	if coverage.Empty() {
		if ap.Uniform {
			return none, []Diagnostic{diagnosticFor(r, DiagnosticNoArmourCoverage, r.Armour.LegacyLocations, "")}
		}
		// A multi-value string names its own locations.
		for _, loc := range record.Locations {
			if ap.Points[loc] > 0 {
				coverage = coverage.With(loc)
			}
		}
	}

	item := ItemArmour{Format: ArmourFormatLegacy, Points: map[record.Location]int{}}
	for _, loc := range record.Locations {
		if coverage.Covers(loc) {
			item.Points[loc] = ap.Points[loc]
		}
	}
	return item, nil
}
