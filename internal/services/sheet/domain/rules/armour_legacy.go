package rules

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/louisbranch/voidsheet/internal/services/sheet/domain/record"
)

// LegacyAP is a parsed legacy armour-points value.
type LegacyAP struct {
	Points map[record.Location]int
	// Uniform is set when a single number applies to every location. Such a
	// value needs a coverage description to mean anything.
	Uniform bool
}

// ParseLegacyPoints reads the legacy armour-points text:
//
//	"5"            every location
//	"5/3/2/1"      head/body/arms/legs, arms and legs shared
//	"5/4/3/3/2/2"  head/body/leftArm/rightArm/leftLeg/rightLeg
//
// Slashes and commas both separate values. Percentages, decimals, narrative
// text and any other count are rejected.
func ParseLegacyPoints(text string) (LegacyAP, bool) {
	text = strings.TrimSpace(text)
	if text == "" || strings.Contains(text, "%") {
		return LegacyAP{}, false
	}
	parts := strings.FieldsFunc(text, func(r rune) bool { return r == '/' || r == ',' })
	values := make([]int, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return LegacyAP{}, false
		}
		values = append(values, max(v, 0))
	}

	points := map[record.Location]int{}
	switch len(values) {
	case 1:
		for _, loc := range record.Locations {
			points[loc] = values[0]
		}
		return LegacyAP{Points: points, Uniform: true}, true
	case 4:
		points[record.LocationHead] = values[0]
		points[record.LocationBody] = values[1]
		points[record.LocationLeftArm] = values[2]
		points[record.LocationRightArm] = values[2]
		points[record.LocationLeftLeg] = values[3]
		points[record.LocationRightLeg] = values[3]
	case 6:
		for i, loc := range record.Locations {
			points[loc] = values[i]
		}
	default:
		return LegacyAP{}, false
	}
	return LegacyAP{Points: points}, true
}

// isSpecialLegacyPoints reports values that belong to other subsystems, such
// as force-field percentages, rather than malformed armour points.
func isSpecialLegacyPoints(text string) bool {
	text = strings.TrimSpace(text)
	if strings.Contains(text, "%") {
		return true
	}
	_, err := strconv.ParseFloat(text, 64)
	return err == nil
}

// ParseCoverage maps free-text location names onto a location set. Matching
// is case-insensitive on substrings: head, body|chest|torso, arm, leg. The
// word "all" alone covers everything.
func ParseCoverage(text string) record.LocationSet {
	folded := strings.TrimSpace(cases.Fold().String(text))
	if folded == "" {
		return record.LocationSet{}
	}
	if folded == "all" {
		return record.NewLocationSet(record.LocationAll)
	}
	var set record.LocationSet
	if strings.Contains(folded, "head") {
		set = set.With(record.LocationHead)
	}
	for _, word := range []string{"body", "chest", "torso"} {
		if strings.Contains(folded, word) {
			set = set.With(record.LocationBody)
			break
		}
	}
	if strings.Contains(folded, "arm") {
		set = set.With(record.LocationLeftArm).With(record.LocationRightArm)
	}
	if strings.Contains(folded, "leg") {
		set = set.With(record.LocationLeftLeg).With(record.LocationRightLeg)
	}
	return set
}
