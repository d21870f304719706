package rules

import (
	"github.com/agnivade/levenshtein"
)

// Diagnostic codes reported for data the resolvers had to ignore.
const (
	DiagnosticUnknownCharacteristic = "UNKNOWN_CHARACTERISTIC"
	DiagnosticUnknownSkill          = "UNKNOWN_SKILL"
	DiagnosticUnknownCombatKey      = "UNKNOWN_COMBAT_KEY"
	DiagnosticUnknownResource       = "UNKNOWN_RESOURCE"
	DiagnosticUnparsedArmourPoints  = "UNPARSED_ARMOUR_POINTS"
	DiagnosticNoArmourCoverage      = "NO_ARMOUR_COVERAGE"
	DiagnosticUnknownLocation       = "UNKNOWN_LOCATION"
)

// Diagnostic describes a malformed value that degraded to its default.
type Diagnostic struct {
	Code       string `json:"code"`
	RecordID   string `json:"recordId,omitempty"`
	RecordName string `json:"recordName,omitempty"`
	Key        string `json:"key,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// suggest returns the closest candidate within an edit distance scaled to the
// name's length, or "".
func suggest(name string, candidates []string) string {
	best := ""
	bestDist := suggestLimit(len(name)) + 1
	for _, candidate := range candidates {
		dist := levenshtein.ComputeDistance(name, candidate)
		if dist < bestDist {
			best, bestDist = candidate, dist
		}
	}
	return best
}

func suggestLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
