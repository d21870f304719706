package record

import (
	"slices"
	"strings"
)

// Location is a body hit location.
type Location string

const (
	LocationHead     Location = "head"
	LocationBody     Location = "body"
	LocationLeftArm  Location = "leftArm"
	LocationRightArm Location = "rightArm"
	LocationLeftLeg  Location = "leftLeg"
	LocationRightLeg Location = "rightLeg"
)

// LocationAll is the coverage marker for every location.
const LocationAll Location = "all"

// Locations lists the body locations in sheet order.
var Locations = []Location{
	LocationHead,
	LocationBody,
	LocationLeftArm,
	LocationRightArm,
	LocationLeftLeg,
	LocationRightLeg,
}

// ParseLocation matches a location name ignoring case.
func ParseLocation(name string) (Location, bool) {
	name = strings.TrimSpace(name)
	for _, l := range Locations {
		if strings.EqualFold(string(l), name) {
			return l, true
		}
	}
	return "", false
}

// ParseCoverageLocation is ParseLocation that also accepts "all".
func ParseCoverageLocation(name string) (Location, bool) {
	if strings.EqualFold(strings.TrimSpace(name), string(LocationAll)) {
		return LocationAll, true
	}
	return ParseLocation(name)
}

func locationRank(l Location) int {
	if l == LocationAll {
		return -1
	}
	if i := slices.Index(Locations, l); i >= 0 {
		return i
	}
	return len(Locations)
}

// LocationSet is an ordered, duplicate-free set of locations.
type LocationSet struct {
	items []Location
}

// NewLocationSet builds a set from locations in any order.
func NewLocationSet(locations ...Location) LocationSet {
	var s LocationSet
	for _, l := range locations {
		s = s.With(l)
	}
	return s
}

// With returns a copy of s including l.
func (s LocationSet) With(l Location) LocationSet {
	if l == "" || slices.Contains(s.items, l) {
		return s
	}
	items := append(slices.Clone(s.items), l)
	slices.SortStableFunc(items, func(a, b Location) int {
		if ra, rb := locationRank(a), locationRank(b); ra != rb {
			return ra - rb
		}
		return strings.Compare(string(a), string(b))
	})
	return LocationSet{items: items}
}

// Covers reports whether l is in the set, directly or through "all".
func (s LocationSet) Covers(l Location) bool {
	return slices.Contains(s.items, LocationAll) || slices.Contains(s.items, l)
}

// Empty reports whether the set has no member.
func (s LocationSet) Empty() bool {
	return len(s.items) == 0
}

// Items returns the members in sheet order.
func (s LocationSet) Items() []Location {
	return slices.Clone(s.items)
}

// LocationSetToStorage converts a set to its persisted list form.
func LocationSetToStorage(s LocationSet) []string {
	out := make([]string, 0, len(s.items))
	for _, l := range s.items {
		out = append(out, string(l))
	}
	return out
}

// LocationSetFromStorage converts a persisted list into a set. Names match
// ignoring case; blank and unknown entries are dropped.
func LocationSetFromStorage(values []string) LocationSet {
	s, _ := ParseLocationList(values)
	return s
}

// ParseLocationList normalises authored location names into a set and
// returns the non-blank names that match no location.
func ParseLocationList(values []string) (LocationSet, []string) {
	var (
		s       LocationSet
		unknown []string
	)
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		l, ok := ParseCoverageLocation(v)
		if !ok {
			unknown = append(unknown, v)
			continue
		}
		s = s.With(l)
	}
	return s, unknown
}
