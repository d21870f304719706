package rules

import "github.com/louisbranch/voidsheet/internal/services/sheet/domain/actor"

// Horde states.
const (
	HordeActive    = "active"
	HordeDestroyed = "destroyed"
)

// HordeResult is the resolved magnitude of a horde.
type HordeResult struct {
	Enabled          bool    `json:"enabled"`
	Current          int     `json:"current"`
	Max              int     `json:"max"`
	MagnitudePercent float64 `json:"magnitudePercent"`
	DamageMultiplier float64 `json:"damageMultiplier"`
	SizeModifier     int     `json:"sizeModifier"`
	State            string  `json:"state,omitempty"`
}

// ClampMagnitude bounds a magnitude to [0, max].
func ClampMagnitude(current, maximum int) int {
	return clampInt(current, 0, max(maximum, 0))
}

// ResolveHorde derives the damage multiplier and size modifier. A disabled
// horde resolves to its zero value.
//
//	damageMultiplier = max(0.5, ceil(percent*10)/2)
//	sizeModifier     = floor(percent*3)
//
// Both are computed on integers to avoid float drift at tenths.
func ResolveHorde(h actor.Horde) HordeResult {
	if !h.Enabled {
		return HordeResult{}
	}
	current := ClampMagnitude(h.Current, h.Max)
	out := HordeResult{
		Enabled:          true,
		Current:          current,
		Max:              h.Max,
		DamageMultiplier: 0.5,
		State:            HordeDestroyed,
	}
	if current > 0 {
		out.State = HordeActive
	}
	if h.Max <= 0 {
		return out
	}
	out.MagnitudePercent = float64(current) / float64(h.Max)
	tenths := (current*10 + h.Max - 1) / h.Max
	out.DamageMultiplier = max(0.5, float64(tenths)/2)
	out.SizeModifier = current * 3 / h.Max
	return out
}
