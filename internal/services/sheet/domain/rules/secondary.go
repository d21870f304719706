package rules

import (
	"math"

	"github.com/louisbranch/voidsheet/internal/services/sheet/domain/actor"
)

// Movement is the resolved movement in metres per action.
type Movement struct {
	Base   int `json:"base"`
	Half   int `json:"half"`
	Full   int `json:"full"`
	Charge int `json:"charge"`
	Run    int `json:"run"`
}

// ResolveMovement uses agility bonus plus size, where size 4 is average.
func ResolveMovement(agilityBonus, size int) Movement {
	base := agilityBonus + size - actor.DefaultSize
	return Movement{
		Base:   base,
		Half:   base,
		Full:   base * 2,
		Charge: base * 3,
		Run:    base * 6,
	}
}

// Lift holds the strength-derived leap and load values.
type Lift struct {
	VerticalLeap   float64 `json:"verticalLeap"`
	HorizontalLeap int     `json:"horizontalLeap"`
	JumpHeight     int     `json:"jumpHeight"`
	Lift           float64 `json:"lift"`
	Carry          float64 `json:"carry"`
	Push           float64 `json:"push"`
}

// ResolveLift computes leap and load values from strength bonus. The vertical
// leap rounds up to the nearest half unit.
func ResolveLift(strengthBonus int) Lift {
	sb := float64(strengthBonus)
	return Lift{
		VerticalLeap:   math.Ceil(sb/4*2) / 2,
		HorizontalLeap: strengthBonus,
		JumpHeight:     strengthBonus * 20,
		Lift:           sb * 4.5,
		Carry:          roundTo(sb*9, 1),
		Push:           sb * 18,
	}
}

// FatigueResult is the resolved fatigue state. Fatigue never changes
// characteristics; the penalty is applied by whoever rolls.
type FatigueResult struct {
	Value     int  `json:"value"`
	Threshold int  `json:"threshold"`
	Fatigued  bool `json:"fatigued"`
	Exhausted bool `json:"exhausted"`
}

// ResolveFatigue uses toughness bonus as the threshold.
func ResolveFatigue(f actor.Fatigue, toughnessBonus int) FatigueResult {
	return FatigueResult{
		Value:     f.Value,
		Threshold: toughnessBonus,
		Fatigued:  f.Value > 0,
		Exhausted: f.Value > toughnessBonus,
	}
}

// PsyResult is the resolved psychic rating.
type PsyResult struct {
	Rating    int    `json:"rating"`
	Sustained int    `json:"sustained"`
	Current   int    `json:"current"`
	Class     string `json:"class,omitempty"`
}

// ResolvePsy subtracts sustained powers from the rating.
func ResolvePsy(p actor.Psy) PsyResult {
	return PsyResult{
		Rating:    p.Rating,
		Sustained: p.Sustained,
		Current:   p.Rating - p.Sustained,
		Class:     p.Class,
	}
}
