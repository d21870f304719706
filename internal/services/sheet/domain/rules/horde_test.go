package rules

import (
	"testing"

	"github.com/louisbranch/voidsheet/internal/services/sheet/domain/actor"
)

func TestResolveHorde(t *testing.T) {
	tests := []struct {
		name       string
		horde      actor.Horde
		multiplier float64
		size       int
		state      string
	}{
		{"half strength", actor.Horde{Enabled: true, Current: 50, Max: 100}, 2.5, 1, HordeActive},
		{"full strength", actor.Horde{Enabled: true, Current: 30, Max: 30}, 5, 3, HordeActive},
		{"tenth", actor.Horde{Enabled: true, Current: 3, Max: 30}, 0.5, 0, HordeActive},
		{"just above a tenth", actor.Horde{Enabled: true, Current: 4, Max: 30}, 1, 0, HordeActive},
		{"destroyed", actor.Horde{Enabled: true, Current: 0, Max: 30}, 0.5, 0, HordeDestroyed},
		{"overkill clamps", actor.Horde{Enabled: true, Current: -5, Max: 30}, 0.5, 0, HordeDestroyed},
		{"overfull clamps", actor.Horde{Enabled: true, Current: 45, Max: 30}, 5, 3, HordeActive},
		{"no max", actor.Horde{Enabled: true, Current: 10, Max: 0}, 0.5, 0, HordeDestroyed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveHorde(tt.horde)
			if got.DamageMultiplier != tt.multiplier {
				t.Fatalf("expected multiplier %v, got %v", tt.multiplier, got.DamageMultiplier)
			}
			if got.SizeModifier != tt.size {
				t.Fatalf("expected size %d, got %d", tt.size, got.SizeModifier)
			}
			if got.State != tt.state {
				t.Fatalf("expected state %q, got %q", tt.state, got.State)
			}
		})
	}
}

func TestResolveHordeHalfPercent(t *testing.T) {
	got := ResolveHorde(actor.Horde{Enabled: true, Current: 50, Max: 100})
	if got.MagnitudePercent != 0.5 {
		t.Fatalf("expected 0.5, got %v", got.MagnitudePercent)
	}
}

func TestResolveHordeDisabled(t *testing.T) {
	if got := ResolveHorde(actor.Horde{Current: 50, Max: 100}); got != (HordeResult{}) {
		t.Fatalf("expected zero value, got %+v", got)
	}
}

func TestClampMagnitude(t *testing.T) {
	if ClampMagnitude(-1, 10) != 0 || ClampMagnitude(11, 10) != 10 || ClampMagnitude(5, 10) != 5 {
		t.Fatal("unexpected clamp")
	}
	if ClampMagnitude(5, -3) != 0 {
		t.Fatal("expected negative max to clamp to 0")
	}
}
