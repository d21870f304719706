package rules

import (
	"testing"

	"github.com/louisbranch/voidsheet/internal/services/sheet/domain/actor"
)

func TestResolveMovement(t *testing.T) {
	got := ResolveMovement(3, 4)
	want := Movement{Base: 3, Half: 3, Full: 6, Charge: 9, Run: 18}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	if got := ResolveMovement(3, 6); got.Base != 5 || got.Run != 30 {
		t.Fatalf("expected large size to add movement, got %+v", got)
	}
}

func TestResolveLift(t *testing.T) {
	tests := []struct {
		sb   int
		want Lift
	}{
		{4, Lift{VerticalLeap: 1, HorizontalLeap: 4, JumpHeight: 80, Lift: 18, Carry: 36, Push: 72}},
		{3, Lift{VerticalLeap: 1, HorizontalLeap: 3, JumpHeight: 60, Lift: 13.5, Carry: 27, Push: 54}},
		{5, Lift{VerticalLeap: 1.5, HorizontalLeap: 5, JumpHeight: 100, Lift: 22.5, Carry: 45, Push: 90}},
		{0, Lift{}},
	}
	for _, tt := range tests {
		if got := ResolveLift(tt.sb); got != tt.want {
			t.Fatalf("sb %d: expected %+v, got %+v", tt.sb, tt.want, got)
		}
	}
}

func TestResolveFatigue(t *testing.T) {
	got := ResolveFatigue(actor.Fatigue{Value: 2}, 3)
	if got.Threshold != 3 || !got.Fatigued || got.Exhausted {
		t.Fatalf("unexpected fatigue %+v", got)
	}
	if got := ResolveFatigue(actor.Fatigue{Value: 4}, 3); !got.Exhausted {
		t.Fatal("expected exhausted past threshold")
	}
	if got := ResolveFatigue(actor.Fatigue{}, 3); got.Fatigued {
		t.Fatal("expected no fatigue")
	}
}

func TestResolvePsy(t *testing.T) {
	got := ResolvePsy(actor.Psy{Rating: 4, Sustained: 1, Class: "bound"})
	if got.Current != 3 || got.Class != "bound" {
		t.Fatalf("unexpected psy %+v", got)
	}
}
