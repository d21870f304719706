package pipeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/louisbranch/voidsheet/internal/services/sheet/domain/actor"
)

func TestBindings(t *testing.T) {
	d, err := New().Run(testActor(), testRecords(), Combat{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	b := d.Bindings()
	tests := map[string]float64{
		"WS":      38,
		"WSB":     3,
		"Ag":      45,
		"AgB":     4,
		"SB":      3,
		"TB":      3,
		"pr":      2,
		"init":    6,
		"move":    4,
		"fatigue": 0,
	}
	for key, want := range tests {
		if got, ok := b[key]; !ok || got != want {
			t.Fatalf("%s: expected %v, got %v (present %v)", key, want, got, ok)
		}
	}
	if _, ok := b["mag"]; ok {
		t.Fatal("expected no horde bindings for characters")
	}
	keys := b.Keys()
	if keys[0] != "Ag" {
		t.Fatalf("expected sorted keys, got %v", keys)
	}
}

func TestBindingsHorde(t *testing.T) {
	a := testActor()
	a.Kind = actor.KindNPC
	a.Horde = actor.Horde{Enabled: true, Current: 20, Max: 40}
	d, err := New().Run(a, testRecords(), Combat{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	b := d.Bindings()
	if b["mag"] != 20 || b["hordeDmg"] != 2.5 {
		t.Fatalf("unexpected horde bindings mag=%v hordeDmg=%v", b["mag"], b["hordeDmg"])
	}
}

func TestBindingsKeysSorted(t *testing.T) {
	b := Bindings{"b": 1, "A": 2, "a": 3}
	if diff := cmp.Diff([]string{"A", "a", "b"}, b.Keys()); diff != "" {
		t.Fatalf("unexpected keys (-want +got):\n%s", diff)
	}
}
