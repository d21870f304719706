package rules

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/louisbranch/voidsheet/internal/services/sheet/domain/actor"
	"github.com/louisbranch/voidsheet/internal/services/sheet/domain/record"
)

func TestResolveResources(t *testing.T) {
	a := actor.New("a1", "Acolyte", actor.KindCharacter)
	a.Wounds = actor.Resource{Value: 8, Max: 10}
	a.Fate = actor.Resource{Value: 2, Max: 2}
	records := []record.Record{
		{Name: "Hardy", Kind: record.KindTalent, Modifiers: &record.Modifiers{Resources: map[string]int{"wounds": 2}}},
		{Name: "Forge World", Kind: record.KindOriginPath, Modifiers: &record.Modifiers{Wounds: 1, Fate: 1}},
	}
	got := ResolveResources(a, AggregateModifiers(records, nil), OriginPathModifiers(records))
	want := Resources{
		Wounds: ResourceResult{Value: 8, Base: 10, Modifier: 2, OriginPath: 1, Max: 13},
		Fate:   ResourceResult{Value: 2, Base: 2, OriginPath: 1, Max: 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected resources (-want +got):\n%s", diff)
	}
}

func TestCharacterAptitudes(t *testing.T) {
	records := []record.Record{
		{Kind: record.KindOriginPath, Aptitudes: []string{"Toughness", " Offence"}},
		{Kind: record.KindOriginPath, Aptitudes: []string{"Offence", "Fieldcraft"}},
		{Kind: record.KindTalent, Aptitudes: []string{"Psyker"}},
	}
	want := []string{"Fieldcraft", "Offence", "Toughness"}
	if diff := cmp.Diff(want, CharacterAptitudes(records)); diff != "" {
		t.Fatalf("unexpected aptitudes (-want +got):\n%s", diff)
	}
}
