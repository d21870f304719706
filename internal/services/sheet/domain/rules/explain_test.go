package rules

import (
	"testing"

	"github.com/louisbranch/voidsheet/internal/services/sheet/domain/actor"
	"github.com/louisbranch/voidsheet/internal/services/sheet/domain/record"
)

func TestExplainCharacteristic(t *testing.T) {
	records := []record.Record{
		{Name: "Hive World", Kind: record.KindOriginPath, Modifiers: &record.Modifiers{Characteristics: map[string]int{"T": 5}}},
		{Name: "Iron Jaw", Kind: record.KindTalent, Modifiers: &record.Modifiers{Characteristics: map[string]int{"toughness": 3}}},
	}
	set := AggregateModifiers(records, nil)
	origin := OriginPathModifiers(records)
	result := ResolveCharacteristic(actor.Toughness, actor.Characteristic{Base: 30}, 5, 3)

	got := ExplainCharacteristic(result, set, origin)
	if got.Value != 38 || got.Target != "toughness" {
		t.Fatalf("unexpected explanation header %+v", got)
	}
	codes := []string{"BASE_VALUE", "ORIGIN_PATH", "ITEM_MODIFIERS", "BONUS"}
	if len(got.Steps) != len(codes) {
		t.Fatalf("expected %d steps, got %d", len(codes), len(got.Steps))
	}
	for i, code := range codes {
		if got.Steps[i].Code != code {
			t.Fatalf("step %d: expected %s, got %s", i, code, got.Steps[i].Code)
		}
	}
	sources := got.Steps[2].Data["sources"].([]map[string]any)
	if len(sources) != 1 || sources[0]["name"] != "Iron Jaw" {
		t.Fatalf("unexpected item sources %v", sources)
	}
}

func TestExplainSkill(t *testing.T) {
	chars := skillChars(t)
	skill := ResolveSkill("awareness", actor.Skill{Characteristic: "Per"}, chars, 0)
	got := ExplainSkill(skill, chars, ModifierSet{})
	if got.Value != 15 {
		t.Fatalf("expected 15, got %d", got.Value)
	}
	if got.Steps[0].Data["base"] != 15 {
		t.Fatalf("expected halved base 15, got %v", got.Steps[0].Data["base"])
	}
}

func TestExplainArmourLocation(t *testing.T) {
	la := LocationArmour{Location: record.LocationHead, ToughnessBonus: 3, Item: 4, ItemSource: "Helm", Total: 7}
	got := ExplainArmourLocation(la)
	if got.Value != 7 || len(got.Steps) != 6 {
		t.Fatalf("unexpected explanation %+v", got)
	}
	if got.Steps[3].Data["source"] != "Helm" {
		t.Fatalf("expected armour source Helm, got %v", got.Steps[3].Data["source"])
	}
	if ArmourLocationLabel(record.LocationLeftArm) != "Left Arm" {
		t.Fatal("unexpected location label")
	}
}

func TestRulesVersionMetadata(t *testing.T) {
	metadata := RulesVersion()
	if metadata.System == "" {
		t.Fatal("expected system name")
	}
	if metadata.RulesVersion == "" {
		t.Fatal("expected rules version")
	}
	if len(metadata.CarryingTable) != len(CarryingCapacity) {
		t.Fatalf("expected carrying table of %d, got %d", len(CarryingCapacity), len(metadata.CarryingTable))
	}
	metadata.CarryingTable[0] = 99
	if CarryingCapacity[0] == 99 {
		t.Fatal("expected metadata to copy the carrying table")
	}
}
