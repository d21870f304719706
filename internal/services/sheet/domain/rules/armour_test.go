package rules

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/louisbranch/voidsheet/internal/services/sheet/domain/record"
)

func legacyArmour(name, points, locations string) record.Record {
	return record.Record{
		Name:     name,
		Kind:     record.KindArmour,
		Equipped: true,
		Armour:   &record.ArmourData{LegacyPoints: points, LegacyLocations: locations},
	}
}

func modernArmour(name string, craft record.Craftsmanship, points map[record.Location]int, coverage ...record.Location) record.Record {
	return record.Record{
		Name:          name,
		Kind:          record.KindArmour,
		Equipped:      true,
		Craftsmanship: craft,
		Armour:        &record.ArmourData{Points: points, Coverage: record.NewLocationSet(coverage...)},
	}
}

func allPoints(v int) map[record.Location]int {
	out := map[record.Location]int{}
	for _, loc := range record.Locations {
		out[loc] = v
	}
	return out
}

func TestParseLegacyPoints(t *testing.T) {
	tests := []struct {
		text    string
		want    map[record.Location]int
		uniform bool
		ok      bool
	}{
		{"5/3/2/1", map[record.Location]int{
			record.LocationHead: 5, record.LocationBody: 3,
			record.LocationLeftArm: 2, record.LocationRightArm: 2,
			record.LocationLeftLeg: 1, record.LocationRightLeg: 1,
		}, false, true},
		{"6, 5, 4, 3, 2, 1", map[record.Location]int{
			record.LocationHead: 6, record.LocationBody: 5,
			record.LocationLeftArm: 4, record.LocationRightArm: 3,
			record.LocationLeftLeg: 2, record.LocationRightLeg: 1,
		}, false, true},
		{" 4 ", allPoints(4), true, true},
		{"20%", nil, false, false},
		{"2.5", nil, false, false},
		{"5/3", nil, false, false},
		{"all", nil, false, false},
		{"see notes", nil, false, false},
		{"", nil, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := ParseLegacyPoints(tt.text)
			if ok != tt.ok {
				t.Fatalf("expected ok %v, got %v", tt.ok, ok)
			}
			if !ok {
				return
			}
			if got.Uniform != tt.uniform {
				t.Fatalf("expected uniform %v, got %v", tt.uniform, got.Uniform)
			}
			if diff := cmp.Diff(tt.want, got.Points); diff != "" {
				t.Fatalf("unexpected points (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseCoverage(t *testing.T) {
	tests := []struct {
		text string
		want []record.Location
	}{
		{"Head, Body", []record.Location{record.LocationHead, record.LocationBody}},
		{"CHEST", []record.Location{record.LocationBody}},
		{"torso and legs", []record.Location{record.LocationBody, record.LocationLeftLeg, record.LocationRightLeg}},
		{"Arms", []record.Location{record.LocationLeftArm, record.LocationRightArm}},
		{"All", []record.Location{record.LocationAll}},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := ParseCoverage(tt.text).Items()
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("unexpected coverage (-want +got):\n%s", diff)
			}
		})
	}
}

func TestItemAPLegacyCoverageGates(t *testing.T) {
	item, diags := ItemAP(legacyArmour("Flak Vest", "5", "Head, Body"))
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
	if item.At(record.LocationHead) != 5 || item.At(record.LocationBody) != 5 {
		t.Fatalf("expected head and body 5, got %v", item.Points)
	}
	if item.At(record.LocationLeftArm) != 0 {
		t.Fatalf("expected left arm 0, got %d", item.At(record.LocationLeftArm))
	}

	item, diags = ItemAP(legacyArmour("Flak Vest", "5", ""))
	if item.Format != ArmourFormatNone || len(diags) != 1 || diags[0].Code != DiagnosticNoArmourCoverage {
		t.Fatalf("expected no coverage diagnostic, got %v %v", item, diags)
	}

	item, _ = ItemAP(legacyArmour("Mesh", "4", "all"))
	for _, loc := range record.Locations {
		if item.At(loc) != 4 {
			t.Fatalf("expected 4 at %s, got %d", loc, item.At(loc))
		}
	}

	item, _ = ItemAP(legacyArmour("Carapace", "5/3/2/1", ""))
	if item.At(record.LocationLeftLeg) != 1 || item.At(record.LocationHead) != 5 {
		t.Fatalf("expected multi-value points to cover themselves, got %v", item.Points)
	}
}

func TestItemAPModernCapitalisedCoverage(t *testing.T) {
	r := record.FromStorage(record.Document{
		Name:         "Guard Flak",
		Type:         "armour",
		Equipped:     true,
		ArmourPoints: map[string]record.Scalar{"head": "4", "body": "4", "Tail": "1"},
		Coverage:     []string{"Head", "Body"},
	})
	item, diags := ItemAP(r)
	if item.Format != ArmourFormatModern || item.At(record.LocationHead) != 4 || item.At(record.LocationBody) != 4 {
		t.Fatalf("expected head and body 4, got %v %v", item.Format, item.Points)
	}
	if item.At(record.LocationLeftArm) != 0 {
		t.Fatalf("expected uncovered left arm 0, got %d", item.At(record.LocationLeftArm))
	}
	if len(diags) != 1 || diags[0].Code != DiagnosticUnknownLocation || diags[0].Key != "Tail" {
		t.Fatalf("expected one unknown location diagnostic, got %v", diags)
	}
}

func TestItemAPSpecialAndMalformedLegacyValues(t *testing.T) {
	item, diags := ItemAP(legacyArmour("Refractor Field", "30%", "all"))
	if item.Format != ArmourFormatNone || len(diags) != 0 {
		t.Fatalf("expected silent zero for percentage, got %v %v", item, diags)
	}
	item, diags = ItemAP(legacyArmour("Odd Coat", "lots", "all"))
	if item.Format != ArmourFormatNone || len(diags) != 1 || diags[0].Code != DiagnosticUnparsedArmourPoints {
		t.Fatalf("expected unparsed diagnostic, got %v %v", item, diags)
	}
}

func TestItemAPModernPreferredOverLegacy(t *testing.T) {
	r := modernArmour("Carapace", record.CraftsmanshipCommon, map[record.Location]int{record.LocationBody: 6})
	r.Armour.LegacyPoints = "2"
	r.Armour.LegacyLocations = "all"
	item, _ := ItemAP(r)
	if item.Format != ArmourFormatModern || item.At(record.LocationBody) != 6 || item.At(record.LocationHead) != 0 {
		t.Fatalf("expected modern points, got %+v", item)
	}

	r.Armour.Points = map[record.Location]int{record.LocationBody: 0}
	item, _ = ItemAP(r)
	if item.Format != ArmourFormatLegacy || item.At(record.LocationHead) != 2 {
		t.Fatalf("expected legacy fallback for all-zero map, got %+v", item)
	}
}

func TestItemAPBestCraftsmanship(t *testing.T) {
	r := modernArmour("Power Armour", record.CraftsmanshipBest, map[record.Location]int{
		record.LocationHead: 8, record.LocationBody: 8,
	}, record.LocationHead, record.LocationBody, record.LocationLeftArm)
	item, _ := ItemAP(r)
	want := map[record.Location]int{record.LocationHead: 9, record.LocationBody: 9, record.LocationLeftArm: 1}
	if diff := cmp.Diff(want, item.Points); diff != "" {
		t.Fatalf("unexpected points (-want +got):\n%s", diff)
	}
}

func TestResolveArmourGoodCraftsmanship(t *testing.T) {
	records := []record.Record{
		modernArmour("Guard Flak", record.CraftsmanshipGood, map[record.Location]int{record.LocationBody: 6}),
	}
	got := ResolveArmour(ArmourInput{ToughnessBonus: 4, Records: records}).At(record.LocationBody)
	if got.Total != 11 {
		t.Fatalf("expected 11 before being hit, got %d", got.Total)
	}
	got = ResolveArmour(ArmourInput{ToughnessBonus: 4, Records: records, AlreadyHit: true}).At(record.LocationBody)
	if got.Total != 10 {
		t.Fatalf("expected 10 once hit, got %d", got.Total)
	}
	head := ResolveArmour(ArmourInput{ToughnessBonus: 4, Records: records}).At(record.LocationHead)
	if head.Total != 5 {
		t.Fatalf("expected uniform craftsmanship bonus on uncovered head, got %d", head.Total)
	}
}

func TestResolveArmourTakesMaxOfItemsAndSumsCybernetics(t *testing.T) {
	records := []record.Record{
		modernArmour("Flak", record.CraftsmanshipCommon, map[record.Location]int{record.LocationBody: 4}),
		modernArmour("Carapace", record.CraftsmanshipCommon, map[record.Location]int{record.LocationBody: 6}),
		modernArmour("Stored Plate", record.CraftsmanshipCommon, map[record.Location]int{record.LocationBody: 10}),
		{Name: "Subskin", Kind: record.KindCybernetic, Equipped: true, Armour: &record.ArmourData{LegacyPoints: "2", LegacyLocations: "body"}},
		{Name: "Dermal Plating", Kind: record.KindCybernetic, Equipped: true, Armour: &record.ArmourData{Points: map[record.Location]int{record.LocationBody: 1}}},
		{Name: "Natural Armour", Kind: record.KindTrait, Level: 2},
		{Name: "Machine", Kind: record.KindTrait, Level: 3},
		{Name: "natural armour", Kind: record.KindTrait, Level: 9},
	}
	records[2].Equipped = false

	got := ResolveArmour(ArmourInput{ToughnessBonus: 3, Records: records}).At(record.LocationBody)
	want := LocationArmour{
		Location:       record.LocationBody,
		ToughnessBonus: 3,
		TraitBonus:     3,
		Cybernetic:     3,
		Item:           6,
		ItemSource:     "Carapace",
		Total:          15,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected body armour (-want +got):\n%s", diff)
	}
	if CyberneticAP(records, record.LocationBody) != 3 {
		t.Fatal("expected cybernetic AP 3")
	}
}

func TestResolveArmourNoRecords(t *testing.T) {
	got := ResolveArmour(ArmourInput{ToughnessBonus: 2})
	if len(got.Locations) != len(record.Locations) {
		t.Fatalf("expected %d locations, got %d", len(record.Locations), len(got.Locations))
	}
	for _, la := range got.Locations {
		if la.Total != 2 {
			t.Fatalf("expected toughness only at %s, got %d", la.Location, la.Total)
		}
	}
}
