package pipeline

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	apperrors "github.com/louisbranch/voidsheet/internal/platform/errors"
	"github.com/louisbranch/voidsheet/internal/services/sheet/domain/actor"
	"github.com/louisbranch/voidsheet/internal/services/sheet/domain/record"
	"github.com/louisbranch/voidsheet/internal/services/sheet/domain/rules"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testActor() actor.Actor {
	a := actor.New("acolyte-1", "Sister Vey", actor.KindCharacter)
	bases := map[actor.CharacteristicKey]int{
		actor.WeaponSkill:    38,
		actor.BallisticSkill: 41,
		actor.Strength:       33,
		actor.Toughness:      35,
		actor.Agility:        40,
		actor.Intelligence:   43,
		actor.Perception:     36,
		actor.Willpower:      45,
		actor.Fellowship:     30,
		actor.Influence:      25,
	}
	for key, base := range bases {
		c := a.Characteristics[key]
		c.Base = base
		a.Characteristics[key] = c
	}
	a.Skills["dodge"] = actor.Skill{Label: "Dodge", Characteristic: "Ag", Trained: true}
	a.Skills["awareness"] = actor.Skill{Label: "Awareness", Characteristic: "Per"}
	a.Experience = actor.Experience{Total: 1000, Used: 400}
	a.Psy = actor.Psy{Rating: 3, Sustained: 1}
	a.Wounds = actor.Resource{Value: 10, Max: 12}
	a.Fate = actor.Resource{Value: 3, Max: 3}
	return a
}

func testRecords() record.Collection {
	return record.NewCollection(
		record.Record{ID: "o1", Name: "Hive World", Kind: record.KindOriginPath,
			Modifiers: &record.Modifiers{Characteristics: map[string]int{"agility": 5}, Wounds: 1},
			Aptitudes: []string{"Agility", "Offence"}},
		record.Record{ID: "t1", Name: "Lightning Reflexes", Kind: record.KindTalent, Cost: 300,
			Modifiers: &record.Modifiers{Combat: map[string]int{"initiative": 2}}},
		record.Record{ID: "c1", Name: "Cautious", Kind: record.KindCondition,
			Modifiers: &record.Modifiers{Skills: map[string]int{"dodge": 10}}},
		record.Record{ID: "a1", Name: "Guard Flak", Kind: record.KindArmour, Equipped: true,
			Craftsmanship: record.CraftsmanshipGood, Weight: 11,
			Armour: &record.ArmourData{LegacyPoints: "4", LegacyLocations: "Body, Arms, Legs"}},
		record.Record{ID: "w1", Name: "Lasgun", Kind: record.KindWeapon, Weight: 4.5},
	)
}

func TestStage1UsesBaseFieldsOnly(t *testing.T) {
	s1, err := New().Stage1(testActor())
	if err != nil {
		t.Fatalf("stage1: %v", err)
	}
	d := s1.Derived
	if d.Stage != 1 {
		t.Fatalf("expected stage 1, got %d", d.Stage)
	}
	if got := d.Characteristics[actor.Agility].Total; got != 40 {
		t.Fatalf("expected agility 40, got %d", got)
	}
	if got := d.Skills["awareness"].Current; got != 18 {
		t.Fatalf("expected awareness 18, got %d", got)
	}
	if d.Armour != nil || d.Encumbrance != nil || d.Experience != nil {
		t.Fatal("expected record-dependent sections to wait for stage 2")
	}
	if d.Movement == nil || d.Movement.Base != 4 {
		t.Fatalf("expected base movement 4, got %+v", d.Movement)
	}
}

func TestStage2RequiresLoadedRecords(t *testing.T) {
	p := New()
	s1, err := p.Stage1(testActor())
	if err != nil {
		t.Fatalf("stage1: %v", err)
	}
	_, err = p.Stage2(s1, record.Collection{}, Combat{})
	if !errors.Is(err, ErrRecordsNotLoaded) {
		t.Fatalf("expected records not loaded, got %v", err)
	}
	if apperrors.CodeOf(err) != apperrors.CodeRecordsNotLoaded {
		t.Fatalf("expected code %s, got %s", apperrors.CodeRecordsNotLoaded, apperrors.CodeOf(err))
	}

	d, err := p.Stage2(s1, record.NewCollection(), Combat{})
	if err != nil {
		t.Fatalf("expected empty loaded collection to succeed, got %v", err)
	}
	if d.Experience == nil || d.Experience.CalculatedTotal != 0 {
		t.Fatalf("expected zero experience, got %+v", d.Experience)
	}
}

func TestRunAppliesRecords(t *testing.T) {
	d, err := New(WithLogger(zaptest.NewLogger(t))).Run(testActor(), testRecords(), Combat{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	agility := d.Characteristics[actor.Agility]
	if agility.Total != 45 || agility.OriginPathModifier != 5 || agility.Bonus != 4 {
		t.Fatalf("unexpected agility %+v", agility)
	}
	if got := d.Skills["dodge"].Current; got != 55 {
		t.Fatalf("expected dodge 55, got %d", got)
	}
	if d.Initiative.Formula != "1d10+6" {
		t.Fatalf("expected initiative 1d10+6, got %s", d.Initiative.Formula)
	}
	if d.Movement.Base != 4 {
		t.Fatalf("expected movement from final agility bonus 4, got %d", d.Movement.Base)
	}
	if body := d.Armour.At(record.LocationBody); body.Total != 3+4+1 {
		t.Fatalf("expected body 8, got %d", body.Total)
	}
	if head := d.Armour.At(record.LocationHead); head.Total != 3+1 {
		t.Fatalf("expected head 4, got %d", head.Total)
	}
	if d.Encumbrance.Value != 15.5 || d.Encumbrance.Max != 36 {
		t.Fatalf("unexpected encumbrance %+v", d.Encumbrance)
	}
	if d.Experience.SpentTalents != 300 || d.Experience.Available != 600 {
		t.Fatalf("unexpected experience %+v", d.Experience)
	}
	if d.Resources.Wounds.Max != 13 {
		t.Fatalf("expected wounds max 13, got %d", d.Resources.Wounds.Max)
	}
	if diff := cmp.Diff([]string{"Agility", "Offence"}, d.Aptitudes); diff != "" {
		t.Fatalf("unexpected aptitudes (-want +got):\n%s", diff)
	}
	if d.Combat[rules.CombatInitiative] != 2 {
		t.Fatalf("expected initiative combat modifier 2, got %v", d.Combat)
	}
}

func TestRunAlreadyHitDropsCraftsmanshipBonus(t *testing.T) {
	d, err := New().Run(testActor(), testRecords(), Combat{AlreadyHit: true})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if body := d.Armour.At(record.LocationBody); body.Total != 3+4 {
		t.Fatalf("expected body 7 once hit, got %d", body.Total)
	}
}

func TestStage2DoesNotCompound(t *testing.T) {
	p := New()
	s1, err := p.Stage1(testActor())
	if err != nil {
		t.Fatalf("stage1: %v", err)
	}
	first, err := p.Stage2(s1, testRecords(), Combat{})
	if err != nil {
		t.Fatalf("stage2: %v", err)
	}
	second, err := p.Stage2(s1, testRecords(), Combat{})
	if err != nil {
		t.Fatalf("stage2: %v", err)
	}
	if first.Characteristics[actor.Agility].Total != second.Characteristics[actor.Agility].Total {
		t.Fatal("expected repeated stage 2 to give the same agility")
	}
}

func TestRunIsIdempotent(t *testing.T) {
	p := New()
	first, err := p.Run(testActor(), testRecords(), Combat{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	second, err := p.Run(testActor(), testRecords(), Combat{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("derived values differ (-first +second):\n%s", diff)
	}
	a, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	b, err := json.Marshal(second)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(a) != string(b) {
		t.Fatal("expected byte-identical JSON")
	}
}

func TestRunNPCProfile(t *testing.T) {
	a := testActor()
	a.Kind = actor.KindNPC
	a.Horde = actor.Horde{Enabled: true, Current: 50, Max: 100}
	d, err := New().Run(a, testRecords(), Combat{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if d.Experience != nil || d.Aptitudes != nil {
		t.Fatal("expected no experience ledger for npcs")
	}
	if d.Horde == nil || d.Horde.DamageMultiplier != 2.5 {
		t.Fatalf("expected horde multiplier 2.5, got %+v", d.Horde)
	}
	if d.Armour == nil || d.Encumbrance == nil {
		t.Fatal("expected armour and encumbrance for npcs")
	}
}

func TestRunUnknownKind(t *testing.T) {
	a := testActor()
	a.Kind = "daemon"
	_, err := New().Run(a, testRecords(), Combat{})
	if apperrors.CodeOf(err) != apperrors.CodeProfileMissing {
		t.Fatalf("expected profile missing, got %v", err)
	}
}

func TestRunCollectsDiagnostics(t *testing.T) {
	records := record.NewCollection(record.Record{
		Name: "Odd Talent", Kind: record.KindTalent,
		Modifiers: &record.Modifiers{Characteristics: map[string]int{"agilty": 5}},
	})
	d, err := New(WithLogger(zaptest.NewLogger(t))).Run(testActor(), records, Combat{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(d.Diagnostics) != 1 || d.Diagnostics[0].Suggestion != "agility" {
		t.Fatalf("unexpected diagnostics %+v", d.Diagnostics)
	}
}
