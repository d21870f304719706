// Package pipeline composes the resolvers into the two-stage derive.
//
// Stage 1 reads stored base fields only. Stage 2 requires a loaded record
// collection and recomputes everything from base fields plus record
// modifiers, so running it again never compounds a modifier.
package pipeline

import (
	"go.uber.org/zap"

	apperrors "github.com/louisbranch/voidsheet/internal/platform/errors"
	"github.com/louisbranch/voidsheet/internal/platform/logging"
	"github.com/louisbranch/voidsheet/internal/services/sheet/domain/actor"
	"github.com/louisbranch/voidsheet/internal/services/sheet/domain/record"
	"github.com/louisbranch/voidsheet/internal/services/sheet/domain/rules"
)

// ErrRecordsNotLoaded is returned by Stage2 when the record collection has
// not been confirmed loaded.
var ErrRecordsNotLoaded = apperrors.New(apperrors.CodeRecordsNotLoaded, "owned records are not loaded")

// Combat is the round-scoped combat state the armour resolver reads.
type Combat struct {
	AlreadyHit bool
}

// Stage1Result is the output of the first stage, the required input of the
// second.
type Stage1Result struct {
	Actor   actor.Actor
	Profile Profile
	Derived Derived
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logging.OrNop(logger)
	}
}

// WithRegistry sets the profile registry.
func WithRegistry(registry *Registry) Option {
	return func(p *Pipeline) {
		if registry != nil {
			p.registry = registry
		}
	}
}

// Pipeline runs both stages for the registered profile of an actor's kind.
// It holds no per-actor state and is safe for concurrent use.
type Pipeline struct {
	registry *Registry
	logger   *zap.Logger
}

// New builds a pipeline over DefaultRegistry.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{registry: DefaultRegistry, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Profile returns the profile for kind.
func (p *Pipeline) Profile(kind actor.Kind) (Profile, error) {
	profile, ok := p.registry.Get(kind)
	if !ok {
		return Profile{}, apperrors.WithMetadata(apperrors.CodeProfileMissing, "no profile registered for actor kind", map[string]string{
			"Kind": string(kind),
		})
	}
	return profile, nil
}

// Stage1 resolves everything that depends on stored base fields only.
func (p *Pipeline) Stage1(a actor.Actor) (Stage1Result, error) {
	profile, err := p.Profile(a.Kind)
	if err != nil {
		return Stage1Result{}, err
	}

	chars := rules.ResolveCharacteristics(a.Characteristics, nil, nil)
	d := Derived{
		ActorID:         a.ID,
		Name:            a.Name,
		Kind:            a.Kind,
		Profile:         profile.Name,
		RulesVersion:    rules.RulesVersion().RulesVersion,
		Stage:           1,
		Characteristics: chars,
		Skills:          rules.ResolveSkills(a.Skills, chars, nil),
		Initiative:      rules.ResolveInitiative(a.InitiativeCharacteristic(), a.Initiative.Base, chars, 0),
		Resources:       rules.ResolveResources(a, rules.ModifierSet{}, rules.OriginPathGrants{}),
	}
	resolveSecondaries(&d, profile, a, chars)
	return Stage1Result{Actor: a, Profile: profile, Derived: d}, nil
}

// Stage2 applies the owned records. It fails with ErrRecordsNotLoaded when
// records is not loaded; it never fails on malformed record data.
func (p *Pipeline) Stage2(s1 Stage1Result, records record.Collection, combat Combat) (Derived, error) {
	if !records.Loaded() {
		return Derived{}, ErrRecordsNotLoaded
	}
	a := s1.Actor
	profile := s1.Profile
	all := records.All()

	mods := rules.AggregateModifiers(all, a.SkillKeys())
	origin := rules.OriginPathModifiers(all)
	chars := rules.ResolveCharacteristics(a.Characteristics, origin.CharacteristicTotals(), mods.CharacteristicTotals())

	d := s1.Derived
	d.Stage = 2
	d.Characteristics = chars
	d.Skills = rules.ResolveSkills(a.Skills, chars, mods.SkillTotals())
	d.Initiative = rules.ResolveInitiative(a.InitiativeCharacteristic(), a.Initiative.Base, chars, mods.CombatTotal(rules.CombatInitiative))
	d.Resources = rules.ResolveResources(a, mods, origin)
	d.Modifiers = &mods
	d.OriginPath = &origin
	d.Combat = combatTotals(mods)
	d.Diagnostics = append([]rules.Diagnostic(nil), mods.Diagnostics...)
	resolveSecondaries(&d, profile, a, chars)

	if profile.Has(CapabilityArmour) {
		armour := rules.ResolveArmour(rules.ArmourInput{
			ToughnessBonus: chars.Bonus(string(actor.Toughness)),
			Records:        all,
			AlreadyHit:     combat.AlreadyHit,
		})
		d.Armour = &armour
		d.Diagnostics = append(d.Diagnostics, armour.Diagnostics...)
	}
	if profile.Has(CapabilityEncumbrance) {
		enc := rules.ResolveEncumbrance(rules.EncumbranceInput{
			StrengthBonus:  chars.Bonus(string(actor.Strength)),
			ToughnessBonus: chars.Bonus(string(actor.Toughness)),
			Records:        all,
			Backpack:       a.Backpack,
		})
		d.Encumbrance = &enc
	}
	if profile.Has(CapabilityExperience) {
		xp := rules.ResolveExperience(a, all)
		d.Experience = &xp
		d.Aptitudes = rules.CharacterAptitudes(all)
	}

	for _, diag := range d.Diagnostics {
		p.logger.Debug("record data degraded to default",
			zap.String("actor_id", a.ID),
			zap.String("code", diag.Code),
			zap.String("record", diag.RecordName),
			zap.String("key", diag.Key),
			zap.String("suggestion", diag.Suggestion),
		)
	}
	return d, nil
}

// Run executes Stage 1 then Stage 2.
func (p *Pipeline) Run(a actor.Actor, records record.Collection, combat Combat) (Derived, error) {
	s1, err := p.Stage1(a)
	if err != nil {
		return Derived{}, err
	}
	return p.Stage2(s1, records, combat)
}

// resolveSecondaries recomputes the values that read final characteristics.
func resolveSecondaries(d *Derived, profile Profile, a actor.Actor, chars rules.Characteristics) {
	sb := chars.Bonus(string(actor.Strength))
	tb := chars.Bonus(string(actor.Toughness))
	d.Fatigue = rules.ResolveFatigue(a.Fatigue, tb)
	if profile.Has(CapabilityMovement) {
		movement := rules.ResolveMovement(chars.Bonus(string(actor.Agility)), a.EffectiveSize())
		lift := rules.ResolveLift(sb)
		d.Movement = &movement
		d.Lift = &lift
	}
	if profile.Has(CapabilityPsy) {
		psy := rules.ResolvePsy(a.Psy)
		d.Psy = &psy
	}
	if profile.Has(CapabilityHorde) && a.Horde.Enabled {
		horde := rules.ResolveHorde(a.Horde)
		d.Horde = &horde
	}
}

func combatTotals(mods rules.ModifierSet) map[string]int {
	out := map[string]int{}
	for _, key := range rules.CombatKeys {
		if total := mods.CombatTotal(key); total != 0 {
			out[key] = total
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
