package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	apperrors "github.com/louisbranch/voidsheet/internal/platform/errors"
	"github.com/louisbranch/voidsheet/internal/platform/logging"
	platformotel "github.com/louisbranch/voidsheet/internal/platform/otel"
	"github.com/louisbranch/voidsheet/internal/services/sheet/domain/actor"
	"github.com/louisbranch/voidsheet/internal/services/sheet/domain/pipeline"
	"github.com/louisbranch/voidsheet/internal/services/sheet/domain/record"
	"github.com/louisbranch/voidsheet/internal/services/sheet/domain/rules"
	"github.com/louisbranch/voidsheet/internal/services/sheet/fixture"
	"github.com/louisbranch/voidsheet/internal/services/sheet/storage"
)

const tracerName = "github.com/louisbranch/voidsheet/internal/services/sheet/app"

// Result is one derive with its serialised forms.
type Result struct {
	Sheet       fixture.Sheet
	Derived     pipeline.Derived
	Bindings    pipeline.Bindings
	JSON        []byte
	Fingerprint string
}

// Option configures a Service.
type Option func(*Service)

// WithStore persists every derive as a projection.
func WithStore(store storage.ProjectionStore) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logging.OrNop(logger)
	}
}

// WithPipeline replaces the default pipeline.
func WithPipeline(p *pipeline.Pipeline) Option {
	return func(s *Service) {
		if p != nil {
			s.pipeline = p
		}
	}
}

// WithTracer replaces the tracer taken from the global provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// Service derives sheets.
type Service struct {
	pipeline *pipeline.Pipeline
	store    storage.ProjectionStore
	logger   *zap.Logger
	tracer   trace.Tracer
}

// New builds a service. Without WithPipeline it uses a pipeline logging to
// the service logger.
func New(opts ...Option) *Service {
	s := &Service{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	if s.pipeline == nil {
		s.pipeline = pipeline.New(pipeline.WithLogger(s.logger))
	}
	if s.tracer == nil {
		s.tracer = platformotel.Tracer(tracerName)
	}
	return s
}

// DeriveFile loads and derives the document at path.
func (s *Service) DeriveFile(ctx context.Context, path string) (Result, error) {
	sheet, err := fixture.LoadFile(path)
	if err != nil {
		return Result{}, err
	}
	return s.Derive(ctx, sheet)
}

// DeriveDocument parses and derives an in-memory document.
func (s *Service) DeriveDocument(ctx context.Context, data []byte, format fixture.Format) (Result, error) {
	sheet, err := fixture.Parse(data, format)
	if err != nil {
		return Result{}, err
	}
	return s.Derive(ctx, sheet)
}

// Derive runs both stages and stores the projection when a store is set.
func (s *Service) Derive(ctx context.Context, sheet fixture.Sheet) (Result, error) {
	ctx, span := s.tracer.Start(ctx, "sheet.derive", trace.WithAttributes(
		attribute.String("actor.id", sheet.Actor.ID),
		attribute.String("actor.kind", string(sheet.Actor.Kind)),
		attribute.Int("records.count", sheet.Records.Len()),
		attribute.Bool("combat.already_hit", sheet.Combat.AlreadyHit),
	))
	defer span.End()

	derived, err := s.pipeline.Run(sheet.Actor, sheet.Records, sheet.Combat)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(apperrors.CodeOf(err)))
		return Result{}, err
	}
	data, err := json.Marshal(derived)
	if err != nil {
		return Result{}, fmt.Errorf("encode derived: %w", err)
	}
	sum := sha256.Sum256(data)
	result := Result{
		Sheet:       sheet,
		Derived:     derived,
		Bindings:    derived.Bindings(),
		JSON:        data,
		Fingerprint: hex.EncodeToString(sum[:]),
	}
	span.SetAttributes(attribute.Int("diagnostics.count", len(derived.Diagnostics)))
	for _, d := range derived.Diagnostics {
		s.logger.Debug("sheet diagnostic",
			zap.String("actor_id", derived.ActorID),
			zap.String("code", d.Code),
			zap.String("record", d.RecordName),
			zap.String("key", d.Key),
			zap.String("suggestion", d.Suggestion),
		)
	}

	if s.store != nil {
		if err := s.store.PutProjection(ctx, storage.Projection{
			ActorID:      derived.ActorID,
			Name:         derived.Name,
			Kind:         string(derived.Kind),
			RulesVersion: derived.RulesVersion,
			Fingerprint:  result.Fingerprint,
			Derived:      data,
			Bindings:     result.Bindings,
		}); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "store projection")
			return Result{}, err
		}
	}

	s.logger.Info("sheet derived",
		zap.String("actor_id", derived.ActorID),
		zap.String("kind", string(derived.Kind)),
		zap.Int("records", sheet.Records.Len()),
		zap.Int("diagnostics", len(derived.Diagnostics)),
		zap.String("fingerprint", result.Fingerprint),
	)
	return result, nil
}

// Explain answers "why is this number X" for a characteristic (key or short
// code), a skill key or a body location.
func (s *Service) Explain(ctx context.Context, sheet fixture.Sheet, target string) (rules.Explanation, error) {
	result, err := s.Derive(ctx, sheet)
	if err != nil {
		return rules.Explanation{}, err
	}
	d := result.Derived
	mods := rules.ModifierSet{}
	if d.Modifiers != nil {
		mods = *d.Modifiers
	}
	origin := rules.OriginPathGrants{}
	if d.OriginPath != nil {
		origin = *d.OriginPath
	}

	if key, ok := actor.LookupCharacteristic(target); ok {
		if c, ok := d.Characteristics[key]; ok {
			return rules.ExplainCharacteristic(c, mods, origin), nil
		}
	}
	if skill, ok := d.Skills[target]; ok {
		return rules.ExplainSkill(skill, d.Characteristics, mods), nil
	}
	if loc, ok := record.ParseLocation(target); ok && d.Armour != nil {
		return rules.ExplainArmourLocation(d.Armour.At(loc)), nil
	}
	return rules.Explanation{}, apperrors.WithMetadata(apperrors.CodeNotFound,
		fmt.Sprintf("nothing to explain for %q", target),
		map[string]string{"Target": target})
}

// Projection returns the stored projection for an actor.
func (s *Service) Projection(ctx context.Context, actorID string) (storage.Projection, error) {
	if s.store == nil {
		return storage.Projection{}, storage.ErrNotFound
	}
	return s.store.GetProjection(ctx, actorID)
}
