package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/retailops/statusflow/internal/domain"
)

const tracerName = "github.com/retailops/statusflow/internal/adapter/otel"

// TracingEntityRepository wraps a domain.EntityRepository with OpenTelemetry
// tracing. The transition apply path is the engine's hot path, so each method
// creates a span with entity identity attributes and records errors.
type TracingEntityRepository struct {
	next   domain.EntityRepository
	tracer trace.Tracer
}

// Compile-time check: TracingEntityRepository implements domain.EntityRepository.
var _ domain.EntityRepository = (*TracingEntityRepository)(nil)

// NewTracingEntityRepository creates a tracing decorator around the given repository.
func NewTracingEntityRepository(next domain.EntityRepository) *TracingEntityRepository {
	return &TracingEntityRepository{
		next:   next,
		tracer: otel.Tracer(tracerName),
	}
}

func (r *TracingEntityRepository) Get(ctx context.Context, storeID int64, entityType domain.EntityType, id int64) (domain.Entity, error) {
	ctx, span := r.tracer.Start(ctx, "EntityRepository.Get",
		trace.WithAttributes(
			attribute.Int64("store.id", storeID),
			attribute.String("entity.type", string(entityType)),
			attribute.Int64("entity.id", id),
		),
	)
	defer span.End()

	entity, err := r.next.Get(ctx, storeID, entityType, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return entity, err
}

func (r *TracingEntityRepository) Create(ctx context.Context, e domain.Entity) (domain.Entity, error) {
	ctx, span := r.tracer.Start(ctx, "EntityRepository.Create",
		trace.WithAttributes(
			attribute.Int64("store.id", e.StoreID),
			attribute.String("entity.type", string(e.Type)),
		),
	)
	defer span.End()

	created, err := r.next.Create(ctx, e)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return created, err
}

func (r *TracingEntityRepository) ApplyTransition(ctx context.Context, e *domain.Entity, target domain.Status, jobs []domain.Job) error {
	ctx, span := r.tracer.Start(ctx, "EntityRepository.ApplyTransition",
		trace.WithAttributes(
			attribute.Int64("store.id", e.StoreID),
			attribute.String("entity.type", string(e.Type)),
			attribute.Int64("entity.id", e.ID),
			attribute.String("status.to", target.Slug),
			attribute.Int("jobs.count", len(jobs)),
		),
	)
	defer span.End()

	err := r.next.ApplyTransition(ctx, e, target, jobs)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// TracingMigrationRepository wraps a domain.MigrationRepository with
// OpenTelemetry tracing for the bulk conversion path.
type TracingMigrationRepository struct {
	next   domain.MigrationRepository
	tracer trace.Tracer
}

// Compile-time check: TracingMigrationRepository implements domain.MigrationRepository.
var _ domain.MigrationRepository = (*TracingMigrationRepository)(nil)

// NewTracingMigrationRepository creates a tracing decorator around the given repository.
func NewTracingMigrationRepository(next domain.MigrationRepository) *TracingMigrationRepository {
	return &TracingMigrationRepository{
		next:   next,
		tracer: otel.Tracer(tracerName),
	}
}

func (r *TracingMigrationRepository) CountEntities(ctx context.Context, storeID int64, entityType domain.EntityType) (int64, int64, error) {
	ctx, span := r.tracer.Start(ctx, "MigrationRepository.CountEntities",
		trace.WithAttributes(
			attribute.Int64("store.id", storeID),
			attribute.String("entity.type", string(entityType)),
		),
	)
	defer span.End()

	total, migrated, err := r.next.CountEntities(ctx, storeID, entityType)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return total, migrated, err
}

func (r *TracingMigrationRepository) ListUnmigrated(ctx context.Context, storeID int64, entityType domain.EntityType, afterID int64, limit int) ([]domain.LegacyRow, error) {
	ctx, span := r.tracer.Start(ctx, "MigrationRepository.ListUnmigrated",
		trace.WithAttributes(
			attribute.Int64("store.id", storeID),
			attribute.String("entity.type", string(entityType)),
			attribute.Int64("after.id", afterID),
			attribute.Int("limit", limit),
		),
	)
	defer span.End()

	rows, err := r.next.ListUnmigrated(ctx, storeID, entityType, afterID, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int("result.count", len(rows)))
	}
	return rows, err
}

func (r *TracingMigrationRepository) AssignStatuses(ctx context.Context, entityType domain.EntityType, assignments map[int64]int64) error {
	ctx, span := r.tracer.Start(ctx, "MigrationRepository.AssignStatuses",
		trace.WithAttributes(
			attribute.String("entity.type", string(entityType)),
			attribute.Int("assignments.count", len(assignments)),
		),
	)
	defer span.End()

	err := r.next.AssignStatuses(ctx, entityType, assignments)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
