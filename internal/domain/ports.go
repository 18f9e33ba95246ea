package domain

import "context"

// StoreRepository defines the persistence contract for tenants.
type StoreRepository interface {
	Create(ctx context.Context, store Store) (Store, error)
	GetByID(ctx context.Context, id int64) (Store, error)
	List(ctx context.Context) ([]Store, error)
}

// CatalogRepository defines persistence for statuses, transitions, and
// automations. All reads are scoped by store and entity type.
type CatalogRepository interface {
	ListStatuses(ctx context.Context, storeID int64, entityType EntityType) ([]Status, error)
	GetStatus(ctx context.Context, id int64) (Status, error)
	GetStatusBySlug(ctx context.Context, storeID int64, entityType EntityType, slug string) (Status, error)
	CountStatuses(ctx context.Context, storeID int64, entityType EntityType) (int, error)
	// SeedGraph inserts a predefined graph's statuses and edges in one
	// transaction. It does not guard against prior seeding; the unique
	// index on (store_id, entity_type, slug) is the backstop.
	SeedGraph(ctx context.Context, storeID int64, entityType EntityType, graph Graph) error
	ReorderStatuses(ctx context.Context, orderedIDs []int64) error

	GetTransition(ctx context.Context, fromStatusID, toStatusID int64) (StatusTransition, error)
	ListTransitions(ctx context.Context, storeID int64, entityType EntityType) ([]StatusTransition, error)
	CreateTransition(ctx context.Context, t StatusTransition) (StatusTransition, error)
	SetTransitionEnabled(ctx context.Context, id int64, enabled bool) error

	ListAutomations(ctx context.Context, statusID int64, trigger Trigger) ([]StatusAutomation, error)
	CreateAutomation(ctx context.Context, a StatusAutomation) (StatusAutomation, error)
}

// EntityRepository defines persistence for the four consumer record kinds.
type EntityRepository interface {
	Get(ctx context.Context, storeID int64, entityType EntityType, id int64) (Entity, error)
	Create(ctx context.Context, e Entity) (Entity, error)
	// ApplyTransition atomically points the entity at the target status,
	// syncs the legacy string field, and hands the given jobs to the outbox
	// in the same transaction. On success the snapshot's StatusID and
	// LegacyStatus are updated in place.
	ApplyTransition(ctx context.Context, e *Entity, target Status, jobs []Job) error
}

// MigrationRepository defines the bulk operations used to convert legacy
// string statuses into catalog references.
type MigrationRepository interface {
	// CountEntities returns total rows and rows already carrying a status
	// reference for one store and entity type.
	CountEntities(ctx context.Context, storeID int64, entityType EntityType) (total, migrated int64, err error)
	// ListUnmigrated returns up to limit rows with a legacy status but no
	// status reference, ordered by id, starting after afterID.
	ListUnmigrated(ctx context.Context, storeID int64, entityType EntityType, afterID int64, limit int) ([]LegacyRow, error)
	// AssignStatuses batch-updates status_id for the given entity ids in a
	// single statement.
	AssignStatuses(ctx context.Context, entityType EntityType, assignments map[int64]int64) error
}

// LegacyRow is one unmigrated entity row: its id and legacy status string.
type LegacyRow struct {
	ID           int64
	LegacyStatus string
}

// TransitionValidator decides whether a move between two statuses is legal
// given the configured edge set.
type TransitionValidator interface {
	Allowed(ctx context.Context, edges []StatusTransition, fromStatusID, toStatusID int64) bool
}
