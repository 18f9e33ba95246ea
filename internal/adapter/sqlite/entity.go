package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/retailops/statusflow/internal/domain"
)

// entityTables whitelists the table and number column per entity type; table
// names are never interpolated from caller input.
var entityTables = map[domain.EntityType]struct {
	table     string
	numberCol string
}{
	domain.EntityTransaction: {"transactions", "transaction_number"},
	domain.EntityOrder:       {"orders", "invoice_number"},
	domain.EntityRepair:      {"repairs", "repair_number"},
	domain.EntityMemo:        {"memos", "memo_number"},
}

// JobEnqueuer hands automation jobs to the outbox inside the caller's
// transaction, so they become visible to workers only after commit.
type JobEnqueuer interface {
	EnqueueTx(ctx context.Context, tx *sql.Tx, jobs []domain.Job) error
}

// Compile-time check: EntityRepository implements domain.EntityRepository.
var _ domain.EntityRepository = (*EntityRepository)(nil)

// EntityRepository implements domain.EntityRepository over the four consumer
// tables, pairing the status mutation with job enqueueing in one transaction.
type EntityRepository struct {
	db       *sql.DB
	enqueuer JobEnqueuer
}

// NewEntityRepository creates an entity repository on the shared connection.
func NewEntityRepository(db *sql.DB, enqueuer JobEnqueuer) *EntityRepository {
	return &EntityRepository{db: db, enqueuer: enqueuer}
}

func (r *EntityRepository) Get(ctx context.Context, storeID int64, entityType domain.EntityType, id int64) (domain.Entity, error) {
	spec, ok := entityTables[entityType]
	if !ok {
		return domain.Entity{}, &domain.InvalidEntityTypeError{EntityType: entityType}
	}

	row := r.db.QueryRowContext(ctx,
		`SELECT id, store_id, status_id, status, `+spec.numberCol+`,
		        customer_email, vendor_email, assigned_email
		 FROM `+spec.table+` WHERE store_id = ? AND id = ?`,
		storeID, id,
	)

	e := domain.Entity{Type: entityType}
	var statusID sql.NullInt64
	var legacy sql.NullString
	err := row.Scan(&e.ID, &e.StoreID, &statusID, &legacy, &e.Number,
		&e.CustomerEmail, &e.VendorEmail, &e.AssignedEmail)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Entity{}, domain.ErrEntityNotFound
		}
		return domain.Entity{}, fmt.Errorf("scanning %s: %w", entityType, err)
	}

	if statusID.Valid {
		e.StatusID = &statusID.Int64
	}
	if legacy.Valid {
		e.LegacyStatus = &legacy.String
	}
	return e, nil
}

func (r *EntityRepository) Create(ctx context.Context, e domain.Entity) (domain.Entity, error) {
	spec, ok := entityTables[e.Type]
	if !ok {
		return domain.Entity{}, &domain.InvalidEntityTypeError{EntityType: e.Type}
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO `+spec.table+`
		 (store_id, status_id, status, `+spec.numberCol+`, customer_email, vendor_email, assigned_email)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.StoreID, e.StatusID, e.LegacyStatus, e.Number,
		e.CustomerEmail, e.VendorEmail, e.AssignedEmail,
	)
	if err != nil {
		return domain.Entity{}, fmt.Errorf("inserting %s: %w", e.Type, err)
	}

	e.ID, err = res.LastInsertId()
	if err != nil {
		return domain.Entity{}, fmt.Errorf("reading %s id: %w", e.Type, err)
	}
	return e, nil
}

func (r *EntityRepository) ApplyTransition(ctx context.Context, e *domain.Entity, target domain.Status, jobs []domain.Job) error {
	spec, ok := entityTables[e.Type]
	if !ok {
		return &domain.InvalidEntityTypeError{EntityType: e.Type}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transition transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE `+spec.table+` SET status_id = ?, status = ? WHERE store_id = ? AND id = ?`,
		target.ID, target.Slug, e.StoreID, e.ID,
	)
	if err != nil {
		return fmt.Errorf("updating %s %d: %w", e.Type, e.ID, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrEntityNotFound
	}

	if len(jobs) > 0 {
		if err := r.enqueuer.EnqueueTx(ctx, tx, jobs); err != nil {
			return fmt.Errorf("enqueuing automation jobs: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transition: %w", err)
	}

	// Keep the snapshot coherent with what was just committed.
	statusID := target.ID
	slug := target.Slug
	e.StatusID = &statusID
	e.LegacyStatus = &slug
	return nil
}
