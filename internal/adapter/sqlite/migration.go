package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/retailops/statusflow/internal/domain"
)

// Compile-time check: MigrationRepository implements domain.MigrationRepository.
var _ domain.MigrationRepository = (*MigrationRepository)(nil)

// MigrationRepository implements the bulk legacy-status conversion queries.
type MigrationRepository struct {
	db *sql.DB
}

// NewMigrationRepository creates a migration repository on the shared connection.
func NewMigrationRepository(db *sql.DB) *MigrationRepository {
	return &MigrationRepository{db: db}
}

func (r *MigrationRepository) CountEntities(ctx context.Context, storeID int64, entityType domain.EntityType) (int64, int64, error) {
	spec, ok := entityTables[entityType]
	if !ok {
		return 0, 0, &domain.InvalidEntityTypeError{EntityType: entityType}
	}

	var total, migrated int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(status_id) FROM `+spec.table+` WHERE store_id = ?`,
		storeID,
	).Scan(&total, &migrated)
	if err != nil {
		return 0, 0, fmt.Errorf("counting %s: %w", entityType, err)
	}
	return total, migrated, nil
}

func (r *MigrationRepository) ListUnmigrated(ctx context.Context, storeID int64, entityType domain.EntityType, afterID int64, limit int) ([]domain.LegacyRow, error) {
	spec, ok := entityTables[entityType]
	if !ok {
		return nil, &domain.InvalidEntityTypeError{EntityType: entityType}
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, status FROM `+spec.table+`
		 WHERE store_id = ? AND status_id IS NULL AND status IS NOT NULL AND id > ?
		 ORDER BY id LIMIT ?`,
		storeID, afterID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing unmigrated %s: %w", entityType, err)
	}
	defer rows.Close()

	var out []domain.LegacyRow
	for rows.Next() {
		var row domain.LegacyRow
		if err := rows.Scan(&row.ID, &row.LegacyStatus); err != nil {
			return nil, fmt.Errorf("scanning unmigrated row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// AssignStatuses rewrites status_id for the given ids in one statement:
// UPDATE t SET status_id = CASE id WHEN ? THEN ? ... END WHERE id IN (...).
func (r *MigrationRepository) AssignStatuses(ctx context.Context, entityType domain.EntityType, assignments map[int64]int64) error {
	if len(assignments) == 0 {
		return nil
	}
	spec, ok := entityTables[entityType]
	if !ok {
		return &domain.InvalidEntityTypeError{EntityType: entityType}
	}

	ids := make([]int64, 0, len(assignments))
	for id := range assignments {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var b strings.Builder
	args := make([]any, 0, len(ids)*3)

	b.WriteString("UPDATE " + spec.table + " SET status_id = CASE id")
	for _, id := range ids {
		b.WriteString(" WHEN ? THEN ?")
		args = append(args, id, assignments[id])
	}
	b.WriteString(" END WHERE id IN (")
	for i, id := range ids {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("?")
		args = append(args, id)
	}
	b.WriteString(")")

	if _, err := r.db.ExecContext(ctx, b.String(), args...); err != nil {
		return fmt.Errorf("assigning %s statuses: %w", entityType, err)
	}
	return nil
}
