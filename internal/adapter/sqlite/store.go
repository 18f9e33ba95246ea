package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/retailops/statusflow/internal/domain"
)

// Compile-time check: StoreRepository implements domain.StoreRepository.
var _ domain.StoreRepository = (*StoreRepository)(nil)

// StoreRepository implements domain.StoreRepository using SQLite.
type StoreRepository struct {
	db *sql.DB
}

// NewStoreRepository creates a store repository on the shared connection.
func NewStoreRepository(db *sql.DB) *StoreRepository {
	return &StoreRepository{db: db}
}

func (r *StoreRepository) Create(ctx context.Context, s domain.Store) (domain.Store, error) {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO stores (name, slug, owner_email, created_at) VALUES (?, ?, ?, ?)`,
		s.Name, s.Slug, s.OwnerEmail, s.CreatedAt.Format(timeFormat),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Store{}, &domain.SlugConflictError{Slug: s.Slug}
		}
		return domain.Store{}, fmt.Errorf("inserting store: %w", err)
	}

	s.ID, err = res.LastInsertId()
	if err != nil {
		return domain.Store{}, fmt.Errorf("reading store id: %w", err)
	}
	return s, nil
}

func (r *StoreRepository) GetByID(ctx context.Context, id int64) (domain.Store, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, slug, owner_email, created_at FROM stores WHERE id = ?`, id)

	var s domain.Store
	var createdAt string
	if err := row.Scan(&s.ID, &s.Name, &s.Slug, &s.OwnerEmail, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return domain.Store{}, domain.ErrStoreNotFound
		}
		return domain.Store{}, fmt.Errorf("scanning store: %w", err)
	}
	s.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	return s, nil
}

func (r *StoreRepository) List(ctx context.Context) ([]domain.Store, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, slug, owner_email, created_at FROM stores ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing stores: %w", err)
	}
	defer rows.Close()

	var out []domain.Store
	for rows.Next() {
		var s domain.Store
		var createdAt string
		if err := rows.Scan(&s.ID, &s.Name, &s.Slug, &s.OwnerEmail, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning store row: %w", err)
		}
		s.CreatedAt, _ = time.Parse(timeFormat, createdAt)
		out = append(out, s)
	}
	return out, rows.Err()
}
