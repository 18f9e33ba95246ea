package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/retailops/statusflow/internal/domain"
)

// Compile-time check: CatalogRepository implements domain.CatalogRepository.
var _ domain.CatalogRepository = (*CatalogRepository)(nil)

// CatalogRepository implements domain.CatalogRepository using SQLite.
type CatalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a catalog repository on the shared connection.
func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

const statusColumns = `id, store_id, entity_type, slug, name, color, icon, description,
	is_default, is_final, is_system, sort_order, behavior`

func (r *CatalogRepository) ListStatuses(ctx context.Context, storeID int64, entityType domain.EntityType) ([]domain.Status, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+statusColumns+` FROM statuses
		 WHERE store_id = ? AND entity_type = ?
		 ORDER BY sort_order, id`,
		storeID, string(entityType),
	)
	if err != nil {
		return nil, fmt.Errorf("listing statuses: %w", err)
	}
	defer rows.Close()

	var out []domain.Status
	for rows.Next() {
		s, err := scanStatus(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *CatalogRepository) GetStatus(ctx context.Context, id int64) (domain.Status, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+statusColumns+` FROM statuses WHERE id = ?`, id)
	if err != nil {
		return domain.Status{}, fmt.Errorf("querying status: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return domain.Status{}, err
		}
		return domain.Status{}, domain.ErrStatusNotFound
	}
	return scanStatus(rows)
}

func (r *CatalogRepository) GetStatusBySlug(ctx context.Context, storeID int64, entityType domain.EntityType, slug string) (domain.Status, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+statusColumns+` FROM statuses
		 WHERE store_id = ? AND entity_type = ? AND slug = ?`,
		storeID, string(entityType), slug,
	)
	if err != nil {
		return domain.Status{}, fmt.Errorf("querying status by slug: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return domain.Status{}, err
		}
		return domain.Status{}, domain.ErrStatusNotFound
	}
	return scanStatus(rows)
}

func (r *CatalogRepository) CountStatuses(ctx context.Context, storeID int64, entityType domain.EntityType) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM statuses WHERE store_id = ? AND entity_type = ?`,
		storeID, string(entityType),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting statuses: %w", err)
	}
	return n, nil
}

func (r *CatalogRepository) SeedGraph(ctx context.Context, storeID int64, entityType domain.EntityType, graph domain.Graph) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer tx.Rollback()

	idsBySlug := make(map[string]int64, len(graph.Statuses))
	for i, def := range graph.Statuses {
		behavior, err := json.Marshal(nonNilBehavior(def.Behavior))
		if err != nil {
			return fmt.Errorf("encoding behavior for %q: %w", def.Slug, err)
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO statuses
			 (store_id, entity_type, slug, name, color, icon, description,
			  is_default, is_final, is_system, sort_order, behavior)
			 VALUES (?, ?, ?, ?, ?, ?, '', ?, ?, 1, ?, ?)`,
			storeID, string(entityType), def.Slug, def.Name, def.Color, def.Icon,
			def.IsDefault, def.IsFinal, i, string(behavior),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return &domain.SlugConflictError{Slug: def.Slug}
			}
			return fmt.Errorf("inserting status %q: %w", def.Slug, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading status id: %w", err)
		}
		idsBySlug[def.Slug] = id
	}

	for _, edge := range graph.Edges {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO status_transitions
			 (from_status_id, to_status_id, name, is_enabled, required_fields)
			 VALUES (?, ?, ?, 1, '{}')`,
			idsBySlug[edge.From], idsBySlug[edge.To], edge.Name,
		)
		if err != nil {
			return fmt.Errorf("inserting edge %s -> %s: %w", edge.From, edge.To, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seed: %w", err)
	}
	return nil
}

func (r *CatalogRepository) ReorderStatuses(ctx context.Context, orderedIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning reorder transaction: %w", err)
	}
	defer tx.Rollback()

	for position, id := range orderedIDs {
		if _, err := tx.ExecContext(ctx,
			`UPDATE statuses SET sort_order = ? WHERE id = ?`, position, id); err != nil {
			return fmt.Errorf("reordering status %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing reorder: %w", err)
	}
	return nil
}

const transitionColumns = `id, from_status_id, to_status_id, name, is_enabled, required_fields`

func (r *CatalogRepository) GetTransition(ctx context.Context, fromStatusID, toStatusID int64) (domain.StatusTransition, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transitionColumns+` FROM status_transitions
		 WHERE from_status_id = ? AND to_status_id = ?`,
		fromStatusID, toStatusID,
	)
	if err != nil {
		return domain.StatusTransition{}, fmt.Errorf("querying transition: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return domain.StatusTransition{}, err
		}
		return domain.StatusTransition{}, domain.ErrTransitionNotFound
	}
	return scanTransition(rows)
}

func (r *CatalogRepository) ListTransitions(ctx context.Context, storeID int64, entityType domain.EntityType) ([]domain.StatusTransition, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT t.id, t.from_status_id, t.to_status_id, t.name, t.is_enabled, t.required_fields
		 FROM status_transitions t
		 JOIN statuses s ON s.id = t.from_status_id
		 WHERE s.store_id = ? AND s.entity_type = ?
		 ORDER BY t.id`,
		storeID, string(entityType),
	)
	if err != nil {
		return nil, fmt.Errorf("listing transitions: %w", err)
	}
	defer rows.Close()

	var out []domain.StatusTransition
	for rows.Next() {
		t, err := scanTransition(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *CatalogRepository) CreateTransition(ctx context.Context, t domain.StatusTransition) (domain.StatusTransition, error) {
	fields, err := json.Marshal(nonNilFields(t.RequiredFields))
	if err != nil {
		return domain.StatusTransition{}, fmt.Errorf("encoding required fields: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO status_transitions
		 (from_status_id, to_status_id, name, is_enabled, required_fields)
		 VALUES (?, ?, ?, ?, ?)`,
		t.FromStatusID, t.ToStatusID, t.Name, t.IsEnabled, string(fields),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.StatusTransition{}, fmt.Errorf("edge %d -> %d already exists", t.FromStatusID, t.ToStatusID)
		}
		return domain.StatusTransition{}, fmt.Errorf("inserting transition: %w", err)
	}

	t.ID, err = res.LastInsertId()
	if err != nil {
		return domain.StatusTransition{}, fmt.Errorf("reading transition id: %w", err)
	}
	return t, nil
}

func (r *CatalogRepository) SetTransitionEnabled(ctx context.Context, id int64, enabled bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE status_transitions SET is_enabled = ? WHERE id = ?`, enabled, id)
	if err != nil {
		return fmt.Errorf("updating transition %d: %w", id, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrTransitionNotFound
	}
	return nil
}

func (r *CatalogRepository) ListAutomations(ctx context.Context, statusID int64, trigger domain.Trigger) ([]domain.StatusAutomation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, status_id, "trigger", action_type, is_enabled, config
		 FROM status_automations
		 WHERE status_id = ? AND "trigger" = ?
		 ORDER BY id`,
		statusID, string(trigger),
	)
	if err != nil {
		return nil, fmt.Errorf("listing automations: %w", err)
	}
	defer rows.Close()

	var out []domain.StatusAutomation
	for rows.Next() {
		var a domain.StatusAutomation
		var trigger, actionType, config string
		if err := rows.Scan(&a.ID, &a.StatusID, &trigger, &actionType, &a.IsEnabled, &config); err != nil {
			return nil, fmt.Errorf("scanning automation row: %w", err)
		}
		a.Trigger = domain.Trigger(trigger)
		a.ActionType = domain.ActionType(actionType)
		a.Config = json.RawMessage(config)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *CatalogRepository) CreateAutomation(ctx context.Context, a domain.StatusAutomation) (domain.StatusAutomation, error) {
	config := a.Config
	if len(config) == 0 {
		config = json.RawMessage(`{}`)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO status_automations (status_id, "trigger", action_type, is_enabled, config)
		 VALUES (?, ?, ?, ?, ?)`,
		a.StatusID, string(a.Trigger), string(a.ActionType), a.IsEnabled, string(config),
	)
	if err != nil {
		return domain.StatusAutomation{}, fmt.Errorf("inserting automation: %w", err)
	}

	a.ID, err = res.LastInsertId()
	if err != nil {
		return domain.StatusAutomation{}, fmt.Errorf("reading automation id: %w", err)
	}
	return a, nil
}

func scanStatus(rows *sql.Rows) (domain.Status, error) {
	var s domain.Status
	var entityType, behavior string

	err := rows.Scan(&s.ID, &s.StoreID, &entityType, &s.Slug, &s.Name, &s.Color, &s.Icon,
		&s.Description, &s.IsDefault, &s.IsFinal, &s.IsSystem, &s.SortOrder, &behavior)
	if err != nil {
		return domain.Status{}, fmt.Errorf("scanning status row: %w", err)
	}

	s.EntityType = domain.EntityType(entityType)
	if err := json.Unmarshal([]byte(behavior), &s.Behavior); err != nil {
		return domain.Status{}, fmt.Errorf("decoding behavior for status %d: %w", s.ID, err)
	}
	return s, nil
}

func scanTransition(rows *sql.Rows) (domain.StatusTransition, error) {
	var t domain.StatusTransition
	var fields string

	err := rows.Scan(&t.ID, &t.FromStatusID, &t.ToStatusID, &t.Name, &t.IsEnabled, &fields)
	if err != nil {
		return domain.StatusTransition{}, fmt.Errorf("scanning transition row: %w", err)
	}

	if err := json.Unmarshal([]byte(fields), &t.RequiredFields); err != nil {
		return domain.StatusTransition{}, fmt.Errorf("decoding required fields for transition %d: %w", t.ID, err)
	}
	return t, nil
}

func nonNilBehavior(b domain.Behavior) domain.Behavior {
	if b == nil {
		return domain.Behavior{}
	}
	return b
}

func nonNilFields(f domain.RequiredFields) domain.RequiredFields {
	if f == nil {
		return domain.RequiredFields{}
	}
	return f
}
