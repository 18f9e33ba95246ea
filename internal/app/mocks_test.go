package app_test

import (
	"context"
	"fmt"

	"github.com/retailops/statusflow/internal/domain"
)

// --- Mocks ---

type mockStores struct {
	stores map[int64]domain.Store
	nextID int64
}

func newMockStores() *mockStores {
	return &mockStores{stores: make(map[int64]domain.Store)}
}

func (m *mockStores) Create(_ context.Context, s domain.Store) (domain.Store, error) {
	m.nextID++
	s.ID = m.nextID
	m.stores[s.ID] = s
	return s, nil
}

func (m *mockStores) GetByID(_ context.Context, id int64) (domain.Store, error) {
	s, ok := m.stores[id]
	if !ok {
		return domain.Store{}, domain.ErrStoreNotFound
	}
	return s, nil
}

func (m *mockStores) List(_ context.Context) ([]domain.Store, error) {
	out := make([]domain.Store, 0, len(m.stores))
	for _, s := range m.stores {
		out = append(out, s)
	}
	return out, nil
}

type mockCatalog struct {
	statuses    map[int64]domain.Status
	transitions map[int64]domain.StatusTransition
	automations map[int64][]domain.StatusAutomation // keyed by status id
	reordered   []int64
	nextID      int64
}

func newMockCatalog() *mockCatalog {
	return &mockCatalog{
		statuses:    make(map[int64]domain.Status),
		transitions: make(map[int64]domain.StatusTransition),
		automations: make(map[int64][]domain.StatusAutomation),
	}
}

// addStatus registers a status and returns it with an id assigned.
func (m *mockCatalog) addStatus(s domain.Status) domain.Status {
	m.nextID++
	s.ID = m.nextID
	m.statuses[s.ID] = s
	return s
}

func (m *mockCatalog) addTransition(t domain.StatusTransition) domain.StatusTransition {
	m.nextID++
	t.ID = m.nextID
	m.transitions[t.ID] = t
	return t
}

func (m *mockCatalog) ListStatuses(_ context.Context, storeID int64, entityType domain.EntityType) ([]domain.Status, error) {
	var out []domain.Status
	for id := int64(1); id <= m.nextID; id++ {
		s, ok := m.statuses[id]
		if ok && s.StoreID == storeID && s.EntityType == entityType {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockCatalog) GetStatus(_ context.Context, id int64) (domain.Status, error) {
	s, ok := m.statuses[id]
	if !ok {
		return domain.Status{}, domain.ErrStatusNotFound
	}
	return s, nil
}

func (m *mockCatalog) GetStatusBySlug(_ context.Context, storeID int64, entityType domain.EntityType, slug string) (domain.Status, error) {
	for _, s := range m.statuses {
		if s.StoreID == storeID && s.EntityType == entityType && s.Slug == slug {
			return s, nil
		}
	}
	return domain.Status{}, domain.ErrStatusNotFound
}

func (m *mockCatalog) CountStatuses(ctx context.Context, storeID int64, entityType domain.EntityType) (int, error) {
	statuses, _ := m.ListStatuses(ctx, storeID, entityType)
	return len(statuses), nil
}

func (m *mockCatalog) SeedGraph(_ context.Context, storeID int64, entityType domain.EntityType, graph domain.Graph) error {
	bySlug := make(map[string]int64, len(graph.Statuses))
	for i, def := range graph.Statuses {
		s := m.addStatus(domain.Status{
			StoreID:    storeID,
			EntityType: entityType,
			Slug:       def.Slug,
			Name:       def.Name,
			IsDefault:  def.IsDefault,
			IsFinal:    def.IsFinal,
			IsSystem:   true,
			SortOrder:  i,
		})
		bySlug[def.Slug] = s.ID
	}
	for _, edge := range graph.Edges {
		from, ok := bySlug[edge.From]
		if !ok {
			return fmt.Errorf("unknown edge source %q", edge.From)
		}
		to, ok := bySlug[edge.To]
		if !ok {
			return fmt.Errorf("unknown edge destination %q", edge.To)
		}
		m.addTransition(domain.StatusTransition{
			FromStatusID: from,
			ToStatusID:   to,
			Name:         edge.Name,
			IsEnabled:    true,
		})
	}
	return nil
}

func (m *mockCatalog) ReorderStatuses(_ context.Context, orderedIDs []int64) error {
	m.reordered = orderedIDs
	for i, id := range orderedIDs {
		s := m.statuses[id]
		s.SortOrder = i
		m.statuses[id] = s
	}
	return nil
}

func (m *mockCatalog) GetTransition(_ context.Context, fromStatusID, toStatusID int64) (domain.StatusTransition, error) {
	for _, t := range m.transitions {
		if t.FromStatusID == fromStatusID && t.ToStatusID == toStatusID {
			return t, nil
		}
	}
	return domain.StatusTransition{}, domain.ErrTransitionNotFound
}

func (m *mockCatalog) ListTransitions(_ context.Context, storeID int64, entityType domain.EntityType) ([]domain.StatusTransition, error) {
	var out []domain.StatusTransition
	for id := int64(1); id <= m.nextID; id++ {
		t, ok := m.transitions[id]
		if !ok {
			continue
		}
		from, ok := m.statuses[t.FromStatusID]
		if ok && from.StoreID == storeID && from.EntityType == entityType {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockCatalog) CreateTransition(_ context.Context, t domain.StatusTransition) (domain.StatusTransition, error) {
	return m.addTransition(t), nil
}

func (m *mockCatalog) SetTransitionEnabled(_ context.Context, id int64, enabled bool) error {
	t, ok := m.transitions[id]
	if !ok {
		return domain.ErrTransitionNotFound
	}
	t.IsEnabled = enabled
	m.transitions[id] = t
	return nil
}

func (m *mockCatalog) ListAutomations(_ context.Context, statusID int64, trigger domain.Trigger) ([]domain.StatusAutomation, error) {
	var out []domain.StatusAutomation
	for _, a := range m.automations[statusID] {
		if a.Trigger == trigger {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockCatalog) CreateAutomation(_ context.Context, a domain.StatusAutomation) (domain.StatusAutomation, error) {
	m.nextID++
	a.ID = m.nextID
	m.automations[a.StatusID] = append(m.automations[a.StatusID], a)
	return a, nil
}

// mockEntities records ApplyTransition calls and mutates the snapshot the way
// the real repository does.
type mockEntities struct {
	entities map[string]domain.Entity
	applied  []appliedTransition
	applyErr error
	nextID   int64
}

type appliedTransition struct {
	entityID int64
	target   domain.Status
	jobs     []domain.Job
}

func newMockEntities() *mockEntities {
	return &mockEntities{entities: make(map[string]domain.Entity)}
}

func entityKey(entityType domain.EntityType, id int64) string {
	return fmt.Sprintf("%s/%d", entityType, id)
}

func (m *mockEntities) Get(_ context.Context, storeID int64, entityType domain.EntityType, id int64) (domain.Entity, error) {
	e, ok := m.entities[entityKey(entityType, id)]
	if !ok || e.StoreID != storeID {
		return domain.Entity{}, domain.ErrEntityNotFound
	}
	return e, nil
}

func (m *mockEntities) Create(_ context.Context, e domain.Entity) (domain.Entity, error) {
	m.nextID++
	e.ID = m.nextID
	m.entities[entityKey(e.Type, e.ID)] = e
	return e, nil
}

func (m *mockEntities) ApplyTransition(_ context.Context, e *domain.Entity, target domain.Status, jobs []domain.Job) error {
	if m.applyErr != nil {
		return m.applyErr
	}

	m.applied = append(m.applied, appliedTransition{entityID: e.ID, target: target, jobs: jobs})

	statusID := target.ID
	slug := target.Slug
	e.StatusID = &statusID
	e.LegacyStatus = &slug
	m.entities[entityKey(e.Type, e.ID)] = *e
	return nil
}

// edgeValidator admits a move when a matching enabled edge exists. The FSM
// adapter has its own tests; this keeps the engine tests adapter-free.
type edgeValidator struct{}

func (edgeValidator) Allowed(_ context.Context, edges []domain.StatusTransition, fromStatusID, toStatusID int64) bool {
	for _, e := range edges {
		if e.FromStatusID == fromStatusID && e.ToStatusID == toStatusID && e.IsAllowed() {
			return true
		}
	}
	return false
}

// mockMigration serves unmigrated rows from a slice and records assignments.
type mockMigration struct {
	rows        map[domain.EntityType][]domain.LegacyRow
	assigned    map[domain.EntityType]map[int64]int64
	listCalls   int
	assignCalls int
}

func newMockMigration() *mockMigration {
	return &mockMigration{
		rows:     make(map[domain.EntityType][]domain.LegacyRow),
		assigned: make(map[domain.EntityType]map[int64]int64),
	}
}

func (m *mockMigration) CountEntities(_ context.Context, _ int64, entityType domain.EntityType) (int64, int64, error) {
	total := int64(len(m.rows[entityType]))
	migrated := int64(len(m.assigned[entityType]))
	return total, migrated, nil
}

func (m *mockMigration) ListUnmigrated(_ context.Context, _ int64, entityType domain.EntityType, afterID int64, limit int) ([]domain.LegacyRow, error) {
	m.listCalls++

	var out []domain.LegacyRow
	for _, row := range m.rows[entityType] {
		if row.ID <= afterID {
			continue
		}
		if _, done := m.assigned[entityType][row.ID]; done {
			continue
		}
		out = append(out, row)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *mockMigration) AssignStatuses(_ context.Context, entityType domain.EntityType, assignments map[int64]int64) error {
	m.assignCalls++

	if m.assigned[entityType] == nil {
		m.assigned[entityType] = make(map[int64]int64)
	}
	for id, statusID := range assignments {
		m.assigned[entityType][id] = statusID
	}
	return nil
}
