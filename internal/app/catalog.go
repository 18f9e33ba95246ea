package app

import (
	"context"
	"fmt"

	"github.com/retailops/statusflow/internal/domain"
)

// CatalogService manages the per-store status catalogs: listing, seeding the
// predefined graphs, reordering, and configuring edges and automations.
type CatalogService struct {
	stores  domain.StoreRepository
	catalog domain.CatalogRepository
}

// NewCatalogService creates a catalog service.
func NewCatalogService(stores domain.StoreRepository, catalog domain.CatalogRepository) *CatalogService {
	return &CatalogService{stores: stores, catalog: catalog}
}

// AvailableStatuses returns the store's statuses for one entity type, ordered
// by sort order.
func (s *CatalogService) AvailableStatuses(ctx context.Context, storeID int64, entityType domain.EntityType) ([]domain.Status, error) {
	if !entityType.Valid() {
		return nil, &domain.InvalidEntityTypeError{EntityType: entityType}
	}
	return s.catalog.ListStatuses(ctx, storeID, entityType)
}

// CreateDefaultStatuses seeds the predefined graph for (storeID, entityType)
// in one transaction. Callers are responsible for checking that the store has
// no statuses for this entity type yet; the unique index on
// (store_id, entity_type, slug) turns a double seed into an error rather
// than duplicate rows.
func (s *CatalogService) CreateDefaultStatuses(ctx context.Context, storeID int64, entityType domain.EntityType) error {
	if !entityType.Valid() {
		return &domain.InvalidEntityTypeError{EntityType: entityType}
	}
	if _, err := s.stores.GetByID(ctx, storeID); err != nil {
		return err
	}

	graph, ok := domain.DefaultGraph(entityType)
	if !ok {
		return &domain.InvalidEntityTypeError{EntityType: entityType}
	}

	if err := s.catalog.SeedGraph(ctx, storeID, entityType, graph); err != nil {
		return fmt.Errorf("seeding %s statuses for store %d: %w", entityType, storeID, err)
	}
	return nil
}

// ReorderStatuses rewrites sort_order to match the position of each id in
// orderedIDs. Every id must belong to (storeID, entityType); foreign ids are
// rejected before anything is written.
func (s *CatalogService) ReorderStatuses(ctx context.Context, storeID int64, entityType domain.EntityType, orderedIDs []int64) error {
	statuses, err := s.AvailableStatuses(ctx, storeID, entityType)
	if err != nil {
		return err
	}

	owned := make(map[int64]bool, len(statuses))
	for _, st := range statuses {
		owned[st.ID] = true
	}
	for _, id := range orderedIDs {
		if !owned[id] {
			return &domain.OwnershipError{StatusID: id, StoreID: storeID, EntityType: entityType}
		}
	}

	return s.catalog.ReorderStatuses(ctx, orderedIDs)
}

// ListTransitions returns the configured edges of one store's graph.
func (s *CatalogService) ListTransitions(ctx context.Context, storeID int64, entityType domain.EntityType) ([]domain.StatusTransition, error) {
	if !entityType.Valid() {
		return nil, &domain.InvalidEntityTypeError{EntityType: entityType}
	}
	return s.catalog.ListTransitions(ctx, storeID, entityType)
}

// CreateTransition adds an edge between two statuses owned by storeID. Edges
// across stores or across entity types are invalid.
func (s *CatalogService) CreateTransition(ctx context.Context, storeID int64, t domain.StatusTransition) (domain.StatusTransition, error) {
	from, err := s.catalog.GetStatus(ctx, t.FromStatusID)
	if err != nil {
		return domain.StatusTransition{}, fmt.Errorf("resolving from-status %d: %w", t.FromStatusID, err)
	}
	to, err := s.catalog.GetStatus(ctx, t.ToStatusID)
	if err != nil {
		return domain.StatusTransition{}, fmt.Errorf("resolving to-status %d: %w", t.ToStatusID, err)
	}

	if from.StoreID != to.StoreID || from.EntityType != to.EntityType {
		return domain.StatusTransition{}, &domain.GraphMismatchError{FromStatusID: from.ID, ToStatusID: to.ID}
	}
	if from.StoreID != storeID {
		return domain.StatusTransition{}, &domain.OwnershipError{StatusID: from.ID, StoreID: storeID, EntityType: from.EntityType}
	}

	return s.catalog.CreateTransition(ctx, t)
}

// SetTransitionEnabled toggles an edge. Disabling is a property of the edge,
// not a deletion: the configured graph survives the toggle.
func (s *CatalogService) SetTransitionEnabled(ctx context.Context, id int64, enabled bool) error {
	return s.catalog.SetTransitionEnabled(ctx, id, enabled)
}

// CreateAutomation attaches a side-effect binding to a status owned by
// storeID, after validating trigger, action type, and config shape.
func (s *CatalogService) CreateAutomation(ctx context.Context, storeID int64, a domain.StatusAutomation) (domain.StatusAutomation, error) {
	if !a.Trigger.Valid() {
		return domain.StatusAutomation{}, fmt.Errorf("unknown trigger %q", a.Trigger)
	}
	if !a.ActionType.Valid() {
		return domain.StatusAutomation{}, fmt.Errorf("unknown action type %q", a.ActionType)
	}

	status, err := s.catalog.GetStatus(ctx, a.StatusID)
	if err != nil {
		return domain.StatusAutomation{}, fmt.Errorf("resolving status %d: %w", a.StatusID, err)
	}
	if status.StoreID != storeID {
		return domain.StatusAutomation{}, &domain.OwnershipError{StatusID: status.ID, StoreID: storeID, EntityType: status.EntityType}
	}

	// Reject configs that would only fail later, at execution time.
	switch a.ActionType {
	case domain.ActionNotification:
		if _, err := a.DecodeNotification(); err != nil {
			return domain.StatusAutomation{}, err
		}
	case domain.ActionWebhook:
		cfg, err := a.DecodeWebhook()
		if err != nil {
			return domain.StatusAutomation{}, err
		}
		if cfg.URL == "" {
			return domain.StatusAutomation{}, fmt.Errorf("webhook automation requires a url")
		}
	case domain.ActionCustom:
		cfg, err := a.DecodeCustom()
		if err != nil {
			return domain.StatusAutomation{}, err
		}
		if cfg.Action == "" {
			return domain.StatusAutomation{}, fmt.Errorf("custom automation requires an action name")
		}
	}

	return s.catalog.CreateAutomation(ctx, a)
}
