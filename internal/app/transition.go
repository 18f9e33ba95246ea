package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/retailops/statusflow/internal/domain"
)

// TransitionService is the engine orchestrator: it decides whether a
// requested move is legal, and if so applies it atomically together with the
// automation jobs it produces.
type TransitionService struct {
	stores    domain.StoreRepository
	catalog   domain.CatalogRepository
	entities  domain.EntityRepository
	validator domain.TransitionValidator
	executor  *AutomationExecutor
}

// NewTransitionService creates the engine with the given adapters.
func NewTransitionService(stores domain.StoreRepository, catalog domain.CatalogRepository, entities domain.EntityRepository, validator domain.TransitionValidator, executor *AutomationExecutor) *TransitionService {
	return &TransitionService{
		stores:    stores,
		catalog:   catalog,
		entities:  entities,
		validator: validator,
		executor:  executor,
	}
}

// Transition moves e to the status named by targetSlug.
//
// An illegal transition (unknown target, missing or disabled edge, missing
// required field) returns (false, nil) with no mutation: rejection is an
// expected business outcome, not an error. A non-nil error means the engine
// could not decide or could not persist; in that case nothing was committed.
//
// On success e's StatusID and LegacyStatus are updated in place and always
// agree, and the exit/enter automation jobs are queued behind the same
// commit.
func (s *TransitionService) Transition(ctx context.Context, e *domain.Entity, targetSlug string, data map[string]any) (bool, error) {
	target, err := s.catalog.GetStatusBySlug(ctx, e.StoreID, e.Type, targetSlug)
	if err != nil {
		if errors.Is(err, domain.ErrStatusNotFound) {
			slog.DebugContext(ctx, "transition rejected: unknown target status",
				"store_id", e.StoreID, "entity_type", e.Type, "entity_id", e.ID, "target", targetSlug)
			return false, nil
		}
		return false, fmt.Errorf("resolving target status %q: %w", targetSlug, err)
	}

	// An entity with no current status may move anywhere: there is no edge
	// to check, no fields to gate, and no exit automations to run.
	var from *domain.Status
	if e.StatusID != nil {
		current, err := s.catalog.GetStatus(ctx, *e.StatusID)
		if err != nil {
			return false, fmt.Errorf("resolving current status %d: %w", *e.StatusID, err)
		}
		from = &current

		edges, err := s.catalog.ListTransitions(ctx, e.StoreID, e.Type)
		if err != nil {
			return false, fmt.Errorf("loading transition graph: %w", err)
		}

		if !s.validator.Allowed(ctx, edges, current.ID, target.ID) {
			return false, nil
		}

		edge, ok := findEdge(edges, current.ID, target.ID)
		if !ok {
			// The validator only admits configured edges, so this is
			// unreachable short of a concurrent catalog edit.
			return false, nil
		}
		if missing := edge.MissingFields(data); len(missing) > 0 {
			slog.DebugContext(ctx, "transition rejected: missing required fields",
				"store_id", e.StoreID, "entity_type", e.Type, "entity_id", e.ID,
				"from", current.Slug, "to", target.Slug, "missing", missing)
			return false, nil
		}
	}

	store, err := s.stores.GetByID(ctx, e.StoreID)
	if err != nil {
		return false, fmt.Errorf("loading store %d: %w", e.StoreID, err)
	}

	// Exit jobs are collected before enter jobs so they also enqueue in
	// that order within the one transaction.
	var jobs []domain.Job
	if from != nil {
		exits, err := s.catalog.ListAutomations(ctx, from.ID, domain.TriggerOnExit)
		if err != nil {
			return false, fmt.Errorf("loading exit automations: %w", err)
		}
		jobs = append(jobs, s.executor.BuildJobs(ctx, exits, store, *e, from, target)...)
	}

	enters, err := s.catalog.ListAutomations(ctx, target.ID, domain.TriggerOnEnter)
	if err != nil {
		return false, fmt.Errorf("loading enter automations: %w", err)
	}
	jobs = append(jobs, s.executor.BuildJobs(ctx, enters, store, *e, from, target)...)

	if err := s.entities.ApplyTransition(ctx, e, target, jobs); err != nil {
		return false, fmt.Errorf("applying transition to %q: %w", target.Slug, err)
	}

	return true, nil
}

func findEdge(edges []domain.StatusTransition, fromID, toID int64) (domain.StatusTransition, bool) {
	for _, e := range edges {
		if e.FromStatusID == fromID && e.ToStatusID == toID {
			return e, true
		}
	}
	return domain.StatusTransition{}, false
}
