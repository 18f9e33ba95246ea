package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/retailops/statusflow/internal/app"
	"github.com/retailops/statusflow/internal/domain"
)

// Services bundles everything the API operations need.
type Services struct {
	Stores     domain.StoreRepository
	Entities   domain.EntityRepository
	Catalog    *app.CatalogService
	Transition *app.TransitionService
	Migration  *app.MigrationService
}

// --- Responses ---

// StoreResponse is the API representation of a store (tenant).
type StoreResponse struct {
	ID         int64  `json:"id" doc:"Unique identifier"`
	Name       string `json:"name" doc:"Display name"`
	Slug       string `json:"slug" doc:"URL-friendly identifier"`
	OwnerEmail string `json:"owner_email" doc:"Owner notification address"`
	CreatedAt  string `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
}

func toStoreResponse(s domain.Store) StoreResponse {
	return StoreResponse{
		ID:         s.ID,
		Name:       s.Name,
		Slug:       s.Slug,
		OwnerEmail: s.OwnerEmail,
		CreatedAt:  s.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// StatusResponse is the API representation of a catalog status.
type StatusResponse struct {
	ID         int64           `json:"id" doc:"Unique identifier"`
	EntityType string          `json:"entity_type" doc:"Entity kind this status belongs to"`
	Slug       string          `json:"slug" doc:"Stable identifier within the catalog"`
	Name       string          `json:"name" doc:"Display name"`
	Color      string          `json:"color,omitempty" doc:"Display color"`
	Icon       string          `json:"icon,omitempty" doc:"Display icon"`
	IsDefault  bool            `json:"is_default" doc:"Initial state for new entities"`
	IsFinal    bool            `json:"is_final" doc:"Terminal state (advisory; the graph enforces)"`
	IsSystem   bool            `json:"is_system" doc:"Seeded, not user-deletable"`
	SortOrder  int             `json:"sort_order" doc:"Catalog position"`
	Behavior   domain.Behavior `json:"behavior,omitempty" doc:"Named behavior flags"`
}

func toStatusResponse(s domain.Status) StatusResponse {
	return StatusResponse{
		ID:         s.ID,
		EntityType: string(s.EntityType),
		Slug:       s.Slug,
		Name:       s.Name,
		Color:      s.Color,
		Icon:       s.Icon,
		IsDefault:  s.IsDefault,
		IsFinal:    s.IsFinal,
		IsSystem:   s.IsSystem,
		SortOrder:  s.SortOrder,
		Behavior:   s.Behavior,
	}
}

// TransitionResponse is the API representation of a configured edge.
type TransitionResponse struct {
	ID             int64                 `json:"id" doc:"Unique identifier"`
	FromStatusID   int64                 `json:"from_status_id" doc:"Source status"`
	ToStatusID     int64                 `json:"to_status_id" doc:"Destination status"`
	Name           string                `json:"name,omitempty" doc:"Display name"`
	IsEnabled      bool                  `json:"is_enabled" doc:"Whether the edge is usable"`
	RequiredFields domain.RequiredFields `json:"required_fields,omitempty" doc:"Field gating configuration"`
}

func toTransitionResponse(t domain.StatusTransition) TransitionResponse {
	return TransitionResponse{
		ID:             t.ID,
		FromStatusID:   t.FromStatusID,
		ToStatusID:     t.ToStatusID,
		Name:           t.Name,
		IsEnabled:      t.IsEnabled,
		RequiredFields: t.RequiredFields,
	}
}

// EntityResponse is the API representation of a transitionable record.
type EntityResponse struct {
	ID         int64   `json:"id" doc:"Unique identifier"`
	StoreID    int64   `json:"store_id" doc:"Owning store"`
	EntityType string  `json:"entity_type" doc:"Record kind"`
	StatusID   *int64  `json:"status_id" doc:"Catalog status reference"`
	Status     *string `json:"status" doc:"Legacy status string (kept in sync)"`
	Number     string  `json:"number,omitempty" doc:"Business identifier"`
}

func toEntityResponse(e domain.Entity) EntityResponse {
	return EntityResponse{
		ID:         e.ID,
		StoreID:    e.StoreID,
		EntityType: string(e.Type),
		StatusID:   e.StatusID,
		Status:     e.LegacyStatus,
		Number:     e.Number,
	}
}

// --- Inputs/Outputs ---

type CreateStoreInput struct {
	Body struct {
		Name       string `json:"name" minLength:"1" maxLength:"255" doc:"Display name"`
		Slug       string `json:"slug" minLength:"1" maxLength:"100" pattern:"^[a-z0-9]+(?:-[a-z0-9]+)*$" doc:"URL-friendly identifier (lowercase, hyphens)"`
		OwnerEmail string `json:"owner_email,omitempty" format:"email" doc:"Owner notification address"`
	}
}

type CreateStoreOutput struct {
	Body StoreResponse
}

type ListStoresOutput struct {
	Body []StoreResponse
}

type ListStatusesInput struct {
	StoreID    int64  `path:"store_id" doc:"Store ID"`
	EntityType string `query:"entity_type" enum:"transaction,order,repair,memo" doc:"Entity kind"`
}

type ListStatusesOutput struct {
	Body []StatusResponse
}

type SeedDefaultsInput struct {
	StoreID int64 `path:"store_id" doc:"Store ID"`
	Body    struct {
		EntityType string `json:"entity_type" enum:"transaction,order,repair,memo" doc:"Entity kind to seed"`
	}
}

type SeedDefaultsOutput struct {
	Body []StatusResponse
}

type ReorderStatusesInput struct {
	StoreID int64 `path:"store_id" doc:"Store ID"`
	Body    struct {
		EntityType string  `json:"entity_type" enum:"transaction,order,repair,memo" doc:"Entity kind"`
		OrderedIDs []int64 `json:"ordered_ids" minItems:"1" doc:"Status ids in the desired order"`
	}
}

type ReorderStatusesOutput struct {
	Body []StatusResponse
}

type ListTransitionsInput struct {
	StoreID    int64  `path:"store_id" doc:"Store ID"`
	EntityType string `query:"entity_type" enum:"transaction,order,repair,memo" doc:"Entity kind"`
}

type ListTransitionsOutput struct {
	Body []TransitionResponse
}

type CreateTransitionInput struct {
	StoreID int64 `path:"store_id" doc:"Store ID"`
	Body    struct {
		FromStatusID   int64                 `json:"from_status_id" doc:"Source status"`
		ToStatusID     int64                 `json:"to_status_id" doc:"Destination status"`
		Name           string                `json:"name,omitempty" doc:"Display name"`
		RequiredFields domain.RequiredFields `json:"required_fields,omitempty" doc:"Field gating configuration"`
	}
}

type CreateTransitionOutput struct {
	Body TransitionResponse
}

type ToggleTransitionInput struct {
	ID   int64 `path:"id" doc:"Transition ID"`
	Body struct {
		IsEnabled bool `json:"is_enabled" doc:"Whether the edge is usable"`
	}
}

type ToggleTransitionOutput struct {
	Body struct {
		ID        int64 `json:"id"`
		IsEnabled bool  `json:"is_enabled"`
	}
}

type CreateAutomationInput struct {
	StoreID int64 `path:"store_id" doc:"Store ID"`
	Body    struct {
		StatusID   int64           `json:"status_id" doc:"Status the automation is bound to"`
		Trigger    string          `json:"trigger" enum:"on_enter,on_exit" doc:"When the automation fires"`
		ActionType string          `json:"action_type" enum:"notification,webhook,custom" doc:"Side-effect kind"`
		Config     json.RawMessage `json:"config" doc:"Action-specific configuration"`
	}
}

type CreateAutomationOutput struct {
	Body struct {
		ID         int64  `json:"id"`
		StatusID   int64  `json:"status_id"`
		Trigger    string `json:"trigger"`
		ActionType string `json:"action_type"`
	}
}

type CreateEntityInput struct {
	StoreID    int64  `path:"store_id" doc:"Store ID"`
	EntityType string `path:"entity_type" enum:"transaction,order,repair,memo" doc:"Record kind"`
	Body       struct {
		Number        string `json:"number,omitempty" doc:"Business identifier"`
		LegacyStatus  string `json:"legacy_status,omitempty" doc:"Pre-catalog status string"`
		CustomerEmail string `json:"customer_email,omitempty" format:"email" doc:"Customer contact"`
		VendorEmail   string `json:"vendor_email,omitempty" format:"email" doc:"Vendor contact"`
		AssignedEmail string `json:"assigned_email,omitempty" format:"email" doc:"Assigned user contact"`
	}
}

type CreateEntityOutput struct {
	Body EntityResponse
}

type TransitionEntityInput struct {
	StoreID    int64  `path:"store_id" doc:"Store ID"`
	EntityType string `path:"entity_type" enum:"transaction,order,repair,memo" doc:"Record kind"`
	ID         int64  `path:"id" doc:"Entity ID"`
	Body       struct {
		Target string         `json:"target" minLength:"1" doc:"Target status slug"`
		Data   map[string]any `json:"data,omitempty" doc:"Caller-supplied fields for edge gating"`
	}
}

type TransitionEntityOutput struct {
	Body EntityResponse
}

type MigrateStoreInput struct {
	StoreID int64 `path:"store_id" doc:"Store ID"`
}

type MigrateStoreOutput struct {
	Body map[string]app.MigrationReport
}

type VerifyMigrationInput struct {
	StoreID int64 `path:"store_id" doc:"Store ID"`
}

type VerifyMigrationOutput struct {
	Body map[string]app.MigrationReport
}

// Register adds all API routes to the Huma API.
func Register(api huma.API, svc Services) {
	huma.Register(api, huma.Operation{
		OperationID: "create-store",
		Method:      http.MethodPost,
		Path:        "/api/v1/stores",
		Summary:     "Create a new store",
		Tags:        []string{"Stores"},
	}, func(ctx context.Context, input *CreateStoreInput) (*CreateStoreOutput, error) {
		store, err := svc.Stores.Create(ctx, domain.Store{
			Name:       input.Body.Name,
			Slug:       input.Body.Slug,
			OwnerEmail: input.Body.OwnerEmail,
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		return &CreateStoreOutput{Body: toStoreResponse(store)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-stores",
		Method:      http.MethodGet,
		Path:        "/api/v1/stores",
		Summary:     "List stores",
		Tags:        []string{"Stores"},
	}, func(ctx context.Context, _ *struct{}) (*ListStoresOutput, error) {
		stores, err := svc.Stores.List(ctx)
		if err != nil {
			return nil, toHumaError(err)
		}
		resp := make([]StoreResponse, len(stores))
		for i, s := range stores {
			resp[i] = toStoreResponse(s)
		}
		return &ListStoresOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-statuses",
		Method:      http.MethodGet,
		Path:        "/api/v1/stores/{store_id}/statuses",
		Summary:     "List a store's statuses for one entity type",
		Tags:        []string{"Statuses"},
	}, func(ctx context.Context, input *ListStatusesInput) (*ListStatusesOutput, error) {
		statuses, err := svc.Catalog.AvailableStatuses(ctx, input.StoreID, domain.EntityType(input.EntityType))
		if err != nil {
			return nil, toHumaError(err)
		}
		resp := make([]StatusResponse, len(statuses))
		for i, s := range statuses {
			resp[i] = toStatusResponse(s)
		}
		return &ListStatusesOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "seed-default-statuses",
		Method:      http.MethodPost,
		Path:        "/api/v1/stores/{store_id}/statuses/defaults",
		Summary:     "Seed the predefined status graph for one entity type",
		Tags:        []string{"Statuses"},
	}, func(ctx context.Context, input *SeedDefaultsInput) (*SeedDefaultsOutput, error) {
		entityType := domain.EntityType(input.Body.EntityType)

		// Seeding is caller-guarded: only for a store with an empty
		// catalog for this entity type.
		existing, err := svc.Catalog.AvailableStatuses(ctx, input.StoreID, entityType)
		if err != nil {
			return nil, toHumaError(err)
		}
		if len(existing) > 0 {
			return nil, huma.Error409Conflict("statuses already exist for this entity type")
		}

		if err := svc.Catalog.CreateDefaultStatuses(ctx, input.StoreID, entityType); err != nil {
			return nil, toHumaError(err)
		}

		statuses, err := svc.Catalog.AvailableStatuses(ctx, input.StoreID, entityType)
		if err != nil {
			return nil, toHumaError(err)
		}
		resp := make([]StatusResponse, len(statuses))
		for i, s := range statuses {
			resp[i] = toStatusResponse(s)
		}
		return &SeedDefaultsOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "reorder-statuses",
		Method:      http.MethodPut,
		Path:        "/api/v1/stores/{store_id}/statuses/reorder",
		Summary:     "Reorder a store's statuses",
		Tags:        []string{"Statuses"},
	}, func(ctx context.Context, input *ReorderStatusesInput) (*ReorderStatusesOutput, error) {
		entityType := domain.EntityType(input.Body.EntityType)

		if err := svc.Catalog.ReorderStatuses(ctx, input.StoreID, entityType, input.Body.OrderedIDs); err != nil {
			return nil, toHumaError(err)
		}

		statuses, err := svc.Catalog.AvailableStatuses(ctx, input.StoreID, entityType)
		if err != nil {
			return nil, toHumaError(err)
		}
		resp := make([]StatusResponse, len(statuses))
		for i, s := range statuses {
			resp[i] = toStatusResponse(s)
		}
		return &ReorderStatusesOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-transitions",
		Method:      http.MethodGet,
		Path:        "/api/v1/stores/{store_id}/transitions",
		Summary:     "List a store's configured transitions",
		Tags:        []string{"Transitions"},
	}, func(ctx context.Context, input *ListTransitionsInput) (*ListTransitionsOutput, error) {
		edges, err := svc.Catalog.ListTransitions(ctx, input.StoreID, domain.EntityType(input.EntityType))
		if err != nil {
			return nil, toHumaError(err)
		}
		resp := make([]TransitionResponse, len(edges))
		for i, t := range edges {
			resp[i] = toTransitionResponse(t)
		}
		return &ListTransitionsOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-transition",
		Method:      http.MethodPost,
		Path:        "/api/v1/stores/{store_id}/transitions",
		Summary:     "Add a transition edge between two statuses",
		Tags:        []string{"Transitions"},
	}, func(ctx context.Context, input *CreateTransitionInput) (*CreateTransitionOutput, error) {
		created, err := svc.Catalog.CreateTransition(ctx, input.StoreID, domain.StatusTransition{
			FromStatusID:   input.Body.FromStatusID,
			ToStatusID:     input.Body.ToStatusID,
			Name:           input.Body.Name,
			IsEnabled:      true,
			RequiredFields: input.Body.RequiredFields,
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		return &CreateTransitionOutput{Body: toTransitionResponse(created)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "toggle-transition",
		Method:      http.MethodPatch,
		Path:        "/api/v1/transitions/{id}",
		Summary:     "Enable or disable a transition edge",
		Tags:        []string{"Transitions"},
	}, func(ctx context.Context, input *ToggleTransitionInput) (*ToggleTransitionOutput, error) {
		if err := svc.Catalog.SetTransitionEnabled(ctx, input.ID, input.Body.IsEnabled); err != nil {
			return nil, toHumaError(err)
		}
		out := &ToggleTransitionOutput{}
		out.Body.ID = input.ID
		out.Body.IsEnabled = input.Body.IsEnabled
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-automation",
		Method:      http.MethodPost,
		Path:        "/api/v1/stores/{store_id}/automations",
		Summary:     "Attach an automation to a status",
		Tags:        []string{"Automations"},
	}, func(ctx context.Context, input *CreateAutomationInput) (*CreateAutomationOutput, error) {
		created, err := svc.Catalog.CreateAutomation(ctx, input.StoreID, domain.StatusAutomation{
			StatusID:   input.Body.StatusID,
			Trigger:    domain.Trigger(input.Body.Trigger),
			ActionType: domain.ActionType(input.Body.ActionType),
			IsEnabled:  true,
			Config:     input.Body.Config,
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		out := &CreateAutomationOutput{}
		out.Body.ID = created.ID
		out.Body.StatusID = created.StatusID
		out.Body.Trigger = string(created.Trigger)
		out.Body.ActionType = string(created.ActionType)
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-entity",
		Method:      http.MethodPost,
		Path:        "/api/v1/stores/{store_id}/{entity_type}",
		Summary:     "Create a record (status assignment happens separately)",
		Tags:        []string{"Entities"},
	}, func(ctx context.Context, input *CreateEntityInput) (*CreateEntityOutput, error) {
		e := domain.Entity{
			StoreID:       input.StoreID,
			Type:          domain.EntityType(input.EntityType),
			Number:        input.Body.Number,
			CustomerEmail: input.Body.CustomerEmail,
			VendorEmail:   input.Body.VendorEmail,
			AssignedEmail: input.Body.AssignedEmail,
		}
		if input.Body.LegacyStatus != "" {
			legacy := input.Body.LegacyStatus
			e.LegacyStatus = &legacy
		}

		created, err := svc.Entities.Create(ctx, e)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &CreateEntityOutput{Body: toEntityResponse(created)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "transition-entity",
		Method:      http.MethodPost,
		Path:        "/api/v1/stores/{store_id}/{entity_type}/{id}/transition",
		Summary:     "Move a record to a target status",
		Tags:        []string{"Entities"},
	}, func(ctx context.Context, input *TransitionEntityInput) (*TransitionEntityOutput, error) {
		entity, err := svc.Entities.Get(ctx, input.StoreID, domain.EntityType(input.EntityType), input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}

		ok, err := svc.Transition.Transition(ctx, &entity, input.Body.Target, input.Body.Data)
		if err != nil {
			return nil, toHumaError(err)
		}
		if !ok {
			return nil, huma.Error422UnprocessableEntity("transition not allowed")
		}
		return &TransitionEntityOutput{Body: toEntityResponse(entity)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "migrate-store",
		Method:      http.MethodPost,
		Path:        "/api/v1/stores/{store_id}/migration",
		Summary:     "Convert legacy string statuses to catalog references",
		Tags:        []string{"Migration"},
	}, func(ctx context.Context, input *MigrateStoreInput) (*MigrateStoreOutput, error) {
		if err := svc.Migration.MigrateStore(ctx, input.StoreID); err != nil {
			return nil, toHumaError(err)
		}
		report, err := svc.Migration.VerifyMigration(ctx, input.StoreID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &MigrateStoreOutput{Body: reportBody(report)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "verify-migration",
		Method:      http.MethodGet,
		Path:        "/api/v1/stores/{store_id}/migration",
		Summary:     "Report per-entity-type migration counts",
		Tags:        []string{"Migration"},
	}, func(ctx context.Context, input *VerifyMigrationInput) (*VerifyMigrationOutput, error) {
		report, err := svc.Migration.VerifyMigration(ctx, input.StoreID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &VerifyMigrationOutput{Body: reportBody(report)}, nil
	})
}

func reportBody(report map[domain.EntityType]app.MigrationReport) map[string]app.MigrationReport {
	out := make(map[string]app.MigrationReport, len(report))
	for entityType, r := range report {
		out[string(entityType)] = r
	}
	return out
}

// toHumaError translates domain errors to Huma HTTP errors.
func toHumaError(err error) error {
	switch {
	case errors.Is(err, domain.ErrStoreNotFound):
		return huma.Error404NotFound("store not found")
	case errors.Is(err, domain.ErrStatusNotFound):
		return huma.Error404NotFound("status not found")
	case errors.Is(err, domain.ErrTransitionNotFound):
		return huma.Error404NotFound("transition not found")
	case errors.Is(err, domain.ErrEntityNotFound):
		return huma.Error404NotFound("entity not found")
	}

	var slugErr *domain.SlugConflictError
	if errors.As(err, &slugErr) {
		return huma.Error409Conflict(slugErr.Error())
	}

	var ownErr *domain.OwnershipError
	if errors.As(err, &ownErr) {
		return huma.Error422UnprocessableEntity(ownErr.Error())
	}

	var graphErr *domain.GraphMismatchError
	if errors.As(err, &graphErr) {
		return huma.Error422UnprocessableEntity(graphErr.Error())
	}

	var typeErr *domain.InvalidEntityTypeError
	if errors.As(err, &typeErr) {
		return huma.Error422UnprocessableEntity(typeErr.Error())
	}

	return huma.Error500InternalServerError("internal server error")
}
