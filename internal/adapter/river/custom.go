package river

import (
	"context"
	"log/slog"

	"github.com/riverqueue/river"
)

// ActionFunc runs one named custom action for a committed transition.
type ActionFunc func(ctx context.Context, args CustomJobArgs) error

// ActionRegistry resolves custom action names to implementations. Actions
// are registered at startup; a name with no registration is logged and
// dropped rather than failed, since tenant configuration can reference
// actions a deployment does not ship.
type ActionRegistry struct {
	actions map[string]ActionFunc
}

// NewActionRegistry creates a registry with the built-in actions registered.
// The built-ins are extension points: they log what a full implementation
// would do until the surrounding business services provide real ones.
func NewActionRegistry() *ActionRegistry {
	r := &ActionRegistry{actions: make(map[string]ActionFunc)}

	for _, name := range []string{"mark_paid", "send_email", "update_inventory", "create_invoice"} {
		r.Register(name, logStub(name))
	}
	return r
}

// Register adds or replaces an action implementation.
func (r *ActionRegistry) Register(name string, fn ActionFunc) {
	r.actions[name] = fn
}

// Resolve returns the implementation for name, if any.
func (r *ActionRegistry) Resolve(name string) (ActionFunc, bool) {
	fn, ok := r.actions[name]
	return fn, ok
}

func logStub(name string) ActionFunc {
	return func(ctx context.Context, args CustomJobArgs) error {
		slog.InfoContext(ctx, "custom action executed",
			"action", name,
			"automation_id", args.AutomationID,
			"entity_type", args.EntityType,
			"entity_id", args.EntityID,
			"to_status", args.ToStatus,
		)
		return nil
	}
}

// CustomWorker processes custom action jobs from the queue.
type CustomWorker struct {
	river.WorkerDefaults[CustomJobArgs]

	registry *ActionRegistry
}

// NewCustomWorker creates a worker resolving actions through registry.
func NewCustomWorker(registry *ActionRegistry) *CustomWorker {
	return &CustomWorker{registry: registry}
}

// Work runs a single custom action.
func (w *CustomWorker) Work(ctx context.Context, job *river.Job[CustomJobArgs]) error {
	fn, ok := w.registry.Resolve(job.Args.Action)
	if !ok {
		slog.WarnContext(ctx, "unknown custom action, dropping job",
			"action", job.Args.Action,
			"automation_id", job.Args.AutomationID,
			"job_id", job.ID,
		)
		return nil
	}

	if err := fn(ctx, job.Args); err != nil {
		slog.ErrorContext(ctx, "custom action failed",
			"action", job.Args.Action,
			"automation_id", job.Args.AutomationID,
			"entity_type", job.Args.EntityType,
			"entity_id", job.Args.EntityID,
			"job_id", job.ID,
			"attempt", job.Attempt,
			"error", err,
		)
		return err
	}
	return nil
}
