package river

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/riverqueue/river"

	"github.com/retailops/statusflow/internal/adapter/sqlite"
	"github.com/retailops/statusflow/internal/domain"
)

// Compile-time check: Enqueuer implements sqlite.JobEnqueuer.
var _ sqlite.JobEnqueuer = (*Enqueuer)(nil)

// Enqueuer is the outbox side of the automation pipeline: it inserts jobs
// inside the transition's transaction, so a rollback discards them and
// workers only ever see jobs for committed status changes.
type Enqueuer struct {
	client *Client
}

// NewEnqueuer creates an enqueuer backed by the given River client.
func NewEnqueuer(client *Client) *Enqueuer {
	return &Enqueuer{client: client}
}

// EnqueueTx inserts the jobs in slice order within tx. River preserves
// insertion order for same-priority jobs, so exit jobs stay ahead of enter
// jobs from the same transition.
func (e *Enqueuer) EnqueueTx(ctx context.Context, tx *sql.Tx, jobs []domain.Job) error {
	params := make([]river.InsertManyParams, 0, len(jobs))
	for _, job := range jobs {
		args := toJobArgs(job)
		if args == nil {
			return fmt.Errorf("unsupported job type %T", job)
		}
		params = append(params, river.InsertManyParams{Args: args})
	}

	if len(params) == 0 {
		return nil
	}

	if _, err := e.client.InsertManyTx(ctx, tx, params); err != nil {
		return fmt.Errorf("enqueuing %d automation jobs: %w", len(params), err)
	}
	return nil
}
