package river

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/riverqueue/river"
)

// webhookTimeout caps one delivery attempt end to end.
const webhookTimeout = 30 * time.Second

// WebhookWorker delivers status_changed payloads to configured endpoints.
type WebhookWorker struct {
	river.WorkerDefaults[WebhookJobArgs]

	client *http.Client
}

// NewWebhookWorker creates a worker with its own timeout-bounded HTTP client.
func NewWebhookWorker() *WebhookWorker {
	return &WebhookWorker{
		client: &http.Client{Timeout: webhookTimeout},
	}
}

// Work delivers a single webhook. Delivery failures go back to the queue's
// retry policy; the transition that produced the job is already committed
// and unaffected either way.
func (w *WebhookWorker) Work(ctx context.Context, job *river.Job[WebhookJobArgs]) error {
	body, err := json.Marshal(job.Args.Payload)
	if err != nil {
		return fmt.Errorf("encoding webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, job.Args.Method, job.Args.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range job.Args.Headers {
		req.Header.Set(k, v)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		slog.ErrorContext(ctx, "webhook delivery failed",
			"automation_id", job.Args.AutomationID,
			"url", job.Args.URL,
			"job_id", job.ID,
			"attempt", job.Attempt,
			"error", err,
		)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		slog.ErrorContext(ctx, "webhook endpoint rejected delivery",
			"automation_id", job.Args.AutomationID,
			"url", job.Args.URL,
			"status_code", resp.StatusCode,
			"job_id", job.ID,
			"attempt", job.Attempt,
		)
		return fmt.Errorf("webhook endpoint returned %d", resp.StatusCode)
	}

	slog.InfoContext(ctx, "webhook delivered",
		"automation_id", job.Args.AutomationID,
		"url", job.Args.URL,
		"status_code", resp.StatusCode,
		"job_id", job.ID,
	)
	return nil
}
