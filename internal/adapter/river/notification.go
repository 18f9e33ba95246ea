package river

import (
	"context"
	"log/slog"

	"github.com/riverqueue/river"
)

// NotificationSender delivers one rendered template to one recipient. The
// actual template rendering and delivery live in an external notification
// subsystem; this engine only decides who and which template.
type NotificationSender interface {
	Send(ctx context.Context, templateID, recipient string) error
}

// LogSender is a NotificationSender that only logs. Used until a real
// notification subsystem is wired in.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, templateID, recipient string) error {
	slog.InfoContext(ctx, "notification send",
		"template_id", templateID,
		"recipient", recipient,
	)
	return nil
}

// NotificationWorker processes notification jobs from the queue.
type NotificationWorker struct {
	river.WorkerDefaults[NotificationJobArgs]

	sender NotificationSender
}

// NewNotificationWorker creates a worker delivering through sender.
func NewNotificationWorker(sender NotificationSender) *NotificationWorker {
	return &NotificationWorker{sender: sender}
}

// Work delivers a single notification. Failures are logged and returned to
// the queue, whose retry policy owns redelivery; they can never affect the
// already-committed transition that produced the job.
func (w *NotificationWorker) Work(ctx context.Context, job *river.Job[NotificationJobArgs]) error {
	err := w.sender.Send(ctx, job.Args.TemplateID, job.Args.Recipient)
	if err != nil {
		slog.ErrorContext(ctx, "notification delivery failed",
			"automation_id", job.Args.AutomationID,
			"entity_type", job.Args.EntityType,
			"entity_id", job.Args.EntityID,
			"recipient", job.Args.Recipient,
			"job_id", job.ID,
			"attempt", job.Attempt,
			"error", err,
		)
		return err
	}

	slog.InfoContext(ctx, "notification delivered",
		"automation_id", job.Args.AutomationID,
		"entity_type", job.Args.EntityType,
		"entity_id", job.Args.EntityID,
		"to_status", job.Args.ToStatus,
		"job_id", job.ID,
	)
	return nil
}
