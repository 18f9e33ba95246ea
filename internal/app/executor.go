package app

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/retailops/statusflow/internal/domain"
)

// AutomationExecutor resolves configured automations into deferred jobs while
// a transition is being applied. It never performs the side effects itself:
// the jobs it builds are enqueued inside the transition's transaction and a
// worker executes them after commit.
//
// A broken automation (undecodable config, unknown action type, unresolvable
// recipients) contributes zero jobs and is logged; it never blocks the
// transition or the other automations on the same trigger.
type AutomationExecutor struct{}

// NewAutomationExecutor creates an executor.
func NewAutomationExecutor() *AutomationExecutor {
	return &AutomationExecutor{}
}

// BuildJobs converts the given automations into jobs for one transition of e
// from `from` (nil when the entity had no prior status) to `to`.
func (x *AutomationExecutor) BuildJobs(ctx context.Context, automations []domain.StatusAutomation, store domain.Store, e domain.Entity, from *domain.Status, to domain.Status) []domain.Job {
	var jobs []domain.Job

	fromSlug := ""
	if from != nil {
		fromSlug = from.Slug
	}

	for _, a := range automations {
		if !a.IsEnabled {
			continue
		}

		switch a.ActionType {
		case domain.ActionNotification:
			jobs = append(jobs, x.notificationJobs(ctx, a, store, e, fromSlug, to.Slug)...)
		case domain.ActionWebhook:
			if job, ok := x.webhookJob(ctx, a, e, fromSlug, to.Slug); ok {
				jobs = append(jobs, job)
			}
		case domain.ActionCustom:
			if job, ok := x.customJob(ctx, a, e, fromSlug, to.Slug); ok {
				jobs = append(jobs, job)
			}
		default:
			slog.WarnContext(ctx, "unknown automation action type",
				"automation_id", a.ID,
				"action_type", a.ActionType,
			)
		}
	}

	return jobs
}

func (x *AutomationExecutor) notificationJobs(ctx context.Context, a domain.StatusAutomation, store domain.Store, e domain.Entity, fromSlug, toSlug string) []domain.Job {
	cfg, err := a.DecodeNotification()
	if err != nil {
		slog.WarnContext(ctx, "skipping automation with bad config",
			"automation_id", a.ID,
			"entity_type", e.Type,
			"entity_id", e.ID,
			"error", err,
		)
		return nil
	}

	var jobs []domain.Job
	for _, recipient := range resolveRecipients(cfg.Recipients, store, e) {
		jobs = append(jobs, domain.NotificationJob{
			AutomationID: a.ID,
			TemplateID:   cfg.TemplateID,
			Recipient:    recipient,
			EntityType:   e.Type,
			EntityID:     e.ID,
			FromStatus:   fromSlug,
			ToStatus:     toSlug,
		})
	}
	return jobs
}

func (x *AutomationExecutor) webhookJob(ctx context.Context, a domain.StatusAutomation, e domain.Entity, fromSlug, toSlug string) (domain.Job, bool) {
	cfg, err := a.DecodeWebhook()
	if err != nil || cfg.URL == "" {
		slog.WarnContext(ctx, "skipping automation with bad config",
			"automation_id", a.ID,
			"entity_type", e.Type,
			"entity_id", e.ID,
			"error", err,
		)
		return nil, false
	}

	method := cfg.Method
	if method == "" {
		method = "POST"
	}

	var fromStatus *string
	if fromSlug != "" {
		fromStatus = &fromSlug
	}

	return domain.WebhookJob{
		AutomationID: a.ID,
		URL:          cfg.URL,
		Method:       method,
		Headers:      cfg.Headers,
		Payload: domain.WebhookPayload{
			Event:      "status_changed",
			EntityType: string(e.Type),
			EntityID:   e.ID,
			FromStatus: fromStatus,
			ToStatus:   toSlug,
			Timestamp:  time.Now().UTC().Format(time.RFC3339),
			Data:       e.WebhookData(),
		},
	}, true
}

func (x *AutomationExecutor) customJob(ctx context.Context, a domain.StatusAutomation, e domain.Entity, fromSlug, toSlug string) (domain.Job, bool) {
	cfg, err := a.DecodeCustom()
	if err != nil || cfg.Action == "" {
		slog.WarnContext(ctx, "skipping automation with bad config",
			"automation_id", a.ID,
			"entity_type", e.Type,
			"entity_id", e.ID,
			"error", err,
		)
		return nil, false
	}

	return domain.CustomJob{
		AutomationID: a.ID,
		Action:       cfg.Action,
		Params:       cfg.Params,
		EntityType:   e.Type,
		EntityID:     e.ID,
		FromStatus:   fromSlug,
		ToStatus:     toSlug,
	}, true
}

// resolveRecipients expands symbolic recipient names into email addresses,
// filters empties, and deduplicates while preserving order. Symbolic names
// that resolve to nothing contribute zero recipients; that is not an error.
func resolveRecipients(names []string, store domain.Store, e domain.Entity) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))

	for _, name := range names {
		email := resolveRecipient(name, store, e)
		if email == "" || seen[email] {
			continue
		}
		seen[email] = true
		out = append(out, email)
	}
	return out
}

func resolveRecipient(name string, store domain.Store, e domain.Entity) string {
	switch name {
	case "owner":
		return store.OwnerEmail
	case "customer":
		return e.CustomerEmail
	case "vendor":
		return e.VendorEmail
	case "assigned_user":
		return e.AssignedEmail
	}
	if strings.Contains(name, "@") {
		return name
	}
	return ""
}
