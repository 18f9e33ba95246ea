package river

import (
	"database/sql"

	"github.com/riverqueue/river"

	"github.com/retailops/statusflow/internal/domain"
)

// Client is the River client type parameterized for SQLite (*sql.Tx).
type Client = river.Client[*sql.Tx]

// NotificationJobArgs carries one template send to one resolved recipient.
// River serializes this as JSON into its job queue table; the worker never
// needs to query the catalog.
type NotificationJobArgs struct {
	AutomationID int64  `json:"automation_id"`
	TemplateID   string `json:"template_id"`
	Recipient    string `json:"recipient"`
	EntityType   string `json:"entity_type"`
	EntityID     int64  `json:"entity_id"`
	FromStatus   string `json:"from_status,omitempty"`
	ToStatus     string `json:"to_status"`
}

// Kind returns the unique job type identifier used by River's job routing.
func (NotificationJobArgs) Kind() string { return "automation.notification" }

// WebhookJobArgs carries one webhook delivery.
type WebhookJobArgs struct {
	AutomationID int64                 `json:"automation_id"`
	URL          string                `json:"url"`
	Method       string                `json:"method"`
	Headers      map[string]string     `json:"headers,omitempty"`
	Payload      domain.WebhookPayload `json:"payload"`
}

func (WebhookJobArgs) Kind() string { return "automation.webhook" }

// CustomJobArgs carries one custom action invocation.
type CustomJobArgs struct {
	AutomationID int64          `json:"automation_id"`
	Action       string         `json:"action"`
	Params       map[string]any `json:"params,omitempty"`
	EntityType   string         `json:"entity_type"`
	EntityID     int64          `json:"entity_id"`
	FromStatus   string         `json:"from_status,omitempty"`
	ToStatus     string         `json:"to_status"`
}

func (CustomJobArgs) Kind() string { return "automation.custom" }

// toJobArgs converts a domain job into its River args representation.
func toJobArgs(job domain.Job) river.JobArgs {
	switch j := job.(type) {
	case domain.NotificationJob:
		return NotificationJobArgs{
			AutomationID: j.AutomationID,
			TemplateID:   j.TemplateID,
			Recipient:    j.Recipient,
			EntityType:   string(j.EntityType),
			EntityID:     j.EntityID,
			FromStatus:   j.FromStatus,
			ToStatus:     j.ToStatus,
		}
	case domain.WebhookJob:
		return WebhookJobArgs{
			AutomationID: j.AutomationID,
			URL:          j.URL,
			Method:       j.Method,
			Headers:      j.Headers,
			Payload:      j.Payload,
		}
	case domain.CustomJob:
		return CustomJobArgs{
			AutomationID: j.AutomationID,
			Action:       j.Action,
			Params:       j.Params,
			EntityType:   string(j.EntityType),
			EntityID:     j.EntityID,
			FromStatus:   j.FromStatus,
			ToStatus:     j.ToStatus,
		}
	}
	return nil
}
