package domain

import (
	"encoding/json"
	"fmt"
)

// Trigger tells the engine when an automation fires relative to its status.
type Trigger string

const (
	TriggerOnEnter Trigger = "on_enter"
	TriggerOnExit  Trigger = "on_exit"
)

// Valid reports whether tr is a known trigger.
func (tr Trigger) Valid() bool {
	return tr == TriggerOnEnter || tr == TriggerOnExit
}

// ActionType is the closed set of side-effect kinds an automation can carry.
type ActionType string

const (
	ActionNotification ActionType = "notification"
	ActionWebhook      ActionType = "webhook"
	ActionCustom       ActionType = "custom"
)

// Valid reports whether a is a known action type.
func (a ActionType) Valid() bool {
	switch a {
	case ActionNotification, ActionWebhook, ActionCustom:
		return true
	}
	return false
}

// StatusAutomation binds a configured side effect to a status's enter or exit.
// Config is the raw action-specific configuration; decode it with the typed
// accessor matching ActionType.
type StatusAutomation struct {
	ID         int64
	StatusID   int64
	Trigger    Trigger
	ActionType ActionType
	IsEnabled  bool
	Config     json.RawMessage
}

// NotificationConfig configures a notification automation: which template to
// send and to whom. Recipients are symbolic names (owner, customer, vendor,
// assigned_user) or literal email addresses.
type NotificationConfig struct {
	TemplateID string   `json:"template_id"`
	Recipients []string `json:"recipients"`
}

// WebhookConfig configures a webhook automation.
type WebhookConfig struct {
	URL     string            `json:"url"`
	Method  string            `json:"method"`
	Headers map[string]string `json:"headers,omitempty"`
}

// CustomConfig configures a custom-action automation.
type CustomConfig struct {
	Action string         `json:"action"`
	Params map[string]any `json:"params,omitempty"`
}

// DecodeNotification decodes the automation's config as a NotificationConfig.
func (a StatusAutomation) DecodeNotification() (NotificationConfig, error) {
	var cfg NotificationConfig
	if err := json.Unmarshal(a.Config, &cfg); err != nil {
		return NotificationConfig{}, fmt.Errorf("decoding notification config for automation %d: %w", a.ID, err)
	}
	return cfg, nil
}

// DecodeWebhook decodes the automation's config as a WebhookConfig.
func (a StatusAutomation) DecodeWebhook() (WebhookConfig, error) {
	var cfg WebhookConfig
	if err := json.Unmarshal(a.Config, &cfg); err != nil {
		return WebhookConfig{}, fmt.Errorf("decoding webhook config for automation %d: %w", a.ID, err)
	}
	return cfg, nil
}

// DecodeCustom decodes the automation's config as a CustomConfig.
func (a StatusAutomation) DecodeCustom() (CustomConfig, error) {
	var cfg CustomConfig
	if err := json.Unmarshal(a.Config, &cfg); err != nil {
		return CustomConfig{}, fmt.Errorf("decoding custom config for automation %d: %w", a.ID, err)
	}
	return cfg, nil
}

// Job is a unit of deferred side-effect work produced while a transition is
// being applied. Jobs become visible to workers only after the transition's
// transaction commits.
type Job interface {
	isJob()
}

// NotificationJob sends one rendered template to one resolved recipient.
type NotificationJob struct {
	AutomationID int64
	TemplateID   string
	Recipient    string
	EntityType   EntityType
	EntityID     int64
	FromStatus   string // empty when the entity had no prior status
	ToStatus     string
}

func (NotificationJob) isJob() {}

// WebhookJob delivers a status_changed payload to a configured endpoint.
type WebhookJob struct {
	AutomationID int64
	URL          string
	Method       string
	Headers      map[string]string
	Payload      WebhookPayload
}

func (WebhookJob) isJob() {}

// CustomJob runs a named custom action from the action registry.
type CustomJob struct {
	AutomationID int64
	Action       string
	Params       map[string]any
	EntityType   EntityType
	EntityID     int64
	FromStatus   string
	ToStatus     string
}

func (CustomJob) isJob() {}

// WebhookPayload is the fixed wire shape delivered to webhook endpoints.
type WebhookPayload struct {
	Event      string         `json:"event"`
	EntityType string         `json:"entity_type"`
	EntityID   int64          `json:"entity_id"`
	FromStatus *string        `json:"from_status"`
	ToStatus   string         `json:"to_status"`
	Timestamp  string         `json:"timestamp"`
	Data       map[string]any `json:"data"`
}
