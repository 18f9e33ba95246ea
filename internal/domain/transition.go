package domain

// FieldRule configures the gating of a single caller-supplied field on an edge.
type FieldRule struct {
	Required bool `json:"required"`
}

// RequiredFields maps field names to their gating rules.
type RequiredFields map[string]FieldRule

// StatusTransition is a configured directed edge between two statuses of the
// same store and entity type. Disabling an edge is a property toggle, not a
// deletion, so the configured graph survives enable/disable cycles.
type StatusTransition struct {
	ID             int64
	FromStatusID   int64
	ToStatusID     int64
	Name           string
	IsEnabled      bool
	RequiredFields RequiredFields
}

// IsAllowed is the base legality contract for an edge: the enabled flag only.
// Required-field gating is layered on top via MissingFields.
func (t StatusTransition) IsAllowed() bool {
	return t.IsEnabled
}

// MissingFields returns the names of required fields that are absent or empty
// in data. A non-empty result rejects the transition as a whole.
func (t StatusTransition) MissingFields(data map[string]any) []string {
	var missing []string
	for field, rule := range t.RequiredFields {
		if !rule.Required {
			continue
		}
		v, ok := data[field]
		if !ok || isEmptyValue(v) {
			missing = append(missing, field)
		}
	}
	return missing
}

func isEmptyValue(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case []any:
		return len(x) == 0
	case map[string]any:
		return len(x) == 0
	}
	return false
}
