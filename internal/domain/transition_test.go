package domain_test

import (
	"testing"

	"github.com/retailops/statusflow/internal/domain"
)

func TestMissingFields(t *testing.T) {
	edge := domain.StatusTransition{
		IsEnabled: true,
		RequiredFields: domain.RequiredFields{
			"tracking_number": {Required: true},
			"carrier":         {Required: true},
			"note":            {Required: false},
		},
	}

	cases := []struct {
		name    string
		data    map[string]any
		missing int
	}{
		{"all present", map[string]any{"tracking_number": "1Z999", "carrier": "fedex"}, 0},
		{"one absent", map[string]any{"tracking_number": "1Z999"}, 1},
		{"empty string counts as absent", map[string]any{"tracking_number": "", "carrier": "fedex"}, 1},
		{"nil data", nil, 2},
		{"optional field ignored", map[string]any{"tracking_number": "1Z999", "carrier": "fedex", "note": ""}, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := edge.MissingFields(tc.data)
			if len(got) != tc.missing {
				t.Errorf("MissingFields = %v, want %d missing", got, tc.missing)
			}
		})
	}
}

func TestIsAllowed_EnabledFlagOnly(t *testing.T) {
	// Base contract: required fields do not factor into IsAllowed.
	edge := domain.StatusTransition{
		IsEnabled:      true,
		RequiredFields: domain.RequiredFields{"amount": {Required: true}},
	}
	if !edge.IsAllowed() {
		t.Error("enabled edge should be allowed")
	}

	edge.IsEnabled = false
	if edge.IsAllowed() {
		t.Error("disabled edge should not be allowed")
	}
}

func TestHasBehavior(t *testing.T) {
	s := domain.Status{Behavior: domain.Behavior{"allows_payment": true, "allows_offer": false}}

	if !s.HasBehavior("allows_payment") {
		t.Error("allows_payment should be set")
	}
	if s.HasBehavior("allows_offer") {
		t.Error("allows_offer is false")
	}
	if s.HasBehavior("nonexistent") {
		t.Error("unknown flag should be false")
	}
	if (domain.Status{}).HasBehavior("anything") {
		t.Error("nil behavior should report false")
	}
}

func TestWebhookData(t *testing.T) {
	e := domain.Entity{ID: 42, Type: domain.EntityOrder, Number: "INV-1001"}
	data := e.WebhookData()

	if data["id"] != int64(42) {
		t.Errorf("id = %v, want 42", data["id"])
	}
	if data["invoice_number"] != "INV-1001" {
		t.Errorf("invoice_number = %v, want INV-1001", data["invoice_number"])
	}

	// No number: only the id.
	bare := domain.Entity{ID: 7, Type: domain.EntityRepair}
	if got := bare.WebhookData(); len(got) != 1 {
		t.Errorf("bare WebhookData = %v, want only id", got)
	}
}
