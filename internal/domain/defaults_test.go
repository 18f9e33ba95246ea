package domain_test

import (
	"testing"

	"github.com/retailops/statusflow/internal/domain"
)

func TestDefaultGraph_Shapes(t *testing.T) {
	cases := []struct {
		entityType domain.EntityType
		statuses   int
		edges      int
	}{
		{domain.EntityTransaction, 17, 25},
		{domain.EntityOrder, 10, 15},
		{domain.EntityRepair, 8, 8},
		{domain.EntityMemo, 7, 7},
	}

	for _, tc := range cases {
		g, ok := domain.DefaultGraph(tc.entityType)
		if !ok {
			t.Fatalf("DefaultGraph(%q) missing", tc.entityType)
		}
		if len(g.Statuses) != tc.statuses {
			t.Errorf("%s: statuses = %d, want %d", tc.entityType, len(g.Statuses), tc.statuses)
		}
		if len(g.Edges) != tc.edges {
			t.Errorf("%s: edges = %d, want %d", tc.entityType, len(g.Edges), tc.edges)
		}
	}
}

func TestDefaultGraph_ExactlyOneDefault(t *testing.T) {
	for _, et := range domain.EntityTypes {
		g, _ := domain.DefaultGraph(et)
		defaults := 0
		for _, s := range g.Statuses {
			if s.IsDefault {
				defaults++
			}
		}
		if defaults != 1 {
			t.Errorf("%s: %d default statuses, want exactly 1", et, defaults)
		}
	}
}

func TestDefaultGraph_FinalStates(t *testing.T) {
	wantFinals := map[domain.EntityType][]string{
		domain.EntityTransaction: {"kit_request_rejected", "payment_processed", "items_returned", "cancelled"},
		domain.EntityOrder:       {"cancelled", "refunded"},
		domain.EntityRepair:      {"refunded", "archived", "cancelled"},
		domain.EntityMemo:        {"vendor_returned", "payment_received", "archived", "cancelled"},
	}

	for et, want := range wantFinals {
		g, _ := domain.DefaultGraph(et)
		finals := map[string]bool{}
		for _, s := range g.Statuses {
			if s.IsFinal {
				finals[s.Slug] = true
			}
		}
		if len(finals) != len(want) {
			t.Errorf("%s: %d final statuses, want %d", et, len(finals), len(want))
		}
		for _, slug := range want {
			if !finals[slug] {
				t.Errorf("%s: %q should be final", et, slug)
			}
		}
	}
}

func TestDefaultGraph_EdgesReferenceKnownStatuses(t *testing.T) {
	for _, et := range domain.EntityTypes {
		g, _ := domain.DefaultGraph(et)
		slugs := map[string]bool{}
		for _, s := range g.Statuses {
			slugs[s.Slug] = true
		}
		seen := map[[2]string]bool{}
		for _, e := range g.Edges {
			if !slugs[e.From] {
				t.Errorf("%s: edge from unknown status %q", et, e.From)
			}
			if !slugs[e.To] {
				t.Errorf("%s: edge to unknown status %q", et, e.To)
			}
			key := [2]string{e.From, e.To}
			if seen[key] {
				t.Errorf("%s: duplicate edge %s -> %s", et, e.From, e.To)
			}
			seen[key] = true
		}
	}
}

func TestDefaultGraph_TransactionOfferFlow(t *testing.T) {
	g, _ := domain.DefaultGraph(domain.EntityTransaction)

	hasEdge := func(from, to string) bool {
		for _, e := range g.Edges {
			if e.From == from && e.To == to {
				return true
			}
		}
		return false
	}

	// Counter-offer loop and the direct walk-in offer path.
	if !hasEdge("offer_declined", "offer_given") {
		t.Error("missing counter-offer edge offer_declined -> offer_given")
	}
	if !hasEdge("pending", "offer_given") {
		t.Error("missing direct offer edge pending -> offer_given")
	}
	if !hasEdge("offer_accepted", "payment_processed") {
		t.Error("missing immediate payment edge offer_accepted -> payment_processed")
	}
	// Payment must go through acceptance, never straight from an open offer.
	if hasEdge("offer_given", "payment_processed") {
		t.Error("offer_given -> payment_processed must not exist")
	}
}
