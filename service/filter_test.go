package service

import (
	"testing"

	"github.com/leasedesk/leasedesk/backend/model"
)

func testClauses() []model.Clause {
	return []model.Clause{
		{ID: "Rent::1", Title: "Rent - Clause 1", ClauseDetails: "Tenant shall pay rent monthly", Status: model.StatusApproved},
		{ID: "Rent::2", Title: "Rent - Clause 2", ClauseDetails: "Late fee of 5% after the 5th", Status: model.StatusPending},
		{ID: "Use::1", Title: "Use - Clause 1", ClauseDetails: "Tenant shall not sublease without consent", Status: model.StatusRejected},
		{ID: "Use::2", Title: "Use - Clause 2", ClauseDetails: "Premises used for general office purposes", Status: model.StatusApproved},
	}
}

func TestFilterClausesAll(t *testing.T) {
	clauses := testClauses()

	got := FilterClauses(clauses, FilterAll, "")
	if len(got) != len(clauses) {
		t.Fatalf("Expected all %d clauses, got %d", len(clauses), len(got))
	}

	// Empty filter behaves like "all".
	got = FilterClauses(clauses, "", "")
	if len(got) != len(clauses) {
		t.Fatalf("Expected all %d clauses for empty filter, got %d", len(clauses), len(got))
	}
}

func TestFilterClausesByStatus(t *testing.T) {
	clauses := testClauses()

	got := FilterClauses(clauses, "approved", "")
	if len(got) != 2 {
		t.Fatalf("Expected 2 approved clauses, got %d", len(got))
	}
	if got[0].ID != "Rent::1" || got[1].ID != "Use::2" {
		t.Errorf("Order not preserved: %s, %s", got[0].ID, got[1].ID)
	}

	got = FilterClauses(clauses, "rejected", "")
	if len(got) != 1 || got[0].ID != "Use::1" {
		t.Errorf("Expected only Use::1 rejected, got %+v", got)
	}
}

func TestFilterClausesMutatedStatus(t *testing.T) {
	// A status overwritten after extraction still buckets by
	// normalization rules instead of disappearing.
	clauses := []model.Clause{
		{ID: "X::1", Status: model.StatusKind("APPROVED")},
		{ID: "X::2", Status: model.StatusKind("garbage")},
	}

	got := FilterClauses(clauses, "approved", "")
	if len(got) != 1 || got[0].ID != "X::1" {
		t.Errorf("Expected shouting status to match approved, got %+v", got)
	}

	got = FilterClauses(clauses, "pending", "")
	if len(got) != 1 || got[0].ID != "X::2" {
		t.Errorf("Expected garbage status to match pending, got %+v", got)
	}
}

func TestFilterClausesByQuery(t *testing.T) {
	clauses := testClauses()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"substring of details", "sublease", []string{"Use::1"}},
		{"case insensitive", "TENANT SHALL", []string{"Rent::1", "Use::1"}},
		{"substring of title", "use - clause", []string{"Use::1", "Use::2"}},
		{"trimmed", "  rent  ", []string{"Rent::1", "Rent::2"}},
		{"empty matches all", "", []string{"Rent::1", "Rent::2", "Use::1", "Use::2"}},
		{"no match", "arbitration", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterClauses(clauses, FilterAll, tt.query)
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %d clauses, got %d", len(tt.want), len(got))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("Position %d: expected %s, got %s", i, id, got[i].ID)
				}
			}
		})
	}
}

func TestFilterClausesCombined(t *testing.T) {
	clauses := testClauses()

	// Both predicates must hold.
	got := FilterClauses(clauses, "approved", "tenant")
	if len(got) != 1 || got[0].ID != "Rent::1" {
		t.Errorf("Expected only Rent::1, got %+v", got)
	}
}

func TestFilterClausesEmptyInput(t *testing.T) {
	got := FilterClauses(nil, "approved", "rent")
	if len(got) != 0 {
		t.Errorf("Expected empty result for nil input, got %d", len(got))
	}
}
