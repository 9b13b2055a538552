package service

import (
	"strings"

	"github.com/leasedesk/leasedesk/backend/model"
)

// FilterAll is the status filter value that matches every clause.
const FilterAll = "all"

// FilterClauses returns the subsequence of clauses matching both the
// status filter and the free-text query, in their original order.
//
// An empty or "all" statusFilter passes everything. Otherwise the
// clause's status is re-normalized before comparing, so a clause whose
// status field was overwritten with an arbitrary string after
// extraction still filters sanely instead of vanishing from every
// bucket.
//
// The query is trimmed and lower-cased; an empty query matches
// everything, a non-empty one is a plain substring test against the
// lower-cased title and clause text.
func FilterClauses(clauses []model.Clause, statusFilter, query string) []model.Clause {
	query = strings.ToLower(strings.TrimSpace(query))
	matchAll := statusFilter == "" || statusFilter == FilterAll

	filtered := []model.Clause{}
	for _, clause := range clauses {
		if !matchAll {
			if string(model.NormalizeStatus(string(clause.Status)).Key) != statusFilter {
				continue
			}
		}
		if query != "" {
			title := strings.ToLower(clause.Title)
			details := strings.ToLower(clause.ClauseDetails)
			if !strings.Contains(title, query) && !strings.Contains(details, query) {
				continue
			}
		}
		filtered = append(filtered, clause)
	}
	return filtered
}
