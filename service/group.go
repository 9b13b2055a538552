package service

import (
	"strings"

	"github.com/leasedesk/leasedesk/backend/model"
)

// OtherCategory is the bucket for clauses with a missing category.
const OtherCategory = "Other"

// CategoryGroup is one category bucket of the grouped clause list. The
// grouping is returned as an ordered slice rather than a map so the
// first-seen category order survives serialization.
type CategoryGroup struct {
	Category string         `json:"category"`
	Clauses  []model.Clause `json:"clauses"`
}

// GroupByCategory partitions clauses by category, preserving first-seen
// category order and the input order within each category. Clauses with
// an empty category land in the "Other" bucket.
func GroupByCategory(clauses []model.Clause) []CategoryGroup {
	groups := []CategoryGroup{}
	index := map[string]int{}

	for _, clause := range clauses {
		category := clause.Category
		if category == "" {
			category = OtherCategory
		}
		i, seen := index[category]
		if !seen {
			i = len(groups)
			index[category] = i
			groups = append(groups, CategoryGroup{Category: category})
		}
		groups[i].Clauses = append(groups[i].Clauses, clause)
	}
	return groups
}

// ObligationPolarity says whether a clause reads as something the
// tenant agrees to do or is restricted from doing.
type ObligationPolarity string

const (
	ObligationAgrees    ObligationPolarity = "agrees"
	ObligationNotAgrees ObligationPolarity = "notAgrees"
)

// defaultProhibitionPhrases flags a clause as restrictive when any of
// them appears in its text. Kept as data so coverage gaps are a list
// edit; config can override the whole list at boot.
var defaultProhibitionPhrases = []string{
	"tenant shall not",
	"tenant may not",
	"tenant must not",
	"prohibited",
	"forbidden",
	"not permitted",
}

var prohibitionPhrases = defaultProhibitionPhrases

// SetProhibitionPhrases replaces the phrase list used by
// ClassifyTenantObligation. An empty list restores the default. Called
// once at boot from config; not safe to call concurrently with
// classification.
func SetProhibitionPhrases(phrases []string) {
	if len(phrases) == 0 {
		prohibitionPhrases = defaultProhibitionPhrases
		return
	}
	prohibitionPhrases = phrases
}

// ClassifyTenantObligation runs the keyword heuristic over a clause's
// title and text. Any prohibition phrase present means notAgrees. The
// heuristic has no subject detection: a clause restricting the landlord
// still classifies from the tenant's presumed perspective. That false
// positive rate is an accepted trade-off for an explainable rule.
func ClassifyTenantObligation(clause model.Clause) ObligationPolarity {
	text := strings.ToLower(clause.Title + " " + clause.ClauseDetails)
	for _, phrase := range prohibitionPhrases {
		if strings.Contains(text, phrase) {
			return ObligationNotAgrees
		}
	}
	return ObligationAgrees
}

// SplitByObligation partitions clauses by tenant-obligation polarity,
// preserving input order in both halves.
func SplitByObligation(clauses []model.Clause) (agrees, notAgrees []model.Clause) {
	agrees = []model.Clause{}
	notAgrees = []model.Clause{}
	for _, clause := range clauses {
		if ClassifyTenantObligation(clause) == ObligationNotAgrees {
			notAgrees = append(notAgrees, clause)
		} else {
			agrees = append(agrees, clause)
		}
	}
	return agrees, notAgrees
}
