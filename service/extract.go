package service

import (
	"fmt"

	"github.com/leasedesk/leasedesk/backend/model"
	"github.com/tidwall/gjson"
)

// ExtractClauses flattens a raw extraction payload into the canonical
// clause list. The payload is expected to hold
// clauses.history.<category>.<key> = record; anything else yields an
// empty list, never an error.
//
// The payload stays in raw JSON form because clause order is the
// document's key order, which a decoded Go map would destroy. The
// returned order (categories in document order, keys in document order
// within each category) is what the review screens render and must not
// be re-sorted.
func ExtractClauses(payload []byte) []model.Clause {
	history := gjson.GetBytes(payload, "clauses.history")
	if !history.IsObject() {
		return []model.Clause{}
	}

	clauses := []model.Clause{}
	history.ForEach(func(category, entries gjson.Result) bool {
		if !entries.IsObject() {
			return true
		}
		// Some producers emit an empty category key; bucket those
		// clauses with the uncategorized ones so category is never
		// empty downstream.
		cat := category.String()
		if cat == "" {
			cat = OtherCategory
		}
		entries.ForEach(func(key, record gjson.Result) bool {
			clauses = append(clauses, clauseFromRecord(cat, key.String(), record))
			return true
		})
		return true
	})
	return clauses
}

// clauseFromRecord builds one canonical clause from a raw history
// record. Every field is defaulted, so a record of the wrong type still
// produces a well-formed clause.
func clauseFromRecord(category, key string, record gjson.Result) model.Clause {
	clause := model.Clause{
		ID:            fmt.Sprintf("%s::%s", category, key),
		Name:          fmt.Sprintf("%s #%s", category, key),
		Title:         fmt.Sprintf("%s - Clause %s", category, key),
		Category:      category,
		ClauseDetails: record.Get("clauseDetails").String(),
		Status:        model.NormalizeStatus(record.Get("status").String()).Key,
		Risk:          model.NormalizeRisk(record.Get("risk").String()),
		Comments:      commentsFromResult(record.Get("comments")),
		UpdatedAt:     record.Get("updatedAt").String(),
	}

	if v := record.Get("aiConfidenceScore"); v.Type == gjson.Number {
		score := v.Num
		clause.AIConfidenceScore = &score
	}
	clause.AISuggestedClauseDetails = record.Get("aiSuggestedClauseDetails").String()

	if v := record.Get("currentVersion"); v.Exists() {
		clause.CurrentVersion = v.Value()
	}

	return clause
}

// commentsFromResult reads the comments field of a raw record. Absent
// or null comments become an empty sequence; a non-array value is
// wrapped as a single comment rather than dropped, since some producers
// send a lone object where others send a list.
func commentsFromResult(res gjson.Result) []model.Comment {
	if !res.Exists() || res.Type == gjson.Null {
		return []model.Comment{}
	}
	if res.IsArray() {
		items := res.Array()
		comments := make([]model.Comment, 0, len(items))
		for _, item := range items {
			comments = append(comments, commentFromResult(item))
		}
		return comments
	}
	return []model.Comment{commentFromResult(res)}
}

func commentFromResult(res gjson.Result) model.Comment {
	if res.IsObject() {
		return model.Comment{
			Author:    res.Get("author").String(),
			Text:      res.Get("text").String(),
			CreatedAt: res.Get("createdAt").String(),
		}
	}
	// Scalar comment payloads carry only the text.
	return model.Comment{Text: res.String()}
}
