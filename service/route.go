package service

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Route templates for the two LOI review flows. A clause-bearing LOI
// goes straight to clause review; a clause-less one goes to the intake
// flow first.
const (
	clauseReviewRouteTemplate = "/loi/%s/clauses"
	intakeRouteTemplate       = "/loi/%s/intake"
)

// ResolveLOIRoute decides where the UI should navigate for one raw LOI
// summary row. Rows come from producers with inconsistent field casing,
// so resolution works on the raw JSON: `_id` wins over `id`,
// `Clauses_id` over `clauses_id`, `Clauses` over `clauses`. A clauses
// payload sent as a JSON string is parsed; if it does not parse it
// counts as absent rather than failing.
//
// Returns ok=false when the row carries no id at all; that means "no
// navigation action", not an error.
func ResolveLOIRoute(row []byte) (route string, ok bool) {
	id := firstString(row, "_id", "id")
	if id == "" {
		return "", false
	}

	hasClauses := clausesIDPresent(row) || clausesPayloadHasContent(row)
	if hasClauses {
		return fmt.Sprintf(clauseReviewRouteTemplate, id), true
	}
	return fmt.Sprintf(intakeRouteTemplate, id), true
}

// firstString returns the string coercion of the first present,
// non-null field among paths.
func firstString(row []byte, paths ...string) string {
	for _, path := range paths {
		v := gjson.GetBytes(row, path)
		if v.Exists() && v.Type != gjson.Null {
			return v.String()
		}
	}
	return ""
}

func clausesIDPresent(row []byte) bool {
	return strings.TrimSpace(firstString(row, "Clauses_id", "clauses_id")) != ""
}

// clausesPayloadHasContent tests whether the row's clauses payload
// actually holds anything. The payload must be a non-array object with
// at least one populated value; an empty object, an empty string, or a
// string that fails to parse as JSON all count as no content.
func clausesPayloadHasContent(row []byte) bool {
	payload := gjson.GetBytes(row, "Clauses")
	if !payload.Exists() {
		payload = gjson.GetBytes(row, "clauses")
	}
	if !payload.Exists() {
		return false
	}

	// One producer sends the payload as a JSON string, another as a
	// native object. Unwrap the string form; garbage is tolerated as
	// absent.
	if payload.Type == gjson.String {
		raw := payload.String()
		if !gjson.Valid(raw) {
			return false
		}
		payload = gjson.Parse(raw)
	}

	if !payload.IsObject() {
		return false
	}

	populated := false
	payload.ForEach(func(_, value gjson.Result) bool {
		if valuePopulated(value) {
			populated = true
			return false
		}
		return true
	})
	return populated
}

// valuePopulated reports whether a payload value carries real content:
// a non-blank string, a non-empty array or object, or any non-null
// primitive such as a number or boolean.
func valuePopulated(value gjson.Result) bool {
	switch value.Type {
	case gjson.Null:
		return false
	case gjson.String:
		return strings.TrimSpace(value.String()) != ""
	case gjson.JSON:
		if value.IsArray() {
			return len(value.Array()) > 0
		}
		count := 0
		value.ForEach(func(_, _ gjson.Result) bool {
			count++
			return false
		})
		return count > 0
	default:
		// Numbers, booleans: populated, including 0 and false.
		return true
	}
}
