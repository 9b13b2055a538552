package model

import (
	"encoding/json"
	"time"
)

// LOI represents an uploaded lease or Letter-of-Intent document and its
// clause extraction state. ClausesRaw holds the extraction payload as
// raw JSON; it is kept in document form so clause iteration order is
// preserved and review edits can be applied in place.
type LOI struct {
	ID           string          `json:"_id"`
	Filename     string          `json:"filename"`
	Tenant       string          `json:"tenant"`
	DocURL       string          `json:"doc_url"`
	Status       string          `json:"status"` // uploaded, parsing, reviewed, failed
	ParseTaskID  string          `json:"parse_task_id,omitempty"`
	ClausesID    string          `json:"clauses_id,omitempty"`
	ClausesRaw   json.RawMessage `json:"clauses,omitempty"`
	ErrorMsg     string          `json:"error_msg,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// LOI lifecycle status constants. These describe the document, not the
// clauses inside it; clause review states are StatusKind values.
const (
	LOIUploaded = "uploaded"
	LOIParsing  = "parsing"
	LOIReviewed = "reviewed"
	LOIFailed   = "failed"
)
