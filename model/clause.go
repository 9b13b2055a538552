package model

// Risk levels for a clause. Unrecognized or missing risk values default
// to RiskMedium at extraction time.
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// Clause is one contractual provision of a lease or LOI together with
// its review metadata. Clauses are derived fresh from the raw extraction
// payload on every read; they are never stored or mutated in place.
type Clause struct {
	// ID is synthesized as "<category>::<key>" and is unique within
	// one extraction run.
	ID       string `json:"id"`
	Name     string `json:"name"`
	Title    string `json:"title"`
	Category string `json:"category"`

	// ClauseDetails is the operative legal text. Empty when the
	// payload carried none.
	ClauseDetails string `json:"clauseDetails,omitempty"`

	Status StatusKind `json:"status"`
	Risk   string     `json:"risk"`

	// AI annotations are passed through from the payload unmodified.
	AIConfidenceScore        *float64 `json:"aiConfidenceScore,omitempty"`
	AISuggestedClauseDetails string   `json:"aiSuggestedClauseDetails,omitempty"`

	Comments []Comment `json:"comments"`

	// Passthrough metadata, not validated.
	CurrentVersion any    `json:"currentVersion,omitempty"`
	UpdatedAt      string `json:"updatedAt,omitempty"`
}

// Comment is a review note on a clause. Comments have no identity
// beyond their position in the owning clause's sequence.
type Comment struct {
	Author    string `json:"author"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}

// NormalizeRisk coerces a raw risk string to one of the three risk
// levels, defaulting to Medium for anything unrecognized.
func NormalizeRisk(raw string) string {
	switch raw {
	case RiskLow, RiskMedium, RiskHigh:
		return raw
	}
	return RiskMedium
}
