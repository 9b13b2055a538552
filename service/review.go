package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/leasedesk/leasedesk/backend/model"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var (
	ErrLOINotFound    = errors.New("LOI not found")
	ErrClauseNotFound = errors.New("clause not found")
)

// clausePath returns the sjson/gjson path of a clause record from its
// synthesized "<category>::<key>" id. The split is on the last "::" so
// a category containing the separator still resolves.
func clausePath(clauseID string) (string, error) {
	i := strings.LastIndex(clauseID, "::")
	if i <= 0 || i+2 >= len(clauseID) {
		return "", ErrClauseNotFound
	}
	category, key := clauseID[:i], clauseID[i+2:]
	return "clauses.history." + escapePathKey(category) + "." + escapePathKey(key), nil
}

// escapePathKey escapes gjson path metacharacters in a literal object key.
func escapePathKey(key string) string {
	r := strings.NewReplacer("\\", "\\\\", ".", "\\.", "*", "\\*", "?", "\\?", "#", "\\#")
	return r.Replace(key)
}

// AppendComment adds a comment to a clause of the raw payload and
// returns the updated payload. Existing non-array comment values are
// folded into a proper array first, matching how extraction reads them.
func AppendComment(payload []byte, clauseID string, comment model.Comment) ([]byte, error) {
	path, err := clausePath(clauseID)
	if err != nil {
		return nil, err
	}
	record := gjson.GetBytes(payload, path)
	if !record.Exists() {
		return nil, ErrClauseNotFound
	}

	comments := commentsFromResult(record.Get("comments"))
	comments = append(comments, comment)

	updated, err := sjson.SetBytes(payload, path+".comments", comments)
	if err != nil {
		return nil, fmt.Errorf("failed to write comment: %w", err)
	}
	return updated, nil
}

// SetClauseStatus sets a clause's review status in the raw payload. The
// status must already be normalized by the caller.
func SetClauseStatus(payload []byte, clauseID string, status model.StatusKind) ([]byte, error) {
	path, err := clausePath(clauseID)
	if err != nil {
		return nil, err
	}
	if !gjson.GetBytes(payload, path).Exists() {
		return nil, ErrClauseNotFound
	}

	updated, err := sjson.SetBytes(payload, path+".status", string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to write status: %w", err)
	}
	updated, err = sjson.SetBytes(updated, path+".updatedAt", time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("failed to write timestamp: %w", err)
	}
	return updated, nil
}

// AttachSuggestion writes an AI suggestion and its confidence onto a
// clause of the raw payload.
func AttachSuggestion(payload []byte, clauseID, suggestion string, confidence float64) ([]byte, error) {
	path, err := clausePath(clauseID)
	if err != nil {
		return nil, err
	}
	if !gjson.GetBytes(payload, path).Exists() {
		return nil, ErrClauseNotFound
	}

	updated, err := sjson.SetBytes(payload, path+".aiSuggestedClauseDetails", suggestion)
	if err != nil {
		return nil, fmt.Errorf("failed to write suggestion: %w", err)
	}
	updated, err = sjson.SetBytes(updated, path+".aiConfidenceScore", confidence)
	if err != nil {
		return nil, fmt.Errorf("failed to write confidence: %w", err)
	}
	return updated, nil
}

// MutateClauses applies fn to an LOI's raw clauses payload under the
// store lock and saves the result. Used by the review handlers so
// concurrent edits cannot interleave between read and write.
func (s *LOIStore) MutateClauses(id string, fn func(payload []byte) ([]byte, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	loi, ok := s.lois[id]
	if !ok {
		return ErrLOINotFound
	}

	updated, err := fn(loi.ClausesRaw)
	if err != nil {
		return err
	}
	loi.ClausesRaw = updated
	loi.UpdatedAt = time.Now()
	return nil
}
