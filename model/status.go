package model

import "strings"

// StatusKind is the review state of a clause. It is a closed set: every
// raw status string normalizes to exactly one of these three values.
type StatusKind string

const (
	StatusApproved StatusKind = "approved"
	StatusRejected StatusKind = "rejected"
	StatusPending  StatusKind = "pending"
)

// Status pairs a normalized status key with its display label.
type Status struct {
	Key   StatusKind `json:"key"`
	Label string     `json:"label"`
}

var statusLabels = map[StatusKind]string{
	StatusApproved: "Approved",
	StatusRejected: "Rejected",
	StatusPending:  "Pending",
}

// NormalizeStatus maps an arbitrary status string to one of the three
// clause review states. Matching is case-insensitive; anything that is
// not exactly approved or rejected after lower-casing falls back to
// pending. It never fails, so callers can feed it raw payload values
// directly. All status handling in the service goes through this one
// function so the data layer and display badges cannot disagree.
func NormalizeStatus(raw string) Status {
	key := StatusKind(strings.ToLower(raw))
	switch key {
	case StatusApproved, StatusRejected:
	default:
		key = StatusPending
	}
	return Status{Key: key, Label: statusLabels[key]}
}
