package domain

import "time"

// OutcomeStatus is the terminal state of one platform's publish attempt.
type OutcomeStatus string

const (
	OutcomeSuccess OutcomeStatus = "success"
	OutcomeFailed  OutcomeStatus = "failed"
)

// Failure reason codes for per-platform outcomes. Free-form adapter error
// text is carried alongside in Reason when none of these apply.
const (
	ReasonForbidden         = "forbidden"
	ReasonMissingCredential = "missing_credential"
	ReasonTimeout           = "timeout"
	ReasonCancelled         = "cancelled"
)

// PlatformOutcome records the result of one platform attempt within a post.
type PlatformOutcome struct {
	Platform   string        `json:"platform"`
	Status     OutcomeStatus `json:"status"`
	ExternalID string        `json:"id,omitempty"`
	PostURL    string        `json:"postUrl,omitempty"`
	Reason     string        `json:"error,omitempty"`
}

// Post is a single publish attempt spanning one or more platforms. It is
// created only when a publish is attempted, persisted with the complete
// per-platform outcome map, and never mutated afterward. Partial success is
// a valid persisted state.
type Post struct {
	ID        string
	UserID    string
	Content   string
	Platforms []string
	Outcomes  []PlatformOutcome
	CreatedAt time.Time
}
