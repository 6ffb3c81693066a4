package domain

import "time"

type DraftStatus string

const (
	DraftStatusGenerated DraftStatus = "generated"
	DraftStatusEdited    DraftStatus = "edited"
	DraftStatusSaved     DraftStatus = "saved"
)

// Draft is a candidate post body for a single platform. Generated drafts
// live only in the response until the user saves one; saved drafts are
// immutable except for deletion by their owner.
type Draft struct {
	ID        string
	UserID    string
	Platform  string
	Content   string
	Status    DraftStatus
	CreatedAt time.Time
}
