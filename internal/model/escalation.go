package model

import "time"

// Escalation status values. Transitions are monotonic:
// pending -> in-progress -> resolved. A resolved escalation never
// moves back.
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusResolved   = "resolved"
)

// statusRank orders the escalation states for the monotonic
// transition check in the repository layer.
var statusRank = map[string]int{
	StatusPending:    0,
	StatusInProgress: 1,
	StatusResolved:   2,
}

// ValidStatus reports whether s is a known escalation status.
func ValidStatus(s string) bool { _, ok := statusRank[s]; return ok }

// StatusAdvances reports whether moving from the current status to
// the next one goes forward in the pending -> in-progress -> resolved
// chain. Equal or backward moves return false.
func StatusAdvances(current, next string) bool {
	return statusRank[next] > statusRank[current]
}

// Escalation is a farmer-raised issue routed to agriculture officers
// when the AI answer is not enough. Officers work the item through
// its status chain and may attach resolution notes.
//
// Fields:
//  ID               – primary key identifier.
//  UserID           – farmer who raised the issue.
//  Name             – reporter name as entered on the form.
//  Location         – village/district free text.
//  Crop             – affected crop.
//  Concern          – short category of the issue.
//  IssueDescription – free-text description.
//  Language         – language the farmer filled the form in.
//  Status           – pending, in-progress or resolved.
//  OfficerNotes     – resolution notes, nil until an officer writes them.
//  ResolvedAt       – when the item reached resolved (nullable).
//  CreatedAt        – creation timestamp.
type Escalation struct {
	ID               uint64     // escalations.id
	UserID           uint64     // escalations.user_id
	Name             string     // escalations.name
	Location         string     // escalations.location
	Crop             string     // escalations.crop
	Concern          string     // escalations.concern
	IssueDescription string     // escalations.issue_description
	Language         string     // escalations.language
	Status           string     // escalations.status
	OfficerNotes     *string    // escalations.officer_notes (nullable)
	ResolvedAt       *time.Time // escalations.resolved_at (nullable)
	CreatedAt        time.Time  // escalations.created_at
}
