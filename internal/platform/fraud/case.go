package fraud

import "time"

// CaseStatus is the lifecycle status of a HITL case.
type CaseStatus string

const (
	CaseStatusOpen       CaseStatus = "OPEN"
	CaseStatusInProgress CaseStatus = "IN_PROGRESS"
	CaseStatusResolved   CaseStatus = "RESOLVED"
	CaseStatusClosed     CaseStatus = "CLOSED"
)

// IsPending reports whether the case still belongs in the review queue.
func (s CaseStatus) IsPending() bool {
	return s == CaseStatusOpen || s == CaseStatusInProgress
}

// Case is an escalation awaiting human review.
type Case struct {
	ID          string
	Transaction Transaction
	Status      CaseStatus
	CreatedAt   time.Time
}

// Resolution is the analyst's verdict on a case.
type Resolution struct {
	Decision Decision `json:"decision"`
	Notes    string   `json:"notes"`
}
