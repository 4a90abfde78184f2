package resumes

import (
	"strings"
	"time"
)

// Application status values. The progression APPLY -> DROP|PASS ->
// INTERVIEW1 -> INTERVIEW2 -> FINAL_PASS is conventional, not enforced;
// the only checked rule is that a transition must change the status.
const (
	StatusApply      = "APPLY"
	StatusDrop       = "DROP"
	StatusPass       = "PASS"
	StatusInterview1 = "INTERVIEW1"
	StatusInterview2 = "INTERVIEW2"
	StatusFinalPass  = "FINAL_PASS"
)

var statusSet = map[string]struct{}{
	StatusApply:      {},
	StatusDrop:       {},
	StatusPass:       {},
	StatusInterview1: {},
	StatusInterview2: {},
	StatusFinalPass:  {},
}

// ParseStatus normalizes a caller-supplied status value. Matching is
// case-insensitive; the canonical upper-case form is returned.
func ParseStatus(raw string) (string, bool) {
	status := strings.ToUpper(strings.TrimSpace(raw))
	_, ok := statusSet[status]
	return status, ok
}

// Resume is an applicant's submission.
type Resume struct {
	ID                string
	UserID            string
	Title             string
	PersonalStatement string
	Status            string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ResumeWithAuthor is a resume joined with its author's display name.
type ResumeWithAuthor struct {
	Resume
	AuthorName string
}

// StatusLog is one append-only record of a status transition.
type StatusLog struct {
	ID          string
	ResumeID    string
	RecruiterID string
	PrevStatus  string
	NewStatus   string
	Reason      string
	CreatedAt   time.Time
}

// StatusLogWithActor is a log row joined with the acting recruiter's name.
type StatusLogWithActor struct {
	StatusLog
	RecruiterName string
}
