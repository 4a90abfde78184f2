package resumes

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"recruit-backend/internal/shared/apperr"
	"recruit-backend/internal/users"
)

const minStatementLength = 150

// Service enforces resume ownership, validation and the status workflow.
type Service struct {
	Resumes Repo
}

func NewService(repo Repo) *Service {
	return &Service{Resumes: repo}
}

// Create persists a new resume owned by the caller, starting at APPLY.
func (s *Service) Create(ctx context.Context, ownerID, title, statement string) (ResumeWithAuthor, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return ResumeWithAuthor{}, apperr.New(apperr.KindValidation, "title is required")
	}
	if err := validateStatement(statement); err != nil {
		return ResumeWithAuthor{}, err
	}

	resume := Resume{
		ID:                uuid.NewString(),
		UserID:            ownerID,
		Title:             title,
		PersonalStatement: statement,
		Status:            StatusApply,
	}
	if err := s.Resumes.Create(ctx, resume); err != nil {
		return ResumeWithAuthor{}, err
	}
	return s.Resumes.Get(ctx, resume.ID)
}

// List returns resumes visible to the caller: applicants see their own,
// recruiters see everything. Both filters are optional.
func (s *Service) List(ctx context.Context, viewerID, viewerRole, rawStatus, rawSort string) ([]ResumeWithAuthor, error) {
	q := ListQuery{}
	if viewerRole != users.RoleRecruiter {
		q.OwnerID = viewerID
	}

	if raw := strings.TrimSpace(rawStatus); raw != "" {
		status, ok := ParseStatus(raw)
		if !ok {
			return nil, apperr.New(apperr.KindValidation, "unknown application status")
		}
		q.Status = status
	}

	switch strings.ToLower(strings.TrimSpace(rawSort)) {
	case "", "desc":
	case "asc":
		q.SortAsc = true
	default:
		return nil, apperr.New(apperr.KindValidation, "sort must be asc or desc")
	}

	return s.Resumes.List(ctx, q)
}

// Get returns one resume. Applicants can only see their own; a foreign
// resume reads as not found so its existence is not leaked.
func (s *Service) Get(ctx context.Context, viewerID, viewerRole, resumeID string) (ResumeWithAuthor, error) {
	resume, err := s.Resumes.Get(ctx, resumeID)
	if err != nil {
		return ResumeWithAuthor{}, notFoundOr(err)
	}
	if viewerRole != users.RoleRecruiter && resume.UserID != viewerID {
		return ResumeWithAuthor{}, apperr.New(apperr.KindNotFound, "resume not found")
	}
	return resume, nil
}

// UpdateInput carries the optional fields of a partial resume update.
type UpdateInput struct {
	Title             *string
	PersonalStatement *string
}

// Update applies a partial edit. Only the owner may edit, regardless of
// role.
func (s *Service) Update(ctx context.Context, viewerID, resumeID string, in UpdateInput) (ResumeWithAuthor, error) {
	if in.Title == nil && in.PersonalStatement == nil {
		return ResumeWithAuthor{}, apperr.New(apperr.KindValidation, "title or personalStatement is required")
	}
	existing, err := s.Resumes.Get(ctx, resumeID)
	if err != nil {
		return ResumeWithAuthor{}, notFoundOr(err)
	}
	if existing.UserID != viewerID {
		return ResumeWithAuthor{}, apperr.New(apperr.KindNotFound, "resume not found")
	}

	updated := existing.Resume
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return ResumeWithAuthor{}, apperr.New(apperr.KindValidation, "title is required")
		}
		updated.Title = title
	}
	if in.PersonalStatement != nil {
		if err := validateStatement(*in.PersonalStatement); err != nil {
			return ResumeWithAuthor{}, err
		}
		updated.PersonalStatement = *in.PersonalStatement
	}

	if err := s.Resumes.Update(ctx, updated); err != nil {
		return ResumeWithAuthor{}, notFoundOr(err)
	}
	return s.Resumes.Get(ctx, resumeID)
}

// Delete removes an owned resume and returns its id.
func (s *Service) Delete(ctx context.Context, viewerID, resumeID string) (string, error) {
	existing, err := s.Resumes.Get(ctx, resumeID)
	if err != nil {
		return "", notFoundOr(err)
	}
	if existing.UserID != viewerID {
		return "", apperr.New(apperr.KindNotFound, "resume not found")
	}
	if err := s.Resumes.Delete(ctx, resumeID); err != nil {
		return "", notFoundOr(err)
	}
	return resumeID, nil
}

// Transition moves a resume to a new status and appends the audit log row.
// The same-status case is rejected before any write happens.
func (s *Service) Transition(ctx context.Context, recruiterID, resumeID, rawStatus, reason string) (StatusLog, error) {
	if strings.TrimSpace(rawStatus) == "" {
		return StatusLog{}, apperr.New(apperr.KindValidation, "applicationStatus is required")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return StatusLog{}, apperr.New(apperr.KindValidation, "reason is required")
	}
	status, ok := ParseStatus(rawStatus)
	if !ok {
		return StatusLog{}, apperr.New(apperr.KindValidation, "unknown application status")
	}

	resume, err := s.Resumes.Get(ctx, resumeID)
	if err != nil {
		return StatusLog{}, notFoundOr(err)
	}
	if resume.Status == status {
		return StatusLog{}, apperr.New(apperr.KindInvalidTransition, "resume already has this status")
	}

	log := StatusLog{
		ID:          uuid.NewString(),
		ResumeID:    resumeID,
		RecruiterID: recruiterID,
		PrevStatus:  resume.Status,
		NewStatus:   status,
		Reason:      reason,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.Resumes.TransitionStatus(ctx, log); err != nil {
		return StatusLog{}, notFoundOr(err)
	}
	return log, nil
}

// ListLogs returns a resume's transition history, newest first.
func (s *Service) ListLogs(ctx context.Context, resumeID string) ([]StatusLogWithActor, error) {
	if _, err := s.Resumes.Get(ctx, resumeID); err != nil {
		return nil, notFoundOr(err)
	}
	return s.Resumes.ListLogs(ctx, resumeID)
}

func validateStatement(statement string) error {
	if strings.TrimSpace(statement) == "" {
		return apperr.New(apperr.KindValidation, "personalStatement is required")
	}
	if utf8.RuneCountInString(statement) < minStatementLength {
		return apperr.New(apperr.KindValidation, "personalStatement must be at least 150 characters")
	}
	return nil
}

func notFoundOr(err error) error {
	if errors.Is(err, ErrNotFound) {
		return apperr.New(apperr.KindNotFound, "resume not found")
	}
	return err
}
