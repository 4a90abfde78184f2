package resumes

import "context"

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "resume not found" }

// ListQuery narrows and orders a resume listing. An empty OwnerID means no
// ownership restriction; an empty Status means no status filter.
type ListQuery struct {
	OwnerID string
	Status  string
	SortAsc bool
}

type Repo interface {
	Create(ctx context.Context, resume Resume) error
	List(ctx context.Context, q ListQuery) ([]ResumeWithAuthor, error)
	Get(ctx context.Context, resumeID string) (ResumeWithAuthor, error)
	Update(ctx context.Context, resume Resume) error
	Delete(ctx context.Context, resumeID string) error
	// TransitionStatus applies the status change and appends the log row in
	// one transaction. The update is guarded by the expected previous
	// status, so a concurrent transition surfaces as ErrNotFound.
	TransitionStatus(ctx context.Context, log StatusLog) error
	ListLogs(ctx context.Context, resumeID string) ([]StatusLogWithActor, error)
}
