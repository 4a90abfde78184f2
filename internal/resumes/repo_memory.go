package resumes

import (
	"context"
	"sort"
	"sync"
	"time"

	"recruit-backend/internal/users"
)

// NameLookup resolves an account id to its profile, for joining display
// names the way the Postgres repo does with user_infos.
type NameLookup interface {
	GetByID(ctx context.Context, userID string) (users.User, error)
}

// MemoryRepo is an in-memory Repo used when no database is configured.
type MemoryRepo struct {
	mu      sync.RWMutex
	resumes map[string]Resume
	seq     map[string]int
	nextSeq int
	logs    map[string][]StatusLog
	names   NameLookup
}

func NewMemoryRepo(names NameLookup) *MemoryRepo {
	return &MemoryRepo{
		resumes: make(map[string]Resume),
		seq:     make(map[string]int),
		logs:    make(map[string][]StatusLog),
		names:   names,
	}
}

func (r *MemoryRepo) Create(ctx context.Context, resume Resume) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	resume.CreatedAt = now
	resume.UpdatedAt = now
	r.resumes[resume.ID] = resume
	r.nextSeq++
	r.seq[resume.ID] = r.nextSeq
	return nil
}

func (r *MemoryRepo) List(ctx context.Context, q ListQuery) ([]ResumeWithAuthor, error) {
	r.mu.RLock()
	matched := make([]Resume, 0)
	order := make(map[string]int)
	for _, resume := range r.resumes {
		if q.OwnerID != "" && resume.UserID != q.OwnerID {
			continue
		}
		if q.Status != "" && resume.Status != q.Status {
			continue
		}
		matched = append(matched, resume)
		order[resume.ID] = r.seq[resume.ID]
	}
	r.mu.RUnlock()

	// Insertion order breaks created_at ties deterministically.
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			if q.SortAsc {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.CreatedAt.After(b.CreatedAt)
		}
		if q.SortAsc {
			return order[a.ID] < order[b.ID]
		}
		return order[a.ID] > order[b.ID]
	})

	out := make([]ResumeWithAuthor, 0, len(matched))
	for _, resume := range matched {
		item, err := r.withAuthor(ctx, resume)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *MemoryRepo) Get(ctx context.Context, resumeID string) (ResumeWithAuthor, error) {
	r.mu.RLock()
	resume, ok := r.resumes[resumeID]
	r.mu.RUnlock()
	if !ok {
		return ResumeWithAuthor{}, ErrNotFound
	}
	return r.withAuthor(ctx, resume)
}

func (r *MemoryRepo) Update(ctx context.Context, resume Resume) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.resumes[resume.ID]
	if !ok {
		return ErrNotFound
	}
	existing.Title = resume.Title
	existing.PersonalStatement = resume.PersonalStatement
	existing.UpdatedAt = time.Now().UTC()
	r.resumes[resume.ID] = existing
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, resumeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.resumes[resumeID]; !ok {
		return ErrNotFound
	}
	delete(r.resumes, resumeID)
	delete(r.seq, resumeID)
	delete(r.logs, resumeID)
	return nil
}

func (r *MemoryRepo) TransitionStatus(ctx context.Context, log StatusLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	resume, ok := r.resumes[log.ResumeID]
	if !ok || resume.Status != log.PrevStatus {
		return ErrNotFound
	}
	resume.Status = log.NewStatus
	resume.UpdatedAt = time.Now().UTC()
	if log.CreatedAt.IsZero() {
		log.CreatedAt = resume.UpdatedAt
	}
	r.resumes[log.ResumeID] = resume
	r.logs[log.ResumeID] = append(r.logs[log.ResumeID], log)
	return nil
}

func (r *MemoryRepo) ListLogs(ctx context.Context, resumeID string) ([]StatusLogWithActor, error) {
	r.mu.RLock()
	logs := make([]StatusLog, len(r.logs[resumeID]))
	copy(logs, r.logs[resumeID])
	r.mu.RUnlock()

	// Newest first. Append order stands in for created_at so that rows
	// written within the same clock tick still order deterministically.
	out := make([]StatusLogWithActor, 0, len(logs))
	for i := len(logs) - 1; i >= 0; i-- {
		name, err := r.lookupName(ctx, logs[i].RecruiterID)
		if err != nil {
			return nil, err
		}
		out = append(out, StatusLogWithActor{StatusLog: logs[i], RecruiterName: name})
	}
	return out, nil
}

func (r *MemoryRepo) withAuthor(ctx context.Context, resume Resume) (ResumeWithAuthor, error) {
	name, err := r.lookupName(ctx, resume.UserID)
	if err != nil {
		return ResumeWithAuthor{}, err
	}
	return ResumeWithAuthor{Resume: resume, AuthorName: name}, nil
}

func (r *MemoryRepo) lookupName(ctx context.Context, userID string) (string, error) {
	user, err := r.names.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Name, nil
}
