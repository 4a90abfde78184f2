package resumes

import "time"

// resumeResponse flattens the author relation: the raw owner reference is
// replaced by the author's display name.
type resumeResponse struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	PersonalStatement string    `json:"personalStatement"`
	ApplicationStatus string    `json:"applicationStatus"`
	Name              string    `json:"name"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func toResumeResponse(item ResumeWithAuthor) resumeResponse {
	return resumeResponse{
		ID:                item.ID,
		Title:             item.Title,
		PersonalStatement: item.PersonalStatement,
		ApplicationStatus: item.Status,
		Name:              item.AuthorName,
		CreatedAt:         item.CreatedAt,
		UpdatedAt:         item.UpdatedAt,
	}
}

func toResumeResponses(items []ResumeWithAuthor) []resumeResponse {
	out := make([]resumeResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toResumeResponse(item))
	}
	return out
}

// statusLogResponse flattens the acting recruiter's name the same way.
type statusLogResponse struct {
	ID         string    `json:"id"`
	ResumeID   string    `json:"resumeId"`
	PrevStatus string    `json:"prevStatus"`
	CurrStatus string    `json:"currStatus"`
	Reason     string    `json:"reason"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toStatusLogResponse(log StatusLog, recruiterName string) statusLogResponse {
	return statusLogResponse{
		ID:         log.ID,
		ResumeID:   log.ResumeID,
		PrevStatus: log.PrevStatus,
		CurrStatus: log.NewStatus,
		Reason:     log.Reason,
		Name:       recruiterName,
		CreatedAt:  log.CreatedAt,
	}
}

func toStatusLogResponses(logs []StatusLogWithActor) []statusLogResponse {
	out := make([]statusLogResponse, 0, len(logs))
	for _, log := range logs {
		out = append(out, toStatusLogResponse(log.StatusLog, log.RecruiterName))
	}
	return out
}
