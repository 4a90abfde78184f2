package users

import "time"

// Role gates which resume operations an account may perform.
const (
	RoleApplicant = "APPLICANT"
	RoleRecruiter = "RECRUITER"
)

// User is an account joined with its profile row.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
