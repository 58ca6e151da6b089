package application

import "time"

const StatusPending = "pending"

// Application is a row of the backend's applications table.
type Application struct {
	ID          string     `json:"id,omitempty"`
	JobID       string     `json:"job_id"`
	CandidateID string     `json:"candidate_id"`
	CoverLetter string     `json:"cover_letter,omitempty"`
	ResumeURL   string     `json:"resume_url,omitempty"`
	Status      string     `json:"status"`
	AppliedAt   time.Time  `json:"applied_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}
