package resume

import "time"

type Resume struct {
	ID          string     `json:"id,omitempty"`
	ApplicantID string     `json:"applicant_id,omitempty"`
	FilePath    string     `json:"file_path"`
	FileName    string     `json:"file_name"`
	FileURL     string     `json:"file_url"`
	FileSize    int64      `json:"file_size"`
	ContentType string     `json:"content_type"`
	PageCount   *int       `json:"page_count,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}
