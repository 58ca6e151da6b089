package job

import "time"

const StatusActive = "active"

type Department struct {
	ID          string     `json:"id,omitempty"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	ColorTheme  string     `json:"color_theme,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

type Job struct {
	ID             string     `json:"id,omitempty"`
	Title          string     `json:"title"`
	DepartmentID   string     `json:"department_id,omitempty"`
	Description    string     `json:"description,omitempty"`
	Requirements   string     `json:"requirements,omitempty"`
	Location       string     `json:"location,omitempty"`
	EmploymentType string     `json:"employment_type,omitempty"`
	SalaryMin      *int64     `json:"salary_min,omitempty"`
	SalaryMax      *int64     `json:"salary_max,omitempty"`
	Status         string     `json:"status"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}
