package apiclient

import (
	"encoding/json"
	"time"
)

type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Page   int `json:"page"`
	Total  int `json:"total"`
}

// ListOptions pages a list call. Zero values leave the gateway defaults.
type ListOptions struct {
	Limit  int
	Offset int
}

type Job struct {
	ID             string     `json:"id"`
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
}

type JobQuery struct {
	ListOptions
	Fields       []string
	DepartmentID string
	Search       string
}

type JobList struct {
	Jobs  []Job
	Count int
}

type Application struct {
	ID          string     `json:"id"`
	JobID       string     `json:"job_id"`
	CandidateID string     `json:"candidate_id"`
	CoverLetter string     `json:"cover_letter,omitempty"`
	ResumeURL   string     `json:"resume_url,omitempty"`
	Status      string     `json:"status"`
	AppliedAt   time.Time  `json:"applied_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

type ApplicationQuery struct {
	ListOptions
	JobID       string
	CandidateID string
	Status      string
}

type SubmitApplication struct {
	JobID       string `json:"jobId"`
	CandidateID string `json:"candidateId"`
	CoverLetter string `json:"coverLetter,omitempty"`
	ResumeURL   string `json:"resumeUrl,omitempty"`
}

type Submission struct {
	ApplicationID string    `json:"applicationId"`
	SubmittedAt   time.Time `json:"submittedAt"`
}

type ApplicationList struct {
	Applications []Application
	Pagination   Pagination
}

// Session is the backend auth payload. User is passed through untouched.
type Session struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type,omitempty"`
	ExpiresIn    int             `json:"expires_in,omitempty"`
	User         json.RawMessage `json:"user,omitempty"`
}

type CurrentUser struct {
	User json.RawMessage `json:"user"`
	Role string          `json:"role"`
}

type Department struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ColorTheme  string `json:"color_theme,omitempty"`
}

type Profile struct {
	UserID    string `json:"user_id"`
	FullName  string `json:"full_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Me is the caller as the gateway resolves it, with the permissions of their role.
type Me struct {
	User     json.RawMessage `json:"user"`
	Profile  *Profile        `json:"profile"`
	Role     string          `json:"role"`
	Features []string        `json:"features"`
	Pages    []string        `json:"pages"`
}

// ProfileUpdate sends only the non-nil fields.
type ProfileUpdate struct {
	FullName *string `json:"fullName,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

type Upload struct {
	FileID      *string `json:"fileId"`
	FileURL     string  `json:"fileUrl"`
	FilePath    string  `json:"filePath"`
	FileName    string  `json:"fileName"`
	FileSize    int64   `json:"fileSize"`
	ContentType string  `json:"contentType"`
	PageCount   *int    `json:"pageCount,omitempty"`
}

type SignedURL struct {
	SignedURL string `json:"signedUrl"`
	FilePath  string `json:"filePath"`
	ExpiresIn int    `json:"expiresIn"`
}

type Notification struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Type      string          `json:"type"`
	Title     string          `json:"title"`
	Message   string          `json:"message,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	IsRead    bool            `json:"is_read"`
	ReadAt    *time.Time      `json:"read_at,omitempty"`
	CreatedAt *time.Time      `json:"created_at,omitempty"`
}

type NotificationQuery struct {
	ListOptions
	Type   string
	IsRead *bool
}

type NewNotification struct {
	UserID  string          `json:"userId"`
	Type    string          `json:"type"`
	Title   string          `json:"title"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type NotificationList struct {
	Notifications []Notification
	Pagination    Pagination
}

type Message struct {
	ID         string     `json:"id"`
	SenderID   string     `json:"sender_id"`
	ReceiverID string     `json:"receiver_id"`
	Subject    string     `json:"subject,omitempty"`
	Content    string     `json:"content"`
	Status     string     `json:"status"`
	Priority   string     `json:"priority"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
}

type MessageQuery struct {
	ListOptions
	Status string
	// Box is "inbox" (default) or "sent".
	Box string
}

type NewMessage struct {
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content"`
	Subject    string `json:"subject,omitempty"`
	Priority   string `json:"priority,omitempty"`
}

type MessageList struct {
	Messages   []Message
	Pagination Pagination
}

type Captcha struct {
	SessionToken string    `json:"sessionToken"`
	CaptchaCode  string    `json:"captchaCode"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// VerifyOnly re-checks an already verified captcha session without a code.
const VerifyOnly = "VERIFY_ONLY"
