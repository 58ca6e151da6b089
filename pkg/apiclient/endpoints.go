package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/frahmantamala/hiring-gateway/pkg/permission"
)

func (c *Client) ListJobs(ctx context.Context, query JobQuery) (*JobList, error) {
	q := pageValues(query.ListOptions)
	if len(query.Fields) > 0 {
		q.Set("fields", strings.Join(query.Fields, ","))
	}
	setIf(q, "department_id", query.DepartmentID)
	setIf(q, "search", query.Search)

	var env struct {
		Data  []Job `json:"data"`
		Count int   `json:"count"`
	}
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/jobs", query: q}, &env); err != nil {
		return nil, err
	}
	return &JobList{Jobs: env.Data, Count: env.Count}, nil
}

func (c *Client) GetJob(ctx context.Context, id string) (*Job, error) {
	var job Job
	if err := c.getData(ctx, "/api/jobs/"+url.PathEscape(id), nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *Client) ListDepartments(ctx context.Context) ([]Department, error) {
	var out []Department
	if err := c.getData(ctx, "/api/departments", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SubmitApplication(ctx context.Context, req SubmitApplication) (*Submission, error) {
	var out Submission
	if err := c.sendData(ctx, http.MethodPost, "/api/applications/submit", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListApplications(ctx context.Context, query ApplicationQuery) (*ApplicationList, error) {
	q := pageValues(query.ListOptions)
	setIf(q, "job_id", query.JobID)
	setIf(q, "candidate_id", query.CandidateID)
	setIf(q, "status", query.Status)

	var rows []Application
	page, err := c.getPage(ctx, "/api/applications", q, &rows)
	if err != nil {
		return nil, err
	}
	return &ApplicationList{Applications: rows, Pagination: page}, nil
}

func (c *Client) UpdateApplicationStatus(ctx context.Context, id, status string) (*Application, error) {
	if err := c.require(permission.FeatureManageApplications); err != nil {
		return nil, err
	}
	var out Application
	path := "/api/applications/" + url.PathEscape(id) + "/status"
	if err := c.sendData(ctx, http.MethodPatch, path, map[string]string{"status": status}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var out Session
	if err := c.sendData(ctx, http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register returns the backend's user payload as-is.
func (c *Client) Register(ctx context.Context, email, password, name string) (json.RawMessage, error) {
	payload := map[string]string{"email": email, "password": password}
	if name != "" {
		payload["name"] = name
	}
	var out json.RawMessage
	if err := c.sendData(ctx, http.MethodPost, "/api/auth/register", payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	var out Session
	if err := c.sendData(ctx, http.MethodPost, "/api/auth/refresh", map[string]string{"refresh_token": refreshToken}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CurrentUser(ctx context.Context) (*CurrentUser, error) {
	var out CurrentUser
	if err := c.getData(ctx, "/api/auth/user", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.sendData(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

// UploadResume sends a resume. userID is only honoured for callers allowed to
// act on behalf of candidates; leave it empty otherwise.
func (c *Client) UploadResume(ctx context.Context, fileName string, content io.Reader, userID string) (*Upload, error) {
	return c.upload(ctx, "/api/upload/resume", fileName, content, map[string]string{"userId": userID})
}

func (c *Client) UploadAvatar(ctx context.Context, fileName string, content io.Reader, userID string) (*Upload, error) {
	return c.upload(ctx, "/api/upload/avatar", fileName, content, map[string]string{"userId": userID})
}

func (c *Client) SignedUploadURL(ctx context.Context, fileName, bucket string) (*SignedURL, error) {
	payload := map[string]string{"fileName": fileName}
	if bucket != "" {
		payload["bucket"] = bucket
	}
	var out SignedURL
	if err := c.sendData(ctx, http.MethodPost, "/api/upload/signed-url", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteFile(ctx context.Context, bucket, filePath string) error {
	q := url.Values{}
	setIf(q, "bucket", bucket)
	segments := strings.Split(strings.TrimLeft(filePath, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return c.do(ctx, call{method: http.MethodDelete, path: "/api/upload/delete/" + strings.Join(segments, "/"), query: q}, nil)
}

func (c *Client) ListNotifications(ctx context.Context, query NotificationQuery) (*NotificationList, error) {
	q := pageValues(query.ListOptions)
	setIf(q, "type", query.Type)
	if query.IsRead != nil {
		q.Set("is_read", strconv.FormatBool(*query.IsRead))
	}

	var rows []Notification
	page, err := c.getPage(ctx, "/api/notifications", q, &rows)
	if err != nil {
		return nil, err
	}
	return &NotificationList{Notifications: rows, Pagination: page}, nil
}

func (c *Client) UnreadNotifications(ctx context.Context) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	if err := c.getData(ctx, "/api/notifications/unread-count", nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

func (c *Client) CreateNotification(ctx context.Context, n NewNotification) (*Notification, error) {
	if err := c.require(permission.FeatureSendNotifications); err != nil {
		return nil, err
	}
	var out Notification
	if err := c.sendData(ctx, http.MethodPost, "/api/notifications", n, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	return c.sendData(ctx, http.MethodPatch, "/api/notifications/"+url.PathEscape(id)+"/read", nil, nil)
}

// MarkAllNotificationsRead returns how many notifications changed.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	if err := c.sendData(ctx, http.MethodPatch, "/api/notifications/read-all", nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

func (c *Client) DeleteNotification(ctx context.Context, id string) error {
	return c.sendData(ctx, http.MethodDelete, "/api/notifications/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListMessages(ctx context.Context, query MessageQuery) (*MessageList, error) {
	q := pageValues(query.ListOptions)
	setIf(q, "status", query.Status)
	setIf(q, "box", query.Box)

	var rows []Message
	page, err := c.getPage(ctx, "/api/messages", q, &rows)
	if err != nil {
		return nil, err
	}
	return &MessageList{Messages: rows, Pagination: page}, nil
}

func (c *Client) UnreadMessages(ctx context.Context) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	if err := c.getData(ctx, "/api/messages/unread-count", nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

func (c *Client) GetMessage(ctx context.Context, id string) (*Message, error) {
	var out Message
	if err := c.getData(ctx, "/api/messages/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SendMessage(ctx context.Context, m NewMessage) (*Message, error) {
	var out Message
	if err := c.sendData(ctx, http.MethodPost, "/api/messages", m, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateMessageStatus(ctx context.Context, id, status string) (*Message, error) {
	var out Message
	if err := c.sendData(ctx, http.MethodPatch, "/api/messages/"+url.PathEscape(id), map[string]string{"status": status}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteMessage(ctx context.Context, id string) error {
	return c.sendData(ctx, http.MethodDelete, "/api/messages/"+url.PathEscape(id), nil, nil)
}

func (c *Client) GenerateCaptcha(ctx context.Context) (*Captcha, error) {
	var out Captcha
	if err := c.do(ctx, call{method: http.MethodPost, path: "/api/captcha/generate"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyCaptcha checks code against the session. Pass VerifyOnly to re-check a
// session that was already verified.
func (c *Client) VerifyCaptcha(ctx context.Context, sessionToken, code string) (bool, error) {
	cl, err := c.jsonCall(http.MethodPost, "/api/captcha/verify", nil, map[string]string{
		"sessionToken": sessionToken,
		"captchaCode":  code,
	})
	if err != nil {
		return false, err
	}
	var out struct {
		Verified bool `json:"verified"`
	}
	if err := c.do(ctx, cl, &out); err != nil {
		return false, err
	}
	return out.Verified, nil
}

func (c *Client) Me(ctx context.Context) (*Me, error) {
	var out Me
	if err := c.getData(ctx, "/api/users/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*Profile, error) {
	if err := c.require(permission.FeatureManageProfile); err != nil {
		return nil, err
	}
	var out Profile
	if err := c.sendData(ctx, http.MethodPatch, "/api/users/me/profile", update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
