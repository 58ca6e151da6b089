package supabase

import (
	"context"
	"net/http"
	"net/url"
)

// AuthUser is the subset of the auth user object the gateway reads.
type AuthUser struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	Role         string                 `json:"role"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Response, error) {
	body, err := jsonBody(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}
	return c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/auth/v1/token",
		query:       url.Values{"grant_type": {"password"}},
		body:        body,
		contentType: "application/json",
		key:         anonKey,
	})
}

func (c *Client) SignUp(ctx context.Context, email, password string, metadata map[string]interface{}) (*Response, error) {
	body, err := jsonBody(map[string]interface{}{
		"email":    email,
		"password": password,
		"data":     metadata,
	})
	if err != nil {
		return nil, err
	}
	return c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/auth/v1/signup",
		body:        body,
		contentType: "application/json",
		key:         anonKey,
	})
}

func (c *Client) GetUser(ctx context.Context, accessToken string) (*Response, error) {
	return c.do(ctx, request{
		method: http.MethodGet,
		path:   "/auth/v1/user",
		key:    anonKey,
		bearer: accessToken,
	})
}

func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*Response, error) {
	body, err := jsonBody(map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return nil, err
	}
	return c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/auth/v1/token",
		query:       url.Values{"grant_type": {"refresh_token"}},
		body:        body,
		contentType: "application/json",
		key:         anonKey,
	})
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	_, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/logout",
		key:    anonKey,
		bearer: accessToken,
	})
	return err
}
