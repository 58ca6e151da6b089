package supabase

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strings"
)

func objectPath(bucket, name string) string {
	segments := strings.Split(strings.Trim(name, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return url.PathEscape(bucket) + "/" + strings.Join(segments, "/")
}

// UploadObject stores data at bucket/name.
func (c *Client) UploadObject(ctx context.Context, bucket, name, contentType string, data []byte, upsert bool) error {
	headers := map[string]string{"Cache-Control": "max-age=3600"}
	if upsert {
		headers["x-upsert"] = "true"
	}
	_, err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/storage/v1/object/" + objectPath(bucket, name),
		body:        bytes.NewReader(data),
		contentType: contentType,
		key:         serviceKey,
		headers:     headers,
	})
	return err
}

func (c *Client) RemoveObject(ctx context.Context, bucket, name string) error {
	_, err := c.do(ctx, request{
		method: http.MethodDelete,
		path:   "/storage/v1/object/" + objectPath(bucket, name),
		key:    serviceKey,
	})
	return err
}

// PublicObjectURL is the unauthenticated download URL of a public bucket object.
func (c *Client) PublicObjectURL(bucket, name string) string {
	return c.baseURL + "/storage/v1/object/public/" + objectPath(bucket, name)
}

// ObjectURL is the authenticated upload endpoint for bucket/name.
func (c *Client) ObjectURL(bucket, name string) string {
	return c.baseURL + "/storage/v1/object/" + objectPath(bucket, name)
}
