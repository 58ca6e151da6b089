package objectstore

import (
	"context"
	"time"

	"github.com/frahmantamala/hiring-gateway/internal/supabase"
)

// Supabase stores objects through the backend's Storage HTTP API.
type Supabase struct {
	client *supabase.Client
}

func NewSupabase(client *supabase.Client) *Supabase {
	return &Supabase{client: client}
}

func (s *Supabase) Put(ctx context.Context, bucket, key, contentType string, data []byte) error {
	return s.client.UploadObject(ctx, bucket, key, contentType, data, false)
}

func (s *Supabase) Remove(ctx context.Context, bucket, key string) error {
	return s.client.RemoveObject(ctx, bucket, key)
}

func (s *Supabase) PublicURL(bucket, key string) string {
	return s.client.PublicObjectURL(bucket, key)
}

// SignedUploadURL only reserves the path; the client still authenticates the PUT itself.
func (s *Supabase) SignedUploadURL(_ context.Context, bucket, key string, _ time.Duration) (string, error) {
	return s.client.ObjectURL(bucket, key), nil
}
