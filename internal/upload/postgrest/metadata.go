package postgrest

import (
	"context"
	"encoding/json"

	resumeDatamodel "github.com/frahmantamala/hiring-gateway/internal/core/datamodel/resume"
	"github.com/frahmantamala/hiring-gateway/internal/supabase"
)

const (
	resumesTable    = "resumes"
	profilesTable   = "user_profiles"
	applicantsTable = "applicants"
)

type MetadataRepository struct {
	client *supabase.Client
}

func NewMetadataRepository(client *supabase.Client) *MetadataRepository {
	return &MetadataRepository{client: client}
}

func (r *MetadataRepository) InsertResume(ctx context.Context, row *resumeDatamodel.Resume) (*resumeDatamodel.Resume, error) {
	resp, err := r.client.Insert(ctx, resumesTable, row)
	if err != nil {
		return nil, err
	}

	var rows []resumeDatamodel.Resume
	if err := resp.Decode(&rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return row, nil
	}
	return &rows[0], nil
}

// ApplicantIDForUser returns "" when the user has no applicant record yet.
func (r *MetadataRepository) ApplicantIDForUser(ctx context.Context, userID string) (string, error) {
	q := supabase.NewQuery().
		Select("id").
		Eq("user_id", userID).
		Limit(1)

	resp, err := r.client.Select(ctx, applicantsTable, q)
	if err != nil {
		return "", err
	}

	var rows []struct {
		ID json.RawMessage `json:"id"`
	}
	if err := resp.Decode(&rows); err != nil {
		return "", err
	}
	if len(rows) == 0 || len(rows[0].ID) == 0 {
		return "", nil
	}

	var id string
	if err := json.Unmarshal(rows[0].ID, &id); err == nil {
		return id, nil
	}
	return string(rows[0].ID), nil
}

func (r *MetadataRepository) DeleteResumeByPath(ctx context.Context, filePath string) error {
	_, err := r.client.Delete(ctx, resumesTable, supabase.NewQuery().Eq("file_path", filePath))
	return err
}

func (r *MetadataRepository) SetAvatarURL(ctx context.Context, userID, url string) error {
	_, err := r.client.Update(ctx, profilesTable,
		supabase.NewQuery().Eq("user_id", userID),
		map[string]string{"avatar_url": url})
	return err
}
