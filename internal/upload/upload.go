package upload

import (
	"context"
	"time"

	resumeDatamodel "github.com/frahmantamala/hiring-gateway/internal/core/datamodel/resume"
)

// Storage is an object store driver.
type Storage interface {
	Put(ctx context.Context, bucket, key, contentType string, data []byte) error
	Remove(ctx context.Context, bucket, key string) error
	PublicURL(bucket, key string) string
	// SignedUploadURL returns a URL a client may PUT the object to until ttl passes.
	SignedUploadURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
}

type MetadataRepository interface {
	ApplicantIDForUser(ctx context.Context, userID string) (string, error)
	InsertResume(ctx context.Context, r *resumeDatamodel.Resume) (*resumeDatamodel.Resume, error)
	DeleteResumeByPath(ctx context.Context, filePath string) error
	SetAvatarURL(ctx context.Context, userID, url string) error
}

// Kind holds the acceptance rules of one upload endpoint.
type Kind struct {
	Name         string
	Prefix       string
	MaxSize      int64
	ContentTypes map[string]string // content type -> extension
	TypeMessage  string
	SizeMessage  string
}

const (
	MaxResumeSize = 5 << 20
	MaxAvatarSize = 2 << 20
)

var (
	ResumeKind = Kind{
		Name:    "resume",
		Prefix:  "resumes",
		MaxSize: MaxResumeSize,
		ContentTypes: map[string]string{
			"application/pdf":    ".pdf",
			"application/msword": ".doc",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
		},
		TypeMessage: "只支持 PDF、DOC、DOCX 格式的文件",
		SizeMessage: "文件大小不能超过 5MB",
	}

	AvatarKind = Kind{
		Name:    "avatar",
		Prefix:  "avatars",
		MaxSize: MaxAvatarSize,
		ContentTypes: map[string]string{
			"image/jpeg": ".jpg",
			"image/png":  ".png",
			"image/gif":  ".gif",
			"image/webp": ".webp",
		},
		TypeMessage: "只支持 JPEG、PNG、GIF、WebP 格式的图片",
		SizeMessage: "图片大小不能超过 2MB",
	}
)

// File is one multipart file as received.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}
