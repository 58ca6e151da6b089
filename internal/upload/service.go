package upload

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/frahmantamala/hiring-gateway/internal"
	resumeDatamodel "github.com/frahmantamala/hiring-gateway/internal/core/datamodel/resume"
	"github.com/google/uuid"
)

var (
	ErrMissingFile  = internal.NewMissingFieldsError([]string{"file"}, []string{"file"})
	ErrMissingOwner = internal.NewMissingFieldsError([]string{"userId"}, []string{"userId"})
	ErrBadPath      = internal.NewValidationError("文件路径无效", internal.ErrCodeValidationFailed)
	ErrForeignFile  = internal.NewForbiddenError("无权删除该文件", internal.ErrCodeInsufficientRole)
)

type Config struct {
	ResumeBucket string
	AvatarBucket string
	SignedURLTTL time.Duration
}

type Service struct {
	storage  Storage
	metadata MetadataRepository
	config   Config
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(storage Storage, metadata MetadataRepository, config Config, logger *slog.Logger) *Service {
	if config.ResumeBucket == "" {
		config.ResumeBucket = "resumes"
	}
	if config.AvatarBucket == "" {
		config.AvatarBucket = "avatars"
	}
	if config.SignedURLTTL <= 0 {
		config.SignedURLTTL = time.Hour
	}
	return &Service{
		storage:  storage,
		metadata: metadata,
		config:   config,
		logger:   logger,
		now:      time.Now,
	}
}

// Check applies the kind's type and size rules and returns the extension to store under.
func (k Kind) Check(f *File) (string, error) {
	if f == nil || len(f.Data) == 0 {
		return "", ErrMissingFile
	}

	contentType := normalizeContentType(f.ContentType)
	ext, ok := k.ContentTypes[contentType]
	if !ok {
		// some clients send octet-stream; trust a known extension instead
		byExt, found := k.typeForExt(filepath.Ext(f.Name))
		if contentType != "" && contentType != "application/octet-stream" || !found {
			return "", internal.NewValidationError(k.TypeMessage, internal.ErrCodeInvalidFileType).
				WithDetails(map[string]string{"contentType": f.ContentType})
		}
		ext = k.ContentTypes[byExt]
		f.ContentType = byExt
	} else {
		f.ContentType = contentType
	}

	if f.Size > k.MaxSize || int64(len(f.Data)) > k.MaxSize {
		return "", internal.NewValidationError(k.SizeMessage, internal.ErrCodeFileTooLarge).
			WithDetails(map[string]int64{"size": f.Size, "maxSize": k.MaxSize})
	}
	return ext, nil
}

func (k Kind) typeForExt(ext string) (string, bool) {
	ext = strings.ToLower(ext)
	if ext == ".jpeg" {
		ext = ".jpg"
	}
	for ct, e := range k.ContentTypes {
		if e == ext {
			return ct, true
		}
	}
	return "", false
}

func normalizeContentType(ct string) string {
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(ct))
	}
	return mediaType
}

func (s *Service) objectKey(prefix, owner, ext string) string {
	return fmt.Sprintf("%s/%s/%d_%s%s", prefix, owner, s.now().UnixMilli(), uuid.NewString(), ext)
}

func (s *Service) UploadResume(ctx context.Context, owner string, f *File) (*Result, error) {
	if owner == "" {
		return nil, ErrMissingOwner
	}
	ext, err := ResumeKind.Check(f)
	if err != nil {
		return nil, err
	}

	key := s.objectKey(ResumeKind.Prefix, owner, ext)
	if err := s.storage.Put(ctx, s.config.ResumeBucket, key, f.ContentType, f.Data); err != nil {
		s.logger.ErrorContext(ctx, "resume upload failed", "key", key, "error", err)
		return nil, internal.NewUpstreamError("文件上传失败", 0, err)
	}

	result := &Result{
		FileURL:     s.storage.PublicURL(s.config.ResumeBucket, key),
		FilePath:    key,
		FileName:    f.Name,
		FileSize:    int64(len(f.Data)),
		ContentType: f.ContentType,
	}

	if f.ContentType == "application/pdf" {
		if pages, err := countPages(f.Data); err != nil {
			s.logger.WarnContext(ctx, "could not read pdf page count", "key", key, "error", err)
		} else {
			result.PageCount = &pages
		}
	}

	row := &resumeDatamodel.Resume{
		FilePath:    key,
		FileName:    f.Name,
		FileURL:     result.FileURL,
		FileSize:    result.FileSize,
		ContentType: f.ContentType,
		PageCount:   result.PageCount,
	}
	// applicant_id references applicants.id, not the auth user
	if applicantID, err := s.metadata.ApplicantIDForUser(ctx, owner); err != nil {
		s.logger.WarnContext(ctx, "applicant lookup failed", "user_id", owner, "error", err)
	} else {
		row.ApplicantID = applicantID
	}

	// the object stays even when the metadata insert fails
	stored, err := s.metadata.InsertResume(ctx, row)
	if err != nil {
		s.logger.WarnContext(ctx, "resume metadata insert failed", "key", key, "error", err)
		return result, nil
	}
	if stored != nil && stored.ID != "" {
		result.FileID = &stored.ID
	}
	return result, nil
}

func (s *Service) UploadAvatar(ctx context.Context, userID string, f *File) (*Result, error) {
	if userID == "" {
		return nil, ErrMissingOwner
	}
	ext, err := AvatarKind.Check(f)
	if err != nil {
		return nil, err
	}

	key := s.objectKey(AvatarKind.Prefix, userID, ext)
	if err := s.storage.Put(ctx, s.config.AvatarBucket, key, f.ContentType, f.Data); err != nil {
		s.logger.ErrorContext(ctx, "avatar upload failed", "key", key, "error", err)
		return nil, internal.NewUpstreamError("头像上传失败", 0, err)
	}

	result := &Result{
		FileURL:     s.storage.PublicURL(s.config.AvatarBucket, key),
		FilePath:    key,
		FileName:    f.Name,
		FileSize:    int64(len(f.Data)),
		ContentType: f.ContentType,
	}

	if err := s.metadata.SetAvatarURL(ctx, userID, result.FileURL); err != nil {
		s.logger.WarnContext(ctx, "avatar url update failed", "user_id", userID, "error", err)
	}
	return result, nil
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func sanitizeFileName(name string) string {
	name = unsafeName.ReplaceAllString(path.Base(strings.ReplaceAll(name, `\`, "/")), "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "file"
	}
	return name
}

func (s *Service) SignedURL(ctx context.Context, owner string, req SignedURLRequest) (*SignedURL, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	bucket := req.Bucket
	if bucket == "" {
		bucket = s.config.ResumeBucket
	}
	if owner == "" {
		return nil, ErrMissingOwner
	}

	key := fmt.Sprintf("uploads/%s/%d_%s", owner, s.now().UnixMilli(), sanitizeFileName(req.FileName))
	signed, err := s.storage.SignedUploadURL(ctx, bucket, key, s.config.SignedURLTTL)
	if err != nil {
		return nil, internal.NewUpstreamError("生成上传链接失败", 0, err)
	}

	return &SignedURL{
		SignedURL: signed,
		FilePath:  key,
		ExpiresIn: int(s.config.SignedURLTTL / time.Second),
	}, nil
}

// Delete removes the object and then its resume row. owner, when set,
// restricts deletion to that user's folders.
func (s *Service) Delete(ctx context.Context, owner, bucket, filePath string) error {
	filePath = strings.Trim(filePath, "/")
	if filePath == "" {
		return internal.NewMissingFieldsError([]string{"fileName"}, []string{"fileName"})
	}
	if strings.Contains(filePath, "..") {
		return ErrBadPath
	}
	if bucket == "" {
		bucket = s.config.ResumeBucket
	}
	if owner != "" && !ownedBy(filePath, owner) {
		return ErrForeignFile
	}

	if err := s.storage.Remove(ctx, bucket, filePath); err != nil {
		s.logger.ErrorContext(ctx, "object delete failed", "bucket", bucket, "key", filePath, "error", err)
		return internal.NewUpstreamError("文件删除失败", 0, err)
	}

	if bucket == s.config.ResumeBucket {
		if err := s.metadata.DeleteResumeByPath(ctx, filePath); err != nil {
			s.logger.WarnContext(ctx, "resume metadata delete failed", "key", filePath, "error", err)
		}
	}
	return nil
}

func ownedBy(filePath, owner string) bool {
	parts := strings.Split(filePath, "/")
	return len(parts) >= 3 && parts[1] == owner
}
