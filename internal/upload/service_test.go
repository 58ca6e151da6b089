package upload_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/frahmantamala/hiring-gateway/internal"
	resumeDatamodel "github.com/frahmantamala/hiring-gateway/internal/core/datamodel/resume"
	"github.com/frahmantamala/hiring-gateway/internal/upload"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: make(map[string][]byte)}
}

func (m *memoryStorage) Put(_ context.Context, bucket, key, _ string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.objects[bucket+"/"+key] = data
	return nil
}

func (m *memoryStorage) Remove(_ context.Context, bucket, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[bucket+"/"+key]; !ok {
		return errors.New("object not found")
	}
	delete(m.objects, bucket+"/"+key)
	return nil
}

func (m *memoryStorage) PublicURL(bucket, key string) string {
	return "https://cdn.test/" + bucket + "/" + key
}

func (m *memoryStorage) SignedUploadURL(_ context.Context, bucket, key string, _ time.Duration) (string, error) {
	return "https://cdn.test/upload/" + bucket + "/" + key + "?sig=x", nil
}

type mockMetadata struct {
	inserted   []*resumeDatamodel.Resume
	deleted    []string
	avatars    map[string]string
	applicants map[string]string // user id -> applicant id
	lookupErr  error
	insertErr  error
}

func (m *mockMetadata) ApplicantIDForUser(_ context.Context, userID string) (string, error) {
	if m.lookupErr != nil {
		return "", m.lookupErr
	}
	return m.applicants[userID], nil
}

func (m *mockMetadata) InsertResume(_ context.Context, r *resumeDatamodel.Resume) (*resumeDatamodel.Resume, error) {
	if m.insertErr != nil {
		return nil, m.insertErr
	}
	stored := *r
	stored.ID = "resume-1"
	m.inserted = append(m.inserted, &stored)
	return &stored, nil
}

func (m *mockMetadata) DeleteResumeByPath(_ context.Context, filePath string) error {
	m.deleted = append(m.deleted, filePath)
	return nil
}

func (m *mockMetadata) SetAvatarURL(_ context.Context, userID, url string) error {
	if m.avatars == nil {
		m.avatars = map[string]string{}
	}
	m.avatars[userID] = url
	return nil
}

var _ = Describe("Upload Service", func() {
	var (
		storage  *memoryStorage
		metadata *mockMetadata
		service  *upload.Service
		ctx      context.Context
	)

	BeforeEach(func() {
		storage = newMemoryStorage()
		metadata = &mockMetadata{applicants: map[string]string{"u1": "applicant-1"}}
		service = upload.NewService(storage, metadata, upload.Config{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
		ctx = context.Background()
	})

	codeOf := func(err error) internal.ErrorCode {
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		return appErr.Code
	}

	Describe("UploadResume", func() {
		It("should store the file under the owner's folder and record metadata", func() {
			result, err := service.UploadResume(ctx, "u1", &upload.File{Name: "cv.pdf", ContentType: "application/pdf", Size: 3, Data: []byte("abc")})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.FilePath).To(MatchRegexp(`^resumes/u1/\d+_[0-9a-f-]{36}\.pdf$`))
			Expect(result.FileURL).To(Equal("https://cdn.test/resumes/" + result.FilePath))
			Expect(*result.FileID).To(Equal("resume-1"))
			Expect(storage.objects).To(HaveKey("resumes/" + result.FilePath))
			Expect(metadata.inserted[0].ApplicantID).To(Equal("applicant-1"))
		})

		It("should leave the applicant unset for a user without an applicant record", func() {
			_, err := service.UploadResume(ctx, "u2", &upload.File{Name: "cv.pdf", ContentType: "application/pdf", Size: 3, Data: []byte("abc")})
			Expect(err).NotTo(HaveOccurred())
			Expect(metadata.inserted).To(HaveLen(1))
			Expect(metadata.inserted[0].ApplicantID).To(BeEmpty())
		})

		It("should still record the resume when the applicant lookup fails", func() {
			metadata.lookupErr = errors.New("connection reset")
			result, err := service.UploadResume(ctx, "u1", &upload.File{Name: "cv.pdf", ContentType: "application/pdf", Size: 3, Data: []byte("abc")})
			Expect(err).NotTo(HaveOccurred())
			Expect(*result.FileID).To(Equal("resume-1"))
			Expect(metadata.inserted[0].ApplicantID).To(BeEmpty())
		})

		It("should refuse a resume without an owner and store nothing", func() {
			_, err := service.UploadResume(ctx, "", &upload.File{Name: "cv.pdf", ContentType: "application/pdf", Size: 3, Data: []byte("abc")})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Missing).To(Equal([]string{"userId"}))
			Expect(storage.objects).To(BeEmpty())
			Expect(metadata.inserted).To(BeEmpty())
		})

		It("should record the page count of a readable PDF", func() {
			doc := buildPDF(3)
			result, err := service.UploadResume(ctx, "u1", &upload.File{Name: "cv.pdf", ContentType: "application/pdf", Size: int64(len(doc)), Data: doc})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.PageCount).NotTo(BeNil())
			Expect(*result.PageCount).To(Equal(3))
			Expect(*metadata.inserted[0].PageCount).To(Equal(3))
		})

		It("should still accept a PDF it cannot parse", func() {
			result, err := service.UploadResume(ctx, "u1", &upload.File{Name: "cv.pdf", ContentType: "application/pdf", Size: 5, Data: []byte("junk!")})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.PageCount).To(BeNil())
		})

		It("should reject a text file as a type error", func() {
			_, err := service.UploadResume(ctx, "u1", &upload.File{Name: "cv.txt", ContentType: "text/plain", Size: 3, Data: []byte("abc")})
			Expect(codeOf(err)).To(Equal(internal.ErrCodeInvalidFileType))
		})

		It("should reject a 6MB PDF as a size error", func() {
			data := make([]byte, 6<<20)
			_, err := service.UploadResume(ctx, "u1", &upload.File{Name: "cv.pdf", ContentType: "application/pdf", Size: int64(len(data)), Data: data})
			Expect(codeOf(err)).To(Equal(internal.ErrCodeFileTooLarge))
		})

		It("should accept a DOCX sent as octet-stream by its extension", func() {
			result, err := service.UploadResume(ctx, "u1", &upload.File{Name: "CV.DOCX", ContentType: "application/octet-stream", Size: 3, Data: []byte("abc")})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.FilePath).To(HaveSuffix(".docx"))
			Expect(result.ContentType).To(Equal("application/vnd.openxmlformats-officedocument.wordprocessingml.document"))
		})

		It("should succeed with a null fileId when the metadata insert fails", func() {
			metadata.insertErr = errors.New("insert failed")
			result, err := service.UploadResume(ctx, "u1", &upload.File{Name: "cv.pdf", ContentType: "application/pdf", Size: 3, Data: []byte("abc")})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.FileID).To(BeNil())
			Expect(storage.objects).To(HaveLen(1))
		})

		It("should surface storage failures as 500", func() {
			storage.putErr = errors.New("bucket gone")
			_, err := service.UploadResume(ctx, "u1", &upload.File{Name: "cv.pdf", ContentType: "application/pdf", Size: 3, Data: []byte("abc")})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(http.StatusInternalServerError))
			Expect(appErr.Details).To(Equal("bucket gone"))
		})

		It("should require a file", func() {
			_, err := service.UploadResume(ctx, "u1", &upload.File{})
			Expect(codeOf(err)).To(Equal(internal.ErrCodeMissingFields))
		})
	})

	Describe("UploadAvatar", func() {
		It("should update the profile's avatar url", func() {
			result, err := service.UploadAvatar(ctx, "u1", &upload.File{Name: "me.png", ContentType: "image/png", Size: 3, Data: []byte("png")})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.FilePath).To(HavePrefix("avatars/u1/"))
			Expect(metadata.avatars["u1"]).To(Equal(result.FileURL))
		})

		It("should cap avatars at 2MB", func() {
			data := make([]byte, 2<<20+1)
			_, err := service.UploadAvatar(ctx, "u1", &upload.File{Name: "me.png", ContentType: "image/png", Size: int64(len(data)), Data: data})
			Expect(codeOf(err)).To(Equal(internal.ErrCodeFileTooLarge))
		})

		It("should reject PDFs", func() {
			_, err := service.UploadAvatar(ctx, "u1", &upload.File{Name: "me.pdf", ContentType: "application/pdf", Size: 3, Data: []byte("abc")})
			Expect(codeOf(err)).To(Equal(internal.ErrCodeInvalidFileType))
		})

		It("should require a user", func() {
			_, err := service.UploadAvatar(ctx, "", &upload.File{Name: "me.png", ContentType: "image/png", Size: 3, Data: []byte("png")})
			appErr, _ := internal.IsAppError(err)
			Expect(appErr.Missing).To(Equal([]string{"userId"}))
		})
	})

	Describe("SignedURL", func() {
		It("should reserve a sanitized path", func() {
			signed, err := service.SignedURL(ctx, "u1", upload.SignedURLRequest{FileName: "../../my cv.pdf"})
			Expect(err).NotTo(HaveOccurred())
			Expect(signed.FilePath).To(MatchRegexp(`^uploads/u1/\d+_my_cv\.pdf$`))
			Expect(signed.SignedURL).To(ContainSubstring(signed.FilePath))
			Expect(signed.ExpiresIn).To(Equal(3600))
		})

		It("should require a file name", func() {
			_, err := service.SignedURL(ctx, "u1", upload.SignedURLRequest{})
			Expect(codeOf(err)).To(Equal(internal.ErrCodeMissingFields))
		})

		It("should not hand out a path without an owner", func() {
			_, err := service.SignedURL(ctx, "", upload.SignedURLRequest{FileName: "cv.pdf"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Missing).To(Equal([]string{"userId"}))
		})
	})

	Describe("Delete", func() {
		It("should remove the object and then its metadata row", func() {
			result, err := service.UploadResume(ctx, "u1", &upload.File{Name: "cv.pdf", ContentType: "application/pdf", Size: 3, Data: []byte("abc")})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Delete(ctx, "u1", "", result.FilePath)).To(Succeed())
			Expect(storage.objects).To(BeEmpty())
			Expect(metadata.deleted).To(Equal([]string{result.FilePath}))
		})

		It("should refuse another user's file", func() {
			err := service.Delete(ctx, "u2", "", "resumes/u1/1_x.pdf")
			Expect(errors.Is(err, upload.ErrForeignFile)).To(BeTrue())
		})

		It("should refuse path traversal", func() {
			err := service.Delete(ctx, "", "", "resumes/../secrets")
			Expect(errors.Is(err, upload.ErrBadPath)).To(BeTrue())
		})

		It("should not touch resume rows for other buckets", func() {
			storage.objects["avatars/avatars/u1/1.png"] = []byte("x")
			Expect(service.Delete(ctx, "", "avatars", "avatars/u1/1.png")).To(Succeed())
			Expect(metadata.deleted).To(BeEmpty())
		})

		It("should report a missing object as an upstream failure", func() {
			err := service.Delete(ctx, "", "", "resumes/u1/none.pdf")
			Expect(codeOf(err)).To(Equal(internal.ErrCodeUpstream))
			Expect(strings.Join(metadata.deleted, ",")).To(BeEmpty())
		})
	})
})
