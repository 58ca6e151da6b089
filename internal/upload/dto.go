package upload

import "github.com/frahmantamala/hiring-gateway/internal/core/common/validation"

type Result struct {
	FileID      *string `json:"fileId"`
	FileURL     string  `json:"fileUrl"`
	FilePath    string  `json:"filePath"`
	FileName    string  `json:"fileName"`
	FileSize    int64   `json:"fileSize"`
	ContentType string  `json:"contentType"`
	PageCount   *int    `json:"pageCount,omitempty"`
}

type SignedURLRequest struct {
	FileName string `json:"fileName"`
	Bucket   string `json:"bucket,omitempty"`
}

func (d SignedURLRequest) Validate() error {
	v := validation.NewValidator()
	v.Field("fileName", d.FileName).Required().MaxLength(255)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type SignedURL struct {
	SignedURL string `json:"signedUrl"`
	FilePath  string `json:"filePath"`
	ExpiresIn int    `json:"expiresIn"`
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}
