package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/blogx-api/internal/application"
)

// multipartOverhead is the room left for text fields next to the file.
const multipartOverhead = 1 << 20

// UploadConfig bounds multipart image uploads.
type UploadConfig struct {
	TmpDir   string
	MaxBytes int64
}

var errImageTooLarge = errors.New("image too large")

// limitBody caps the request body before gin parses the multipart form.
func (u UploadConfig) limitBody(c *gin.Context) {
	if u.MaxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, u.MaxBytes+multipartOverhead)
	}
}

// receiveImage writes the optional multipart field into TmpDir. The returned
// cleanup removes the temporary file and any parser spill files; callers
// defer it even when err is non-nil.
func (u UploadConfig) receiveImage(c *gin.Context, field string) (*application.ImageUpload, func(), error) {
	cleanup := func() {
		if c.Request.MultipartForm != nil {
			_ = c.Request.MultipartForm.RemoveAll()
		}
	}

	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, cleanup, nil
		}
		return nil, cleanup, fmt.Errorf("%w: %v", application.ErrMissingField, err)
	}
	if u.MaxBytes > 0 && fh.Size > u.MaxBytes {
		return nil, cleanup, fmt.Errorf("%w: %w", application.ErrInvalidImage, errImageTooLarge)
	}

	dir := u.TmpDir
	if dir == "" {
		dir = os.TempDir()
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	tmp, err := os.CreateTemp(dir, "upload-*"+ext)
	if err != nil {
		return nil, cleanup, err
	}
	path := tmp.Name()
	_ = tmp.Close()
	cleanup = func() {
		_ = os.Remove(path)
		if c.Request.MultipartForm != nil {
			_ = c.Request.MultipartForm.RemoveAll()
		}
	}
	if err := c.SaveUploadedFile(fh, path); err != nil {
		return nil, cleanup, err
	}
	return &application.ImageUpload{Path: path, Filename: fh.Filename}, cleanup, nil
}
