package application

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// ImageUpload is a file the transport layer has already written to temporary
// storage. The transport layer owns the file and removes it after the request.
type ImageUpload struct {
	Path     string
	Filename string
}

// uploadImage sniffs the content type of the temporary file, then streams it to
// the image store under prefix/owner/<uuid><ext>.
func uploadImage(ctx context.Context, store ImageStore, prefix, ownerID string, up *ImageUpload) (string, error) {
	mt, err := mimetype.DetectFile(up.Path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", ErrInvalidImage
	}
	if store == nil {
		return "", fmt.Errorf("%w: no image store configured", ErrImageUpload)
	}
	f, err := os.Open(up.Path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrImageUpload, err)
	}
	defer func() { _ = f.Close() }()

	ext := strings.ToLower(path.Ext(up.Filename))
	if ext == "" {
		ext = mt.Extension()
	}
	objectPath := path.Join(prefix, ownerID, uuid.NewString()+ext)
	url, err := store.Upload(ctx, objectPath, mt.String(), f)
	if err != nil {
		metricImageUploadErrors.Add(1)
		return "", fmt.Errorf("%w: %v", ErrImageUpload, err)
	}
	metricImageUploads.Add(1)
	return url, nil
}
