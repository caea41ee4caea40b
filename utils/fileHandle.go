package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// MediaStore persists uploaded media under a directory served as static
// files and hands back public URLs. Stands in for the hosted CDN the
// frontend reads thumbnails from.
type MediaStore struct {
	Dir     string
	BaseURL string
}

func NewMediaStore(dir, baseURL string) *MediaStore {
	return &MediaStore{Dir: dir, BaseURL: baseURL}
}

// SaveThumbnail stores an uploaded image and returns its public URL
func (m *MediaStore) SaveThumbnail(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := os.MkdirAll(m.Dir, 0755); err != nil {
		return "", err
	}

	ext := filepath.Ext(file.Filename)
	newFilename := uuid.NewString() + ext
	filePath := filepath.Join(m.Dir, newFilename)

	dst, err := os.Create(filePath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/%s", m.BaseURL, newFilename), nil
}
