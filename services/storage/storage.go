package storage

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// StorageService stores uploaded images and returns a public URL.
type StorageService interface {
	UploadImage(ctx context.Context, file multipart.File, folder string) (string, error)
}

// CloudinaryStorage implements StorageService on Cloudinary.
type CloudinaryStorage struct {
	client *cloudinary.Cloudinary
}

// NewStorageService wraps an initialized Cloudinary client.
func NewStorageService(client *cloudinary.Cloudinary) *CloudinaryStorage {
	return &CloudinaryStorage{client: client}
}

// UploadImage pushes the file into the given folder and returns its secure URL.
func (s *CloudinaryStorage) UploadImage(ctx context.Context, file multipart.File, folder string) (string, error) {
	res, err := s.client.Upload.Upload(ctx, file, uploader.UploadParams{Folder: folder})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return res.SecureURL, nil
}
