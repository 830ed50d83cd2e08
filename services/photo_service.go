package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/sunserve/sunserve-api/utils"
)

// PhotoURLTTL is how long a presigned photo URL stays valid
const PhotoURLTTL = time.Hour

// PhotoService stores installation site photos
type PhotoService interface {
	// Upload validates and stores a photo, returning its object key
	Upload(ctx context.Context, installationID uint, fileHeader *multipart.FileHeader) (string, error)
	// URL returns a time-limited link to a stored photo
	URL(ctx context.Context, key string) (string, error)
	// Delete removes a stored photo
	Delete(ctx context.Context, key string) error
}

// SitePhotoService implements PhotoService over an ObjectStore
type SitePhotoService struct {
	store ObjectStore
	now   func() time.Time
}

var photoServiceInstance PhotoService

// NewSitePhotoService creates a photo service backed by store
func NewSitePhotoService(store ObjectStore) *SitePhotoService {
	return &SitePhotoService{store: store, now: time.Now}
}

// InitPhotoService installs the process-wide photo service
func InitPhotoService(store ObjectStore) PhotoService {
	photoServiceInstance = NewSitePhotoService(store)
	return photoServiceInstance
}

// GetPhotoService returns the process-wide photo service, nil when storage is not configured
func GetPhotoService() PhotoService {
	return photoServiceInstance
}

// SetPhotoService replaces the process-wide photo service (primarily for testing)
func SetPhotoService(service PhotoService) {
	photoServiceInstance = service
}

// Upload validates the file as a PNG site photo and stores it
func (s *SitePhotoService) Upload(ctx context.Context, installationID uint, fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateSitePhoto(fileHeader); err != nil {
		return "", err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	key := utils.SitePhotoKey(installationID, fileHeader.Filename, s.now())
	if err := s.store.Put(ctx, key, utils.PhotoContentType, file); err != nil {
		return "", fmt.Errorf("failed to store site photo: %w", err)
	}
	return key, nil
}

// URL presigns a GET link valid for PhotoURLTTL
func (s *SitePhotoService) URL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	url, err := s.store.PresignGet(ctx, key, PhotoURLTTL)
	if err != nil {
		return "", fmt.Errorf("failed to generate photo URL: %w", err)
	}
	return url, nil
}

// Delete removes a stored photo; an empty key is a no-op
func (s *SitePhotoService) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to delete site photo: %w", err)
	}
	return nil
}
