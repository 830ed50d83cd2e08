package utils

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/sunserve/sunserve-api/apperror"
)

const (
	// MaxPhotoSize is 10MB in bytes
	MaxPhotoSize = 10 * 1024 * 1024
	// AllowedPhotoFormat is PNG
	AllowedPhotoFormat = ".png"
	// PhotoContentType is the stored content type of site photos
	PhotoContentType = "image/png"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// ValidateSitePhoto checks size, extension and the PNG signature of an upload
func ValidateSitePhoto(fileHeader *multipart.FileHeader) error {
	if fileHeader.Size > MaxPhotoSize {
		return apperror.Validation("File size exceeds maximum allowed size of %d MB", MaxPhotoSize/(1024*1024))
	}
	if fileHeader.Size == 0 {
		return apperror.Validation("File is empty")
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != AllowedPhotoFormat {
		return apperror.Validation("Only %s files are allowed", AllowedPhotoFormat)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	header := make([]byte, len(pngSignature))
	if _, err := io.ReadFull(file, header); err != nil || !bytes.Equal(header, pngSignature) {
		return apperror.Validation("File content is not a PNG image")
	}
	return nil
}

// SitePhotoKey builds the object key of an installation's site photo:
// installations/{id}/{unix}_{filename}
func SitePhotoKey(installationID uint, filename string, now time.Time) string {
	name := strings.ReplaceAll(filepath.Base(filename), " ", "_")
	return fmt.Sprintf("installations/%d/%d_%s", installationID, now.Unix(), name)
}
