package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sunserve/sunserve-api/apperror"
	"github.com/sunserve/sunserve-api/authz"
	"github.com/sunserve/sunserve-api/config"
	"github.com/sunserve/sunserve-api/middleware"
	"github.com/sunserve/sunserve-api/models"
	"github.com/sunserve/sunserve-api/services"
)

// PhotoFormField is the multipart field carrying the site photo
const PhotoFormField = "image"

func photoService() (services.PhotoService, error) {
	photos := services.GetPhotoService()
	if photos == nil {
		return nil, apperror.Unavailable("Photo storage is not configured")
	}
	return photos, nil
}

// UploadSitePhoto handles POST /api/installations/:id/photo.
// Customers may only attach photos to their own installations.
func UploadSitePhoto(c *gin.Context) {
	photos, err := photoService()
	if err != nil {
		respondError(c, err)
		return
	}
	caller, err := middleware.GetCaller(c)
	if err != nil {
		respondError(c, err)
		return
	}

	installation, ok := loadInstallation(c)
	if !ok {
		return
	}
	if caller.Role == models.RoleCustomer && !authz.Owns(caller, installation.CustomerID) {
		respondError(c, apperror.Forbidden("Not authorized to upload a photo for this installation"))
		return
	}

	fileHeader, err := c.FormFile(PhotoFormField)
	if err != nil {
		respondError(c, apperror.Validation("No image file provided"))
		return
	}

	ctx := c.Request.Context()
	key, err := photos.Upload(ctx, installation.ID, fileHeader)
	if err != nil {
		respondError(c, err)
		return
	}

	previous := installation.SitePhotoKey
	installation.SitePhotoKey = &key
	if err := config.GetDB().WithContext(ctx).Save(installation).Error; err != nil {
		_ = photos.Delete(ctx, key)
		respondError(c, err)
		return
	}
	if previous != nil && *previous != key {
		// best effort: the new key is already stored
		_ = photos.Delete(ctx, *previous)
	}

	url, err := photos.URL(ctx, key)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Site photo uploaded successfully", gin.H{
		"sitePhotoKey": key,
		"url":          url,
	})
}

// GetSitePhoto handles GET /api/installations/:id/photo and returns a
// short-lived download link
func GetSitePhoto(c *gin.Context) {
	photos, err := photoService()
	if err != nil {
		respondError(c, err)
		return
	}

	installation, ok := loadInstallation(c)
	if !ok {
		return
	}
	if installation.SitePhotoKey == nil || *installation.SitePhotoKey == "" {
		respondError(c, apperror.NotFound("Site photo"))
		return
	}

	url, err := photos.URL(c.Request.Context(), *installation.SitePhotoKey)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"url": url})
}
