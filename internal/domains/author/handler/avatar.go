package handler

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"quilltips-backend/internal/domains/author/service"
	"quilltips-backend/internal/infrastructure/storage"
	"quilltips-backend/internal/shared/middleware"
	"quilltips-backend/internal/shared/response"
	"quilltips-backend/pkg/logger"
)

// AvatarRequest carries the image as base64 so the same payload works from
// any client. A data-URL prefix on Image is tolerated and stripped.
type AvatarRequest struct {
	Image     string `json:"image"`
	Type      string `json:"type"`
	MaxWidth  int    `json:"maxWidth"`
	MaxHeight int    `json:"maxHeight"`
}

func (r AvatarRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Image, validation.Required),
		validation.Field(&r.Type, validation.Required, validation.In("image/jpeg", "image/png")),
		validation.Field(&r.MaxWidth, validation.Min(0), validation.Max(4096)),
		validation.Field(&r.MaxHeight, validation.Min(0), validation.Max(4096)),
	)
}

type AvatarHandler struct {
	service   service.Service
	storage   *storage.MinIOStorage
	processor *storage.ImageProcessor
}

func NewAvatarHandler(svc service.Service, store *storage.MinIOStorage, processor *storage.ImageProcessor) *AvatarHandler {
	return &AvatarHandler{service: svc, storage: store, processor: processor}
}

// Upload resizes the submitted image to fit the requested bounds, stores
// it, and points the profile at the stored URL.
func (h *AvatarHandler) Upload(c *gin.Context) {
	accountID := middleware.MustAccountID(c)

	var req AvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err)
		return
	}

	raw := req.Image
	if i := strings.Index(raw, ","); i >= 0 && strings.HasPrefix(raw, "data:") {
		raw = raw[i+1:]
	}
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		response.BadRequest(c, "Image is not valid base64")
		return
	}

	if err := h.processor.ValidateImage(data); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "INVALID_IMAGE", err.Error())
		return
	}

	resized, err := h.processor.Resize(data, req.Type, req.MaxWidth, req.MaxHeight)
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "INVALID_IMAGE", err.Error())
		return
	}

	ext := "jpg"
	if req.Type == "image/png" {
		ext = "png"
	}
	key := fmt.Sprintf("avatars/%s.%s", accountID, ext)

	url, err := h.storage.Upload(c.Request.Context(), key, resized, req.Type)
	if err != nil {
		logger.Error("failed to upload avatar", err)
		response.InternalServerError(c, "Failed to store avatar")
		return
	}

	if err := h.service.UpdateAvatar(c.Request.Context(), accountID, url); err != nil {
		logger.Error("failed to update avatar url", err)
		response.InternalServerError(c, "Failed to update profile")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"url": url})
}
