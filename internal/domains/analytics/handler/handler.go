package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quilltips-backend/internal/domains/analytics/model"
	"quilltips-backend/internal/domains/analytics/service"
	"quilltips-backend/internal/shared/middleware"
	"quilltips-backend/internal/shared/response"
	"quilltips-backend/pkg/logger"
)

type Handler struct {
	service service.Service
}

func NewHandler(svc service.Service) *Handler {
	return &Handler{service: svc}
}

// RecordView accepts a view beacon. It answers 202 regardless of outcome;
// view tracking must never break the page that sent it.
func (h *Handler) RecordView(c *gin.Context) {
	var req model.RecordViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Success(c, http.StatusAccepted, gin.H{"recorded": false})
		return
	}
	if err := req.Validate(); err != nil {
		response.Success(c, http.StatusAccepted, gin.H{"recorded": false})
		return
	}

	visitorID := middleware.VisitorIDFromContext(c)
	h.service.Record(c.Request.Context(), visitorID, &req)
	response.Success(c, http.StatusAccepted, gin.H{"recorded": true})
}

// Stats serves the authenticated author's view counters.
func (h *Handler) Stats(c *gin.Context) {
	accountID := middleware.MustAccountID(c)

	stats, err := h.service.Stats(c.Request.Context(), accountID)
	if err != nil {
		logger.Error("failed to load view stats", err)
		response.InternalServerError(c, "Something went wrong")
		return
	}
	response.Success(c, http.StatusOK, stats)
}
