package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	bookmodel "quilltips-backend/internal/domains/book/model"
	"quilltips-backend/internal/domains/qrcode/model"
	"quilltips-backend/internal/domains/qrcode/service"
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

func (h *Handler) Create(c *gin.Context) {
	accountID := middleware.MustAccountID(c)

	var req model.CreateQRCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err)
		return
	}

	qr, err := h.service.Create(c.Request.Context(), accountID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, qr)
}

func (h *Handler) ListMine(c *gin.Context) {
	accountID := middleware.MustAccountID(c)

	stats, err := h.service.ListMine(c.Request.Context(), accountID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

// Resolve is the public scan endpoint: it answers with the book page URL
// the code points at.
func (h *Handler) Resolve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid qr code id")
		return
	}

	result, err := h.service.Resolve(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

func (h *Handler) Delete(c *gin.Context) {
	accountID := middleware.MustAccountID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid qr code id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), accountID, id); err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "QR code deleted"})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	if status := model.ToHTTPStatus(err); status != http.StatusInternalServerError {
		response.ErrorResponse(c, status, "QRCODE_ERROR", err.Error())
		return
	}
	if status := bookmodel.ToHTTPStatus(err); status != http.StatusInternalServerError {
		response.ErrorResponse(c, status, "BOOK_ERROR", err.Error())
		return
	}
	logger.Error("qr code operation failed", err)
	response.InternalServerError(c, "Something went wrong")
}
