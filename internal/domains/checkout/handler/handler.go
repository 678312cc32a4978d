package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	authormodel "quilltips-backend/internal/domains/author/model"
	bookmodel "quilltips-backend/internal/domains/book/model"
	"quilltips-backend/internal/domains/checkout/service"
	qrmodel "quilltips-backend/internal/domains/qrcode/model"
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

// Begin starts a tip checkout and hands the client the hosted payment URL.
func (h *Handler) Begin(c *gin.Context) {
	var req service.BeginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err)
		return
	}

	visitorID := middleware.VisitorIDFromContext(c)
	result, err := h.service.Begin(c.Request.Context(), visitorID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// Webhook receives Stripe events. Signature verification happens inside
// the service; an invalid signature is a 400 so Stripe stops retrying it.
func (h *Handler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		response.BadRequest(c, "Cannot read payload")
		return
	}

	sigHeader := c.GetHeader("Stripe-Signature")
	if err := h.service.HandleWebhook(c.Request.Context(), payload, sigHeader); err != nil {
		logger.Error("webhook processing failed", err)
		response.BadRequest(c, "Webhook rejected")
		return
	}
	c.Status(http.StatusOK)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	if status := service.ToHTTPStatus(err); status != http.StatusInternalServerError {
		code := "CHECKOUT_ERROR"
		if status == http.StatusConflict {
			code = "CHECKOUT_IN_PROGRESS"
		}
		response.ErrorResponse(c, status, code, err.Error())
		return
	}
	if status := qrmodel.ToHTTPStatus(err); status != http.StatusInternalServerError {
		response.ErrorResponse(c, status, "QRCODE_ERROR", err.Error())
		return
	}
	if status := bookmodel.ToHTTPStatus(err); status != http.StatusInternalServerError {
		response.ErrorResponse(c, status, "BOOK_ERROR", err.Error())
		return
	}
	if status := authormodel.ToHTTPStatus(err); status != http.StatusInternalServerError {
		response.ErrorResponse(c, status, "AUTHOR_ERROR", err.Error())
		return
	}
	logger.Error("checkout failed", err)
	response.InternalServerError(c, "Something went wrong")
}
