package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"quilltips-backend/internal/domains/account/model"
	"quilltips-backend/internal/domains/account/service"
	"quilltips-backend/internal/domains/account/session"
	"quilltips-backend/internal/shared/middleware"
	"quilltips-backend/internal/shared/response"
	"quilltips-backend/pkg/logger"
)

type Handler struct {
	service  service.Service
	notifier *session.Notifier
}

func NewHandler(svc service.Service, notifier *session.Notifier) *Handler {
	return &Handler{service: svc, notifier: notifier}
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err)
		return
	}

	account, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, account)
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err)
		return
	}

	result, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

func (h *Handler) Logout(c *gin.Context) {
	accountID := middleware.MustAccountID(c)
	sessionID := middleware.SessionIDFromContext(c)

	if err := h.service.Logout(c.Request.Context(), accountID, sessionID); err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Signed out"})
}

func (h *Handler) Refresh(c *gin.Context) {
	var req model.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.service.Refresh(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// SessionEvents streams sign-out events for the authenticated account over
// SSE. A client showing the dashboard subscribes here so a sign-out in
// another tab can push it back to the login page.
func (h *Handler) SessionEvents(c *gin.Context) {
	accountID := middleware.MustAccountID(c)

	events, cancel := h.notifier.Subscribe(accountID)
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent("session", ev)
			// A sign-out ends the stream; there is nothing after it.
			return ev.Type != session.EventSignedOut
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	status := model.ToHTTPStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error("account operation failed", err)
		response.InternalServerError(c, "Something went wrong")
		return
	}

	code := "ACCOUNT_ERROR"
	switch {
	case errors.Is(err, model.ErrEmailAlreadyExists):
		code = "EMAIL_TAKEN"
	case errors.Is(err, model.ErrInvalidCredentials):
		code = "INVALID_CREDENTIALS"
	case errors.Is(err, model.ErrSessionRevoked):
		code = "SESSION_REVOKED"
	case errors.Is(err, model.ErrAccountNotFound):
		code = "NOT_FOUND"
	}
	response.ErrorResponse(c, status, code, err.Error())
}
