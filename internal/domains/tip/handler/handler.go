package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"quilltips-backend/internal/domains/tip/model"
	"quilltips-backend/internal/domains/tip/service"
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

// History lists the authenticated author's tips, newest first.
func (h *Handler) History(c *gin.Context) {
	accountID := middleware.MustAccountID(c)

	var filter model.HistoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	tips, total, err := h.service.History(c.Request.Context(), accountID, &filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, tips, &response.Meta{
		Page:  filter.Page,
		Limit: filter.Limit,
		Total: total,
	})
}

func (h *Handler) Earnings(c *gin.Context) {
	accountID := middleware.MustAccountID(c)

	summary, err := h.service.Earnings(c.Request.Context(), accountID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, summary)
}

// PublicFeed is the tip list on an author's public page.
func (h *Handler) PublicFeed(c *gin.Context) {
	authorID, err := uuid.Parse(c.Param("authorId"))
	if err != nil {
		response.BadRequest(c, "Invalid author id")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	feed, err := h.service.PublicFeed(c.Request.Context(), authorID, limit)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, feed)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	status := model.ToHTTPStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error("tip operation failed", err)
		response.InternalServerError(c, "Something went wrong")
		return
	}
	response.ErrorResponse(c, status, "TIP_ERROR", err.Error())
}
