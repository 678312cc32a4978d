package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"quilltips-backend/internal/domains/author/model"
	"quilltips-backend/internal/domains/author/service"
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

// GetAuthor serves the public profile page. The :authorId segment accepts
// either a uuid or a slug so both canonical URL styles resolve.
func (h *Handler) GetAuthor(c *gin.Context) {
	idOrSlug := c.Param("authorId")

	var profile *model.Profile
	var err error
	if id, parseErr := uuid.Parse(idOrSlug); parseErr == nil {
		profile, err = h.service.GetByID(c.Request.Context(), id)
	} else {
		profile, err = h.service.GetBySlug(c.Request.Context(), idOrSlug)
	}
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, profile.ToResponse())
}

func (h *Handler) Search(c *gin.Context) {
	var filter model.SearchFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	profiles, total, err := h.service.Search(c.Request.Context(), &filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	results := make([]*model.ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		results = append(results, p.ToResponse())
	}
	response.SuccessWithMeta(c, http.StatusOK, results, &response.Meta{
		Page:  filter.Page,
		Limit: filter.Limit,
		Total: total,
	})
}

func (h *Handler) GetMyProfile(c *gin.Context) {
	accountID := middleware.MustAccountID(c)

	profile, err := h.service.GetByID(c.Request.Context(), accountID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, profile.ToResponse())
}

func (h *Handler) handleError(c *gin.Context, err error) {
	status := model.ToHTTPStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error("author operation failed", err)
		response.InternalServerError(c, "Something went wrong")
		return
	}
	response.ErrorResponse(c, status, "AUTHOR_ERROR", err.Error())
}
