package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"quilltips-backend/internal/domains/book/model"
	"quilltips-backend/internal/domains/book/service"
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

	var req model.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err)
		return
	}

	book, err := h.service.Create(c.Request.Context(), accountID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, book)
}

func (h *Handler) GetBook(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book id")
		return
	}

	book, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, book)
}

// GetAuthorBook resolves a book by its author and slug, the form the
// public book URLs use.
func (h *Handler) GetAuthorBook(c *gin.Context) {
	authorID, err := uuid.Parse(c.Param("authorId"))
	if err != nil {
		response.BadRequest(c, "Invalid author id")
		return
	}

	book, err := h.service.GetBySlug(c.Request.Context(), authorID, c.Param("slug"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, book)
}

func (h *Handler) ListMine(c *gin.Context) {
	accountID := middleware.MustAccountID(c)

	var filter model.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	books, total, err := h.service.ListByAuthor(c.Request.Context(), accountID, &filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, books, &response.Meta{
		Page:  filter.Page,
		Limit: filter.Limit,
		Total: total,
	})
}

func (h *Handler) ListByAuthor(c *gin.Context) {
	authorID, err := uuid.Parse(c.Param("authorId"))
	if err != nil {
		response.BadRequest(c, "Invalid author id")
		return
	}

	var filter model.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	books, total, err := h.service.ListByAuthor(c.Request.Context(), authorID, &filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, books, &response.Meta{
		Page:  filter.Page,
		Limit: filter.Limit,
		Total: total,
	})
}

func (h *Handler) Update(c *gin.Context) {
	accountID := middleware.MustAccountID(c)

	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book id")
		return
	}

	var req model.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err)
		return
	}

	book, err := h.service.Update(c.Request.Context(), accountID, bookID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, book)
}

func (h *Handler) Delete(c *gin.Context) {
	accountID := middleware.MustAccountID(c)

	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), accountID, bookID); err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Book deleted"})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	status := model.ToHTTPStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error("book operation failed", err)
		response.InternalServerError(c, "Something went wrong")
		return
	}
	response.ErrorResponse(c, status, "BOOK_ERROR", err.Error())
}
