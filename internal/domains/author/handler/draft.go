package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"quilltips-backend/internal/domains/author/draft"
	authormodel "quilltips-backend/internal/domains/author/model"
	"quilltips-backend/internal/shared/middleware"
	"quilltips-backend/internal/shared/response"
	"quilltips-backend/pkg/logger"
)

type DraftHandler struct {
	drafts draft.Service
}

func NewDraftHandler(drafts draft.Service) *DraftHandler {
	return &DraftHandler{drafts: drafts}
}

type draftView struct {
	Working    draft.Fields `json:"working"`
	HasChanges bool         `json:"has_changes"`
	Version    int          `json:"version"`
}

func viewOf(d *draft.ProfileDraft) draftView {
	return draftView{Working: d.Working(), HasChanges: d.HasChanges(), Version: d.Version()}
}

// Open starts (or resumes) the edit session for the profile form.
func (h *DraftHandler) Open(c *gin.Context) {
	accountID := middleware.MustAccountID(c)

	d, err := h.drafts.Open(c.Request.Context(), accountID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, viewOf(d))
}

func (h *DraftHandler) Get(c *gin.Context) {
	accountID := middleware.MustAccountID(c)

	d, err := h.drafts.Get(c.Request.Context(), accountID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, viewOf(d))
}

// Apply applies one edit operation to the open draft.
func (h *DraftHandler) Apply(c *gin.Context) {
	accountID := middleware.MustAccountID(c)

	var op draft.Operation
	if err := c.ShouldBindJSON(&op); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	d, err := h.drafts.Apply(c.Request.Context(), accountID, op)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, viewOf(d))
}

func (h *DraftHandler) Save(c *gin.Context) {
	accountID := middleware.MustAccountID(c)

	profile, err := h.drafts.Save(c.Request.Context(), accountID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, profile.ToResponse())
}

// Discard reverts the working copy to the snapshot without closing the
// edit session.
func (h *DraftHandler) Discard(c *gin.Context) {
	accountID := middleware.MustAccountID(c)

	d, err := h.drafts.Discard(c.Request.Context(), accountID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, viewOf(d))
}

// Close ends the edit session. With unsaved changes and no force flag it
// answers 409 UNSAVED_CHANGES so the client can ask the author to stay or
// leave; force=true is the "leave anyway" choice.
func (h *DraftHandler) Close(c *gin.Context) {
	accountID := middleware.MustAccountID(c)
	force := c.Query("force") == "true"

	if err := h.drafts.Close(c.Request.Context(), accountID, force); err != nil {
		if errors.Is(err, draft.ErrUnsavedChanges) {
			response.ErrorResponse(c, http.StatusConflict, "UNSAVED_CHANGES",
				"You have unsaved changes. Save them or close with force=true to discard.")
			return
		}
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Draft closed"})
}

func (h *DraftHandler) handleError(c *gin.Context, err error) {
	if status := draft.ToHTTPStatus(err); status != http.StatusInternalServerError {
		code := "DRAFT_ERROR"
		switch {
		case errors.Is(err, draft.ErrNoDraft):
			code = "NO_DRAFT"
		case errors.Is(err, draft.ErrUnknownOp):
			code = "UNKNOWN_OPERATION"
		}
		response.ErrorResponse(c, status, code, err.Error())
		return
	}
	if status := authormodel.ToHTTPStatus(err); status != http.StatusInternalServerError {
		code := "AUTHOR_ERROR"
		if errors.Is(err, authormodel.ErrVersionConflict) {
			code = "VERSION_CONFLICT"
		}
		response.ErrorResponse(c, status, code, err.Error())
		return
	}
	logger.Error("draft operation failed", err)
	response.InternalServerError(c, "Something went wrong")
}
