package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edmart-systems/procurement_backend/internal/apperrors"
	portssvc "github.com/edmart-systems/procurement_backend/internal/core/ports/services"
	"github.com/edmart-systems/procurement_backend/internal/core/services"
	"github.com/edmart-systems/procurement_backend/internal/dto"
	"github.com/edmart-systems/procurement_backend/internal/middleware"
)

// draftHandler handles HTTP requests related to purchase order drafts.
type draftHandler struct {
	draftService portssvc.DraftSvcFacade
}

func newDraftHandler(ds portssvc.DraftSvcFacade) *draftHandler {
	return &draftHandler{draftService: ds}
}

// registerDraftRoutes registers routes related to purchase order drafts. The static
// /auto segment takes priority over the :draft_id parameter.
func registerDraftRoutes(rg *gin.RouterGroup, draftService portssvc.DraftSvcFacade) {
	h := newDraftHandler(draftService)

	drafts := rg.Group("/drafts")
	{
		drafts.POST("", h.saveDraft)
		drafts.GET("", h.listDrafts)
		drafts.GET("/auto", h.getLatestAutoDraft)
		drafts.DELETE("/auto", h.deleteAutoDraft)
		drafts.GET("/:draft_id", h.getDraft)
		drafts.DELETE("/:draft_id", h.deleteDraft)
	}
}

func (h *draftHandler) saveDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SaveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	draft, err := h.draftService.SaveDraft(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, services.ErrDraftLimitReached) {
			c.JSON(http.StatusConflict, gin.H{"error": "Maximum drafts limit reached"})
		} else {
			logger.Error("Failed to save draft", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save draft"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToDraftResponse(draft))
}

func (h *draftHandler) listDrafts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	drafts, err := h.draftService.ListDrafts(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to list drafts", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list drafts"})
		return
	}

	c.JSON(http.StatusOK, dto.ToDraftResponses(drafts))
}

func (h *draftHandler) getDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	draftID := c.Param("draft_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	draft, err := h.draftService.GetDraft(c.Request.Context(), userID, draftID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Draft not found"})
		} else {
			logger.Error("Failed to get draft", slog.String("error", err.Error()), slog.String("draft_id", draftID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve draft"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToDraftResponse(draft))
}

func (h *draftHandler) deleteDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	draftID := c.Param("draft_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	deleted, err := h.draftService.DeleteDraft(c.Request.Context(), userID, draftID)
	if err != nil {
		logger.Error("Failed to delete draft", slog.String("error", err.Error()), slog.String("draft_id", draftID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete draft"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

func (h *draftHandler) getLatestAutoDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	draft, err := h.draftService.GetLatestAutoDraft(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No auto-saved draft found"})
		} else {
			logger.Error("Failed to get auto draft", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve auto-saved draft"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToDraftResponse(draft))
}

func (h *draftHandler) deleteAutoDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.draftService.DeleteAutoDraft(c.Request.Context(), userID); err != nil {
		logger.Error("Failed to delete auto draft", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete auto-saved draft"})
		return
	}

	c.Status(http.StatusNoContent)
}
