package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/edmart-systems/procurement_backend/internal/apperrors"
	portssvc "github.com/edmart-systems/procurement_backend/internal/core/ports/services"
	"github.com/edmart-systems/procurement_backend/internal/core/services"
	"github.com/edmart-systems/procurement_backend/internal/dto"
	"github.com/edmart-systems/procurement_backend/internal/middleware"
)

// purchaseOrderHandler handles HTTP requests related to purchase orders.
type purchaseOrderHandler struct {
	poService    portssvc.PurchaseOrderSvcFacade
	pdfGenerator portssvc.POPDFGenerator
}

// newPurchaseOrderHandler creates a new purchaseOrderHandler.
func newPurchaseOrderHandler(ps portssvc.PurchaseOrderSvcFacade, pdfGen portssvc.POPDFGenerator) *purchaseOrderHandler {
	return &purchaseOrderHandler{
		poService:    ps,
		pdfGenerator: pdfGen,
	}
}

// RegisterPurchaseOrderRoutes registers routes related to purchase orders.
func RegisterPurchaseOrderRoutes(rg *gin.RouterGroup, poService portssvc.PurchaseOrderSvcFacade, pdfGen portssvc.POPDFGenerator) {
	h := newPurchaseOrderHandler(poService, pdfGen)

	pos := rg.Group("/purchase-orders")
	{
		pos.POST("", h.createPurchaseOrder)
		pos.GET("", h.listPurchaseOrders)
		pos.GET("/:po_id", h.getPurchaseOrder)
		pos.PUT("/:po_id", h.updatePurchaseOrder)
		pos.POST("/:po_id/approve", h.approvePurchaseOrder)
		pos.POST("/:po_id/reject", h.rejectPurchaseOrder)
		pos.POST("/:po_id/issue", h.issuePurchaseOrder)
		pos.GET("/:po_id/pdf", h.downloadPurchaseOrderPDF)
	}
}

func (h *purchaseOrderHandler) createPurchaseOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePurchaseOrder", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	requesterID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	po, err := h.poService.CreatePurchaseOrder(c.Request.Context(), req, requesterID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create purchase order", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create purchase order"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToPurchaseOrderResponse(po))
}

func (h *purchaseOrderHandler) listPurchaseOrders(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var filter dto.PurchaseOrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filter parameters: " + err.Error()})
		return
	}

	params := dto.ListPurchaseOrdersParams{
		Filter:  filter,
		UserID:  userID,
		IsAdmin: middleware.GetIsAdminFromContext(c),
	}
	params.Page, _ = intQuery(c, "page")
	params.Limit, _ = intQuery(c, "limit")

	resp, err := h.poService.GetPaginatedPurchaseOrders(c.Request.Context(), params)
	if err != nil {
		logger.Error("Failed to list purchase orders", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list purchase orders"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *purchaseOrderHandler) getPurchaseOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	poID := c.Param("po_id")

	po, err := h.poService.GetPurchaseOrderByID(c.Request.Context(), poID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Purchase order not found"})
		} else {
			logger.Error("Failed to get purchase order", slog.String("error", err.Error()), slog.String("po_id", poID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve purchase order"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToPurchaseOrderResponse(po))
}

func (h *purchaseOrderHandler) updatePurchaseOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	poID := c.Param("po_id")

	var req dto.UpdatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	po, err := h.poService.UpdatePurchaseOrder(c.Request.Context(), poID, req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Purchase order not found"})
		case errors.Is(err, services.ErrNotPendingEdit):
			c.JSON(http.StatusConflict, gin.H{"error": "Only pending purchase orders can be edited"})
		case errors.Is(err, services.ErrNotRequesterEdit):
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the requester can edit this purchase order"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to update purchase order", slog.String("error", err.Error()), slog.String("po_id", poID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update purchase order"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToPurchaseOrderResponse(po))
}

func (h *purchaseOrderHandler) approvePurchaseOrder(c *gin.Context) {
	h.handleDecision(c, h.poService.ApprovePurchaseOrder)
}

func (h *purchaseOrderHandler) rejectPurchaseOrder(c *gin.Context) {
	h.handleDecision(c, h.poService.RejectPurchaseOrder)
}

// handleDecision is the shared body of the approve and reject endpoints; they differ
// only in the service call.
func (h *purchaseOrderHandler) handleDecision(c *gin.Context, action func(ctx context.Context, poID, approverID, remarks string) (*dto.WorkflowActionResponse, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	poID := c.Param("po_id")

	var req dto.ApprovalActionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}

	approverID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := action(c.Request.Context(), poID, approverID, req.Remarks)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoPendingApproval):
			c.JSON(http.StatusNotFound, gin.H{"error": "No pending approval found for this user"})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Purchase order not found"})
		default:
			logger.Error("Failed to process approval decision", slog.String("error", err.Error()), slog.String("po_id", poID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process approval decision"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *purchaseOrderHandler) issuePurchaseOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	poID := c.Param("po_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.poService.IssuePurchaseOrder(c.Request.Context(), poID, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Purchase order not found"})
		case errors.Is(err, services.ErrNotApproved):
			c.JSON(http.StatusConflict, gin.H{"error": "PO must be approved before issuing"})
		default:
			logger.Error("Failed to issue purchase order", slog.String("error", err.Error()), slog.String("po_id", poID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue purchase order"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *purchaseOrderHandler) downloadPurchaseOrderPDF(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	poID := c.Param("po_id")

	po, err := h.poService.GetPurchaseOrderByID(c.Request.Context(), poID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Purchase order not found"})
		} else {
			logger.Error("Failed to get purchase order for PDF", slog.String("error", err.Error()), slog.String("po_id", poID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve purchase order"})
		}
		return
	}

	pdfBytes, err := h.pdfGenerator.GeneratePOPDF(po)
	if err != nil {
		logger.Error("Failed to generate purchase order PDF", slog.String("error", err.Error()), slog.String("po_id", poID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+po.PONumber+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// intQuery parses an integer query parameter, returning 0 when absent or malformed.
func intQuery(c *gin.Context, name string) (int, bool) {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0, false
	}
	return value, true
}
