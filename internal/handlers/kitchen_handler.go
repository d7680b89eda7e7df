package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"kitchen_display/internal/kitchen"
	"kitchen_display/internal/middleware"
	"kitchen_display/internal/models"
	"kitchen_display/internal/services"
	"kitchen_display/pkg/kds"

	"github.com/MonkyMars/gecho"
	"github.com/gin-gonic/gin"
)

type KitchenHandler struct {
	kitchenService services.KitchenService
	logger         *gecho.Logger
}

func NewKitchenHandler(kitchenService services.KitchenService, logger *gecho.Logger) *KitchenHandler {
	return &KitchenHandler{
		kitchenService: kitchenService,
		logger:         logger,
	}
}

// GetKitchenView serves GET /api/branches/:branch_id/kitchen.
func (h *KitchenHandler) GetKitchenView(c *gin.Context) {
	managerID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	branchID, err := parseID(c.Param("branch_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid branch ID"})
		return
	}

	query := services.ViewQuery{ManagerID: managerID, BranchID: branchID}
	if raw := c.Query("category_id"); raw != "" {
		categoryID, err := parseID(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
			return
		}
		query.CategoryID = &categoryID
	}

	window, err := parseWindow(c.Query("from"), c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	query.Window = window

	orders, err := h.kitchenService.GetKitchenView(c.Request.Context(), query)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, kds.KitchenViewResponse{Orders: orders})
}

// AdvanceItemStatus serves PATCH /api/kitchen/items/:item_id/status.
func (h *KitchenHandler) AdvanceItemStatus(c *gin.Context) {
	managerID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	itemID, err := parseID(c.Param("item_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	var req kds.AdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.kitchenService.AdvanceItemStatus(c.Request.Context(), services.AdvanceRequest{
		ManagerID:       managerID,
		ItemID:          itemID,
		Status:          string(req.Status),
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, kds.AdvanceResponse{
		Message: "Item status updated",
		Item:    itemRecord(result.Item),
		Completion: kds.Completion{
			OrderCompleted: result.Completion.OrderCompleted,
			PaymentSettled: result.Completion.PaymentSettled,
		},
	})
}

func (h *KitchenHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidStatus), errors.Is(err, services.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
	case errors.Is(err, services.ErrBranchNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Branch not found"})
	case errors.Is(err, services.ErrVersionConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Item was changed by another station"})
	default:
		h.logger.Error("Kitchen request failed",
			gecho.Field("error", err),
			gecho.Field("request_id", c.GetString(middleware.RequestIDKey)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func itemRecord(item *models.OrderItem) kds.ItemRecord {
	return kds.ItemRecord{
		ID:        item.ID,
		OrderID:   item.OrderID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		Note:      item.Note,
		Status:    kds.Status(item.Status),
		Version:   item.Version,
		UpdatedAt: item.UpdatedAt,
	}
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

// parseWindow reads an optional RFC3339 [from, to) override. Both bounds
// must be given together.
func parseWindow(from, to string) (*kitchen.TimeRange, error) {
	if from == "" && to == "" {
		return nil, nil
	}
	if from == "" || to == "" {
		return nil, errors.New("from and to must be given together")
	}
	start, err := time.Parse(time.RFC3339, from)
	if err != nil {
		return nil, errors.New("invalid from timestamp")
	}
	end, err := time.Parse(time.RFC3339, to)
	if err != nil {
		return nil, errors.New("invalid to timestamp")
	}
	if !start.Before(end) {
		return nil, errors.New("from must be before to")
	}
	return &kitchen.TimeRange{Start: start, End: end}, nil
}
