package handlers

import (
	"net/http"
	"time"

	"dormify/middleware"
	"dormify/models"

	"github.com/gin-gonic/gin"
)

// kindParam maps the :kind route segment to a utility kind.
func kindParam(c *gin.Context) (string, bool) {
	kind := c.Param("kind")
	if kind != models.UtilityElectric && kind != models.UtilityWater {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown utility kind"})
		return "", false
	}
	return kind, true
}

// CreateInvoiceHandler handles POST /api/admin/invoices/:kind.
func (h *HandlerBundle) CreateInvoiceHandler(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	var req struct {
		RoomID    string `json:"roomId" binding:"required"`
		Month     int    `json:"month" binding:"required"`
		Year      int    `json:"year" binding:"required"`
		OldIndex  int64  `json:"oldIndex"`
		NewIndex  int64  `json:"newIndex" binding:"required"`
		UnitPrice int64  `json:"unitPrice" binding:"required"`
		DueDate   string `json:"dueDate" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	roomID, err := parseObjectID(req.RoomID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}
	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due date"})
		return
	}

	inv := models.UtilityInvoice{
		RoomID:    roomID,
		Month:     req.Month,
		Year:      req.Year,
		OldIndex:  req.OldIndex,
		NewIndex:  req.NewIndex,
		UnitPrice: req.UnitPrice,
		DueDate:   dueDate,
	}
	created, err := h.InvoiceService.Create(kind, &inv)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetInvoicesHandler handles GET /api/admin/invoices/:kind.
func (h *HandlerBundle) GetInvoicesHandler(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	invoices, err := h.InvoiceService.GetAll(kind)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, invoices)
}

// GetInvoiceHandler handles GET /api/invoices/:kind/:id.
func (h *HandlerBundle) GetInvoiceHandler(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}
	inv, err := h.InvoiceService.GetByID(kind, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, inv)
}

// GetMyInvoicesHandler handles GET /api/invoices/:kind/mine.
func (h *HandlerBundle) GetMyInvoicesHandler(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}
	invoices, err := h.InvoiceService.GetMine(kind, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, invoices)
}

// UpdateInvoiceHandler handles PUT /api/admin/invoices/:kind/:id.
func (h *HandlerBundle) UpdateInvoiceHandler(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req struct {
		OldIndex  int64  `json:"oldIndex"`
		NewIndex  int64  `json:"newIndex" binding:"required"`
		UnitPrice int64  `json:"unitPrice" binding:"required"`
		DueDate   string `json:"dueDate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	current, err := h.InvoiceService.GetByID(kind, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	current.OldIndex = req.OldIndex
	current.NewIndex = req.NewIndex
	current.UnitPrice = req.UnitPrice
	if req.DueDate != "" {
		dueDate, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due date"})
			return
		}
		current.DueDate = dueDate
	}
	if err := h.InvoiceService.Update(kind, current); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, current)
}

// DeleteInvoiceHandler handles DELETE /api/admin/invoices/:kind/:id.
func (h *HandlerBundle) DeleteInvoiceHandler(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.InvoiceService.Delete(kind, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invoice deleted"})
}
