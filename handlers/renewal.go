package handlers

import (
	"net/http"

	"dormify/middleware"
	"dormify/services/renewal"

	"github.com/gin-gonic/gin"
)

// CreateRenewalHandler handles POST /api/renewals.
func (h *HandlerBundle) CreateRenewalHandler(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}
	var req struct {
		Month int    `json:"month" binding:"required"`
		Year  int    `json:"year" binding:"required"`
		Notes string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := h.RenewalService.Create(userID, req.Month, req.Year, req.Notes)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetRenewalsHandler handles GET /api/admin/renewals. Supports ?status=,
// ?search= (code, fullname, or student id), ?building=, ?room= and ?gender=.
func (h *HandlerBundle) GetRenewalsHandler(c *gin.Context) {
	f := renewal.Filter{
		Status:   c.Query("status"),
		Search:   c.Query("search"),
		Building: c.Query("building"),
		Room:     c.Query("room"),
		Gender:   c.Query("gender"),
	}
	reqs, err := h.RenewalService.GetFiltered(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, reqs)
}

// UpdateRenewalHandler handles PUT /api/admin/renewals/:id. Only the
// admin-managed fields (notes, payment method) are editable here.
func (h *HandlerBundle) UpdateRenewalHandler(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req struct {
		Notes         *string `json:"notes"`
		PaymentMethod *string `json:"paymentMethod"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Notes == nil && req.PaymentMethod == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}
	if err := h.RenewalService.Update(id, req.Notes, req.PaymentMethod); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Renewal updated"})
}

// GetMyRenewalsHandler handles GET /api/renewals/mine.
func (h *HandlerBundle) GetMyRenewalsHandler(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}
	reqs, err := h.RenewalService.GetMine(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, reqs)
}

// SetRenewalStatusHandler handles PUT /api/admin/renewals/:id/status.
func (h *HandlerBundle) SetRenewalStatusHandler(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.RenewalService.SetStatus(id, req.Status); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status updated"})
}

// CancelRenewalHandler handles PUT /api/renewals/:id/cancel.
func (h *HandlerBundle) CancelRenewalHandler(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.RenewalService.Cancel(id, userID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Renewal canceled"})
}

// DeleteRenewalHandler handles DELETE /api/admin/renewals/:id.
func (h *HandlerBundle) DeleteRenewalHandler(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.RenewalService.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Renewal deleted"})
}
