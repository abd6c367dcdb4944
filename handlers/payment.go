package handlers

import (
	"net/http"

	"dormify/middleware"
	"dormify/models"

	"github.com/gin-gonic/gin"
)

// txTypeParam maps the :type route segment to a transaction type.
func txTypeParam(c *gin.Context) (string, bool) {
	txType := c.Param("type")
	if !models.ValidTransactionType(txType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown transaction type"})
		return "", false
	}
	return txType, true
}

// CreatePaymentURLHandler handles POST /api/payments/:type.
func (h *HandlerBundle) CreatePaymentURLHandler(c *gin.Context) {
	txType, ok := txTypeParam(c)
	if !ok {
		return
	}
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}
	var req struct {
		ID string `json:"id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entityID, err := parseObjectID(req.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	paymentURL, err := h.PaymentService.CreatePaymentURL(txType, entityID, userID, middleware.GetClientIP(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"paymentUrl": paymentURL})
}

// PaymentReturnHandler handles GET /api/payments/:type/return, the
// gateway's browser redirect. It always answers with a redirect to the
// front-end result page.
func (h *HandlerBundle) PaymentReturnHandler(c *gin.Context) {
	txType := c.Param("type")
	if !models.ValidTransactionType(txType) {
		c.String(http.StatusBadRequest, "unknown transaction type")
		return
	}
	target, _ := h.PaymentService.HandleCallback(txType, c.Request.URL.Query())
	if target == "" {
		c.String(http.StatusInternalServerError, "payment processing failed")
		return
	}
	c.Redirect(http.StatusFound, target)
}
