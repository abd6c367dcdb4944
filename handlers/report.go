package handlers

import (
	"net/http"
	"strconv"

	"dormify/middleware"
	"dormify/models"
	"dormify/services/report"

	"github.com/gin-gonic/gin"
)

// CreateReportHandler handles POST /api/reports (multipart with an optional
// photo).
func (h *HandlerBundle) CreateReportHandler(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}
	var form struct {
		Title       string `form:"title" binding:"required"`
		Description string `form:"description" binding:"required"`
		Category    string `form:"category" binding:"required"`
	}
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	image, _, err := c.Request.FormFile("image")
	if err != nil {
		image = nil
	}

	rep := models.Report{
		Title:       form.Title,
		Description: form.Description,
		Category:    form.Category,
	}
	created, err := h.ReportService.Create(userID, &rep, image)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetReportsHandler handles GET /api/admin/reports.
func (h *HandlerBundle) GetReportsHandler(c *gin.Context) {
	reports, err := h.ReportService.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, reports)
}

// GetMyReportsHandler handles GET /api/reports/mine.
func (h *HandlerBundle) GetMyReportsHandler(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}
	reports, err := h.ReportService.GetMine(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, reports)
}

// SetReportStatusHandler handles PUT /api/admin/reports/:id/status.
func (h *HandlerBundle) SetReportStatusHandler(c *gin.Context) {
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
	if err := h.ReportService.SetStatus(id, req.Status); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status updated"})
}

// CancelReportHandler handles PUT /api/reports/:id/cancel.
func (h *HandlerBundle) CancelReportHandler(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.ReportService.Cancel(id, userID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Report canceled"})
}

// GetReportStatsHandler handles GET /api/admin/reports/stats. Supports
// ?building=, ?category=, ?status=, ?month= and ?year=.
func (h *HandlerBundle) GetReportStatsHandler(c *gin.Context) {
	f := report.StatsFilter{
		Building: c.Query("building"),
		Category: c.Query("category"),
		Status:   c.Query("status"),
	}
	if m := c.Query("month"); m != "" {
		n, err := strconv.Atoi(m)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
			return
		}
		f.Month = n
	}
	if y := c.Query("year"); y != "" {
		n, err := strconv.Atoi(y)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
			return
		}
		f.Year = n
	}

	stats, err := h.ReportService.Stats(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// DeleteReportHandler handles DELETE /api/admin/reports/:id.
func (h *HandlerBundle) DeleteReportHandler(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.ReportService.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Report deleted"})
}
