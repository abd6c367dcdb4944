package handlers

import (
	"net/http"

	"dormify/middleware"
	"dormify/models"

	"github.com/gin-gonic/gin"
)

// CreateFeedbackHandler handles POST /api/feedback.
func (h *HandlerBundle) CreateFeedbackHandler(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}
	var req struct {
		Title   string `json:"title" binding:"required"`
		Content string `json:"content" binding:"required"`
		Type    string `json:"type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fb := models.Feedback{Title: req.Title, Content: req.Content, Type: req.Type}
	created, err := h.FeedbackService.Create(userID, &fb)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetFeedbackHandler handles GET /api/admin/feedback.
func (h *HandlerBundle) GetFeedbackHandler(c *gin.Context) {
	views, err := h.FeedbackService.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, views)
}

// GetMyFeedbackHandler handles GET /api/feedback/mine.
func (h *HandlerBundle) GetMyFeedbackHandler(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}
	items, err := h.FeedbackService.GetMine(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

// SetFeedbackNoteHandler handles PUT /api/admin/feedback/:id/note.
func (h *HandlerBundle) SetFeedbackNoteHandler(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req struct {
		Note string `json:"note" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.FeedbackService.SetNote(id, req.Note); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Note saved"})
}

// DeleteFeedbackHandler handles DELETE /api/admin/feedback/:id.
func (h *HandlerBundle) DeleteFeedbackHandler(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.FeedbackService.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Feedback deleted"})
}
