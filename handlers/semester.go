package handlers

import (
	"net/http"

	"dormify/models"

	"github.com/gin-gonic/gin"
)

// CreateSemesterHandler handles POST /api/admin/semesters.
func (h *HandlerBundle) CreateSemesterHandler(c *gin.Context) {
	var sem models.Semester
	if err := c.ShouldBindJSON(&sem); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.SemesterService.Create(&sem); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, sem)
}

// GetSemestersHandler handles GET /api/semesters. With ?current=true only
// the semester covering today returns.
func (h *HandlerBundle) GetSemestersHandler(c *gin.Context) {
	if c.Query("current") == "true" {
		sem, err := h.SemesterService.GetCurrent()
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, sem)
		return
	}
	semesters, err := h.SemesterService.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, semesters)
}

// UpdateSemesterHandler handles PUT /api/admin/semesters/:id.
func (h *HandlerBundle) UpdateSemesterHandler(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var sem models.Semester
	if err := c.ShouldBindJSON(&sem); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sem.ID = id
	if err := h.SemesterService.Update(&sem); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sem)
}

// DeleteSemesterHandler handles DELETE /api/admin/semesters/:id.
func (h *HandlerBundle) DeleteSemesterHandler(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.SemesterService.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Semester deleted"})
}
