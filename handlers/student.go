package handlers

import (
	"net/http"
	"time"

	"dormify/middleware"

	"github.com/gin-gonic/gin"
)

// GetStudentsHandler handles GET /api/admin/students.
func (h *HandlerBundle) GetStudentsHandler(c *gin.Context) {
	students, err := h.StudentService.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, students)
}

// GetStudentHandler handles GET /api/admin/students/:id.
func (h *HandlerBundle) GetStudentHandler(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	st, err := h.StudentService.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, st)
}

// GetMyTenancyHandler handles GET /api/students/me.
func (h *HandlerBundle) GetMyTenancyHandler(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}
	st, err := h.StudentService.GetActiveByUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if st == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active tenancy"})
		return
	}
	c.JSON(http.StatusOK, st)
}

// GetMyHistoryHandler handles GET /api/students/me/history.
func (h *HandlerBundle) GetMyHistoryHandler(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}
	stays, err := h.StudentService.History(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stays)
}

// GetMyRoommatesHandler handles GET /api/students/me/roommates.
func (h *HandlerBundle) GetMyRoommatesHandler(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}
	mates, err := h.StudentService.Roommates(userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, mates)
}

// UpdateStudentHandler handles PUT /api/admin/students/:id. Only the
// admin-managed fields (status, end date) are editable here.
func (h *HandlerBundle) UpdateStudentHandler(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req struct {
		Status  *string `json:"status"`
		EndDate *string `json:"endDate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Status == nil && req.EndDate == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}
	var endDate *time.Time
	if req.EndDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end date"})
			return
		}
		endDate = &parsed
	}
	if err := h.StudentService.Update(id, req.Status, endDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Student updated"})
}

// VacateStudentHandler handles PUT /api/admin/students/:id/vacate.
func (h *HandlerBundle) VacateStudentHandler(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.StudentService.Vacate(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tenancy ended"})
}

// DeleteStudentHandler handles DELETE /api/admin/students/:id.
func (h *HandlerBundle) DeleteStudentHandler(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.StudentService.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Student deleted"})
}
