package handlers

import (
	"net/http"

	"dormify/middleware"

	"github.com/gin-gonic/gin"
)

// GetProfileHandler handles GET /api/users/me.
func (h *HandlerBundle) GetProfileHandler(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}
	u, err := h.UserService.GetUserByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, u)
}

// UpdateProfileHandler handles PUT /api/users/me (multipart: fullname, avatar).
func (h *HandlerBundle) UpdateProfileHandler(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}
	fullname := c.PostForm("fullname")
	file, _, err := c.Request.FormFile("avatar")
	if err != nil {
		file = nil
	}
	u, err := h.UserService.UpdateProfile(userID, fullname, file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, u)
}

// GetAllUsersHandler handles GET /api/admin/users.
func (h *HandlerBundle) GetAllUsersHandler(c *gin.Context) {
	users, err := h.UserService.GetAllUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUserHandler handles GET /api/admin/users/:id.
func (h *HandlerBundle) GetUserHandler(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	u, err := h.UserService.GetUserByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, u)
}

// SetUserStatusHandler handles PUT /api/admin/users/:id/status.
func (h *HandlerBundle) SetUserStatusHandler(c *gin.Context) {
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
	if err := h.UserService.SetStatus(id, req.Status); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status updated"})
}

// DeleteUserHandler handles DELETE /api/admin/users/:id.
func (h *HandlerBundle) DeleteUserHandler(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.UserService.DeleteUser(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
