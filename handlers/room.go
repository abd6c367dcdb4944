package handlers

import (
	"net/http"

	"dormify/models"

	"github.com/gin-gonic/gin"
)

// CreateRoomHandler handles POST /api/admin/rooms.
func (h *HandlerBundle) CreateRoomHandler(c *gin.Context) {
	var r models.Room
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.RoomService.Create(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, r)
}

// UpdateRoomHandler handles PUT /api/admin/rooms/:id.
func (h *HandlerBundle) UpdateRoomHandler(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var r models.Room
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	r.ID = id
	if err := h.RoomService.Update(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, r)
}

// DeleteRoomHandler handles DELETE /api/admin/rooms/:id.
func (h *HandlerBundle) DeleteRoomHandler(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.RoomService.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Room deleted"})
}

// GetRoomHandler handles GET /api/rooms/:id. With ?occupancy=true the room
// carries its occupancy breakdown.
func (h *HandlerBundle) GetRoomHandler(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if c.Query("occupancy") == "true" {
		occ, err := h.RoomService.OccupancyFor(id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, occ)
		return
	}
	r, err := h.RoomService.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, r)
}

// GetRoomsHandler handles GET /api/rooms. Supports ?status= filtering and
// ?occupancy=true for the per-room breakdown.
func (h *HandlerBundle) GetRoomsHandler(c *gin.Context) {
	if c.Query("occupancy") == "true" {
		occ, err := h.RoomService.GetOccupancy()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, occ)
		return
	}
	if status := c.Query("status"); status != "" {
		rooms, err := h.RoomService.GetByStatus(status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rooms)
		return
	}
	rooms, err := h.RoomService.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rooms)
}
