package handlers

import (
	"net/http"

	"dormify/models"

	"github.com/gin-gonic/gin"
)

// CreateBuildingHandler handles POST /api/admin/buildings.
func (h *HandlerBundle) CreateBuildingHandler(c *gin.Context) {
	var b models.Building
	if err := c.ShouldBindJSON(&b); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.BuildingService.Create(&b); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, b)
}

// UpdateBuildingHandler handles PUT /api/admin/buildings/:id.
func (h *HandlerBundle) UpdateBuildingHandler(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var b models.Building
	if err := c.ShouldBindJSON(&b); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b.ID = id
	if err := h.BuildingService.Update(&b); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, b)
}

// DeleteBuildingHandler handles DELETE /api/admin/buildings/:id.
func (h *HandlerBundle) DeleteBuildingHandler(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.BuildingService.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Building deleted"})
}

// GetBuildingHandler handles GET /api/buildings/:id.
func (h *HandlerBundle) GetBuildingHandler(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	b, err := h.BuildingService.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, b)
}

// GetBuildingsHandler handles GET /api/buildings. With ?stats=true each
// building carries its active tenant count.
func (h *HandlerBundle) GetBuildingsHandler(c *gin.Context) {
	if c.Query("stats") == "true" {
		stats, err := h.BuildingService.GetAllWithStats()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
		return
	}
	buildings, err := h.BuildingService.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, buildings)
}
