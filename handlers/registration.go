package handlers

import (
	"net/http"
	"time"

	"dormify/middleware"
	"dormify/models"

	"github.com/gin-gonic/gin"
)

type registrationForm struct {
	RoomID         string `form:"roomId" binding:"required"`
	Fullname       string `form:"fullname" binding:"required"`
	BirthDate      string `form:"birthDate" binding:"required"`
	Gender         string `form:"gender" binding:"required"`
	Religion       string `form:"religion"`
	Ethnicity      string `form:"ethnicity"`
	IdentityNumber string `form:"identityNumber" binding:"required"`
	StudentID      string `form:"studentId" binding:"required"`
	Course         string `form:"course"`
	School         string `form:"school"`
	Class          string `form:"class"`
	ProvinceCode   string `form:"provinceCode"`
	DistrictCode   string `form:"districtCode"`
	WardCode       string `form:"wardCode"`
	Street         string `form:"street"`
	Phone          string `form:"phone" binding:"required"`
	Email          string `form:"email" binding:"required,email"`
	Month          int    `form:"month" binding:"required"`
	Year           int    `form:"year" binding:"required"`
	StartDate      string `form:"startDate" binding:"required"`
	EndDate        string `form:"endDate" binding:"required"`
}

// CreateRegistrationHandler handles POST /api/registrations (multipart with
// an optional photo).
func (h *HandlerBundle) CreateRegistrationHandler(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}

	var form registrationForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	roomID, err := parseObjectID(form.RoomID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}
	birthDate, err := time.Parse("2006-01-02", form.BirthDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid birth date"})
		return
	}
	startDate, err := time.Parse("2006-01-02", form.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start date"})
		return
	}
	endDate, err := time.Parse("2006-01-02", form.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end date"})
		return
	}

	reg := models.Registration{
		RoomID:         roomID,
		Fullname:       form.Fullname,
		BirthDate:      birthDate,
		Gender:         form.Gender,
		Religion:       form.Religion,
		Ethnicity:      form.Ethnicity,
		IdentityNumber: form.IdentityNumber,
		StudentID:      form.StudentID,
		Course:         form.Course,
		School:         form.School,
		Class:          form.Class,
		Address: models.Address{
			ProvinceCode: form.ProvinceCode,
			DistrictCode: form.DistrictCode,
			WardCode:     form.WardCode,
			Street:       form.Street,
		},
		Phone:     form.Phone,
		Email:     form.Email,
		Month:     form.Month,
		Year:      form.Year,
		StartDate: startDate,
		EndDate:   endDate,
	}

	image, _, err := c.Request.FormFile("image")
	if err != nil {
		image = nil
	}

	created, err := h.RegistrationService.Create(userID, &reg, image)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetRegistrationsHandler handles GET /api/admin/registrations.
func (h *HandlerBundle) GetRegistrationsHandler(c *gin.Context) {
	regs, err := h.RegistrationService.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, regs)
}

// GetRegistrationHandler handles GET /api/registrations/:id.
func (h *HandlerBundle) GetRegistrationHandler(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	reg, err := h.RegistrationService.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, reg)
}

// GetMyRegistrationsHandler handles GET /api/registrations/mine. With
// ?latest=true only the newest application returns.
func (h *HandlerBundle) GetMyRegistrationsHandler(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}
	if c.Query("latest") == "true" {
		reg, err := h.RegistrationService.LatestByUser(userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, reg)
		return
	}
	regs, err := h.RegistrationService.GetByUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, regs)
}

// SetRegistrationStatusHandler handles PUT /api/admin/registrations/:id/status.
func (h *HandlerBundle) SetRegistrationStatusHandler(c *gin.Context) {
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
	if err := h.RegistrationService.SetStatus(id, req.Status); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status updated"})
}

// CancelRegistrationHandler handles PUT /api/registrations/:id/cancel.
func (h *HandlerBundle) CancelRegistrationHandler(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.RegistrationService.Cancel(id, userID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Registration canceled"})
}

// DeleteRegistrationHandler handles DELETE /api/admin/registrations/:id.
func (h *HandlerBundle) DeleteRegistrationHandler(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.RegistrationService.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Registration deleted"})
}
