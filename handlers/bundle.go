package handlers

import (
	"net/http"

	"dormify/services/building"
	"dormify/services/feedback"
	"dormify/services/invoice"
	"dormify/services/payment"
	"dormify/services/registration"
	"dormify/services/renewal"
	"dormify/services/report"
	"dormify/services/room"
	"dormify/services/semester"
	"dormify/services/student"
	"dormify/services/user"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandlerBundle groups every endpoint's dependencies into one struct.
type HandlerBundle struct {
	UserService         user.UserService
	BuildingService     building.BuildingService
	RoomService         room.RoomService
	RegistrationService registration.RegistrationService
	RenewalService      renewal.RenewalService
	StudentService      student.StudentService
	InvoiceService      invoice.InvoiceService
	PaymentService      payment.PaymentService
	ReportService       report.ReportService
	FeedbackService     feedback.FeedbackService
	SemesterService     semester.SemesterService
}

// paramID parses the :id route parameter; on failure it writes the 400 and
// reports false.
func paramID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return primitive.NilObjectID, false
	}
	return id, true
}

func parseObjectID(hex string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(hex)
}
