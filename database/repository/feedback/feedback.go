package feedbackRepo

import (
	"dormify/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FeedbackRepository defines methods for feedback data access.
type FeedbackRepository interface {
	Create(fb *models.Feedback) error
	// GetByID returns the feedback with its student populated; nil when
	// absent.
	GetByID(id primitive.ObjectID) (*models.Feedback, error)
	// GetAll returns all feedback, populated, newest first.
	GetAll() ([]models.Feedback, error)
	// GetByStudent returns the student's feedback, newest first.
	GetByStudent(studentID primitive.ObjectID) ([]models.Feedback, error)
	Update(fb *models.Feedback) error
	Delete(id primitive.ObjectID) error
}
