package semesterRepo

import (
	"dormify/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SemesterRepository defines methods for semester data access.
type SemesterRepository interface {
	Create(s *models.Semester) error
	GetByID(id primitive.ObjectID) (*models.Semester, error)
	// GetAll returns semesters, newest start date first.
	GetAll() ([]models.Semester, error)
	// GetCurrent returns the semester containing the instant, nil when none.
	GetCurrent() (*models.Semester, error)
	Update(s *models.Semester) error
	Delete(id primitive.ObjectID) error
}
