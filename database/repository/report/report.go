package reportRepo

import (
	"dormify/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReportRepository defines methods for maintenance report data access.
type ReportRepository interface {
	Create(rep *models.Report) error
	// GetByID returns the report with its tenancy populated; nil when absent.
	GetByID(id primitive.ObjectID) (*models.Report, error)
	// GetAll returns all reports, populated, newest first.
	GetAll() ([]models.Report, error)
	// GetByStudent returns the student's reports, populated, newest first.
	GetByStudent(studentID primitive.ObjectID) ([]models.Report, error)
	// CodeTaken reports whether a report code is already assigned.
	CodeTaken(code string) (bool, error)
	// UpdateStatus sets the status and stamps completedAt when the new status
	// is processed.
	UpdateStatus(id primitive.ObjectID, status string) error
	Delete(id primitive.ObjectID) error
}
