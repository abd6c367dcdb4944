package studentRepo

import (
	"time"

	"dormify/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StudentRepository defines methods for student (tenancy) data access.
type StudentRepository interface {
	// Create inserts the student. The registration field carries a unique
	// index, so a second mint for the same registration fails; callers treat
	// the duplicate-key error as "already minted".
	Create(s *models.Student) error
	// GetByID returns the student with user and registration (room, building)
	// populated; nil when absent.
	GetByID(id primitive.ObjectID) (*models.Student, error)
	// GetAll returns all students, populated, newest first.
	GetAll() ([]models.Student, error)
	// GetByUser returns the user's tenancies, populated, newest first.
	GetByUser(userID primitive.ObjectID) ([]models.Student, error)
	// GetActiveByUser returns the user's active tenancy; nil when none.
	GetActiveByUser(userID primitive.ObjectID) (*models.Student, error)
	// GetByRegistration returns the student minted for the registration; nil
	// when none.
	GetByRegistration(regID primitive.ObjectID) (*models.Student, error)
	// GetActiveByRooms returns active students whose registration points at
	// one of the rooms, populated.
	GetActiveByRooms(roomIDs []primitive.ObjectID) ([]models.Student, error)
	// UpdateStatus sets the status.
	UpdateStatus(id primitive.ObjectID, status string) error
	// ExtendEndDate pushes the stay end out to endDate.
	ExtendEndDate(id primitive.ObjectID, endDate time.Time) error
	// FindExpiredActive returns active students whose end date passed the
	// cutoff, populated.
	FindExpiredActive(cutoff time.Time) ([]models.Student, error)
	Delete(id primitive.ObjectID) error
}

// IsDuplicateRegistration reports whether err is the unique-index violation
// raised when a student already exists for the registration.
func IsDuplicateRegistration(err error) bool {
	return err != nil && isDupKey(err)
}
