package renewalRepo

import (
	"dormify/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RenewalRepository defines methods for renewal request data access.
type RenewalRepository interface {
	Create(req *models.RenewalRequest) error
	// GetByID returns the renewal with its student populated; nil when absent.
	GetByID(id primitive.ObjectID) (*models.RenewalRequest, error)
	// GetAll returns all renewals, populated, newest first.
	GetAll() ([]models.RenewalRequest, error)
	// GetByStudent returns the student's renewals, populated, newest first.
	GetByStudent(studentID primitive.ObjectID) ([]models.RenewalRequest, error)
	// GetByStatus returns renewals in the given status, populated, newest first.
	GetByStatus(status string) ([]models.RenewalRequest, error)
	// HasOpenByStudent reports whether the student holds an unpaid or pending
	// renewal for the period.
	HasOpenByStudent(studentID primitive.ObjectID, month, year int) (bool, error)
	// CodeTaken reports whether a renewal code is already assigned.
	CodeTaken(code string) (bool, error)
	// UpdateStatus sets the status unconditionally.
	UpdateStatus(id primitive.ObjectID, status string) error
	// SetNotes replaces the admin notes.
	SetNotes(id primitive.ObjectID, notes string) error
	// SetPaymentMethod records how the renewal was (or will be) paid.
	SetPaymentMethod(id primitive.ObjectID, method string) error
	// TransitionStatus sets the status only when the current status is `from`,
	// reporting whether the transition was applied.
	TransitionStatus(id primitive.ObjectID, from, to string) (bool, error)
	Delete(id primitive.ObjectID) error
}
