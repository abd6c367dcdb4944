package registrationRepo

import (
	"time"

	"dormify/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RegistrationRepository defines methods for registration data access.
type RegistrationRepository interface {
	Create(reg *models.Registration) error
	// GetByID returns the registration with room (and its building) and user
	// populated.
	GetByID(id primitive.ObjectID) (*models.Registration, error)
	// GetAll returns all registrations, populated, newest first.
	GetAll() ([]models.Registration, error)
	// GetByUser returns the user's registrations, populated, newest first.
	GetByUser(userID primitive.ObjectID) ([]models.Registration, error)
	// LatestByUser returns the user's most recent registration; nil when none.
	LatestByUser(userID primitive.ObjectID) (*models.Registration, error)
	// HasAnyByUser reports whether the user ever filed a registration.
	HasAnyByUser(userID primitive.ObjectID) (bool, error)
	// HasNonTerminalByUser reports whether the user holds an unpaid or
	// pending registration.
	HasNonTerminalByUser(userID primitive.ObjectID) (bool, error)
	// CountByRoomAndStatus counts registrations for a room in a status.
	CountByRoomAndStatus(roomID primitive.ObjectID, status string) (int64, error)
	// CodeTaken reports whether a registration code is already assigned.
	CodeTaken(code string) (bool, error)
	// Update persists arbitrary field changes.
	Update(reg *models.Registration) error
	// UpdateStatus sets the status and, when detail is non-empty, the
	// user-facing detail message.
	UpdateStatus(id primitive.ObjectID, status, detail string) error
	// TransitionStatus sets status+detail only when the current status is
	// `from`, reporting whether the transition was applied. This is the
	// conditional update the payment callback relies on.
	TransitionStatus(id primitive.ObjectID, from, to, detail string) (bool, error)
	// SetUser records the paying user before a payment URL is issued.
	SetUser(id, userID primitive.ObjectID) error
	// UpdateDetail sets only the user-facing detail message.
	UpdateDetail(id primitive.ObjectID, detail string) error
	Delete(id primitive.ObjectID) error
	// FindExpiredUnpaid returns unpaid registrations created at or before
	// the cutoff, populated.
	FindExpiredUnpaid(cutoff time.Time) ([]models.Registration, error)
}
