package roomRepo

import (
	"dormify/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoomRepository defines methods for room data access.
type RoomRepository interface {
	Create(room *models.Room) error
	Update(room *models.Room) error
	Delete(id primitive.ObjectID) error
	// GetByID returns the room with its building populated.
	GetByID(id primitive.ObjectID) (*models.Room, error)
	// GetAll returns all rooms with buildings populated, newest first.
	GetAll() ([]models.Room, error)
	// GetByStatus returns rooms in the given status with buildings populated.
	GetByStatus(status string) ([]models.Room, error)
	// NumberTaken reports whether another room in the building already uses
	// the number (excluding excludeID, which may be zero).
	NumberTaken(buildingID primitive.ObjectID, number string, excludeID primitive.ObjectID) (bool, error)
}
