package buildingRepo

import (
	"dormify/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BuildingRepository defines methods for building data access.
type BuildingRepository interface {
	Create(b *models.Building) error
	Update(b *models.Building) error
	Delete(id primitive.ObjectID) error
	GetByID(id primitive.ObjectID) (*models.Building, error)
	GetAll() ([]models.Building, error)
	// NameTaken reports whether another building (excluding excludeID, which
	// may be the zero ObjectID) already uses the name.
	NameTaken(name string, excludeID primitive.ObjectID) (bool, error)
	// ActiveStudentCounts counts active tenants per building, joining
	// students through registrations to rooms.
	ActiveStudentCounts() (map[primitive.ObjectID]int, error)
}
