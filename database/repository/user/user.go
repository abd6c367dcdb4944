package userRepo

import (
	"dormify/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository defines methods for user and admin account data access.
type UserRepository interface {
	// Create inserts a new user record.
	Create(user *models.User) error
	// Update modifies an existing user record.
	Update(user *models.User) error
	// UpdateStatus sets the account status (active/banned).
	UpdateStatus(id primitive.ObjectID, status string) error
	// Delete removes a user record by its ID.
	Delete(id primitive.ObjectID) error
	// GetByID retrieves a user by its unique ID.
	GetByID(id primitive.ObjectID) (*models.User, error)
	// GetByEmail retrieves a user by email; nil when absent.
	GetByEmail(email string) (*models.User, error)
	// GetAll retrieves all users, newest first.
	GetAll() ([]models.User, error)
	// LastUserCode returns the highest assigned sequential user code ("" when none).
	LastUserCode() (string, error)

	// CreateAdmin inserts a management account.
	CreateAdmin(admin *models.Admin) error
	// GetAdminByEmail retrieves an admin by email; nil when absent.
	GetAdminByEmail(email string) (*models.Admin, error)
}
