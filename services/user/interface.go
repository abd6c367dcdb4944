package user

import (
	"mime/multipart"

	userRepo "dormify/database/repository/user"
	"dormify/models"
	"dormify/services/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserService interface {
	// Authentication
	SignUp(fullname, email, password string) (*AuthResponse, error)
	SignIn(email, password string) (*AuthResponse, error)
	SignOut(token string) error
	AdminSignUp(email, password string) error
	AdminSignIn(email, password string) (*AuthResponse, error)
	ChangePassword(userID primitive.ObjectID, currentPassword, newPassword string) error

	// Account management
	GetUserByID(userID primitive.ObjectID) (*models.User, error)
	GetAllUsers() ([]models.User, error)
	UpdateProfile(userID primitive.ObjectID, fullname string, avatar multipart.File) (*models.User, error)
	SetStatus(userID primitive.ObjectID, status string) error
	DeleteUser(userID primitive.ObjectID) error
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo    userRepo.UserRepository
	Storage storage.StorageService
}

// AuthResponse carries the signed token plus the essentials the client shows.
type AuthResponse struct {
	ID       string `json:"id"`
	Token    string `json:"token"`
	Fullname string `json:"fullname,omitempty"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Avatar   string `json:"avatar,omitempty"`
}
