package user

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"dormify/models"
	"dormify/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func (s *DefaultUserService) GetUserByID(userID primitive.ObjectID) (*models.User, error) {
	u, err := s.Repo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	u.Password = ""
	return u, nil
}

func (s *DefaultUserService) GetAllUsers() ([]models.User, error) {
	users, err := s.Repo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

// UpdateProfile changes the display name and, when avatar is non-nil,
// uploads a replacement picture.
func (s *DefaultUserService) UpdateProfile(userID primitive.ObjectID, fullname string, avatar multipart.File) (*models.User, error) {
	u, err := s.Repo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	if name := strings.TrimSpace(fullname); name != "" {
		u.Fullname = name
	}
	if avatar != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		url, err := s.Storage.UploadImage(ctx, avatar, "avatars")
		if err != nil {
			utils.GetLogger().Error("UpdateProfile: avatar upload failed", zap.Error(err))
			return nil, fmt.Errorf("failed to upload avatar, please try again")
		}
		u.Avatar = url
	}
	if err := s.Repo.Update(u); err != nil {
		utils.GetLogger().Error("UpdateProfile: failed to update user", zap.Error(err))
		return nil, fmt.Errorf("failed to update profile, please try again")
	}
	u.Password = ""
	return u, nil
}

// SetStatus bans or reinstates an account.
func (s *DefaultUserService) SetStatus(userID primitive.ObjectID, status string) error {
	if status != models.UserStatusActive && status != models.UserStatusBanned {
		return fmt.Errorf("invalid status %q", status)
	}
	if err := s.Repo.UpdateStatus(userID, status); err != nil {
		return fmt.Errorf("failed to update account status: %w", err)
	}
	return nil
}

func (s *DefaultUserService) DeleteUser(userID primitive.ObjectID) error {
	if err := s.Repo.Delete(userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
