package user

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"dormify/models"
	"dormify/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// tokenTTL bounds both the JWT expiry and the auth-cache entry.
const tokenTTL = 72 * time.Hour

const minPasswordLength = 8

// nextUserCode derives the next sequential code (US001, US002, ...).
func nextUserCode(last string) string {
	n := 0
	if digits := strings.TrimPrefix(last, "US"); digits != last {
		n, _ = strconv.Atoi(digits)
	}
	return fmt.Sprintf("US%03d", n+1)
}

func cacheToken(token, subject string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	key := utils.AuthCachePrefix + utils.HashToken(token)
	return utils.GetAuthCacheClient().Set(ctx, key, subject, tokenTTL).Err()
}

// SignUp registers a new account and signs the user in.
func (s *DefaultUserService) SignUp(fullname, email, password string) (*AuthResponse, error) {
	fullname = strings.TrimSpace(fullname)
	email = strings.ToLower(strings.TrimSpace(email))
	if fullname == "" || email == "" || password == "" {
		return nil, fmt.Errorf("all fields are required")
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	existing, err := s.Repo.GetByEmail(email)
	if err != nil {
		utils.GetLogger().Error("SignUp: failed to check existing email", zap.Error(err))
		return nil, fmt.Errorf("sign up failed, please try again")
	}
	if existing != nil {
		return nil, fmt.Errorf("a user with this email already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		utils.GetLogger().Error("SignUp: failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("sign up failed, please try again")
	}

	last, err := s.Repo.LastUserCode()
	if err != nil {
		utils.GetLogger().Error("SignUp: failed to read last user code", zap.Error(err))
		return nil, fmt.Errorf("sign up failed, please try again")
	}

	u := models.User{
		UserID:   nextUserCode(last),
		Fullname: fullname,
		Email:    email,
		Password: string(hashed),
		Status:   models.UserStatusActive,
	}
	if err := s.Repo.Create(&u); err != nil {
		utils.GetLogger().Error("SignUp: failed to create user", zap.Error(err))
		return nil, fmt.Errorf("sign up failed, please try again")
	}

	return s.issueToken(u.ID.Hex(), u.Email, utils.RoleUser, u.Fullname, u.Avatar)
}

// SignIn authenticates an existing user account.
func (s *DefaultUserService) SignIn(email, password string) (*AuthResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.Repo.GetByEmail(email)
	if err != nil {
		utils.GetLogger().Error("SignIn: failed to fetch user", zap.Error(err))
		return nil, fmt.Errorf("sign in failed, please try again")
	}
	if u == nil {
		return nil, fmt.Errorf("invalid email or password")
	}
	if u.Status == models.UserStatusBanned {
		return nil, fmt.Errorf("this account has been suspended")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	return s.issueToken(u.ID.Hex(), u.Email, utils.RoleUser, u.Fullname, u.Avatar)
}

// SignOut drops the token's auth-cache entry so it stops authenticating
// immediately, ahead of its JWT expiry.
func (s *DefaultUserService) SignOut(token string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	key := utils.AuthCachePrefix + utils.HashToken(token)
	if err := utils.GetAuthCacheClient().Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// AdminSignUp registers a management account. Unlike user signup it does
// not sign the new admin in.
func (s *DefaultUserService) AdminSignUp(email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return fmt.Errorf("email and password are required")
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	existing, err := s.Repo.GetAdminByEmail(email)
	if err != nil {
		utils.GetLogger().Error("AdminSignUp: failed to check existing email", zap.Error(err))
		return fmt.Errorf("sign up failed, please try again")
	}
	if existing != nil {
		return fmt.Errorf("an admin with this email already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		utils.GetLogger().Error("AdminSignUp: failed to hash password", zap.Error(err))
		return fmt.Errorf("sign up failed, please try again")
	}

	admin := models.Admin{
		Email:    email,
		Password: string(hashed),
	}
	if err := s.Repo.CreateAdmin(&admin); err != nil {
		utils.GetLogger().Error("AdminSignUp: failed to create admin", zap.Error(err))
		return fmt.Errorf("sign up failed, please try again")
	}
	return nil
}

// AdminSignIn authenticates a management account.
func (s *DefaultUserService) AdminSignIn(email, password string) (*AuthResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	admin, err := s.Repo.GetAdminByEmail(email)
	if err != nil {
		utils.GetLogger().Error("AdminSignIn: failed to fetch admin", zap.Error(err))
		return nil, fmt.Errorf("sign in failed, please try again")
	}
	if admin == nil {
		return nil, fmt.Errorf("invalid email or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)) != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	return s.issueToken(admin.ID.Hex(), admin.Email, utils.RoleAdmin, "", "")
}

// ChangePassword verifies the current password before replacing it.
func (s *DefaultUserService) ChangePassword(userID primitive.ObjectID, currentPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	u, err := s.Repo.GetByID(userID)
	if err != nil {
		return fmt.Errorf("failed to fetch user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(currentPassword)) != nil {
		return fmt.Errorf("current password is incorrect")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		utils.GetLogger().Error("ChangePassword: failed to hash password", zap.Error(err))
		return fmt.Errorf("failed to change password, please try again")
	}
	u.Password = string(hashed)
	if err := s.Repo.Update(u); err != nil {
		utils.GetLogger().Error("ChangePassword: failed to update user", zap.Error(err))
		return fmt.Errorf("failed to change password, please try again")
	}
	return nil
}

func (s *DefaultUserService) issueToken(subject, email, role, fullname, avatar string) (*AuthResponse, error) {
	token, err := utils.GenerateToken(subject, email, role, tokenTTL)
	if err != nil {
		utils.GetLogger().Error("issueToken: failed to generate token", zap.Error(err))
		return nil, fmt.Errorf("authentication failed, please try again")
	}
	if err := cacheToken(token, subject); err != nil {
		utils.GetLogger().Error("issueToken: failed to cache token", zap.Error(err))
		return nil, fmt.Errorf("authentication failed, please try again")
	}
	return &AuthResponse{
		ID:       subject,
		Token:    token,
		Fullname: fullname,
		Email:    email,
		Role:     role,
		Avatar:   avatar,
	}, nil
}
