package user

import (
	"testing"

	userRepo "dormify/database/repository/user"
	"dormify/models"

	"golang.org/x/crypto/bcrypt"
)

func TestNextUserCode(t *testing.T) {
	tests := []struct {
		last string
		want string
	}{
		{"", "US001"},
		{"US001", "US002"},
		{"US099", "US100"},
		{"US999", "US1000"}, // width grows past three digits
		{"garbage", "US001"},
	}
	for _, tt := range tests {
		if got := nextUserCode(tt.last); got != tt.want {
			t.Errorf("nextUserCode(%q) = %q, want %q", tt.last, got, tt.want)
		}
	}
}

type stubUserRepo struct {
	userRepo.UserRepository
	admin   *models.Admin
	created *models.Admin
}

func (s *stubUserRepo) GetAdminByEmail(email string) (*models.Admin, error) {
	return s.admin, nil
}

func (s *stubUserRepo) CreateAdmin(admin *models.Admin) error {
	s.created = admin
	return nil
}

func TestAdminSignUp(t *testing.T) {
	repo := &stubUserRepo{}
	svc := &DefaultUserService{Repo: repo}

	if err := svc.AdminSignUp("Admin@Example.edu", "supersecret"); err != nil {
		t.Fatalf("AdminSignUp: %v", err)
	}
	if repo.created == nil {
		t.Fatal("no admin account was created")
	}
	if repo.created.Email != "admin@example.edu" {
		t.Errorf("email = %q, want lowercased admin@example.edu", repo.created.Email)
	}
	if bcrypt.CompareHashAndPassword([]byte(repo.created.Password), []byte("supersecret")) != nil {
		t.Error("stored password is not a bcrypt hash of the input")
	}
}

func TestAdminSignUpRejectsDuplicateEmail(t *testing.T) {
	repo := &stubUserRepo{admin: &models.Admin{Email: "admin@example.edu"}}
	svc := &DefaultUserService{Repo: repo}

	if err := svc.AdminSignUp("admin@example.edu", "supersecret"); err == nil {
		t.Fatal("expected a duplicate-email rejection")
	}
	if repo.created != nil {
		t.Error("a duplicate admin was created")
	}
}

func TestAdminSignUpRejectsShortPassword(t *testing.T) {
	svc := &DefaultUserService{Repo: &stubUserRepo{}}
	if err := svc.AdminSignUp("admin@example.edu", "short"); err == nil {
		t.Fatal("expected a short-password rejection")
	}
}
