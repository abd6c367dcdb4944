package student

import (
	"testing"
	"time"

	studentRepo "dormify/database/repository/student"
	"dormify/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubStudentRepo struct {
	studentRepo.StudentRepository
	st       *models.Student
	status   string
	extended time.Time
}

func (s *stubStudentRepo) GetByID(id primitive.ObjectID) (*models.Student, error) {
	if s.st == nil || s.st.ID != id {
		return nil, nil
	}
	copied := *s.st
	return &copied, nil
}

func (s *stubStudentRepo) UpdateStatus(id primitive.ObjectID, status string) error {
	s.status = status
	return nil
}

func (s *stubStudentRepo) ExtendEndDate(id primitive.ObjectID, endDate time.Time) error {
	s.extended = endDate
	return nil
}

func testStudent() *models.Student {
	return &models.Student{
		ID:        primitive.NewObjectID(),
		StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:    models.StudentStatusActive,
	}
}

func TestUpdateSetsStatusAndEndDate(t *testing.T) {
	repo := &stubStudentRepo{st: testStudent()}
	svc := &DefaultStudentService{Repo: repo}

	status := models.StudentStatusVacated
	endDate := time.Date(2027, 2, 1, 0, 0, 0, 0, time.UTC)
	if err := svc.Update(repo.st.ID, &status, &endDate); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if repo.status != models.StudentStatusVacated {
		t.Errorf("status = %q, want vacated", repo.status)
	}
	if !repo.extended.Equal(endDate) {
		t.Errorf("end date = %v, want %v", repo.extended, endDate)
	}
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	repo := &stubStudentRepo{st: testStudent()}
	svc := &DefaultStudentService{Repo: repo}

	status := "graduated"
	if err := svc.Update(repo.st.ID, &status, nil); err == nil {
		t.Fatal("expected an unknown-status rejection")
	}
	if repo.status != "" {
		t.Error("an invalid status must not be persisted")
	}
}

func TestUpdateRejectsEndDateBeforeStart(t *testing.T) {
	repo := &stubStudentRepo{st: testStudent()}
	svc := &DefaultStudentService{Repo: repo}

	endDate := repo.st.StartDate.AddDate(0, 0, -1)
	if err := svc.Update(repo.st.ID, nil, &endDate); err == nil {
		t.Fatal("expected an end-before-start rejection")
	}
	if !repo.extended.IsZero() {
		t.Error("an invalid end date must not be persisted")
	}
}

func TestUpdateUnknownStudent(t *testing.T) {
	svc := &DefaultStudentService{Repo: &stubStudentRepo{}}
	status := models.StudentStatusActive
	if err := svc.Update(primitive.NewObjectID(), &status, nil); err == nil {
		t.Fatal("expected a not-found rejection")
	}
}
