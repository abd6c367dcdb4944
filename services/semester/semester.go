package semester

import (
	"fmt"
	"strings"

	semesterRepo "dormify/database/repository/semester"
	"dormify/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SemesterService interface {
	Create(sem *models.Semester) error
	GetByID(id primitive.ObjectID) (*models.Semester, error)
	GetAll() ([]models.Semester, error)
	GetCurrent() (*models.Semester, error)
	Update(sem *models.Semester) error
	Delete(id primitive.ObjectID) error
}

// DefaultSemesterService is the production implementation.
type DefaultSemesterService struct {
	Repo semesterRepo.SemesterRepository
}

func validate(sem *models.Semester) error {
	sem.Year = strings.TrimSpace(sem.Year)
	sem.Term = strings.TrimSpace(sem.Term)
	if sem.Year == "" || sem.Term == "" {
		return fmt.Errorf("year and term are required")
	}
	if !sem.EndDate.After(sem.StartDate) {
		return fmt.Errorf("end date must follow start date")
	}
	return nil
}

func (s *DefaultSemesterService) Create(sem *models.Semester) error {
	if err := validate(sem); err != nil {
		return err
	}
	return s.Repo.Create(sem)
}

func (s *DefaultSemesterService) GetByID(id primitive.ObjectID) (*models.Semester, error) {
	return s.Repo.GetByID(id)
}

func (s *DefaultSemesterService) GetAll() ([]models.Semester, error) {
	return s.Repo.GetAll()
}

func (s *DefaultSemesterService) GetCurrent() (*models.Semester, error) {
	sem, err := s.Repo.GetCurrent()
	if err != nil {
		return nil, err
	}
	if sem == nil {
		return nil, fmt.Errorf("no semester covers the current date")
	}
	return sem, nil
}

func (s *DefaultSemesterService) Update(sem *models.Semester) error {
	if err := validate(sem); err != nil {
		return err
	}
	return s.Repo.Update(sem)
}

func (s *DefaultSemesterService) Delete(id primitive.ObjectID) error {
	return s.Repo.Delete(id)
}
