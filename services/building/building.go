package building

import (
	"fmt"
	"strings"

	buildingRepo "dormify/database/repository/building"
	"dormify/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BuildingService interface {
	Create(b *models.Building) error
	Update(b *models.Building) error
	Delete(id primitive.ObjectID) error
	GetByID(id primitive.ObjectID) (*models.Building, error)
	GetAll() ([]models.Building, error)
	// GetAllWithStats decorates each building with its active tenant count.
	GetAllWithStats() ([]models.BuildingWithStats, error)
}

// DefaultBuildingService is the production implementation.
type DefaultBuildingService struct {
	Repo buildingRepo.BuildingRepository
}

func (s *DefaultBuildingService) validate(b *models.Building) error {
	b.Name = strings.TrimSpace(b.Name)
	if b.Name == "" {
		return fmt.Errorf("building name is required")
	}
	if b.Area != models.BuildingAreaMale && b.Area != models.BuildingAreaFemale {
		return fmt.Errorf("invalid building area %q", b.Area)
	}
	if b.Rooms < 0 || b.PeoplePerRoom <= 0 {
		return fmt.Errorf("room counts must be positive")
	}
	return nil
}

func (s *DefaultBuildingService) Create(b *models.Building) error {
	if err := s.validate(b); err != nil {
		return err
	}
	taken, err := s.Repo.NameTaken(b.Name, primitive.NilObjectID)
	if err != nil {
		return fmt.Errorf("failed to check building name: %w", err)
	}
	if taken {
		return fmt.Errorf("a building named %q already exists", b.Name)
	}
	return s.Repo.Create(b)
}

func (s *DefaultBuildingService) Update(b *models.Building) error {
	if err := s.validate(b); err != nil {
		return err
	}
	taken, err := s.Repo.NameTaken(b.Name, b.ID)
	if err != nil {
		return fmt.Errorf("failed to check building name: %w", err)
	}
	if taken {
		return fmt.Errorf("a building named %q already exists", b.Name)
	}
	return s.Repo.Update(b)
}

func (s *DefaultBuildingService) Delete(id primitive.ObjectID) error {
	return s.Repo.Delete(id)
}

func (s *DefaultBuildingService) GetByID(id primitive.ObjectID) (*models.Building, error) {
	return s.Repo.GetByID(id)
}

func (s *DefaultBuildingService) GetAll() ([]models.Building, error) {
	return s.Repo.GetAll()
}

func (s *DefaultBuildingService) GetAllWithStats() ([]models.BuildingWithStats, error) {
	buildings, err := s.Repo.GetAll()
	if err != nil {
		return nil, err
	}
	counts, err := s.Repo.ActiveStudentCounts()
	if err != nil {
		return nil, err
	}
	stats := make([]models.BuildingWithStats, 0, len(buildings))
	for _, b := range buildings {
		stats = append(stats, models.BuildingWithStats{
			Building:       b,
			RentedStudents: counts[b.ID],
		})
	}
	return stats, nil
}
