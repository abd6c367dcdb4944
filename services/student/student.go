package student

import (
	"fmt"
	"time"

	studentRepo "dormify/database/repository/student"
	"dormify/models"
	"dormify/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type StudentService interface {
	GetByID(id primitive.ObjectID) (*models.Student, error)
	GetAll() ([]models.Student, error)
	// GetActiveByUser returns the user's current tenancy; nil when none.
	GetActiveByUser(userID primitive.ObjectID) (*models.Student, error)
	// History returns the user's stays, newest first.
	History(userID primitive.ObjectID) ([]models.RoomStay, error)
	// Roommates lists the other active tenants sharing the user's room.
	Roommates(userID primitive.ObjectID) ([]models.Roommate, error)
	// Update edits the admin-managed fields. Nil leaves a field unchanged.
	Update(id primitive.ObjectID, status *string, endDate *time.Time) error
	// Vacate ends a tenancy.
	Vacate(id primitive.ObjectID) error
	// VacateExpired flips active tenancies whose end date has passed and
	// returns how many were swept.
	VacateExpired() (int, error)
	Delete(id primitive.ObjectID) error
}

// DefaultStudentService is the production implementation.
type DefaultStudentService struct {
	Repo studentRepo.StudentRepository
}

func (s *DefaultStudentService) GetByID(id primitive.ObjectID) (*models.Student, error) {
	st, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, fmt.Errorf("student not found")
	}
	return st, nil
}

func (s *DefaultStudentService) GetAll() ([]models.Student, error) {
	return s.Repo.GetAll()
}

func (s *DefaultStudentService) GetActiveByUser(userID primitive.ObjectID) (*models.Student, error) {
	return s.Repo.GetActiveByUser(userID)
}

func (s *DefaultStudentService) History(userID primitive.ObjectID) ([]models.RoomStay, error) {
	tenancies, err := s.Repo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	stays := make([]models.RoomStay, 0, len(tenancies))
	for _, st := range tenancies {
		stay := models.RoomStay{
			StartDate: st.StartDate,
			EndDate:   st.EndDate,
			Status:    st.Status,
		}
		if st.Registration != nil && st.Registration.Room != nil {
			stay.RoomNumber = st.Registration.Room.Number
			if st.Registration.Room.Building != nil {
				stay.BuildingName = st.Registration.Room.Building.Name
			}
		}
		stays = append(stays, stay)
	}
	return stays, nil
}

func (s *DefaultStudentService) Roommates(userID primitive.ObjectID) ([]models.Roommate, error) {
	me, err := s.Repo.GetActiveByUser(userID)
	if err != nil {
		return nil, err
	}
	if me == nil || me.Registration == nil {
		return nil, fmt.Errorf("you have no active tenancy")
	}

	sharing, err := s.Repo.GetActiveByRooms([]primitive.ObjectID{me.Registration.RoomID})
	if err != nil {
		return nil, err
	}

	mates := make([]models.Roommate, 0, len(sharing))
	for _, st := range sharing {
		if st.ID == me.ID || st.Registration == nil {
			continue
		}
		mates = append(mates, models.Roommate{
			ID:        st.ID,
			Name:      st.Registration.Fullname,
			StudentID: st.Registration.StudentID,
			School:    st.Registration.School,
			Class:     st.Registration.Class,
			Course:    st.Registration.Course,
			StartDate: st.StartDate,
			EndDate:   st.EndDate,
		})
	}
	return mates, nil
}

func (s *DefaultStudentService) Update(id primitive.ObjectID, status *string, endDate *time.Time) error {
	st, err := s.Repo.GetByID(id)
	if err != nil {
		return err
	}
	if st == nil {
		return fmt.Errorf("student not found")
	}
	if status != nil {
		if *status != models.StudentStatusActive && *status != models.StudentStatusVacated {
			return fmt.Errorf("invalid student status %q", *status)
		}
		if err := s.Repo.UpdateStatus(id, *status); err != nil {
			return err
		}
	}
	if endDate != nil {
		if !endDate.After(st.StartDate) {
			return fmt.Errorf("end date must follow start date")
		}
		if err := s.Repo.ExtendEndDate(id, *endDate); err != nil {
			return err
		}
	}
	return nil
}

func (s *DefaultStudentService) Vacate(id primitive.ObjectID) error {
	return s.Repo.UpdateStatus(id, models.StudentStatusVacated)
}

func (s *DefaultStudentService) Delete(id primitive.ObjectID) error {
	return s.Repo.Delete(id)
}

func (s *DefaultStudentService) VacateExpired() (int, error) {
	expired, err := s.Repo.FindExpiredActive(time.Now())
	if err != nil {
		return 0, err
	}
	swept := 0
	for _, st := range expired {
		if err := s.Repo.UpdateStatus(st.ID, models.StudentStatusVacated); err != nil {
			utils.GetLogger().Error("VacateExpired: update failed",
				zap.String("student", st.ID.Hex()), zap.Error(err))
			continue
		}
		swept++
	}
	return swept, nil
}
