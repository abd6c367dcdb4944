package room

import (
	"fmt"
	"strings"

	registrationRepo "dormify/database/repository/registration"
	roomRepo "dormify/database/repository/room"
	studentRepo "dormify/database/repository/student"
	"dormify/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RoomService interface {
	Create(r *models.Room) error
	Update(r *models.Room) error
	Delete(id primitive.ObjectID) error
	GetByID(id primitive.ObjectID) (*models.Room, error)
	GetAll() ([]models.Room, error)
	GetByStatus(status string) ([]models.Room, error)
	// GetOccupancy returns every room decorated with its occupancy breakdown.
	GetOccupancy() ([]models.RoomOccupancy, error)
	// OccupancyFor computes the breakdown for a single room.
	OccupancyFor(id primitive.ObjectID) (*models.RoomOccupancy, error)
}

// DefaultRoomService is the production implementation.
type DefaultRoomService struct {
	Repo     roomRepo.RoomRepository
	RegRepo  registrationRepo.RegistrationRepository
	StudRepo studentRepo.StudentRepository
}

func validStatus(s string) bool {
	switch s {
	case models.RoomStatusOpen, models.RoomStatusClosed, models.RoomStatusDamaged:
		return true
	}
	return false
}

func (s *DefaultRoomService) validate(r *models.Room) error {
	r.Number = strings.TrimSpace(r.Number)
	if r.Number == "" {
		return fmt.Errorf("room number is required")
	}
	if r.BuildingID.IsZero() {
		return fmt.Errorf("building is required")
	}
	if r.Price < 0 {
		return fmt.Errorf("price cannot be negative")
	}
	if !validStatus(r.Status) {
		return fmt.Errorf("invalid room status %q", r.Status)
	}
	return nil
}

func (s *DefaultRoomService) Create(r *models.Room) error {
	if err := s.validate(r); err != nil {
		return err
	}
	taken, err := s.Repo.NumberTaken(r.BuildingID, r.Number, primitive.NilObjectID)
	if err != nil {
		return fmt.Errorf("failed to check room number: %w", err)
	}
	if taken {
		return fmt.Errorf("room %s already exists in this building", r.Number)
	}
	return s.Repo.Create(r)
}

func (s *DefaultRoomService) Update(r *models.Room) error {
	if err := s.validate(r); err != nil {
		return err
	}
	taken, err := s.Repo.NumberTaken(r.BuildingID, r.Number, r.ID)
	if err != nil {
		return fmt.Errorf("failed to check room number: %w", err)
	}
	if taken {
		return fmt.Errorf("room %s already exists in this building", r.Number)
	}
	return s.Repo.Update(r)
}

func (s *DefaultRoomService) Delete(id primitive.ObjectID) error {
	return s.Repo.Delete(id)
}

func (s *DefaultRoomService) GetByID(id primitive.ObjectID) (*models.Room, error) {
	return s.Repo.GetByID(id)
}

func (s *DefaultRoomService) GetAll() ([]models.Room, error) {
	return s.Repo.GetAll()
}

func (s *DefaultRoomService) GetByStatus(status string) ([]models.Room, error) {
	if !validStatus(status) {
		return nil, fmt.Errorf("invalid room status %q", status)
	}
	return s.Repo.GetByStatus(status)
}

// GetOccupancy counts active tenants plus pipeline registrations against
// each room's capacity. Unpaid and pending registrations hold a slot so a
// room cannot be oversold while payments are in flight.
func (s *DefaultRoomService) GetOccupancy() ([]models.RoomOccupancy, error) {
	rooms, err := s.Repo.GetAll()
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, len(rooms))
	for i, r := range rooms {
		ids[i] = r.ID
	}
	active, err := s.StudRepo.GetActiveByRooms(ids)
	if err != nil {
		return nil, err
	}
	rented := make(map[primitive.ObjectID]int)
	for _, st := range active {
		if st.Registration != nil {
			rented[st.Registration.RoomID]++
		}
	}

	out := make([]models.RoomOccupancy, 0, len(rooms))
	for _, r := range rooms {
		occ, err := s.breakdown(r, rented[r.ID])
		if err != nil {
			return nil, err
		}
		out = append(out, *occ)
	}
	return out, nil
}

func (s *DefaultRoomService) OccupancyFor(id primitive.ObjectID) (*models.RoomOccupancy, error) {
	r, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	active, err := s.StudRepo.GetActiveByRooms([]primitive.ObjectID{id})
	if err != nil {
		return nil, err
	}
	return s.breakdown(*r, len(active))
}

func (s *DefaultRoomService) breakdown(r models.Room, rented int) (*models.RoomOccupancy, error) {
	pending, err := s.RegRepo.CountByRoomAndStatus(r.ID, models.RegistrationStatusPending)
	if err != nil {
		return nil, err
	}
	unpaid, err := s.RegRepo.CountByRoomAndStatus(r.ID, models.RegistrationStatusUnpaid)
	if err != nil {
		return nil, err
	}
	total := 0
	if r.Building != nil {
		total = r.Building.PeoplePerRoom
	}
	empty := total - rented - int(pending) - int(unpaid)
	if empty < 0 {
		empty = 0
	}
	return &models.RoomOccupancy{
		Room:       r,
		Rented:     rented,
		Registered: int(pending),
		Unpaid:     int(unpaid),
		Empty:      empty,
		Total:      total,
	}, nil
}
