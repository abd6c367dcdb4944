package room

import (
	"testing"

	registrationRepo "dormify/database/repository/registration"
	roomRepo "dormify/database/repository/room"
	studentRepo "dormify/database/repository/student"
	"dormify/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The stubs embed the repository interfaces so only the methods the
// occupancy path touches need bodies; anything else panics loudly.

type stubRegRepo struct {
	registrationRepo.RegistrationRepository
	pending int64
	unpaid  int64
}

func (s *stubRegRepo) CountByRoomAndStatus(roomID primitive.ObjectID, status string) (int64, error) {
	switch status {
	case models.RegistrationStatusPending:
		return s.pending, nil
	case models.RegistrationStatusUnpaid:
		return s.unpaid, nil
	}
	return 0, nil
}

type stubStudRepo struct {
	studentRepo.StudentRepository
	active []models.Student
}

func (s *stubStudRepo) GetActiveByRooms(roomIDs []primitive.ObjectID) ([]models.Student, error) {
	return s.active, nil
}

type stubRoomRepo struct {
	roomRepo.RoomRepository
	room *models.Room
}

func (s *stubRoomRepo) GetByID(id primitive.ObjectID) (*models.Room, error) {
	return s.room, nil
}

func occupancyRoom(capacity int) *models.Room {
	return &models.Room{
		ID:     primitive.NewObjectID(),
		Number: "B204",
		Status: models.RoomStatusOpen,
		Building: &models.Building{
			ID:            primitive.NewObjectID(),
			Name:          "B2",
			PeoplePerRoom: capacity,
		},
	}
}

func TestOccupancyBreakdown(t *testing.T) {
	r := occupancyRoom(8)
	svc := &DefaultRoomService{
		Repo:     &stubRoomRepo{room: r},
		RegRepo:  &stubRegRepo{pending: 2, unpaid: 1},
		StudRepo: &stubStudRepo{active: make([]models.Student, 3)},
	}

	occ, err := svc.OccupancyFor(r.ID)
	if err != nil {
		t.Fatalf("OccupancyFor: %v", err)
	}
	if occ.Rented != 3 || occ.Registered != 2 || occ.Unpaid != 1 {
		t.Errorf("breakdown = rented %d / registered %d / unpaid %d, want 3/2/1",
			occ.Rented, occ.Registered, occ.Unpaid)
	}
	if occ.Total != 8 {
		t.Errorf("total = %d, want 8", occ.Total)
	}
	if occ.Empty != 2 {
		t.Errorf("empty = %d, want 2 (8 - 3 - 2 - 1)", occ.Empty)
	}
}

func TestOccupancyEmptyNeverNegative(t *testing.T) {
	r := occupancyRoom(4)
	svc := &DefaultRoomService{
		Repo:     &stubRoomRepo{room: r},
		RegRepo:  &stubRegRepo{pending: 3, unpaid: 2},
		StudRepo: &stubStudRepo{active: make([]models.Student, 4)},
	}

	occ, err := svc.OccupancyFor(r.ID)
	if err != nil {
		t.Fatalf("OccupancyFor: %v", err)
	}
	if occ.Empty != 0 {
		t.Errorf("empty = %d, want clamped to 0", occ.Empty)
	}
}

func TestGetByStatusRejectsUnknown(t *testing.T) {
	svc := &DefaultRoomService{}
	if _, err := svc.GetByStatus("flooded"); err == nil {
		t.Fatal("expected an error for an unknown status")
	}
}
