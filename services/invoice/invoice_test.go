package invoice

import (
	"testing"

	invoiceRepo "dormify/database/repository/invoice"
	roomRepo "dormify/database/repository/room"
	"dormify/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestInvoiceCode(t *testing.T) {
	room := &models.Room{
		Number:   "101",
		Building: &models.Building{Name: "A 1"},
	}
	tests := []struct {
		kind  string
		month int
		year  int
		want  string
	}{
		{models.UtilityElectric, 1, 2026, "ELA1101202601"},
		{models.UtilityWater, 12, 2026, "WAA1101202612"},
	}
	for _, tt := range tests {
		if got := invoiceCode(tt.kind, room, tt.month, tt.year); got != tt.want {
			t.Errorf("invoiceCode(%s, %d/%d) = %q, want %q", tt.kind, tt.month, tt.year, got, tt.want)
		}
	}
}

type stubInvoiceRepo struct {
	invoiceRepo.InvoiceRepository
	existing *models.UtilityInvoice
	period   bool
	created  *models.UtilityInvoice
}

func (s *stubInvoiceRepo) Create(inv *models.UtilityInvoice) error {
	s.created = inv
	return nil
}

func (s *stubInvoiceRepo) GetByID(id primitive.ObjectID) (*models.UtilityInvoice, error) {
	return s.existing, nil
}

func (s *stubInvoiceRepo) ExistsForPeriod(roomID primitive.ObjectID, month, year int) (bool, error) {
	return s.period, nil
}

func (s *stubInvoiceRepo) Update(inv *models.UtilityInvoice) error { return nil }

type stubRoomRepo struct {
	roomRepo.RoomRepository
	room *models.Room
}

func (s *stubRoomRepo) GetByID(id primitive.ObjectID) (*models.Room, error) {
	return s.room, nil
}

func newInvoiceService(repo *stubInvoiceRepo, room *models.Room) *DefaultInvoiceService {
	return &DefaultInvoiceService{
		Repos:    map[string]invoiceRepo.InvoiceRepository{models.UtilityElectric: repo},
		RoomRepo: &stubRoomRepo{room: room},
	}
}

func testInvoice(roomID primitive.ObjectID) *models.UtilityInvoice {
	return &models.UtilityInvoice{
		RoomID:    roomID,
		Month:     1,
		Year:      2026,
		OldIndex:  100,
		NewIndex:  150,
		UnitPrice: 3500,
	}
}

func TestCreateInvoice(t *testing.T) {
	room := &models.Room{ID: primitive.NewObjectID(), Number: "101", Building: &models.Building{Name: "A1"}}
	repo := &stubInvoiceRepo{}
	svc := newInvoiceService(repo, room)

	created, err := svc.Create(models.UtilityElectric, testInvoice(room.ID))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Status != models.InvoiceStatusUnpaid {
		t.Errorf("status = %q, want unpaid", created.Status)
	}
	if created.Code != "ELA1101202601" {
		t.Errorf("code = %q, want ELA1101202601", created.Code)
	}
	if created.Amount() != 175000 {
		t.Errorf("amount = %d, want 175000 (50 units at 3500)", created.Amount())
	}
}

func TestCreateInvoiceRejectsDuplicatePeriod(t *testing.T) {
	room := &models.Room{ID: primitive.NewObjectID(), Number: "101", Building: &models.Building{Name: "A1"}}
	repo := &stubInvoiceRepo{period: true}
	svc := newInvoiceService(repo, room)

	if _, err := svc.Create(models.UtilityElectric, testInvoice(room.ID)); err == nil {
		t.Fatal("expected a duplicate-period rejection")
	}
}

func TestCreateInvoiceRejectsNonIncreasingIndex(t *testing.T) {
	room := &models.Room{ID: primitive.NewObjectID(), Number: "101", Building: &models.Building{Name: "A1"}}

	// Equal readings would bill a zero amount, so they are rejected too.
	for _, newIndex := range []int64{99, 100} {
		repo := &stubInvoiceRepo{}
		svc := newInvoiceService(repo, room)

		inv := testInvoice(room.ID)
		inv.NewIndex = newIndex
		if _, err := svc.Create(models.UtilityElectric, inv); err == nil {
			t.Errorf("Create with newIndex=%d accepted, want rejection", newIndex)
		}
		if repo.created != nil {
			t.Errorf("newIndex=%d: invoice was persisted despite rejection", newIndex)
		}
	}
}

func TestUpdateRejectsNonIncreasingIndex(t *testing.T) {
	current := testInvoice(primitive.NewObjectID())
	current.ID = primitive.NewObjectID()
	current.Status = models.InvoiceStatusUnpaid
	svc := newInvoiceService(&stubInvoiceRepo{existing: current}, nil)

	edit := *current
	edit.NewIndex = edit.OldIndex
	if err := svc.Update(models.UtilityElectric, &edit); err == nil {
		t.Fatal("Update with newIndex == oldIndex accepted, want rejection")
	}
}

func TestCreateInvoiceUnknownKind(t *testing.T) {
	svc := newInvoiceService(&stubInvoiceRepo{}, nil)
	if _, err := svc.Create("gas", testInvoice(primitive.NewObjectID())); err == nil {
		t.Fatal("expected an unknown-kind rejection")
	}
}

func TestUpdateForbiddenOnPaid(t *testing.T) {
	paid := testInvoice(primitive.NewObjectID())
	paid.ID = primitive.NewObjectID()
	paid.Status = models.InvoiceStatusPaid
	repo := &stubInvoiceRepo{existing: paid}
	svc := newInvoiceService(repo, nil)

	edit := *paid
	edit.NewIndex = 200
	if err := svc.Update(models.UtilityElectric, &edit); err == nil {
		t.Fatal("editing a paid invoice must fail")
	}
}

func TestUpdatePreservesCodeAndStatus(t *testing.T) {
	current := testInvoice(primitive.NewObjectID())
	current.ID = primitive.NewObjectID()
	current.Code = "ELA1101202601"
	current.Status = models.InvoiceStatusUnpaid
	repo := &stubInvoiceRepo{existing: current}
	svc := newInvoiceService(repo, nil)

	edit := *current
	edit.Code = "tampered"
	edit.NewIndex = 160
	if err := svc.Update(models.UtilityElectric, &edit); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if edit.Code != "ELA1101202601" {
		t.Errorf("code = %q, the stored code must survive edits", edit.Code)
	}
	if edit.Status != models.InvoiceStatusUnpaid {
		t.Errorf("status = %q, the stored status must survive edits", edit.Status)
	}
}
