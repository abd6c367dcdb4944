package renewal

import (
	"testing"
	"time"

	renewalRepo "dormify/database/repository/renewal"
	studentRepo "dormify/database/repository/student"
	"dormify/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubRenewalRepo struct {
	renewalRepo.RenewalRepository
	req         *models.RenewalRequest
	all         []models.RenewalRequest
	byStatus    []models.RenewalRequest
	notes       string
	method      string
	transitions int
}

func (s *stubRenewalRepo) GetByID(id primitive.ObjectID) (*models.RenewalRequest, error) {
	if s.req == nil || s.req.ID != id {
		return nil, nil
	}
	copied := *s.req
	return &copied, nil
}

func (s *stubRenewalRepo) GetAll() ([]models.RenewalRequest, error) { return s.all, nil }

func (s *stubRenewalRepo) GetByStatus(status string) ([]models.RenewalRequest, error) {
	return s.byStatus, nil
}

func (s *stubRenewalRepo) SetNotes(id primitive.ObjectID, notes string) error {
	s.notes = notes
	return nil
}

func (s *stubRenewalRepo) SetPaymentMethod(id primitive.ObjectID, method string) error {
	s.method = method
	return nil
}

func (s *stubRenewalRepo) TransitionStatus(id primitive.ObjectID, from, to string) (bool, error) {
	if s.req == nil || s.req.ID != id || s.req.Status != from {
		return false, nil
	}
	s.req.Status = to
	s.transitions++
	return true, nil
}

type stubStudRepo struct {
	studentRepo.StudentRepository
	extendedTo time.Time
	extends    int
}

func (s *stubStudRepo) ExtendEndDate(id primitive.ObjectID, endDate time.Time) error {
	s.extendedTo = endDate
	s.extends++
	return nil
}

func TestApproveExtendsTenancyToEndOfPeriod(t *testing.T) {
	req := &models.RenewalRequest{
		ID:        primitive.NewObjectID(),
		StudentID: primitive.NewObjectID(),
		Month:     12,
		Year:      2026,
		Status:    models.RenewalStatusPending,
	}
	repo := &stubRenewalRepo{req: req}
	stud := &stubStudRepo{}
	svc := &DefaultRenewalService{Repo: repo, StudRepo: stud}

	if err := svc.SetStatus(req.ID, models.RenewalStatusApproved); err != nil {
		t.Fatalf("SetStatus(approved): %v", err)
	}

	// December 2026 runs through the year boundary.
	want := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	if !stud.extendedTo.Equal(want) {
		t.Errorf("end date extended to %v, want %v", stud.extendedTo, want)
	}
	if req.Status != models.RenewalStatusApproved {
		t.Errorf("status = %q, want approved", req.Status)
	}
}

func TestApproveRequiresPending(t *testing.T) {
	req := &models.RenewalRequest{
		ID:     primitive.NewObjectID(),
		Status: models.RenewalStatusUnpaid,
	}
	stud := &stubStudRepo{}
	svc := &DefaultRenewalService{Repo: &stubRenewalRepo{req: req}, StudRepo: stud}

	if err := svc.SetStatus(req.ID, models.RenewalStatusApproved); err == nil {
		t.Fatal("approving an unpaid renewal must fail")
	}
	if stud.extends != 0 {
		t.Error("a rejected approval must not touch the tenancy end date")
	}
}

func TestCancelRequiresOwner(t *testing.T) {
	owner := primitive.NewObjectID()
	req := &models.RenewalRequest{
		ID:      primitive.NewObjectID(),
		Status:  models.RenewalStatusUnpaid,
		Student: &models.Student{UserID: owner},
	}
	repo := &stubRenewalRepo{req: req}
	svc := &DefaultRenewalService{Repo: repo, StudRepo: &stubStudRepo{}}

	if err := svc.Cancel(req.ID, primitive.NewObjectID()); err == nil {
		t.Error("a stranger must not cancel someone else's renewal")
	}
	if err := svc.Cancel(req.ID, owner); err != nil {
		t.Fatalf("owner cancel: %v", err)
	}
	if req.Status != models.RenewalStatusCanceled {
		t.Errorf("status = %q, want canceled", req.Status)
	}
}

func populatedRenewal(code, fullname, studentID, building, room, gender string) models.RenewalRequest {
	return models.RenewalRequest{
		ID:     primitive.NewObjectID(),
		Code:   code,
		Status: models.RenewalStatusPending,
		Student: &models.Student{
			Registration: &models.Registration{
				Fullname:  fullname,
				StudentID: studentID,
				Gender:    gender,
				Room: &models.Room{
					Number:   room,
					Building: &models.Building{Name: building},
				},
			},
		},
	}
}

func TestGetFilteredSearchesPopulatedTenancy(t *testing.T) {
	repo := &stubRenewalRepo{all: []models.RenewalRequest{
		populatedRenewal("RR11111", "Nguyen Van A", "B21DCCN001", "A1", "101", models.RoomGenderMale),
		populatedRenewal("RR22222", "Tran Thi B", "B21DCCN002", "B2", "202", models.RoomGenderFemale),
	}}
	svc := &DefaultRenewalService{Repo: repo}

	tests := []struct {
		name     string
		f        Filter
		wantCode string
		wantLen  int
	}{
		{"by code", Filter{Search: "rr111"}, "RR11111", 1},
		{"by fullname", Filter{Search: "tran thi"}, "RR22222", 1},
		{"by student id", Filter{Search: "b21dccn001"}, "RR11111", 1},
		{"by building", Filter{Building: "b2"}, "RR22222", 1},
		{"by room", Filter{Room: "101"}, "RR11111", 1},
		{"by gender", Filter{Gender: models.RoomGenderFemale}, "RR22222", 1},
		{"gender all", Filter{Gender: "all"}, "", 2},
		{"no match", Filter{Search: "nobody"}, "", 0},
		{"combined", Filter{Search: "rr", Building: "a1", Gender: models.RoomGenderMale}, "RR11111", 1},
	}
	for _, tt := range tests {
		got, err := svc.GetFiltered(tt.f)
		if err != nil {
			t.Fatalf("%s: GetFiltered: %v", tt.name, err)
		}
		if len(got) != tt.wantLen {
			t.Errorf("%s: %d results, want %d", tt.name, len(got), tt.wantLen)
			continue
		}
		if tt.wantLen == 1 && got[0].Code != tt.wantCode {
			t.Errorf("%s: code = %q, want %q", tt.name, got[0].Code, tt.wantCode)
		}
	}
}

func TestGetFilteredNarrowsStatusInRepo(t *testing.T) {
	pending := populatedRenewal("RR33333", "Nguyen Van C", "B21DCCN003", "A1", "103", models.RoomGenderMale)
	repo := &stubRenewalRepo{byStatus: []models.RenewalRequest{pending}}
	svc := &DefaultRenewalService{Repo: repo}

	got, err := svc.GetFiltered(Filter{Status: models.RenewalStatusPending})
	if err != nil {
		t.Fatalf("GetFiltered: %v", err)
	}
	if len(got) != 1 || got[0].Code != "RR33333" {
		t.Fatalf("results = %v, want the pending renewal", got)
	}

	if _, err := svc.GetFiltered(Filter{Status: "bogus"}); err == nil {
		t.Error("an unknown status must be rejected")
	}
}

func TestUpdateRecordsNotesAndPaymentMethod(t *testing.T) {
	req := &models.RenewalRequest{ID: primitive.NewObjectID(), Status: models.RenewalStatusPending}
	repo := &stubRenewalRepo{req: req}
	svc := &DefaultRenewalService{Repo: repo}

	notes := "paid at the front desk"
	method := models.PaymentMethodCash
	if err := svc.Update(req.ID, &notes, &method); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if repo.notes != notes {
		t.Errorf("notes = %q, want %q", repo.notes, notes)
	}
	if repo.method != models.PaymentMethodCash {
		t.Errorf("payment method = %q, want cash", repo.method)
	}
}

func TestUpdateRejectsUnknownPaymentMethod(t *testing.T) {
	req := &models.RenewalRequest{ID: primitive.NewObjectID(), Status: models.RenewalStatusPending}
	repo := &stubRenewalRepo{req: req}
	svc := &DefaultRenewalService{Repo: repo}

	method := "barter"
	if err := svc.Update(req.ID, nil, &method); err == nil {
		t.Fatal("expected an unknown-method rejection")
	}
	if repo.method != "" {
		t.Error("an invalid method must not be persisted")
	}
}

func TestCreateRejectsBadPeriod(t *testing.T) {
	svc := &DefaultRenewalService{}
	if _, err := svc.Create(primitive.NewObjectID(), 13, 2026, ""); err == nil {
		t.Error("month 13 must be rejected")
	}
	if _, err := svc.Create(primitive.NewObjectID(), 1, time.Now().Year()-1, ""); err == nil {
		t.Error("a past year must be rejected")
	}
}
