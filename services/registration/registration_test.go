package registration

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"dormify/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// fakeRegRepo is an in-memory RegistrationRepository sufficient for the
// workflow paths under test.
type fakeRegRepo struct {
	mu   sync.Mutex
	regs map[primitive.ObjectID]*models.Registration

	pendingByRoom int64
	unpaidByRoom  int64
}

func newFakeRegRepo() *fakeRegRepo {
	return &fakeRegRepo{regs: map[primitive.ObjectID]*models.Registration{}}
}

func (f *fakeRegRepo) put(reg *models.Registration) *models.Registration {
	if reg.ID.IsZero() {
		reg.ID = primitive.NewObjectID()
	}
	f.regs[reg.ID] = reg
	return reg
}

func (f *fakeRegRepo) Create(reg *models.Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.put(reg)
	return nil
}

func (f *fakeRegRepo) GetByID(id primitive.ObjectID) (*models.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reg, ok := f.regs[id]
	if !ok {
		return nil, nil
	}
	copied := *reg
	return &copied, nil
}

func (f *fakeRegRepo) GetAll() ([]models.Registration, error) { return nil, nil }

func (f *fakeRegRepo) GetByUser(userID primitive.ObjectID) ([]models.Registration, error) {
	return nil, nil
}

func (f *fakeRegRepo) LatestByUser(userID primitive.ObjectID) (*models.Registration, error) {
	return nil, nil
}

func (f *fakeRegRepo) HasAnyByUser(userID primitive.ObjectID) (bool, error) { return false, nil }

func (f *fakeRegRepo) HasNonTerminalByUser(userID primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, reg := range f.regs {
		if reg.UserID == userID && reg.NonTerminal() {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRegRepo) CountByRoomAndStatus(roomID primitive.ObjectID, status string) (int64, error) {
	switch status {
	case models.RegistrationStatusPending:
		return f.pendingByRoom, nil
	case models.RegistrationStatusUnpaid:
		return f.unpaidByRoom, nil
	}
	return 0, nil
}

func (f *fakeRegRepo) CodeTaken(code string) (bool, error) { return false, nil }

func (f *fakeRegRepo) Update(reg *models.Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.regs[reg.ID] = reg
	return nil
}

func (f *fakeRegRepo) UpdateStatus(id primitive.ObjectID, status, detail string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if reg, ok := f.regs[id]; ok {
		reg.Status = status
		if detail != "" {
			reg.Detail = detail
		}
	}
	return nil
}

func (f *fakeRegRepo) TransitionStatus(id primitive.ObjectID, from, to, detail string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reg, ok := f.regs[id]
	if !ok || reg.Status != from {
		return false, nil
	}
	reg.Status = to
	if detail != "" {
		reg.Detail = detail
	}
	return true, nil
}

func (f *fakeRegRepo) SetUser(id, userID primitive.ObjectID) error { return nil }

func (f *fakeRegRepo) UpdateDetail(id primitive.ObjectID, detail string) error { return nil }

func (f *fakeRegRepo) Delete(id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.regs, id)
	return nil
}

func (f *fakeRegRepo) FindExpiredUnpaid(cutoff time.Time) ([]models.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Registration
	for _, reg := range f.regs {
		if reg.Status == models.RegistrationStatusUnpaid && !reg.CreatedAt.After(cutoff) {
			out = append(out, *reg)
		}
	}
	return out, nil
}

// fakeStudRepo enforces the one-tenancy-per-registration unique index the
// way Mongo does: by failing the second insert.
type fakeStudRepo struct {
	mu       sync.Mutex
	students map[primitive.ObjectID]*models.Student // keyed by registration
	active   []models.Student
}

func newFakeStudRepo() *fakeStudRepo {
	return &fakeStudRepo{students: map[primitive.ObjectID]*models.Student{}}
}

func dupKeyErr() error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
}

func (f *fakeStudRepo) Create(s *models.Student) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.students[s.RegistrationID]; exists {
		return dupKeyErr()
	}
	s.ID = primitive.NewObjectID()
	f.students[s.RegistrationID] = s
	return nil
}

func (f *fakeStudRepo) GetByID(id primitive.ObjectID) (*models.Student, error) { return nil, nil }
func (f *fakeStudRepo) GetAll() ([]models.Student, error)                      { return nil, nil }
func (f *fakeStudRepo) GetByUser(userID primitive.ObjectID) ([]models.Student, error) {
	return nil, nil
}
func (f *fakeStudRepo) GetActiveByUser(userID primitive.ObjectID) (*models.Student, error) {
	return nil, nil
}
func (f *fakeStudRepo) GetByRegistration(regID primitive.ObjectID) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.students[regID], nil
}
func (f *fakeStudRepo) GetActiveByRooms(roomIDs []primitive.ObjectID) ([]models.Student, error) {
	return f.active, nil
}
func (f *fakeStudRepo) UpdateStatus(id primitive.ObjectID, status string) error { return nil }
func (f *fakeStudRepo) ExtendEndDate(id primitive.ObjectID, endDate time.Time) error {
	return nil
}
func (f *fakeStudRepo) FindExpiredActive(cutoff time.Time) ([]models.Student, error) {
	return nil, nil
}
func (f *fakeStudRepo) Delete(id primitive.ObjectID) error { return nil }

// fakeRoomRepo serves a single room.
type fakeRoomRepo struct {
	room *models.Room
}

func (f *fakeRoomRepo) Create(room *models.Room) error          { return nil }
func (f *fakeRoomRepo) Update(room *models.Room) error          { return nil }
func (f *fakeRoomRepo) Delete(id primitive.ObjectID) error      { return nil }
func (f *fakeRoomRepo) GetAll() ([]models.Room, error)          { return nil, nil }
func (f *fakeRoomRepo) GetByStatus(s string) ([]models.Room, error) { return nil, nil }
func (f *fakeRoomRepo) GetByID(id primitive.ObjectID) (*models.Room, error) {
	return f.room, nil
}
func (f *fakeRoomRepo) NumberTaken(buildingID primitive.ObjectID, number string, excludeID primitive.ObjectID) (bool, error) {
	return false, nil
}

func testRoom(capacity int) *models.Room {
	return &models.Room{
		ID:     primitive.NewObjectID(),
		Number: "A101",
		Price:  350000,
		Gender: models.RoomGenderMale,
		Status: models.RoomStatusOpen,
		Building: &models.Building{
			ID:            primitive.NewObjectID(),
			Name:          "A1",
			PeoplePerRoom: capacity,
		},
	}
}

func testService(regRepo *fakeRegRepo, studRepo *fakeStudRepo, room *models.Room) *DefaultRegistrationService {
	return &DefaultRegistrationService{
		Repo:     regRepo,
		RoomRepo: &fakeRoomRepo{room: room},
		StudRepo: studRepo,
	}
}

func validForm(roomID primitive.ObjectID) *models.Registration {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	return &models.Registration{
		RoomID:         roomID,
		Fullname:       "Nguyen Van A",
		Gender:         models.RoomGenderMale,
		IdentityNumber: "0123456789",
		StudentID:      "B21DCCN001",
		Phone:          "0900000000",
		Email:          "a@example.edu",
		StartDate:      start,
		EndDate:        start.AddDate(0, 4, 0),
	}
}

func TestCreateRegistration(t *testing.T) {
	regRepo := newFakeRegRepo()
	room := testRoom(4)
	svc := testService(regRepo, newFakeStudRepo(), room)

	created, err := svc.Create(primitive.NewObjectID(), validForm(room.ID), nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Status != models.RegistrationStatusUnpaid {
		t.Errorf("status = %q, want unpaid", created.Status)
	}
	if !strings.HasPrefix(created.Code, "RQ") || len(created.Code) != 7 {
		t.Errorf("code = %q, want RQ + 5 digits", created.Code)
	}
	if created.PaymentMethod != models.PaymentMethodNone {
		t.Errorf("payment method = %q, want %q", created.PaymentMethod, models.PaymentMethodNone)
	}
}

func TestCreateRejectsSecondOpenRegistration(t *testing.T) {
	regRepo := newFakeRegRepo()
	room := testRoom(4)
	svc := testService(regRepo, newFakeStudRepo(), room)
	userID := primitive.NewObjectID()

	if _, err := svc.Create(userID, validForm(room.ID), nil); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if _, err := svc.Create(userID, validForm(room.ID), nil); err == nil {
		t.Fatal("expected rejection of a second in-progress registration")
	}
}

func TestCreateRejectsFullRoom(t *testing.T) {
	regRepo := newFakeRegRepo()
	regRepo.pendingByRoom = 1
	regRepo.unpaidByRoom = 1
	studRepo := newFakeStudRepo()
	studRepo.active = make([]models.Student, 2) // 2 tenants + 2 in the pipeline
	room := testRoom(4)
	svc := testService(regRepo, studRepo, room)

	if _, err := svc.Create(primitive.NewObjectID(), validForm(room.ID), nil); err == nil {
		t.Fatal("expected a full-room rejection")
	}
}

func TestCreateRejectsGenderMismatch(t *testing.T) {
	regRepo := newFakeRegRepo()
	room := testRoom(4)
	svc := testService(regRepo, newFakeStudRepo(), room)

	form := validForm(room.ID)
	form.Gender = models.RoomGenderFemale
	if _, err := svc.Create(primitive.NewObjectID(), form, nil); err == nil {
		t.Fatal("expected a gender-mismatch rejection")
	}
}

func TestCreateRejectsClosedRoom(t *testing.T) {
	regRepo := newFakeRegRepo()
	room := testRoom(4)
	room.Status = models.RoomStatusClosed
	svc := testService(regRepo, newFakeStudRepo(), room)

	if _, err := svc.Create(primitive.NewObjectID(), validForm(room.ID), nil); err == nil {
		t.Fatal("expected a closed-room rejection")
	}
}

func TestApproveMintsStudent(t *testing.T) {
	regRepo := newFakeRegRepo()
	studRepo := newFakeStudRepo()
	room := testRoom(4)
	svc := testService(regRepo, studRepo, room)

	reg := regRepo.put(&models.Registration{
		UserID:    primitive.NewObjectID(),
		RoomID:    room.ID,
		Status:    models.RegistrationStatusPending,
		StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
	})

	if err := svc.SetStatus(reg.ID, models.RegistrationStatusApproved); err != nil {
		t.Fatalf("SetStatus(approved): %v", err)
	}

	st, _ := studRepo.GetByRegistration(reg.ID)
	if st == nil {
		t.Fatal("approval did not mint a student")
	}
	if st.Status != models.StudentStatusActive {
		t.Errorf("student status = %q, want active", st.Status)
	}
	got, _ := regRepo.GetByID(reg.ID)
	if got.Status != models.RegistrationStatusApproved {
		t.Errorf("registration status = %q, want approved", got.Status)
	}
}

func TestDoubleApprovalMintsOneStudent(t *testing.T) {
	regRepo := newFakeRegRepo()
	studRepo := newFakeStudRepo()
	room := testRoom(4)
	svc := testService(regRepo, studRepo, room)

	reg := regRepo.put(&models.Registration{
		UserID: primitive.NewObjectID(),
		RoomID: room.ID,
		Status: models.RegistrationStatusPending,
	})

	if err := svc.SetStatus(reg.ID, models.RegistrationStatusApproved); err != nil {
		t.Fatalf("first approval: %v", err)
	}
	// The second admin clicks approve a moment later.
	if err := svc.SetStatus(reg.ID, models.RegistrationStatusApproved); err == nil {
		t.Error("second approval should report the registration is no longer pending")
	}
	if n := len(studRepo.students); n != 1 {
		t.Fatalf("students minted = %d, want 1", n)
	}
}

// fakeReviewNotifier records review-result dispatches.
type fakeReviewNotifier struct {
	calls []string // "<regID>:<status>"
	err   error
}

func (f *fakeReviewNotifier) EnqueueReviewResult(regID primitive.ObjectID, status string) error {
	f.calls = append(f.calls, regID.Hex()+":"+status)
	return f.err
}

func TestReviewDecisionDispatchesMail(t *testing.T) {
	for _, status := range []string{models.RegistrationStatusApproved, models.RegistrationStatusRejected} {
		regRepo := newFakeRegRepo()
		room := testRoom(4)
		svc := testService(regRepo, newFakeStudRepo(), room)
		notifier := &fakeReviewNotifier{}
		svc.Notifier = notifier

		reg := regRepo.put(&models.Registration{
			UserID: primitive.NewObjectID(),
			RoomID: room.ID,
			Status: models.RegistrationStatusPending,
		})

		if err := svc.SetStatus(reg.ID, status); err != nil {
			t.Fatalf("SetStatus(%s): %v", status, err)
		}
		want := reg.ID.Hex() + ":" + status
		if len(notifier.calls) != 1 || notifier.calls[0] != want {
			t.Errorf("%s: notifier calls = %v, want [%s]", status, notifier.calls, want)
		}
	}
}

func TestReviewMailFailureDoesNotBlockDecision(t *testing.T) {
	regRepo := newFakeRegRepo()
	room := testRoom(4)
	svc := testService(regRepo, newFakeStudRepo(), room)
	svc.Notifier = &fakeReviewNotifier{err: fmt.Errorf("queue down")}

	reg := regRepo.put(&models.Registration{
		UserID: primitive.NewObjectID(),
		RoomID: room.ID,
		Status: models.RegistrationStatusPending,
	})

	if err := svc.SetStatus(reg.ID, models.RegistrationStatusApproved); err != nil {
		t.Fatalf("SetStatus(approved): %v", err)
	}
	got, _ := regRepo.GetByID(reg.ID)
	if got.Status != models.RegistrationStatusApproved {
		t.Errorf("status = %q, want approved despite the mail failure", got.Status)
	}
}

func TestApproveRequiresPending(t *testing.T) {
	regRepo := newFakeRegRepo()
	room := testRoom(4)
	svc := testService(regRepo, newFakeStudRepo(), room)

	reg := regRepo.put(&models.Registration{
		UserID: primitive.NewObjectID(),
		RoomID: room.ID,
		Status: models.RegistrationStatusUnpaid,
	})
	if err := svc.SetStatus(reg.ID, models.RegistrationStatusApproved); err == nil {
		t.Fatal("approving an unpaid registration must fail")
	}
}

func TestCancelOnlyUnpaidByOwner(t *testing.T) {
	regRepo := newFakeRegRepo()
	room := testRoom(4)
	svc := testService(regRepo, newFakeStudRepo(), room)
	owner := primitive.NewObjectID()

	reg := regRepo.put(&models.Registration{
		UserID: owner,
		RoomID: room.ID,
		Status: models.RegistrationStatusUnpaid,
	})

	if err := svc.Cancel(reg.ID, primitive.NewObjectID()); err == nil {
		t.Error("a stranger must not cancel someone else's registration")
	}
	if err := svc.Cancel(reg.ID, owner); err != nil {
		t.Fatalf("owner cancel: %v", err)
	}
	got, _ := regRepo.GetByID(reg.ID)
	if got.Status != models.RegistrationStatusCanceled {
		t.Errorf("status = %q, want canceled", got.Status)
	}

	// Once canceled it cannot be canceled again.
	if err := svc.Cancel(reg.ID, owner); err == nil {
		t.Error("canceling a terminal registration must fail")
	}
}

func TestExpireUnpaidSweep(t *testing.T) {
	regRepo := newFakeRegRepo()
	room := testRoom(4)
	svc := testService(regRepo, newFakeStudRepo(), room)

	old := regRepo.put(&models.Registration{
		UserID:    primitive.NewObjectID(),
		RoomID:    room.ID,
		Status:    models.RegistrationStatusUnpaid,
		CreatedAt: time.Now().Add(-48 * time.Hour),
	})
	fresh := regRepo.put(&models.Registration{
		UserID:    primitive.NewObjectID(),
		RoomID:    room.ID,
		Status:    models.RegistrationStatusUnpaid,
		CreatedAt: time.Now(),
	})

	swept, err := svc.ExpireUnpaid(24 * time.Hour)
	if err != nil {
		t.Fatalf("ExpireUnpaid: %v", err)
	}
	if swept != 1 {
		t.Fatalf("swept = %d, want 1", swept)
	}
	gotOld, _ := regRepo.GetByID(old.ID)
	if gotOld.Status != models.RegistrationStatusCanceled {
		t.Errorf("old registration status = %q, want canceled", gotOld.Status)
	}
	gotFresh, _ := regRepo.GetByID(fresh.ID)
	if gotFresh.Status != models.RegistrationStatusUnpaid {
		t.Errorf("fresh registration status = %q, want unpaid", gotFresh.Status)
	}
}
