package registration

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	registrationRepo "dormify/database/repository/registration"
	roomRepo "dormify/database/repository/room"
	studentRepo "dormify/database/repository/student"
	"dormify/models"
	"dormify/services/storage"
	"dormify/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Detail messages shown to the applicant as the form moves through the
// workflow.
const (
	detailAwaitingPayment = "Your registration was received. Please complete the payment to submit it for review."
	detailAwaitingReview  = "Payment received. Your registration is awaiting review by the management board."
	detailApproved        = "Your registration has been approved. Welcome!"
	detailRejected        = "Your registration was rejected. Please contact the management board for details."
	detailCanceled        = "Your registration has been canceled."
	detailExpired         = "Your registration expired because payment was not completed in time."
	detailRefunded        = "Your registration payment has been refunded."
)

type RegistrationService interface {
	// Create files a new application for the signed-in user.
	Create(userID primitive.ObjectID, reg *models.Registration, image multipart.File) (*models.Registration, error)
	GetByID(id primitive.ObjectID) (*models.Registration, error)
	GetAll() ([]models.Registration, error)
	GetByUser(userID primitive.ObjectID) ([]models.Registration, error)
	LatestByUser(userID primitive.ObjectID) (*models.Registration, error)
	// SetStatus drives the admin review workflow. Approving mints the
	// Student tenancy; minting is idempotent under concurrent approvals.
	SetStatus(id primitive.ObjectID, status string) error
	// Cancel lets the applicant withdraw an unpaid application.
	Cancel(id, userID primitive.ObjectID) error
	Delete(id primitive.ObjectID) error
	// ExpireUnpaid cancels unpaid registrations older than ttl and returns
	// how many were swept.
	ExpireUnpaid(ttl time.Duration) (int, error)
}

// ReviewNotifier dispatches the mail announcing an admin review decision.
// Dispatch is best-effort; a queue outage never blocks the decision itself.
type ReviewNotifier interface {
	EnqueueReviewResult(regID primitive.ObjectID, status string) error
}

// DefaultRegistrationService is the production implementation.
type DefaultRegistrationService struct {
	Repo     registrationRepo.RegistrationRepository
	RoomRepo roomRepo.RoomRepository
	StudRepo studentRepo.StudentRepository
	Storage  storage.StorageService
	Notifier ReviewNotifier
}

func (s *DefaultRegistrationService) notifyReview(id primitive.ObjectID, status string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.EnqueueReviewResult(id, status); err != nil {
		utils.GetLogger().Error("failed to queue review-result mail",
			zap.String("registration", id.Hex()), zap.Error(err))
	}
}

func (s *DefaultRegistrationService) validate(reg *models.Registration) error {
	reg.Fullname = strings.TrimSpace(reg.Fullname)
	switch {
	case reg.Fullname == "":
		return fmt.Errorf("fullname is required")
	case reg.IdentityNumber == "":
		return fmt.Errorf("identity number is required")
	case reg.StudentID == "":
		return fmt.Errorf("student id is required")
	case reg.Phone == "":
		return fmt.Errorf("phone is required")
	case reg.RoomID.IsZero():
		return fmt.Errorf("room is required")
	case !reg.EndDate.After(reg.StartDate):
		return fmt.Errorf("end date must follow start date")
	}
	return nil
}

func (s *DefaultRegistrationService) Create(userID primitive.ObjectID, reg *models.Registration, image multipart.File) (*models.Registration, error) {
	if err := s.validate(reg); err != nil {
		return nil, err
	}

	open, err := s.Repo.HasNonTerminalByUser(userID)
	if err != nil {
		utils.GetLogger().Error("Create registration: open check failed", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}
	if open {
		return nil, fmt.Errorf("you already have a registration in progress")
	}

	room, err := s.RoomRepo.GetByID(reg.RoomID)
	if err != nil {
		return nil, fmt.Errorf("room not found")
	}
	if room.Status != models.RoomStatusOpen {
		return nil, fmt.Errorf("this room is not open for registration")
	}
	if room.Gender != "" && reg.Gender != "" && room.Gender != reg.Gender {
		return nil, fmt.Errorf("this room is reserved for %s students", room.Gender)
	}

	if err := s.checkCapacity(room); err != nil {
		return nil, err
	}

	if image != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		url, err := s.Storage.UploadImage(ctx, image, "registrations")
		if err != nil {
			utils.GetLogger().Error("Create registration: image upload failed", zap.Error(err))
			return nil, fmt.Errorf("failed to upload photo, please try again")
		}
		reg.Image = url
	}

	code, err := utils.GenerateCode("RQ", 5, s.Repo.CodeTaken)
	if err != nil {
		return nil, err
	}

	reg.UserID = userID
	reg.Code = code
	reg.Status = models.RegistrationStatusUnpaid
	reg.Detail = detailAwaitingPayment
	if reg.PaymentMethod == "" {
		reg.PaymentMethod = models.PaymentMethodNone
	}

	if err := s.Repo.Create(reg); err != nil {
		utils.GetLogger().Error("Create registration: insert failed", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}
	return reg, nil
}

// checkCapacity counts every slot-holding state against the building cap.
func (s *DefaultRegistrationService) checkCapacity(room *models.Room) error {
	if room.Building == nil {
		return fmt.Errorf("room has no building on record")
	}
	capacity := room.Building.PeoplePerRoom

	active, err := s.StudRepo.GetActiveByRooms([]primitive.ObjectID{room.ID})
	if err != nil {
		return fmt.Errorf("failed to count tenants: %w", err)
	}
	taken := len(active)
	for _, status := range []string{models.RegistrationStatusUnpaid, models.RegistrationStatusPending} {
		n, err := s.Repo.CountByRoomAndStatus(room.ID, status)
		if err != nil {
			return fmt.Errorf("failed to count registrations: %w", err)
		}
		taken += int(n)
	}
	if taken >= capacity {
		return fmt.Errorf("this room is full")
	}
	return nil
}

func (s *DefaultRegistrationService) GetByID(id primitive.ObjectID) (*models.Registration, error) {
	reg, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, fmt.Errorf("registration not found")
	}
	return reg, nil
}

func (s *DefaultRegistrationService) GetAll() ([]models.Registration, error) {
	return s.Repo.GetAll()
}

func (s *DefaultRegistrationService) GetByUser(userID primitive.ObjectID) ([]models.Registration, error) {
	return s.Repo.GetByUser(userID)
}

func (s *DefaultRegistrationService) LatestByUser(userID primitive.ObjectID) (*models.Registration, error) {
	return s.Repo.LatestByUser(userID)
}

func (s *DefaultRegistrationService) SetStatus(id primitive.ObjectID, status string) error {
	if !models.ValidRegistrationStatus(status) {
		return fmt.Errorf("invalid registration status %q", status)
	}
	reg, err := s.Repo.GetByID(id)
	if err != nil {
		return err
	}
	if reg == nil {
		return fmt.Errorf("registration not found")
	}

	switch status {
	case models.RegistrationStatusApproved:
		return s.approve(reg)
	case models.RegistrationStatusRejected:
		if err := s.Repo.UpdateStatus(id, status, detailRejected); err != nil {
			return err
		}
		s.notifyReview(id, status)
		return nil
	case models.RegistrationStatusCanceled:
		return s.Repo.UpdateStatus(id, status, detailCanceled)
	case models.RegistrationStatusRefunded:
		return s.Repo.UpdateStatus(id, status, detailRefunded)
	default:
		return s.Repo.UpdateStatus(id, status, "")
	}
}

// approve mints the Student tenancy and then flips the registration. The
// unique index on the student's registration field makes a second approval
// a no-op rather than a duplicate tenancy.
func (s *DefaultRegistrationService) approve(reg *models.Registration) error {
	if reg.Status != models.RegistrationStatusPending {
		return fmt.Errorf("only pending registrations can be approved")
	}

	st := models.Student{
		UserID:         reg.UserID,
		RegistrationID: reg.ID,
		StartDate:      reg.StartDate,
		EndDate:        reg.EndDate,
		Status:         models.StudentStatusActive,
	}
	if err := s.StudRepo.Create(&st); err != nil {
		if !studentRepo.IsDuplicateRegistration(err) {
			utils.GetLogger().Error("approve: failed to mint student", zap.Error(err))
			return fmt.Errorf("approval failed, please try again")
		}
	}

	applied, err := s.Repo.TransitionStatus(reg.ID, models.RegistrationStatusPending,
		models.RegistrationStatusApproved, detailApproved)
	if err != nil {
		return err
	}
	if !applied {
		return fmt.Errorf("registration is no longer pending")
	}
	s.notifyReview(reg.ID, models.RegistrationStatusApproved)
	return nil
}

func (s *DefaultRegistrationService) Cancel(id, userID primitive.ObjectID) error {
	reg, err := s.Repo.GetByID(id)
	if err != nil {
		return err
	}
	if reg == nil || reg.UserID != userID {
		return fmt.Errorf("registration not found")
	}
	if reg.Status != models.RegistrationStatusUnpaid {
		return fmt.Errorf("only unpaid registrations can be canceled")
	}
	applied, err := s.Repo.TransitionStatus(id, models.RegistrationStatusUnpaid,
		models.RegistrationStatusCanceled, detailCanceled)
	if err != nil {
		return err
	}
	if !applied {
		return fmt.Errorf("registration is no longer unpaid")
	}
	return nil
}

func (s *DefaultRegistrationService) Delete(id primitive.ObjectID) error {
	return s.Repo.Delete(id)
}

func (s *DefaultRegistrationService) ExpireUnpaid(ttl time.Duration) (int, error) {
	cutoff := time.Now().Add(-ttl)
	expired, err := s.Repo.FindExpiredUnpaid(cutoff)
	if err != nil {
		return 0, err
	}
	swept := 0
	for _, reg := range expired {
		applied, err := s.Repo.TransitionStatus(reg.ID, models.RegistrationStatusUnpaid,
			models.RegistrationStatusCanceled, detailExpired)
		if err != nil {
			utils.GetLogger().Error("ExpireUnpaid: transition failed",
				zap.String("registration", reg.ID.Hex()), zap.Error(err))
			continue
		}
		if applied {
			swept++
		}
	}
	return swept, nil
}
