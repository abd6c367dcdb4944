package renewal

import (
	"fmt"
	"strings"
	"time"

	renewalRepo "dormify/database/repository/renewal"
	studentRepo "dormify/database/repository/student"
	"dormify/models"
	"dormify/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Filter narrows the admin listing. Zero values mean no constraint; the
// search term matches the renewal code, the applicant's fullname, or their
// student id, case-insensitively.
type Filter struct {
	Status   string
	Search   string
	Building string
	Room     string
	Gender   string
}

type RenewalService interface {
	// Create files a renewal for the signed-in user's active tenancy.
	Create(userID primitive.ObjectID, month, year int, notes string) (*models.RenewalRequest, error)
	GetByID(id primitive.ObjectID) (*models.RenewalRequest, error)
	GetAll() ([]models.RenewalRequest, error)
	GetFiltered(f Filter) ([]models.RenewalRequest, error)
	// GetMine returns renewals across all of the user's tenancies.
	GetMine(userID primitive.ObjectID) ([]models.RenewalRequest, error)
	// SetStatus drives the admin review workflow. Approving extends the
	// tenancy to the end of the renewal period.
	SetStatus(id primitive.ObjectID, status string) error
	// Update edits the admin-managed fields. Nil leaves a field unchanged.
	Update(id primitive.ObjectID, notes, paymentMethod *string) error
	// Cancel lets the requester withdraw an unpaid renewal.
	Cancel(id, userID primitive.ObjectID) error
	Delete(id primitive.ObjectID) error
}

// DefaultRenewalService is the production implementation.
type DefaultRenewalService struct {
	Repo     renewalRepo.RenewalRepository
	StudRepo studentRepo.StudentRepository
}

func (s *DefaultRenewalService) Create(userID primitive.ObjectID, month, year int, notes string) (*models.RenewalRequest, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("invalid month %d", month)
	}
	if year < time.Now().Year() {
		return nil, fmt.Errorf("invalid year %d", year)
	}

	st, err := s.StudRepo.GetActiveByUser(userID)
	if err != nil {
		utils.GetLogger().Error("Create renewal: tenancy lookup failed", zap.Error(err))
		return nil, fmt.Errorf("renewal failed, please try again")
	}
	if st == nil {
		return nil, fmt.Errorf("you have no active tenancy to renew")
	}

	open, err := s.Repo.HasOpenByStudent(st.ID, month, year)
	if err != nil {
		utils.GetLogger().Error("Create renewal: open check failed", zap.Error(err))
		return nil, fmt.Errorf("renewal failed, please try again")
	}
	if open {
		return nil, fmt.Errorf("you already have a renewal in progress for this period")
	}

	code, err := utils.GenerateCode("RR", 5, s.Repo.CodeTaken)
	if err != nil {
		return nil, err
	}

	req := models.RenewalRequest{
		StudentID:     st.ID,
		Code:          code,
		Month:         month,
		Year:          year,
		Status:        models.RenewalStatusUnpaid,
		PaymentMethod: models.PaymentMethodNone,
		Notes:         notes,
	}
	if err := s.Repo.Create(&req); err != nil {
		utils.GetLogger().Error("Create renewal: insert failed", zap.Error(err))
		return nil, fmt.Errorf("renewal failed, please try again")
	}
	return &req, nil
}

func (s *DefaultRenewalService) GetByID(id primitive.ObjectID) (*models.RenewalRequest, error) {
	req, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("renewal not found")
	}
	return req, nil
}

func (s *DefaultRenewalService) GetAll() ([]models.RenewalRequest, error) {
	return s.Repo.GetAll()
}

// GetFiltered narrows the status query in the database and applies the
// search and tenancy filters over the populated documents.
func (s *DefaultRenewalService) GetFiltered(f Filter) ([]models.RenewalRequest, error) {
	var reqs []models.RenewalRequest
	var err error
	if f.Status != "" && f.Status != "all" {
		if !models.ValidRenewalStatus(f.Status) {
			return nil, fmt.Errorf("invalid renewal status %q", f.Status)
		}
		reqs, err = s.Repo.GetByStatus(f.Status)
	} else {
		reqs, err = s.Repo.GetAll()
	}
	if err != nil {
		return nil, err
	}

	out := make([]models.RenewalRequest, 0, len(reqs))
	for _, req := range reqs {
		if matchesFilter(&req, f) {
			out = append(out, req)
		}
	}
	return out, nil
}

func matchesFilter(req *models.RenewalRequest, f Filter) bool {
	var reg *models.Registration
	if req.Student != nil {
		reg = req.Student.Registration
	}
	var room *models.Room
	if reg != nil {
		room = reg.Room
	}

	if f.Search != "" {
		q := strings.ToLower(f.Search)
		hit := strings.Contains(strings.ToLower(req.Code), q)
		if reg != nil {
			hit = hit ||
				strings.Contains(strings.ToLower(reg.Fullname), q) ||
				strings.Contains(strings.ToLower(reg.StudentID), q)
		}
		if !hit {
			return false
		}
	}
	if f.Gender != "" && f.Gender != "all" {
		if reg == nil || reg.Gender != f.Gender {
			return false
		}
	}
	if f.Room != "" {
		if room == nil || !strings.EqualFold(room.Number, f.Room) {
			return false
		}
	}
	if f.Building != "" {
		if room == nil || room.Building == nil || !strings.EqualFold(room.Building.Name, f.Building) {
			return false
		}
	}
	return true
}

func (s *DefaultRenewalService) Update(id primitive.ObjectID, notes, paymentMethod *string) error {
	req, err := s.Repo.GetByID(id)
	if err != nil {
		return err
	}
	if req == nil {
		return fmt.Errorf("renewal not found")
	}
	if paymentMethod != nil {
		if !models.ValidPaymentMethod(*paymentMethod) {
			return fmt.Errorf("invalid payment method %q", *paymentMethod)
		}
		if err := s.Repo.SetPaymentMethod(id, *paymentMethod); err != nil {
			return err
		}
	}
	if notes != nil {
		if err := s.Repo.SetNotes(id, *notes); err != nil {
			return err
		}
	}
	return nil
}

func (s *DefaultRenewalService) GetMine(userID primitive.ObjectID) ([]models.RenewalRequest, error) {
	tenancies, err := s.StudRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	var out []models.RenewalRequest
	for _, st := range tenancies {
		reqs, err := s.Repo.GetByStudent(st.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, reqs...)
	}
	return out, nil
}

func (s *DefaultRenewalService) SetStatus(id primitive.ObjectID, status string) error {
	if !models.ValidRenewalStatus(status) {
		return fmt.Errorf("invalid renewal status %q", status)
	}
	req, err := s.Repo.GetByID(id)
	if err != nil {
		return err
	}
	if req == nil {
		return fmt.Errorf("renewal not found")
	}

	if status == models.RenewalStatusApproved {
		return s.approve(req)
	}
	return s.Repo.UpdateStatus(id, status)
}

// approve pushes the tenancy's end date out to the last day of the renewal
// period, then flips the request.
func (s *DefaultRenewalService) approve(req *models.RenewalRequest) error {
	if req.Status != models.RenewalStatusPending {
		return fmt.Errorf("only pending renewals can be approved")
	}

	// First day of the following month is the exclusive bound.
	end := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	if err := s.StudRepo.ExtendEndDate(req.StudentID, end); err != nil {
		utils.GetLogger().Error("approve renewal: extend failed", zap.Error(err))
		return fmt.Errorf("approval failed, please try again")
	}

	applied, err := s.Repo.TransitionStatus(req.ID, models.RenewalStatusPending, models.RenewalStatusApproved)
	if err != nil {
		return err
	}
	if !applied {
		return fmt.Errorf("renewal is no longer pending")
	}
	return nil
}

func (s *DefaultRenewalService) Cancel(id, userID primitive.ObjectID) error {
	req, err := s.Repo.GetByID(id)
	if err != nil {
		return err
	}
	if req == nil || req.Student == nil || req.Student.UserID != userID {
		return fmt.Errorf("renewal not found")
	}
	if req.Status != models.RenewalStatusUnpaid {
		return fmt.Errorf("only unpaid renewals can be canceled")
	}
	applied, err := s.Repo.TransitionStatus(id, models.RenewalStatusUnpaid, models.RenewalStatusCanceled)
	if err != nil {
		return err
	}
	if !applied {
		return fmt.Errorf("renewal is no longer unpaid")
	}
	return nil
}

func (s *DefaultRenewalService) Delete(id primitive.ObjectID) error {
	return s.Repo.Delete(id)
}
