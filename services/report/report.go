package report

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	reportRepo "dormify/database/repository/report"
	studentRepo "dormify/database/repository/student"
	"dormify/models"
	"dormify/services/storage"
	"dormify/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// StatsFilter narrows the category statistics. Zero values mean no
// constraint; Building matches the building name, Month/Year the filing date.
type StatsFilter struct {
	Building string
	Category string
	Status   string
	Month    int
	Year     int
}

type ReportService interface {
	// Create files a maintenance report for the user's active tenancy.
	Create(userID primitive.ObjectID, rep *models.Report, image multipart.File) (*models.Report, error)
	GetByID(id primitive.ObjectID) (*models.Report, error)
	GetAll() ([]models.Report, error)
	GetMine(userID primitive.ObjectID) ([]models.Report, error)
	SetStatus(id primitive.ObjectID, status string) error
	// Cancel lets the reporter withdraw a still-pending report.
	Cancel(id, userID primitive.ObjectID) error
	// Stats counts the filtered reports per category (covering every known
	// category) along with how many of them are still pending.
	Stats(f StatsFilter) (*models.ReportStats, error)
	Delete(id primitive.ObjectID) error
}

// DefaultReportService is the production implementation.
type DefaultReportService struct {
	Repo     reportRepo.ReportRepository
	StudRepo studentRepo.StudentRepository
	Storage  storage.StorageService
}

func validCategory(c string) bool {
	for _, known := range models.ReportCategories {
		if c == known {
			return true
		}
	}
	return false
}

func validStatus(s string) bool {
	switch s {
	case models.ReportStatusPending, models.ReportStatusInProgress,
		models.ReportStatusProcessed, models.ReportStatusCanceled:
		return true
	}
	return false
}

func (s *DefaultReportService) Create(userID primitive.ObjectID, rep *models.Report, image multipart.File) (*models.Report, error) {
	rep.Title = strings.TrimSpace(rep.Title)
	if rep.Title == "" || strings.TrimSpace(rep.Description) == "" {
		return nil, fmt.Errorf("title and description are required")
	}
	if !validCategory(rep.Category) {
		return nil, fmt.Errorf("invalid report category %q", rep.Category)
	}

	st, err := s.StudRepo.GetActiveByUser(userID)
	if err != nil {
		utils.GetLogger().Error("Create report: tenancy lookup failed", zap.Error(err))
		return nil, fmt.Errorf("failed to file report, please try again")
	}
	if st == nil {
		return nil, fmt.Errorf("only active tenants can file reports")
	}

	if image != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		url, err := s.Storage.UploadImage(ctx, image, "reports")
		if err != nil {
			utils.GetLogger().Error("Create report: image upload failed", zap.Error(err))
			return nil, fmt.Errorf("failed to upload photo, please try again")
		}
		rep.Image = url
	}

	code, err := utils.GenerateCode("RP", 4, s.Repo.CodeTaken)
	if err != nil {
		return nil, err
	}

	rep.Code = code
	rep.StudentID = st.ID
	rep.Status = models.ReportStatusPending
	rep.CompletedAt = nil

	if err := s.Repo.Create(rep); err != nil {
		utils.GetLogger().Error("Create report: insert failed", zap.Error(err))
		return nil, fmt.Errorf("failed to file report, please try again")
	}
	return rep, nil
}

func (s *DefaultReportService) GetByID(id primitive.ObjectID) (*models.Report, error) {
	rep, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rep == nil {
		return nil, fmt.Errorf("report not found")
	}
	return rep, nil
}

func (s *DefaultReportService) GetAll() ([]models.Report, error) {
	return s.Repo.GetAll()
}

func (s *DefaultReportService) GetMine(userID primitive.ObjectID) ([]models.Report, error) {
	tenancies, err := s.StudRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	var out []models.Report
	for _, st := range tenancies {
		reps, err := s.Repo.GetByStudent(st.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, reps...)
	}
	return out, nil
}

func (s *DefaultReportService) SetStatus(id primitive.ObjectID, status string) error {
	if !validStatus(status) {
		return fmt.Errorf("invalid report status %q", status)
	}
	return s.Repo.UpdateStatus(id, status)
}

func (s *DefaultReportService) Cancel(id, userID primitive.ObjectID) error {
	rep, err := s.Repo.GetByID(id)
	if err != nil {
		return err
	}
	if rep == nil {
		return fmt.Errorf("report not found")
	}
	tenancies, err := s.StudRepo.GetByUser(userID)
	if err != nil {
		return err
	}
	mine := false
	for _, st := range tenancies {
		if st.ID == rep.StudentID {
			mine = true
			break
		}
	}
	if !mine {
		return fmt.Errorf("report not found")
	}
	if rep.Status != models.ReportStatusPending {
		return fmt.Errorf("only pending reports can be canceled")
	}
	return s.Repo.UpdateStatus(id, models.ReportStatusCanceled)
}

func (s *DefaultReportService) Stats(f StatsFilter) (*models.ReportStats, error) {
	if f.Category != "" && !validCategory(f.Category) {
		return nil, fmt.Errorf("invalid report category %q", f.Category)
	}
	if f.Status != "" && !validStatus(f.Status) {
		return nil, fmt.Errorf("invalid report status %q", f.Status)
	}
	if f.Month < 0 || f.Month > 12 {
		return nil, fmt.Errorf("invalid month %d", f.Month)
	}

	reports, err := s.Repo.GetAll()
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	pending := 0
	for _, rep := range reports {
		if !matchesStats(&rep, f) {
			continue
		}
		counts[rep.Category]++
		if rep.Status == models.ReportStatusPending {
			pending++
		}
	}

	stats := &models.ReportStats{PendingCount: pending}
	for _, c := range models.ReportCategories {
		stats.Categories = append(stats.Categories, models.ReportCategoryCount{Category: c, Count: counts[c]})
	}
	return stats, nil
}

func matchesStats(rep *models.Report, f StatsFilter) bool {
	if f.Category != "" && rep.Category != f.Category {
		return false
	}
	if f.Status != "" && rep.Status != f.Status {
		return false
	}
	if f.Month != 0 && int(rep.CreatedAt.Month()) != f.Month {
		return false
	}
	if f.Year != 0 && rep.CreatedAt.Year() != f.Year {
		return false
	}
	if f.Building != "" {
		building := ""
		if rep.Student != nil && rep.Student.Registration != nil &&
			rep.Student.Registration.Room != nil && rep.Student.Registration.Room.Building != nil {
			building = rep.Student.Registration.Room.Building.Name
		}
		if !strings.EqualFold(building, f.Building) {
			return false
		}
	}
	return true
}

func (s *DefaultReportService) Delete(id primitive.ObjectID) error {
	return s.Repo.Delete(id)
}
