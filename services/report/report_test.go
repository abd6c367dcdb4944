package report

import (
	"testing"
	"time"

	reportRepo "dormify/database/repository/report"
	"dormify/models"
)

type stubReportRepo struct {
	reportRepo.ReportRepository
	all []models.Report
}

func (s *stubReportRepo) GetAll() ([]models.Report, error) { return s.all, nil }

func statsReport(category, status, building string, created time.Time) models.Report {
	return models.Report{
		Category:  category,
		Status:    status,
		CreatedAt: created,
		Student: &models.Student{
			Registration: &models.Registration{
				Room: &models.Room{Building: &models.Building{Name: building}},
			},
		},
	}
}

func TestStatsCoversEveryCategory(t *testing.T) {
	jan := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	repo := &stubReportRepo{all: []models.Report{
		statsReport(models.ReportCategoryElectric, models.ReportStatusPending, "A1", jan),
		statsReport(models.ReportCategoryElectric, models.ReportStatusProcessed, "A1", jan),
		statsReport(models.ReportCategoryWater, models.ReportStatusPending, "B2", jan),
	}}
	svc := &DefaultReportService{Repo: repo}

	stats, err := svc.Stats(StatsFilter{})
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if len(stats.Categories) != len(models.ReportCategories) {
		t.Fatalf("category rows = %d, want %d", len(stats.Categories), len(models.ReportCategories))
	}
	counts := map[string]int{}
	for _, row := range stats.Categories {
		counts[row.Category] = row.Count
	}
	if counts[models.ReportCategoryElectric] != 2 || counts[models.ReportCategoryWater] != 1 {
		t.Errorf("counts = %v, want electric=2 water=1", counts)
	}
	if counts[models.ReportCategoryEquipment] != 0 || counts[models.ReportCategoryOther] != 0 {
		t.Error("empty categories must still appear with a zero count")
	}
	if stats.PendingCount != 2 {
		t.Errorf("pending = %d, want 2", stats.PendingCount)
	}
}

func TestStatsAppliesFilters(t *testing.T) {
	jan := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	repo := &stubReportRepo{all: []models.Report{
		statsReport(models.ReportCategoryElectric, models.ReportStatusPending, "A1", jan),
		statsReport(models.ReportCategoryWater, models.ReportStatusPending, "B2", jan),
		statsReport(models.ReportCategoryWater, models.ReportStatusProcessed, "A1", feb),
	}}
	svc := &DefaultReportService{Repo: repo}

	tests := []struct {
		name        string
		f           StatsFilter
		wantTotal   int
		wantPending int
	}{
		{"by building", StatsFilter{Building: "a1"}, 2, 1},
		{"by category", StatsFilter{Category: models.ReportCategoryWater}, 2, 1},
		{"by status", StatsFilter{Status: models.ReportStatusProcessed}, 1, 0},
		{"by month", StatsFilter{Month: 2, Year: 2026}, 1, 0},
		{"by year", StatsFilter{Year: 2026}, 3, 2},
		{"combined", StatsFilter{Building: "A1", Month: 1}, 1, 1},
	}
	for _, tt := range tests {
		stats, err := svc.Stats(tt.f)
		if err != nil {
			t.Fatalf("%s: Stats: %v", tt.name, err)
		}
		total := 0
		for _, row := range stats.Categories {
			total += row.Count
		}
		if total != tt.wantTotal {
			t.Errorf("%s: total = %d, want %d", tt.name, total, tt.wantTotal)
		}
		if stats.PendingCount != tt.wantPending {
			t.Errorf("%s: pending = %d, want %d", tt.name, stats.PendingCount, tt.wantPending)
		}
	}
}

func TestStatsRejectsUnknownFilterValues(t *testing.T) {
	svc := &DefaultReportService{Repo: &stubReportRepo{}}

	if _, err := svc.Stats(StatsFilter{Category: "plumbing"}); err == nil {
		t.Error("an unknown category must be rejected")
	}
	if _, err := svc.Stats(StatsFilter{Status: "bogus"}); err == nil {
		t.Error("an unknown status must be rejected")
	}
	if _, err := svc.Stats(StatsFilter{Month: 13}); err == nil {
		t.Error("month 13 must be rejected")
	}
}
