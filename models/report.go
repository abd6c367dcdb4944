package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Maintenance report statuses.
const (
	ReportStatusPending    = "pending"
	ReportStatusInProgress = "in_progress"
	ReportStatusProcessed  = "processed"
	ReportStatusCanceled   = "canceled"
)

// Maintenance report categories.
const (
	ReportCategoryEquipment = "equipment"
	ReportCategoryElectric  = "electric"
	ReportCategoryWater     = "water"
	ReportCategoryOther     = "other"
)

// ReportCategories lists every category, in stats display order.
var ReportCategories = []string{
	ReportCategoryEquipment,
	ReportCategoryElectric,
	ReportCategoryWater,
	ReportCategoryOther,
}

// Report is a maintenance issue filed by an active student.
type Report struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code        string             `bson:"reportId" json:"code"` // RP####
	StudentID   primitive.ObjectID `bson:"student" json:"studentId"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Category    string             `bson:"category" json:"category"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	Status      string             `bson:"status" json:"status"`
	CompletedAt *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`

	Student *Student `bson:"studentDoc,omitempty" json:"student,omitempty"`
}

// ReportCategoryCount is one row of the category statistics endpoint.
type ReportCategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// ReportStats is the category statistics response: one row per known
// category plus the number of still-pending reports in the filtered set.
type ReportStats struct {
	Categories   []ReportCategoryCount `json:"categories"`
	PendingCount int                   `json:"pendingCount"`
}
