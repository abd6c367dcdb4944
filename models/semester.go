package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Semester is an academic term used when framing billing periods.
type Semester struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Year      string             `bson:"year" json:"year"`
	Term      string             `bson:"term" json:"term"`
	StartDate time.Time          `bson:"startDate" json:"startDate"`
	EndDate   time.Time          `bson:"endDate" json:"endDate"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
