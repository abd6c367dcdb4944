package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Student statuses.
const (
	StudentStatusActive  = "active"  // currently living in
	StudentStatusVacated = "vacated" // tenancy ended
)

// Student is an active or past tenancy. It is minted exactly once when a
// registration is approved and carries the stay window.
type Student struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"user" json:"userId"`
	RegistrationID primitive.ObjectID `bson:"registration" json:"registrationId"`
	StartDate      time.Time          `bson:"startDate" json:"startDate"`
	EndDate        time.Time          `bson:"endDate" json:"endDate"`
	Status         string             `bson:"status" json:"status"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`

	User         *User         `bson:"userDoc,omitempty" json:"user,omitempty"`
	Registration *Registration `bson:"registrationDoc,omitempty" json:"registration,omitempty"`
}

// RoomStay is one entry in a student's housing history.
type RoomStay struct {
	BuildingName string    `json:"buildingName"`
	RoomNumber   string    `json:"roomNumber"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
	Status       string    `json:"status"`
}

// Roommate is the slice of a fellow tenant shown to students.
type Roommate struct {
	ID        primitive.ObjectID `json:"id"`
	Name      string             `json:"name"`
	StudentID string             `json:"studentId"`
	School    string             `json:"school"`
	Class     string             `json:"class"`
	Course    string             `json:"course"`
	StartDate time.Time          `json:"startDate"`
	EndDate   time.Time          `json:"endDate"`
}
