package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Feedback types.
const (
	FeedbackTypeSuggestion = "suggestion"
	FeedbackTypeComplaint  = "complaint"
	FeedbackTypePraise     = "praise"
	FeedbackTypeOther      = "other"
)

// Feedback is free-form input from a student to the management board.
type Feedback struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StudentID primitive.ObjectID `bson:"postedBy" json:"studentId"`
	Title     string             `bson:"title" json:"title"`
	Content   string             `bson:"content" json:"content"`
	Type      string             `bson:"type" json:"type"`
	Note      string             `bson:"note" json:"note"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`

	Student *Student `bson:"studentDoc,omitempty" json:"student,omitempty"`
}

// FeedbackView flattens the student/room/building join for listings.
type FeedbackView struct {
	ID        primitive.ObjectID `json:"id"`
	Title     string             `json:"title"`
	Content   string             `json:"content"`
	Type      string             `json:"type"`
	Note      string             `json:"note"`
	Fullname  string             `json:"fullname,omitempty"`
	StudentID string             `json:"studentId,omitempty"`
	Room      string             `json:"room,omitempty"`
	Building  string             `json:"building,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}
