package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Renewal statuses mirror the registration workflow minus "canceled".
const (
	RenewalStatusUnpaid   = "unpaid"
	RenewalStatusPending  = "pending"
	RenewalStatusApproved = "approved"
	RenewalStatusRejected = "rejected"
	RenewalStatusCanceled = "canceled"
	RenewalStatusRefunded = "refunded"
)

// RenewalRequest asks to extend an existing Student's stay into the
// month/year billing period.
type RenewalRequest struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StudentID     primitive.ObjectID `bson:"student" json:"studentId"`
	Code          string             `bson:"renewalRequestId" json:"code"` // RR#####
	Month         int                `bson:"month" json:"month"`
	Year          int                `bson:"year" json:"year"`
	Status        string             `bson:"status" json:"status"`
	PaymentMethod string             `bson:"paymentMethod" json:"paymentMethod"`
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`

	Student *Student `bson:"studentDoc,omitempty" json:"student,omitempty"`
}

// ValidRenewalStatus reports whether s is a known renewal status.
func ValidRenewalStatus(s string) bool {
	switch s {
	case RenewalStatusUnpaid, RenewalStatusPending, RenewalStatusApproved,
		RenewalStatusRejected, RenewalStatusCanceled, RenewalStatusRefunded:
		return true
	}
	return false
}
