package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Registration statuses. A user may hold at most one registration in a
// non-terminal state (unpaid or pending) at a time.
const (
	RegistrationStatusUnpaid   = "unpaid"
	RegistrationStatusPending  = "pending"
	RegistrationStatusApproved = "approved"
	RegistrationStatusRejected = "rejected"
	RegistrationStatusCanceled = "canceled"
	RegistrationStatusRefunded = "refunded"
)

// Payment methods recorded on registrations and renewals.
const (
	PaymentMethodCash     = "cash"
	PaymentMethodTransfer = "transfer"
	PaymentMethodNone     = "-"
)

// ValidPaymentMethod reports whether m is a known payment method.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodTransfer, PaymentMethodNone:
		return true
	}
	return false
}

// Address is the applicant's home address, stored inline.
type Address struct {
	ProvinceCode string `bson:"provinceCode,omitempty" json:"provinceCode,omitempty"`
	DistrictCode string `bson:"districtCode,omitempty" json:"districtCode,omitempty"`
	WardCode     string `bson:"wardCode,omitempty" json:"wardCode,omitempty"`
	Street       string `bson:"street,omitempty" json:"street,omitempty"`
}

// Registration is a student's application for a room. It carries the
// applicant profile in full so approval can mint a Student without further
// input, plus its own payment/approval workflow.
type Registration struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"user" json:"userId"`
	RoomID         primitive.ObjectID `bson:"room" json:"roomId"`
	Code           string             `bson:"registrationCode" json:"code"` // RQ#####
	Fullname       string             `bson:"fullname" json:"fullname"`
	BirthDate      time.Time          `bson:"birthDate" json:"birthDate"`
	Gender         string             `bson:"gender" json:"gender"`
	Religion       string             `bson:"religion,omitempty" json:"religion,omitempty"`
	Ethnicity      string             `bson:"ethnicity,omitempty" json:"ethnicity,omitempty"`
	IdentityNumber string             `bson:"identityNumber" json:"identityNumber"`
	StudentID      string             `bson:"studentId" json:"studentId"`
	Course         string             `bson:"course" json:"course"`
	School         string             `bson:"school" json:"school"`
	Class          string             `bson:"class" json:"class"`
	Address        Address            `bson:"address" json:"address"`
	Phone          string             `bson:"phone" json:"phone"`
	Email          string             `bson:"email" json:"email"`
	Month          int                `bson:"month" json:"month"`
	Year           int                `bson:"year" json:"year"`
	Image          string             `bson:"image,omitempty" json:"image,omitempty"`
	StartDate      time.Time          `bson:"startDate" json:"startDate"`
	EndDate        time.Time          `bson:"endDate" json:"endDate"`
	PaymentMethod  string             `bson:"paymentMethod" json:"paymentMethod"`
	Status         string             `bson:"status" json:"status"`
	Detail         string             `bson:"registerFormDetail" json:"registerFormDetail"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`

	Room *Room `bson:"roomDoc,omitempty" json:"room,omitempty"`
	User *User `bson:"userDoc,omitempty" json:"user,omitempty"`
}

// NonTerminal reports whether the registration still occupies a capacity
// slot and blocks the user from filing another application.
func (r *Registration) NonTerminal() bool {
	return r.Status == RegistrationStatusUnpaid || r.Status == RegistrationStatusPending
}

// ValidRegistrationStatus reports whether s is a known registration status.
func ValidRegistrationStatus(s string) bool {
	switch s {
	case RegistrationStatusUnpaid, RegistrationStatusPending, RegistrationStatusApproved,
		RegistrationStatusRejected, RegistrationStatusCanceled, RegistrationStatusRefunded:
		return true
	}
	return false
}
