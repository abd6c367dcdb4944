package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task type names.
const (
	TypeSendReceipt        = "mail:receipt"
	TypeSendReviewResult   = "mail:review"
	TypeExpireRegistration = "registration:expire"
	TypeVacateStudents     = "student:vacate"
)

// ReceiptPayload identifies the paid entity a receipt should cover.
type ReceiptPayload struct {
	TxType   string `json:"txType"`
	EntityID string `json:"entityId"`
}

// NewReceiptTask builds the receipt-dispatch task for a confirmed payment.
func NewReceiptTask(txType string, entityID primitive.ObjectID) (*asynq.Task, error) {
	b, err := json.Marshal(ReceiptPayload{TxType: txType, EntityID: entityID.Hex()})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeSendReceipt, b, asynq.MaxRetry(5)), nil
}

// ReviewResultPayload identifies a reviewed registration and its outcome.
type ReviewResultPayload struct {
	RegistrationID string `json:"registrationId"`
	Status         string `json:"status"`
}

// NewReviewResultTask builds the mail task announcing a review decision.
func NewReviewResultTask(regID primitive.ObjectID, status string) (*asynq.Task, error) {
	b, err := json.Marshal(ReviewResultPayload{RegistrationID: regID.Hex(), Status: status})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeSendReviewResult, b, asynq.MaxRetry(5)), nil
}

// NewExpireRegistrationTask builds the periodic unpaid-registration sweep.
func NewExpireRegistrationTask() *asynq.Task {
	return asynq.NewTask(TypeExpireRegistration, nil)
}

// NewVacateStudentsTask builds the periodic expired-tenancy sweep.
func NewVacateStudentsTask() *asynq.Task {
	return asynq.NewTask(TypeVacateStudents, nil)
}
