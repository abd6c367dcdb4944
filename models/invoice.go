package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Invoice statuses. Paid is terminal; the flip happens at most once.
const (
	InvoiceStatusUnpaid = "unpaid"
	InvoiceStatusPaid   = "paid"
)

// Utility kinds, doubling as the collection discriminator.
const (
	UtilityElectric = "electric"
	UtilityWater    = "water"
)

// UtilityInvoice is a per-room, per-period charge computed from a meter
// index delta. Electric and water invoices share this shape and live in
// separate collections. Payer is set when a user initiates payment, before
// the gateway confirms anything.
type UtilityInvoice struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	RoomID    primitive.ObjectID  `bson:"room" json:"roomId"`
	PayerID   *primitive.ObjectID `bson:"payer,omitempty" json:"payerId,omitempty"`
	Code      string              `bson:"invoiceId" json:"code"` // EL…/WA… + building + room + yyyymm
	Month     int                 `bson:"month" json:"month"`
	Year      int                 `bson:"year" json:"year"`
	OldIndex  int64               `bson:"oldIndex" json:"oldIndex"`
	NewIndex  int64               `bson:"newIndex" json:"newIndex"`
	UnitPrice int64               `bson:"unitPrice" json:"unitPrice"`
	DueDate   time.Time           `bson:"dueDate" json:"dueDate"`
	Status    string              `bson:"status" json:"status"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt" json:"updatedAt"`

	Room *Room `bson:"roomDoc,omitempty" json:"room,omitempty"`
}

// Amount is the charge in whole currency units: consumed delta times unit
// price.
func (inv *UtilityInvoice) Amount() int64 {
	return (inv.NewIndex - inv.OldIndex) * inv.UnitPrice
}
