package invoiceRepo

import (
	"dormify/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InvoiceRepository defines methods for utility invoice data access. Electric
// and water invoices share the shape but live in separate collections; one
// repository instance is bound to one kind.
type InvoiceRepository interface {
	// Kind is the utility kind this repository serves.
	Kind() string
	Create(inv *models.UtilityInvoice) error
	// GetByID returns the invoice with its room (and building) populated; nil
	// when absent.
	GetByID(id primitive.ObjectID) (*models.UtilityInvoice, error)
	// GetAll returns all invoices, populated, newest first.
	GetAll() ([]models.UtilityInvoice, error)
	// GetByRooms returns invoices for any of the rooms, populated, newest
	// first.
	GetByRooms(roomIDs []primitive.ObjectID) ([]models.UtilityInvoice, error)
	// ExistsForPeriod reports whether the room already has an invoice for
	// the month/year.
	ExistsForPeriod(roomID primitive.ObjectID, month, year int) (bool, error)
	Update(inv *models.UtilityInvoice) error
	// SetPayer records the paying user before a payment URL is issued.
	SetPayer(id, userID primitive.ObjectID) error
	// MarkPaidIfUnpaid flips unpaid to paid, reporting whether this call did
	// the flip. A false return with nil error means the invoice was already
	// paid or does not exist.
	MarkPaidIfUnpaid(id primitive.ObjectID) (bool, error)
	Delete(id primitive.ObjectID) error
}
