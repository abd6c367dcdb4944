package payment

import (
	"fmt"

	invoiceRepo "dormify/database/repository/invoice"
	registrationRepo "dormify/database/repository/registration"
	renewalRepo "dormify/database/repository/renewal"
	"dormify/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payable is the slice of a business entity the payment flow needs.
type Payable struct {
	ID primitive.ObjectID
	// Amount in whole currency units, before the gateway's x100 scaling.
	Amount int64
	// Paid reports whether the entity already reached its paid state.
	Paid bool
	// NotifyRef identifies the entity for receipt dispatch.
	NotifyRef string
}

// Strategy abstracts the per-transaction-type behavior: how to find the
// entity, what it costs, and how to flip it when the gateway confirms.
// The four types (electric, water, registration, renewal) differ only here.
type Strategy interface {
	// Type tags the gateway order-info string.
	Type() string
	// Resolve loads the entity by its hex id; nil when absent.
	Resolve(txnRef string) (*Payable, error)
	// RecordIntent persists the paying user before the URL is issued.
	RecordIntent(id, userID primitive.ObjectID) error
	// Apply flips the entity into its paid state, reporting whether this
	// call did the flip. (false, nil) means someone else already did.
	Apply(id primitive.ObjectID) (bool, error)
	// ReturnURL is where the gateway redirects the browser after payment.
	ReturnURL() string
	// ResultURL is the front-end page the callback finally redirects to.
	ResultURL() string
}

// invoiceStrategy serves both utility kinds.
type invoiceStrategy struct {
	txType    string
	repo      invoiceRepo.InvoiceRepository
	returnURL string
	resultURL string
}

// NewInvoiceStrategy builds the strategy for a utility invoice kind.
func NewInvoiceStrategy(txType string, repo invoiceRepo.InvoiceRepository, returnURL, resultURL string) Strategy {
	return &invoiceStrategy{txType: txType, repo: repo, returnURL: returnURL, resultURL: resultURL}
}

func (s *invoiceStrategy) Type() string      { return s.txType }
func (s *invoiceStrategy) ReturnURL() string { return s.returnURL }
func (s *invoiceStrategy) ResultURL() string { return s.resultURL }

func (s *invoiceStrategy) Resolve(txnRef string) (*Payable, error) {
	id, err := primitive.ObjectIDFromHex(txnRef)
	if err != nil {
		return nil, nil
	}
	inv, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, nil
	}
	return &Payable{
		ID:        inv.ID,
		Amount:    inv.Amount(),
		Paid:      inv.Status == models.InvoiceStatusPaid,
		NotifyRef: inv.Code,
	}, nil
}

func (s *invoiceStrategy) RecordIntent(id, userID primitive.ObjectID) error {
	return s.repo.SetPayer(id, userID)
}

func (s *invoiceStrategy) Apply(id primitive.ObjectID) (bool, error) {
	return s.repo.MarkPaidIfUnpaid(id)
}

// registrationStrategy pays a room application; the callback moves it from
// unpaid to pending review.
type registrationStrategy struct {
	repo      registrationRepo.RegistrationRepository
	roomPrice func(reg *models.Registration) (int64, error)
	returnURL string
	resultURL string
}

// NewRegistrationStrategy builds the registration payment strategy.
func NewRegistrationStrategy(repo registrationRepo.RegistrationRepository, returnURL, resultURL string) Strategy {
	return &registrationStrategy{repo: repo, returnURL: returnURL, resultURL: resultURL}
}

func (s *registrationStrategy) Type() string      { return models.TxRegistration }
func (s *registrationStrategy) ReturnURL() string { return s.returnURL }
func (s *registrationStrategy) ResultURL() string { return s.resultURL }

func (s *registrationStrategy) Resolve(txnRef string) (*Payable, error) {
	id, err := primitive.ObjectIDFromHex(txnRef)
	if err != nil {
		return nil, nil
	}
	reg, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, nil
	}
	if reg.Room == nil {
		return nil, fmt.Errorf("registration %s has no room on record", txnRef)
	}
	return &Payable{
		ID:        reg.ID,
		Amount:    reg.Room.Price,
		Paid:      reg.Status != models.RegistrationStatusUnpaid,
		NotifyRef: reg.Code,
	}, nil
}

func (s *registrationStrategy) RecordIntent(id, userID primitive.ObjectID) error {
	return s.repo.SetUser(id, userID)
}

func (s *registrationStrategy) Apply(id primitive.ObjectID) (bool, error) {
	return s.repo.TransitionStatus(id, models.RegistrationStatusUnpaid,
		models.RegistrationStatusPending,
		"Payment received. Your registration is awaiting review by the management board.")
}

// renewalStrategy pays a stay extension; the callback moves it from unpaid
// to pending review. The charge is the current room's price.
type renewalStrategy struct {
	repo      renewalRepo.RenewalRepository
	returnURL string
	resultURL string
}

// NewRenewalStrategy builds the renewal payment strategy.
func NewRenewalStrategy(repo renewalRepo.RenewalRepository, returnURL, resultURL string) Strategy {
	return &renewalStrategy{repo: repo, returnURL: returnURL, resultURL: resultURL}
}

func (s *renewalStrategy) Type() string      { return models.TxRenewal }
func (s *renewalStrategy) ReturnURL() string { return s.returnURL }
func (s *renewalStrategy) ResultURL() string { return s.resultURL }

func (s *renewalStrategy) Resolve(txnRef string) (*Payable, error) {
	id, err := primitive.ObjectIDFromHex(txnRef)
	if err != nil {
		return nil, nil
	}
	req, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, nil
	}
	if req.Student == nil || req.Student.Registration == nil || req.Student.Registration.Room == nil {
		return nil, fmt.Errorf("renewal %s has no room on record", txnRef)
	}
	return &Payable{
		ID:        req.ID,
		Amount:    req.Student.Registration.Room.Price,
		Paid:      req.Status != models.RenewalStatusUnpaid,
		NotifyRef: req.Code,
	}, nil
}

func (s *renewalStrategy) RecordIntent(id, userID primitive.ObjectID) error {
	// The renewal already belongs to the student's tenancy, so only the
	// payment method needs recording here.
	return s.repo.SetPaymentMethod(id, models.PaymentMethodTransfer)
}

func (s *renewalStrategy) Apply(id primitive.ObjectID) (bool, error) {
	return s.repo.TransitionStatus(id, models.RenewalStatusUnpaid, models.RenewalStatusPending)
}
