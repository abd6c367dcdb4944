package models

// Transaction types accepted by the payment gateway integration. The value
// tags the gateway order-info string and selects the callback strategy.
const (
	TxElectricInvoice = "electric"
	TxWaterInvoice    = "water"
	TxRegistration    = "registration"
	TxRenewal         = "renewal"
)

// ValidTransactionType reports whether t names a payable entity.
func ValidTransactionType(t string) bool {
	switch t {
	case TxElectricInvoice, TxWaterInvoice, TxRegistration, TxRenewal:
		return true
	}
	return false
}

// CallbackResult is what the callback state machine hands back to the HTTP
// layer: where to send the browser and why.
type CallbackResult struct {
	Success bool
	Reason  string // empty on success; invalid-signature / not-found / update-failed / server-error
}

// Callback failure reasons surfaced on the front-end redirect.
const (
	ReasonInvalidSignature = "invalid-signature"
	ReasonNotFound         = "not-found"
	ReasonUpdateFailed     = "update-failed"
	ReasonServerError      = "server-error"
)
