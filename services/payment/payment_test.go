package payment

import (
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"dormify/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeStrategy scripts the per-type behavior so the shared flow can be
// exercised without a database.
type fakeStrategy struct {
	payable    *Payable
	resolveErr error

	applyOK  bool
	applyErr error

	applyCalls  int
	intentCalls int
	lastIntent  primitive.ObjectID
}

func (f *fakeStrategy) Type() string      { return "electric" }
func (f *fakeStrategy) ReturnURL() string { return "http://api.test/payments/electric/return" }
func (f *fakeStrategy) ResultURL() string { return "http://front.test/payment-result" }

func (f *fakeStrategy) Resolve(txnRef string) (*Payable, error) {
	return f.payable, f.resolveErr
}

func (f *fakeStrategy) RecordIntent(id, userID primitive.ObjectID) error {
	f.intentCalls++
	f.lastIntent = userID
	return nil
}

func (f *fakeStrategy) Apply(id primitive.ObjectID) (bool, error) {
	f.applyCalls++
	return f.applyOK, f.applyErr
}

type fakeNotifier struct {
	calls []primitive.ObjectID
	err   error
}

func (f *fakeNotifier) EnqueueReceipt(txType string, entityID primitive.ObjectID) error {
	f.calls = append(f.calls, entityID)
	return f.err
}

const testSecret = "test-hash-secret"

func newService(st Strategy, n Notifier) *DefaultPaymentService {
	return &DefaultPaymentService{
		MerchantCode: "DORM0001",
		HashSecret:   testSecret,
		GatewayURL:   "https://gateway.test/pay",
		Strategies:   map[string]Strategy{"electric": st},
		Notifier:     n,
		Now: func() time.Time {
			return time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
		},
	}
}

func unpaidPayable() *Payable {
	return &Payable{
		ID: primitive.NewObjectID(),
		// 50 kWh consumed at 3500 per unit.
		Amount:    (150 - 100) * 3500,
		Paid:      false,
		NotifyRef: "EL-A1010-202601",
	}
}

func TestCreatePaymentURL(t *testing.T) {
	st := &fakeStrategy{payable: unpaidPayable()}
	svc := newService(st, nil)
	userID := primitive.NewObjectID()

	raw, err := svc.CreatePaymentURL("electric", st.payable.ID, userID, "203.0.113.9")
	if err != nil {
		t.Fatalf("CreatePaymentURL: %v", err)
	}
	if !strings.HasPrefix(raw, "https://gateway.test/pay?") {
		t.Fatalf("URL %q does not target the gateway", raw)
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse URL: %v", err)
	}
	q := parsed.Query()

	if got := q.Get(ParamAmount); got != "17500000" {
		t.Errorf("vnp_Amount = %q, want %q (amount x100)", got, "17500000")
	}
	if got := q.Get(ParamCreateDate); got != "20260115103000" {
		t.Errorf("vnp_CreateDate = %q, want %q", got, "20260115103000")
	}
	if got := q.Get(ParamTxnRef); got != st.payable.ID.Hex() {
		t.Errorf("vnp_TxnRef = %q, want entity id %q", got, st.payable.ID.Hex())
	}
	if !Verify(q, testSecret, q.Get(ParamSecureHash)) {
		t.Error("issued URL carries an unverifiable signature")
	}
	if st.intentCalls != 1 || st.lastIntent != userID {
		t.Errorf("RecordIntent calls = %d (user %s), want 1 call with the paying user",
			st.intentCalls, st.lastIntent.Hex())
	}
}

func TestCreatePaymentURLRejectsPaid(t *testing.T) {
	p := unpaidPayable()
	p.Paid = true
	st := &fakeStrategy{payable: p}

	if _, err := newService(st, nil).CreatePaymentURL("electric", p.ID, primitive.NewObjectID(), "203.0.113.9"); err == nil {
		t.Fatal("expected an error for an already-paid entity")
	}
	if st.intentCalls != 0 {
		t.Error("RecordIntent should not run for a paid entity")
	}
}

func TestCreatePaymentURLUnknownType(t *testing.T) {
	svc := newService(&fakeStrategy{payable: unpaidPayable()}, nil)
	if _, err := svc.CreatePaymentURL("parking", primitive.NewObjectID(), primitive.NewObjectID(), "203.0.113.9"); err == nil {
		t.Fatal("expected an error for an unknown transaction type")
	}
}

// callbackParams builds a gateway redirect as the gateway would: signed over
// everything except the signature fields.
func callbackParams(ref string, secret string) url.Values {
	p := url.Values{}
	p.Set("vnp_TmnCode", "DORM0001")
	p.Set(ParamTxnRef, ref)
	p.Set(ParamAmount, "17500000")
	p.Set("vnp_ResponseCode", "00")
	p.Set(ParamSecureHash, Sign(p, secret))
	return p
}

func TestHandleCallbackSuccess(t *testing.T) {
	st := &fakeStrategy{payable: unpaidPayable(), applyOK: true}
	notifier := &fakeNotifier{}
	svc := newService(st, notifier)

	redirect, result := svc.HandleCallback("electric", callbackParams(st.payable.ID.Hex(), testSecret))
	if !result.Success {
		t.Fatalf("result = %+v, want success", result)
	}
	if st.applyCalls != 1 {
		t.Errorf("Apply calls = %d, want 1", st.applyCalls)
	}
	if len(notifier.calls) != 1 || notifier.calls[0] != st.payable.ID {
		t.Errorf("notifier calls = %v, want one for the paid entity", notifier.calls)
	}
	if !strings.Contains(redirect, "success=true") {
		t.Errorf("redirect %q should flag success", redirect)
	}
	if !strings.HasPrefix(redirect, "http://front.test/payment-result") {
		t.Errorf("redirect %q should target the result page", redirect)
	}
}

func TestHandleCallbackInvalidSignature(t *testing.T) {
	st := &fakeStrategy{payable: unpaidPayable(), applyOK: true}
	notifier := &fakeNotifier{}
	svc := newService(st, notifier)

	params := callbackParams(st.payable.ID.Hex(), testSecret)
	params.Set(ParamAmount, "1") // tamper after signing

	redirect, result := svc.HandleCallback("electric", params)
	if result.Success || result.Reason != models.ReasonInvalidSignature {
		t.Fatalf("result = %+v, want failure with %q", result, models.ReasonInvalidSignature)
	}
	if st.applyCalls != 0 {
		t.Error("no state transition may happen on a bad signature")
	}
	if len(notifier.calls) != 0 {
		t.Error("no receipt may be sent on a bad signature")
	}
	if !strings.Contains(redirect, "success=false") || !strings.Contains(redirect, "reason="+models.ReasonInvalidSignature) {
		t.Errorf("redirect %q should carry the failure reason", redirect)
	}
}

func TestHandleCallbackWrongSecret(t *testing.T) {
	st := &fakeStrategy{payable: unpaidPayable(), applyOK: true}
	svc := newService(st, nil)

	_, result := svc.HandleCallback("electric", callbackParams(st.payable.ID.Hex(), "other-secret"))
	if result.Success || result.Reason != models.ReasonInvalidSignature {
		t.Fatalf("result = %+v, want %q", result, models.ReasonInvalidSignature)
	}
}

func TestHandleCallbackNotFound(t *testing.T) {
	st := &fakeStrategy{payable: nil}
	svc := newService(st, nil)

	_, result := svc.HandleCallback("electric", callbackParams(primitive.NewObjectID().Hex(), testSecret))
	if result.Success || result.Reason != models.ReasonNotFound {
		t.Fatalf("result = %+v, want %q", result, models.ReasonNotFound)
	}
}

func TestHandleCallbackResolveError(t *testing.T) {
	st := &fakeStrategy{resolveErr: errors.New("db down")}
	svc := newService(st, nil)

	_, result := svc.HandleCallback("electric", callbackParams(primitive.NewObjectID().Hex(), testSecret))
	if result.Success || result.Reason != models.ReasonServerError {
		t.Fatalf("result = %+v, want %q", result, models.ReasonServerError)
	}
}

func TestHandleCallbackReplayedForPaidEntity(t *testing.T) {
	p := unpaidPayable()
	p.Paid = true
	st := &fakeStrategy{payable: p}
	notifier := &fakeNotifier{}
	svc := newService(st, notifier)

	_, result := svc.HandleCallback("electric", callbackParams(p.ID.Hex(), testSecret))
	if !result.Success {
		t.Fatalf("replay for a paid entity must succeed, got %+v", result)
	}
	if st.applyCalls != 0 {
		t.Error("replay must not transition again")
	}
	if len(notifier.calls) != 0 {
		t.Error("replay must not send a second receipt")
	}
}

func TestHandleCallbackConcurrentLoser(t *testing.T) {
	// Apply reports false when another callback won the conditional update.
	st := &fakeStrategy{payable: unpaidPayable(), applyOK: false}
	notifier := &fakeNotifier{}
	svc := newService(st, notifier)

	_, result := svc.HandleCallback("electric", callbackParams(st.payable.ID.Hex(), testSecret))
	if !result.Success {
		t.Fatalf("losing the race is still a successful payment, got %+v", result)
	}
	if len(notifier.calls) != 0 {
		t.Error("the losing callback must not send a receipt")
	}
}

func TestHandleCallbackUpdateFailed(t *testing.T) {
	st := &fakeStrategy{payable: unpaidPayable(), applyErr: errors.New("write concern")}
	svc := newService(st, nil)

	_, result := svc.HandleCallback("electric", callbackParams(st.payable.ID.Hex(), testSecret))
	if result.Success || result.Reason != models.ReasonUpdateFailed {
		t.Fatalf("result = %+v, want %q", result, models.ReasonUpdateFailed)
	}
}

func TestHandleCallbackNotifyFailureDoesNotFailPayment(t *testing.T) {
	st := &fakeStrategy{payable: unpaidPayable(), applyOK: true}
	notifier := &fakeNotifier{err: errors.New("queue down")}
	svc := newService(st, notifier)

	_, result := svc.HandleCallback("electric", callbackParams(st.payable.ID.Hex(), testSecret))
	if !result.Success {
		t.Fatalf("a failed receipt dispatch must not fail the payment, got %+v", result)
	}
}

func TestResultRedirectKeepsExistingQuery(t *testing.T) {
	got := resultRedirect("http://front.test/result?tab=bills", models.CallbackResult{Success: true})
	if got != "http://front.test/result?tab=bills&success=true" {
		t.Errorf("resultRedirect = %q", got)
	}
}
