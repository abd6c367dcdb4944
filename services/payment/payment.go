package payment

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"dormify/models"
	"dormify/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Notifier dispatches a receipt after a confirmed payment. Dispatch is
// best-effort; a committed transition never rolls back on notify failure.
type Notifier interface {
	EnqueueReceipt(txType string, entityID primitive.ObjectID) error
}

type PaymentService interface {
	// CreatePaymentURL records payment intent and returns the signed
	// gateway redirect URL.
	CreatePaymentURL(txType string, entityID, userID primitive.ObjectID, clientIP string) (string, error)
	// HandleCallback verifies the gateway's redirect and applies at most one
	// state transition. The returned URL is where to send the browser.
	HandleCallback(txType string, params url.Values) (string, models.CallbackResult)
}

// DefaultPaymentService is the production implementation.
type DefaultPaymentService struct {
	MerchantCode string
	HashSecret   string
	GatewayURL   string
	Strategies   map[string]Strategy
	Notifier     Notifier
	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

func (s *DefaultPaymentService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultPaymentService) strategy(txType string) (Strategy, error) {
	st, ok := s.Strategies[txType]
	if !ok {
		return nil, fmt.Errorf("unknown transaction type %q", txType)
	}
	return st, nil
}

func (s *DefaultPaymentService) CreatePaymentURL(txType string, entityID, userID primitive.ObjectID, clientIP string) (string, error) {
	st, err := s.strategy(txType)
	if err != nil {
		return "", err
	}

	payable, err := st.Resolve(entityID.Hex())
	if err != nil {
		utils.GetLogger().Error("CreatePaymentURL: resolve failed",
			zap.String("type", txType), zap.Error(err))
		return "", fmt.Errorf("failed to create payment link, please try again")
	}
	if payable == nil {
		return "", fmt.Errorf("%s not found", txType)
	}
	if payable.Paid {
		return "", fmt.Errorf("this %s has already been paid", txType)
	}

	// Initiating a payment records intent even if the gateway is never
	// reached.
	if err := st.RecordIntent(payable.ID, userID); err != nil {
		utils.GetLogger().Error("CreatePaymentURL: record intent failed",
			zap.String("type", txType), zap.Error(err))
		return "", fmt.Errorf("failed to create payment link, please try again")
	}

	params := url.Values{}
	params.Set("vnp_Version", "2.1.0")
	params.Set("vnp_Command", "pay")
	params.Set("vnp_TmnCode", s.MerchantCode)
	params.Set("vnp_Locale", "vn")
	params.Set("vnp_CurrCode", "VND")
	params.Set(ParamTxnRef, payable.ID.Hex())
	params.Set(ParamOrderInfo, fmt.Sprintf("%s-%s", txType, payable.ID.Hex()))
	params.Set("vnp_OrderType", "billpayment")
	// The gateway expects the amount with two implied decimal zeros.
	params.Set(ParamAmount, strconv.FormatInt(payable.Amount*100, 10))
	params.Set("vnp_ReturnUrl", st.ReturnURL())
	params.Set("vnp_IpAddr", clientIP)
	params.Set(ParamCreateDate, s.now().Format("20060102150405"))

	params.Set(ParamSecureHash, Sign(params, s.HashSecret))

	return s.GatewayURL + "?" + params.Encode(), nil
}

func (s *DefaultPaymentService) HandleCallback(txType string, params url.Values) (string, models.CallbackResult) {
	st, err := s.strategy(txType)
	if err != nil {
		utils.GetLogger().Error("HandleCallback: unknown type", zap.String("type", txType))
		return "", models.CallbackResult{Reason: models.ReasonServerError}
	}

	result := s.process(st, params)
	return resultRedirect(st.ResultURL(), result), result
}

// process runs the callback state machine: verify, resolve, idempotency
// check, single transition, best-effort notify.
func (s *DefaultPaymentService) process(st Strategy, params url.Values) models.CallbackResult {
	provided := params.Get(ParamSecureHash)
	if !Verify(params, s.HashSecret, provided) {
		utils.GetLogger().Warn("payment callback: invalid signature",
			zap.String("type", st.Type()), zap.String("txnRef", params.Get(ParamTxnRef)))
		return models.CallbackResult{Reason: models.ReasonInvalidSignature}
	}

	txnRef := params.Get(ParamTxnRef)
	payable, err := st.Resolve(txnRef)
	if err != nil {
		utils.GetLogger().Error("payment callback: resolve failed",
			zap.String("type", st.Type()), zap.String("txnRef", txnRef), zap.Error(err))
		return models.CallbackResult{Reason: models.ReasonServerError}
	}
	if payable == nil {
		return models.CallbackResult{Reason: models.ReasonNotFound}
	}

	// Replayed callbacks for an already-paid entity succeed without a second
	// transition or a duplicate receipt.
	if payable.Paid {
		return models.CallbackResult{Success: true}
	}

	applied, err := st.Apply(payable.ID)
	if err != nil {
		utils.GetLogger().Error("payment callback: transition failed",
			zap.String("type", st.Type()), zap.String("txnRef", txnRef), zap.Error(err))
		return models.CallbackResult{Reason: models.ReasonUpdateFailed}
	}
	if !applied {
		// A concurrent callback won the conditional update; same outcome.
		return models.CallbackResult{Success: true}
	}

	if s.Notifier != nil {
		if err := s.Notifier.EnqueueReceipt(st.Type(), payable.ID); err != nil {
			utils.GetLogger().Error("payment callback: receipt dispatch failed",
				zap.String("type", st.Type()), zap.String("txnRef", txnRef), zap.Error(err))
		}
	}
	return models.CallbackResult{Success: true}
}

// resultRedirect appends the success flag (and reason on failure) to the
// front-end result page.
func resultRedirect(base string, result models.CallbackResult) string {
	sep := "?"
	if u, err := url.Parse(base); err == nil && u.RawQuery != "" {
		sep = "&"
	}
	if result.Success {
		return base + sep + "success=true"
	}
	out := base + sep + "success=false"
	if result.Reason != "" {
		out += "&reason=" + url.QueryEscape(result.Reason)
	}
	return out
}
