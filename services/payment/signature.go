package payment

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/url"
)

// Gateway parameter names with protocol meaning.
const (
	ParamSecureHash     = "vnp_SecureHash"
	ParamSecureHashType = "vnp_SecureHashType"
	ParamTxnRef         = "vnp_TxnRef"
	ParamAmount         = "vnp_Amount"
	ParamOrderInfo      = "vnp_OrderInfo"
	ParamCreateDate     = "vnp_CreateDate"
)

// canonicalize produces the exact string the gateway signs: keys sorted
// lexicographically, values form-encoded, empty values dropped, signature
// fields excluded. url.Values.Encode gives the sort and the encoding; the
// filtering happens here.
func canonicalize(params url.Values) string {
	filtered := url.Values{}
	for key, vals := range params {
		if key == ParamSecureHash || key == ParamSecureHashType {
			continue
		}
		for _, v := range vals {
			if v == "" {
				continue
			}
			filtered.Add(key, v)
		}
	}
	return filtered.Encode()
}

// Sign computes the lowercase-hex HMAC-SHA512 signature of the canonical
// parameter string.
func Sign(params url.Values, secret string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(canonicalize(params)))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify recomputes the signature over params (signature fields stripped)
// and compares it against provided in constant time.
func Verify(params url.Values, secret, provided string) bool {
	if provided == "" {
		return false
	}
	expected := Sign(params, secret)
	return hmac.Equal([]byte(expected), []byte(provided))
}
