package payment

import (
	"net/url"
	"testing"
)

func baseParams() url.Values {
	p := url.Values{}
	p.Set("vnp_Version", "2.1.0")
	p.Set("vnp_Command", "pay")
	p.Set("vnp_TmnCode", "DORM0001")
	p.Set(ParamTxnRef, "64f1c2d3e4a5b6c7d8e9f0a1")
	p.Set(ParamAmount, "17500000")
	p.Set(ParamOrderInfo, "electric-64f1c2d3e4a5b6c7d8e9f0a1")
	p.Set(ParamCreateDate, "20260115103000")
	return p
}

func TestCanonicalizeDropsSignatureAndEmptyFields(t *testing.T) {
	p := baseParams()
	want := canonicalize(p)

	p.Set(ParamSecureHash, "deadbeef")
	p.Set(ParamSecureHashType, "HmacSHA512")
	p.Set("vnp_BankCode", "")
	if got := canonicalize(p); got != want {
		t.Errorf("canonical string changed after adding excluded fields:\n got %q\nwant %q", got, want)
	}
}

func TestCanonicalizeSortsAndFormEncodes(t *testing.T) {
	p := url.Values{}
	p.Set("vnp_OrderInfo", "thanh toan don hang")
	p.Set("vnp_Amount", "100")

	got := canonicalize(p)
	want := "vnp_Amount=100&vnp_OrderInfo=thanh+toan+don+hang"
	if got != want {
		t.Errorf("canonicalize = %q, want %q", got, want)
	}
}

func TestVerifyRoundTrip(t *testing.T) {
	const secret = "s3cr3t"
	p := baseParams()
	sig := Sign(p, secret)

	// The gateway echoes the signature back inside the parameter set.
	p.Set(ParamSecureHash, sig)
	if !Verify(p, secret, sig) {
		t.Fatal("Verify rejected a signature it just produced")
	}
}

func TestVerifyRejectsTamperedParams(t *testing.T) {
	const secret = "s3cr3t"
	p := baseParams()
	sig := Sign(p, secret)

	p.Set(ParamAmount, "17500001")
	if Verify(p, secret, sig) {
		t.Error("Verify accepted a signature over a modified amount")
	}
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	const secret = "s3cr3t"
	p := baseParams()
	sig := Sign(p, secret)

	flipped := []byte(sig)
	if flipped[0] == 'a' {
		flipped[0] = 'b'
	} else {
		flipped[0] = 'a'
	}
	if Verify(p, secret, string(flipped)) {
		t.Error("Verify accepted a signature with a flipped character")
	}
}

func TestVerifyRejectsMissingSignature(t *testing.T) {
	if Verify(baseParams(), "s3cr3t", "") {
		t.Error("Verify accepted an absent signature")
	}
}

func TestSignDependsOnSecret(t *testing.T) {
	p := baseParams()
	if Sign(p, "one") == Sign(p, "two") {
		t.Error("signatures under different secrets should differ")
	}
}
