package utils

import (
	"errors"
	"strings"
	"testing"
)

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode("RQ", 5, func(string) (bool, error) { return false, nil })
	if err != nil {
		t.Fatalf("GenerateCode: %v", err)
	}
	if !strings.HasPrefix(code, "RQ") || len(code) != 7 {
		t.Errorf("code = %q, want RQ + 5 digits", code)
	}
}

func TestGenerateCodeRetriesOnCollision(t *testing.T) {
	calls := 0
	code, err := GenerateCode("RP", 4, func(string) (bool, error) {
		calls++
		return calls < 3, nil // first two candidates are taken
	})
	if err != nil {
		t.Fatalf("GenerateCode: %v", err)
	}
	if calls != 3 {
		t.Errorf("uniqueness checks = %d, want 3", calls)
	}
	if !strings.HasPrefix(code, "RP") || len(code) != 6 {
		t.Errorf("code = %q, want RP + 4 digits", code)
	}
}

func TestGenerateCodeGivesUp(t *testing.T) {
	if _, err := GenerateCode("RR", 5, func(string) (bool, error) { return true, nil }); err == nil {
		t.Fatal("expected an error when every candidate collides")
	}
}

func TestGenerateCodePropagatesLookupError(t *testing.T) {
	boom := errors.New("db down")
	if _, err := GenerateCode("RQ", 5, func(string) (bool, error) { return false, boom }); err == nil {
		t.Fatal("expected the lookup error to surface")
	}
}
