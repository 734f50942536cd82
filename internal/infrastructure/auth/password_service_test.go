package auth

import (
	"strings"
	"testing"
)

func TestPasswordServiceImpl_HashAndVerify(t *testing.T) {
	svc := NewPasswordService()

	hash, err := svc.Hash("securepassword123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash == "securepassword123" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("expected a bcrypt digest, got %s", hash)
	}

	if !svc.Verify(hash, "securepassword123") {
		t.Error("expected the right secret to verify")
	}
	if svc.Verify(hash, "wrongpassword") {
		t.Error("expected a wrong secret to fail")
	}
}

func TestPasswordServiceImpl_VerifyMalformedDigest(t *testing.T) {
	svc := NewPasswordService()
	if svc.Verify("not-a-digest", "anything") {
		t.Error("expected a malformed digest to verify as false")
	}
	if svc.Verify("", "anything") {
		t.Error("expected an empty digest to verify as false")
	}
}

func TestPasswordServiceImpl_HashesOTPCodes(t *testing.T) {
	svc := NewPasswordService()

	hash, err := svc.Hash("123456")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !svc.Verify(hash, "123456") {
		t.Error("expected the OTP to verify")
	}
	if svc.Verify(hash, "654321") {
		t.Error("expected a different OTP to fail")
	}
}
