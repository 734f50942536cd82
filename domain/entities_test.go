package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestRoleValid(t *testing.T) {
	for _, role := range ValidRoles {
		if !RoleValid(role) {
			t.Errorf("expected %s to be valid", role)
		}
	}
	for _, role := range []string{"Admin", "patient", "", "Nurse"} {
		if RoleValid(role) {
			t.Errorf("expected %s to be invalid", role)
		}
	}
}

func TestDepartmentValid(t *testing.T) {
	for _, dept := range ValidDepartments {
		if !DepartmentValid(dept) {
			t.Errorf("expected %s to be valid", dept)
		}
	}
	if DepartmentValid("Astrology") || DepartmentValid("") {
		t.Error("expected unknown departments to be invalid")
	}
}

func TestRolePrefixes(t *testing.T) {
	expected := map[string]string{
		RolePatient:  "P",
		RoleDoctor:   "D",
		RoleStaff:    "S",
		RolePharmacy: "PH",
	}
	for role, prefix := range expected {
		if RolePrefixes[role] != prefix {
			t.Errorf("expected prefix %s for %s, got %s", prefix, role, RolePrefixes[role])
		}
	}
	if _, ok := RolePrefixes["Admin"]; ok {
		t.Error("expected no prefix for unknown roles")
	}
}

func TestPendingRegistration_Expired(t *testing.T) {
	reg := &PendingRegistration{ExpiresAt: time.Now().Add(time.Minute)}
	if reg.Expired(time.Now()) {
		t.Error("expected a future expiry to count as live")
	}
	if !reg.Expired(time.Now().Add(2 * time.Minute)) {
		t.Error("expected a past expiry to count as expired")
	}
}

func TestUser_JSONHidesSecrets(t *testing.T) {
	now := time.Now()
	user := User{
		ID:           7,
		FullName:     "Asha Rao",
		Email:        "asha@example.com",
		PasswordHash: "hashed_pw",
		OTPHash:      "hashed_123456",
		OTPExpiresAt: &now,
		OTPPurpose:   OTPPurposeReset,
	}
	data, err := json.Marshal(user)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	for _, secret := range []string{"hashed_pw", "hashed_123456", "password", "otp"} {
		if strings.Contains(out, secret) {
			t.Errorf("serialized user leaks %q: %s", secret, out)
		}
	}
}
