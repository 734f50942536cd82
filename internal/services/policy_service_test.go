package services

import (
	"errors"
	"testing"

	"github.com/you/medsync/internal/mocks"
)

func TestPolicyServiceImpl_AddPolicy(t *testing.T) {
	enforcer := mocks.NewMockCasbinEnforcer()
	var added []interface{}
	saved := false
	enforcer.AddPolicyFunc = func(params ...interface{}) (bool, error) {
		added = params
		return true, nil
	}
	enforcer.SavePolicyFunc = func() error {
		saved = true
		return nil
	}

	svc := NewPolicyServiceWithEnforcer(enforcer)
	if err := svc.AddPolicy("role_patient", "/auth/me", "GET"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(added) != 3 || added[0] != "role_patient" {
		t.Errorf("unexpected policy params: %v", added)
	}
	if !saved {
		t.Error("expected policy to be persisted")
	}
}

func TestPolicyServiceImpl_AddPolicyError(t *testing.T) {
	enforcer := mocks.NewMockCasbinEnforcer()
	enforcer.AddPolicyFunc = func(params ...interface{}) (bool, error) {
		return false, errors.New("adapter down")
	}
	svc := NewPolicyServiceWithEnforcer(enforcer)
	if err := svc.AddPolicy("role_patient", "/auth/me", "GET"); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestPolicyServiceImpl_CheckPermission(t *testing.T) {
	enforcer := mocks.NewMockCasbinEnforcer()
	enforcer.EnforceFunc = func(rvals ...interface{}) (bool, error) {
		return rvals[0] == "role_doctor", nil
	}
	svc := NewPolicyServiceWithEnforcer(enforcer)

	allowed, err := svc.CheckPermission("role_doctor", "/auth/me", "GET")
	if err != nil || !allowed {
		t.Errorf("expected doctor allowed, got %v %v", allowed, err)
	}
	allowed, err = svc.CheckPermission("role_patient", "/auth/me", "GET")
	if err != nil || allowed {
		t.Errorf("expected patient denied, got %v %v", allowed, err)
	}
}

func TestPolicyServiceImpl_GetPolicies(t *testing.T) {
	enforcer := mocks.NewMockCasbinEnforcer()
	enforcer.GetPolicyFunc = func() ([][]string, error) {
		return [][]string{{"role_patient", "/auth/me", "GET"}}, nil
	}
	svc := NewPolicyServiceWithEnforcer(enforcer)
	policies := svc.GetPolicies()
	if len(policies) != 1 || policies[0][0] != "role_patient" {
		t.Errorf("unexpected policies: %v", policies)
	}

	enforcer.GetPolicyFunc = func() ([][]string, error) {
		return nil, errors.New("adapter down")
	}
	if got := svc.GetPolicies(); len(got) != 0 {
		t.Errorf("expected empty slice on error, got %v", got)
	}
}
