// Copyright 2026 Chainborn

package binding

import (
	"strings"
	"testing"

	"github.com/chainborn/license-core/pkg/policy"
)

func TestComparatorNoneAlwaysValid(t *testing.T) {
	c := NewComparator()
	r := c.Validate(policy.BindingModeNone, nil, nil)
	if !r.Valid {
		t.Fatalf("expected valid, got %+v", r)
	}
}

func TestComparatorOrganizationStubModeWhenPublicInputsAbsent(t *testing.T) {
	c := NewComparator()
	r := c.Validate(policy.BindingModeOrganization, map[string]string{"org_id": "acme"}, nil)
	if !r.Valid {
		t.Fatalf("expected stub-mode valid, got %+v", r)
	}
}

func TestComparatorOrganizationMismatch(t *testing.T) {
	c := NewComparator()
	r := c.Validate(policy.BindingModeOrganization,
		map[string]string{"org_id": "acme"},
		map[string]string{"org_id": "widgets"})
	if r.Valid {
		t.Fatal("expected invalid on mismatch")
	}
	joined := strings.Join(r.Errors, " ")
	if !strings.Contains(joined, "acme") || !strings.Contains(joined, "widgets") {
		t.Errorf("expected both values in error text, got %v", r.Errors)
	}
}

func TestComparatorOrganizationMissingBindingData(t *testing.T) {
	c := NewComparator()
	r := c.Validate(policy.BindingModeOrganization, nil, map[string]string{"org_id": "acme"})
	if r.Valid {
		t.Fatal("expected invalid")
	}
	if r.Errors[0] != "missing binding data" {
		t.Errorf("errors = %v", r.Errors)
	}
}

func TestComparatorOrganizationMissingOrgIDInBindingData(t *testing.T) {
	c := NewComparator()
	r := c.Validate(policy.BindingModeOrganization,
		map[string]string{"other": "x"},
		map[string]string{"org_id": "acme"})
	if r.Valid || !strings.Contains(r.Errors[0], "binding data") {
		t.Errorf("errors = %v", r.Errors)
	}
}

func TestComparatorOrganizationMissingOrgIDInPublicInputs(t *testing.T) {
	c := NewComparator()
	r := c.Validate(policy.BindingModeOrganization,
		map[string]string{"org_id": "acme"},
		map[string]string{"other": "x"})
	if r.Valid || !strings.Contains(r.Errors[0], "public inputs") {
		t.Errorf("errors = %v", r.Errors)
	}
}

func TestComparatorEnvironmentMatch(t *testing.T) {
	c := NewComparator()
	r := c.Validate(policy.BindingModeEnvironment,
		map[string]string{"environment_id": "prod"},
		map[string]string{"environment_id": "prod"})
	if !r.Valid {
		t.Fatalf("expected valid, got %+v", r)
	}
}

func TestComparatorAttestationReservedValid(t *testing.T) {
	c := NewComparator()
	r := c.Validate(policy.BindingModeAttestation, nil, nil)
	if !r.Valid {
		t.Fatalf("expected valid, got %+v", r)
	}
}
