// Copyright 2026 Chainborn
//
// Binding Comparator — enforces binding-mode rules by comparing collected
// runtime binding data against a proof's public outputs. Purely
// functional: no I/O, no shared state.

package binding

import (
	"fmt"
	"log"

	"github.com/chainborn/license-core/pkg/policy"
)

// Result is the outcome of a binding comparison.
type Result struct {
	Valid  bool
	Errors []string
}

func valid() Result { return Result{Valid: true} }

func invalid(errs ...string) Result { return Result{Valid: false, Errors: errs} }

// Comparator validates binding data against public inputs per a policy's
// binding mode.
type Comparator struct {
	logger *log.Logger
}

// NewComparator constructs a Comparator.
func NewComparator() *Comparator {
	return &Comparator{logger: log.New(log.Writer(), "[BindingComparator] ", log.LstdFlags)}
}

// Validate checks bindingData against publicInputs under mode.
func (c *Comparator) Validate(mode policy.BindingMode, bindingData, publicInputs map[string]string) Result {
	switch mode {
	case policy.BindingModeNone:
		return valid()
	case policy.BindingModeOrganization:
		return c.validateKeyed(mode, "org_id", bindingData, publicInputs)
	case policy.BindingModeEnvironment:
		return c.validateKeyed(mode, "environment_id", bindingData, publicInputs)
	case policy.BindingModeAttestation:
		c.logger.Printf("attestation binding mode is reserved; accepting in stub mode")
		return valid()
	default:
		return invalid(fmt.Sprintf("unknown binding mode %q", mode))
	}
}

func (c *Comparator) validateKeyed(mode policy.BindingMode, key string, bindingData, publicInputs map[string]string) Result {
	if len(publicInputs) == 0 {
		c.logger.Printf("binding mode %s: verifier did not surface public inputs, accepting in stub mode", mode)
		return valid()
	}

	if len(bindingData) == 0 {
		return invalid("missing binding data")
	}

	bindingValue, haveBinding := bindingData[key]
	if !haveBinding || bindingValue == "" {
		return invalid(fmt.Sprintf("missing %s in binding data", key))
	}

	publicValue, havePublic := publicInputs[key]
	if !havePublic || publicValue == "" {
		return invalid(fmt.Sprintf("missing %s in public inputs", key))
	}

	if bindingValue != publicValue {
		return invalid(fmt.Sprintf("%s mismatch: binding data %q does not match public inputs %q", key, bindingValue, publicValue))
	}

	return valid()
}
