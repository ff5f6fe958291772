// Copyright 2026 Chainborn
//
// License policy document types.

package policy

// BindingMode names the rule that ties a proof to a runtime identity.
type BindingMode string

const (
	BindingModeNone         BindingMode = "none"
	BindingModeOrganization BindingMode = "organization"
	BindingModeEnvironment  BindingMode = "environment"
	BindingModeAttestation  BindingMode = "attestation"
)

func (m BindingMode) valid() bool {
	switch m {
	case BindingModeNone, BindingModeOrganization, BindingModeEnvironment, BindingModeAttestation:
		return true
	default:
		return false
	}
}

// RevocationModel names how revocation is expected to be enforced upstream.
// The core never executes it at runtime; it only informs operators of the
// TTL tradeoff they accepted when authoring the policy.
type RevocationModel string

const (
	RevocationModelNone           RevocationModel = "none"
	RevocationModelOnChain        RevocationModel = "on_chain"
	RevocationModelPeriodicCheck  RevocationModel = "periodic_check"
)

func (r RevocationModel) valid() bool {
	switch r {
	case RevocationModelNone, RevocationModelOnChain, RevocationModelPeriodicCheck:
		return true
	default:
		return false
	}
}

// MinCacheTTLSeconds and MaxCacheTTLSeconds bound a policy's cache_ttl field.
const (
	MinCacheTTLSeconds = 60
	MaxCacheTTLSeconds = 7 * 24 * 60 * 60
)

// document is the on-disk JSON shape of a policy file.
type document struct {
	ProductID        string                 `json:"productId"`
	SchemaVersion    string                 `json:"version"`
	RequiredTier     string                 `json:"requiredTier,omitempty"`
	RequiredFeatures []string               `json:"requiredFeatures,omitempty"`
	BindingMode      BindingMode            `json:"bindingMode"`
	CacheTTLSeconds  int                    `json:"cacheTtl"`
	RevocationModel  RevocationModel        `json:"revocationModel"`
	GracePeriod      int                    `json:"gracePeriod,omitempty"`
	CustomProperties map[string]interface{} `json:"customProperties,omitempty"`
}

// Policy is the parsed, validated in-memory representation of a license
// policy document.
type Policy struct {
	ProductID        string
	SchemaVersion    string
	RequiredTier     string
	RequiredFeatures map[string]struct{}
	BindingMode      BindingMode
	CacheTTLSeconds  int
	RevocationModel  RevocationModel
	GracePeriodSecs  int
	CustomProperties map[string]interface{}
}

// HasRequiredFeature reports whether feature is among RequiredFeatures.
func (p *Policy) HasRequiredFeature(feature string) bool {
	_, ok := p.RequiredFeatures[feature]
	return ok
}

// tierOrder is the known ordered set of tiers, lowest first. A tier not in
// this list is never satisfied by any present tier (fail closed).
var tierOrder = []string{"free", "basic", "pro", "enterprise"}

func tierRank(tier string) (int, bool) {
	for i, t := range tierOrder {
		if t == tier {
			return i, true
		}
	}
	return -1, false
}

// TierSatisfies reports whether presentTier meets or exceeds requiredTier
// under the known tier ordering.
func TierSatisfies(presentTier, requiredTier string) bool {
	if requiredTier == "" {
		return true
	}
	requiredRank, ok := tierRank(requiredTier)
	if !ok {
		return false
	}
	presentRank, ok := tierRank(presentTier)
	if !ok {
		return false
	}
	return presentRank >= requiredRank
}
