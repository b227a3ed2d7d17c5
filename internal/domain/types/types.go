// Package types contains common types used across the engine.
package types

// Domain is one of the independently scored skill areas.
type Domain string

// Scored domains plus the aggregate pseudo-domain used by gating
// requirements that target the overall score.
const (
	DomainCustomerAnalysis   Domain = "customer_analysis"
	DomainValueCommunication Domain = "value_communication"
	DomainExecutiveReadiness Domain = "executive_readiness"
	DomainOverall            Domain = "overall"
)

// Domains returns the three scored skill domains in canonical order.
func Domains() []Domain {
	return []Domain{
		DomainCustomerAnalysis,
		DomainValueCommunication,
		DomainExecutiveReadiness,
	}
}

// Valid reports whether d names a scored domain or the overall aggregate.
func (d Domain) Valid() bool {
	switch d {
	case DomainCustomerAnalysis, DomainValueCommunication, DomainExecutiveReadiness, DomainOverall:
		return true
	default:
		return false
	}
}
