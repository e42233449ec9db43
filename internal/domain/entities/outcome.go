package entities

// OutcomeVariant tells whether a result came from the model or from a fallback
type OutcomeVariant string

const (
	OutcomeSuccess  OutcomeVariant = "success"
	OutcomeDegraded OutcomeVariant = "degraded"
)

// DegradedReason explains why a fallback was served
type DegradedReason string

const (
	ReasonProviderError DegradedReason = "provider_error"
	ReasonParseError    DegradedReason = "parse_error"
	ReasonMissingInput  DegradedReason = "missing_input"
)
