package model

// CoverageReport is the parsed diff-coverage artifact produced by the
// coverage job. Percent and TotalLines come from the required numeric fields;
// CrashFallback is the sentinel set when the coverage tool itself crashed.
type CoverageReport struct {
	Percent       float64
	TotalLines    int
	CrashFallback bool
}

// GateReason identifies which branch of the coverage gate produced a decision.
type GateReason string

const (
	ReasonInvalidReport      GateReason = "coverage report missing or invalid"
	ReasonCrashFallback      GateReason = "coverage tool crashed, not bypassable"
	ReasonDocOnly            GateReason = "no executable lines in diff"
	ReasonMeetsThreshold     GateReason = "coverage meets threshold"
	ReasonBelowThreshold     GateReason = "coverage below threshold"
	ReasonOverrideApplied    GateReason = "override label approved by codeowner"
	ReasonOverrideUnapproved GateReason = "override label present without codeowner approval"
)

// GateDecision is the coverage gate's verdict for a single CI run.
// ShouldFail is always set explicitly by the gate; a missing or malformed
// report fails, it never silently passes.
type GateDecision struct {
	ShouldFail      bool
	CoveragePercent float64
	Reason          GateReason
	OverrideApplied bool
	Events          []TelemetryEvent
}
