package model

// EventKind is the closed enumeration of telemetry events the gate can emit.
type EventKind string

const (
	EventGatePassed              EventKind = "coverage_gate_passed"
	EventGateFailed              EventKind = "coverage_gate_failed"
	EventOverrideApplied         EventKind = "coverage_override_applied"
	EventOverrideWithoutApproval EventKind = "coverage_override_without_approval"
)

// TelemetryEvent is a single event produced by a gate decision. The decision
// engine fills the typed fields; the sender attaches run metadata (workflow,
// run ID, actor) in Fields before posting.
type TelemetryEvent struct {
	Kind            EventKind      `json:"event"`
	Repo            string         `json:"repo"`
	PRNumber        int            `json:"pr_number"`
	CoveragePercent float64        `json:"coverage_percent"`
	Threshold       float64        `json:"threshold"`
	Fields          map[string]any `json:"fields,omitempty"`
}
