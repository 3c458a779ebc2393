package model

import "time"

// DecisionRecord is one row of the decision audit trail. The audit database
// is written per CI run and uploaded as a build artifact, so records are
// append-only.
type DecisionRecord struct {
	ID              int64
	Repo            string
	PRNumber        int
	ShouldFail      bool
	CoveragePercent float64
	Threshold       float64
	Reason          GateReason
	OverrideApplied bool
	RecordedAt      time.Time
}
