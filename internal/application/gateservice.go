package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/ericfisherdev/prgate/internal/domain/model"
	"github.com/ericfisherdev/prgate/internal/domain/port/driven"
)

// GateInput is everything the coverage gate needs to decide a single run.
// Report is nil when the artifact was unreadable or failed validation.
type GateInput struct {
	Report        *model.CoverageReport
	Repo          string
	PRNumber      int
	PRAuthor      string
	Labels        []string
	Threshold     float64
	OverrideLabel string
}

// GateService evaluates the coverage gate and publishes the outcome to the
// telemetry sink and the audit trail. The decision itself never depends on
// either: telemetry and audit failures are logged and swallowed.
type GateService struct {
	resolver  *ApprovalResolver
	telemetry driven.TelemetrySink
	decisions driven.DecisionStore
	logger    *slog.Logger
}

// NewGateService creates a GateService. telemetry and decisions may be nil
// when the corresponding sink is not configured.
func NewGateService(resolver *ApprovalResolver, telemetry driven.TelemetrySink, decisions driven.DecisionStore) *GateService {
	return &GateService{
		resolver:  resolver,
		telemetry: telemetry,
		decisions: decisions,
		logger:    slog.Default(),
	}
}

// Evaluate runs the gate's sequential decision, short-circuiting on the first
// terminal branch. ShouldFail is always set explicitly.
func (s *GateService) Evaluate(ctx context.Context, in GateInput) model.GateDecision {
	if in.Report == nil {
		return s.failed(in, 0, model.ReasonInvalidReport)
	}

	if in.Report.CrashFallback {
		// A crashed coverage tool is not "no coverage needed"; the crash
		// branch is terminal and the override label cannot bypass it.
		return s.failed(in, in.Report.Percent, model.ReasonCrashFallback)
	}

	if in.Report.TotalLines == 0 {
		return s.passed(in, 100, model.ReasonDocOnly)
	}

	if in.Report.Percent >= in.Threshold {
		return s.passed(in, in.Report.Percent, model.ReasonMeetsThreshold)
	}

	if !hasLabel(in.Labels, in.OverrideLabel) {
		return s.failed(in, in.Report.Percent, model.ReasonBelowThreshold)
	}

	if s.resolver.HasApproval(ctx, in.Repo, in.PRNumber, in.PRAuthor) {
		d := s.passed(in, in.Report.Percent, model.ReasonOverrideApplied)
		d.OverrideApplied = true
		d.Events = append(d.Events, s.event(model.EventOverrideApplied, in, in.Report.Percent))
		return d
	}

	d := s.failed(in, in.Report.Percent, model.ReasonOverrideUnapproved)
	d.Events = append(d.Events, s.event(model.EventOverrideWithoutApproval, in, in.Report.Percent))
	return d
}

// Publish sends the decision's telemetry events and appends the decision to
// the audit trail. Every failure is logged at warn and swallowed; the gate's
// exit code must reflect the coverage decision, nothing else.
func (s *GateService) Publish(ctx context.Context, in GateInput, d model.GateDecision) {
	if s.telemetry != nil {
		for _, ev := range d.Events {
			if err := s.telemetry.Send(ctx, ev); err != nil {
				s.logger.Warn("telemetry send failed",
					"event", ev.Kind,
					"error", err,
				)
			}
		}
	}

	if s.decisions != nil {
		rec := model.DecisionRecord{
			Repo:            in.Repo,
			PRNumber:        in.PRNumber,
			ShouldFail:      d.ShouldFail,
			CoveragePercent: d.CoveragePercent,
			Threshold:       in.Threshold,
			Reason:          d.Reason,
			OverrideApplied: d.OverrideApplied,
			RecordedAt:      time.Now().UTC(),
		}
		if err := s.decisions.RecordDecision(ctx, rec); err != nil {
			s.logger.Warn("audit record failed", "error", err)
		}
	}
}

func (s *GateService) passed(in GateInput, percent float64, reason model.GateReason) model.GateDecision {
	return model.GateDecision{
		ShouldFail:      false,
		CoveragePercent: percent,
		Reason:          reason,
		Events:          []model.TelemetryEvent{s.event(model.EventGatePassed, in, percent)},
	}
}

func (s *GateService) failed(in GateInput, percent float64, reason model.GateReason) model.GateDecision {
	return model.GateDecision{
		ShouldFail:      true,
		CoveragePercent: percent,
		Reason:          reason,
		Events:          []model.TelemetryEvent{s.event(model.EventGateFailed, in, percent)},
	}
}

func (s *GateService) event(kind model.EventKind, in GateInput, percent float64) model.TelemetryEvent {
	return model.TelemetryEvent{
		Kind:            kind,
		Repo:            in.Repo,
		PRNumber:        in.PRNumber,
		CoveragePercent: percent,
		Threshold:       in.Threshold,
	}
}

func hasLabel(labels []string, name string) bool {
	if name == "" {
		return false
	}
	for _, l := range labels {
		if l == name {
			return true
		}
	}
	return false
}
