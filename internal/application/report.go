package application

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ericfisherdev/prgate/internal/domain/model"
)

// Errors returned by ParseCoverageReport. Callers only branch on "is it
// usable"; the distinction exists for log output.
var (
	ErrReportMalformed  = errors.New("coverage report is not valid JSON")
	ErrReportIncomplete = errors.New("coverage report missing required fields")
)

// coverageReportJSON mirrors the coverage artifact's wire format. Pointer
// fields distinguish "absent" from zero: a report without
// total_percent_covered must fail the gate, never pass as 0-but-fine.
type coverageReportJSON struct {
	TotalPercentCovered *float64 `json:"total_percent_covered"`
	TotalNumLines       *int     `json:"total_num_lines"`
	CrashFallback       bool     `json:"crash_fallback"`
}

// ParseCoverageReport decodes a coverage artifact and validates the required
// numeric fields. total_num_lines must always be present; when it is zero the
// diff has no executable lines and total_percent_covered is irrelevant, so a
// doc-only report without it is still valid.
func ParseCoverageReport(data []byte) (*model.CoverageReport, error) {
	var raw coverageReportJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReportMalformed, err)
	}

	if raw.TotalNumLines == nil {
		return nil, ErrReportIncomplete
	}
	if raw.TotalPercentCovered == nil && *raw.TotalNumLines != 0 {
		return nil, ErrReportIncomplete
	}

	report := &model.CoverageReport{
		TotalLines:    *raw.TotalNumLines,
		CrashFallback: raw.CrashFallback,
	}
	if raw.TotalPercentCovered != nil {
		report.Percent = *raw.TotalPercentCovered
	}

	return report, nil
}
