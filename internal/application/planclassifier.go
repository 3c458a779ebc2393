package application

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ericfisherdev/prgate/internal/domain/model"
)

// computedPlaceholder is Terraform's marker for values only known after apply.
const computedPlaceholder = "(known after apply)"

// DefaultCollapseAttrs is the allow-list of attribute names whose changes
// count as worker-code-only. These are the attributes a code redeploy touches;
// anything else is treated as a real infrastructure change.
var DefaultCollapseAttrs = []string{"content_sha256", "content"}

// summaryPattern matches Terraform's plan summary line.
var summaryPattern = regexp.MustCompile(`Plan: (\d+) to add, (\d+) to change, (\d+) to destroy`)

// attrPattern matches a single attribute-level diff line after its
// "+ ", "- " or "~ " prefix has been stripped: name, "=", rest of line.
var attrPattern = regexp.MustCompile(`^(\S+)\s*=\s*(.+)$`)

// resourceChangeMarkers are the plan phrases that indicate a resource-level
// create/destroy/replace, any of which vetoes collapsing.
var resourceChangeMarkers = []string{
	"will be created",
	"will be destroyed",
	"must be replaced",
}

// TokenizePlan splits raw plan text into tagged lines. It is deliberately a
// line-level heuristic, not a Terraform plan parser: a line it cannot place
// is tagged LineOther, which can only ever prevent collapsing.
func TokenizePlan(planText string) []model.PlanLine {
	rawLines := strings.Split(planText, "\n")
	lines := make([]model.PlanLine, 0, len(rawLines))

	for _, raw := range rawLines {
		lines = append(lines, tokenizeLine(raw))
	}

	return lines
}

func tokenizeLine(raw string) model.PlanLine {
	trimmed := strings.TrimSpace(raw)

	if summaryPattern.MatchString(trimmed) {
		return model.PlanLine{Kind: model.LineSummary}
	}

	var kind model.LineKind
	switch {
	case strings.HasPrefix(trimmed, "~ "):
		kind = model.LineChange
	case strings.HasPrefix(trimmed, "+ "):
		kind = model.LineAddition
	case strings.HasPrefix(trimmed, "- "):
		kind = model.LineDeletion
	default:
		return model.PlanLine{Kind: model.LineOther}
	}

	rest := strings.TrimSpace(trimmed[2:])
	m := attrPattern.FindStringSubmatch(rest)
	if m == nil {
		// A bare "+ resource" header or block marker; treat as noise.
		return model.PlanLine{Kind: model.LineOther}
	}

	line := model.PlanLine{
		Kind:       kind,
		Attr:       m[1],
		Value:      strings.TrimSpace(m[2]),
		HasArrow:   strings.Contains(rest, "->"),
		OpensBlock: strings.HasSuffix(trimmed, "{") || strings.HasSuffix(trimmed, "["),
	}

	if kind == model.LineChange && line.HasArrow {
		// For "~ name = old -> new" the interesting part is the new value.
		idx := strings.LastIndex(line.Value, "->")
		line.Value = strings.TrimSpace(line.Value[idx+2:])
	}

	line.Computed = line.Value == computedPlaceholder

	return line
}

// ParseSummary extracts the resource counts from the plan summary line.
// Found is false when no summary line exists (empty or malformed plans).
func ParseSummary(planText string) model.PlanSummary {
	m := summaryPattern.FindStringSubmatch(planText)
	if m == nil {
		return model.PlanSummary{}
	}

	add, _ := strconv.Atoi(m[1])
	change, _ := strconv.Atoi(m[2])
	destroy, _ := strconv.Atoi(m[3])

	return model.PlanSummary{Add: add, Change: change, Destroy: destroy, Found: true}
}

// ClassifyPlan decides whether a Terraform plan's diff is worker-code-only
// and can be collapsed in the PR comment. allowedAttrs is the attribute
// allow-list; nil means DefaultCollapseAttrs.
//
// The classifier has no error paths: empty or malformed plan text produces a
// verdict that never collapses. Under-collapsing is the safe default.
func ClassifyPlan(planText string, allowedAttrs []string) model.Classification {
	if allowedAttrs == nil {
		allowedAttrs = DefaultCollapseAttrs
	}
	allowed := make(map[string]struct{}, len(allowedAttrs))
	for _, a := range allowedAttrs {
		allowed[a] = struct{}{}
	}

	summary := ParseSummary(planText)

	var c model.Classification
	c.HasOnlyUpdates = summary.Found && summary.Add == 0 && summary.Destroy == 0 && summary.Change > 0

	for _, line := range TokenizePlan(planText) {
		switch line.Kind {
		case model.LineChange:
			if line.HasArrow && !line.Computed {
				c.ChangedAttrs = append(c.ChangedAttrs, line.Attr)
			}
		case model.LineAddition:
			if !line.Computed && !line.OpensBlock {
				c.HasRealAdditions = true
			}
		case model.LineDeletion:
			// A "->" means a paired before/after value, not a deletion;
			// a trailing bracket means the deleted content follows on
			// later lines and this line alone proves nothing.
			if !line.HasArrow && !line.OpensBlock {
				c.HasRealDeletions = true
			}
		}
	}

	for _, marker := range resourceChangeMarkers {
		if strings.Contains(planText, marker) {
			c.HasResourceChanges = true
			break
		}
	}

	codeOnly := c.HasOnlyUpdates &&
		!c.HasRealAdditions &&
		!c.HasRealDeletions &&
		len(c.ChangedAttrs) > 0

	if codeOnly {
		for _, attr := range c.ChangedAttrs {
			if _, ok := allowed[attr]; !ok {
				codeOnly = false
				break
			}
		}
	}

	c.ShouldCollapse = codeOnly && !c.HasResourceChanges

	return c
}
