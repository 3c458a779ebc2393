package model

// LineKind tags a single tokenized line of Terraform plan output.
type LineKind int

const (
	// LineOther covers everything the classifier has no opinion about:
	// resource headers, block bodies, blank lines.
	LineOther LineKind = iota
	// LineSummary is the "Plan: X to add, Y to change, Z to destroy" line.
	LineSummary
	// LineAddition is a single-line "+ name = value" attribute addition.
	LineAddition
	// LineDeletion is a "- name = value" attribute deletion.
	LineDeletion
	// LineChange is a "~ name = old -> new" attribute update.
	LineChange
)

// String returns a human-readable name for the line kind.
func (k LineKind) String() string {
	switch k {
	case LineSummary:
		return "summary"
	case LineAddition:
		return "addition"
	case LineDeletion:
		return "deletion"
	case LineChange:
		return "change"
	default:
		return "other"
	}
}

// PlanLine is one tokenized line of plan output. Attr and value fields are
// only populated for attribute-level kinds.
type PlanLine struct {
	Kind       LineKind
	Attr       string // Attribute name for Addition/Deletion/Change lines.
	Value      string // New value for Change lines, assigned value for Addition/Deletion.
	Computed   bool   // Value is the "(known after apply)" placeholder.
	HasArrow   bool   // Raw line contains "->" (paired before/after values).
	OpensBlock bool   // Raw line ends in "{" or "[" (multi-line block opener).
}

// PlanSummary holds the parsed resource counts from the plan summary line.
// Found is false when no summary line was present, which also means the
// plan can never be collapsed.
type PlanSummary struct {
	Add     int
	Change  int
	Destroy int
	Found   bool
}

// Classification is the Plan Classifier's verdict on a Terraform plan.
type Classification struct {
	ShouldCollapse     bool
	HasOnlyUpdates     bool
	ChangedAttrs       []string // First-occurrence order, duplicates allowed.
	HasRealAdditions   bool
	HasRealDeletions   bool
	HasResourceChanges bool
}
