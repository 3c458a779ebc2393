package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/prgate/internal/domain/model"
)

const codeOnlyPlan = `Terraform will perform the following actions:

  # module.worker.aws_s3_object.bundle will be updated in-place
  ~ resource "aws_s3_object" "bundle" {
      ~ content_sha256 = "abc123" -> "def456"
      ~ content        = "old bundle" -> "new bundle"
    }

Plan: 0 to add, 2 to change, 0 to destroy.
`

func TestClassifyPlan_WorkerCodeOnlyCollapses(t *testing.T) {
	c := ClassifyPlan(codeOnlyPlan, nil)

	assert.True(t, c.ShouldCollapse)
	assert.True(t, c.HasOnlyUpdates)
	assert.False(t, c.HasRealAdditions)
	assert.False(t, c.HasRealDeletions)
	assert.False(t, c.HasResourceChanges)
	assert.Equal(t, []string{"content_sha256", "content"}, c.ChangedAttrs)
}

func TestClassifyPlan_ResourceCreationNeverCollapses(t *testing.T) {
	plan := `  # aws_lambda_function.worker will be created
  + resource "aws_lambda_function" "worker" {
      ~ content_sha256 = "abc" -> "def"
    }

Plan: 0 to add, 1 to change, 0 to destroy.
`

	c := ClassifyPlan(plan, nil)

	assert.True(t, c.HasResourceChanges)
	assert.False(t, c.ShouldCollapse)
}

func TestClassifyPlan_ComputedAdditionIsNotReal(t *testing.T) {
	plan := `  ~ resource "aws_s3_object" "bundle" {
      + status         = (known after apply)
      ~ content_sha256 = "abc" -> "def"
    }

Plan: 0 to add, 1 to change, 0 to destroy.
`

	c := ClassifyPlan(plan, nil)

	assert.False(t, c.HasRealAdditions)
	assert.True(t, c.ShouldCollapse)
}

func TestClassifyPlan_RealAdditionBlocksCollapse(t *testing.T) {
	plan := `  ~ resource "aws_s3_object" "bundle" {
      + acl            = "private"
      ~ content_sha256 = "abc" -> "def"
    }

Plan: 0 to add, 1 to change, 0 to destroy.
`

	c := ClassifyPlan(plan, nil)

	assert.True(t, c.HasRealAdditions)
	assert.False(t, c.ShouldCollapse)
}

func TestClassifyPlan_DeletionWithoutArrowIsReal(t *testing.T) {
	plan := `  ~ resource "google_project_iam_member" "x" {
      - binding        = "removed"
      ~ content_sha256 = "abc" -> "def"
    }

Plan: 0 to add, 1 to change, 0 to destroy.
`

	c := ClassifyPlan(plan, nil)

	assert.True(t, c.HasRealDeletions)
	assert.False(t, c.ShouldCollapse)
}

func TestClassifyPlan_BlockDeletionOpenerIsNotReal(t *testing.T) {
	plan := `  ~ resource "aws_s3_object" "bundle" {
      - tags           = {
          - env = "dev" -> null
        }
      ~ content_sha256 = "abc" -> "def"
    }

Plan: 0 to add, 1 to change, 0 to destroy.
`

	c := ClassifyPlan(plan, nil)

	// "- tags = {" opens a block and "- env ... -> null" carries an arrow;
	// neither counts as a standalone deletion.
	assert.False(t, c.HasRealDeletions)
}

func TestClassifyPlan_DisallowedAttributeBlocksCollapse(t *testing.T) {
	plan := `  ~ resource "aws_s3_object" "bundle" {
      ~ content_sha256 = "abc" -> "def"
      ~ memory_size    = 128 -> 256
    }

Plan: 0 to add, 2 to change, 0 to destroy.
`

	c := ClassifyPlan(plan, nil)

	assert.Equal(t, []string{"content_sha256", "memory_size"}, c.ChangedAttrs)
	assert.False(t, c.ShouldCollapse)
}

func TestClassifyPlan_CustomAllowList(t *testing.T) {
	plan := `  ~ resource "aws_lambda_function" "worker" {
      ~ source_code_hash = "abc" -> "def"
    }

Plan: 0 to add, 1 to change, 0 to destroy.
`

	assert.False(t, ClassifyPlan(plan, nil).ShouldCollapse)
	assert.True(t, ClassifyPlan(plan, []string{"source_code_hash"}).ShouldCollapse)
}

func TestClassifyPlan_ComputedChangeValueNotCollected(t *testing.T) {
	plan := `  ~ resource "aws_s3_object" "bundle" {
      ~ version_id     = "v1" -> (known after apply)
      ~ content_sha256 = "abc" -> "def"
    }

Plan: 0 to add, 1 to change, 0 to destroy.
`

	c := ClassifyPlan(plan, nil)

	assert.Equal(t, []string{"content_sha256"}, c.ChangedAttrs)
	assert.True(t, c.ShouldCollapse)
}

func TestClassifyPlan_EmptyPlanNeverCollapses(t *testing.T) {
	c := ClassifyPlan("", nil)

	assert.False(t, c.ShouldCollapse)
	assert.False(t, c.HasOnlyUpdates)
	assert.Empty(t, c.ChangedAttrs)
}

func TestClassifyPlan_NoChangedAttrsNeverCollapses(t *testing.T) {
	// hasOnlyUpdates alone is not enough; at least one allow-listed
	// attribute change must be visible.
	c := ClassifyPlan("Plan: 0 to add, 1 to change, 0 to destroy.\n", nil)

	assert.True(t, c.HasOnlyUpdates)
	assert.False(t, c.ShouldCollapse)
}

func TestClassifyPlan_AdditionsInSummaryBlockCollapse(t *testing.T) {
	plan := `  ~ content_sha256 = "abc" -> "def"

Plan: 1 to add, 1 to change, 0 to destroy.
`

	c := ClassifyPlan(plan, nil)

	assert.False(t, c.HasOnlyUpdates)
	assert.False(t, c.ShouldCollapse)
}

func TestParseSummary(t *testing.T) {
	s := ParseSummary("Plan: 3 to add, 14 to change, 1 to destroy.")

	require.True(t, s.Found)
	assert.Equal(t, 3, s.Add)
	assert.Equal(t, 14, s.Change)
	assert.Equal(t, 1, s.Destroy)
}

func TestParseSummary_Missing(t *testing.T) {
	assert.False(t, ParseSummary("No changes. Your infrastructure matches the configuration.").Found)
}

func TestTokenizeLine_Kinds(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want model.LineKind
	}{
		{"change", `      ~ content = "a" -> "b"`, model.LineChange},
		{"addition", `      + acl = "private"`, model.LineAddition},
		{"deletion", `      - binding = "removed"`, model.LineDeletion},
		{"summary", "Plan: 0 to add, 1 to change, 0 to destroy.", model.LineSummary},
		{"resource header", `  # aws_s3_object.bundle will be updated in-place`, model.LineOther},
		{"block marker without assignment", `      + ephemeral_storage {`, model.LineOther},
		{"blank", "", model.LineOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tokenizeLine(tt.raw).Kind)
		})
	}
}

func TestTokenizeLine_ChangeExtractsNewValue(t *testing.T) {
	line := tokenizeLine(`      ~ content_sha256 = "abc" -> "def"`)

	assert.Equal(t, "content_sha256", line.Attr)
	assert.Equal(t, `"def"`, line.Value)
	assert.True(t, line.HasArrow)
	assert.False(t, line.Computed)
}

func TestTokenizeLine_ComputedPlaceholder(t *testing.T) {
	line := tokenizeLine(`      + status = (known after apply)`)

	assert.Equal(t, model.LineAddition, line.Kind)
	assert.True(t, line.Computed)
}

func TestTokenizeLine_BlockOpener(t *testing.T) {
	line := tokenizeLine(`      - tags = {`)

	assert.Equal(t, model.LineDeletion, line.Kind)
	assert.True(t, line.OpensBlock)
}
