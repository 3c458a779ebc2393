package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allConfigKeys lists every env var that Load() reads.
var allConfigKeys = []string{
	"PRGATE_GITHUB_TOKEN",
	"GITHUB_TOKEN",
	"GITHUB_REPOSITORY",
	"PRGATE_PR_NUMBER",
	"PRGATE_PR_AUTHOR",
	"PRGATE_MARKER",
	"PRGATE_COVERAGE_THRESHOLD",
	"PRGATE_OVERRIDE_LABEL",
	"PRGATE_CODEOWNERS_PATH",
	"PRGATE_TELEMETRY_URL",
	"PRGATE_TELEMETRY_TOKEN",
	"PRGATE_AUDIT_DB",
	"PRGATE_RETRY_MAX_ATTEMPTS",
	"PRGATE_RETRY_BASE_DELAY",
	"PRGATE_POLICY_FILE",
}

// isolateConfigEnv saves and unsets every config env var so tests don't
// inherit values from the host environment (e.g. a real Actions runner).
// t.Cleanup restores original values after the test.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range allConfigKeys {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
	// Keep the default .prgate.toml in the working tree out of config tests.
	t.Setenv("PRGATE_POLICY_FILE", filepath.Join(t.TempDir(), "absent.toml"))
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfigEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, DefaultMarker, cfg.Marker)
	assert.Equal(t, DefaultThreshold, cfg.Threshold)
	assert.Equal(t, DefaultOverrideLabel, cfg.OverrideLabel)
	assert.Equal(t, DefaultCodeownersPath, cfg.CodeownersPath)
	assert.Equal(t, DefaultRetryAttempts, cfg.RetryMaxAttempts)
	assert.Equal(t, DefaultRetryBaseDelay, cfg.RetryBaseDelay)
	assert.Equal(t, 0, cfg.PRNumber)
	assert.Nil(t, cfg.CollapseAttrs)
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("PRGATE_GITHUB_TOKEN", "ghp_test123")
	t.Setenv("GITHUB_REPOSITORY", "owner/repo")
	t.Setenv("PRGATE_PR_NUMBER", "42")
	t.Setenv("PRGATE_PR_AUTHOR", "alice")
	t.Setenv("PRGATE_COVERAGE_THRESHOLD", "92.5")
	t.Setenv("PRGATE_OVERRIDE_LABEL", "skip-coverage")
	t.Setenv("PRGATE_RETRY_MAX_ATTEMPTS", "5")
	t.Setenv("PRGATE_RETRY_BASE_DELAY", "0.5")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "ghp_test123", cfg.GitHubToken)
	assert.Equal(t, "owner/repo", cfg.Repo)
	assert.Equal(t, 42, cfg.PRNumber)
	assert.Equal(t, "alice", cfg.PRAuthor)
	assert.Equal(t, 92.5, cfg.Threshold)
	assert.Equal(t, "skip-coverage", cfg.OverrideLabel)
	assert.Equal(t, 5, cfg.RetryMaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.RetryBaseDelay)
}

func TestLoad_GitHubTokenFallback(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("GITHUB_TOKEN", "ghp_actions")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "ghp_actions", cfg.GitHubToken)
}

func TestLoad_PolicyFile(t *testing.T) {
	isolateConfigEnv(t)

	policy := filepath.Join(t.TempDir(), "prgate.toml")
	require.NoError(t, os.WriteFile(policy, []byte(`
[gate]
threshold = 75.0
override_label = "coverage-waiver"
codeowners = "CODEOWNERS"

[plan]
marker = "<!-- custom-marker -->"
collapse_attributes = ["content", "source_code_hash"]
`), 0o644))
	t.Setenv("PRGATE_POLICY_FILE", policy)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 75.0, cfg.Threshold)
	assert.Equal(t, "coverage-waiver", cfg.OverrideLabel)
	assert.Equal(t, "CODEOWNERS", cfg.CodeownersPath)
	assert.Equal(t, "<!-- custom-marker -->", cfg.Marker)
	assert.Equal(t, []string{"content", "source_code_hash"}, cfg.CollapseAttrs)
}

func TestLoad_EnvBeatsPolicyFile(t *testing.T) {
	isolateConfigEnv(t)

	policy := filepath.Join(t.TempDir(), "prgate.toml")
	require.NoError(t, os.WriteFile(policy, []byte("[gate]\nthreshold = 75.0\n"), 0o644))
	t.Setenv("PRGATE_POLICY_FILE", policy)
	t.Setenv("PRGATE_COVERAGE_THRESHOLD", "60")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 60.0, cfg.Threshold)
}

func TestLoad_MalformedPolicyFileIsError(t *testing.T) {
	isolateConfigEnv(t)

	policy := filepath.Join(t.TempDir(), "prgate.toml")
	require.NoError(t, os.WriteFile(policy, []byte("[gate\nbroken"), 0o644))
	t.Setenv("PRGATE_POLICY_FILE", policy)

	_, err := Load()

	require.Error(t, err)
}

func TestLoad_InvalidPRNumber(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("PRGATE_PR_NUMBER", "seven")

	_, err := Load()

	require.Error(t, err)
}

func TestLoad_ThresholdOutOfRange(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("PRGATE_COVERAGE_THRESHOLD", "140")

	_, err := Load()

	require.Error(t, err)
}

func TestLoad_RetryAttemptsBelowOne(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("PRGATE_RETRY_MAX_ATTEMPTS", "0")

	_, err := Load()

	require.Error(t, err)
}
