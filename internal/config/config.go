// Package config loads prgate configuration from the repository policy file
// and environment variables. Precedence: built-in defaults, then the
// .prgate.toml policy file, then PRGATE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Defaults applied before the policy file and environment are consulted.
const (
	DefaultMarker         = "<!-- prgate:terraform-plan -->"
	DefaultThreshold      = 80.0
	DefaultOverrideLabel  = "coverage-override"
	DefaultCodeownersPath = ".github/CODEOWNERS"
	DefaultPolicyFile     = ".prgate.toml"
	DefaultRetryAttempts  = 3
	DefaultRetryBaseDelay = 1 * time.Second
)

// Config holds the full prgate configuration.
type Config struct {
	GitHubToken string
	Repo        string // "owner/repo", from GITHUB_REPOSITORY.
	PRNumber    int    // 0 when the trigger is not a pull request.
	PRAuthor    string

	Marker         string
	CollapseAttrs  []string // nil means the classifier's built-in allow-list.
	Threshold      float64
	OverrideLabel  string
	CodeownersPath string

	TelemetryURL   string
	TelemetryToken string
	AuditDBPath    string

	RetryMaxAttempts int
	RetryBaseDelay   time.Duration
}

// policyFile mirrors the .prgate.toml layout. All fields are optional;
// absent fields keep their defaults.
type policyFile struct {
	Gate struct {
		Threshold     *float64 `toml:"threshold"`
		OverrideLabel *string  `toml:"override_label"`
		Codeowners    *string  `toml:"codeowners"`
	} `toml:"gate"`
	Plan struct {
		Marker             *string  `toml:"marker"`
		CollapseAttributes []string `toml:"collapse_attributes"`
	} `toml:"plan"`
}

// Load builds the configuration. The policy file path comes from
// PRGATE_POLICY_FILE (default .prgate.toml); a missing policy file is fine,
// a malformed one is a hard error.
func Load() (*Config, error) {
	cfg := &Config{
		Marker:           DefaultMarker,
		Threshold:        DefaultThreshold,
		OverrideLabel:    DefaultOverrideLabel,
		CodeownersPath:   DefaultCodeownersPath,
		RetryMaxAttempts: DefaultRetryAttempts,
		RetryBaseDelay:   DefaultRetryBaseDelay,
	}

	policyPath := DefaultPolicyFile
	if v, ok := os.LookupEnv("PRGATE_POLICY_FILE"); ok && v != "" {
		policyPath = v
	}
	if err := applyPolicyFile(cfg, policyPath); err != nil {
		return nil, err
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if cfg.Threshold < 0 || cfg.Threshold > 100 {
		return nil, fmt.Errorf("coverage threshold %v out of range [0, 100]", cfg.Threshold)
	}
	if cfg.RetryMaxAttempts < 1 {
		return nil, fmt.Errorf("retry max attempts %d must be at least 1", cfg.RetryMaxAttempts)
	}

	return cfg, nil
}

func applyPolicyFile(cfg *Config, path string) error {
	var p policyFile
	if _, err := toml.DecodeFile(path, &p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("parsing policy file %s: %w", path, err)
	}

	if p.Gate.Threshold != nil {
		cfg.Threshold = *p.Gate.Threshold
	}
	if p.Gate.OverrideLabel != nil {
		cfg.OverrideLabel = *p.Gate.OverrideLabel
	}
	if p.Gate.Codeowners != nil {
		cfg.CodeownersPath = *p.Gate.Codeowners
	}
	if p.Plan.Marker != nil {
		cfg.Marker = *p.Plan.Marker
	}
	if len(p.Plan.CollapseAttributes) > 0 {
		cfg.CollapseAttrs = p.Plan.CollapseAttributes
	}

	return nil
}

func applyEnv(cfg *Config) error {
	cfg.GitHubToken = os.Getenv("PRGATE_GITHUB_TOKEN")
	if cfg.GitHubToken == "" {
		cfg.GitHubToken = os.Getenv("GITHUB_TOKEN")
	}
	cfg.Repo = os.Getenv("GITHUB_REPOSITORY")

	if v, ok := os.LookupEnv("PRGATE_PR_NUMBER"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PRGATE_PR_NUMBER has invalid value %q: %w", v, err)
		}
		cfg.PRNumber = n
	}
	cfg.PRAuthor = os.Getenv("PRGATE_PR_AUTHOR")

	if v, ok := os.LookupEnv("PRGATE_MARKER"); ok && v != "" {
		cfg.Marker = v
	}
	if v, ok := os.LookupEnv("PRGATE_COVERAGE_THRESHOLD"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("PRGATE_COVERAGE_THRESHOLD has invalid value %q: %w", v, err)
		}
		cfg.Threshold = f
	}
	if v, ok := os.LookupEnv("PRGATE_OVERRIDE_LABEL"); ok && v != "" {
		cfg.OverrideLabel = v
	}
	if v, ok := os.LookupEnv("PRGATE_CODEOWNERS_PATH"); ok && v != "" {
		cfg.CodeownersPath = v
	}

	cfg.TelemetryURL = os.Getenv("PRGATE_TELEMETRY_URL")
	cfg.TelemetryToken = os.Getenv("PRGATE_TELEMETRY_TOKEN")
	cfg.AuditDBPath = os.Getenv("PRGATE_AUDIT_DB")

	if v, ok := os.LookupEnv("PRGATE_RETRY_MAX_ATTEMPTS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PRGATE_RETRY_MAX_ATTEMPTS has invalid value %q: %w", v, err)
		}
		cfg.RetryMaxAttempts = n
	}
	if v, ok := os.LookupEnv("PRGATE_RETRY_BASE_DELAY"); ok && v != "" {
		secs, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("PRGATE_RETRY_BASE_DELAY has invalid value %q: %w", v, err)
		}
		cfg.RetryBaseDelay = time.Duration(secs * float64(time.Second))
	}

	return nil
}
