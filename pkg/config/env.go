package config

import (
	"fmt"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Required environment variables. A missing value is a configuration
// error reported before any network activity.
const (
	EnvDatabaseURL    = "DATABASE_URL"
	EnvProjectName    = "PROJECT_NAME"
	EnvReportOwner    = "REPORT_OWNER"
	EnvWebDAVHostname = "WEBDAV_HOSTNAME"
	EnvWebDAVLogin    = "WEBDAV_LOGIN"
	EnvWebDAVPassword = "WEBDAV_PASSWORD"
)

// envReportOwnerLegacy is the misspelled key the first deployments used.
const envReportOwnerLegacy = "REPORT_ONWER"

// Optional environment variables.
const (
	EnvSchedule        = "REPORT_SCHEDULE"
	EnvLookback        = "REPORT_LOOKBACK"
	EnvQueryTimeout    = "QUERY_TIMEOUT"
	EnvQueryRate       = "QUERY_RATE"
	EnvOutputDir       = "OUTPUT_DIR"
	EnvFontFile        = "REPORT_FONT_FILE"
	EnvExcludeAppIDs   = "EXCLUDE_APP_IDS"
	EnvExcludeIPs      = "EXCLUDE_IPS"
	EnvAttackTypesFile = "ATTACK_TYPES_FILE"
)

// Load builds the runtime configuration: defaults, then the optional
// .wafreport.yaml file, then the environment. It fails fast when any
// required variable is missing, naming all of them at once.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	fc, path, err := AutoLoadFile()
	if err != nil {
		return nil, err
	}
	if fc != nil {
		if err := fc.ApplyTo(cfg); err != nil {
			return nil, fmt.Errorf("config file %q: %w", path, err)
		}
	}

	if err := applyEnv(cfg, os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays environment values onto cfg. The lookup function is
// injected so tests can run without touching the process environment.
func applyEnv(cfg *Config, lookup func(string) string) error {
	var missing []string

	required := func(key string) string {
		val := strings.TrimSpace(lookup(key))
		if val == "" {
			missing = append(missing, key)
		}
		return val
	}

	cfg.DatabaseURL = required(EnvDatabaseURL)
	cfg.ProjectName = required(EnvProjectName)
	cfg.WebDAVHostname = required(EnvWebDAVHostname)
	cfg.WebDAVLogin = required(EnvWebDAVLogin)
	cfg.WebDAVPassword = required(EnvWebDAVPassword)

	cfg.ReportOwner = strings.TrimSpace(lookup(EnvReportOwner))
	if cfg.ReportOwner == "" {
		cfg.ReportOwner = strings.TrimSpace(lookup(envReportOwnerLegacy))
	}
	if cfg.ReportOwner == "" {
		missing = append(missing, EnvReportOwner)
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	if err := validateDatabaseURL(cfg.DatabaseURL); err != nil {
		return err
	}

	if val := strings.TrimSpace(lookup(EnvSchedule)); val != "" {
		cfg.Schedule = val
	}
	if val := strings.TrimSpace(lookup(EnvLookback)); val != "" {
		d, err := ParseDuration(val)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvLookback, err)
		}
		cfg.Lookback = d
	}
	if val := strings.TrimSpace(lookup(EnvQueryTimeout)); val != "" {
		d, err := ParseDuration(val)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvQueryTimeout, err)
		}
		cfg.QueryTimeout = d
	}
	if val := strings.TrimSpace(lookup(EnvQueryRate)); val != "" {
		rate, err := strconv.Atoi(val)
		if err != nil || rate <= 0 {
			return fmt.Errorf("invalid %s: %q", EnvQueryRate, val)
		}
		cfg.QueryRate = rate
	}
	if val := strings.TrimSpace(lookup(EnvOutputDir)); val != "" {
		cfg.OutputDir = val
	}
	if val := strings.TrimSpace(lookup(EnvFontFile)); val != "" {
		cfg.FontFile = val
	}
	if val := lookup(EnvExcludeAppIDs); val != "" {
		cfg.ExcludeAppIDs = splitList(val)
	}
	if val := lookup(EnvExcludeIPs); val != "" {
		cfg.ExcludeIPs = splitList(val)
	}
	if path := strings.TrimSpace(lookup(EnvAttackTypesFile)); path != "" {
		types, err := LoadAttackTypesFile(path)
		if err != nil {
			return err
		}
		cfg.AttackTypes.Merge(types)
	}

	cfg.Normalize()
	return nil
}

// validateDatabaseURL checks URL-form connection strings with a real URL
// parser instead of ad hoc splitting. Keyword/value DSNs ("host=... user=...")
// are passed through for the driver to parse.
func validateDatabaseURL(raw string) error {
	if !strings.Contains(raw, "://") {
		return nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", EnvDatabaseURL, err)
	}
	switch u.Scheme {
	case "postgres", "postgresql":
	default:
		return fmt.Errorf("unsupported %s scheme %q", EnvDatabaseURL, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%s has no host", EnvDatabaseURL)
	}
	return nil
}

func splitList(raw string) []string {
	return normalizeList(strings.Split(raw, ","))
}
