package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AttackTypes maps the WAF's numeric attack-type codes to display names.
// The firewall stores only the codes; the dictionary localizes them for
// the rendered report.
type AttackTypes map[int]string

// Codes the firewall reserves for non-attack classifications.
const (
	AttackTypeBlacklist = -3
	AttackTypeAccess    = -1
)

// DefaultAttackTypes returns the built-in dictionary. Deployments with
// custom rule sets override entries via ATTACK_TYPES_FILE.
func DefaultAttackTypes() AttackTypes {
	return AttackTypes{
		AttackTypeBlacklist: "blacklist hit",
		AttackTypeAccess:    "normal access",
		1:                   "SQL injection",
		2:                   "cross-site scripting",
		3:                   "CSRF",
		4:                   "SSRF",
		5:                   "command injection",
		6:                   "file inclusion",
		7:                   "directory traversal",
		8:                   "malicious file upload",
		9:                   "vulnerability scanner",
		10:                  "webshell access",
		11:                  "protocol anomaly",
		12:                  "bot traffic",
	}
}

// Name resolves a code to its display name. Unknown codes stay visible
// in the report instead of being dropped.
func (a AttackTypes) Name(code int) string {
	if name, ok := a[code]; ok {
		return name
	}
	return fmt.Sprintf("unknown attack type (%d)", code)
}

// Merge overlays other onto the dictionary, keeping entries not overridden.
func (a AttackTypes) Merge(other AttackTypes) {
	for code, name := range other {
		if name != "" {
			a[code] = name
		}
	}
}

// LoadAttackTypesFile reads a YAML dictionary of code: name pairs.
func LoadAttackTypesFile(path string) (AttackTypes, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read attack types file %q: %w", path, err)
	}

	types := AttackTypes{}
	if err := yaml.Unmarshal(data, &types); err != nil {
		return nil, fmt.Errorf("failed to parse attack types file %q: %w", path, err)
	}
	return types, nil
}
