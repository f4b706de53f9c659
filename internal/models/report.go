package models

import "time"

// Statistics is everything one report run reads from the WAF database.
type Statistics struct {
	Summary      Summary           `json:"summary"`
	Applications []Application     `json:"applications"`
	GeoTop       []GeoAccess       `json:"geo_top"`
	SourceTop    []SourceAccess    `json:"source_top"`
	AttackTypes  []AttackTypeCount `json:"attack_types"`
	AttackerTop  []AttackerAccess  `json:"attacker_top"`
	Uncaught     []UncaughtAttack  `json:"uncaught"`
}

// TopAttackType returns the most frequent attack type, if any.
func (s *Statistics) TopAttackType() (AttackTypeCount, bool) {
	if len(s.AttackTypes) == 0 {
		return AttackTypeCount{}, false
	}
	return s.AttackTypes[0], true
}

// Metadata describes the run that produced a report artifact.
type Metadata struct {
	ProjectName  string    `json:"project_name"`
	ReportOwner  string    `json:"report_owner"`
	PeriodStart  string    `json:"period_start"`
	PeriodEnd    string    `json:"period_end"`
	LookbackDays int       `json:"lookback_days"`
	GeneratedAt  time.Time `json:"generated_at"`
	Version      string    `json:"version"`
}

// Artifact is the JSON sidecar written next to the rendered document so a
// failed delivery can be retried or inspected without re-querying.
type Artifact struct {
	Metadata   Metadata    `json:"metadata"`
	Statistics *Statistics `json:"statistics"`
}
