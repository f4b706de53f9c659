package models

import (
	"fmt"
	"time"
)

// Summary holds the window-wide protection totals.
type Summary struct {
	TotalRequests   int64 `json:"total_requests"`
	TotalDenied     int64 `json:"total_denied"`
	BlacklistDenied int64 `json:"blacklist_denied"`
	Uncaught        int64 `json:"uncaught"`
}

// InterceptRate returns the percentage of attack traffic the WAF stopped.
// With zero uncaught attacks the rate is 100 regardless of volume.
func (s Summary) InterceptRate() float64 {
	if s.Uncaught == 0 {
		return 100.0
	}
	total := s.TotalDenied + s.Uncaught
	if total == 0 {
		return 100.0
	}
	return float64(s.TotalDenied) / float64(total) * 100
}

// InterceptRateString formats the rate the way it appears in the report.
func (s Summary) InterceptRateString() string {
	return fmt.Sprintf("%.2f", s.InterceptRate())
}

// Application is one protected site with its usage over the window.
type Application struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Domains  string `json:"domains"`
	Ports    string `json:"ports"`
	Requests int64  `json:"requests"`
	Denied   int64  `json:"denied"`
}

// GeoAccess is aggregated access volume for one geographic origin.
type GeoAccess struct {
	Country  string `json:"country"`
	Province string `json:"province"`
	City     string `json:"city"`
	Requests int64  `json:"requests"`
}

// Location renders the most specific non-empty place name available.
func (g GeoAccess) Location() string {
	switch {
	case g.City != "" && g.Province != "":
		return g.Province + " " + g.City
	case g.City != "":
		return g.City
	case g.Province != "":
		return g.Province
	default:
		return g.Country
	}
}

// SourceAccess is aggregated access volume for one client IP.
type SourceAccess struct {
	IP       string `json:"ip"`
	Requests int64  `json:"requests"`
}

// AttackTypeCount is the attack volume observed for one attack type.
type AttackTypeCount struct {
	Code  int    `json:"code"`
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// AttackerAccess is aggregated attack volume for one source IP and type.
type AttackerAccess struct {
	IP       string `json:"ip"`
	TypeCode int    `json:"type_code"`
	TypeName string `json:"type_name"`
	Count    int64  `json:"count"`
}

// UncaughtAttack is one attack the WAF observed but did not block.
type UncaughtAttack struct {
	Application string    `json:"application"`
	SourceIP    string    `json:"source_ip"`
	Host        string    `json:"host"`
	Path        string    `json:"path"`
	Port        int       `json:"port"`
	Country     string    `json:"country"`
	Province    string    `json:"province"`
	City        string    `json:"city"`
	TypeCode    int       `json:"type_code"`
	TypeName    string    `json:"type_name"`
	OccurredAt  time.Time `json:"occurred_at"`
}
