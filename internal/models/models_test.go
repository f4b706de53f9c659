package models

import "testing"

func TestInterceptRate(t *testing.T) {
	cases := []struct {
		name    string
		summary Summary
		want    string
	}{
		{name: "no_uncaught_is_full_rate", summary: Summary{TotalDenied: 340}, want: "100.00"},
		{name: "all_quiet", summary: Summary{}, want: "100.00"},
		{name: "partial", summary: Summary{TotalDenied: 300, Uncaught: 100}, want: "75.00"},
		{name: "mostly_caught", summary: Summary{TotalDenied: 340, Uncaught: 10}, want: "97.14"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.summary.InterceptRateString(); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestGeoAccessLocation(t *testing.T) {
	cases := []struct {
		name string
		geo  GeoAccess
		want string
	}{
		{name: "full", geo: GeoAccess{Country: "CN", Province: "Guangdong", City: "Shenzhen"}, want: "Guangdong Shenzhen"},
		{name: "city_only", geo: GeoAccess{Country: "US", City: "Ashburn"}, want: "Ashburn"},
		{name: "province_only", geo: GeoAccess{Country: "CN", Province: "Beijing"}, want: "Beijing"},
		{name: "country_fallback", geo: GeoAccess{Country: "NL"}, want: "NL"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.geo.Location(); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestTopAttackType(t *testing.T) {
	stats := &Statistics{}
	if _, ok := stats.TopAttackType(); ok {
		t.Fatal("expected no top attack type for empty statistics")
	}

	stats.AttackTypes = []AttackTypeCount{
		{Code: 1, Name: "SQL injection", Count: 50},
		{Code: 2, Name: "XSS", Count: 20},
	}
	top, ok := stats.TopAttackType()
	if !ok || top.Name != "SQL injection" {
		t.Fatalf("expected SQL injection as top type, got %+v ok=%v", top, ok)
	}
}
