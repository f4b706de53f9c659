package report

// protectionGrade maps an interception rate to a letter grade shown on
// the report cover.
func protectionGrade(rate float64) string {
	switch {
	case rate >= 99:
		return "A"
	case rate >= 97:
		return "B"
	case rate >= 90:
		return "C"
	case rate >= 80:
		return "D"
	default:
		return "F"
	}
}

// postureSummary returns a single-sentence assessment for the given
// interception rate.
func postureSummary(rate float64) string {
	switch {
	case rate >= 99:
		return "The firewall provides near-complete coverage with minimal gaps."
	case rate >= 97:
		return "Strong protection with a small number of attacks passing through."
	case rate >= 90:
		return "Moderate protection; a notable share of attacks was not blocked."
	case rate >= 80:
		return "Weak protection; many observed attacks reached the applications."
	default:
		return "Critical protection gaps; most observed attacks were not blocked."
	}
}

// gradeColor returns the RGB color used when printing a grade.
func gradeColor(grade string) []int {
	switch grade {
	case "A", "B":
		return []int{22, 163, 74}
	case "C":
		return []int{202, 138, 4}
	default:
		return []int{220, 38, 38}
	}
}
