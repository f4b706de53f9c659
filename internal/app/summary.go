package app

import (
	"fmt"
	"io"
)

// WriteSummary prints a short human-readable account of a finished run.
func WriteSummary(out io.Writer, result *RunResult) {
	if result == nil {
		return
	}

	s := result.Statistics.Summary
	fmt.Fprintf(out, "%s weekly report, %s to %s\n",
		result.Metadata.ProjectName, result.Metadata.PeriodStart, result.Metadata.PeriodEnd)
	fmt.Fprintf(out, "  requests:          %d\n", s.TotalRequests)
	fmt.Fprintf(out, "  denied:            %d\n", s.TotalDenied)
	fmt.Fprintf(out, "  blacklist denials: %d\n", s.BlacklistDenied)
	fmt.Fprintf(out, "  not blocked:       %d\n", s.Uncaught)
	fmt.Fprintf(out, "  interception rate: %s%%\n", s.InterceptRateString())

	if result.Delta != nil {
		fmt.Fprintf(out, "  vs period ending %s: requests %+d, denied %+d, interception %+.2f pp\n",
			result.Delta.PeriodEnd, result.Delta.Requests, result.Delta.Denied, result.Delta.InterceptRate)
	}

	fmt.Fprintf(out, "  local copy: %s\n", result.LocalPath)
	if result.RemotePath != "" {
		fmt.Fprintf(out, "  delivered:  %s\n", result.RemotePath)
	} else {
		fmt.Fprintln(out, "  delivered:  skipped")
	}
}
