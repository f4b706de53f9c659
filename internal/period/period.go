package period

import (
	"fmt"
	"time"
)

// DefaultLookback is the reporting window used when REPORT_LOOKBACK is unset.
const DefaultLookback = 7 * 24 * time.Hour

const dateLayout = "2006-01-02"

// Period is the time window one report aggregates statistics over.
type Period struct {
	Start time.Time
	End   time.Time
}

// Lookback returns the window covering the d preceding now. The end is
// the trigger instant itself, so an on-demand run reports right up to
// the moment it was invoked rather than up to the last scheduled slot.
func Lookback(now time.Time, d time.Duration) Period {
	if d <= 0 {
		d = DefaultLookback
	}
	return Period{
		Start: now.Add(-d),
		End:   now,
	}
}

// StartUnix returns the inclusive epoch lower bound for epoch-stamped tables.
func (p Period) StartUnix() int64 {
	return p.Start.Unix()
}

// EndUnix returns the inclusive epoch upper bound for epoch-stamped tables.
func (p Period) EndUnix() int64 {
	return p.End.Unix()
}

// StartDate returns the window start formatted for date-stamped tables.
func (p Period) StartDate() string {
	return p.Start.Format(dateLayout)
}

// EndDate returns the window end formatted for date-stamped tables.
func (p Period) EndDate() string {
	return p.End.Format(dateLayout)
}

// Days returns the window length in whole days, never less than 1.
func (p Period) Days() int {
	days := int(p.End.Sub(p.Start).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return days
}

// FilenameFragment returns the date range used in report filenames.
func (p Period) FilenameFragment() string {
	return fmt.Sprintf("%s_to_%s", p.StartDate(), p.EndDate())
}

func (p Period) String() string {
	return fmt.Sprintf("%s to %s", p.StartDate(), p.EndDate())
}
