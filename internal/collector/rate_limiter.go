package collector

import (
	"context"

	"golang.org/x/time/rate"
)

// QueryPacer bounds how fast this job issues statements against the
// firewall's production database, which also serves live traffic.
type QueryPacer struct {
	limiter *rate.Limiter
}

// NewQueryPacer creates a pacer allowing qps queries per second with a
// burst of the same size.
func NewQueryPacer(qps int) *QueryPacer {
	if qps <= 0 {
		qps = 1
	}
	return &QueryPacer{
		limiter: rate.NewLimiter(rate.Limit(qps), qps),
	}
}

// Wait blocks until the pacer allows the next statement.
func (p *QueryPacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}
