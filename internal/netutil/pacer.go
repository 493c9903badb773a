// Package netutil paces outbound requests so parallel search-term
// fetches against the one upstream API stay polite.
package netutil

import (
	"context"

	"golang.org/x/time/rate"
)

// Pacer is a shared token bucket: every fetch goroutine waits on it
// before hitting the network, whatever URL it is about to request.
type Pacer struct {
	lim *rate.Limiter
}

func NewPacer(reqPerSec float64, burst int) *Pacer {
	return &Pacer{lim: rate.NewLimiter(rate.Limit(reqPerSec), burst)}
}

// Wait blocks until the next request may be sent or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.lim.Wait(ctx)
}
