// Package throttle provides a minimal dispatch.Gate implementation that
// spaces outbound calls at a fixed interval. It exists so deployments that
// share one API key across many concurrent units have a ready-made pacing
// gate; anything smarter (token buckets, provider quota tracking) can
// implement dispatch.Gate the same way.
package throttle

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/aschepis/llmrelay/dispatch"
)

// Pacer releases routed calls one at a time, at most one per interval. It
// never executes a call itself: every reply is a Proceed.
type Pacer struct {
	interval time.Duration
	queue    chan *dispatch.Call
	done     chan struct{}
	logger   zerolog.Logger
}

// NewPacer starts a pacer releasing one call per interval. Close it when done.
func NewPacer(interval time.Duration, logger zerolog.Logger) *Pacer {
	p := &Pacer{
		interval: interval,
		queue:    make(chan *dispatch.Call, 128),
		done:     make(chan struct{}),
		logger:   logger.With().Str("component", "throttle").Logger(),
	}
	go p.loop()
	return p
}

// Route implements dispatch.Gate. Calls queue in arrival order; a full queue
// blocks the caller, which the unit's own lifetime timer bounds.
func (p *Pacer) Route(call *dispatch.Call) {
	// A closed pacer releases calls immediately rather than silently
	// dropping them.
	select {
	case <-p.done:
		call.Reply <- dispatch.GateReply{Kind: dispatch.GateProceed}
		return
	default:
	}
	select {
	case p.queue <- call:
	case <-p.done:
		call.Reply <- dispatch.GateReply{Kind: dispatch.GateProceed}
	}
}

// Close stops the pacing loop. Calls already queued are released immediately.
func (p *Pacer) Close() {
	close(p.done)
}

func (p *Pacer) loop() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case call := <-p.queue:
			select {
			case <-ticker.C:
			case <-p.done:
			}
			call.Reply <- dispatch.GateReply{Kind: dispatch.GateProceed}
			p.logger.Trace().Msg("released call")
		case <-p.done:
			for {
				select {
				case call := <-p.queue:
					call.Reply <- dispatch.GateReply{Kind: dispatch.GateProceed}
				default:
					return
				}
			}
		}
	}
}
