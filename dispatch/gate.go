package dispatch

import (
	"github.com/aschepis/llmrelay/llm"
)

// Gate is an optional shared rate limiter sitting between a unit and the
// network. A unit hands the gate its prepared call and waits on the call's
// reply channel; the gate answers with one of two distinct variants:
//
//   - Proceed: execute the call now. The unit performs the exchange itself.
//   - Done: the gate performed (or short-circuited) the exchange and the
//     reply carries the outcome.
//
// A gate that never answers is handled by the unit's own lifetime timer; the
// dispatch layer never assumes the gate itself retries or limits correctly.
type Gate interface {
	Route(call *Call)
}

// Call is a prepared network call awaiting gate clearance.
type Call struct {
	// Payload is the encoded wire body the unit is about to POST.
	Payload []byte
	// Reply must receive exactly one GateReply. It is buffered, so the
	// gate never blocks sending the verdict.
	Reply chan GateReply
}

// NewCall wraps a prepared payload for routing through a gate.
func NewCall(payload []byte) *Call {
	return &Call{Payload: payload, Reply: make(chan GateReply, 1)}
}

// GateReplyKind discriminates the gate's answer.
type GateReplyKind int

const (
	// GateProceed tells the unit to execute the prepared call now.
	GateProceed GateReplyKind = iota
	// GateDone means the gate completed the call; Body and Err carry the
	// outcome.
	GateDone
)

// GateReply is the gate's single answer to a routed call.
type GateReply struct {
	Kind GateReplyKind
	Body []byte
	Err  *llm.Error
}
