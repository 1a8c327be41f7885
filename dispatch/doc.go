// Package dispatch runs LLM exchanges as isolated, time-bounded units of work.
//
// A Unit owns exactly one logical request for its whole lifetime: it encodes
// the request through a protocol-family adapter, optionally routes the
// prepared call through a throttle Gate, performs the network exchange,
// retries transport failures up to a bounded budget, enforces an absolute
// lifetime timer, and always delivers exactly one terminal reply before its
// goroutine exits. A StreamUnit is the server-sent-event variant: an
// immediate started acknowledgment, zero or more incremental deltas, then
// exactly one terminal event.
//
// Units share nothing. Each exchange runs on its own goroutine and
// communicates only over channels; the optional Gate is the single resource
// shared across concurrently active units, and all interaction with it is by
// message.
package dispatch
