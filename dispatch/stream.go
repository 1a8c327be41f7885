package dispatch

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/aschepis/llmrelay/llm"
)

// EventKind discriminates stream events.
type EventKind int

const (
	// EventStarted acknowledges that the stream session has been opened.
	// It is always the first event and is sent exactly once.
	EventStarted EventKind = iota
	// EventDelta carries one incremental text fragment, with newlines
	// already replaced by llm.LineBreak.
	EventDelta
	// EventEnded terminates the stream successfully.
	EventEnded
	// EventFailed terminates the stream with Err set.
	EventFailed
)

// Event is one message on a stream unit's event channel. Callers observe a
// Started acknowledgment, zero or more Delta events, then exactly one Ended
// or Failed terminal.
type Event struct {
	Kind EventKind
	Text string
	Err  *llm.Error
}

// StreamUnit performs one-shot streaming exchanges over server-sent events.
// Like Unit, the value is stateless configuration; each Submit runs on its
// own goroutine.
type StreamUnit struct {
	cfg     Config
	adapter llm.StreamAdapter
	logger  zerolog.Logger
}

// NewStreamUnit creates a streaming dispatch unit for one protocol family.
// The default lifetime is the much shorter llm.DefaultStreamLifetime: a
// healthy stream produces deltas continuously.
func NewStreamUnit(adapter llm.StreamAdapter, cfg Config) *StreamUnit {
	cfg.fillDefaults(llm.DefaultStreamLifetime)
	return &StreamUnit{
		cfg:     cfg,
		adapter: adapter,
		logger:  cfg.Logger.With().Str("component", "stream-dispatch").Logger(),
	}
}

// Submit starts the streaming exchange for req. events receives the Started
// acknowledgment, the deltas, and exactly one terminal event; it must be
// consumed. If the lifetime timer fires the original request additionally
// goes to the supervisor channel (when configured) so a higher layer may
// re-submit, mirroring the non-streaming unit.
func (s *StreamUnit) Submit(req *llm.Request, events chan<- Event) {
	go s.run(req, events)
}

func (s *StreamUnit) run(req *llm.Request, events chan<- Event) {
	logger := s.logger.With().Str("request", req.ID).Logger()

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Lifetime)
	defer cancel()

	events <- Event{Kind: EventStarted}

	payload, err := s.adapter.Encode(req, true)
	if err != nil {
		s.fail(req, events, asLLMError(err), logger)
		return
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = s.cfg.RetryWait

	for attempt := 1; ; attempt++ {
		terminal, xerr := s.attempt(ctx, req, payload, events, logger)
		if terminal {
			return
		}
		if xerr.Type == llm.ErrorTypeTimeout {
			s.expire(req, events, logger)
			return
		}
		if !xerr.Retryable || attempt >= s.cfg.Retries {
			logger.Warn().Int("attempts", attempt).Err(xerr).Msg("stream request failed")
			s.fail(req, events, xerr, logger)
			return
		}
		wait := bo.NextBackOff()
		logger.Debug().Int("attempt", attempt).Dur("wait", wait).Err(xerr).Msg("transport failure, retrying stream")
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			s.expire(req, events, logger)
			return
		}
	}
}

// attempt opens and, if the open succeeds, fully consumes one stream session.
// It reports terminal=false only for retryable transport failures while
// opening; once a session is established every outcome is terminal.
func (s *StreamUnit) attempt(ctx context.Context, req *llm.Request, payload []byte, events chan<- Event, logger zerolog.Logger) (bool, *llm.Error) {
	if s.cfg.Gate != nil {
		call := NewCall(payload)
		s.cfg.Gate.Route(call)
		select {
		case rep := <-call.Reply:
			if rep.Kind == GateDone {
				s.completed(req, events, rep, logger)
				return true, nil
			}
		case <-ctx.Done():
			s.expire(req, events, logger)
			return true, nil
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return false, llm.NewTransportError("building request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	if s.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}

	resp, err := s.cfg.HTTPClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return false, llm.NewTimeoutError("lifetime exceeded opening stream")
		}
		return false, llm.NewTransportError("opening stream", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if _, derr := s.adapter.Decode(body); derr != nil {
			s.fail(req, events, asLLMError(derr), logger)
		} else {
			s.fail(req, events, llm.NewProtocolError("stream refused with status "+resp.Status, nil), logger)
		}
		return true, nil
	}

	s.consume(ctx, req, resp.Body, events, logger)
	return true, nil
}

// consume forwards decoded deltas until stream end, failure, or timeout. The
// session is cancelled exactly once on every path; double cancellation is a
// no-op.
func (s *StreamUnit) consume(ctx context.Context, req *llm.Request, body io.ReadCloser, events chan<- Event, logger zerolog.Logger) {
	var once sync.Once
	closeSession := func() {
		once.Do(func() { body.Close() })
	}
	defer closeSession()

	dec := newSSEDecoder(body)
	for {
		data, err := dec.Next()
		if err != nil {
			if err == io.EOF {
				logger.Debug().Msg("stream ended")
				events <- Event{Kind: EventEnded}
				return
			}
			if ctx.Err() != nil {
				closeSession()
				s.expire(req, events, logger)
				return
			}
			s.fail(req, events, llm.NewTransportError("reading stream", err), logger)
			return
		}

		if string(bytes.TrimSpace(data)) == llm.DoneSentinel {
			closeSession()
			events <- Event{Kind: EventEnded}
			return
		}

		text, ok := s.adapter.Delta(data)
		if !ok {
			// Undecodable or delta-less events are not fatal.
			logger.Debug().Str("event", string(data)).Msg("stream event carried no delta")
			continue
		}
		events <- Event{Kind: EventDelta, Text: llm.BreakLines(text)}
	}
}

// completed handles a gate that executed the call itself: the full response
// arrives at once and is forwarded as a single delta.
func (s *StreamUnit) completed(req *llm.Request, events chan<- Event, rep GateReply, logger zerolog.Logger) {
	if rep.Err != nil {
		s.fail(req, events, rep.Err, logger)
		return
	}
	res, derr := s.adapter.Decode(rep.Body)
	if derr != nil {
		s.fail(req, events, asLLMError(derr), logger)
		return
	}
	req.Complete(res)
	if res.Utterance != "" {
		events <- Event{Kind: EventDelta, Text: llm.BreakLines(res.Utterance)}
	}
	events <- Event{Kind: EventEnded}
}

func (s *StreamUnit) fail(req *llm.Request, events chan<- Event, lerr *llm.Error, logger zerolog.Logger) {
	logger.Error().Str("type", string(lerr.Type)).Err(lerr).Msg("streaming failure")
	req.Fail(lerr)
	events <- Event{Kind: EventFailed, Err: lerr}
}

func (s *StreamUnit) expire(req *llm.Request, events chan<- Event, logger zerolog.Logger) {
	logger.Warn().Msg("provider did not respond, stopping stream unit")
	req.Fail(llm.NewTimeoutError("stream lifetime exceeded"))
	if s.cfg.Supervisor != nil {
		s.cfg.Supervisor <- req
	}
	events <- Event{Kind: EventFailed, Err: req.Err}
}
