package dispatch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/aschepis/llmrelay/llm"
)

// Config carries everything a unit needs besides the adapter. Zero fields get
// the package defaults filled in by NewUnit/NewStreamUnit.
type Config struct {
	// Endpoint is the provider URL the unit POSTs to.
	Endpoint string
	// APIKey, when set, is sent as a bearer token.
	APIKey string
	// Retries is the total attempt budget for transport failures
	// (default 3). Provider and protocol errors are never retried.
	Retries int
	// Lifetime is the absolute timer for the whole exchange, covering gate
	// waits, retries, and backoff (default 5 minutes; 60 seconds for
	// streams).
	Lifetime time.Duration
	// RetryWait is the initial backoff between transport-failure attempts
	// (default 500ms, growing exponentially).
	RetryWait time.Duration
	// Gate optionally throttles the prepared call. See Gate.
	Gate Gate
	// HTTPClient defaults to a client with no request timeout of its own;
	// the lifetime context bounds every call.
	HTTPClient *http.Client
	// Supervisor, when set, receives the original request if the lifetime
	// timer fires, so a supervising layer can decide on re-submission.
	// The channel must be consumed, or the unit's goroutine will not exit.
	// When nil, timeouts are reported to the caller like any failure.
	Supervisor chan<- *llm.Request
	Logger     zerolog.Logger
}

func (cfg *Config) fillDefaults(lifetime time.Duration) {
	if cfg.Retries <= 0 {
		cfg.Retries = llm.DefaultRetries
	}
	if cfg.Lifetime <= 0 {
		cfg.Lifetime = lifetime
	}
	if cfg.RetryWait <= 0 {
		cfg.RetryWait = 500 * time.Millisecond
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
}

// Unit performs one-shot exchanges. The Unit value itself is stateless
// configuration and may be used for any number of concurrent Submit calls;
// each submitted request is exclusively owned by the goroutine serving it.
type Unit struct {
	cfg     Config
	adapter llm.Adapter
	logger  zerolog.Logger
}

// NewUnit creates a dispatch unit for one protocol family.
func NewUnit(adapter llm.Adapter, cfg Config) *Unit {
	cfg.fillDefaults(llm.DefaultLifetime)
	return &Unit{
		cfg:     cfg,
		adapter: adapter,
		logger:  cfg.Logger.With().Str("component", "dispatch").Logger(),
	}
}

// Submit starts the exchange for req. Exactly one terminal reply is
// delivered: the populated request to replyTo on success or failure, or the
// original request to the supervisor channel if the lifetime timer fires.
// replyTo must have capacity for the reply (or a reader), or the unit's
// goroutine will not exit.
func (u *Unit) Submit(req *llm.Request, replyTo chan<- *llm.Request) {
	go u.run(req, replyTo)
}

func (u *Unit) run(req *llm.Request, replyTo chan<- *llm.Request) {
	logger := u.logger.With().Str("request", req.ID).Logger()

	ctx, cancel := context.WithTimeout(context.Background(), u.cfg.Lifetime)
	defer cancel()

	payload, err := u.adapter.Encode(req, false)
	if err != nil {
		req.Fail(asLLMError(err))
		replyTo <- req
		return
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = u.cfg.RetryWait

	for attempt := 1; ; attempt++ {
		body, xerr := u.exchange(ctx, payload)
		if xerr != nil {
			if xerr.Type == llm.ErrorTypeTimeout {
				u.expire(req, replyTo, logger)
				return
			}
			if !xerr.Retryable || attempt >= u.cfg.Retries {
				logger.Warn().Int("attempts", attempt).Err(xerr).Msg("request failed")
				req.Fail(xerr)
				replyTo <- req
				return
			}
			wait := bo.NextBackOff()
			logger.Debug().Int("attempt", attempt).Dur("wait", wait).Err(xerr).Msg("transport failure, retrying")
			select {
			case <-time.After(wait):
				continue
			case <-ctx.Done():
				u.expire(req, replyTo, logger)
				return
			}
		}

		res, derr := u.adapter.Decode(body)
		if derr != nil {
			lerr := asLLMError(derr)
			logger.Warn().Str("type", string(lerr.Type)).Err(lerr).Msg("exchange failed")
			req.Fail(lerr)
			replyTo <- req
			return
		}

		req.Complete(res)
		replyTo <- req
		return
	}
}

// exchange routes one attempt through the gate (when configured) and the
// network. It returns the raw response body, or a transport/timeout error.
func (u *Unit) exchange(ctx context.Context, payload []byte) ([]byte, *llm.Error) {
	if u.cfg.Gate != nil {
		call := NewCall(payload)
		u.cfg.Gate.Route(call)
		select {
		case rep := <-call.Reply:
			if rep.Kind == GateDone {
				return rep.Body, rep.Err
			}
			// GateProceed: fall through and execute.
		case <-ctx.Done():
			return nil, llm.NewTimeoutError("gate did not respond")
		}
	}
	return u.perform(ctx, payload)
}

// perform executes the HTTP POST. The response body is returned for any
// status code: provider error envelopes ride on 4xx responses and are the
// adapter's to interpret.
func (u *Unit) perform(ctx context.Context, payload []byte) ([]byte, *llm.Error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, llm.NewTransportError("building request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if u.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+u.cfg.APIKey)
	}

	resp, err := u.cfg.HTTPClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, llm.NewTimeoutError("lifetime exceeded during exchange")
		}
		return nil, llm.NewTransportError("performing request", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, llm.NewTimeoutError("lifetime exceeded reading response")
		}
		return nil, llm.NewTransportError("reading response body", err)
	}
	return body, nil
}

// expire handles a fired lifetime timer: the original request goes to the
// supervisor so a higher layer may re-submit it, decoupling "the unit gave up
// waiting" from "the caller's request failed".
func (u *Unit) expire(req *llm.Request, replyTo chan<- *llm.Request, logger zerolog.Logger) {
	logger.Warn().Msg("provider did not respond, stopping unit")
	req.Fail(llm.NewTimeoutError("lifetime exceeded"))
	if u.cfg.Supervisor != nil {
		u.cfg.Supervisor <- req
		return
	}
	replyTo <- req
}

// asLLMError keeps adapter-typed errors intact and wraps anything else as a
// protocol error.
func asLLMError(err error) *llm.Error {
	var lerr *llm.Error
	if errors.As(err, &lerr) {
		return lerr
	}
	return llm.NewProtocolError("unexpected adapter failure", err)
}
