package gateway

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/openduro/dwgate/internal/uwb"
)

// Loop timing constants. Both can be overridden via Config.
const (
	// defaultReceiveTimeout bounds one wait-for-frame operation.
	defaultReceiveTimeout = time.Second

	// defaultStartBackoff is the pause after a failed begin-receive, so a
	// not-ready transceiver cannot spin the loop into a tight retry.
	defaultStartBackoff = 250 * time.Millisecond
)

// Transceiver starts receive operations on the radio. The gateway is its
// exclusive owner and never issues overlapping receives.
type Transceiver interface {
	// BeginReceive is non-blocking; it arms the radio to listen for one
	// frame and returns a handle to wait on.
	BeginReceive() (ReceiveHandle, error)
}

// ReceiveHandle is one armed receive operation.
type ReceiveHandle interface {
	// Wait blocks until a frame arrives, the timeout elapses
	// (uwb.ErrReceiveTimeout), or the transceiver reports an error.
	Wait(timeout time.Duration) (uwb.Frame, error)
}

// EventSink is the structured-data channel outbound events are published
// on, distinct from the text-log channel.
type EventSink interface {
	Publish(event uwb.Event) error
}

// Logger is the leveled text-log channel.
type Logger interface {
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Config holds receive loop tuning.
type Config struct {
	// ReceiveTimeout bounds each wait-for-frame. Default: 1s.
	ReceiveTimeout time.Duration

	// StartBackoff is the pause after a failed begin-receive. Default: 250ms.
	StartBackoff time.Duration
}

// Stats holds loop counters for operators.
type Stats struct {
	FramesReceived  uint64
	EventsPublished uint64
	Timeouts        uint64
	StartFailures   uint64
	TransportErrors uint64
	FramesRejected  uint64
	DecodeFailures  uint64
}

// Options holds everything needed to construct a Gateway.
type Options struct {
	// Identity is this node's network identity; frames not addressed to it
	// are rejected.
	Identity uwb.Identity

	// Transceiver is the radio. Required.
	Transceiver Transceiver

	// Sink receives the decoded outbound events. Required.
	Sink EventSink

	// Logger is the leveled text channel. Required.
	Logger Logger

	// Config is optional loop tuning; zero fields take defaults.
	Config Config
}

// Gateway is the receive loop. Construct with New, then call Run; the loop
// processes frames one at a time until the context is cancelled.
type Gateway struct {
	cfg       Config
	trx       Transceiver
	sink      EventSink
	logger    Logger
	validator *uwb.Validator
	decoder   *uwb.Decoder

	framesReceived  atomic.Uint64
	eventsPublished atomic.Uint64
	timeouts        atomic.Uint64
	startFailures   atomic.Uint64
	transportErrors atomic.Uint64
	framesRejected  atomic.Uint64
	decodeFailures  atomic.Uint64
}

// New creates a Gateway.
func New(opts Options) (*Gateway, error) {
	if opts.Transceiver == nil {
		return nil, fmt.Errorf("transceiver is required")
	}
	if opts.Sink == nil {
		return nil, fmt.Errorf("event sink is required")
	}
	if opts.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	cfg := opts.Config
	if cfg.ReceiveTimeout == 0 {
		cfg.ReceiveTimeout = defaultReceiveTimeout
	}
	if cfg.StartBackoff == 0 {
		cfg.StartBackoff = defaultStartBackoff
	}

	return &Gateway{
		cfg:       cfg,
		trx:       opts.Transceiver,
		sink:      opts.Sink,
		logger:    opts.Logger,
		validator: uwb.NewValidator(opts.Identity, opts.Logger),
		decoder:   uwb.NewDecoder(opts.Logger),
	}, nil
}

// Run drives the receive loop until the context is cancelled. The loop has
// no terminal state of its own; cancellation is only observed between
// iterations, never inside the bounded wait-for-frame.
func (g *Gateway) Run(ctx context.Context) error {
	g.logger.Info("receive loop started",
		"receive_timeout", g.cfg.ReceiveTimeout.String(),
		"start_backoff", g.cfg.StartBackoff.String(),
	)

	for {
		select {
		case <-ctx.Done():
			g.logger.Info("receive loop stopped")
			return nil
		default:
		}

		g.iterate(ctx)
	}
}

// iterate runs one full pass of the state machine: Idle → AwaitingFrame →
// one of {Dispatch, TimedOut, HardwareError, StartFailed} → Idle.
func (g *Gateway) iterate(ctx context.Context) {
	rx, err := g.trx.BeginReceive()
	if err != nil {
		// StartFailed: warn and back off so a not-ready transceiver
		// cannot starve the process in a tight loop.
		g.startFailures.Add(1)
		g.logger.Warn("failed to start receive", "error", err)
		g.sleep(ctx, g.cfg.StartBackoff)
		return
	}

	frame, err := rx.Wait(g.cfg.ReceiveTimeout)
	switch {
	case errors.Is(err, uwb.ErrReceiveTimeout):
		// TimedOut: expected whenever no traffic is present. No backoff.
		g.timeouts.Add(1)
		g.logger.Info("receive timed out")
		return
	case err != nil:
		// HardwareError: immediate retry after logging the detail.
		g.transportErrors.Add(1)
		g.logger.Error("receive failed", "error", err)
		return
	}

	g.framesReceived.Add(1)
	g.dispatch(frame)
}

// dispatch pushes one received frame through the validate/decode pipeline
// and publishes the resulting event. Failed frames are dropped with one
// diagnostic naming the offending source address.
func (g *Gateway) dispatch(frame uwb.Frame) {
	event, err := g.process(frame)
	if err != nil {
		g.countReject(err)
		g.logger.Warn("dropped bad frame",
			"source", fmt.Sprintf("0x%04X", frame.Header.Source.ShortAddr),
			"error", err,
		)
		return
	}

	if err := g.sink.Publish(event); err != nil {
		g.logger.Error("failed to publish event", "kind", event.Kind(), "error", err)
		return
	}
	g.eventsPublished.Add(1)
}

// process validates the frame's addressing and decodes its payload.
// Reason-specific diagnostics are emitted by the validator and decoder
// themselves; the returned error classifies the outcome for the caller.
func (g *Gateway) process(frame uwb.Frame) (uwb.Event, error) {
	if err := g.validator.Validate(frame.Header); err != nil {
		return nil, err
	}
	return g.decoder.Decode(frame)
}

// countReject classifies a pipeline failure into the reject counters.
func (g *Gateway) countReject(err error) {
	if errors.Is(err, uwb.ErrDecodeFailed) {
		g.decodeFailures.Add(1)
		return
	}
	g.framesRejected.Add(1)
}

// sleep pauses for d or until the context is cancelled.
func (g *Gateway) sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

// Stats returns a snapshot of the loop counters.
func (g *Gateway) Stats() Stats {
	return Stats{
		FramesReceived:  g.framesReceived.Load(),
		EventsPublished: g.eventsPublished.Load(),
		Timeouts:        g.timeouts.Load(),
		StartFailures:   g.startFailures.Load(),
		TransportErrors: g.transportErrors.Load(),
		FramesRejected:  g.framesRejected.Load(),
		DecodeFailures:  g.decodeFailures.Load(),
	}
}
