package core

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/fitlink/fitlink-go/pkg/interfaces"
	"github.com/fitlink/fitlink-go/utils"
)

// ConnState describes the lifecycle of the single server connection.
type ConnState string

const (
	StateIdle         ConnState = "idle"
	StateConnecting   ConnState = "connecting"
	StateOpen         ConnState = "open"
	StateClosed       ConnState = "closed"
	StateReconnecting ConnState = "reconnecting"
	StateFailed       ConnState = "failed"
)

// TransportFactory creates a fresh transport for one connection attempt.
type TransportFactory func() (interfaces.TransportProtocol, error)

// IdentitySource is the stored-credential collaborator. Connect is gated on
// the user identity being present; session frames are gated on the paired
// device being present.
type IdentitySource interface {
	UserUUID() (string, bool)
	DeviceUUID() (string, bool)
}

// ConnOptions configures a Conn.
type ConnOptions struct {
	Factory     TransportFactory
	Identity    IdentitySource
	Dispatcher  *Dispatcher
	Bus         *Bus
	Logger      *slog.Logger
	MaxAttempts int
	// Retry decides the wait before each automatic reconnection attempt.
	// Defaults to a fixed 3 second interval.
	Retry utils.ReconnectStrategy
}

const (
	defaultMaxAttempts       = 5
	defaultReconnectInterval = 3 * time.Second
)

// Conn owns the single live transport to the server. It performs the
// identity handshake on open, detects loss through the transport's receive
// channel closing, and drives bounded automatic reconnection. All callers
// share one Conn; at most one live transport exists at any time.
type Conn struct {
	factory     TransportFactory
	identity    IdentitySource
	dispatcher  *Dispatcher
	bus         *Bus
	log         *slog.Logger
	maxAttempts int
	retry       utils.ReconnectStrategy

	mu           sync.Mutex
	transport    interfaces.TransportProtocol
	connecting   bool
	connected    bool
	reconnecting bool
	attempts     int
	retryTimer   *time.Timer
	// gen is bumped by Disconnect so an in-flight dial or a stale close
	// notification from a previous transport cannot resurrect the
	// connection after a manual teardown.
	gen uint64
}

func NewConn(opts ConnOptions) *Conn {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.Retry == nil {
		opts.Retry = utils.NewFixedInterval(defaultReconnectInterval)
	}
	return &Conn{
		factory:     opts.Factory,
		identity:    opts.Identity,
		dispatcher:  opts.Dispatcher,
		bus:         opts.Bus,
		log:         opts.Logger,
		maxAttempts: opts.MaxAttempts,
		retry:       opts.Retry,
	}
}

// Connect opens the transport if there is anything to do. It is a no-op when
// the connection is already open, a dial is in flight, or a reconnection
// cycle is waiting, and it does nothing at all when no user identity is
// stored: there is no point opening a socket before identity is known.
func (c *Conn) Connect() {
	c.mu.Lock()
	if c.connected || c.connecting || c.reconnecting {
		c.mu.Unlock()
		c.log.Debug("Connect ignored, connection already active")
		return
	}
	user, ok := c.identity.UserUUID()
	if !ok {
		c.mu.Unlock()
		c.log.Warn("Connect skipped, no stored user identity")
		return
	}
	c.connecting = true
	gen := c.gen
	c.mu.Unlock()

	c.publishState(StateConnecting)
	c.log.Info("Connecting to server")

	tp, err := c.factory()
	if err == nil {
		err = tp.Connect(context.Background())
	}
	if err != nil {
		c.log.Error("Failed to connect to server", "error", err)
		c.mu.Lock()
		c.connecting = false
		if c.gen == gen {
			c.scheduleReconnectLocked()
		}
		c.mu.Unlock()
		return
	}

	c.mu.Lock()
	if c.gen != gen {
		// Disconnected while the dial was in flight.
		c.mu.Unlock()
		tp.Close()
		return
	}
	c.transport = tp
	c.connecting = false
	c.connected = true
	c.attempts = 0
	c.retry.Reset()
	c.mu.Unlock()

	c.publishState(StateOpen)
	c.log.Info("Connected to server")

	go c.readLoop(tp)

	// Handshake: announce the user identity before anything else.
	if !c.Send(NewOutboundFrame(TypeInitUser, InitUserData{UserUUID: user})) {
		c.log.Error("Failed to send init message")
	}
}

// Send writes one frame if the connection is open. It returns false and
// performs no write otherwise; there is no retry and no queueing, the caller
// decides whether the domain action is worth repeating.
func (c *Conn) Send(frame *OutboundFrame) bool {
	if frame == nil {
		c.log.Warn("Send rejected, nil frame")
		return false
	}

	c.mu.Lock()
	tp := c.transport
	open := c.connected
	c.mu.Unlock()

	if !open || tp == nil {
		c.log.Warn("Send rejected, connection not open", "type", frame.Type)
		return false
	}

	data, err := json.Marshal(frame)
	if err != nil {
		c.log.Error("Failed to marshal frame", "type", frame.Type, "error", err)
		return false
	}
	if err := tp.Send(data); err != nil {
		c.log.Warn("Failed to send frame", "type", frame.Type, "error", err)
		return false
	}
	c.log.Debug("Sent frame", "type", frame.Type, "id", frame.ID)
	return true
}

// Disconnect tears the connection down and cancels any pending automatic
// reconnection. Idempotent.
func (c *Conn) Disconnect() {
	c.mu.Lock()
	c.gen++
	c.connected = false
	c.connecting = false
	c.reconnecting = false
	if c.retryTimer != nil {
		c.retryTimer.Stop()
		c.retryTimer = nil
	}
	tp := c.transport
	c.transport = nil
	c.mu.Unlock()

	if tp != nil {
		tp.Close()
		c.publishState(StateClosed)
		c.log.Info("Disconnected from server")
	}
}

// Reconnect is the manual override after the automatic budget is exhausted.
// It grants a fresh attempt budget and dials immediately, bypassing the
// backoff wait.
func (c *Conn) Reconnect() {
	c.mu.Lock()
	if c.connected {
		c.mu.Unlock()
		return
	}
	c.attempts = 0
	c.retry.Reset()
	c.reconnecting = false
	if c.retryTimer != nil {
		c.retryTimer.Stop()
		c.retryTimer = nil
	}
	c.mu.Unlock()

	c.log.Info("Manual reconnect requested")
	c.Connect()
}

// State reports the current connection state.
func (c *Conn) State() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.connected:
		return StateOpen
	case c.connecting:
		return StateConnecting
	case c.reconnecting:
		return StateReconnecting
	case c.attempts > c.maxAttempts:
		return StateFailed
	case c.attempts > 0 || c.gen > 0:
		return StateClosed
	default:
		return StateIdle
	}
}

// readLoop drains the transport until its receive channel closes, which is
// the loss-of-connection signal. Transport-level errors surface the same way
// and take the same path as a normal close.
func (c *Conn) readLoop(tp interfaces.TransportProtocol) {
	for msg := range tp.Receive() {
		c.handleFrame(msg.Payload)
	}
	c.handleClosed(tp)
}

// handleFrame decodes one inbound frame, strips the reserved control types,
// and forwards domain events to the dispatcher. A malformed frame is dropped;
// the connection stays up.
func (c *Conn) handleFrame(raw []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		c.log.Warn("Dropping malformed frame", "error", err)
		return
	}

	switch frame.Type {
	case TypeAck:
		c.log.Info("Server acknowledged", "id", frame.ID, "payload", string(frame.body()))
	case TypeError:
		var p errorPayload
		if err := json.Unmarshal(frame.body(), &p); err != nil {
			c.log.Error("Server error", "id", frame.ID, "payload", string(frame.body()))
			return
		}
		c.log.Error("Server error", "id", frame.ID, "message", p.Message)
	default:
		c.dispatcher.Dispatch(frame.Type, frame.body())
	}
}

// handleClosed runs when a transport's receive channel closes. It ignores
// transports that are no longer current (manual disconnect already released
// them) and otherwise starts a reconnection cycle unless one is in flight.
func (c *Conn) handleClosed(tp interfaces.TransportProtocol) {
	c.mu.Lock()
	if c.transport != tp {
		c.mu.Unlock()
		return
	}
	c.transport = nil
	c.connected = false
	c.connecting = false
	if c.reconnecting {
		c.mu.Unlock()
		tp.Close()
		return
	}
	c.publishState(StateClosed)
	c.log.Warn("Connection lost")
	c.scheduleReconnectLocked()
	c.mu.Unlock()
	tp.Close()
}

// scheduleReconnectLocked starts one wait-then-attempt cycle. Callers must
// hold c.mu and must have verified no cycle is already in flight. When the
// attempt budget is spent the connection settles in the failed state until a
// manual Reconnect.
func (c *Conn) scheduleReconnectLocked() {
	if c.reconnecting {
		return
	}
	c.attempts++
	if c.attempts > c.maxAttempts {
		c.log.Error("Reconnect attempts exhausted", "max_attempts", c.maxAttempts)
		c.publishState(StateFailed)
		return
	}
	c.reconnecting = true
	attempt := c.attempts
	delay := c.retry.NextDelay()
	c.retryTimer = time.AfterFunc(delay, func() {
		c.mu.Lock()
		if !c.reconnecting {
			// Disconnected during the wait.
			c.mu.Unlock()
			return
		}
		c.reconnecting = false
		c.retryTimer = nil
		c.mu.Unlock()
		c.Connect()
	})

	c.log.Warn("Scheduling reconnect",
		"attempt", attempt,
		"max_attempts", c.maxAttempts,
		"delay", delay)
	c.publishState(StateReconnecting)
}

func (c *Conn) publishState(state ConnState) {
	if c.bus != nil {
		c.bus.Publish(Event{Kind: EventConnState, Data: state})
	}
}
