package core

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/fitlink/fitlink-go/pkg/interfaces"
	"github.com/fitlink/fitlink-go/utils"
)

// SessionRecorder is the local session history collaborator. A nil recorder
// disables local history; the transport behaviour is unchanged either way.
type SessionRecorder interface {
	SessionStarted(sportType, deviceUUID, requestID string) error
	SessionSaved(sportType, deviceUUID, requestID string) error
}

// Client is the realtime client for the fitness server: one connection
// manager, one dispatcher, one event bus, plus the session lifecycle
// operations the outer surfaces call.
type Client struct {
	config   Config
	conn     *Conn
	bus      *Bus
	identity IdentitySource
	history  SessionRecorder
	logger   *slog.Logger
}

// Status is a snapshot of the client for outer surfaces.
type Status struct {
	State             ConnState
	Connected         bool
	HasIdentity       bool
	HasPairedDevice   bool
	TransportProtocol string
}

// NewClient wires the client together. The identity source gates connecting
// and supplies the handshake and session identifiers; history may be nil.
func NewClient(cfg Config, identity IdentitySource, history SessionRecorder, log *slog.Logger) (*Client, error) {
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if identity == nil {
		return nil, errors.New("identity source cannot be nil")
	}

	interval, err := cfg.ReconnectInterval()
	if err != nil {
		return nil, err
	}

	bus := NewBus()
	dispatcher := NewDispatcher(log)
	NewHandlers(bus, log).RegisterAll(dispatcher)

	factory := func() (interfaces.TransportProtocol, error) {
		user, ok := identity.UserUUID()
		if !ok {
			return nil, ErrNoIdentity
		}
		return NewProtocol(cfg, user)
	}

	conn := NewConn(ConnOptions{
		Factory:     factory,
		Identity:    identity,
		Dispatcher:  dispatcher,
		Bus:         bus,
		Logger:      log,
		MaxAttempts: cfg.Reconnect.MaxAttempts,
		Retry:       utils.NewFixedInterval(interval),
	})

	return &Client{
		config:   cfg,
		conn:     conn,
		bus:      bus,
		identity: identity,
		history:  history,
		logger:   log,
	}, nil
}

// Connect opens the server connection. No-op while already connected or
// reconnecting, and while no user identity is stored.
func (c *Client) Connect() { c.conn.Connect() }

// Disconnect closes the connection and cancels pending reconnection.
func (c *Client) Disconnect() { c.conn.Disconnect() }

// Reconnect is the manual recovery entry point after reconnect exhaustion.
func (c *Client) Reconnect() { c.conn.Reconnect() }

// Send pushes one frame if the connection is open. See Conn.Send.
func (c *Client) Send(frame *OutboundFrame) bool { return c.conn.Send(frame) }

// Subscribe registers a consumer for decoded events of one kind.
func (c *Client) Subscribe(kind EventKind) (<-chan Event, func()) {
	return c.bus.Subscribe(kind)
}

// StartSession asks the server to begin an exercise session on the paired
// device and opens a local history record.
func (c *Client) StartSession(sportType string) error {
	frame, device, err := c.sessionFrame(TypeStartSession, sportType)
	if err != nil {
		return err
	}
	if !c.conn.Send(frame) {
		return fmt.Errorf("start_session: %w", ErrSendRejected)
	}
	if c.history != nil {
		if err := c.history.SessionStarted(sportType, device, frame.ID); err != nil {
			c.logger.Warn("Failed to record session start", "error", err)
		}
	}
	return nil
}

// PauseSession asks the server to pause the running session.
func (c *Client) PauseSession(sportType string) error {
	frame, _, err := c.sessionFrame(TypePauseSession, sportType)
	if err != nil {
		return err
	}
	if !c.conn.Send(frame) {
		return fmt.Errorf("pause_session: %w", ErrSendRejected)
	}
	return nil
}

// SaveSession asks the server to persist the session and stamps the local
// history record.
func (c *Client) SaveSession(sportType string) error {
	frame, device, err := c.sessionFrame(TypeSaveSession, sportType)
	if err != nil {
		return err
	}
	if !c.conn.Send(frame) {
		return fmt.Errorf("save_session: %w", ErrSendRejected)
	}
	if c.history != nil {
		if err := c.history.SessionSaved(sportType, device, frame.ID); err != nil {
			c.logger.Warn("Failed to record session save", "error", err)
		}
	}
	return nil
}

func (c *Client) sessionFrame(frameType, sportType string) (*OutboundFrame, string, error) {
	device, ok := c.identity.DeviceUUID()
	if !ok {
		return nil, "", ErrNoPairedDevice
	}
	frame := NewOutboundFrame(frameType, SessionData{
		SportType:  sportType,
		DeviceUUID: device,
	})
	return frame, device, nil
}

// GetStatus returns the current client status.
func (c *Client) GetStatus() Status {
	_, hasUser := c.identity.UserUUID()
	_, hasDevice := c.identity.DeviceUUID()
	state := c.conn.State()
	return Status{
		State:             state,
		Connected:         state == StateOpen,
		HasIdentity:       hasUser,
		HasPairedDevice:   hasDevice,
		TransportProtocol: c.config.System.Network.Transport,
	}
}

// Close tears the client down.
func (c *Client) Close() error {
	c.logger.Info("Closing client connection")
	c.conn.Disconnect()
	return nil
}
