package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Hostella/service-admin/internal/hostella"
)

// Event names delivered by the Hostella socket.
const (
	EventJoin         = "join"
	EventNotification = "notification"
	EventChatMessage  = "chat:message"
	EventBookingEvent = "booking:updated"
)

const writeWait = 10 * time.Second

// Frame is one JSON message on the socket.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Handler processes the data of one event.
type Handler func(data json.RawMessage) error

// Option configures a Manager.
type Option func(*Manager)

// WithDialer overrides the websocket dialer.
func WithDialer(d *websocket.Dialer) Option {
	return func(m *Manager) { m.dialer = d }
}

// WithBackOff overrides the reconnection policy. The factory is called once per
// reconnection cycle.
func WithBackOff(fn func() backoff.BackOff) Option {
	return func(m *Manager) { m.newBackOff = fn }
}

// Manager owns the single socket connection of the service. Handlers registered with
// OnMessage survive reconnects.
type Manager struct {
	url     string
	adminID string
	tokens  hostella.TokenSource
	dialer  *websocket.Dialer
	logger  *zap.Logger

	newBackOff func() backoff.BackOff

	mu       sync.Mutex
	conn     *websocket.Conn
	handlers map[string][]Handler
	cancel   context.CancelFunc
	done     chan struct{}

	writeMu sync.Mutex
}

// NewManager creates a Manager for the socket at rawURL. http(s) URLs are converted to
// ws(s).
func NewManager(rawURL, adminID string, tokens hostella.TokenSource, logger *zap.Logger, opts ...Option) *Manager {
	m := &Manager{
		url:        socketURL(rawURL),
		adminID:    adminID,
		tokens:     tokens,
		dialer:     websocket.DefaultDialer,
		logger:     logger,
		newBackOff: defaultBackOff,
		handlers:   make(map[string][]Handler),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 0
	return b
}

func socketURL(raw string) string {
	switch {
	case strings.HasPrefix(raw, "https://"):
		return "wss://" + strings.TrimPrefix(raw, "https://")
	case strings.HasPrefix(raw, "http://"):
		return "ws://" + strings.TrimPrefix(raw, "http://")
	}
	return raw
}

// OnMessage registers fn for event. Several handlers may share an event.
func (m *Manager) OnMessage(event string, fn Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[event] = append(m.handlers[event], fn)
}

// Connect dials the socket, joins the admin room and starts the read loop. A second
// call while connected is a no-op.
func (m *Manager) Connect(ctx context.Context) error {
	m.mu.Lock()
	if m.cancel != nil {
		m.mu.Unlock()
		return nil
	}
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})
	m.mu.Unlock()

	conn, err := m.dialWithRetry(runCtx)
	if err != nil {
		cancel()
		m.mu.Lock()
		m.cancel = nil
		close(m.done)
		m.mu.Unlock()
		return err
	}

	go m.run(runCtx, conn)
	return nil
}

// Disconnect closes the connection and stops reconnecting.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel = nil
	m.mu.Unlock()
	if cancel == nil {
		return
	}

	cancel()
	m.mu.Lock()
	conn := m.conn
	m.mu.Unlock()
	if conn != nil {
		m.writeMu.Lock()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		m.writeMu.Unlock()
		_ = conn.Close()
	}
	<-done
	m.logger.Info("socket disconnected")
}

// Connected reports whether a connection is currently open.
func (m *Manager) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conn != nil
}

// Send writes one frame on the current connection.
func (m *Manager) Send(event string, data interface{}) error {
	m.mu.Lock()
	conn := m.conn
	m.mu.Unlock()
	if conn == nil {
		return errors.New("socket is not connected")
	}
	return m.write(conn, event, data)
}

func (m *Manager) write(conn *websocket.Conn, event string, data interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode %s frame: %w", event, err)
	}
	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(Frame{Event: event, Data: raw})
}

func (m *Manager) run(ctx context.Context, conn *websocket.Conn) {
	defer close(m.done)
	for {
		m.readLoop(conn)
		m.clearConn()
		_ = conn.Close()
		if ctx.Err() != nil {
			return
		}

		m.logger.Warn("socket connection lost, reconnecting")
		next, err := m.dialWithRetry(ctx)
		if err != nil {
			if ctx.Err() == nil {
				m.logger.Error("socket reconnection abandoned", zap.Error(err))
			}
			return
		}
		conn = next
	}
}

func (m *Manager) readLoop(conn *websocket.Conn) {
	for {
		var frame Frame
		if err := conn.ReadJSON(&frame); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				m.logger.Debug("socket read ended", zap.Error(err))
			}
			return
		}
		m.dispatch(frame)
	}
}

func (m *Manager) dispatch(frame Frame) {
	m.mu.Lock()
	handlers := append([]Handler{}, m.handlers[frame.Event]...)
	m.mu.Unlock()
	for _, fn := range handlers {
		if err := fn(frame.Data); err != nil {
			m.logger.Warn("socket handler failed", zap.String("event", frame.Event), zap.Error(err))
		}
	}
}

// dialWithRetry dials until it succeeds, the context ends, or the server refuses the
// token.
func (m *Manager) dialWithRetry(ctx context.Context) (*websocket.Conn, error) {
	var conn *websocket.Conn
	op := func() error {
		c, err := m.dial(ctx)
		if err != nil {
			return err
		}
		conn = c
		return nil
	}
	notify := func(err error, wait time.Duration) {
		m.logger.Warn("socket dial failed", zap.Error(err), zap.Duration("retry_in", wait))
	}
	if err := backoff.RetryNotify(op, backoff.WithContext(m.newBackOff(), ctx), notify); err != nil {
		return nil, err
	}

	if m.adminID != "" {
		if err := m.write(conn, EventJoin, map[string]string{"room": "admin:" + m.adminID}); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to join admin room: %w", err)
		}
	}
	if !m.setConn(ctx, conn) {
		_ = conn.Close()
		return nil, ctx.Err()
	}
	m.logger.Info("socket connected", zap.String("url", m.url))
	return conn, nil
}

func (m *Manager) dial(ctx context.Context) (*websocket.Conn, error) {
	header := http.Header{}
	if m.tokens != nil {
		token, err := m.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read token: %w", err)
		}
		if token != "" {
			header.Set("Authorization", "Bearer "+token)
		}
	}

	conn, resp, err := m.dialer.DialContext(ctx, m.url, header)
	if err != nil {
		if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			return nil, backoff.Permanent(fmt.Errorf("socket rejected token: %s", resp.Status))
		}
		return nil, err
	}
	return conn, nil
}

// setConn publishes conn unless ctx has ended, so Disconnect never misses a late dial.
func (m *Manager) setConn(ctx context.Context, conn *websocket.Conn) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ctx.Err() != nil {
		return false
	}
	m.conn = conn
	return true
}

func (m *Manager) clearConn() {
	m.mu.Lock()
	m.conn = nil
	m.mu.Unlock()
}
