package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	messagedomain "github.com/lllypuk/murmur/internal/domain/message"
	"github.com/lllypuk/murmur/internal/domain/uuid"
)

// Default session configuration constants.
const (
	defaultReadBufferSize  = 1024
	defaultWriteBufferSize = 1024
	defaultPingInterval    = 30 * time.Second
	defaultPongWait        = 60 * time.Second
	defaultWriteWait       = 10 * time.Second
	defaultMaxMessageSize  = 65536
	defaultSendBufferSize  = 256
)

// ChatService defines the operations a session can invoke on behalf of
// its client. Declared on the consumer side.
type ChatService interface {
	// PostMessage appends a message and returns its projection.
	PostMessage(ctx context.Context, sender, content string) (messagedomain.Projection, error)

	// AddReaction records a reaction and returns the updated counters.
	AddReaction(ctx context.Context, messageID, reactionType string) (messagedomain.Tally, error)

	// ListSince returns all messages with timestamp >= since.
	ListSince(ctx context.Context, since int64) ([]messagedomain.Projection, error)
}

// SessionConfig holds configuration for WebSocket sessions.
type SessionConfig struct {
	// ReadBufferSize is the size of the read buffer.
	ReadBufferSize int

	// WriteBufferSize is the size of the write buffer.
	WriteBufferSize int

	// PingInterval is the interval for sending ping messages.
	PingInterval time.Duration

	// PongWait is the maximum time to wait for a pong response.
	PongWait time.Duration

	// WriteWait is the maximum time to wait for a write operation.
	WriteWait time.Duration

	// MaxMessageSize is the maximum allowed inbound message size.
	MaxMessageSize int64

	// SendBufferSize is the capacity of the outbound queue.
	SendBufferSize int
}

// DefaultSessionConfig returns sensible default configuration.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		ReadBufferSize:  defaultReadBufferSize,
		WriteBufferSize: defaultWriteBufferSize,
		PingInterval:    defaultPingInterval,
		PongWait:        defaultPongWait,
		WriteWait:       defaultWriteWait,
		MaxMessageSize:  defaultMaxMessageSize,
		SendBufferSize:  defaultSendBufferSize,
	}
}

// Session represents a single WebSocket connection.
type Session struct {
	// hub is the hub this session belongs to.
	hub *Hub

	// conn is the underlying WebSocket connection.
	conn *websocket.Conn

	// send is the channel for outgoing envelopes.
	send chan []byte

	// service executes chat operations for inbound envelopes.
	service ChatService

	// id identifies the session in logs.
	id uuid.UUID

	// config holds session configuration.
	config SessionConfig

	// logger for structured logging.
	logger *slog.Logger

	// closed indicates if the connection has been closed.
	closed bool

	// closedMu protects the closed flag.
	closedMu sync.RWMutex
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSessionConfig sets the session configuration.
func WithSessionConfig(config SessionConfig) SessionOption {
	return func(s *Session) {
		s.config = config
	}
}

// WithSessionLogger sets the logger for the session.
func WithSessionLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// NewSession creates a new WebSocket session.
func NewSession(hub *Hub, conn *websocket.Conn, service ChatService, opts ...SessionOption) *Session {
	s := &Session{
		hub:     hub,
		conn:    conn,
		service: service,
		id:      uuid.NewUUID(),
		config:  DefaultSessionConfig(),
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.send = make(chan []byte, s.config.SendBufferSize)

	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id.String()
}

// IsClosed returns whether the session connection has been closed.
func (s *Session) IsClosed() bool {
	s.closedMu.RLock()
	defer s.closedMu.RUnlock()
	return s.closed
}

// WriteDirect writes an envelope straight to the connection, bypassing
// the send queue. Only valid before WritePump has started; used for the
// history snapshot so it always precedes queued deltas.
func (s *Session) WriteDirect(envelope []byte) error {
	if err := s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteWait)); err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, envelope)
}

// ReadPump reads envelopes from the WebSocket connection.
// It should be run as a goroutine.
func (s *Session) ReadPump() {
	defer func() {
		s.hub.Unregister(s)
	}()

	s.conn.SetReadLimit(s.config.MaxMessageSize)

	if err := s.conn.SetReadDeadline(time.Now().Add(s.config.PongWait)); err != nil {
		s.logger.Error("failed to set read deadline", slog.String("error", err.Error()))
		return
	}

	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.config.PongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.Warn("websocket read error",
					slog.String("session_id", s.ID()),
					slog.String("error", err.Error()),
				)
			}
			return
		}

		s.handleInbound(data)
	}
}

// WritePump writes envelopes to the WebSocket connection.
// It should be run as a goroutine.
func (s *Session) WritePump() {
	ticker := time.NewTicker(s.config.PingInterval)
	defer func() {
		ticker.Stop()
		s.Close()
	}()

	for {
		select {
		case envelope, ok := <-s.send:
			if err := s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteWait)); err != nil {
				s.logger.Error("failed to set write deadline", slog.String("error", err.Error()))
				return
			}

			if !ok {
				// Hub closed the channel
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := s.conn.WriteMessage(websocket.TextMessage, envelope); err != nil {
				s.logger.Warn("websocket write error",
					slog.String("session_id", s.ID()),
					slog.String("error", err.Error()),
				)
				return
			}

		case <-ticker.C:
			if err := s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteWait)); err != nil {
				s.logger.Error("failed to set write deadline", slog.String("error", err.Error()))
				return
			}

			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleInbound processes an envelope received from the client.
// Validation failures are answered with an error envelope to this
// session only; the socket stays open.
func (s *Session) handleInbound(data []byte) {
	var env InboundEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		s.logger.Warn("invalid client envelope",
			slog.String("session_id", s.ID()),
			slog.String("error", err.Error()),
		)
		s.sendError("invalid message format")
		return
	}

	ctx := context.Background()

	switch env.Type {
	case EnvelopeTypeSync:
		messages, err := s.service.ListSince(ctx, env.SinceCursor())
		if err != nil {
			s.sendError(errorText(err))
			return
		}
		s.sendJSON(NewHistoryEnvelope(messages))

	case EnvelopeTypeChat:
		// Успешный результат не отправляется напрямую: доставка идет
		// через broadcast всем сессиям, включая отправителя.
		if _, err := s.service.PostMessage(ctx, env.Sender, env.Content); err != nil {
			s.sendError(errorText(err))
		}

	case EnvelopeTypeReaction:
		if _, err := s.service.AddReaction(ctx, env.ID, env.Reaction); err != nil {
			s.sendError(errorText(err))
		}

	default:
		s.logger.Debug("unknown envelope type",
			slog.String("session_id", s.ID()),
			slog.String("type", env.Type),
		)
		s.sendError("unknown message type: " + env.Type)
	}
}

// sendJSON marshals an envelope and queues it for this session.
func (s *Session) sendJSON(envelope any) {
	data, err := json.Marshal(envelope)
	if err != nil {
		s.logger.Error("failed to marshal envelope", slog.String("error", err.Error()))
		return
	}
	s.Send(data)
}

// sendError sends an error envelope to this session only.
func (s *Session) sendError(message string) {
	s.sendJSON(NewErrorEnvelope(message))
}

// Send queues an envelope for the session. Envelopes for a closed or
// saturated session are dropped.
func (s *Session) Send(envelope []byte) {
	if !s.TrySend(envelope) {
		s.logger.Warn("dropping envelope, session closed or buffer full",
			slog.String("session_id", s.ID()),
		)
	}
}

// TrySend queues an envelope without blocking. It reports false when the
// session is closed or its buffer is full. The closed flag is checked
// under the same lock Close takes, so the send can never race with the
// channel being closed.
func (s *Session) TrySend(envelope []byte) bool {
	s.closedMu.RLock()
	defer s.closedMu.RUnlock()

	if s.closed {
		return false
	}

	select {
	case s.send <- envelope:
		return true
	default:
		return false
	}
}

// Close closes the session connection.
func (s *Session) Close() {
	s.closedMu.Lock()
	defer s.closedMu.Unlock()

	if s.closed {
		return
	}
	s.closed = true

	close(s.send)
	_ = s.conn.Close()

	s.logger.Debug("session connection closed",
		slog.String("session_id", s.ID()),
	)
}

// errorText picks the client-facing message for an error.
func errorText(err error) string {
	var httpErr interface{ HTTPMessage() string }
	if errors.As(err, &httpErr) {
		return httpErr.HTTPMessage()
	}
	return err.Error()
}
