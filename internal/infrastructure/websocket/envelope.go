package websocket

import (
	"encoding/json"
	"strconv"

	messagedomain "github.com/lllypuk/murmur/internal/domain/message"
)

// Envelope types of the wire protocol.
const (
	EnvelopeTypeSync     = "sync"
	EnvelopeTypeChat     = "chat"
	EnvelopeTypeReaction = "reaction"
	EnvelopeTypeHistory  = "history"
	EnvelopeTypeError    = "error"
)

// InboundEnvelope represents a message from client to server.
type InboundEnvelope struct {
	Type     string          `json:"type"`
	Since    json.RawMessage `json:"since,omitempty"`
	Sender   string          `json:"sender,omitempty"`
	Content  string          `json:"content,omitempty"`
	ID       string          `json:"id,omitempty"`
	Reaction string          `json:"reaction,omitempty"`
}

// SinceCursor decodes the sync cursor leniently: numbers and numeric
// strings are accepted, anything else degenerates to 0 (full history).
func (e InboundEnvelope) SinceCursor() int64 {
	if len(e.Since) == 0 {
		return 0
	}

	var num json.Number
	if err := json.Unmarshal(e.Since, &num); err == nil {
		if v, intErr := num.Int64(); intErr == nil && v > 0 {
			return v
		}
		if f, floatErr := num.Float64(); floatErr == nil && f > 0 {
			return int64(f)
		}
		return 0
	}

	var s string
	if err := json.Unmarshal(e.Since, &s); err == nil {
		if v, parseErr := strconv.ParseInt(s, 10, 64); parseErr == nil && v > 0 {
			return v
		}
	}
	return 0
}

// HistoryEnvelope carries the snapshot sent on connect and sync.
type HistoryEnvelope struct {
	Type     string                     `json:"type"`
	Messages []messagedomain.Projection `json:"messages"`
}

// NewHistoryEnvelope wraps projections into a history envelope.
func NewHistoryEnvelope(messages []messagedomain.Projection) HistoryEnvelope {
	if messages == nil {
		messages = []messagedomain.Projection{}
	}
	return HistoryEnvelope{Type: EnvelopeTypeHistory, Messages: messages}
}

// ChatEnvelope carries a newly created message delta.
// The embedded projection is flattened into the envelope object.
type ChatEnvelope struct {
	Type string `json:"type"`
	messagedomain.Projection
}

// NewChatEnvelope wraps a projection into a chat delta.
func NewChatEnvelope(projection messagedomain.Projection) ChatEnvelope {
	return ChatEnvelope{Type: EnvelopeTypeChat, Projection: projection}
}

// ReactionEnvelope carries updated counters after a reaction.
type ReactionEnvelope struct {
	Type string `json:"type"`
	messagedomain.Tally
}

// NewReactionEnvelope wraps a tally into a reaction delta.
func NewReactionEnvelope(tally messagedomain.Tally) ReactionEnvelope {
	return ReactionEnvelope{Type: EnvelopeTypeReaction, Tally: tally}
}

// ErrorEnvelope is sent only to the session that caused the error.
type ErrorEnvelope struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewErrorEnvelope wraps an error text into an error envelope.
func NewErrorEnvelope(message string) ErrorEnvelope {
	return ErrorEnvelope{Type: EnvelopeTypeError, Message: message}
}
