package message

import (
	"encoding/json"

	"github.com/lllypuk/murmur/internal/domain/event"
	"github.com/lllypuk/murmur/internal/domain/uuid"
)

const (
	// EventTypeMessageCreated событие создания сообщения
	EventTypeMessageCreated = "message.created"
	// EventTypeReactionAdded событие добавления реакции
	EventTypeReactionAdded = "message.reaction.added"
)

// Created событие создания сообщения.
// Payload содержит полную проекцию нового сообщения.
type Created struct {
	event.BaseEvent

	Message Projection
}

// NewCreated создает событие Created
func NewCreated(projection Projection, metadata event.Metadata) *Created {
	return &Created{
		BaseEvent: event.NewBaseEvent(EventTypeMessageCreated, projection.ID.String(), "Message", metadata),
		Message:   projection,
	}
}

// Payload возвращает JSON-представление проекции сообщения
func (e *Created) Payload() json.RawMessage {
	data, err := json.Marshal(e.Message)
	if err != nil {
		return nil
	}
	return data
}

// ReactionAdded событие добавления реакции.
// Payload содержит только пересчитанные счетчики, не саму реакцию.
type ReactionAdded struct {
	event.BaseEvent

	Tally Tally
}

// NewReactionAdded создает событие ReactionAdded
func NewReactionAdded(messageID uuid.UUID, tally Tally, metadata event.Metadata) *ReactionAdded {
	return &ReactionAdded{
		BaseEvent: event.NewBaseEvent(EventTypeReactionAdded, messageID.String(), "Message", metadata),
		Tally:     tally,
	}
}

// Payload возвращает JSON-представление счетчиков
func (e *ReactionAdded) Payload() json.RawMessage {
	data, err := json.Marshal(e.Tally)
	if err != nil {
		return nil
	}
	return data
}
