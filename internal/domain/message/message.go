package message

import (
	"strings"

	"github.com/lllypuk/murmur/internal/domain/errs"
	"github.com/lllypuk/murmur/internal/domain/uuid"
)

// DefaultSender используется, когда отправитель не указан
const DefaultSender = "Anonymous"

// Message представляет сообщение в общем логе чата.
// Timestamp назначается хранилищем (миллисекунды Unix-эпохи) и
// не убывает в порядке создания.
type Message struct {
	id        uuid.UUID
	sender    string
	content   string
	timestamp int64
	reactions []Reaction
}

// NewMessage создает новое сообщение.
// Пустой content недопустим; пустой sender заменяется на DefaultSender.
func NewMessage(sender, content string, timestamp int64) (*Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errs.ErrInvalidInput
	}

	sender = strings.TrimSpace(sender)
	if sender == "" {
		sender = DefaultSender
	}

	return &Message{
		id:        uuid.NewUUID(),
		sender:    sender,
		content:   content,
		timestamp: timestamp,
		reactions: make([]Reaction, 0),
	}, nil
}

// AddReaction добавляет реакцию.
// Реакции никогда не удаляются и не дедуплицируются: каждая учитывается.
func (m *Message) AddReaction(r Reaction) {
	m.reactions = append(m.reactions, r)
}

// ID возвращает идентификатор сообщения
func (m *Message) ID() uuid.UUID {
	return m.id
}

// Sender возвращает имя отправителя
func (m *Message) Sender() string {
	return m.sender
}

// Content возвращает текст сообщения
func (m *Message) Content() string {
	return m.content
}

// Timestamp возвращает время создания (миллисекунды Unix-эпохи)
func (m *Message) Timestamp() int64 {
	return m.timestamp
}

// Reactions возвращает копию списка реакций в порядке поступления
func (m *Message) Reactions() []Reaction {
	out := make([]Reaction, len(m.reactions))
	copy(out, m.reactions)
	return out
}
