package message

import (
	"time"

	"github.com/lllypuk/murmur/internal/domain/uuid"
)

// Projection клиентское представление сообщения: счетчики реакций
// вместо самого списка реакций.
type Projection struct {
	ID        uuid.UUID `json:"id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Timestamp int64     `json:"timestamp"`
	Likes     int       `json:"likes"`
	Dislikes  int       `json:"dislikes"`
}

// ReactionView одна реакция в клиентском представлении
type ReactionView struct {
	Type ReactionType `json:"type"`
	At   time.Time    `json:"at"`
}

// Detail расширенное представление для просмотра реакций сообщения
type Detail struct {
	ID        uuid.UUID      `json:"id"`
	Likes     int            `json:"likes"`
	Dislikes  int            `json:"dislikes"`
	Reactions []ReactionView `json:"reactions"`
}

// Tally агрегат счетчиков после добавления реакции
type Tally struct {
	ID       uuid.UUID `json:"id"`
	Likes    int       `json:"likes"`
	Dislikes int       `json:"dislikes"`
}

// Counts сворачивает список реакций в счетчики.
// Счетчики всегда вычисляются, никогда не хранятся отдельно от списка.
// Неизвестные типы игнорируются.
func Counts(m *Message) (likes, dislikes int) {
	for _, r := range m.reactions {
		switch r.reactionType {
		case ReactionLike:
			likes++
		case ReactionDislike:
			dislikes++
		}
	}
	return likes, dislikes
}

// ToProjection строит клиентское представление сообщения
func ToProjection(m *Message) Projection {
	likes, dislikes := Counts(m)
	return Projection{
		ID:        m.id,
		Sender:    m.sender,
		Content:   m.content,
		Timestamp: m.timestamp,
		Likes:     likes,
		Dislikes:  dislikes,
	}
}

// ToDetail строит расширенное представление с списком реакций
func ToDetail(m *Message) Detail {
	likes, dislikes := Counts(m)
	views := make([]ReactionView, 0, len(m.reactions))
	for _, r := range m.reactions {
		views = append(views, ReactionView{Type: r.reactionType, At: r.at})
	}
	return Detail{
		ID:        m.id,
		Likes:     likes,
		Dislikes:  dislikes,
		Reactions: views,
	}
}

// ToTally строит агрегат счетчиков для сообщения
func ToTally(m *Message) Tally {
	likes, dislikes := Counts(m)
	return Tally{
		ID:       m.id,
		Likes:    likes,
		Dislikes: dislikes,
	}
}
