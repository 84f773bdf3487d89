package message

import (
	"time"

	"github.com/lllypuk/murmur/internal/domain/errs"
)

// ReactionType тип реакции на сообщение
type ReactionType string

// Допустимые типы реакций.
const (
	ReactionLike    ReactionType = "like"
	ReactionDislike ReactionType = "dislike"
)

// ParseReactionType парсит строку в ReactionType
func ParseReactionType(s string) (ReactionType, error) {
	switch ReactionType(s) {
	case ReactionLike:
		return ReactionLike, nil
	case ReactionDislike:
		return ReactionDislike, nil
	default:
		return "", errs.ErrInvalidInput
	}
}

// Reaction представляет одну реакцию на сообщение
type Reaction struct {
	reactionType ReactionType
	at           time.Time
}

// NewReaction создает новую реакцию.
// Тип валидируется на входе через ParseReactionType.
func NewReaction(reactionType ReactionType, at time.Time) Reaction {
	return Reaction{
		reactionType: reactionType,
		at:           at,
	}
}

// Type возвращает тип реакции
func (r Reaction) Type() ReactionType {
	return r.reactionType
}

// At возвращает время добавления реакции
func (r Reaction) At() time.Time {
	return r.at
}
