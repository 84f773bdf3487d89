package message

import (
	"context"
	"errors"
	"log/slog"

	"github.com/lllypuk/murmur/internal/domain/errs"
	"github.com/lllypuk/murmur/internal/domain/event"
	messagedomain "github.com/lllypuk/murmur/internal/domain/message"
)

// AddReactionUseCase обрабатывает добавление реакции к сообщению
type AddReactionUseCase struct {
	store    Store
	eventBus event.Bus
	logger   *slog.Logger
}

// NewAddReactionUseCase создает новый AddReactionUseCase
func NewAddReactionUseCase(store Store, eventBus event.Bus) *AddReactionUseCase {
	return &AddReactionUseCase{
		store:    store,
		eventBus: eventBus,
		logger:   slog.Default(),
	}
}

// Execute выполняет добавление реакции
func (uc *AddReactionUseCase) Execute(
	ctx context.Context,
	cmd AddReactionCommand,
) (messagedomain.Tally, error) {
	// validation
	reactionType, err := messagedomain.ParseReactionType(cmd.Type)
	if err != nil {
		return messagedomain.Tally{}, ErrInvalidReactionType
	}
	if cmd.MessageID == "" {
		return messagedomain.Tally{}, ErrMessageNotFound
	}

	tally, err := uc.store.AddReaction(ctx, cmd.MessageID, reactionType)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return messagedomain.Tally{}, ErrMessageNotFound
		}
		return messagedomain.Tally{}, err
	}

	// Publishing event
	evt := messagedomain.NewReactionAdded(tally.ID, tally, event.NewMetadata(""))
	if pubErr := uc.eventBus.Publish(ctx, evt); pubErr != nil {
		uc.logger.Warn("failed to publish message.reaction.added event",
			slog.String("message_id", tally.ID.String()),
			slog.Any("error", pubErr),
		)
	}

	return tally, nil
}
