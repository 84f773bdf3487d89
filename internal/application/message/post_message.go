package message

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/lllypuk/murmur/internal/domain/errs"
	"github.com/lllypuk/murmur/internal/domain/event"
	messagedomain "github.com/lllypuk/murmur/internal/domain/message"
)

// PostMessageUseCase handles публикацию сообщений
type PostMessageUseCase struct {
	store    Store
	eventBus event.Bus
	logger   *slog.Logger
}

// NewPostMessageUseCase создает новый PostMessageUseCase
func NewPostMessageUseCase(store Store, eventBus event.Bus) *PostMessageUseCase {
	return &PostMessageUseCase{
		store:    store,
		eventBus: eventBus,
		logger:   slog.Default(),
	}
}

// Execute выполняет публикацию сообщения
func (uc *PostMessageUseCase) Execute(
	ctx context.Context,
	cmd PostMessageCommand,
) (messagedomain.Projection, error) {
	// validation
	if err := uc.validate(cmd); err != nil {
		return messagedomain.Projection{}, err
	}

	// Запись в журнал: ID и временную метку назначает хранилище
	projection, err := uc.store.Append(ctx, cmd.Sender, cmd.Content)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidInput) {
			return messagedomain.Projection{}, ErrContentRequired
		}
		return messagedomain.Projection{}, fmt.Errorf("failed to append message: %w", err)
	}

	// Publishing event
	evt := messagedomain.NewCreated(projection, event.NewMetadata(projection.Sender))
	if pubErr := uc.eventBus.Publish(ctx, evt); pubErr != nil {
		uc.logger.Warn("failed to publish message.created event",
			slog.String("message_id", projection.ID.String()),
			slog.Any("error", pubErr),
		)
	}

	return projection, nil
}

func (uc *PostMessageUseCase) validate(cmd PostMessageCommand) error {
	if strings.TrimSpace(cmd.Content) == "" {
		return ErrContentRequired
	}
	if utf8.RuneCountInString(cmd.Content) > MaxContentLength {
		return ErrContentTooLong
	}
	return nil
}
