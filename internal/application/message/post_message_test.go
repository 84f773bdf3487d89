package message_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lllypuk/murmur/internal/application/message"
	messagedomain "github.com/lllypuk/murmur/internal/domain/message"
)

func TestPostMessageUseCase_Success(t *testing.T) {
	store := message.NewMockStore()
	eventBus := message.NewMockEventBus()
	useCase := message.NewPostMessageUseCase(store, eventBus)

	cmd := message.PostMessageCommand{
		Sender:  "alice",
		Content: "Hello, world!",
	}

	result, err := useCase.Execute(context.Background(), cmd)

	require.NoError(t, err)
	assert.NotEmpty(t, result.ID)
	assert.Equal(t, "alice", result.Sender)
	assert.Equal(t, "Hello, world!", result.Content)
	assert.Zero(t, result.Likes)
	assert.Zero(t, result.Dislikes)

	// Сообщение сохранено
	assert.Len(t, store.Messages, 1)

	// Событие опубликовано
	require.Len(t, eventBus.Published, 1)
	evt, ok := eventBus.Published[0].(*messagedomain.Created)
	require.True(t, ok)
	assert.Equal(t, messagedomain.EventTypeMessageCreated, evt.EventType())
	assert.Equal(t, result.ID, evt.Message.ID)
}

func TestPostMessageUseCase_DefaultSender(t *testing.T) {
	store := message.NewMockStore()
	eventBus := message.NewMockEventBus()
	useCase := message.NewPostMessageUseCase(store, eventBus)

	result, err := useCase.Execute(context.Background(), message.PostMessageCommand{
		Sender:  "",
		Content: "no name given",
	})

	require.NoError(t, err)
	assert.Equal(t, messagedomain.DefaultSender, result.Sender)
}

func TestPostMessageUseCase_EmptyContent(t *testing.T) {
	store := message.NewMockStore()
	eventBus := message.NewMockEventBus()
	useCase := message.NewPostMessageUseCase(store, eventBus)

	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"whitespace only", "   \t\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := useCase.Execute(context.Background(), message.PostMessageCommand{
				Sender:  "alice",
				Content: tt.content,
			})

			require.ErrorIs(t, err, message.ErrContentRequired)
			assert.Empty(t, store.Messages)
			assert.Empty(t, eventBus.Published)
		})
	}
}

func TestPostMessageUseCase_ContentTooLong(t *testing.T) {
	store := message.NewMockStore()
	eventBus := message.NewMockEventBus()
	useCase := message.NewPostMessageUseCase(store, eventBus)

	_, err := useCase.Execute(context.Background(), message.PostMessageCommand{
		Sender:  "alice",
		Content: strings.Repeat("a", message.MaxContentLength+1),
	})

	require.ErrorIs(t, err, message.ErrContentTooLong)
}

func TestPostMessageUseCase_PublishErrorIgnored(t *testing.T) {
	store := message.NewMockStore()
	eventBus := message.NewMockEventBus()
	eventBus.PublishErr = assert.AnError
	useCase := message.NewPostMessageUseCase(store, eventBus)

	// Ошибка публикации не мешает сохранению сообщения
	result, err := useCase.Execute(context.Background(), message.PostMessageCommand{
		Sender:  "alice",
		Content: "still works",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.ID)
	assert.Len(t, store.Messages, 1)
}

func TestPostMessageUseCase_StoreErrorPassedThrough(t *testing.T) {
	store := message.NewMockStore()
	store.AppendErr = assert.AnError
	eventBus := message.NewMockEventBus()
	useCase := message.NewPostMessageUseCase(store, eventBus)

	// Ошибка хранилища не подменяется ошибкой валидации
	_, err := useCase.Execute(context.Background(), message.PostMessageCommand{
		Sender:  "alice",
		Content: "hello",
	})

	require.ErrorIs(t, err, assert.AnError)
	assert.NotErrorIs(t, err, message.ErrContentRequired)
	assert.Empty(t, eventBus.Published)
}
