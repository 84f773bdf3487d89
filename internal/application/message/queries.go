package message

// ListMessagesQuery - список сообщений начиная с временной метки.
// Разбор курсора из транспорта выполняет handler: некорректное
// значение вырождается в 0 (полная история).
type ListMessagesQuery struct {
	Since int64
}

// GetReactionsQuery - получение реакций сообщения по ID
type GetReactionsQuery struct {
	MessageID string
}
