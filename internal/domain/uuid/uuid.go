package uuid

import (
	"github.com/google/uuid"
)

// UUID type alias для идентификаторов сообщений.
// Идентификаторы сравниваются как строки: разные транспорты могут
// передавать id в разном представлении.
type UUID string

// NewUUID создает новый UUID
func NewUUID() UUID {
	return UUID(uuid.New().String())
}

// ParseUUID парсит строку в UUID
func ParseUUID(s string) (UUID, error) {
	_, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return UUID(s), nil
}

// String возвращает строковое представление
func (u UUID) String() string {
	return string(u)
}

// IsZero проверяет, является ли UUID нулевым
func (u UUID) IsZero() bool {
	return u == ""
}
