package event

import "time"

// Metadata содержит метаданные события
type Metadata struct {
	Sender        string    `json:"sender,omitempty"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	Timestamp     time.Time `json:"timestamp,omitempty"`
}

// NewMetadata создает новые метаданные
func NewMetadata(sender string) Metadata {
	return Metadata{
		Sender:    sender,
		Timestamp: time.Now(),
	}
}
