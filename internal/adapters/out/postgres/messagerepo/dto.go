// Package messagerepo persists outgoing integration messages.
package messagerepo

import (
	"time"

	"inflight/internal/core/domain/model/outbox"
)

// OutgoingMessageDTO is the row of the outgoing_messages table.
// Payload is stored as text: it is opaque JSON supplied by the client.
type OutgoingMessageDTO struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Target    string    `gorm:"type:varchar(50);not null;index"`
	Payload   string    `gorm:"type:text;not null"`
	Sent      bool      `gorm:"not null;default:false;index"`
	Attempts  int       `gorm:"not null;default:0"`
	LastError string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"not null"`
	SentAt    *time.Time
}

func (OutgoingMessageDTO) TableName() string {
	return "outgoing_messages"
}

func fromDomain(m *outbox.Message) OutgoingMessageDTO {
	dto := OutgoingMessageDTO{
		ID:        m.ID(),
		Target:    m.Target(),
		Payload:   string(m.Payload()),
		Sent:      m.IsSent(),
		Attempts:  m.Attempts(),
		LastError: m.LastError(),
		CreatedAt: m.CreatedAt(),
	}
	if at, ok := m.SentAt(); ok {
		dto.SentAt = &at
	}
	return dto
}

func toDomain(dto OutgoingMessageDTO) (*outbox.Message, error) {
	return outbox.RestoreMessage(
		dto.ID,
		dto.Target,
		[]byte(dto.Payload),
		dto.Sent,
		dto.Attempts,
		dto.LastError,
		dto.CreatedAt,
		dto.SentAt,
	)
}
