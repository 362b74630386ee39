package messagerepo

import (
	"context"
	"errors"

	"inflight/internal/core/domain/model/outbox"
	"inflight/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOutgoingMessageRepository implements ports.OutgoingMessageRepository.
type GormOutgoingMessageRepository struct {
	db *gorm.DB
}

// NewGormOutgoingMessageRepository creates a new GORM outgoing message
// repository.
func NewGormOutgoingMessageRepository(db *gorm.DB) *GormOutgoingMessageRepository {
	return &GormOutgoingMessageRepository{db: db}
}

// Add stores a new message and assigns its generated id.
func (r *GormOutgoingMessageRepository) Add(ctx context.Context, msg *outbox.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	dto := fromDomain(msg)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	return msg.AssignID(dto.ID)
}

// Update writes the delivery bookkeeping. A map is used so that zero values
// (an empty last error) are written too.
func (r *GormOutgoingMessageRepository) Update(ctx context.Context, msg *outbox.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	dto := fromDomain(msg)
	result := r.db.WithContext(ctx).
		Model(&OutgoingMessageDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"sent":       dto.Sent,
			"attempts":   dto.Attempts,
			"last_error": dto.LastError,
			"sent_at":    dto.SentAt,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("message", dto.ID)
	}

	return nil
}

// Get loads a message. Returns errs.ObjectNotFoundError when the id is
// unknown.
func (r *GormOutgoingMessageRepository) Get(ctx context.Context, id int64) (*outbox.Message, error) {
	return r.get(r.db.WithContext(ctx), id)
}

// GetForDelivery takes a row lock on dialects that support SELECT ... FOR
// UPDATE. SQLite serializes writers on its own.
func (r *GormOutgoingMessageRepository) GetForDelivery(ctx context.Context, id int64) (*outbox.Message, error) {
	db := r.db.WithContext(ctx)
	if db.Dialector.Name() == "postgres" {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return r.get(db, id)
}

// ListPendingIDs returns the ids of unsent messages, oldest first.
func (r *GormOutgoingMessageRepository) ListPendingIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&OutgoingMessageDTO{}).
		Where("sent = ?", false).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *GormOutgoingMessageRepository) get(db *gorm.DB, id int64) (*outbox.Message, error) {
	var dto OutgoingMessageDTO
	if err := db.First(&dto, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("message", id)
		}
		return nil, err
	}

	return toDomain(dto)
}
