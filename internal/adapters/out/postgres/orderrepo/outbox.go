package orderrepo

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OutboxDTO is one action log entry waiting for the relay.
type OutboxDTO struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	OrderNumber   string     `gorm:"type:varchar(32);not null"`
	ActionType    string     `gorm:"type:varchar(32);not null"`
	Action        string     `gorm:"type:text;not null"`
	PerformedBy   string     `gorm:"type:varchar(255);not null"`
	PreviousValue string     `gorm:"type:text"`
	NewValue      string     `gorm:"type:text"`
	OrderStatus   string     `gorm:"type:varchar(32);not null"`
	OccurredAt    time.Time  `gorm:"not null;index"`
	PublishedAt   *time.Time `gorm:"index"`
}

func (OutboxDTO) TableName() string {
	return "outbox"
}

func outboxFromEvent(e ports.OrderEvent) OutboxDTO {
	return OutboxDTO{
		ID:            e.ID.Bytes(),
		OrderID:       e.OrderID.Bytes(),
		OrderNumber:   e.OrderNumber,
		ActionType:    e.ActionType,
		Action:        e.Action,
		PerformedBy:   e.PerformedBy,
		PreviousValue: e.PreviousValue,
		NewValue:      e.NewValue,
		OrderStatus:   e.OrderStatus,
		OccurredAt:    e.OccurredAt,
	}
}

func (dto OutboxDTO) toEvent() (ports.OrderEvent, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return ports.OrderEvent{}, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return ports.OrderEvent{}, err
	}
	return ports.OrderEvent{
		ID:            id,
		OrderID:       orderID,
		OrderNumber:   dto.OrderNumber,
		ActionType:    dto.ActionType,
		Action:        dto.Action,
		PerformedBy:   dto.PerformedBy,
		PreviousValue: dto.PreviousValue,
		NewValue:      dto.NewValue,
		OrderStatus:   dto.OrderStatus,
		OccurredAt:    dto.OccurredAt,
	}, nil
}

// GormOutboxStore implements ports.OutboxStore over the outbox table.
type GormOutboxStore struct {
	db *gorm.DB
}

func NewGormOutboxStore(db *gorm.DB) *GormOutboxStore {
	return &GormOutboxStore{db: db}
}

func (s *GormOutboxStore) FetchPending(ctx context.Context, limit int) ([]ports.OrderEvent, error) {
	query := s.db.WithContext(ctx).
		Where("published_at IS NULL").
		Order("occurred_at").
		Order("id")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []OutboxDTO
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	events := make([]ports.OrderEvent, 0, len(rows))
	for _, row := range rows {
		e, err := row.toEvent()
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

func (s *GormOutboxStore) MarkPublished(ctx context.Context, ids []kernel.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}
	return s.db.WithContext(ctx).
		Model(&OutboxDTO{}).
		Where("id IN ?", raw).
		Update("published_at", at).Error
}
