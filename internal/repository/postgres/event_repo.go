package postgres

import (
	"context"
	"errors"

	"github.com/dlane/event-checkin/internal/domain"
	"gorm.io/gorm"
)

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *eventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) CreateWithAttendees(ctx context.Context, event *domain.Event, attendees []*domain.Attendee) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(event).Error; err != nil {
			return err
		}
		for _, attendee := range attendees {
			attendee.EventID = event.ID
		}
		if len(attendees) == 0 {
			return nil
		}
		return tx.Create(attendees).Error
	})
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	var event domain.Event
	err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) PasswordHash(ctx context.Context, id int64) (string, error) {
	var event domain.Event
	err := r.db.WithContext(ctx).Select("password_hash").First(&event, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrEventNotFound
		}
		return "", err
	}
	return event.PasswordHash, nil
}
