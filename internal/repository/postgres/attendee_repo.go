package postgres

import (
	"context"
	"errors"

	"github.com/dlane/event-checkin/internal/domain"
	"gorm.io/gorm"
)

type attendeeRepository struct {
	db *gorm.DB
}

func NewAttendeeRepository(db *gorm.DB) *attendeeRepository {
	return &attendeeRepository{db: db}
}

func (r *attendeeRepository) Create(ctx context.Context, attendee *domain.Attendee) error {
	return r.db.WithContext(ctx).Create(attendee).Error
}

func (r *attendeeRepository) GetByID(ctx context.Context, eventID, attendeeID int64) (*domain.Attendee, error) {
	var attendee domain.Attendee
	err := r.db.WithContext(ctx).First(&attendee, "id = ? AND event_id = ?", attendeeID, eventID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAttendeeNotFound
		}
		return nil, err
	}
	return &attendee, nil
}

// ListWithStatus returns the roster ordered by name. An EXISTS subquery
// derives the flag so attendees with repeat check-ins still appear once.
func (r *attendeeRepository) ListWithStatus(ctx context.Context, eventID int64) ([]domain.AttendeeStatus, error) {
	var statuses []domain.AttendeeStatus
	err := r.db.WithContext(ctx).Raw(`
		SELECT a.id, a.name,
		       EXISTS (
		           SELECT 1 FROM check_ins c WHERE c.attendee_id = a.id
		       ) AS checked_in
		FROM attendees a
		WHERE a.event_id = ?
		ORDER BY a.name`, eventID).Scan(&statuses).Error
	if err != nil {
		return nil, err
	}
	return statuses, nil
}

func (r *attendeeRepository) Count(ctx context.Context, eventID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Attendee{}).Where("event_id = ?", eventID).Count(&count).Error
	return count, err
}
