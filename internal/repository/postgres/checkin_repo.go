package postgres

import (
	"context"

	"github.com/dlane/event-checkin/internal/domain"
	"gorm.io/gorm"
)

type checkInRepository struct {
	db *gorm.DB
}

func NewCheckInRepository(db *gorm.DB) *checkInRepository {
	return &checkInRepository{db: db}
}

func (r *checkInRepository) Create(ctx context.Context, checkIn *domain.CheckIn) error {
	return r.db.WithContext(ctx).Create(checkIn).Error
}

func (r *checkInRepository) ExistsForAttendee(ctx context.Context, eventID, attendeeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.CheckIn{}).
		Where("event_id = ? AND attendee_id = ?", eventID, attendeeID).
		Count(&count).Error
	return count > 0, err
}

func (r *checkInRepository) Count(ctx context.Context, eventID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.CheckIn{}).Where("event_id = ?", eventID).Count(&count).Error
	return count, err
}

func (r *checkInRepository) CountByDate(ctx context.Context, eventID int64) ([]domain.DateCount, error) {
	var buckets []domain.DateCount
	err := r.db.WithContext(ctx).Raw(`
		SELECT TO_CHAR(DATE(checked_in_at), 'YYYY-MM-DD') AS date, COUNT(*) AS count
		FROM check_ins
		WHERE event_id = ?
		GROUP BY DATE(checked_in_at)
		ORDER BY date`, eventID).Scan(&buckets).Error
	if err != nil {
		return nil, err
	}
	return buckets, nil
}

func (r *checkInRepository) Recent(ctx context.Context, eventID int64, limit int) ([]domain.RecentCheckIn, error) {
	var recent []domain.RecentCheckIn
	err := r.db.WithContext(ctx).Raw(`
		SELECT a.name AS attendee_name, c.checked_in_at
		FROM check_ins c
		JOIN attendees a ON c.attendee_id = a.id
		WHERE c.event_id = ?
		ORDER BY c.checked_in_at DESC
		LIMIT ?`, eventID, limit).Scan(&recent).Error
	if err != nil {
		return nil, err
	}
	return recent, nil
}

// ExportRows returns one row per attendee ordered by name. The first
// recorded check-in stands in for attendees who checked in repeatedly.
func (r *checkInRepository) ExportRows(ctx context.Context, eventID int64) ([]domain.ExportRow, error) {
	var rows []domain.ExportRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT a.name, a.external_id, MIN(c.checked_in_at) AS checked_in_at
		FROM attendees a
		LEFT JOIN check_ins c ON a.id = c.attendee_id
		WHERE a.event_id = ?
		GROUP BY a.id, a.name, a.external_id
		ORDER BY a.name`, eventID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
