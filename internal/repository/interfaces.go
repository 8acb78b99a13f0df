package repository

import (
	"context"

	"github.com/dlane/event-checkin/internal/domain"
)

type EventRepository interface {
	// CreateWithAttendees persists the event and its initial roster in
	// a single transaction: either the event and every attendee land,
	// or nothing does.
	CreateWithAttendees(ctx context.Context, event *domain.Event, attendees []*domain.Attendee) error
	GetByID(ctx context.Context, id int64) (*domain.Event, error)
	PasswordHash(ctx context.Context, id int64) (string, error)
}

type AttendeeRepository interface {
	Create(ctx context.Context, attendee *domain.Attendee) error
	GetByID(ctx context.Context, eventID, attendeeID int64) (*domain.Attendee, error)
	ListWithStatus(ctx context.Context, eventID int64) ([]domain.AttendeeStatus, error)
	Count(ctx context.Context, eventID int64) (int64, error)
}

type CheckInRepository interface {
	Create(ctx context.Context, checkIn *domain.CheckIn) error
	ExistsForAttendee(ctx context.Context, eventID, attendeeID int64) (bool, error)
	// Count counts check-in rows, not distinct attendees: repeat
	// check-ins are retained and each one counts.
	Count(ctx context.Context, eventID int64) (int64, error)
	CountByDate(ctx context.Context, eventID int64) ([]domain.DateCount, error)
	Recent(ctx context.Context, eventID int64, limit int) ([]domain.RecentCheckIn, error)
	ExportRows(ctx context.Context, eventID int64) ([]domain.ExportRow, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}

type Repositories struct {
	Event    EventRepository
	Attendee AttendeeRepository
	CheckIn  CheckInRepository
	Session  SessionRepository
}
