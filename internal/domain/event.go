package domain

import (
	"time"
)

type Event struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name         string    `json:"name" gorm:"not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Location     *string   `json:"location"`
	CreatedAt    time.Time `json:"created_at"`
}

type Attendee struct {
	ID         int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	EventID    int64   `json:"eventId" gorm:"not null;index"`
	Name       string  `json:"name" gorm:"not null"`
	ExternalID *string `json:"externalId"`

	Event Event `json:"-" gorm:"foreignKey:EventID"`
}

type CheckIn struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	EventID     int64     `json:"eventId" gorm:"not null;index"`
	AttendeeID  int64     `json:"attendeeId" gorm:"not null;index"`
	CheckedInAt time.Time `json:"checkedInAt" gorm:"not null"`

	Event    Event    `json:"-" gorm:"foreignKey:EventID"`
	Attendee Attendee `json:"-" gorm:"foreignKey:AttendeeID"`
}

// AttendeeStatus is a roster row with its derived check-in flag.
// CheckedIn is true when at least one check-in row exists.
type AttendeeStatus struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CheckedIn bool   `json:"checkedIn"`
}

// DateCount is one bucket of the check-ins-per-day aggregate.
type DateCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// RecentCheckIn is a check-in joined with its attendee's name.
type RecentCheckIn struct {
	AttendeeName string    `json:"attendeeName"`
	CheckedInAt  time.Time `json:"checkedInAt"`
}

// ExportRow is one attendee in the organizer export. CheckedInAt is the
// first recorded check-in, nil when the attendee never checked in.
type ExportRow struct {
	Name        string
	ExternalID  *string
	CheckedInAt *time.Time
}

// CheckInNotice is pushed to live feed subscribers after a check-in is
// recorded.
type CheckInNotice struct {
	AttendeeID      int64     `json:"attendeeId"`
	AttendeeName    string    `json:"attendeeName"`
	CheckedInAt     time.Time `json:"checkedInAt"`
	AlreadySignedIn bool      `json:"alreadySignedIn"`
}
