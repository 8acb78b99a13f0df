package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/dlane/event-checkin/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// EventBuilder creates test events with a builder pattern
type EventBuilder struct {
	name     string
	password string
	location string
}

// NewEventBuilder creates a new EventBuilder with default values
func NewEventBuilder() *EventBuilder {
	return &EventBuilder{
		name:     fmt.Sprintf("Test Event %s", uuid.New().String()[:8]),
		password: "testpassword123",
	}
}

// WithName sets the event name
func (b *EventBuilder) WithName(name string) *EventBuilder {
	b.name = name
	return b
}

// WithPassword sets the management password
func (b *EventBuilder) WithPassword(password string) *EventBuilder {
	b.password = password
	return b
}

// WithLocation sets the event location
func (b *EventBuilder) WithLocation(location string) *EventBuilder {
	b.location = location
	return b
}

// Build creates the event in the database and returns it with the raw password
func (b *EventBuilder) Build(t *testing.T, db *gorm.DB) (*domain.Event, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	event := &domain.Event{
		Name:         b.name,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
	}
	if b.location != "" {
		location := b.location
		event.Location = &location
	}

	if err := db.Create(event).Error; err != nil {
		t.Fatalf("failed to create event: %v", err)
	}

	return event, b.password
}

// AttendeeBuilder creates test attendees
type AttendeeBuilder struct {
	event      *domain.Event
	name       string
	externalID string
}

// NewAttendeeBuilder creates a new AttendeeBuilder with default values
func NewAttendeeBuilder() *AttendeeBuilder {
	return &AttendeeBuilder{
		name: fmt.Sprintf("Attendee %s", uuid.New().String()[:8]),
	}
}

// WithEvent sets the owning event
func (b *AttendeeBuilder) WithEvent(event *domain.Event) *AttendeeBuilder {
	b.event = event
	return b
}

// WithName sets the attendee name
func (b *AttendeeBuilder) WithName(name string) *AttendeeBuilder {
	b.name = name
	return b
}

// WithExternalID sets the external identifier
func (b *AttendeeBuilder) WithExternalID(externalID string) *AttendeeBuilder {
	b.externalID = externalID
	return b
}

// Build creates the attendee in the database
func (b *AttendeeBuilder) Build(t *testing.T, db *gorm.DB) *domain.Attendee {
	t.Helper()

	if b.event == nil {
		event, _ := NewEventBuilder().Build(t, db)
		b.event = event
	}

	attendee := &domain.Attendee{
		EventID: b.event.ID,
		Name:    b.name,
	}
	if b.externalID != "" {
		externalID := b.externalID
		attendee.ExternalID = &externalID
	}

	if err := db.Create(attendee).Error; err != nil {
		t.Fatalf("failed to create attendee: %v", err)
	}

	return attendee
}

// CheckIn records a check-in row for an attendee at the given time
func CheckIn(t *testing.T, db *gorm.DB, attendee *domain.Attendee, at time.Time) *domain.CheckIn {
	t.Helper()

	checkIn := &domain.CheckIn{
		EventID:     attendee.EventID,
		AttendeeID:  attendee.ID,
		CheckedInAt: at,
	}
	if err := db.Create(checkIn).Error; err != nil {
		t.Fatalf("failed to create check-in: %v", err)
	}
	return checkIn
}

// CreateEventResponse matches the API event creation response
type CreateEventResponse struct {
	Success       bool     `json:"success"`
	EventID       int64    `json:"eventId"`
	AttendeeCount int      `json:"attendeeCount"`
	CSVErrors     []string `json:"csvErrors"`
}

// CreateEventViaAPI creates an event through the HTTP API and returns the response
func CreateEventViaAPI(t *testing.T, ts *TestServer, name, password, csvContent string) *CreateEventResponse {
	t.Helper()

	resp := PostJSON(t, ts, "/events", map[string]string{
		"name":       name,
		"password":   password,
		"csvContent": csvContent,
	}, nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status code creating event: %d", resp.StatusCode)
	}

	var result CreateEventResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return &result
}

// PostJSON sends a POST with a same-origin Origin header (so the CSRF
// middleware admits it) and optional cookies.
func PostJSON(t *testing.T, ts *TestServer, path string, body interface{}, cookies []*http.Cookie) *http.Response {
	t.Helper()

	jsonBody, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, ts.APIURL(path), bytes.NewBuffer(jsonBody))
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", ts.BaseURL())
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

// SessionCookie extracts the session cookie from a response, nil if absent
func SessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == "session_token" {
			return c
		}
	}
	return nil
}
