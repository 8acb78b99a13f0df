package service

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/dlane/event-checkin/internal/domain"
	"github.com/dlane/event-checkin/internal/repository"
	"github.com/dlane/event-checkin/internal/roster"
	"golang.org/x/crypto/bcrypt"
)

const recentCheckInLimit = 10

// CheckInNotifier receives a notice after every recorded check-in.
type CheckInNotifier interface {
	NotifyCheckIn(eventID int64, notice domain.CheckInNotice)
}

type EventService struct {
	eventRepo    repository.EventRepository
	attendeeRepo repository.AttendeeRepository
	checkInRepo  repository.CheckInRepository
	notifier     CheckInNotifier
}

func NewEventService(eventRepo repository.EventRepository, attendeeRepo repository.AttendeeRepository, checkInRepo repository.CheckInRepository, notifier CheckInNotifier) *EventService {
	return &EventService{
		eventRepo:    eventRepo,
		attendeeRepo: attendeeRepo,
		checkInRepo:  checkInRepo,
		notifier:     notifier,
	}
}

type CreateEventInput struct {
	Name       string
	Password   string
	Location   string
	CSVContent string
}

type CreateEventResult struct {
	Event         *domain.Event
	AttendeeCount int
	CSVErrors     []string
}

// Create parses the uploaded roster and persists the event together
// with its attendees in one transaction. Row-level CSV errors are
// returned alongside success; zero valid attendees is fatal and the
// errors ride along with domain.ErrNoValidAttendees.
func (s *EventService) Create(ctx context.Context, input CreateEventInput) (*CreateEventResult, error) {
	records, csvErrors, err := roster.Parse(input.CSVContent)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &CreateEventResult{CSVErrors: csvErrors}, domain.ErrNoValidAttendees
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	event := &domain.Event{
		Name:         input.Name,
		PasswordHash: string(passwordHash),
		CreatedAt:    time.Now(),
	}
	if input.Location != "" {
		event.Location = &input.Location
	}

	attendees := make([]*domain.Attendee, 0, len(records))
	for _, rec := range records {
		attendee := &domain.Attendee{Name: rec.Name}
		if rec.ExternalID != "" {
			externalID := rec.ExternalID
			attendee.ExternalID = &externalID
		}
		attendees = append(attendees, attendee)
	}

	if err := s.eventRepo.CreateWithAttendees(ctx, event, attendees); err != nil {
		return nil, err
	}

	return &CreateEventResult{
		Event:         event,
		AttendeeCount: len(attendees),
		CSVErrors:     csvErrors,
	}, nil
}

// AddAttendee registers one more attendee after event creation. Names
// are deliberately not unique; duplicates are told apart by ID only.
func (s *EventService) AddAttendee(ctx context.Context, eventID int64, name, externalID string) (*domain.Attendee, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	attendee := &domain.Attendee{
		EventID: eventID,
		Name:    name,
	}
	if externalID != "" {
		attendee.ExternalID = &externalID
	}
	if err := s.attendeeRepo.Create(ctx, attendee); err != nil {
		return nil, err
	}
	return attendee, nil
}

func (s *EventService) ListAttendees(ctx context.Context, eventID int64) ([]domain.AttendeeStatus, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.attendeeRepo.ListWithStatus(ctx, eventID)
}

type SignInResult struct {
	AttendeeName    string
	AlreadySignedIn bool
}

// SignIn records a check-in. A repeat check-in is reported through
// AlreadySignedIn but still inserted: repeat rows are retained as a
// feature, not deduplicated. Two concurrent sign-ins can both land.
func (s *EventService) SignIn(ctx context.Context, eventID, attendeeID int64) (*SignInResult, error) {
	attendee, err := s.attendeeRepo.GetByID(ctx, eventID, attendeeID)
	if err != nil {
		return nil, err
	}

	already, err := s.checkInRepo.ExistsForAttendee(ctx, eventID, attendeeID)
	if err != nil {
		return nil, err
	}

	checkIn := &domain.CheckIn{
		EventID:     eventID,
		AttendeeID:  attendeeID,
		CheckedInAt: time.Now(),
	}
	if err := s.checkInRepo.Create(ctx, checkIn); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyCheckIn(eventID, domain.CheckInNotice{
			AttendeeID:      attendee.ID,
			AttendeeName:    attendee.Name,
			CheckedInAt:     checkIn.CheckedInAt,
			AlreadySignedIn: already,
		})
	}

	return &SignInResult{
		AttendeeName:    attendee.Name,
		AlreadySignedIn: already,
	}, nil
}

// VerifyPassword checks the management password for eventID.
func (s *EventService) VerifyPassword(ctx context.Context, eventID int64, password string) error {
	hash, err := s.eventRepo.PasswordHash(ctx, eventID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return domain.ErrInvalidPassword
	}
	return nil
}

type DetailsResult struct {
	Event          *domain.Event
	AttendeeCount  int64
	CheckedInCount int64
}

func (s *EventService) Details(ctx context.Context, eventID int64) (*DetailsResult, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	attendeeCount, err := s.attendeeRepo.Count(ctx, eventID)
	if err != nil {
		return nil, err
	}
	checkedInCount, err := s.checkInRepo.Count(ctx, eventID)
	if err != nil {
		return nil, err
	}

	return &DetailsResult{
		Event:          event,
		AttendeeCount:  attendeeCount,
		CheckedInCount: checkedInCount,
	}, nil
}

type AnalyticsResult struct {
	TotalAttendees int64
	TotalCheckedIn int64
	CheckInsByDate []domain.DateCount
	RecentCheckIns []domain.RecentCheckIn
}

func (s *EventService) Analytics(ctx context.Context, eventID int64) (*AnalyticsResult, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	totalAttendees, err := s.attendeeRepo.Count(ctx, eventID)
	if err != nil {
		return nil, err
	}
	totalCheckedIn, err := s.checkInRepo.Count(ctx, eventID)
	if err != nil {
		return nil, err
	}
	byDate, err := s.checkInRepo.CountByDate(ctx, eventID)
	if err != nil {
		return nil, err
	}
	recent, err := s.checkInRepo.Recent(ctx, eventID, recentCheckInLimit)
	if err != nil {
		return nil, err
	}

	return &AnalyticsResult{
		TotalAttendees: totalAttendees,
		TotalCheckedIn: totalCheckedIn,
		CheckInsByDate: byDate,
		RecentCheckIns: recent,
	}, nil
}

var filenameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Export renders the roster with check-in status as CSV. Every field
// is double-quoted; embedded quotes are not escaped on export, an
// intentional asymmetry with the import parser.
func (s *EventService) Export(ctx context.Context, eventID int64) (filename string, content []byte, err error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return "", nil, err
	}

	rows, err := s.checkInRepo.ExportRows(ctx, eventID)
	if err != nil {
		return "", nil, err
	}

	var buf bytes.Buffer
	buf.WriteString("Name,External ID,Checked In,Check-in Time\n")
	for i, row := range rows {
		externalID := ""
		if row.ExternalID != nil {
			externalID = *row.ExternalID
		}
		checkedIn := "No"
		checkInTime := ""
		if row.CheckedInAt != nil {
			checkedIn = "Yes"
			checkInTime = row.CheckedInAt.Format(time.RFC3339)
		}
		fmt.Fprintf(&buf, `"%s","%s","%s","%s"`, row.Name, externalID, checkedIn, checkInTime)
		if i < len(rows)-1 {
			buf.WriteByte('\n')
		}
	}

	filename = filenameSanitizer.ReplaceAllString(event.Name, "_") + "_checkins.csv"
	return filename, buf.Bytes(), nil
}
