package service

import (
	"github.com/dlane/event-checkin/internal/config"
	"github.com/dlane/event-checkin/internal/repository"
)

type Services struct {
	Event   *EventService
	Session *SessionService
}

func NewServices(repos *repository.Repositories, cfg *config.Config, notifier CheckInNotifier) *Services {
	return &Services{
		Event:   NewEventService(repos.Event, repos.Attendee, repos.CheckIn, notifier),
		Session: NewSessionService(repos.Session, cfg),
	}
}
