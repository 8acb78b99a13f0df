package postgres

import (
	"github.com/dlane/event-checkin/internal/domain"
	"github.com/dlane/event-checkin/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewConnection(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return nil, err
	}

	// Auto-migrate tables
	err = db.AutoMigrate(
		&domain.Event{},
		&domain.Attendee{},
		&domain.CheckIn{},
		&domain.Session{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		Event:    NewEventRepository(db),
		Attendee: NewAttendeeRepository(db),
		CheckIn:  NewCheckInRepository(db),
		Session:  NewSessionRepository(db),
	}
}
