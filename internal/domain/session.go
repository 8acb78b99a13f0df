package domain

import (
	"time"
)

// Session authorizes management access to a single event. The bearer
// token presented by clients is "{id}.{secret}"; only the SHA-256 of
// the secret is stored.
type Session struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	SecretHash []byte    `json:"-" gorm:"not null"`
	EventID    int64     `json:"eventId" gorm:"not null;index"`
	CreatedAt  time.Time `json:"createdAt" gorm:"not null"`

	Event Event `json:"-" gorm:"foreignKey:EventID"`
}
