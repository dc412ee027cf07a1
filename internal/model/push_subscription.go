package model

import "time"

// Push topics a staff device can subscribe to.
const (
	TopicErrors = "errors"
	TopicEscort = "escort"
)

// PushSubscription holds one staff device's web push subscription and the
// alert topic it listens on.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	Topic     string    `gorm:"size:32;not null;index"`
	CreatedAt time.Time `gorm:"not null"`
}
