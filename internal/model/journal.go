package model

import "time"

// JournalEntry is one audited operator action: an error resolution, an
// escort, a registration, a certificate issue or a snack hand-out.
type JournalEntry struct {
	ID         int64     `gorm:"autoIncrement;primaryKey" json:"id"`
	Action     string    `gorm:"size:64;not null;index" json:"action"`
	Subject    string    `gorm:"size:128;not null" json:"subject"`
	Detail     string    `gorm:"size:512" json:"detail"`
	RecordedAt time.Time `gorm:"not null;index" json:"recordedAt"`
}
