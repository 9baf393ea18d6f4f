package sop

import (
	"time"
)

// Activity is an append-only audit record of a user performing a
// standard-operating-procedure task. Records are never updated or deleted.
type Activity struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"index;not null" json:"user_id"`
	SOPType         string    `gorm:"size:64;not null;column:sop_type" json:"sop_type"`
	TaskID          string    `gorm:"size:64;not null" json:"task_id"`
	TaskDescription string    `gorm:"size:512" json:"task_description"`
	CreatedAt       time.Time `json:"timestamp"`
}
