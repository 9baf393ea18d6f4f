package sop

import (
	"time"

	"gorm.io/gorm"
)

// Filter narrows activity queries. Zero values mean "no constraint".
type Filter struct {
	UserID  uint
	SOPType string
	Days    int
}

func (f Filter) apply(q *gorm.DB) *gorm.DB {
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.SOPType != "" {
		q = q.Where("sop_type = ?", f.SOPType)
	}
	if f.Days > 0 {
		since := time.Now().UTC().AddDate(0, 0, -f.Days)
		q = q.Where("created_at >= ?", since)
	}
	return q
}

func List(db *gorm.DB, f Filter) ([]Activity, error) {
	var activities []Activity
	q := f.apply(db.Model(&Activity{})).Order("created_at DESC")
	if err := q.Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

// TypeCount is one row of the per-type summary.
type TypeCount struct {
	SOPType string `json:"sop_type"`
	Count   int64  `json:"count"`
}

// UserCount is one row of the per-user summary.
type UserCount struct {
	UserID uint  `json:"user_id"`
	Count  int64 `json:"count"`
}

type Summary struct {
	Total   int64       `json:"total"`
	ByType  []TypeCount `json:"by_type"`
	ByUser  []UserCount `json:"by_user"`
	Days    int         `json:"days"`
	SOPType string      `json:"sop_type,omitempty"`
}

func Summarize(db *gorm.DB, f Filter) (*Summary, error) {
	s := &Summary{Days: f.Days, SOPType: f.SOPType}

	if err := f.apply(db.Model(&Activity{})).Count(&s.Total).Error; err != nil {
		return nil, err
	}
	byType := f.apply(db.Model(&Activity{})).
		Select("sop_type, count(*) as count").
		Group("sop_type").
		Order("count DESC")
	if err := byType.Scan(&s.ByType).Error; err != nil {
		return nil, err
	}
	byUser := f.apply(db.Model(&Activity{})).
		Select("user_id, count(*) as count").
		Group("user_id").
		Order("count DESC")
	if err := byUser.Scan(&s.ByUser).Error; err != nil {
		return nil, err
	}
	return s, nil
}
