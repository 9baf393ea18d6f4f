package sop

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	dbConn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := dbConn.AutoMigrate(&Activity{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return dbConn
}

func seedActivity(t *testing.T, db *gorm.DB, userId uint, sopType string, age time.Duration) Activity {
	a := Activity{
		UserID:          userId,
		SOPType:         sopType,
		TaskID:          "task-1",
		TaskDescription: "desc",
		CreatedAt:       time.Now().UTC().Add(-age),
	}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("seed activity: %v", err)
	}
	return a
}

func TestList_Filters(t *testing.T) {
	db := openTestDB(t)
	seedActivity(t, db, 1, "cleaning", time.Hour)
	seedActivity(t, db, 1, "maintenance", time.Hour)
	seedActivity(t, db, 2, "cleaning", time.Hour)
	seedActivity(t, db, 2, "cleaning", 40*24*time.Hour)

	all, err := List(db, Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("expected 4 activities, got %d", len(all))
	}

	byUser, _ := List(db, Filter{UserID: 1})
	if len(byUser) != 2 {
		t.Errorf("expected 2 activities for user 1, got %d", len(byUser))
	}

	byType, _ := List(db, Filter{SOPType: "cleaning"})
	if len(byType) != 3 {
		t.Errorf("expected 3 cleaning activities, got %d", len(byType))
	}

	recent, _ := List(db, Filter{UserID: 2, Days: 30})
	if len(recent) != 1 {
		t.Errorf("expected 1 recent activity for user 2, got %d", len(recent))
	}
}

func TestSummarize(t *testing.T) {
	db := openTestDB(t)
	seedActivity(t, db, 1, "cleaning", time.Hour)
	seedActivity(t, db, 1, "cleaning", time.Hour)
	seedActivity(t, db, 2, "maintenance", time.Hour)

	s, err := Summarize(db, Filter{Days: 30})
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if s.Total != 3 {
		t.Errorf("expected total 3, got %d", s.Total)
	}
	if len(s.ByType) != 2 {
		t.Fatalf("expected 2 type rows, got %d", len(s.ByType))
	}
	if s.ByType[0].SOPType != "cleaning" || s.ByType[0].Count != 2 {
		t.Errorf("expected cleaning=2 first, got %+v", s.ByType[0])
	}
	if len(s.ByUser) != 2 {
		t.Errorf("expected 2 user rows, got %d", len(s.ByUser))
	}
}

func TestWriteCSV(t *testing.T) {
	activities := []Activity{
		{
			ID:              1,
			UserID:          2,
			SOPType:         "cleaning",
			TaskID:          "t-9",
			TaskDescription: "mop, then dry",
			CreatedAt:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, activities); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if lines[0] != "id,user_id,sop_type,task_id,task_description,timestamp" {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], `"mop, then dry"`) {
		t.Errorf("expected quoted description, got: %s", lines[1])
	}
	if !strings.Contains(lines[1], "2026-03-01T12:00:00Z") {
		t.Errorf("expected RFC3339 timestamp, got: %s", lines[1])
	}
}

func TestReportFilename(t *testing.T) {
	now := time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC)
	if got := ReportFilename(now); got != "sop_report_2026-03-01.csv" {
		t.Errorf("unexpected filename: %s", got)
	}
}

func TestFeed_PublishSubscribe(t *testing.T) {
	feed := NewFeed()
	ch := feed.Subscribe()
	feed.Publish(Activity{ID: 1, SOPType: "cleaning"})
	select {
	case a := <-ch:
		if a.ID != 1 {
			t.Errorf("expected activity 1, got %d", a.ID)
		}
	default:
		t.Fatalf("expected buffered activity")
	}
	feed.Unsubscribe(ch)
	if _, ok := <-ch; ok {
		t.Errorf("expected closed channel after unsubscribe")
	}
	// Publishing with no subscribers must not block or panic.
	feed.Publish(Activity{ID: 2})
}

func TestFeed_SlowSubscriberDropped(t *testing.T) {
	feed := NewFeed()
	ch := feed.Subscribe()
	defer feed.Unsubscribe(ch)
	for i := 0; i < 100; i++ {
		feed.Publish(Activity{ID: uint(i)})
	}
	// The channel buffer caps what a non-reading subscriber can hold.
	if n := len(ch); n > 16 {
		t.Errorf("expected at most 16 buffered, got %d", n)
	}
}
