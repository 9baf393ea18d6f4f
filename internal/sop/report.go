package sop

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

var reportHeader = []string{"id", "user_id", "sop_type", "task_id", "task_description", "timestamp"}

// WriteCSV renders activities as a CSV report.
func WriteCSV(w io.Writer, activities []Activity) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(reportHeader); err != nil {
		return err
	}
	for _, a := range activities {
		row := []string{
			strconv.FormatUint(uint64(a.ID), 10),
			strconv.FormatUint(uint64(a.UserID), 10),
			a.SOPType,
			a.TaskID,
			a.TaskDescription,
			a.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReportFilename names a CSV download after the current date.
func ReportFilename(now time.Time) string {
	return "sop_report_" + now.UTC().Format("2006-01-02") + ".csv"
}
