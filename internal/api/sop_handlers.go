package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"userhub/internal/auth"
	"userhub/internal/db"
	"userhub/internal/sop"
)

type LogActivityRequest struct {
	SOPType         string `json:"sop_type"`
	TaskID          string `json:"task_id"`
	TaskDescription string `json:"task_description"`
}

// POST /sop/activity
func LogActivityHandler(feed *sop.Feed) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		var req LogActivityRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.SOPType == "" {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "sop_type required"})
			return
		}
		if req.TaskID == "" {
			req.TaskID = uuid.NewString()
		}
		activity := sop.Activity{
			UserID:          userId.(uint),
			SOPType:         req.SOPType,
			TaskID:          req.TaskID,
			TaskDescription: req.TaskDescription,
		}
		if err := db.DB.Create(&activity).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to log activity"})
			return
		}
		if feed != nil {
			feed.Publish(activity)
		}
		c.JSON(http.StatusCreated, activity)
	}
}

// GET /sop/activities
// Scoped to the caller regardless of role.
func MyActivitiesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		filter := sop.Filter{
			UserID:  userId.(uint),
			SOPType: c.Query("sop_type"),
		}
		activities, err := sop.List(db.DB, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to list activities"})
			return
		}
		c.JSON(http.StatusOK, activities)
	}
}

func adminFilter(c *gin.Context) sop.Filter {
	filter := sop.Filter{
		SOPType: c.Query("sop_type"),
		Days:    30,
	}
	if days, err := strconv.Atoi(c.Query("days")); err == nil && days > 0 {
		filter.Days = days
	}
	if userId, err := strconv.ParseUint(c.Query("user_id"), 10, 32); err == nil {
		filter.UserID = uint(userId)
	}
	return filter
}

// GET /admin/sop/activities
func AdminActivitiesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		activities, err := sop.List(db.DB, adminFilter(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to list activities"})
			return
		}
		c.JSON(http.StatusOK, activities)
	}
}

// GET /admin/sop/report?format=csv
func ReportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if format := c.DefaultQuery("format", "csv"); format != "csv" {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Unsupported report format"})
			return
		}
		activities, err := sop.List(db.DB, adminFilter(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to build report"})
			return
		}
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", `attachment; filename="`+sop.ReportFilename(time.Now())+`"`)
		c.Status(http.StatusOK)
		if err := sop.WriteCSV(c.Writer, activities); err != nil {
			// Headers are gone already; nothing left to do but log.
			_ = c.Error(err)
		}
	}
}

// GET /admin/sop/summary
func SummaryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := sop.Summarize(db.DB, adminFilter(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to build summary"})
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

// GET /admin/users/online
func OnlineUsersHandler(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := auth.OnlineUserCount(rdb)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to count online users"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"online": count})
	}
}
