package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"userhub/internal/auth"
	"userhub/internal/config"
	"userhub/internal/sop"
)

// GET /health
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

func SetupRouter(cfg *config.Config, rdb *redis.Client) *gin.Engine {
	r := gin.Default()
	feed := sop.NewFeed()
	subpath := cfg.Server.Subpath // e.g. "/api/v1", always starts with '/'

	group := r.Group(subpath)
	{
		group.GET("/health", healthHandler)

		// Auth
		group.POST("/login", LoginHandler(cfg, rdb))
		group.POST("/logout", auth.Middleware(cfg, false), LogoutHandler(rdb))
		group.POST("/register", RegisterHandler())

		// User self-service
		group.GET("/profile", auth.Middleware(cfg, false), GetProfileHandler())
		group.PUT("/profile", auth.Middleware(cfg, false), UpdateProfileHandler())

		// SOP activity logging, scoped to the caller
		group.POST("/sop/activity", auth.Middleware(cfg, false), LogActivityHandler(feed))
		group.GET("/sop/activities", auth.Middleware(cfg, false), MyActivitiesHandler())

		// Admin
		admin := group.Group("/admin", auth.Middleware(cfg, true))
		{
			admin.GET("/users", ListUsersHandler())
			admin.POST("/users", CreateUserHandler())
			admin.GET("/users/online", OnlineUsersHandler(rdb))
			admin.GET("/users/:id", GetUserByIdHandler())
			admin.PUT("/users/:id", UpdateUserByIdHandler())
			admin.DELETE("/users/:id", DeleteUserByIdHandler())

			admin.GET("/sop/activities", AdminActivitiesHandler())
			admin.GET("/sop/report", ReportHandler())
			admin.GET("/sop/summary", SummaryHandler())
		}

		// Websocket feed authenticates via query token, not the middleware
		group.GET("/admin/sop/ws", FeedWSHandler(cfg, feed))
	}
	return r
}
