package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"userhub/internal/auth"
	"userhub/internal/config"
	"userhub/internal/sop"
	"userhub/internal/user"
)

var feedUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// GET /admin/sop/ws?token=
// Browsers cannot set headers on a websocket handshake, so the token rides
// in the query string. Auth is checked before the upgrade.
func FeedWSHandler(cfg *config.Config, feed *sop.Feed) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := auth.VerifyToken(cfg, c.Query("token"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid or expired token"})
			return
		}
		if !auth.Authorize(user.Role(claims.Role), user.RoleAdmin) {
			c.JSON(http.StatusForbidden, gin.H{"detail": "Admin privileges required"})
			return
		}
		conn, err := feedUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		ch := feed.Subscribe()
		defer feed.Unsubscribe(ch)

		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
		for {
			select {
			case activity, ok := <-ch:
				if !ok {
					return
				}
				if err := conn.WriteJSON(activity); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}
}
