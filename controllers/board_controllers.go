package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/yeremiapane/table-reservation/hub"
	"github.com/yeremiapane/table-reservation/middlewares"
)

// BoardHandler upgrades to a websocket that receives reservation events until
// the client disconnects. Staff auth runs before it.
func BoardHandler(h *hub.Hub, allowedOrigin string) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return allowedOrigin == "" || allowedOrigin == "*" || origin == "" || origin == allowedOrigin
		},
	}

	return func(c *gin.Context) {
		subject := c.GetString(middlewares.ContextStaffSubject)
		if subject == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		h.RegisterClient(ws, subject)

		// Clients only listen; reading detects the disconnect.
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				break
			}
		}

		h.UnregisterClient(ws)
	}
}
