package handlers

import (
	"github.com/evrental/evrental-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// HandleWebSocket upgrades the connection and attaches the client to the hub.
// Auth middleware has already validated the token (passed as ?token= for
// browser WebSocket clients) and set the user's id and role.
func HandleWebSocket(hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		role := c.GetString("role")

		conn, err := services.UpgradeConnection(c.Writer, c.Request)
		if err != nil {
			c.JSON(400, gin.H{"error": "Failed to upgrade connection"})
			return
		}

		client := &services.Client{
			ID:   userId,
			Role: role,
			Conn: conn,
			Send: make(chan []byte, 256),
			Hub:  hub,
		}

		hub.Register(client)

		go client.WritePump()
		go client.ReadPump()
	}
}
