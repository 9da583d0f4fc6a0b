package handlers

import (
	"log"
	"net/http"

	"socialnet/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSNotificationsHandler - WebSocket endpoint для live-уведомлений
func WSNotificationsHandler(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}
	defer conn.Close()

	services.NotificationHub.Add(userID, conn)
	defer services.NotificationHub.Remove(userID, conn)

	_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"connected","message":"WebSocket connected"}`))

	// Держим соединение, пока клиент не отключится
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
