package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"go-restaurant-reservation/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

var wsClients = make(map[*websocket.Conn]bool)
var wsMu sync.Mutex

// socketMessage is the envelope pushed to connected back-office dashboards.
// Customer-facing clients keep polling GET /table-reservations instead; this
// stream only supplements that.
type socketMessage struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// HandleReservationSocket upgrades the connection and keeps it registered
// until the peer goes away.
func HandleReservationSocket() gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Println("websocket upgrade failed:", err)
			return
		}
		defer conn.Close()

		wsMu.Lock()
		wsClients[conn] = true
		wsMu.Unlock()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				wsMu.Lock()
				delete(wsClients, conn)
				wsMu.Unlock()
				break
			}
		}
	}
}

// BroadcastReservationEvent pushes a reservation event to every connected
// dashboard. Write failures drop the client.
func BroadcastReservationEvent(event string, reservation models.Reservation) {
	wsMu.Lock()
	defer wsMu.Unlock()

	messageBytes, err := json.Marshal(socketMessage{Event: event, Payload: reservation})
	if err != nil {
		log.Println("error marshaling reservation event:", err)
		return
	}
	for client := range wsClients {
		if err := client.WriteMessage(websocket.TextMessage, messageBytes); err != nil {
			client.Close()
			delete(wsClients, client)
		}
	}
}
