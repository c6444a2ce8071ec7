package websocket

import (
	"log"
	"sync"

	"github.com/citytransit/bus_pass_backend/models"
	"github.com/gofiber/contrib/websocket"
)

// Hub for the admin SOS dashboard: every connected admin gets each new alert
// pushed as JSON the moment it is raised.

type Client struct {
	Conn *websocket.Conn
}

var clients = make(map[*websocket.Conn]struct{})
var clientsMu sync.RWMutex

var Register = make(chan *Client)
var Unregister = make(chan *Client)
var alerts = make(chan *models.SosAlert, 16)

// BroadcastAlert queues an alert for delivery to connected dashboards. Drops
// the alert if the hub is backed up; the alert row is already persisted.
func BroadcastAlert(alert *models.SosAlert) {
	select {
	case alerts <- alert:
	default:
		log.Println("⚠️ SOS feed backlog full, dropping live broadcast")
	}
}

func RunHub() {
	for {
		select {
		case client := <-Register:
			clientsMu.Lock()
			clients[client.Conn] = struct{}{}
			clientsMu.Unlock()
			log.Println("SOS feed client connected")
		case client := <-Unregister:
			clientsMu.Lock()
			delete(clients, client.Conn)
			clientsMu.Unlock()
			log.Println("SOS feed client disconnected")
		case alert := <-alerts:
			clientsMu.RLock()
			stale := make([]*websocket.Conn, 0)
			for conn := range clients {
				if err := conn.WriteJSON(alert); err != nil {
					log.Printf("Error pushing SOS alert to client: %v", err)
					conn.Close()
					stale = append(stale, conn)
				}
			}
			clientsMu.RUnlock()
			if len(stale) > 0 {
				clientsMu.Lock()
				for _, conn := range stale {
					delete(clients, conn)
				}
				clientsMu.Unlock()
			}
		}
	}
}
