package websocket

import (
	"log"
	"sync"
	"time"

	"github.com/anmolmalik/talk_sessions/models"
	"github.com/gofiber/contrib/websocket"
)

// Event is one booking lifecycle notification pushed to connected admin
// dashboards.
type Event struct {
	Type      string    `json:"type"`
	BookingID string    `json:"booking_id"`
	Status    string    `json:"status"`
	SlotStart time.Time `json:"slot_start"`
	At        time.Time `json:"at"`
}

type Client struct {
	Conn *websocket.Conn
}

var clients = make(map[*websocket.Conn]bool)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)
var Broadcast = make(chan Event, 16)

func RunHub() {
	for {
		select {
		case client := <-Register:
			clientsMu.Lock()
			clients[client.Conn] = true
			clientsMu.Unlock()
			log.Printf("Admin dashboard connected (%d active)", len(clients))
		case client := <-Unregister:
			clientsMu.Lock()
			delete(clients, client.Conn)
			clientsMu.Unlock()
		case event := <-Broadcast:
			clientsMu.RLock()
			var dead []*websocket.Conn
			for conn := range clients {
				if err := conn.WriteJSON(event); err != nil {
					log.Printf("Error pushing event to admin client: %v", err)
					conn.Close()
					dead = append(dead, conn)
				}
			}
			clientsMu.RUnlock()
			if len(dead) > 0 {
				clientsMu.Lock()
				for _, conn := range dead {
					delete(clients, conn)
				}
				clientsMu.Unlock()
			}
		}
	}
}

// NotifyBooking queues a lifecycle event without blocking the caller; if
// the hub is saturated the event is dropped.
func NotifyBooking(eventType string, booking *models.Booking) {
	event := Event{
		Type:      eventType,
		BookingID: booking.ID.String(),
		Status:    booking.Status,
		SlotStart: booking.SlotStart,
		At:        time.Now(),
	}
	select {
	case Broadcast <- event:
	default:
	}
}
