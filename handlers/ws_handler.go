package handlers

import (
	ws "github.com/anmolmalik/talk_sessions/websocket"
	"github.com/gofiber/contrib/websocket"
)

// ServeAdminWS keeps an admin dashboard connection registered with the
// hub until the client goes away. The read loop only exists to detect
// disconnects; clients never send anything meaningful.
func ServeAdminWS(conn *websocket.Conn) {
	client := &ws.Client{Conn: conn}
	ws.Register <- client
	defer func() {
		ws.Unregister <- client
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
