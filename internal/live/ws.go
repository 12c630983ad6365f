package live

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/visualmate/visualmate/backend/admin-service/pkg/logger"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// same-origin policy is enforced at the reverse proxy
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades the request and streams snapshots of the collection
// until the client disconnects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, collection string) error {
	sub, err := h.Subscribe(collection)
	if err != nil {
		return err
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Unsubscribe(sub)
		return err
	}

	go h.writePump(conn, sub)
	go h.readPump(conn, sub)
	return nil
}

func (h *Hub) writePump(conn *websocket.Conn, sub *Subscriber) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		conn.Close()
		h.Unsubscribe(sub)
	}()
	for {
		select {
		case snap := <-sub.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(snap); err != nil {
				logger.Debug().Err(err).Str("collection", sub.collection).Msg("live write failed")
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards client messages; it exists to process pongs and detect
// the close handshake.
func (h *Hub) readPump(conn *websocket.Conn, sub *Subscriber) {
	defer func() {
		conn.Close()
		h.Unsubscribe(sub)
	}()
	conn.SetReadLimit(1024)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
