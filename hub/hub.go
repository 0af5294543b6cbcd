// Package hub fans events out to users connected over websocket.
package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/beartracks/utils"
)

const writeWait = 5 * time.Second

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// client is one open connection. gorilla/websocket allows a single writer at
// a time, so writes go through writeMu.
type client struct {
	conn    *websocket.Conn
	userID  string
	writeMu sync.Mutex
}

func (cl *client) write(payload []byte) error {
	cl.writeMu.Lock()
	defer cl.writeMu.Unlock()
	cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return cl.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub holds every open connection with the user it belongs to. A user may
// have several connections, one per open tab.
type Hub struct {
	clients map[*websocket.Conn]*client
	mutex   sync.Mutex
}

func New() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]*client)}
}

// Register adds conn for userID.
func (h *Hub) Register(conn *websocket.Conn, userID string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = &client{conn: conn, userID: userID}
	utils.InfoLogger.Printf("Websocket client registered for user %s (%d open)", userID, len(h.clients))
}

// Unregister drops conn and closes it.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	_, ok := h.clients[conn]
	delete(h.clients, conn)
	h.mutex.Unlock()

	if ok {
		conn.Close()
	}
}

// Publish sends event to every connection of userID. The hub lock is only
// held while picking targets, so a slow connection delays its own user and
// nobody else. A connection that fails to take the write is dropped.
func (h *Hub) Publish(userID string, event string, data interface{}) {
	payload, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling %s event: %v", event, err)
		return
	}

	for _, cl := range h.targets(userID) {
		if err := cl.write(payload); err != nil {
			utils.ErrorLogger.Printf("Error sending %s to user %s: %v", event, userID, err)
			h.Unregister(cl.conn)
		}
	}
}

func (h *Hub) targets(userID string) []*client {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	var out []*client
	for _, cl := range h.clients {
		if cl.userID == userID {
			out = append(out, cl)
		}
	}
	return out
}

// Subscribers lists the users with at least one open connection.
func (h *Hub) Subscribers() []string {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	seen := make(map[string]struct{}, len(h.clients))
	users := make([]string, 0, len(h.clients))
	for _, cl := range h.clients {
		if _, ok := seen[cl.userID]; ok {
			continue
		}
		seen[cl.userID] = struct{}{}
		users = append(users, cl.userID)
	}
	return users
}

// Serve registers conn for userID and blocks reading from it until the
// client goes away. Incoming messages are ignored.
func (h *Hub) Serve(conn *websocket.Conn, userID string) {
	h.Register(conn, userID)
	defer h.Unregister(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
