package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
)

const sendTimeout = 5 * time.Second

// client is one connected listener. Messages are fanned out through a
// buffered channel; a full buffer drops the client rather than blocking
// the tick loop.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks WebSocket clients grouped into rooms. A client joins a room by
// sending {"room": "<id>"}; any other message is relayed to its room.
type Hub struct {
	mu          sync.RWMutex
	rooms       map[string]map[*client]struct{}
	clientRooms map[*client]string
}

func NewHub() *Hub {
	return &Hub{
		rooms:       make(map[string]map[*client]struct{}),
		clientRooms: make(map[*client]string),
	}
}

// ServeHTTP upgrades the request and runs the client until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		fmt.Printf("[WS] Accept failed: %v\n", err)
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, 64),
	}
	fmt.Println("[WS] New connection")

	go h.writeLoop(c)
	h.readLoop(r.Context(), c)
}

func (h *Hub) readLoop(ctx context.Context, c *client) {
	defer h.drop(c)

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			return
		}

		var msg struct {
			Room string `json:"room"`
		}
		if err := json.Unmarshal(data, &msg); err == nil && msg.Room != "" {
			h.join(c, msg.Room)
			ack, _ := json.Marshal(map[string]string{
				"type": "room_joined",
				"room": msg.Room,
			})
			h.sendTo(c, ack)
			continue
		}

		// Relay anything else to the client's current room.
		if room := h.roomOf(c); room != "" {
			h.BroadcastToRoom(room, data, c)
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	for data := range c.send {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		err := c.conn.Write(ctx, websocket.MessageText, data)
		cancel()
		if err != nil {
			h.drop(c)
			return
		}
	}
}

func (h *Hub) join(c *client, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.leaveLocked(c)
	room, ok := h.rooms[roomID]
	if !ok {
		room = make(map[*client]struct{})
		h.rooms[roomID] = room
	}
	room[c] = struct{}{}
	h.clientRooms[c] = roomID
}

func (h *Hub) leaveLocked(c *client) {
	roomID, ok := h.clientRooms[c]
	if !ok {
		return
	}
	if room, ok := h.rooms[roomID]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, roomID)
		}
	}
	delete(h.clientRooms, c)
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	_, known := h.clientRooms[c]
	h.leaveLocked(c)
	h.mu.Unlock()

	if known {
		fmt.Println("[WS] Connection closed")
	}
	c.conn.Close(websocket.StatusNormalClosure, "")
}

func (h *Hub) roomOf(c *client) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clientRooms[c]
}

func (h *Hub) sendTo(c *client, message []byte) {
	select {
	case c.send <- message:
	default:
		// Slow consumer; let the write loop's failure path clean it up.
	}
}

// BroadcastToRoom sends message to every client in the room except exclude.
func (h *Hub) BroadcastToRoom(roomID string, message []byte, exclude *client) {
	h.mu.RLock()
	targets := make([]*client, 0)
	for c := range h.rooms[roomID] {
		if c != exclude {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		h.sendTo(c, message)
	}
}

// BroadcastToAllRooms sends message to every connected client.
func (h *Hub) BroadcastToAllRooms(message []byte) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.clientRooms))
	for c := range h.clientRooms {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		h.sendTo(c, message)
	}
}

// RoomInfo returns the client count per room.
func (h *Hub) RoomInfo() map[string]int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	info := make(map[string]int, len(h.rooms))
	for id, room := range h.rooms {
		info[id] = len(room)
	}
	return info
}
