package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"codewords/internal/grid"
	"codewords/internal/shared"
)

const (
	writeTimeout = 5 * time.Second
	sendBuffer   = 32
)

// client owns one websocket connection. All outbound traffic goes through
// the buffered send channel and a single writer goroutine, so a connection
// that stops draining only ever backs up its own buffer.
type client struct {
	id   string
	conn *websocket.Conn

	mu     sync.Mutex
	send   chan interface{}
	closed bool
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan interface{}, sendBuffer),
	}
}

// trySend queues a message without blocking. A false return means the
// buffer is full or the client is closed; callers treat both as a dead
// subscriber.
func (c *client) trySend(v interface{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- v:
		return true
	default:
		return false
	}
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// writeLoop drains the send channel onto the wire until the channel closes
// or a write fails. It is the only goroutine that writes to the conn.
func (c *client) writeLoop() {
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteJSON(msg); err != nil {
			log.Debug().Err(err).Str("subscriber", c.id).Msg("write failed")
			break
		}
	}
	c.conn.Close()
}

// Hub is the per-room fan-out: it tracks which connections subscribe to
// which room code and pushes room events to all of them.
type Hub struct {
	mu      sync.RWMutex
	rooms   map[string]map[*client]struct{}
	service RoomService
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*client]struct{})}
}

// SetService wires the room manager after construction; hub and manager
// reference each other.
func (h *Hub) SetService(svc RoomService) {
	h.service = svc
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWS upgrades the connection, subscribes it to the requested room and
// runs the action loop until the client disconnects.
func (h *Hub) HandleWS(c *gin.Context) {
	roomCode := c.Query("room_code")
	if roomCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing room_code"})
		return
	}
	username := c.Query("username")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	cl := newClient(conn)
	h.subscribe(roomCode, cl)
	go cl.writeLoop()
	log.Debug().Str("room", roomCode).Str("subscriber", cl.id).Msg("client subscribed")

	defer func() {
		h.unsubscribe(roomCode, cl)
		cl.close()
	}()

	for {
		var msg struct {
			Action string          `json:"action"`
			Data   json.RawMessage `json:"data"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			log.Debug().Err(err).Str("subscriber", cl.id).Msg("websocket closed")
			return
		}
		h.dispatch(cl, roomCode, username, msg.Action, msg.Data)
	}
}

func (h *Hub) subscribe(roomCode string, cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[roomCode]; !ok {
		h.rooms[roomCode] = make(map[*client]struct{})
	}
	h.rooms[roomCode][cl] = struct{}{}
}

func (h *Hub) unsubscribe(roomCode string, cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms[roomCode], cl)
	if len(h.rooms[roomCode]) == 0 {
		delete(h.rooms, roomCode)
	}
}

// Broadcast queues one event for every subscriber of the room and returns
// immediately: each enqueue is a non-blocking send, and a subscriber whose
// buffer is full is evicted rather than waited on. The wire writes happen
// on the per-client writer goroutines, never on the caller.
func (h *Hub) Broadcast(roomCode string, event string, payload interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.rooms[roomCode]
	if !ok {
		return
	}
	message := gin.H{"action": event, "data": payload}
	for cl := range clients {
		if !cl.trySend(message) {
			log.Warn().Str("subscriber", cl.id).Msg("dropping slow subscriber")
			cl.close()
			delete(clients, cl)
		}
	}
}

type tileClickedData struct {
	Row      *int        `json:"row"`
	Col      *int        `json:"col"`
	Index    *int        `json:"index"`
	Team     shared.Team `json:"team"`
	Username string      `json:"username"`
}

type playerData struct {
	Username string      `json:"username"`
	Role     shared.Role `json:"role"`
	Team     shared.Team `json:"team"`
}

func (h *Hub) dispatch(cl *client, roomCode, username, action string, data json.RawMessage) {
	switch action {
	case "joinRoom":
		var p playerData
		if err := json.Unmarshal(data, &p); err != nil {
			h.ack(cl, action, err)
			return
		}
		_, err := h.service.Join(roomCode, shared.Player{Username: p.Username, Role: p.Role, Team: p.Team})
		h.ack(cl, action, err)

	case "leaveRoom":
		var p playerData
		if err := json.Unmarshal(data, &p); err != nil {
			h.ack(cl, action, err)
			return
		}
		if p.Username == "" {
			p.Username = username
		}
		_, _, err := h.service.Leave(roomCode, p.Username)
		h.ack(cl, action, err)

	case "tileClicked":
		var t tileClickedData
		if err := json.Unmarshal(data, &t); err != nil {
			h.ack(cl, action, err)
			return
		}
		index, err := tileIndex(t)
		if err != nil {
			h.ack(cl, action, err)
			return
		}
		actor := t.Username
		if actor == "" {
			actor = username
		}
		_, already, err := h.service.Reveal(roomCode, index, actor, t.Team)
		if err != nil {
			h.ack(cl, action, err)
			return
		}
		if already {
			// Idempotent no-op: only the clicking client is told.
			cl.trySend(gin.H{"action": "tileAlreadyRevealed", "data": gin.H{"index": index}})
			return
		}
		h.ack(cl, action, nil)

	case "startGame":
		var p playerData
		if err := json.Unmarshal(data, &p); err != nil {
			h.ack(cl, action, err)
			return
		}
		if p.Username == "" {
			p.Username = username
		}
		_, err := h.service.StartGame(roomCode, p.Username)
		h.ack(cl, action, err)

	case "endTurn":
		_, err := h.service.EndTurn(roomCode)
		h.ack(cl, action, err)

	case "updateRoomData":
		h.ack(cl, action, h.service.Resync(roomCode))

	default:
		cl.trySend(gin.H{"action": "error", "data": gin.H{"action": action, "error": "unknown action"}})
	}
}

// ack reports the action's outcome to the initiating client. Failures are
// always surfaced; silent validation drops were a bug in earlier versions
// of this service.
func (h *Hub) ack(cl *client, action string, err error) {
	if err != nil {
		cl.trySend(gin.H{"action": "error", "data": gin.H{"action": action, "error": err.Error()}})
		return
	}
	cl.trySend(gin.H{"action": "ack", "data": gin.H{"action": action}})
}

func tileIndex(t tileClickedData) (int, error) {
	if t.Index != nil {
		return *t.Index, nil
	}
	if t.Row != nil && t.Col != nil {
		return grid.Index(*t.Row, *t.Col)
	}
	return 0, grid.ErrInvalidIndex
}
