package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codewords/internal/room"
	"codewords/internal/shared"
)

type stubService struct {
	joinErr error
	already bool

	mu       sync.Mutex
	revealed []int
}

func (s *stubService) Join(code string, p shared.Player) (*shared.Room, error) {
	return &shared.Room{Code: code}, s.joinErr
}

func (s *stubService) Leave(code, username string) (*shared.Room, bool, error) {
	return &shared.Room{Code: code}, false, nil
}

func (s *stubService) StartGame(code, requester string) (*shared.Room, error) {
	return &shared.Room{Code: code}, nil
}

func (s *stubService) Reveal(code string, index int, actor string, team shared.Team) (*shared.Room, bool, error) {
	s.mu.Lock()
	s.revealed = append(s.revealed, index)
	s.mu.Unlock()
	return &shared.Room{Code: code}, s.already, nil
}

func (s *stubService) revealedIndexes() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.revealed...)
}

func (s *stubService) EndTurn(code string) (*shared.Room, error) {
	return &shared.Room{Code: code}, nil
}

func (s *stubService) Resync(code string) error { return nil }

func newTestServer(t *testing.T, svc RoomService) (*Hub, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	hub := NewHub()
	hub.SetService(svc)
	r := gin.New()
	r.GET("/ws", hub.HandleWS)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, roomCode, username string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?room_code=" + roomCode
	if username != "" {
		u += "&username=" + username
	}
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// waitForSubscribers blocks until the hub has registered the expected number
// of connections for the room; the server goroutine subscribes after the
// handshake completes.
func waitForSubscribers(t *testing.T, h *Hub, roomCode string, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		h.mu.RLock()
		got := len(h.rooms[roomCode])
		h.mu.RUnlock()
		if got == n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("room %s never reached %d subscribers", roomCode, n)
}

type wsMessage struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

func readMessage(t *testing.T, conn *websocket.Conn) wsMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg wsMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestHandleWS_MissingRoomCode(t *testing.T) {
	_, srv := newTestServer(t, &stubService{})
	resp, err := http.Get(srv.URL + "/ws")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBroadcast_ReachesAllRoomSubscribers(t *testing.T) {
	hub, srv := newTestServer(t, &stubService{})

	first := dial(t, srv, "ABC12", "alice")
	second := dial(t, srv, "ABC12", "bob")
	other := dial(t, srv, "ZZZZZ", "eve")
	waitForSubscribers(t, hub, "ABC12", 2)
	waitForSubscribers(t, hub, "ZZZZZ", 1)

	hub.Broadcast("ABC12", "gridUpdated", gin.H{"index": 7})

	for _, conn := range []*websocket.Conn{first, second} {
		msg := readMessage(t, conn)
		assert.Equal(t, "gridUpdated", msg.Action)
	}

	// The other room hears nothing.
	other.SetReadDeadline(time.Now().Add(150 * time.Millisecond))
	var msg wsMessage
	assert.Error(t, other.ReadJSON(&msg))
}

func TestBroadcast_UnknownRoomIsNoop(t *testing.T) {
	hub, srv := newTestServer(t, &stubService{})
	dial(t, srv, "ABC12", "alice")
	waitForSubscribers(t, hub, "ABC12", 1)

	hub.Broadcast("XXXXX", "gridUpdated", nil)
}

func TestDispatch_UnknownAction(t *testing.T) {
	_, srv := newTestServer(t, &stubService{})
	conn := dial(t, srv, "ABC12", "alice")

	require.NoError(t, conn.WriteJSON(gin.H{"action": "dance"}))
	msg := readMessage(t, conn)
	assert.Equal(t, "error", msg.Action)
}

func TestDispatch_JoinRoomAck(t *testing.T) {
	_, srv := newTestServer(t, &stubService{})
	conn := dial(t, srv, "ABC12", "")

	require.NoError(t, conn.WriteJSON(gin.H{
		"action": "joinRoom",
		"data":   gin.H{"username": "alice", "role": "Agent", "team": "Red"},
	}))
	msg := readMessage(t, conn)
	assert.Equal(t, "ack", msg.Action)
}

func TestDispatch_JoinRoomError(t *testing.T) {
	_, srv := newTestServer(t, &stubService{joinErr: room.ErrRoomFull})
	conn := dial(t, srv, "ABC12", "")

	require.NoError(t, conn.WriteJSON(gin.H{
		"action": "joinRoom",
		"data":   gin.H{"username": "alice", "role": "Agent", "team": "Red"},
	}))
	msg := readMessage(t, conn)
	require.Equal(t, "error", msg.Action)

	var data struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	assert.Equal(t, room.ErrRoomFull.Error(), data.Error)
}

func TestDispatch_TileClickedByRowCol(t *testing.T) {
	svc := &stubService{}
	_, srv := newTestServer(t, svc)
	conn := dial(t, srv, "ABC12", "alice")

	require.NoError(t, conn.WriteJSON(gin.H{
		"action": "tileClicked",
		"data":   gin.H{"row": 2, "col": 4, "team": "Red"},
	}))
	msg := readMessage(t, conn)
	assert.Equal(t, "ack", msg.Action)
	assert.Equal(t, []int{14}, svc.revealedIndexes())
}

func TestDispatch_TileClickedMissingAddress(t *testing.T) {
	_, srv := newTestServer(t, &stubService{})
	conn := dial(t, srv, "ABC12", "alice")

	require.NoError(t, conn.WriteJSON(gin.H{
		"action": "tileClicked",
		"data":   gin.H{"team": "Red"},
	}))
	msg := readMessage(t, conn)
	assert.Equal(t, "error", msg.Action)
}

func TestDispatch_TileClickedAlreadyRevealed(t *testing.T) {
	_, srv := newTestServer(t, &stubService{already: true})
	conn := dial(t, srv, "ABC12", "alice")

	require.NoError(t, conn.WriteJSON(gin.H{
		"action": "tileClicked",
		"data":   gin.H{"index": 6, "team": "Red"},
	}))
	msg := readMessage(t, conn)
	require.Equal(t, "tileAlreadyRevealed", msg.Action)

	var data struct {
		Index int `json:"index"`
	}
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	assert.Equal(t, 6, data.Index)
}

func TestBroadcast_DeadSubscriberDoesNotBlockCaller(t *testing.T) {
	hub, srv := newTestServer(t, &stubService{})

	// This client never reads; its socket and send buffer fill up.
	dial(t, srv, "ABC12", "alice")
	waitForSubscribers(t, hub, "ABC12", 1)

	payload := strings.Repeat("x", 1<<20)
	for i := 0; i < 2*sendBuffer; i++ {
		start := time.Now()
		hub.Broadcast("ABC12", "gridUpdated", gin.H{"blob": payload})
		assert.Less(t, time.Since(start), 200*time.Millisecond,
			"broadcast %d stalled on a subscriber that never drains", i)
	}

	// Once the buffer filled, the subscriber was evicted.
	waitForSubscribers(t, hub, "ABC12", 0)
}

func TestUnsubscribeOnDisconnect(t *testing.T) {
	hub, srv := newTestServer(t, &stubService{})
	conn := dial(t, srv, "ABC12", "alice")
	waitForSubscribers(t, hub, "ABC12", 1)

	conn.Close()
	waitForSubscribers(t, hub, "ABC12", 0)

	hub.mu.RLock()
	_, ok := hub.rooms["ABC12"]
	hub.mu.RUnlock()
	assert.False(t, ok)
}
