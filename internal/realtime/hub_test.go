package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/madhavprabhu/hostelhub/internal/model"
)

func dialHub(t *testing.T, hub *Hub, id uint64, role string) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, hub.ServeWS(w, r, id, role))
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func joinAndWait(t *testing.T, hub *Hub, conn *websocket.Conn, event, room string) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(map[string]string{"event": event}))
	deadline := time.Now().Add(2 * time.Second)
	for hub.RoomSize(room) == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("socket never joined room %s", room)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func readEvent(t *testing.T, conn *websocket.Conn) (string, map[string]interface{}) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	var env struct {
		Event string                 `json:"event"`
		Data  map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(msg, &env))
	return env.Event, env.Data
}

func TestPublishReachesJoinedRoom(t *testing.T) {
	hub := NewHub(zap.NewNop().Sugar(), "")
	conn := dialHub(t, hub, 7, model.RoleUser)

	joinAndWait(t, hub, conn, "join-user", RoomUser(7))
	hub.Publish(RoomUser(7), EventUserNotification, map[string]string{"title": "Fee reminder"})

	event, data := readEvent(t, conn)
	assert.Equal(t, EventUserNotification, event)
	assert.Equal(t, "Fee reminder", data["title"])
}

func TestUserCannotJoinAdminRoom(t *testing.T) {
	hub := NewHub(zap.NewNop().Sugar(), "")
	conn := dialHub(t, hub, 7, model.RoleUser)

	// A resident socket asking for admin rooms is silently ignored.
	require.NoError(t, conn.WriteJSON(map[string]string{"event": "join-admin"}))
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, hub.RoomSize(RoomAdmins))
	assert.Zero(t, hub.RoomSize(RoomAdmin(7)))
}

func TestJoinIdentityComesFromSession(t *testing.T) {
	// The join payload carries no id; the socket can only ever join the
	// room of the principal resolved at upgrade time.
	hub := NewHub(zap.NewNop().Sugar(), "")
	conn := dialHub(t, hub, 7, model.RoleUser)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"event": "join-user",
		"data":  map[string]interface{}{"userId": 99},
	}))
	deadline := time.Now().Add(2 * time.Second)
	for hub.RoomSize(RoomUser(7)) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("socket never joined its own room")
		}
		time.Sleep(5 * time.Millisecond)
	}
	assert.Zero(t, hub.RoomSize(RoomUser(99)))
}

func TestAdminJoinsSharedRoom(t *testing.T) {
	hub := NewHub(zap.NewNop().Sugar(), "")
	conn := dialHub(t, hub, 3, model.RoleAdmin)

	joinAndWait(t, hub, conn, "join-admin", RoomAdmins)
	assert.Equal(t, 1, hub.RoomSize(RoomAdmin(3)))

	hub.Publish(RoomAdmins, EventNewComplaint, map[string]string{"complaint": "leaky tap"})
	event, _ := readEvent(t, conn)
	assert.Equal(t, EventNewComplaint, event)
}

func TestBroadcastReachesUnjoinedSockets(t *testing.T) {
	// io.emit semantics: a connected socket that never sent a join still
	// receives broadcasts.
	hub := NewHub(zap.NewNop().Sugar(), "")
	conn := dialHub(t, hub, 7, model.RoleUser)

	// Give the connection goroutines a moment to register.
	deadline := time.Now().Add(2 * time.Second)
	for {
		hub.mu.RLock()
		n := len(hub.clients)
		hub.mu.RUnlock()
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("socket never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.Broadcast(EventNewAnnouncement, map[string]string{"title": "Water outage"})
	event, data := readEvent(t, conn)
	assert.Equal(t, EventNewAnnouncement, event)
	assert.Equal(t, "Water outage", data["title"])
}

func TestDisconnectLeavesRooms(t *testing.T) {
	hub := NewHub(zap.NewNop().Sugar(), "")
	conn := dialHub(t, hub, 7, model.RoleUser)

	joinAndWait(t, hub, conn, "join-user", RoomUser(7))
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.RoomSize(RoomUser(7)) != 0 {
		if time.Now().After(deadline) {
			t.Fatal("room membership survived disconnect")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestRoomNames(t *testing.T) {
	assert.Equal(t, "user_7", RoomUser(7))
	assert.Equal(t, "admin_3", RoomAdmin(3))
	assert.Equal(t, "admin_admin", RoomAdmins)
}
