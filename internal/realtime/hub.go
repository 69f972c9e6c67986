package realtime

import (
    "encoding/json"
    "net/http"
    "sync"
    "time"

    "github.com/gorilla/websocket"
    "go.uber.org/zap"

    "github.com/madhavprabhu/hostelhub/internal/model"
)

const (
    writeWait  = 10 * time.Second    // deadline for a single write
    pongWait   = 60 * time.Second    // read deadline, refreshed by pongs
    pingPeriod = (pongWait * 9) / 10 // ping a bit more often than the deadline
    sendBuffer = 32                  // per-client outbound queue
)

// Hub tracks connected sockets and their room memberships.  Membership
// lives only in process memory: a server restart drops every room and all
// clients must reconnect and re-join.
type Hub struct {
    mu      sync.RWMutex
    clients map[*client]struct{}            // every connected socket, joined or not
    rooms   map[string]map[*client]struct{} // room name -> members
    log     *zap.SugaredLogger

    upgrader websocket.Upgrader
}

type client struct {
    hub   *Hub
    conn  *websocket.Conn
    send  chan []byte
    id    uint64
    role  string
    rooms map[string]struct{}
}

// NewHub builds a hub whose upgrader accepts the given browser origin.
// Requests without an Origin header (tests, CLI tools) are allowed through;
// they already carried a valid session cookie to get here.
func NewHub(log *zap.SugaredLogger, clientURL string) *Hub {
    return &Hub{
        clients: make(map[*client]struct{}),
        rooms:   make(map[string]map[*client]struct{}),
        log:     log,
        upgrader: websocket.Upgrader{
            ReadBufferSize:  1024,
            WriteBufferSize: 1024,
            CheckOrigin: func(r *http.Request) bool {
                origin := r.Header.Get("Origin")
                return origin == "" || origin == clientURL
            },
        },
    }
}

// Publish sends one event to every socket currently joined to the room.
// Delivery is best-effort: a client whose outbound queue is full is
// dropped rather than allowed to stall the publisher, and publishing to an
// empty room is a silent no-op.
func (h *Hub) Publish(room, event string, data interface{}) {
    payload, err := json.Marshal(envelope{Event: event, Data: data})
    if err != nil {
        h.log.Errorw("realtime: marshal event failed", "event", event, "error", err)
        return
    }
    h.mu.RLock()
    members := h.rooms[room]
    targets := make([]*client, 0, len(members))
    for cl := range members {
        targets = append(targets, cl)
    }
    h.mu.RUnlock()

    for _, cl := range targets {
        select {
        case cl.send <- payload:
        default:
            h.log.Warnw("realtime: slow client dropped", "room", room, "principal", cl.id)
            cl.close()
        }
    }
}

// Broadcast sends one event to every connected socket regardless of rooms,
// mirroring the original global announcement emit.
func (h *Hub) Broadcast(event string, data interface{}) {
    payload, err := json.Marshal(envelope{Event: event, Data: data})
    if err != nil {
        h.log.Errorw("realtime: marshal event failed", "event", event, "error", err)
        return
    }
    h.mu.RLock()
    targets := make([]*client, 0, len(h.clients))
    for cl := range h.clients {
        targets = append(targets, cl)
    }
    h.mu.RUnlock()
    for _, cl := range targets {
        select {
        case cl.send <- payload:
        default:
            cl.close()
        }
    }
}

// RoomSize reports how many sockets are joined to a room.
func (h *Hub) RoomSize(room string) int {
    h.mu.RLock()
    defer h.mu.RUnlock()
    return len(h.rooms[room])
}

// ServeWS upgrades an authenticated request to a websocket.  The caller has
// already resolved the session; id and role are the verified principal, and
// join messages from the socket can only ever join that principal's rooms.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, id uint64, role string) error {
    conn, err := h.upgrader.Upgrade(w, r, nil)
    if err != nil {
        return err
    }
    cl := &client{
        hub:   h,
        conn:  conn,
        send:  make(chan []byte, sendBuffer),
        id:    id,
        role:  role,
        rooms: make(map[string]struct{}),
    }
    h.mu.Lock()
    h.clients[cl] = struct{}{}
    h.mu.Unlock()
    go cl.writePump()
    go cl.readPump()
    return nil
}

func (h *Hub) join(cl *client, room string) {
    h.mu.Lock()
    defer h.mu.Unlock()
    if _, ok := cl.rooms[room]; ok {
        return
    }
    if h.rooms[room] == nil {
        h.rooms[room] = make(map[*client]struct{})
    }
    h.rooms[room][cl] = struct{}{}
    cl.rooms[room] = struct{}{}
}

func (h *Hub) remove(cl *client) {
    h.mu.Lock()
    defer h.mu.Unlock()
    delete(h.clients, cl)
    for room := range cl.rooms {
        delete(h.rooms[room], cl)
        if len(h.rooms[room]) == 0 {
            delete(h.rooms, room)
        }
    }
    cl.rooms = make(map[string]struct{})
}

// readPump consumes join messages until the socket closes.  Unknown events
// are ignored; a join for the wrong role is ignored too, so a resident
// socket can never enter an admin room.
func (c *client) readPump() {
    defer func() {
        c.hub.remove(c)
        _ = c.conn.Close()
    }()
    c.conn.SetReadLimit(4096)
    _ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
    c.conn.SetPongHandler(func(string) error {
        return c.conn.SetReadDeadline(time.Now().Add(pongWait))
    })
    for {
        _, msg, err := c.conn.ReadMessage()
        if err != nil {
            return
        }
        var env envelope
        if err := json.Unmarshal(msg, &env); err != nil {
            continue
        }
        switch env.Event {
        case joinUser:
            if c.role == model.RoleUser {
                c.hub.join(c, RoomUser(c.id))
            }
        case joinAdmin:
            if c.role == model.RoleAdmin {
                c.hub.join(c, RoomAdmin(c.id))
                c.hub.join(c, RoomAdmins)
            }
        }
    }
}

func (c *client) writePump() {
    ticker := time.NewTicker(pingPeriod)
    defer func() {
        ticker.Stop()
        _ = c.conn.Close()
    }()
    for {
        select {
        case msg, ok := <-c.send:
            _ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
            if !ok {
                _ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
                return
            }
            if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
                return
            }
        case <-ticker.C:
            _ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
            if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
                return
            }
        }
    }
}

// close tears the client down from the publisher side.
func (c *client) close() {
    c.hub.remove(c)
    _ = c.conn.Close()
}
