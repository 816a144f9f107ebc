package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/takaki719/emoguchi/pkg/logger"
)

type CloseReason string

const (
	ReasonWriteError CloseReason = "write_error"
	ReasonPingError  CloseReason = "ping_error"
	ReasonReadError  CloseReason = "read_error"
	ReasonReplaced   CloseReason = "replaced_by_new_connection"
	ReasonShutdown   CloseReason = "server_shutdown"
	ReasonBufferFull CloseReason = "buffer_full"
	ReasonTimeout    CloseReason = "timeout"
)

const (
	writeWait      = 30 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 10 << 20 // audio frames ride the socket as base64
	sendBufferSize = 256
)

// Envelope is the wire frame for every server-to-client event.
type Envelope struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// Connection is one player's socket in one room.
type Connection struct {
	RoomID   string
	PlayerID string
	Conn     *websocket.Conn
	Send     chan []byte

	manager   *Manager
	replaced  bool
	closeOnce sync.Once
}

// Manager tracks connections per room and implements the event sink the
// game engine broadcasts through.
type Manager struct {
	rooms      map[string]map[string]*Connection // room id -> player id -> conn
	register   chan *Connection
	unregister chan *Connection
	mu         sync.RWMutex

	// onDisconnect fires when a player's live connection drops for real,
	// not when it is replaced by a reconnect.
	onDisconnect func(roomID, playerID string)
}

func NewManager() *Manager {
	return &Manager{
		rooms:      make(map[string]map[string]*Connection),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
	}
}

// OnDisconnect installs the drop callback. Must be called before Run.
func (m *Manager) OnDisconnect(fn func(roomID, playerID string)) {
	m.onDisconnect = fn
}

// Register binds a socket to a (room, player) slot, displacing any
// previous connection for the same player.
func (m *Manager) Register(conn *websocket.Conn, roomID, playerID string) *Connection {
	c := &Connection{
		RoomID:   roomID,
		PlayerID: playerID,
		Conn:     conn,
		Send:     make(chan []byte, sendBufferSize),
		manager:  m,
	}
	m.register <- c
	return c
}

// Unregister drops a connection from the manager.
func (m *Manager) Unregister(c *Connection) {
	m.unregister <- c
}

// Run is the manager loop; start it once in its own goroutine.
func (m *Manager) Run() {
	for {
		select {
		case client := <-m.register:
			m.mu.Lock()
			room := m.rooms[client.RoomID]
			if room == nil {
				room = make(map[string]*Connection)
				m.rooms[client.RoomID] = room
			}
			if old, ok := room[client.PlayerID]; ok {
				old.replaced = true
				old.CloseWithReason(ReasonReplaced, nil)
			}
			room[client.PlayerID] = client
			m.mu.Unlock()

		case client := <-m.unregister:
			m.mu.Lock()
			dropped := false
			if room, ok := m.rooms[client.RoomID]; ok {
				if room[client.PlayerID] == client {
					delete(room, client.PlayerID)
					dropped = true
					if len(room) == 0 {
						delete(m.rooms, client.RoomID)
					}
				}
			}
			m.mu.Unlock()

			if dropped && !client.replaced && m.onDisconnect != nil {
				m.onDisconnect(client.RoomID, client.PlayerID)
			}
		}
	}
}

func (m *Manager) BroadcastToRoom(roomID, event string, payload interface{}) {
	m.broadcast(roomID, "", event, payload)
}

func (m *Manager) BroadcastToRoomExcept(roomID, exceptPlayerID, event string, payload interface{}) {
	m.broadcast(roomID, exceptPlayerID, event, payload)
}

func (m *Manager) broadcast(roomID, exceptPlayerID, event string, payload interface{}) {
	message, err := json.Marshal(Envelope{Event: event, Payload: payload})
	if err != nil {
		logger.Error(context.Background()).Err(err).Str("event", event).Msg("ws: failed to encode event")
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for playerID, client := range m.rooms[roomID] {
		if playerID == exceptPlayerID {
			continue
		}
		select {
		case client.Send <- message:
		default:
			// Buffer full, drop the client; ReadPump unregisters it.
			client.CloseWithReason(ReasonBufferFull, nil)
		}
	}
}

func (m *Manager) SendToPlayer(roomID, playerID, event string, payload interface{}) {
	message, err := json.Marshal(Envelope{Event: event, Payload: payload})
	if err != nil {
		logger.Error(context.Background()).Err(err).Str("event", event).Msg("ws: failed to encode event")
		return
	}

	m.mu.RLock()
	client, ok := m.rooms[roomID][playerID]
	m.mu.RUnlock()
	if !ok {
		return
	}

	select {
	case client.Send <- message:
		return
	default:
	}

	select {
	case client.Send <- message:
	case <-time.After(5 * time.Second):
		// Client too slow to drain; cut it loose rather than block.
		client.CloseWithReason(ReasonTimeout, nil)
	}
}

// RoomConnectionCount reports live sockets in a room.
func (m *Manager) RoomConnectionCount(roomID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms[roomID])
}

// Shutdown closes every connection.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, room := range m.rooms {
		for _, client := range room {
			client.CloseWithReason(ReasonShutdown, nil)
		}
	}
	m.rooms = make(map[string]map[string]*Connection)
}

// CloseWithReason closes the socket once; the Send channel stays open so
// concurrent senders never panic.
func (c *Connection) CloseWithReason(r CloseReason, err error) {
	c.closeOnce.Do(func() {
		evt := logger.Info(context.Background())
		if err != nil {
			evt = logger.Error(context.Background()).Err(err)
		}
		evt.
			Str("room_id", c.RoomID).
			Str("player_id", c.PlayerID).
			Str("reason", string(r)).
			Msg("ws connection closed")
		c.Conn.Close()
	})
}

// WritePump drains Send onto the socket and keeps the ping cycle going.
func (c *Connection) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.CloseWithReason(ReasonWriteError, err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.CloseWithReason(ReasonPingError, err)
				return
			}
		}
	}
}

// ReadPump feeds inbound frames to handleMessage until the socket dies,
// then unregisters the connection.
func (c *Connection) ReadPump(handleMessage func(conn *Connection, message []byte)) {
	var readErr error
	defer func() {
		c.manager.unregister <- c
		c.CloseWithReason(ReasonReadError, readErr)
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				readErr = err
			}
			break
		}
		handleMessage(c, message)
	}
}
