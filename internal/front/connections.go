package front

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// ConnectionManager manages the WebSocket connections of attached screens
// and fans state events out to them.
type ConnectionManager struct {
	connections map[*Connection]bool
	mu          sync.RWMutex

	upgrader websocket.Upgrader
	config   ConnectionConfig

	broadcastCh chan *Event
}

// Connection represents one attached screen.
type Connection struct {
	ID      string
	Conn    *websocket.Conn
	Send    chan []byte
	Manager *ConnectionManager

	ConnectedAt time.Time
}

// ConnectionConfig holds WebSocket timing and buffer settings.
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool
}

// DefaultConnectionConfig returns the default WebSocket configuration.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// Screens run on the same device; any origin is fine.
			return true
		},
	}
}

// NewConnectionManager creates a WebSocket connection manager.
func NewConnectionManager(config ConnectionConfig) *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[*Connection]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:      config,
		broadcastCh: make(chan *Event, 256),
	}
}

// Start processes broadcast events until ctx is cancelled.
func (cm *ConnectionManager) Start(ctx context.Context) {
	log.Info().Msg("connection manager started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("connection manager shutting down")
			return
		case event := <-cm.broadcastCh:
			cm.handleBroadcast(event)
		}
	}
}

// UpgradeConnection upgrades an HTTP request to a WebSocket screen
// connection.
func (cm *ConnectionManager) UpgradeConnection(w http.ResponseWriter, r *http.Request) error {
	conn, err := cm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	connection := &Connection{
		ID:          uuid.New().String()[:8],
		Conn:        conn,
		Send:        make(chan []byte, 256),
		Manager:     cm,
		ConnectedAt: time.Now(),
	}

	cm.mu.Lock()
	cm.connections[connection] = true
	total := len(cm.connections)
	cm.mu.Unlock()

	go connection.writePump()
	go connection.readPump()

	log.Info().
		Str("connection_id", connection.ID).
		Int("total_connections", total).
		Msg("screen connected")
	return nil
}

// Broadcast queues an event for every attached screen. Drops when the queue
// is full; the next state change carries a full snapshot anyway.
func (cm *ConnectionManager) Broadcast(event *Event) {
	select {
	case cm.broadcastCh <- event:
	default:
		log.Warn().Str("event_type", string(event.Type)).Msg("broadcast channel full, dropping event")
	}
}

func (cm *ConnectionManager) unregisterConnection(conn *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if _, exists := cm.connections[conn]; exists {
		delete(cm.connections, conn)
		close(conn.Send)
		log.Info().Str("connection_id", conn.ID).Msg("screen disconnected")
	}
}

func (cm *ConnectionManager) handleBroadcast(event *Event) {
	cm.mu.RLock()
	targets := make([]*Connection, 0, len(cm.connections))
	for conn := range cm.connections {
		targets = append(targets, conn)
	}
	cm.mu.RUnlock()

	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal event for broadcast")
		return
	}

	for _, conn := range targets {
		select {
		case conn.Send <- data:
		default:
			// Slow or dead screen; close it rather than backing up.
			log.Warn().Str("connection_id", conn.ID).Msg("connection send buffer full, closing connection")
			cm.unregisterConnection(conn)
			conn.Conn.Close()
		}
	}
}

// writePump sends queued messages and pings on the connection.
func (c *Connection) writePump() {
	ticker := time.NewTicker(c.Manager.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
		c.Manager.unregisterConnection(c)
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error().Err(err).Str("connection_id", c.ID).Msg("failed to write message")
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains client messages to keep pong handling alive. Screens are
// read-only over the socket; inbound payloads are logged and ignored.
func (c *Connection) readPump() {
	defer func() {
		c.Manager.unregisterConnection(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.Manager.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("connection_id", c.ID).Msg("unexpected WebSocket close")
			}
			break
		}
		log.Debug().Str("connection_id", c.ID).RawJSON("message", message).Msg("ignoring client message")
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	}
}
