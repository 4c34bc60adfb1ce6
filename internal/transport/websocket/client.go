package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/iamasit07/gravity-four/backend/internal/domain"
)

const writeWait = 10 * time.Second

// subscriber pairs a socket with its write lock, gorilla connections
// allow one concurrent writer only
type subscriber struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (s *subscriber) send(v any) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(v)
}

func (s *subscriber) ping() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// ConnectionManager tracks the sockets watching each game and pushes move
// events to them
type ConnectionManager struct {
	mu    sync.RWMutex
	games map[string]map[*websocket.Conn]*subscriber // gameID → watchers
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{games: make(map[string]map[*websocket.Conn]*subscriber)}
}

func (cm *ConnectionManager) add(gameID string, conn *websocket.Conn) *subscriber {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	watchers, ok := cm.games[gameID]
	if !ok {
		watchers = make(map[*websocket.Conn]*subscriber)
		cm.games[gameID] = watchers
	}
	sub := &subscriber{conn: conn}
	watchers[conn] = sub
	return sub
}

func (cm *ConnectionManager) remove(gameID string, conn *websocket.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	watchers, ok := cm.games[gameID]
	if !ok {
		return
	}
	if _, ok := watchers[conn]; ok {
		conn.Close()
		delete(watchers, conn)
	}
	if len(watchers) == 0 {
		delete(cm.games, gameID)
	}
}

// Watchers counts the sockets subscribed to a game
func (cm *ConnectionManager) Watchers(gameID string) int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.games[gameID])
}

// NotifyMove writes the event to every watcher of the game. A watcher that
// can't be written to is dropped.
func (cm *ConnectionManager) NotifyMove(ctx context.Context, event domain.MoveEvent) error {
	cm.mu.RLock()
	watchers := make([]*subscriber, 0, len(cm.games[event.GameUUID]))
	for _, sub := range cm.games[event.GameUUID] {
		watchers = append(watchers, sub)
	}
	cm.mu.RUnlock()

	for _, sub := range watchers {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := sub.send(event); err != nil {
			cm.remove(event.GameUUID, sub.conn)
		}
	}
	return nil
}

// CloseAll disconnects every watcher, used on shutdown
func (cm *ConnectionManager) CloseAll() {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	for gameID, watchers := range cm.games {
		for conn := range watchers {
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(time.Second))
			conn.Close()
		}
		delete(cm.games, gameID)
	}
}
