package websocket

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/iamasit07/gravity-four/backend/internal/domain"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// GameLookup is the read side of the game service
type GameLookup interface {
	GetGameDetails(ctx context.Context, id string) (domain.GameDetails, error)
}

type Handler struct {
	ConnManager *ConnectionManager
	Games       GameLookup
	Upgrader    websocket.Upgrader
}

// NewHandler builds the handler. An empty allowedOrigins accepts any origin.
func NewHandler(cm *ConnectionManager, games GameLookup, allowedOrigins []string) *Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &Handler{
		ConnManager: cm,
		Games:       games,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || origin == "" || allowed[origin]
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

type snapshotMessage struct {
	Type string             `json:"type"`
	Game domain.GameDetails `json:"game"`
}

// HandleWebSocket subscribes the socket to the moves of ?gameId= and sends
// the current game state first
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("gameId")
	if gameID == "" {
		http.Error(w, "gameId is required", http.StatusBadRequest)
		return
	}

	details, err := h.Games.GetGameDetails(r.Context(), gameID)
	if errors.Is(err, domain.ErrNoSuchGame) {
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("[WS] Error loading game %s: %v", gameID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	h.handleConnection(gameID, conn, details)
}

func (h *Handler) handleConnection(gameID string, conn *websocket.Conn, details domain.GameDetails) {
	sub := h.ConnManager.add(gameID, conn)
	log.Printf("[WS] Watcher joined game %s", gameID)
	defer func() {
		h.ConnManager.remove(gameID, conn)
		log.Printf("[WS] Watcher left game %s", gameID)
	}()

	if err := sub.send(snapshotMessage{Type: "GAME_STATE", Game: details}); err != nil {
		log.Printf("[WS] Error sending game state: %v", err)
		return
	}

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := sub.ping(); err != nil {
					return
				}
			}
		}
	}()

	// watchers only listen, reads keep the deadline and close frames flowing
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS] Watcher disconnected unexpectedly: %v", err)
			}
			return
		}
	}
}
