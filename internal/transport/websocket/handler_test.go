package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamasit07/gravity-four/backend/internal/domain"
)

type stubGames map[string]domain.GameDetails

func (s stubGames) GetGameDetails(_ context.Context, id string) (domain.GameDetails, error) {
	d, ok := s[id]
	if !ok {
		return domain.GameDetails{}, domain.ErrNoSuchGame
	}
	return d, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *ConnectionManager, domain.GameDetails) {
	t.Helper()
	g, err := domain.NewGame()
	require.NoError(t, err)
	details := g.Details()

	cm := NewConnectionManager()
	h := NewHandler(cm, stubGames{details.UUID: details}, nil)
	srv := httptest.NewServer(http.HandlerFunc(h.HandleWebSocket))
	t.Cleanup(srv.Close)
	return srv, cm, details
}

func wsURL(srv *httptest.Server, gameID string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?gameId=" + gameID
}

func TestWatcherReceivesStateThenMoves(t *testing.T) {
	srv, cm, details := newTestServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, details.UUID), nil)
	require.NoError(t, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var snapshot struct {
		Type string             `json:"type"`
		Game domain.GameDetails `json:"game"`
	}
	require.NoError(t, conn.ReadJSON(&snapshot))
	assert.Equal(t, "GAME_STATE", snapshot.Type)
	assert.Equal(t, details.UUID, snapshot.Game.UUID)
	assert.Equal(t, 1, cm.Watchers(details.UUID))

	event := domain.NewMoveEvent(details.UUID, domain.PlayerMoveDetails{Player: domain.PlayerOne, TargetCell: domain.Position{Row: 0, Column: 3}})
	require.NoError(t, cm.NotifyMove(context.Background(), event))

	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var got domain.MoveEvent
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, event, got)

	// other games stay quiet
	require.NoError(t, cm.NotifyMove(context.Background(), domain.NewMoveEvent("other", domain.PlayerMoveDetails{Player: domain.PlayerOne})))
}

func TestWatcherRemovedOnClose(t *testing.T) {
	srv, cm, details := newTestServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, details.UUID), nil)
	require.NoError(t, err)
	var snapshot map[string]any
	require.NoError(t, conn.ReadJSON(&snapshot))
	require.NoError(t, conn.Close())

	assert.Eventually(t, func() bool { return cm.Watchers(details.UUID) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestUnknownGameIsRejected(t *testing.T) {
	srv, _, _ := newTestServer(t)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "missing"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(wsURL(srv, ""), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
