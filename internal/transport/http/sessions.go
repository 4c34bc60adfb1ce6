package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/gravity-four/backend/internal/domain"
	"github.com/iamasit07/gravity-four/backend/internal/transport/http/middleware"
)

type SessionService interface {
	CreateSession(ctx context.Context, params domain.CreateSessionParams) (domain.SessionDetails, error)
	GetSession(ctx context.Context, id string) (domain.SessionDetails, error)
	GetGameUUIDs(ctx context.Context, id string) ([]string, error)
	GetActiveGameUUID(ctx context.Context, id string) (string, bool, error)
	GetActivePlayer(ctx context.Context, id string) (string, error)
	AddNewGame(ctx context.Context, id, startingUUID string) (string, error)
	CompleteActiveGame(ctx context.Context, id string) error
	SubmitMove(ctx context.Context, id, participantUUID string, target domain.Position) (domain.PlayerMoveResult, error)
}

type SessionHandler struct {
	Sessions SessionService
}

func NewSessionHandler(sessions SessionService) *SessionHandler {
	return &SessionHandler{Sessions: sessions}
}

type createSessionRequest struct {
	InviteeUUID string `json:"inviteeUuid" binding:"required"`
}

type sessionMoveRequest struct {
	Row    *int `json:"row" binding:"required"`
	Column *int `json:"column" binding:"required"`
}

type activeGameResponse struct {
	Active           bool   `json:"active"`
	GameUUID         string `json:"gameUuid,omitempty"`
	ActivePlayerUUID string `json:"activePlayerUuid,omitempty"`
}

// CreateSession pairs the caller, as inviter, with the invitee
func (h *SessionHandler) CreateSession(c *gin.Context) {
	caller, _ := middleware.Participant(c)

	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "inviteeUuid is required")
		return
	}
	if req.InviteeUUID == caller {
		badRequest(c, "A session needs two different participants")
		return
	}

	session, err := h.Sessions.CreateSession(c.Request.Context(), domain.CreateSessionParams{
		InviterUUID: caller,
		InviteeUUID: req.InviteeUUID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// member loads the session and aborts unless the caller is one of its
// participants
func (h *SessionHandler) member(c *gin.Context) (domain.SessionDetails, string, bool) {
	caller, _ := middleware.Participant(c)
	session, err := h.Sessions.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return domain.SessionDetails{}, "", false
	}
	if caller != session.Inviter.UUID && caller != session.Invitee.UUID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a participant of this session"})
		return domain.SessionDetails{}, "", false
	}
	return session, caller, true
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	session, _, ok := h.member(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *SessionHandler) GetGames(c *gin.Context) {
	session, _, ok := h.member(c)
	if !ok {
		return
	}
	ids, err := h.Sessions.GetGameUUIDs(c.Request.Context(), session.UUID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": ids})
}

// AddGame starts a new game with the caller moving first
func (h *SessionHandler) AddGame(c *gin.Context) {
	session, caller, ok := h.member(c)
	if !ok {
		return
	}
	gameID, err := h.Sessions.AddNewGame(c.Request.Context(), session.UUID, caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"gameUuid": gameID})
}

func (h *SessionHandler) GetActiveGame(c *gin.Context) {
	session, _, ok := h.member(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	gameID, active, err := h.Sessions.GetActiveGameUUID(ctx, session.UUID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !active {
		c.JSON(http.StatusOK, activeGameResponse{Active: false})
		return
	}

	player, err := h.Sessions.GetActivePlayer(ctx, session.UUID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, activeGameResponse{Active: true, GameUUID: gameID, ActivePlayerUUID: player})
}

func (h *SessionHandler) CompleteActiveGame(c *gin.Context) {
	session, _, ok := h.member(c)
	if !ok {
		return
	}
	if err := h.Sessions.CompleteActiveGame(c.Request.Context(), session.UUID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SubmitMove relays the caller's move to the active game. Rejected moves
// are a 200 with moveSuccessful false.
func (h *SessionHandler) SubmitMove(c *gin.Context) {
	session, caller, ok := h.member(c)
	if !ok {
		return
	}

	var req sessionMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "row and column are required")
		return
	}

	result, err := h.Sessions.SubmitMove(c.Request.Context(), session.UUID, caller, domain.Position{Row: *req.Row, Column: *req.Column})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
