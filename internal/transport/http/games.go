package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/gravity-four/backend/internal/domain"
	"github.com/iamasit07/gravity-four/backend/pkg/uid"
)

type GameService interface {
	CreateGame(ctx context.Context) (string, error)
	GetGameDetails(ctx context.Context, id string) (domain.GameDetails, error)
	SubmitMove(ctx context.Context, id string, move domain.PlayerMoveDetails) (domain.PlayerMoveResult, error)
}

type GameHandler struct {
	Games GameService
}

func NewGameHandler(games GameService) *GameHandler {
	return &GameHandler{Games: games}
}

type targetCellRequest struct {
	Row    *int `json:"row" binding:"required"`
	Column *int `json:"column" binding:"required"`
}

type gameMoveRequest struct {
	Player     *domain.PlayerNumber `json:"player" binding:"required"`
	TargetCell *targetCellRequest   `json:"targetCell" binding:"required"`
}

func (h *GameHandler) CreateGame(c *gin.Context) {
	id, err := h.Games.CreateGame(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"gameUuid": id})
}

// gameID returns the :id param, ids that can't be uuids are answered with 404
func gameID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if !uid.IsValid(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such game: " + id})
		return "", false
	}
	return id, true
}

func (h *GameHandler) GetGame(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	details, err := h.Games.GetGameDetails(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *GameHandler) SubmitMove(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}

	var req gameMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "player and targetCell are required")
		return
	}

	result, err := h.Games.SubmitMove(c.Request.Context(), id, domain.PlayerMoveDetails{
		Player:     *req.Player,
		TargetCell: domain.Position{Row: *req.TargetCell.Row, Column: *req.TargetCell.Column},
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
