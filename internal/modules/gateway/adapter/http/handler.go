package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/takaki719/emoguchi/internal/modules/game/domain"
	"github.com/takaki719/emoguchi/internal/modules/game/usecase"
	"github.com/takaki719/emoguchi/internal/modules/gateway/ws"
	"github.com/takaki719/emoguchi/pkg/apperr"
	"github.com/takaki719/emoguchi/pkg/logger"
)

const hostTokenHeader = "X-Host-Token"

// Handler exposes the room REST surface and the websocket endpoint.
type Handler struct {
	game        *usecase.GameUseCase
	manager     *ws.Manager
	createLimit *rate.Limiter
}

func NewHandler(game *usecase.GameUseCase, manager *ws.Manager, createLimit *rate.Limiter) *Handler {
	return &Handler{
		game:        game,
		manager:     manager,
		createLimit: createLimit,
	}
}

// RegisterRoutes wires the handler into the gin engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	api.POST("/rooms", h.CreateRoom)
	api.GET("/rooms/:room_id", h.GetRoom)
	api.DELETE("/rooms/:room_id", h.DeleteRoom)
	api.PUT("/rooms/:room_id/config", h.UpdateConfig)
	api.POST("/rooms/:room_id/prefetch", h.PrefetchPhrases)

	r.GET("/ws/:room_id", h.HandleWebSocket)
}

type createRoomRequest struct {
	RoomID string             `json:"room_id"`
	Config *domain.RoomConfig `json:"config"`
}

type createRoomResponse struct {
	RoomID         string            `json:"room_id"`
	HostToken      string            `json:"host_token"`
	IsExistingRoom bool              `json:"is_existing_room"`
	Config         domain.RoomConfig `json:"config"`
}

func (h *Handler) CreateRoom(c *gin.Context) {
	if !h.createLimit.Allow() {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"code":    "EMO-429",
			"message": "too many rooms created, slow down",
		})
		return
	}

	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Wrap(err, apperr.CodeValidation, "invalid request body"))
		return
	}

	cfg := domain.DefaultRoomConfig()
	if req.Config != nil {
		cfg = *req.Config
	}

	room, isExisting, err := h.game.CreateRoom(c.Request.Context(), cfg, req.RoomID)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusCreated
	if isExisting {
		status = http.StatusOK
	}
	c.JSON(status, createRoomResponse{
		RoomID:         room.ID,
		HostToken:      room.HostToken,
		IsExistingRoom: isExisting,
		Config:         room.Config,
	})
}

type roomResponse struct {
	RoomID      string            `json:"room_id"`
	Phase       string            `json:"phase"`
	Config      domain.RoomConfig `json:"config"`
	PlayerCount int               `json:"player_count"`
	Players     []string          `json:"players"`
}

func (h *Handler) GetRoom(c *gin.Context) {
	room, err := h.game.GetRoom(c.Request.Context(), c.Param("room_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	names := make([]string, 0, len(room.Players))
	for _, id := range room.ConnectedPlayerIDs() {
		names = append(names, room.Players[id].Name)
	}
	c.JSON(http.StatusOK, roomResponse{
		RoomID:      room.ID,
		Phase:       string(room.Phase),
		Config:      room.Config,
		PlayerCount: room.ConnectedCount(),
		Players:     names,
	})
}

func (h *Handler) DeleteRoom(c *gin.Context) {
	err := h.game.DeleteRoom(c.Request.Context(), c.Param("room_id"), c.GetHeader(hostTokenHeader))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "room deleted"})
}

func (h *Handler) UpdateConfig(c *gin.Context) {
	var cfg domain.RoomConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		respondError(c, apperr.Wrap(err, apperr.CodeValidation, "invalid request body"))
		return
	}

	room, err := h.game.UpdateConfig(c.Request.Context(), c.Param("room_id"), c.GetHeader(hostTokenHeader), cfg)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"config": room.Config})
}

type prefetchRequest struct {
	Count int `json:"count"`
}

func (h *Handler) PrefetchPhrases(c *gin.Context) {
	var req prefetchRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		respondError(c, apperr.Wrap(err, apperr.CodeValidation, "invalid request body"))
		return
	}

	phrases, err := h.game.PrefetchPhrases(c.Request.Context(), c.Param("room_id"), c.GetHeader(hostTokenHeader), req.Count)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"phrases": phrases})
}

// respondError maps domain errors onto HTTP statuses, keeping the
// {code, message} body shape clients parse.
func respondError(c *gin.Context, err error) {
	appErr := apperr.From(err)
	if appErr.Code == apperr.CodeInternal {
		logger.Error(c.Request.Context()).Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.JSON(apperr.HTTPStatus(appErr.Code), gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	})
}
