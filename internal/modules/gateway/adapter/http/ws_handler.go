package http

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/takaki719/emoguchi/internal/modules/gateway/ws"
	"github.com/takaki719/emoguchi/pkg/apperr"
	"github.com/takaki719/emoguchi/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Room ids double as passphrases; origin is not a boundary here.
		return true
	},
}

// Client-to-server message events.
const (
	msgJoinRoom    = "join_room"
	msgStartRound  = "start_round"
	msgAudioSend   = "audio_send"
	msgSubmitVote  = "submit_vote"
	msgRestartGame = "restart_game"
)

type clientMessage struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

type joinPayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

type audioPayload struct {
	Audio string `json:"audio"` // base64
}

type votePayload struct {
	RoundID   string `json:"round_id"`
	EmotionID string `json:"emotion_id"`
}

// HandleWebSocket upgrades the socket and runs the per-connection
// protocol: the first frame must be join_room, everything after is
// dispatched to the game engine.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	roomID := c.Param("room_id")
	ctx := logger.WebSocketContext(c.Request)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error(ctx).Err(err).Str("room_id", roomID).Msg("websocket upgrade failed")
		return
	}

	// The join frame arrives before the connection is registered, so a
	// failed join can close the raw socket without touching the manager.
	var msg clientMessage
	if err := conn.ReadJSON(&msg); err != nil || msg.Event != msgJoinRoom {
		writeDirectError(conn, apperr.Validation("first message must be join_room"))
		conn.Close()
		return
	}
	var join joinPayload
	if err := json.Unmarshal(msg.Payload, &join); err != nil || join.PlayerName == "" {
		writeDirectError(conn, apperr.Validation("join_room requires player_name"))
		conn.Close()
		return
	}

	playerID := join.PlayerID
	if playerID == "" {
		playerID = uuid.NewString()
	}

	client := h.manager.Register(conn, roomID, playerID)
	go client.WritePump()

	player, err := h.game.JoinRoom(ctx, roomID, playerID, join.PlayerName)
	if err != nil {
		h.sendError(roomID, playerID, err)
		client.CloseWithReason(ws.ReasonShutdown, err)
		h.manager.Unregister(client)
		return
	}

	logger.Info(ctx).
		Str("room_id", roomID).
		Str("player_id", player.ID).
		Str("player_name", player.Name).
		Msg("player connected")

	client.ReadPump(h.dispatch)
}

// dispatch routes one inbound frame. Errors go back to the sender only;
// broadcasts are the engine's job.
func (h *Handler) dispatch(client *ws.Connection, message []byte) {
	ctx := logger.WithRequestID(context.Background(), logger.GenerateRequestID())
	ctx = logger.WithFields(ctx, map[string]interface{}{
		"room_id":   client.RoomID,
		"player_id": client.PlayerID,
	})

	var msg clientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		h.sendError(client.RoomID, client.PlayerID, apperr.Validation("malformed message"))
		return
	}

	var err error
	switch msg.Event {
	case msgJoinRoom:
		// Already joined on this socket; a rejoin is a no-op.

	case msgStartRound:
		err = h.game.StartRound(ctx, client.RoomID, client.PlayerID)

	case msgAudioSend:
		var p audioPayload
		if jsonErr := json.Unmarshal(msg.Payload, &p); jsonErr != nil {
			err = apperr.Validation("audio_send requires audio")
			break
		}
		var audio []byte
		audio, err = base64.StdEncoding.DecodeString(p.Audio)
		if err != nil {
			err = apperr.Validation("audio must be base64 encoded")
			break
		}
		err = h.game.SubmitAudio(ctx, client.RoomID, client.PlayerID, audio)

	case msgSubmitVote:
		var p votePayload
		if jsonErr := json.Unmarshal(msg.Payload, &p); jsonErr != nil {
			err = apperr.Validation("submit_vote requires round_id and emotion_id")
			break
		}
		err = h.game.SubmitVote(ctx, client.RoomID, client.PlayerID, p.RoundID, p.EmotionID)

	case msgRestartGame:
		err = h.game.RestartGame(ctx, client.RoomID, client.PlayerID)

	default:
		err = apperr.Validation("unknown event " + msg.Event)
	}

	if err != nil {
		logger.Warn(ctx).Err(err).Str("event", msg.Event).Msg("ws message rejected")
		h.sendError(client.RoomID, client.PlayerID, err)
	}
}

func (h *Handler) sendError(roomID, playerID string, err error) {
	appErr := apperr.From(err)
	h.manager.SendToPlayer(roomID, playerID, "error", map[string]string{
		"code":    appErr.Code,
		"message": appErr.Message,
	})
}

func writeDirectError(conn *websocket.Conn, err *apperr.AppError) {
	payload, marshalErr := json.Marshal(ws.Envelope{
		Event: "error",
		Payload: map[string]string{
			"code":    err.Code,
			"message": err.Message,
		},
	})
	if marshalErr != nil {
		return
	}
	conn.WriteMessage(websocket.TextMessage, payload)
}
