package http

import (
	"encoding/base64"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/takaki719/emoguchi/internal/modules/solo/usecase"
	"github.com/takaki719/emoguchi/pkg/apperr"
	"github.com/takaki719/emoguchi/pkg/logger"
)

// Handler exposes solo mode over REST.
type Handler struct {
	solo *usecase.SoloUseCase
}

func NewHandler(solo *usecase.SoloUseCase) *Handler {
	return &Handler{solo: solo}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1/solo")
	api.GET("/dialogue", h.GetDialogue)
	api.POST("/predict", h.Predict)
	api.GET("/stats/:device_id", h.GetStats)
	api.GET("/history/:device_id", h.GetHistory)
}

func (h *Handler) GetDialogue(c *gin.Context) {
	c.JSON(http.StatusOK, h.solo.GetDialogue(c.Request.Context()))
}

type predictRequest struct {
	DeviceID      string `json:"device_id"`
	Phrase        string `json:"phrase"`
	TargetEmotion string `json:"target_emotion"`
	Audio         string `json:"audio"` // base64
}

func (h *Handler) Predict(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Wrap(err, apperr.CodeValidation, "invalid request body"))
		return
	}

	audio, err := base64.StdEncoding.DecodeString(req.Audio)
	if err != nil {
		respondError(c, apperr.Validation("audio must be base64 encoded"))
		return
	}

	result, err := h.solo.Predict(c.Request.Context(), req.DeviceID, req.Phrase, req.TargetEmotion, audio)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.solo.GetStats(c.Request.Context(), c.Param("device_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) GetHistory(c *gin.Context) {
	limit := 0
	if raw, ok := c.GetQuery("limit"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, apperr.Validation("limit must be a number"))
			return
		}
		limit = n
	}

	history, err := h.solo.GetHistory(c.Request.Context(), c.Param("device_id"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

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
