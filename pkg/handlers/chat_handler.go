package handlers

import (
	"net/http"

	"tambak-dashboard-api/pkg/models"
	"tambak-dashboard-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// ChatHandler exposes the per-session conversational layer.
type ChatHandler struct {
	sessionService *services.SessionService
	aiService      *services.AIService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(sessions *services.SessionService, ai *services.AIService) *ChatHandler {
	return &ChatHandler{
		sessionService: sessions,
		aiService:      ai,
	}
}

// SendMessage handles POST /chat. The user's turn is always appended to
// the transcript; a completion-service failure surfaces as an inline error
// string with no assistant turn, never as an unhandled fault.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format request tidak valid: " + err.Error()})
		return
	}

	sess, ok := h.sessionService.Get(req.SessionID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "sesi tidak ditemukan; unggah data terlebih dahulu"})
		return
	}

	resp := h.sessionService.ChatRound(c.Request.Context(), sess, req.Message, h.aiService)
	c.JSON(http.StatusOK, resp)
}

// GetHistory handles GET /chat/:sessionID/history and returns the full
// transcript, oldest turn first.
func (h *ChatHandler) GetHistory(c *gin.Context) {
	sess, ok := h.sessionService.Get(c.Param("sessionID"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "sesi tidak ditemukan"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id": sess.ID,
		"transcript": sess.Turns(),
	})
}
