package delivery

import (
	"net/http"
	"strconv"

	"uniwork-backend/internal/chat/usecase"

	"github.com/gin-gonic/gin"
)

// ChatHandler handles conversation HTTP requests
type ChatHandler struct {
	chatUsecase usecase.ChatUsecase
}

func NewChatHandler(chatUsecase usecase.ChatUsecase) *ChatHandler {
	return &ChatHandler{
		chatUsecase: chatUsecase,
	}
}

// ConverseRequest represents one user chat turn
type ConverseRequest struct {
	Message string `json:"message" binding:"required"`
}

// POST /api/chat
func (h *ChatHandler) Converse(c *gin.Context) {
	userID := c.GetString("userID")

	var req ConverseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := h.chatUsecase.Converse(c.Request.Context(), userID, req.Message)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, reply)
}

// GET /api/chat/history?limit=50&offset=0
func (h *ChatHandler) History(c *gin.Context) {
	userID := c.GetString("userID")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	messages, err := h.chatUsecase.History(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// DELETE /api/chat
func (h *ChatHandler) Clear(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.chatUsecase.Clear(userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "conversation cleared"})
}
