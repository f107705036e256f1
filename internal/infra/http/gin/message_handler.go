package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"homestay/internal/app/commands"
	chatapp "homestay/internal/app/handlers/chat"
)

type MessageHandler struct {
	Commands commands.Bus
}

type sendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h MessageHandler) Send(c *gin.Context) {
	viewerID, ok := requireViewer(c)
	if !ok {
		return
	}
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := chatapp.SendMessageCommand{
		MessageID:   uuid.NewString(),
		SenderID:    viewerID,
		RecipientID: c.Param("id"),
		Content:     req.Content,
	}
	result, err := commands.Dispatch[chatapp.SendMessageCommand, *chatapp.SendMessageResult](
		c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

var _ MessageHTTP = MessageHandler{}
