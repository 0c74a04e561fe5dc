package controller

import (
	"context"
	"net/http"

	"b2bconnect-backend/models"
	"b2bconnect-backend/services"
	"b2bconnect-backend/utils/logger"

	"github.com/gin-gonic/gin"
)

type ConversationController struct {
	ctx           context.Context
	conversations services.ConversationServiceInterface
	logger        logger.Logger
}

func NewConversationController(ctx context.Context, conversations services.ConversationServiceInterface, log logger.Logger) *ConversationController {
	return &ConversationController{
		ctx:           ctx,
		conversations: conversations,
		logger:        log,
	}
}

// Create handles POST /api/v1/conversations
// @Summary Start a conversation
// @Description Open a thread with another user and send the first message
// @Tags Messaging
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateConversationRequest true "Recipient and first message"
// @Success 201 {object} map[string]interface{} "Created conversation"
// @Failure 400 {object} models.ErrorResponse "Missing recipient or text"
// @Failure 401 {object} models.ErrorResponse "Not authenticated"
// @Router /conversations [post]
func (h *ConversationController) Create(c *gin.Context) {
	var req models.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind conversation body:", err)
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	conversation, err := h.conversations.StartConversation(c.Request.Context(), c.GetString("user_id"), &req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"conversation": conversation,
		"success":      true,
	})
}

// List handles GET /api/v1/conversations
// @Summary List the inbox
// @Description Return the caller's conversations, most recent activity first
// @Tags Messaging
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{} "Conversations"
// @Failure 401 {object} models.ErrorResponse "Not authenticated"
// @Router /conversations [get]
func (h *ConversationController) List(c *gin.Context) {
	conversations, err := h.conversations.ListInbox(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"conversations": conversations,
		"success":       true,
	})
}

// GetMessages handles GET /api/v1/conversations/:id/messages
// @Summary Read a thread
// @Description Return a conversation's messages in chronological order
// @Tags Messaging
// @Security BearerAuth
// @Produce json
// @Param id path string true "Conversation ID"
// @Success 200 {object} map[string]interface{} "Messages"
// @Failure 403 {object} models.ErrorResponse "Not a participant"
// @Failure 404 {object} models.ErrorResponse "Conversation not found"
// @Router /conversations/{id}/messages [get]
func (h *ConversationController) GetMessages(c *gin.Context) {
	messages, err := h.conversations.GetMessages(c.Request.Context(), c.Param("id"), c.GetString("user_id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
		"success":  true,
	})
}

// SendMessage handles POST /api/v1/conversations/:id/messages
// @Summary Send a message
// @Description Append a message to an existing conversation
// @Tags Messaging
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Conversation ID"
// @Param request body models.SendMessageRequest true "Message text"
// @Success 201 {object} map[string]interface{} "Sent message"
// @Failure 400 {object} models.ErrorResponse "Empty message"
// @Failure 403 {object} models.ErrorResponse "Not a participant"
// @Failure 404 {object} models.ErrorResponse "Conversation not found"
// @Router /conversations/{id}/messages [post]
func (h *ConversationController) SendMessage(c *gin.Context) {
	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind message body:", err)
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	message, err := h.conversations.SendMessage(c.Request.Context(), c.Param("id"), c.GetString("user_id"), &req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": message,
		"success": true,
	})
}

// MarkRead handles POST /api/v1/conversations/:id/read
// @Summary Mark a thread as read
// @Description Zero the caller's unread counter on a conversation
// @Tags Messaging
// @Security BearerAuth
// @Produce json
// @Param id path string true "Conversation ID"
// @Success 200 {object} models.SuccessResponse "Marked read"
// @Failure 403 {object} models.ErrorResponse "Not a participant"
// @Failure 404 {object} models.ErrorResponse "Conversation not found"
// @Router /conversations/{id}/read [post]
func (h *ConversationController) MarkRead(c *gin.Context) {
	if err := h.conversations.MarkRead(c.Request.Context(), c.Param("id"), c.GetString("user_id")); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}
