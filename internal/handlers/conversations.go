// conversations.go
//
// Direct-message handlers. All routes require a signed-in user; a
// conversation is only visible to its two participants.

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/prylics/prylics-data/internal/services"
	"github.com/prylics/prylics-data/internal/store"
	"github.com/prylics/prylics-data/internal/utils"
)

// ConversationsHandler handles direct-message routes
type ConversationsHandler struct {
	Store *store.Store
}

// StartConversationRequest is the body of POST /api/conversations.
type StartConversationRequest struct {
	UserID string `json:"userId"`
}

// MessageRequest is the body of message-append routes.
type MessageRequest struct {
	Text string `json:"text"`
}

// ListConversations handles GET /api/conversations
// @Summary List the signed-in user's conversations
// @Description Ordered by most recent message; threads with no messages sort last
// @Tags Conversations
// @Produce json
// @Success 200 {array} models.Conversation
// @Security CookieAuth
// @Router /conversations [get]
func (h *ConversationsHandler) ListConversations(c *fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return unauthenticatedResponse(c)
	}

	conversations, err := services.ListConversations(h.Store, profile.UID)
	if err != nil {
		return serviceErrorResponse(c, err, "listConversations")
	}
	return c.Status(fiber.StatusOK).JSON(conversations)
}

// StartConversation handles POST /api/conversations
// @Summary Get or create the conversation with another user
// @Description Both directions resolve to the same thread; messaging yourself is rejected
// @Tags Conversations
// @Accept json
// @Produce json
// @Param request body StartConversationRequest true "The other participant"
// @Success 200 {object} models.Conversation
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /conversations [post]
func (h *ConversationsHandler) StartConversation(c *fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return unauthenticatedResponse(c)
	}

	var req StartConversationRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	conversation, err := services.GetOrCreateConversation(h.Store, profile.UID, req.UserID)
	if err != nil {
		return serviceErrorResponse(c, err, "startConversation")
	}
	return c.Status(fiber.StatusOK).JSON(conversation)
}

// GetConversation handles GET /api/conversations/:conversationId
// @Summary Get a conversation
// @Tags Conversations
// @Produce json
// @Param conversationId path string true "Conversation ID"
// @Success 200 {object} models.Conversation
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /conversations/{conversationId} [get]
func (h *ConversationsHandler) GetConversation(c *fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return unauthenticatedResponse(c)
	}

	conversation, err := services.GetConversation(h.Store, profile.UID, c.Params("conversationId"))
	if err != nil {
		return serviceErrorResponse(c, err, "getConversation")
	}
	return c.Status(fiber.StatusOK).JSON(conversation)
}

// PostMessage handles POST /api/conversations/:conversationId/messages
// @Summary Send a direct message
// @Tags Conversations
// @Accept json
// @Produce json
// @Param conversationId path string true "Conversation ID"
// @Param request body MessageRequest true "Message text"
// @Success 201 {object} models.Message
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /conversations/{conversationId}/messages [post]
func (h *ConversationsHandler) PostMessage(c *fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return unauthenticatedResponse(c)
	}

	var req MessageRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	message, err := services.AppendConversationMessage(h.Store, c.Params("conversationId"), profile, req.Text)
	if err != nil {
		return serviceErrorResponse(c, err, "postMessage")
	}
	return c.Status(fiber.StatusCreated).JSON(message)
}
