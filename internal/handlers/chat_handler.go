package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/hirehub/internal/apperrors"
	"alfredoptarigan/hirehub/internal/middleware"
	"alfredoptarigan/hirehub/internal/models"
	"alfredoptarigan/hirehub/internal/services"
)

type ChatHandler struct {
	chatService services.ChatService
}

func NewChatHandler(chatService services.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

// HandleSendMessage handles POST /chat/messages
func (h *ChatHandler) HandleSendMessage(c *fiber.Ctx) error {
	var req models.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload(err)
	}

	turn, err := h.chatService.SendMessage(c.UserContext(), req.ConversationID, req.Content, callerID(c))
	if err != nil {
		return err
	}

	return c.JSON(turn)
}

// HandleGetMessages handles GET /chat/messages?conversationId=
func (h *ChatHandler) HandleGetMessages(c *fiber.Ctx) error {
	conversationID := strings.TrimSpace(c.Query("conversationId"))
	if conversationID == "" {
		return apperrors.Validation("conversationId is required",
			apperrors.FieldError{Field: "conversationId", Message: "is required"})
	}

	messages, err := h.chatService.GetMessages(conversationID)
	if err != nil {
		return err
	}

	return c.JSON(messages)
}

// HandleCreateConversation handles POST /chat/conversations
func (h *ChatHandler) HandleCreateConversation(c *fiber.Ctx) error {
	var req models.CreateConversationRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return invalidPayload(err)
		}
	}

	conv, err := h.chatService.CreateConversation(req.ParticipantIDs, callerID(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(conv)
}

// HandleGetConversation handles GET /chat/conversations/:id
func (h *ChatHandler) HandleGetConversation(c *fiber.Ctx) error {
	conv, err := h.chatService.GetConversation(c.Params("id"))
	if err != nil {
		return err
	}

	return c.JSON(conv)
}

func callerID(c *fiber.Ctx) string {
	if p := middleware.Principal(c); p != nil {
		return p.UserID
	}
	return ""
}
