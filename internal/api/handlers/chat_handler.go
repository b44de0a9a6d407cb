package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yachtdrop/backend/internal/application/services"
	"github.com/yachtdrop/backend/internal/domain/entities"
)

// ChatHandler handles AI shopping assistant HTTP requests
type ChatHandler struct {
	chatService *services.ChatService
	validate    *validator.Validate
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		validate:    validator.New(),
	}
}

type chatMessageDTO struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

type chatRequestDTO struct {
	Messages         []chatMessageDTO `json:"messages" validate:"required,min=1,dive"`
	Limit            int              `json:"limit" validate:"omitempty,min=1,max=30"`
	PreviousProducts []string         `json:"previousProducts" validate:"omitempty,max=12,dive,max=200"`
}

// Chat handles POST /api/chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Messages[len(req.Messages)-1].Content) == "" {
		respondWithError(w, http.StatusBadRequest, "last message must not be empty")
		return
	}

	messages := make([]entities.ChatMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, entities.ChatMessage{
			Role:    entities.ChatRole(m.Role),
			Content: m.Content,
		})
	}

	resp := h.chatService.Respond(r.Context(), services.ChatRequest{
		Messages:         messages,
		Limit:            req.Limit,
		PreviousProducts: req.PreviousProducts,
	})

	respondWithJSON(w, http.StatusOK, resp)
}
