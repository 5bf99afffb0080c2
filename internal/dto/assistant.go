package dto

import "github.com/kevkotuto/freelance_backend/internal/core/domain"

// ChatMessageRequest is one turn supplied by the caller.
type ChatMessageRequest struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required,max=4000"`
}

// ChatRequest is the conversation sent to the assistant.
type ChatRequest struct {
	Messages []ChatMessageRequest `json:"messages" binding:"required,min=1,max=20,dive"`
}

// ChatResponse carries the assistant reply.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// ToDomainMessages converts request turns into domain chat messages.
func ToDomainMessages(msgs []ChatMessageRequest) []domain.ChatMessage {
	res := make([]domain.ChatMessage, len(msgs))
	for i, m := range msgs {
		res[i] = domain.ChatMessage{Role: domain.ChatRole(m.Role), Content: m.Content}
	}
	return res
}
