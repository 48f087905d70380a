package usecase

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/fairyhunter13/ai-portfolio-assistant/internal/adapter/observability"
	"github.com/fairyhunter13/ai-portfolio-assistant/internal/domain"
	"github.com/fairyhunter13/ai-portfolio-assistant/internal/prompt"
)

// FallbackReply is returned when the model produces no text.
const FallbackReply = "I'm sorry, I couldn't generate a response."

// SnapshotLoader yields the snapshot for the candidate being served.
type SnapshotLoader interface {
	Current(ctx domain.Context) (domain.CandidateSnapshot, error)
}

// ChatService answers visitor questions in the candidate's voice.
type ChatService struct {
	Candidates SnapshotLoader
	AI         domain.InferenceClient
	MaxTokens  int
}

// NewChatService constructs a ChatService.
func NewChatService(c SnapshotLoader, ai domain.InferenceClient, maxTokens int) ChatService {
	return ChatService{Candidates: c, AI: ai, MaxTokens: maxTokens}
}

// Reply composes the chat system prompt and forwards the validated
// conversation to the model.
func (s ChatService) Reply(ctx domain.Context, messages []domain.ChatMessage) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("op=chat.Reply: %w: no messages", domain.ErrInvalidArgument)
	}
	snap, err := s.Candidates.Current(ctx)
	if err != nil {
		return "", fmt.Errorf("op=chat.Reply: %w", err)
	}

	system := prompt.BuildChatPrompt(snap, snap.HonestyLevel())
	observability.LoggerFromContext(ctx).Debug("chat prompt composed",
		slog.Int("prompt_len", len(system)),
		slog.Int("messages", len(messages)),
		slog.Int("honesty_level", prompt.ClampHonestyLevel(snap.HonestyLevel())))

	reply, err := s.AI.Complete(domain.WithOperation(ctx, domain.OperationChat), system, messages, s.MaxTokens)
	if err != nil {
		return "", fmt.Errorf("op=chat.Reply: %w", err)
	}
	if strings.TrimSpace(reply) == "" {
		return FallbackReply, nil
	}
	return reply, nil
}
