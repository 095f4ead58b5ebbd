package services

import (
	"context"
	"fmt"

	"tambak-dashboard-api/pkg/groq"
	"tambak-dashboard-api/pkg/models"
)

// chatTemperature is the fixed sampling temperature for every completion
// request this service makes.
const chatTemperature float32 = 0.7

// SystemPrompt primes every chat session.
const SystemPrompt = "Anda adalah konsultan tambak udang yang menganalisis data keuangan dan produksi."

// InactiveNotice is returned by the AI narrator when no credential is
// configured.
const InactiveNotice = "⚠️ AI Commentary tidak aktif (API Key belum diatur)."

// ChatInactiveWarning is surfaced when a chat message arrives while the
// completion service is not configured.
const ChatInactiveWarning = "AI chat tidak aktif — tambahkan GROQ_API_KEY di .env"

const commentaryPrompt = `Berikut data hasil produksi tambak udang:
%s

Buat analisis singkat dalam bahasa Indonesia:
- Tambak mana yang paling efisien
- Tambak mana yang butuh perhatian
- Insight strategis singkat`

// CompletionService is the capability boundary to the hosted completion
// endpoint: submit ordered turns, get text back. A nil CompletionService
// inside AIService represents the feature being disabled.
type CompletionService interface {
	Complete(ctx context.Context, turns []models.ChatTurn, temperature float32) (string, error)
}

// GroqCompletion adapts the Groq client to the CompletionService interface.
type GroqCompletion struct {
	client *groq.Client
}

// NewGroqCompletion wraps an initialized Groq client.
func NewGroqCompletion(client *groq.Client) *GroqCompletion {
	return &GroqCompletion{client: client}
}

// Complete submits the transcript as-is.
func (g *GroqCompletion) Complete(ctx context.Context, turns []models.ChatTurn, temperature float32) (string, error) {
	messages := make([]groq.ChatMessage, len(turns))
	for i, turn := range turns {
		messages[i] = groq.ChatMessage{Role: turn.Role, Content: turn.Content}
	}
	return g.client.Complete(ctx, messages, temperature)
}

// AIService produces the AI commentary and answers chat rounds. Every
// failure of the completion service is converted to a user-visible string
// here; callers never receive an unhandled fault from Commentary.
type AIService struct {
	completion CompletionService
	summaries  *SummaryService
}

// NewAIService creates the AI layer. Pass a nil completion to run with the
// AI features disabled.
func NewAIService(completion CompletionService, summaries *SummaryService) *AIService {
	return &AIService{completion: completion, summaries: summaries}
}

// Enabled reports whether a completion service is configured.
func (s *AIService) Enabled() bool {
	return s.completion != nil
}

// Commentary generates the AI narration for the summary. No credential
// means the fixed inactive notice and no network call; a service failure
// is folded into the returned text. An empty summary skips narration.
func (s *AIService) Commentary(ctx context.Context, summary []models.FarmSummary) string {
	if len(summary) == 0 {
		return ""
	}
	if !s.Enabled() {
		return InactiveNotice
	}

	prompt := fmt.Sprintf(commentaryPrompt, s.summaries.FormatTable(summary))
	turns := []models.ChatTurn{
		{Role: models.RoleUser, Content: prompt},
	}

	text, err := s.completion.Complete(ctx, turns, chatTemperature)
	if err != nil {
		return fmt.Sprintf("❌ Error AI Commentary: %v", err)
	}
	return text
}

// ChatReply submits the full transcript, oldest turn first, and returns the
// assistant's answer.
func (s *AIService) ChatReply(ctx context.Context, transcript []models.ChatTurn) (string, error) {
	if !s.Enabled() {
		return "", fmt.Errorf("layanan AI belum dikonfigurasi")
	}
	return s.completion.Complete(ctx, transcript, chatTemperature)
}
