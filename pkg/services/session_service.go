package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tambak-dashboard-api/pkg/models"

	"github.com/google/uuid"
)

// Session is the state of one dashboard session: the most recent summary
// and the chat transcript grounded on it. A session starts Uninitialized
// (empty transcript) and becomes seeded once the AI narration lands. The
// mutex serializes chat rounds within the session.
type Session struct {
	ID         string
	CreatedAt  time.Time
	Summary    []models.FarmSummary
	Transcript []models.ChatTurn

	mu sync.Mutex
}

// Seeded reports whether the transcript has been initialized.
func (s *Session) Seeded() bool {
	return len(s.Transcript) > 0
}

// Turns returns a copy of the transcript, oldest first.
func (s *Session) Turns() []models.ChatTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	turns := make([]models.ChatTurn, len(s.Transcript))
	copy(turns, s.Transcript)
	return turns
}

// SessionService owns all live sessions in memory. Each upload creates a
// fresh session, so a new file never inherits the previous transcript.
// Nothing survives process restart.
type SessionService struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionService creates an empty session store.
func NewSessionService() *SessionService {
	return &SessionService{
		sessions: make(map[string]*Session),
	}
}

// Create registers a new Uninitialized session holding the given summary.
func (ss *SessionService) Create(summary []models.FarmSummary) *Session {
	sess := &Session{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		Summary:   summary,
	}
	ss.mu.Lock()
	ss.sessions[sess.ID] = sess
	ss.mu.Unlock()
	return sess
}

// Get looks up a session by ID.
func (ss *SessionService) Get(id string) (*Session, bool) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	sess, ok := ss.sessions[id]
	return sess, ok
}

// Seed initializes the transcript with the system priming turn and the
// initial AI narration. A second seed on the same session is ignored.
func (ss *SessionService) Seed(sess *Session, commentary string) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if len(sess.Transcript) > 0 {
		return
	}
	sess.Transcript = []models.ChatTurn{
		{Role: models.RoleSystem, Content: SystemPrompt},
		{Role: models.RoleAssistant, Content: commentary},
	}
}

// ChatRound runs one turn of the conversational state machine: the user
// turn is always appended; an assistant turn is appended only when the
// completion service answered. Exactly one of Reply, Warning and Error in
// the response carries the outcome.
func (ss *SessionService) ChatRound(ctx context.Context, sess *Session, message string, ai *AIService) models.ChatResponse {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	// A session that never got narration still gets the priming turn.
	if len(sess.Transcript) == 0 {
		sess.Transcript = append(sess.Transcript, models.ChatTurn{
			Role:    models.RoleSystem,
			Content: SystemPrompt,
		})
	}

	sess.Transcript = append(sess.Transcript, models.ChatTurn{
		Role:    models.RoleUser,
		Content: message,
	})

	resp := models.ChatResponse{
		SessionID:  sess.ID,
		ChatActive: ai.Enabled(),
	}

	if !ai.Enabled() {
		resp.Warning = ChatInactiveWarning
		resp.TurnCount = len(sess.Transcript)
		return resp
	}

	reply, err := ai.ChatReply(ctx, sess.Transcript)
	if err != nil {
		resp.Error = fmt.Sprintf("❌ Error chat: %v", err)
		resp.TurnCount = len(sess.Transcript)
		return resp
	}

	sess.Transcript = append(sess.Transcript, models.ChatTurn{
		Role:    models.RoleAssistant,
		Content: reply,
	})
	resp.Reply = reply
	resp.TurnCount = len(sess.Transcript)
	return resp
}
