package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/hirehub/internal/apperrors"
	"alfredoptarigan/hirehub/internal/models"
)

var ErrConversationNotFound = errors.New("conversation not found")

// ConversationStore holds conversations and their ordered messages.
// Implementations must be safe for concurrent use.
type ConversationStore interface {
	Create(conv models.Conversation) error
	Get(conversationID string) (*models.Conversation, []models.Message, error)
	Append(conversationID string, msgs ...models.Message) error
}

type conversationEntry struct {
	conversation models.Conversation
	messages     []models.Message
}

type memoryConversationStore struct {
	mu      sync.RWMutex
	entries map[string]*conversationEntry
}

// NewMemoryConversationStore keeps conversations in process memory only.
func NewMemoryConversationStore() ConversationStore {
	return &memoryConversationStore{entries: make(map[string]*conversationEntry)}
}

func (s *memoryConversationStore) Create(conv models.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[conv.ID]; !exists {
		s.entries[conv.ID] = &conversationEntry{conversation: conv}
	}
	return nil
}

func (s *memoryConversationStore) Get(conversationID string) (*models.Conversation, []models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[conversationID]
	if !ok {
		return nil, nil, ErrConversationNotFound
	}
	conv := entry.conversation
	msgs := make([]models.Message, len(entry.messages))
	copy(msgs, entry.messages)
	return &conv, msgs, nil
}

// Append creates the conversation when it does not exist yet.
func (s *memoryConversationStore) Append(conversationID string, msgs ...models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[conversationID]
	if !ok {
		entry = &conversationEntry{conversation: models.Conversation{
			ID:           conversationID,
			Participants: []string{},
			CreatedAt:    time.Now(),
		}}
		s.entries[conversationID] = entry
	}
	entry.messages = append(entry.messages, msgs...)
	return nil
}

type ChatService interface {
	SendMessage(ctx context.Context, conversationID, content, senderID string) (*models.ChatTurn, error)
	GetMessages(conversationID string) ([]models.Message, error)
	GetConversation(conversationID string) (*models.Conversation, error)
	CreateConversation(participantIDs []string, userID string) (*models.Conversation, error)
}

type chatService struct {
	store     ConversationStore
	completer Completer
	prompts   *PromptBuilder
	window    int
	now       func() time.Time

	// turns serializes whole turns per conversation so each reply sees the
	// history it answers.
	turns sync.Map
}

func NewChatService(store ConversationStore, completer Completer, historyWindow int) ChatService {
	return &chatService{
		store:     store,
		completer: completer,
		prompts:   NewPromptBuilder(),
		window:    historyWindow,
		now:       time.Now,
	}
}

func (s *chatService) turnLock(conversationID string) *sync.Mutex {
	mu, _ := s.turns.LoadOrStore(conversationID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (s *chatService) SendMessage(ctx context.Context, conversationID, content, senderID string) (*models.ChatTurn, error) {
	conversationID = strings.TrimSpace(conversationID)
	content = strings.TrimSpace(content)
	if err := ValidateStruct(&models.SendMessageRequest{ConversationID: conversationID, Content: content}); err != nil {
		return nil, err
	}

	mu := s.turnLock(conversationID)
	mu.Lock()
	defer mu.Unlock()

	userMsg := models.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		Role:           models.RoleUser,
		Timestamp:      s.now(),
	}
	_, history, err := s.store.Get(conversationID)
	if err != nil && !errors.Is(err, ErrConversationNotFound) {
		return nil, err
	}
	history = append(history, userMsg)

	reply, err := s.completer.Complete(ctx, CompletionRequest{
		SystemInstruction: s.prompts.ChatInstruction(),
		Messages:          toChatMessages(Window(history, s.window)),
		Temperature:       0.7,
	})
	if err != nil {
		log.Printf("❌ Chat completion failed for conversation %s: %v\n", conversationID, err)
		return nil, err
	}

	aiMsg := models.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		SenderID:       "assistant",
		Content:        strings.TrimSpace(reply),
		Role:           models.RoleAssistant,
		Timestamp:      s.now(),
	}
	// A turn is stored only once it has a reply, so history always alternates.
	if err := s.store.Append(conversationID, userMsg, aiMsg); err != nil {
		return nil, err
	}

	return &models.ChatTurn{UserMessage: userMsg, AIMessage: aiMsg}, nil
}

// GetMessages returns an empty list for unknown conversations.
func (s *chatService) GetMessages(conversationID string) ([]models.Message, error) {
	_, msgs, err := s.store.Get(conversationID)
	if errors.Is(err, ErrConversationNotFound) {
		return []models.Message{}, nil
	}
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

func (s *chatService) GetConversation(conversationID string) (*models.Conversation, error) {
	conv, _, err := s.store.Get(conversationID)
	if errors.Is(err, ErrConversationNotFound) {
		return nil, apperrors.NotFound("Conversation")
	}
	return conv, err
}

func (s *chatService) CreateConversation(participantIDs []string, userID string) (*models.Conversation, error) {
	seen := make(map[string]struct{}, len(participantIDs)+1)
	participants := make([]string, 0, len(participantIDs)+1)
	for _, id := range append([]string{userID}, participantIDs...) {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		participants = append(participants, id)
	}

	conv := models.Conversation{
		ID:           uuid.NewString(),
		Participants: participants,
		CreatedAt:    s.now(),
	}
	if err := s.store.Create(conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

// Window returns the last n messages, or all of them when n <= 0. A cut
// window never starts with an assistant message.
func Window(msgs []models.Message, n int) []models.Message {
	if n <= 0 || len(msgs) <= n {
		return msgs
	}
	w := msgs[len(msgs)-n:]
	for len(w) > 1 && w[0].Role == models.RoleAssistant {
		w = w[1:]
	}
	return w
}

func toChatMessages(msgs []models.Message) []ChatMessage {
	out := make([]ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, ChatMessage{Role: m.Role, Content: m.Content})
	}
	return out
}
