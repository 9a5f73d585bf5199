package core

import (
	"context"
	"errors"
	"fmt"
	"log"

	"marketingcrm/internal/llm"
	"marketingcrm/internal/store"
)

// ErrChatNotFound is returned when a chat does not exist or belongs to
// another user. Callers must not distinguish the two cases.
var ErrChatNotFound = errors.New("chat not found")

// Completer is the backend round-trip consumed by the chat service.
type Completer interface {
	Complete(ctx context.Context, messages []llm.Message) (string, error)
}

// ChatService orchestrates chat ownership checks, turn persistence, and
// backend calls.
type ChatService struct {
	dbStore store.Store
	backend Completer
}

func NewChatService(db store.Store, backend Completer) *ChatService {
	return &ChatService{
		dbStore: db,
		backend: backend,
	}
}

// User pass-throughs for the boundary layer.
func (s *ChatService) Register(username, email, passwordHash string) (*store.User, error) {
	return s.dbStore.CreateUser(username, email, passwordHash)
}

func (s *ChatService) UserByUsername(username string) (*store.User, error) {
	return s.dbStore.GetUserByUsername(username)
}

func (s *ChatService) UserByID(id int64) (*store.User, error) {
	return s.dbStore.GetUserByID(id)
}

// CreateChat creates a chat for the user and persists the assistant welcome
// turn chosen by chat type.
func (s *ChatService) CreateChat(userID int64, name, chatType string) (*store.Chat, error) {
	chat, err := s.dbStore.CreateChat(userID, name, chatType)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat in DB: %w", err)
	}

	if _, err := s.dbStore.AppendMessage(chat.ID, store.RoleAssistant, WelcomeFor(chatType)); err != nil {
		// The chat is still usable without its welcome turn.
		log.Printf("Failed to store welcome message for new chat %s: %v", chat.ID, err)
	}

	return chat, nil
}

func (s *ChatService) ListChats(userID int64) ([]store.Chat, error) {
	return s.dbStore.ListChats(userID)
}

// PostMessage runs one conversational round trip: verify ownership, persist
// the user turn, assemble the prompt context, call the backend, persist the
// assistant turn. A backend failure is converted to displayable text and
// persisted like any other reply; the triple is deliberately not serialized
// per chat, so concurrent posts to one chat may interleave their turns.
func (s *ChatService) PostMessage(ctx context.Context, chatID string, userID int64, content string) (*store.Message, *store.Message, error) {
	chat, err := s.dbStore.ChatOwnedBy(chatID, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to verify chat: %w", err)
	}
	if chat == nil {
		return nil, nil, ErrChatNotFound
	}

	history, err := s.dbStore.ListMessages(chatID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load history: %w", err)
	}

	userMsg, err := s.dbStore.AppendMessage(chatID, store.RoleUser, content)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to store user message: %w", err)
	}

	reply, err := s.backend.Complete(ctx, AssembleContext(chat.ChatType, history, content))
	if err != nil {
		var backendErr *llm.BackendError
		if errors.As(err, &backendErr) {
			reply = backendErr.UserText()
		} else {
			log.Printf("Error generating reply for chat %s: %v", chatID, err)
			reply = "I'm sorry, I encountered an error while processing your request."
		}
	}

	botMsg, err := s.dbStore.AppendMessage(chatID, store.RoleAssistant, reply)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to store assistant message: %w", err)
	}

	return userMsg, botMsg, nil
}

// History returns the chat's messages in conversational order.
func (s *ChatService) History(chatID string, userID int64) ([]store.Message, error) {
	chat, err := s.dbStore.ChatOwnedBy(chatID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify chat: %w", err)
	}
	if chat == nil {
		return nil, ErrChatNotFound
	}
	return s.dbStore.ListMessages(chatID)
}

// ClearHistory deletes all messages of the chat. The chat itself survives.
func (s *ChatService) ClearHistory(chatID string, userID int64) error {
	chat, err := s.dbStore.ChatOwnedBy(chatID, userID)
	if err != nil {
		return fmt.Errorf("failed to verify chat: %w", err)
	}
	if chat == nil {
		return ErrChatNotFound
	}
	return s.dbStore.ClearMessages(chatID)
}
