package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store engine behind the same interface as the
// SQLite one. It backs tests and the no-persistence mode.
type MemoryStore struct {
	mu       sync.RWMutex
	nextUser int64
	users    map[int64]User
	byName   map[string]int64 // username -> user ID
	byEmail  map[string]int64 // email -> user ID
	chats    map[string]Chat
	order    []string // chat IDs in creation order
	messages map[string][]Message
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[int64]User),
		byName:   make(map[string]int64),
		byEmail:  make(map[string]int64),
		chats:    make(map[string]Chat),
		messages: make(map[string][]Message),
	}
}

func (m *MemoryStore) Close() error { return nil }

// User methods
func (m *MemoryStore) CreateUser(username, email, passwordHash string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.byName[username]; taken {
		return nil, ErrDuplicate
	}
	if _, taken := m.byEmail[email]; taken {
		return nil, ErrDuplicate
	}
	m.nextUser++
	user := User{
		ID:           m.nextUser,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	m.users[user.ID] = user
	m.byName[username] = user.ID
	m.byEmail[email] = user.ID
	return &user, nil
}

func (m *MemoryStore) GetUserByUsername(username string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byName[username]
	if !ok {
		return nil, nil
	}
	user := m.users[id]
	return &user, nil
}

func (m *MemoryStore) GetUserByID(id int64) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

// Chat methods
func (m *MemoryStore) CreateChat(ownerID int64, name, chatType string) (*Chat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	chat := Chat{
		ID:        uuid.NewString(),
		UserID:    ownerID,
		Name:      name,
		ChatType:  chatType,
		CreatedAt: time.Now(),
	}
	m.chats[chat.ID] = chat
	m.order = append(m.order, chat.ID)
	return &chat, nil
}

func (m *MemoryStore) ChatOwnedBy(chatID string, userID int64) (*Chat, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	chat, ok := m.chats[chatID]
	if !ok || chat.UserID != userID {
		return nil, nil
	}
	return &chat, nil
}

// ListChats returns the owner's chats, most recently created first.
func (m *MemoryStore) ListChats(ownerID int64) ([]Chat, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var chats []Chat
	for i := len(m.order) - 1; i >= 0; i-- {
		if chat, ok := m.chats[m.order[i]]; ok && chat.UserID == ownerID {
			chats = append(chats, chat)
		}
	}
	return chats, nil
}

// Message methods
func (m *MemoryStore) AppendMessage(chatID, role, content string) (*Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg := Message{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
	m.messages[chatID] = append(m.messages[chatID], msg)
	return &msg, nil
}

func (m *MemoryStore) ListMessages(chatID string) ([]Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	msgs := m.messages[chatID]
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (m *MemoryStore) ClearMessages(chatID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.messages, chatID)
	return nil
}
