package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
)

// SQLiteStore is the durable Store engine. It holds a single long-lived
// database handle for the process lifetime.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	if !strings.Contains(dataSourceName, "?") {
		dataSourceName += "?_journal_mode=WAL&_busy_timeout=5000"
	}
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err = s.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS users (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        username TEXT UNIQUE NOT NULL,
        email TEXT UNIQUE NOT NULL,
        password_hash TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS chats (
        id TEXT PRIMARY KEY, -- UUID
        user_id INTEGER NOT NULL,
        name TEXT NOT NULL,
        chat_type TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (user_id) REFERENCES users (id)
    );

    CREATE TABLE IF NOT EXISTS messages (
        id TEXT PRIMARY KEY, -- UUID
        chat_id TEXT NOT NULL,
        role TEXT NOT NULL CHECK (role IN ('user', 'assistant')),
        content TEXT NOT NULL,
        timestamp DATETIME NOT NULL,
        FOREIGN KEY (chat_id) REFERENCES chats (id)
    );
    `
	_, err := s.db.Exec(schema)
	return err
}

// User methods
func (s *SQLiteStore) CreateUser(username, email, passwordHash string) (*User, error) {
	res, err := s.db.Exec("INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)", username, email, passwordHash)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetUserByID(id)
}

func (s *SQLiteStore) GetUserByUsername(username string) (*User, error) {
	var user User
	err := s.db.QueryRow("SELECT id, username, email, password_hash, created_at FROM users WHERE username = ?", username).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

func (s *SQLiteStore) GetUserByID(id int64) (*User, error) {
	var user User
	err := s.db.QueryRow("SELECT id, username, email, password_hash, created_at FROM users WHERE id = ?", id).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &user, nil
}

// Chat methods
func (s *SQLiteStore) CreateChat(ownerID int64, name, chatType string) (*Chat, error) {
	chatID := uuid.NewString()
	stmt, err := s.db.Prepare("INSERT INTO chats (id, user_id, name, chat_type, created_at) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare chat insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	_, err = stmt.Exec(chatID, ownerID, name, chatType, now)
	if err != nil {
		return nil, fmt.Errorf("failed to execute chat insert: %w", err)
	}
	return &Chat{ID: chatID, UserID: ownerID, Name: name, ChatType: chatType, CreatedAt: now}, nil
}

func (s *SQLiteStore) ChatOwnedBy(chatID string, userID int64) (*Chat, error) {
	var chat Chat
	err := s.db.QueryRow("SELECT id, user_id, name, chat_type, created_at FROM chats WHERE id = ? AND user_id = ?", chatID, userID).
		Scan(&chat.ID, &chat.UserID, &chat.Name, &chat.ChatType, &chat.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found or owned by someone else
		}
		return nil, fmt.Errorf("failed to get chat: %w", err)
	}
	return &chat, nil
}

func (s *SQLiteStore) ListChats(ownerID int64) ([]Chat, error) {
	rows, err := s.db.Query("SELECT id, user_id, name, chat_type, created_at FROM chats WHERE user_id = ? ORDER BY created_at DESC", ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chats: %w", err)
	}
	defer rows.Close()

	var chats []Chat
	for rows.Next() {
		var chat Chat
		if err := rows.Scan(&chat.ID, &chat.UserID, &chat.Name, &chat.ChatType, &chat.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat row: %w", err)
		}
		chats = append(chats, chat)
	}
	return chats, nil
}

// Message methods
func (s *SQLiteStore) AppendMessage(chatID, role, content string) (*Message, error) {
	msg := &Message{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}

	stmt, err := s.db.Prepare("INSERT INTO messages (id, chat_id, role, content, timestamp) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare message insert: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(msg.ID, msg.ChatID, msg.Role, msg.Content, msg.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to execute message insert: %w", err)
	}
	return msg, nil
}

func (s *SQLiteStore) ListMessages(chatID string) ([]Message, error) {
	// rowid tiebreaker keeps retrieval order equal to insertion order even
	// when two inserts share a timestamp.
	query := "SELECT id, chat_id, role, content, timestamp FROM messages WHERE chat_id = ? ORDER BY timestamp ASC, rowid ASC"
	rows, err := s.db.Query(query, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var msg Message
		if err := rows.Scan(&msg.ID, &msg.ChatID, &msg.Role, &msg.Content, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func (s *SQLiteStore) ClearMessages(chatID string) error {
	_, err := s.db.Exec("DELETE FROM messages WHERE chat_id = ?", chatID)
	if err != nil {
		return fmt.Errorf("failed to delete messages: %w", err)
	}
	return nil
}
