package store

import "time"

// Message roles as persisted. System-role entries are synthesized at prompt
// assembly time and never stored.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Do not expose this in JSON responses
	CreatedAt    time.Time `json:"created_at"`
}

type Chat struct {
	ID        string    `json:"id"` // Using UUID for external ID
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	ChatType  string    `json:"chat_type"`
	CreatedAt time.Time `json:"created_at"`
}

type Message struct {
	ID        string    `json:"id"` // Using UUID for external ID
	ChatID    string    `json:"chat_id"`
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
