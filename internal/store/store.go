package store

import "errors"

// ErrDuplicate is returned by CreateUser when the username or email is
// already taken.
var ErrDuplicate = errors.New("username or email already taken")

// Store defines persistence operations for users, chats, and messages.
//
// It is a trusted-caller data layer: apart from ChatOwnedBy, no operation
// re-checks ownership. Callers gate every chat and message operation through
// ChatOwnedBy first.
type Store interface {
	// User methods
	CreateUser(username, email, passwordHash string) (*User, error)
	GetUserByUsername(username string) (*User, error)
	GetUserByID(id int64) (*User, error)

	// Chat methods
	CreateChat(ownerID int64, name, chatType string) (*Chat, error)
	// ChatOwnedBy returns the chat only when it exists and belongs to userID;
	// otherwise nil, nil. This is the sole authorization check in the system.
	ChatOwnedBy(chatID string, userID int64) (*Chat, error)
	ListChats(ownerID int64) ([]Chat, error)

	// Message methods
	AppendMessage(chatID, role, content string) (*Message, error)
	ListMessages(chatID string) ([]Message, error)
	ClearMessages(chatID string) error

	Close() error
}
