package core

import (
	"marketingcrm/internal/llm"
	"marketingcrm/internal/store"
)

// AssembleContext builds the prompt context for one backend round trip: the
// system directive for chatType first, every stored history entry in stored
// order and unchanged, then the new user turn last. The entire history is
// sent; there is no truncation or token budgeting.
func AssembleContext(chatType string, history []store.Message, newMessage string) []llm.Message {
	messages := make([]llm.Message, 0, len(history)+2)

	messages = append(messages, llm.Message{
		Role:    llm.RoleSystem,
		Content: DirectiveFor(chatType),
	})

	for _, msg := range history {
		messages = append(messages, llm.Message{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	messages = append(messages, llm.Message{
		Role:    llm.RoleUser,
		Content: newMessage,
	})

	return messages
}
