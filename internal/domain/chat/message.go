package chat

import (
	"errors"
	"strings"
	"time"

	"homestay/internal/domain/shared/events"
)

var (
	ErrEmptyMessage   = errors.New("chat: message content is empty")
	ErrMessageTooLong = errors.New("chat: message content exceeds 2000 characters")
	ErrSelfMessage    = errors.New("chat: cannot message yourself")
)

const maxMessageLen = 2000

// Message is a direct message between two users. Messages are not stored
// by this service; they exist to feed the real-time notification channel.
type Message struct {
	ID          string
	ThreadID    string
	AuthorID    string
	RecipientID string
	Content     string
	SentAt      time.Time
	events.EventRecorder
}

type ComposeParams struct {
	ID          string
	AuthorID    string
	RecipientID string
	Content     string
	SentAt      time.Time
}

func Compose(params ComposeParams) (*Message, error) {
	content := strings.TrimSpace(params.Content)
	if content == "" {
		return nil, ErrEmptyMessage
	}
	if len(content) > maxMessageLen {
		return nil, ErrMessageTooLong
	}
	if params.AuthorID == params.RecipientID {
		return nil, ErrSelfMessage
	}
	m := &Message{
		ID:          params.ID,
		ThreadID:    ThreadKey(params.AuthorID, params.RecipientID),
		AuthorID:    params.AuthorID,
		RecipientID: params.RecipientID,
		Content:     content,
		SentAt:      params.SentAt.UTC(),
	}
	m.Record(MessageSent{
		ChatID:      m.ThreadID,
		AuthorID:    m.AuthorID,
		RecipientID: m.RecipientID,
		Content:     m.Content,
		At:          m.SentAt,
	})
	return m, nil
}

// ThreadKey is the same for either direction of a conversation, so both
// participants subscribe to one stream.
func ThreadKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "#" + b
}
