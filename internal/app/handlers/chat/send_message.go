package chat

import (
	"context"
	"time"

	"homestay/internal/app/commands"
	"homestay/internal/app/policies"
	domainchat "homestay/internal/domain/chat"
	"homestay/internal/domain/users"
)

const sendMessageKey = "chat.send"

type SendMessageCommand struct {
	MessageID   string
	SenderID    string
	RecipientID string
	Content     string
}

func (c SendMessageCommand) Key() string { return sendMessageKey }

type SendMessageResult struct {
	MessageID string    `json:"message_id"`
	ThreadID  string    `json:"thread_id"`
	SentAt    time.Time `json:"sent_at"`
}

// SendMessageHandler validates a direct message and fans it out through
// the notifier. Delivery is at-most-once; there is no message store to
// replay from.
type SendMessageHandler struct {
	Users    users.Repository
	Notifier policies.Notifier
	Now      func() time.Time
}

func (h *SendMessageHandler) Handle(ctx context.Context, cmd SendMessageCommand) (*SendMessageResult, error) {
	if _, err := h.Users.ByID(ctx, cmd.RecipientID); err != nil {
		return nil, err
	}

	message, err := domainchat.Compose(domainchat.ComposeParams{
		ID:          cmd.MessageID,
		AuthorID:    cmd.SenderID,
		RecipientID: cmd.RecipientID,
		Content:     cmd.Content,
		SentAt:      h.now(),
	})
	if err != nil {
		return nil, err
	}

	if h.Notifier != nil {
		for _, ev := range message.PendingEvents() {
			_ = h.Notifier.Notify(ctx, ev)
		}
	}
	message.ClearEvents()

	return &SendMessageResult{MessageID: message.ID, ThreadID: message.ThreadID, SentAt: message.SentAt}, nil
}

func (h *SendMessageHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().UTC()
}

var _ commands.Handler[SendMessageCommand, *SendMessageResult] = (*SendMessageHandler)(nil)
