package chat

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainchat "homestay/internal/domain/chat"
	"homestay/internal/domain/shared/events"
	"homestay/internal/domain/users"
	"homestay/internal/infra/storage/memory"
)

var chatNow = time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)

type capturingNotifier struct {
	mu     sync.Mutex
	events []events.DomainEvent
}

func (n *capturingNotifier) Notify(ctx context.Context, ev events.DomainEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
	return nil
}

func newChatFixture(t *testing.T) (*SendMessageHandler, *capturingNotifier) {
	t.Helper()
	repo := memory.NewUserRepository()
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, &users.User{ID: "alice"}))
	require.NoError(t, repo.Save(ctx, &users.User{ID: "bob"}))

	notifier := &capturingNotifier{}
	return &SendMessageHandler{
		Users:    repo,
		Notifier: notifier,
		Now:      func() time.Time { return chatNow },
	}, notifier
}

func TestSendMessagePublishesToThread(t *testing.T) {
	h, notifier := newChatFixture(t)

	result, err := h.Handle(context.Background(), SendMessageCommand{
		MessageID:   "m1",
		SenderID:    "alice",
		RecipientID: "bob",
		Content:     "is the cabin free next weekend?",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice#bob", result.ThreadID)
	assert.Equal(t, chatNow, result.SentAt)

	require.Len(t, notifier.events, 1)
	sent, ok := notifier.events[0].(domainchat.MessageSent)
	require.True(t, ok)
	assert.Equal(t, "alice#bob", sent.AggregateID())
	assert.Equal(t, "chat.message_sent", sent.EventName())
	assert.Equal(t, "alice", sent.AuthorID)
	assert.Equal(t, "bob", sent.RecipientID)
}

func TestSendMessageThreadKeyDirectionless(t *testing.T) {
	h, _ := newChatFixture(t)

	reply, err := h.Handle(context.Background(), SendMessageCommand{
		MessageID:   "m2",
		SenderID:    "bob",
		RecipientID: "alice",
		Content:     "yes, it is",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice#bob", reply.ThreadID)
}

func TestSendMessageValidation(t *testing.T) {
	h, notifier := newChatFixture(t)
	ctx := context.Background()

	_, err := h.Handle(ctx, SendMessageCommand{MessageID: "m1", SenderID: "alice", RecipientID: "ghost", Content: "hi"})
	assert.ErrorIs(t, err, users.ErrNotFound)

	_, err = h.Handle(ctx, SendMessageCommand{MessageID: "m1", SenderID: "alice", RecipientID: "bob", Content: "   "})
	assert.ErrorIs(t, err, domainchat.ErrEmptyMessage)

	_, err = h.Handle(ctx, SendMessageCommand{MessageID: "m1", SenderID: "alice", RecipientID: "bob", Content: strings.Repeat("x", 2001)})
	assert.ErrorIs(t, err, domainchat.ErrMessageTooLong)

	_, err = h.Handle(ctx, SendMessageCommand{MessageID: "m1", SenderID: "alice", RecipientID: "alice", Content: "hi"})
	assert.ErrorIs(t, err, domainchat.ErrSelfMessage)

	assert.Empty(t, notifier.events)
}
