package chat

import "time"

// MessageSent rides the same notification channel as booking events for
// real-time feeds. Message persistence itself lives outside this service;
// delivery is at-most-once with no replay.
type MessageSent struct {
	ChatID      string
	AuthorID    string
	RecipientID string
	Content     string
	At          time.Time
}

func (e MessageSent) EventName() string     { return "chat.message_sent" }
func (e MessageSent) AggregateID() string   { return e.ChatID }
func (e MessageSent) OccurredAt() time.Time { return e.At }
