package email

import (
	"context"
	"sync"
)

type Message struct {
	From      Address
	Recipient Address
	Subject   string
	Body      string
}

// MemorySender records messages instead of sending them. FailFor makes
// Send return the given error for one recipient.
type MemorySender struct {
	mu      sync.Mutex
	emails  []Message
	FailFor map[Address]error
}

func NewMemorySender() *MemorySender {
	return &MemorySender{FailFor: map[Address]error{}}
}

func (s *MemorySender) Send(_ context.Context, from, recipient Address, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err, ok := s.FailFor[recipient]; ok {
		return err
	}

	s.emails = append(s.emails, Message{
		From:      from,
		Recipient: recipient,
		Subject:   subject,
		Body:      body,
	})
	return nil
}

// Emails returns a copy of everything sent so far.
func (s *MemorySender) Emails() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.emails))
	copy(out, s.emails)
	return out
}

// To returns the messages sent to recipient.
func (s *MemorySender) To(recipient Address) []Message {
	var out []Message
	for _, m := range s.Emails() {
		if m.Recipient == recipient {
			out = append(out, m)
		}
	}
	return out
}
