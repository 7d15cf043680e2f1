package notifications

import (
	"context"
	"log"
	"sync"
)

// ConsoleSender prints messages instead of delivering them and keeps a copy.
type ConsoleSender struct {
	std *log.Logger

	mu   sync.Mutex
	sent []Message
}

func NewConsoleSender(std *log.Logger) *ConsoleSender {
	return &ConsoleSender{std: std}
}

func (s *ConsoleSender) Send(_ context.Context, msg Message) error {
	if err := checkRecipient(msg.ToEmail); err != nil {
		return err
	}
	if s.std != nil {
		s.std.Printf("📧 To: %s <%s>\nSubject: %s\n\n%s\n", msg.ToName, msg.ToEmail, msg.Subject, msg.HTML)
	}
	s.mu.Lock()
	s.sent = append(s.sent, msg)
	s.mu.Unlock()
	return nil
}

func (s *ConsoleSender) Sent() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.sent))
	copy(out, s.sent)
	return out
}
