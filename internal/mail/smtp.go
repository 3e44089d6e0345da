package mail

import (
	"context"
	"fmt"
	"net/smtp"

	"orderworks/internal/domain"
)

// Sender delivers plain-text mail through an SMTP relay. It satisfies the
// notification transport contract; failures come back as TransportError.
type Sender struct {
	addr string
}

// NewSender builds a sender for the given relay address (host:port).
func NewSender(addr string) *Sender {
	return &Sender{addr: addr}
}

func (s *Sender) Send(_ context.Context, subject, body, from, to string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", from, to, subject, body)
	if err := smtp.SendMail(s.addr, nil, from, []string{to}, []byte(msg)); err != nil {
		return &domain.TransportError{Message: err.Error()}
	}
	return nil
}
