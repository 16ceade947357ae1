package email

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Service handles email sending via SMTP
type Service struct {
	host string
	port string
	from string
	auth smtp.Auth
}

// NewService creates a new email service. Authentication is used only when
// username is set.
func NewService(host, port, from, username, password string) *Service {
	s := &Service{
		host: host,
		port: port,
		from: from,
	}
	if username != "" {
		s.auth = smtp.PlainAuth("", username, password, host)
	}
	return s
}

// SendNewOrder sends the new-order notice to the given recipient.
func (s *Service) SendNewOrder(to string, o NewOrder) error {
	body, err := BuildNewOrderBody(o)
	if err != nil {
		return err
	}
	return s.send(to, NewOrderSubject(o), body)
}

func (s *Service) send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	if err := smtp.SendMail(addr, s.auth, s.from, []string{to}, buildMessage(s.from, to, subject, body)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	subject = strings.NewReplacer("\r", " ", "\n", " ").Replace(subject)
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		from, to, subject, body)
	return []byte(msg)
}
