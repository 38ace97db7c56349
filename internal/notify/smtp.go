package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/bobaandbao/storefront/internal/models"
)

// SMTPSender delivers confirmations over plain SMTP with optional AUTH.
type SMTPSender struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

func (s *SMTPSender) SendOrderConfirmation(order *models.Order, items []models.OrderItem) error {
	to := order.CustomerEmail
	msg := buildMessage(s.From, to, ConfirmationSubject(order), ConfirmationBody(order, items))

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	var auth smtp.Auth
	if s.User != "" {
		auth = smtp.PlainAuth("", s.User, s.Pass, s.Host)
	}

	if err := smtp.SendMail(addr, auth, s.From, []string{to}, msg); err != nil {
		return fmt.Errorf("send confirmation for order %s: %w", order.OrderID, err)
	}
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return []byte(b.String())
}
