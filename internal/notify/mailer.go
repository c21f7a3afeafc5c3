// Package notify holds the best-effort channels fired after an order is
// created: a plain-text confirmation mail and an AMQP event. Failures on
// either are logged and never fail the order.
package notify

import (
	"fmt"
	"net/smtp"
	"strings"
)

type Mailer struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

// Enabled reports whether SMTP settings are present at all; without them the
// mailer silently does nothing.
func (m *Mailer) Enabled() bool {
	return m != nil && m.Host != "" && m.From != ""
}

func (m *Mailer) SendOrderConfirmation(to, name, orderID string, total float64) error {
	if !m.Enabled() {
		return nil
	}

	var body strings.Builder
	fmt.Fprintf(&body, "From: %s\r\n", m.From)
	fmt.Fprintf(&body, "To: %s\r\n", to)
	fmt.Fprintf(&body, "Subject: Order %s confirmed\r\n", orderID)
	body.WriteString("\r\n")
	fmt.Fprintf(&body, "Hi %s,\r\n\r\n", name)
	fmt.Fprintf(&body, "Your order %s has been received. Total: %.2f\r\n", orderID, total)

	addr := m.Host + ":" + m.Port
	var auth smtp.Auth
	if m.User != "" {
		auth = smtp.PlainAuth("", m.User, m.Pass, m.Host)
	}

	return smtp.SendMail(addr, auth, m.From, []string{to}, []byte(body.String()))
}
