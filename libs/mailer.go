package libs

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"
)

type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer(host string, port int, user, pass, from string) (*Mailer, error) {
	if host == "" || user == "" || pass == "" {
		return nil, errors.New("SMTP configuration missing")
	}
	if from == "" {
		from = user
	}
	return &Mailer{dialer: gomail.NewDialer(host, port, user, pass), from: from}, nil
}

func (m *Mailer) SendOrderConfirmation(to, orderID, customer string, total float64) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("New order %s", orderID))
	msg.SetBody("text/html", OrderConfirmationBody(orderID, customer, total))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func OrderConfirmationBody(orderID, customer string, total float64) string {
	if strings.TrimSpace(customer) == "" {
		customer = "(no name)"
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
    <h2>Order received</h2>
    <p><strong>Order:</strong> %s</p>
    <p><strong>Customer:</strong> %s</p>
    <p><strong>Total:</strong> %s</p>
</body>
</html>`, orderID, customer, FormatPrice(total))
}

// FormatPrice renders whole units with dot thousands separators.
func FormatPrice(amount float64) string {
	str := fmt.Sprintf("%d", int64(amount))
	neg := strings.HasPrefix(str, "-")
	str = strings.TrimPrefix(str, "-")

	var b strings.Builder
	n := len(str)
	for i, digit := range str {
		if i > 0 && (n-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(digit)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
