package mailer

import (
	"fmt"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"
)

// Mailer sends transactional mail over SMTP. Failures are the caller's to
// handle; nothing is retried here.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	log    *zap.Logger
}

func New(host string, port int, user, pass, from string, log *zap.Logger) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   from,
		log:    log,
	}
}

func (m *Mailer) send(to, subject, html string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.log.Error("send mail failed", zap.String("subject", subject), zap.Error(err))
		return err
	}
	return nil
}

func (m *Mailer) SendPasswordReset(to, code string) error {
	html := fmt.Sprintf(`
<body style="font-family: Arial, sans-serif; padding: 20px;">
  <h2>Reset Your Password</h2>
  <p>You have requested to reset your password. Use the OTP below to proceed:</p>
  <p style="font-size: 24px; font-weight: bold; text-align: center;">%s</p>
  <p>This OTP will expire in 15 minutes.</p>
  <p>If you did not request this, you can safely ignore this email.</p>
</body>`, code)
	return m.send(to, "Reset Password OTP", html)
}

func (m *Mailer) SendOrderConfirmation(to, orderID string, totalCents int) error {
	html := fmt.Sprintf(`
<body style="font-family: Arial, sans-serif; padding: 20px;">
  <h2>Order Received</h2>
  <p>Your order <b>%s</b> has been placed.</p>
  <p>Total: <b>%d.%02d</b></p>
  <p>We will let you know once it ships.</p>
</body>`, orderID, totalCents/100, totalCents%100)
	return m.send(to, "Order Confirmation", html)
}
