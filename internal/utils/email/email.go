package email

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/Dan9191/finpyme/internal/config"
	"github.com/Dan9191/finpyme/internal/models"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(e *email.Email, addr string, auth smtp.Auth) error
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// buildInsightAlert composes the alert message
func (s *Sender) buildInsightAlert(to, username string, insights []models.Insight) *email.Email {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	if len(insights) == 1 {
		e.Subject = "FinPyME Pro: " + insights[0].Title
	} else {
		e.Subject = fmt.Sprintf("FinPyME Pro: %d alertas sobre tu flujo de caja", len(insights))
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Hola %s,\n\n", username)
	fmt.Fprintf(&body, "Detectamos lo siguiente al %s:\n\n", time.Now().Format("02/01/2006"))
	for _, in := range insights {
		fmt.Fprintf(&body, "- %s\n  %s\n\n", in.Title, in.Message)
	}
	body.WriteString("Podés ver el detalle en tu panel.\n\nSaludos,\nFinPyME Pro")
	e.Text = []byte(body.String())
	return e
}

// SendInsightAlert emails high-severity insights to a user
func (s *Sender) SendInsightAlert(to, username string, insights []models.Insight) error {
	if len(insights) == 0 {
		return nil
	}
	e := s.buildInsightAlert(to, username, insights)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := s.send(e, addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
