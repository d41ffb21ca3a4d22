package email

import (
	"errors"
	"io"
	"net/smtp"
	"strings"
	"testing"

	"github.com/Dan9191/finpyme/internal/config"
	"github.com/Dan9191/finpyme/internal/models"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

func newTestSender(send func(*email.Email, string, smtp.Auth) error) *Sender {
	log := logrus.New()
	log.SetOutput(io.Discard)
	s := NewSender(&config.Config{SMTPHost: "smtp.test", SMTPPort: "2525", SenderEmail: "alertas@finpyme.local"}, log)
	s.send = send
	return s
}

func TestSendInsightAlert(t *testing.T) {
	var sent *email.Email
	var gotAddr string
	s := newTestSender(func(e *email.Email, addr string, auth smtp.Auth) error {
		sent, gotAddr = e, addr
		return nil
	})

	insights := []models.Insight{
		{Title: "Flujo de caja en descenso", Message: "Bajó tres meses"},
		{Title: "Gasto concentrado en Alquiler", Message: "60%"},
	}
	if err := s.SendInsightAlert("ana@pyme.com", "Ana", insights); err != nil {
		t.Fatalf("SendInsightAlert() error = %v", err)
	}

	if gotAddr != "smtp.test:2525" {
		t.Errorf("addr = %q", gotAddr)
	}
	if sent.To[0] != "ana@pyme.com" || !strings.Contains(sent.Subject, "2 alertas") {
		t.Errorf("email = to %v subject %q", sent.To, sent.Subject)
	}
	if !strings.Contains(string(sent.Text), "Bajó tres meses") {
		t.Errorf("body missing insight message: %s", sent.Text)
	}
}

func TestSendInsightAlertErrors(t *testing.T) {
	calls := 0
	s := newTestSender(func(*email.Email, string, smtp.Auth) error {
		calls++
		return errors.New("connection refused")
	})

	if err := s.SendInsightAlert("a@b.c", "A", nil); err != nil || calls != 0 {
		t.Errorf("empty batch: err = %v, calls = %d", err, calls)
	}
	if err := s.SendInsightAlert("a@b.c", "A", []models.Insight{{Title: "x"}}); err == nil {
		t.Error("expected send error")
	}
}
