package services

import (
	"context"
	"fmt"
	"time"

	"github.com/hosamatch/backend/internal/config"
	"github.com/mailgun/mailgun-go/v4"
)

// MailerService sends best-effort notification emails. With no API key
// configured it is a no-op, which is the default in development and tests.
type MailerService struct {
	mg     mailgun.Mailgun
	sender string
}

func NewMailerService(cfg config.MailConfig) *MailerService {
	if cfg.APIKey == "" || cfg.Domain == "" {
		return &MailerService{}
	}
	return &MailerService{
		mg:     mailgun.NewMailgun(cfg.Domain, cfg.APIKey),
		sender: cfg.Sender,
	}
}

// NotifyAdminAdded tells a user they were made an admin of a school.
func (m *MailerService) NotifyAdminAdded(ctx context.Context, recipient, schoolName string) error {
	if m.mg == nil {
		return nil
	}

	subject := fmt.Sprintf("You are now an admin of %s", schoolName)
	body := fmt.Sprintf(
		"A fellow admin added you to the admin team of %s. Sign in to manage your school's events and members.",
		schoolName,
	)
	message := m.mg.NewMessage(m.sender, subject, body, recipient)

	sendCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, _, err := m.mg.Send(sendCtx, message)
	return err
}
