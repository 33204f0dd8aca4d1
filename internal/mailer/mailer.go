package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"salesbot-service/internal/models"

	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// Sender delivers escalation emails to the internal sales team
type Sender interface {
	SendEscalation(ctx context.Context, event *models.HandoffRequestedEvent) error
}

// SMTPSender implements Sender over a direct SMTP connection
type SMTPSender struct {
	host       string
	port       int
	username   string
	password   string
	fromEmail  string
	recipients []string
	logger     *zap.Logger
}

// NewSMTPSender creates a new SMTP escalation sender
func NewSMTPSender(host string, port int, username, password, fromEmail string, recipients []string, logger *zap.Logger) *SMTPSender {
	return &SMTPSender{
		host:       host,
		port:       port,
		username:   username,
		password:   password,
		fromEmail:  fromEmail,
		recipients: recipients,
		logger:     logger,
	}
}

// SendEscalation emails the conversation transcript plus any captured
// customer contact details to the fixed internal recipients.
func (s *SMTPSender) SendEscalation(ctx context.Context, event *models.HandoffRequestedEvent) error {
	msg := gomail.NewMsg()
	if err := msg.From(s.fromEmail); err != nil {
		return fmt.Errorf("escalation from: %w", err)
	}
	if err := msg.To(s.recipients...); err != nil {
		return fmt.Errorf("escalation to: %w", err)
	}

	msg.Subject(fmt.Sprintf("Chat escalation — session %s (%s)", event.SessionID, event.Reason))
	msg.SetBodyString(gomail.TypeTextPlain, buildBody(event))

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
	)
	if err != nil {
		return fmt.Errorf("escalation client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("escalation send: %w", err)
	}

	s.logger.Info("Escalation email sent",
		zap.String("session_id", event.SessionID),
		zap.String("reason", event.Reason))
	return nil
}

func buildBody(event *models.HandoffRequestedEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session: %s\nReason: %s\n", event.SessionID, event.Reason)
	if event.CustomerEmail != "" {
		fmt.Fprintf(&b, "Customer email: %s\n", event.CustomerEmail)
	}
	if event.Postcode != "" {
		fmt.Fprintf(&b, "Postcode: %s\n", event.Postcode)
	}
	b.WriteString("\nTranscript:\n")
	for _, line := range event.Transcript {
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
