// internal/app/system/mailer/mailer.go
package mailer

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/thedevbrian/folio/internal/app/system/metrics"
	"go.uber.org/zap"
)

// ErrNoRecipient is returned when an Email has no To address.
var ErrNoRecipient = errors.New("mailer: no recipient")

// Sender delivers one transactional email and returns the provider's id
// for it.
type Sender interface {
	Send(ctx context.Context, email Email) (string, error)
}

// Email represents an email to be sent.
type Email struct {
	To       string
	ReplyTo  string
	Subject  string
	TextBody string
	HTMLBody string
}

// Config holds the configuration for creating an SMTP Mailer.
type Config struct {
	Host     string
	Port     int
	User     string
	Pass     string
	From     string
	FromName string
}

// Mailer sends emails via SMTP.
type Mailer struct {
	host     string
	port     int
	user     string
	pass     string
	from     string
	fromName string
	log      *zap.Logger

	// send is smtp.SendMail outside tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// New creates a new Mailer with the given configuration.
func New(cfg Config, log *zap.Logger) *Mailer {
	return &Mailer{
		host:     cfg.Host,
		port:     cfg.Port,
		user:     cfg.User,
		pass:     cfg.Pass,
		from:     cfg.From,
		fromName: cfg.FromName,
		log:      log,
		send:     smtp.SendMail,
	}
}

// FromName returns the configured sender display name.
func (m *Mailer) FromName() string {
	return m.fromName
}

// Send sends an email. If HTMLBody is provided, sends a multipart email with both
// plain text and HTML versions. The returned id is the Message-ID header value.
//
// net/smtp has no context support; ctx is only checked before dialing.
func (m *Mailer) Send(ctx context.Context, email Email) (string, error) {
	if email.To == "" {
		return "", ErrNoRecipient
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id := uuid.NewString()
	msg := m.buildMessage(id, email)

	addr := fmt.Sprintf("%s:%d", m.host, m.port)

	var auth smtp.Auth
	if m.user != "" && m.pass != "" {
		auth = smtp.PlainAuth("", m.user, m.pass, m.host)
	}

	start := time.Now()
	err := m.send(addr, auth, m.from, []string{email.To}, msg)
	metrics.ObserveUpstream("smtp", start, err)
	if err != nil {
		m.log.Error("failed to send email",
			zap.String("to", email.To),
			zap.String("subject", email.Subject),
			zap.Error(err))
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	m.log.Info("email sent",
		zap.String("to", email.To),
		zap.String("subject", email.Subject),
		zap.String("message_id", id))

	return id, nil
}

func (m *Mailer) buildMessage(id string, email Email) []byte {
	from := m.from
	if m.fromName != "" {
		from = fmt.Sprintf("%s <%s>", m.fromName, m.from)
	}

	var msg bytes.Buffer

	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", email.To)
	if email.ReplyTo != "" {
		fmt.Fprintf(&msg, "Reply-To: %s\r\n", headerSafe(email.ReplyTo))
	}
	fmt.Fprintf(&msg, "Subject: %s\r\n", headerSafe(email.Subject))
	fmt.Fprintf(&msg, "Message-ID: <%s@%s>\r\n", id, domainOf(m.from))
	msg.WriteString("MIME-Version: 1.0\r\n")

	if email.HTMLBody != "" {
		boundary := randomBoundary()
		fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=\"%s\"\r\n", boundary)
		msg.WriteString("\r\n")

		fmt.Fprintf(&msg, "--%s\r\n", boundary)
		msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
		msg.WriteString("\r\n")
		msg.WriteString(email.TextBody)
		msg.WriteString("\r\n")

		fmt.Fprintf(&msg, "--%s\r\n", boundary)
		msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
		msg.WriteString("\r\n")
		msg.WriteString(email.HTMLBody)
		msg.WriteString("\r\n")

		fmt.Fprintf(&msg, "--%s--\r\n", boundary)
	} else {
		msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
		msg.WriteString("\r\n")
		msg.WriteString(email.TextBody)
	}
	return msg.Bytes()
}

// headerSafe drops CR and LF so user input cannot add headers.
func headerSafe(s string) string {
	return strings.NewReplacer("\r", "", "\n", " ").Replace(s)
}

func domainOf(addr string) string {
	if i := strings.LastIndex(addr, "@"); i >= 0 && i < len(addr)-1 {
		return addr[i+1:]
	}
	return "localhost"
}

// randomBoundary generates a random boundary string for multipart emails.
func randomBoundary() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand.Read failed: " + err.Error())
	}
	return "----=_Part_" + hex.EncodeToString(b)
}
