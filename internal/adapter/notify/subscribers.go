package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"loan-origination/internal/domain/notification"
	"loan-origination/internal/domain/readmodel"
	"loan-origination/internal/domain/user"
	"loan-origination/internal/events"

	mail "github.com/go-mail/mail/v2"
	"gorm.io/gorm"
)

// InvalidateCache drops every cached view the event made stale.
func InvalidateCache(c readmodel.Cache) events.Handler {
	return func(ctx context.Context, e events.Event) error {
		var keys []string
		if e.Touches(events.ReadApplicationList) && e.UserID != "" {
			keys = append(keys, readmodel.UserApplicationsKey(e.UserID))
		}
		if e.Touches(events.ReadApplication) && e.ApplicationID != "" {
			keys = append(keys, readmodel.ApplicationKey(e.ApplicationID))
		}
		if len(keys) == 0 {
			return nil
		}
		return c.Delete(ctx, keys...)
	}
}

// Inbox writes one notification row per borrower-facing event.
func Inbox(repo notification.Repository) events.Handler {
	return func(ctx context.Context, e events.Event) error {
		msg, ok := borrowerMessage(e)
		if !ok {
			return nil
		}
		return repo.Create(ctx, &notification.Notification{
			UserID:    e.UserID,
			Kind:      string(e.Kind),
			Title:     msg.Title,
			Message:   msg.Body,
			Reference: e.ApplicationID,
		})
	}
}

// Sender is satisfied by *mail.Dialer.
type Sender interface {
	DialAndSend(m ...*mail.Message) error
}

// DefaultSendTimeout caps how long one event waits on the SMTP server.
const DefaultSendTimeout = 5 * time.Second

// ErrSendTimeout is returned when the server did not accept the message in
// time. The send itself is abandoned, not retried.
var ErrSendTimeout = errors.New("notify: mail send timed out")

type Mailer struct {
	users   user.Repository
	sender  Sender
	from    string
	timeout time.Duration
}

type MailerOption func(*Mailer)

func WithSendTimeout(d time.Duration) MailerOption {
	return func(m *Mailer) {
		if d > 0 {
			m.timeout = d
		}
	}
}

func NewMailer(users user.Repository, sender Sender, from string, opts ...MailerOption) *Mailer {
	m := &Mailer{users: users, sender: sender, from: from, timeout: DefaultSendTimeout}
	for _, o := range opts {
		o(m)
	}
	return m
}

// NewDialer mirrors the SMTP settings: STARTTLS is mandatory on 587. Each
// network read or write is bounded by DefaultSendTimeout.
func NewDialer(host string, port int, username, password string) *mail.Dialer {
	d := mail.NewDialer(host, port, username, password)
	d.Timeout = DefaultSendTimeout
	if port == 587 {
		d.StartTLSPolicy = mail.MandatoryStartTLS
	}
	return d
}

func (m *Mailer) Handle(ctx context.Context, e events.Event) error {
	msg, ok := borrowerMessage(e)
	if !ok {
		return nil
	}
	u, err := m.users.GetByUserID(ctx, e.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup recipient: %w", err)
	}
	if u.Email == "" {
		return nil
	}

	mm := mail.NewMessage()
	mm.SetHeader("From", m.from)
	mm.SetHeader("To", u.Email)
	mm.SetHeader("Subject", msg.Title)
	mm.SetBody("text/plain", greeting(u)+msg.Body)
	mm.AddAlternative("text/html", "<p>"+strings.ReplaceAll(html.EscapeString(greeting(u)+msg.Body), "\n", "<br>")+"</p>")
	return m.send(ctx, mm)
}

// send runs on the publishing request, so it never waits past the timeout
// or the request context.
func (m *Mailer) send(ctx context.Context, mm *mail.Message) error {
	done := make(chan error, 1)
	go func() { done <- m.sender.DialAndSend(mm) }()

	timer := time.NewTimer(m.timeout)
	defer timer.Stop()
	select {
	case err := <-done:
		return err
	case <-timer.C:
		return fmt.Errorf("%w after %s", ErrSendTimeout, m.timeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func greeting(u *user.User) string {
	if u.FirstName == "" {
		return "Bonjour,\n\n"
	}
	return "Bonjour " + u.FirstName + ",\n\n"
}
