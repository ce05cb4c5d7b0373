package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"
	"github.com/mikey/stock-watcher/internal/core"
	"go.uber.org/zap"
)

// EmailNotifier delivers availability alerts over SMTP
type EmailNotifier struct {
	host     string
	port     int
	username string
	password string
	from     string
	to       []string
	logger   *zap.Logger
}

// NewEmailNotifier creates a new SMTP notifier
func NewEmailNotifier(
	host string,
	port int,
	username string,
	password string,
	from string,
	to []string,
	logger *zap.Logger,
) (*EmailNotifier, error) {
	if from == "" {
		return nil, fmt.Errorf("smtp notifier requires a from address")
	}
	if len(to) == 0 {
		return nil, fmt.Errorf("smtp notifier requires at least one recipient")
	}

	return &EmailNotifier{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		to:       to,
		logger:   logger,
	}, nil
}

// NotifyAvailable reports that an item has come back in stock
func (n *EmailNotifier) NotifyAvailable(ctx context.Context, item core.Item, result *core.CheckResult) error {
	name := item.Name
	if name == "" {
		name = item.URL
	}

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("Stock Watcher <%s>", n.from)
	mail.To = n.to
	mail.Subject = fmt.Sprintf("Back in stock: %s", name)

	body := fmt.Sprintf(`%s appears to be available again.

%s

Checked at %s (matched %q).`,
		name, item.URL, result.CheckedAt.Format("2006-01-02 15:04:05 MST"), result.Indicator)
	mail.Text = []byte(body)

	addr := fmt.Sprintf("%s:%d", n.host, n.port)
	err := mail.Send(addr, smtp.PlainAuth("", n.username, n.password, n.host))
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	if err != nil {
		return fmt.Errorf("failed to send alert email: %w", err)
	}

	n.logger.Info("Alert email sent",
		zap.String("item", name),
		zap.String("url", item.URL),
		zap.Strings("to", n.to))

	return nil
}
