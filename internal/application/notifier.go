package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/sample-social/config"
	"github.com/oksasatya/sample-social/internal/domain/entity"
	"github.com/oksasatya/sample-social/pkg/mailer"
	mailtpl "github.com/oksasatya/sample-social/pkg/mailer/templates"
)

type clientKey struct{}

// ClientInfo describes the HTTP client behind a request.
type ClientInfo struct {
	IP        string
	UserAgent string
}

// WithClientInfo attaches the caller's address and user agent to ctx so
// outgoing emails can mention where a request came from.
func WithClientInfo(ctx context.Context, info ClientInfo) context.Context {
	return context.WithValue(ctx, clientKey{}, info)
}

func clientInfo(ctx context.Context) ClientInfo {
	info, _ := ctx.Value(clientKey{}).(ClientInfo)
	return info
}

// Notifier delivers account emails outside the request path.
type Notifier interface {
	SendConfirmationEmail(ctx context.Context, u *entity.User, token string) error
}

// JobPublisher enqueues a JSON job; satisfied by helpers.RabbitPublisher.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueNotifier enqueues email jobs for the email worker. Publishing is bounded by
// Timeout so a stalled broker cannot hold a request.
type QueueNotifier struct {
	Pub     JobPublisher
	Cfg     *config.Config
	Logger  *logrus.Logger
	Timeout time.Duration
}

func NewQueueNotifier(pub JobPublisher, cfg *config.Config, logger *logrus.Logger) *QueueNotifier {
	return &QueueNotifier{Pub: pub, Cfg: cfg, Logger: logger, Timeout: cfg.MailPublishTimeout}
}

func (n *QueueNotifier) SendConfirmationEmail(ctx context.Context, u *entity.User, token string) error {
	link := n.Cfg.ActivationLink(token)
	log := n.Logger.WithFields(logrus.Fields{"user_id": u.ID, "email": u.Email})
	if n.Pub == nil || !n.Cfg.MailSendEnabled {
		log.WithField("link", link).Info("mail sending disabled; confirmation link not emailed")
		return nil
	}

	client := clientInfo(ctx)
	data := mailtpl.NewConfirmEmailData(n.Cfg, u.Name, u.Email, link,
		mailtpl.WithTime(time.Now()),
		mailtpl.WithIP(client.IP),
		mailtpl.WithUserAgent(client.UserAgent),
	)
	job := mailer.EmailJob{To: u.Email, Template: mailtpl.ConfirmEmail, Data: data}

	timeout := n.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	c, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	if err := n.Pub.PublishJSON(c, job); err != nil {
		log.WithError(err).Warn("enqueue confirmation email failed")
		return err
	}
	log.Debug("confirmation email enqueued")
	return nil
}

var _ Notifier = (*QueueNotifier)(nil)
