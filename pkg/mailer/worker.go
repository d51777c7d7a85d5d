package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	mailtpl "github.com/oksasatya/sample-social/pkg/mailer/templates"
)

// Outcome tells the consumer loop how to settle a delivery.
type Outcome int

const (
	// Ack: sent, or handed back to the queue as a new message for a later attempt.
	Ack Outcome = iota
	// Requeue: the retry could not be published; let the broker redeliver the original.
	Requeue
	// Drop: malformed, unrenderable, or out of attempts.
	Drop
)

// Republisher puts a job back on the queue.
type Republisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// Worker renders queued email jobs and sends them, retrying with exponential backoff.
type Worker struct {
	Sender      Sender
	Retry       Republisher
	Logger      *logrus.Logger
	MaxAttempts int
	RetryBase   time.Duration
	RetryMax    time.Duration
	SendTimeout time.Duration

	// sleep waits for d or until ctx ends; replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewWorker(sender Sender, retry Republisher, logger *logrus.Logger, maxAttempts int, base, max time.Duration) *Worker {
	return &Worker{
		Sender:      sender,
		Retry:       retry,
		Logger:      logger,
		MaxAttempts: maxAttempts,
		RetryBase:   base,
		RetryMax:    max,
		SendTimeout: 15 * time.Second,
		sleep:       sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Backoff returns the delay before the given attempt (1-based) is retried.
func (w *Worker) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := w.RetryBase
	for i := 1; i < attempt; i++ {
		d *= 2
		if w.RetryMax > 0 && d >= w.RetryMax {
			return w.RetryMax
		}
	}
	if w.RetryMax > 0 && d > w.RetryMax {
		return w.RetryMax
	}
	return d
}

// Run consumes deliveries until the channel closes or ctx ends.
func (w *Worker) Run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			switch w.Handle(ctx, d.Body) {
			case Ack:
				_ = d.Ack(false)
			case Requeue:
				_ = d.Nack(false, true)
			case Drop:
				_ = d.Nack(false, false)
			}
		}
	}
}

// Handle processes one message body.
func (w *Worker) Handle(ctx context.Context, body []byte) Outcome {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		w.Logger.WithError(err).Warn("bad email job")
		return Drop
	}
	log := w.Logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template, "attempts": job.Attempts})

	subject, text, html, err := render(&job)
	if err != nil {
		log.WithError(err).Error("render email failed")
		return Drop
	}

	c, cancel := context.WithTimeout(ctx, w.SendTimeout)
	err = w.Sender.Send(c, job.To, subject, text, html)
	cancel()
	if err == nil {
		log.Info("email sent")
		return Ack
	}

	job.Attempts++
	if job.Attempts >= w.MaxAttempts {
		log.WithError(err).Error("email send failed, giving up")
		return Drop
	}
	delay := w.Backoff(job.Attempts)
	log.WithError(err).WithField("retry_in", delay.String()).Warn("email send failed, retrying")
	if err := w.sleep(ctx, delay); err != nil {
		return Requeue
	}
	if err := w.Retry.PublishJSON(ctx, job); err != nil {
		log.WithError(err).Error("republish email failed")
		return Requeue
	}
	return Ack
}

var errEmptyEmail = errors.New("email job needs a template or a subject with text/html")

func render(job *EmailJob) (subject, text, html string, err error) {
	if job.Template == "" {
		if job.Subject == "" || (job.Text == "" && job.HTML == "") {
			return "", "", "", errEmptyEmail
		}
		return job.Subject, job.Text, job.HTML, nil
	}
	job.EnsureRecipient()
	return mailtpl.Render(job.Template, job.Data)
}
