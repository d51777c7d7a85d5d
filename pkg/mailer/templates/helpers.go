package templates

import (
	"strings"
	"time"

	"github.com/oksasatya/sample-social/config"
)

// Option pattern
type Option func(*EmailData)

func WithIP(ip string) Option        { return func(d *EmailData) { d.IP = strings.TrimSpace(ip) } }
func WithUserAgent(ua string) Option { return func(d *EmailData) { d.UserAgent = ua } }
func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04 MST")
	}
}

// NewBaseEmailData fills the shared branding fields from config, then applies opts.
func NewBaseEmailData(cfg *config.Config, typ, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: email,
		Type:           typ,

		CompanyName: cfg.CompanyName,
		AppName:     cfg.AppName,
		LogoURL:     cfg.LogoURL,
		SupportURL:  cfg.SupportURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// NewConfirmEmailData builds the data for the account confirmation email.
func NewConfirmEmailData(cfg *config.Config, name, email, activationURL string, opts ...Option) map[string]any {
	d := NewBaseEmailData(cfg, ConfirmEmail, name, email, opts...)
	d.ActivationURL = activationURL
	return ToMap(d)
}
