package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/sample-social/config"
	"github.com/oksasatya/sample-social/internal/domain/entity"
	"github.com/oksasatya/sample-social/pkg/helpers"
	"github.com/oksasatya/sample-social/pkg/mailer"
	mailtpl "github.com/oksasatya/sample-social/pkg/mailer/templates"
)

func TestUserPolicy(t *testing.T) {
	alice := &entity.User{ID: "a"}
	bob := &entity.User{ID: "b"}
	admin := &entity.User{ID: "r", IsAdmin: true}

	tests := []struct {
		name           string
		acting, target *entity.User
		update, delete bool
	}{
		{name: "self", acting: alice, target: alice, update: true, delete: false},
		{name: "stranger", acting: alice, target: bob, update: false, delete: false},
		{name: "admin on other", acting: admin, target: bob, update: true, delete: true},
		{name: "admin on self", acting: admin, target: admin, update: true, delete: false},
		{name: "anonymous", acting: nil, target: bob, update: false, delete: false},
	}
	p := UserPolicy{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.update, p.CanUpdate(tt.acting, tt.target))
			assert.Equal(t, tt.delete, p.CanDestroy(tt.acting, tt.target))
		})
	}
}

func TestPageWindow(t *testing.T) {
	page, size, offset := pageWindow(0, 0, 20)
	assert.Equal(t, []int{1, 20, 0}, []int{page, size, offset})

	page, size, offset = pageWindow(3, 10, 20)
	assert.Equal(t, []int{3, 10, 20}, []int{page, size, offset})

	_, size, _ = pageWindow(1, 500, 20)
	assert.Equal(t, maxPageSize, size)
}

func TestValidationErrorMessageIsStable(t *testing.T) {
	err := newValidationError(map[string]string{"name": "is required", "email": "is required"})
	assert.Equal(t, "validation failed: email is required; name is required", err.Error())

	wrapped := errors.Join(errors.New("outer"), err)
	ve, ok := IsValidation(wrapped)
	require.True(t, ok)
	assert.Len(t, ve.Fields, 2)
}

func newTestSessions(t *testing.T) (*SessionService, *fixture) {
	t.Helper()
	f := newFixture()
	jwt := helpers.NewJWTManager("access", "refresh", time.Minute, time.Hour)
	s := NewSessionService(memUsers{f.db}, jwt, f.accounts.Hasher, nil, helpers.NewDiscardLogger(), 0)
	return s, f
}

func TestSessionLogin(t *testing.T) {
	ctx := context.Background()
	s, f := newTestSessions(t)
	alice := f.seedUser("Alice", false)

	u, pair, err := s.Login(ctx, "ALICE@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, u.ID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.True(t, pair.RefreshTokenExpiry.After(pair.AccessTokenExpiry))

	claims, err := s.JWT.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, claims.UserID)
	assert.NotEmpty(t, claims.SessionID)

	_, _, err = s.Login(ctx, "alice@x.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = s.Login(ctx, "nobody@x.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSessionLoginRequiresActivation(t *testing.T) {
	s, f := newTestSessions(t)
	_, err := f.accounts.Register(context.Background(), "Bob", "bob@x.com", "secret1")
	require.NoError(t, err)

	_, _, err = s.Login(context.Background(), "bob@x.com", "secret1")
	assert.ErrorIs(t, err, ErrEmailNotVerified)
}

func TestSessionRefresh(t *testing.T) {
	ctx := context.Background()
	s, f := newTestSessions(t)
	alice := f.seedUser("Alice", false)

	_, pair, err := s.Login(ctx, "alice@x.com", "secret1")
	require.NoError(t, err)

	next, uid, err := s.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, uid)
	assert.NotEmpty(t, next.AccessToken)

	_, _, err = s.Refresh(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials, "access token must not refresh")

	_, _, err = s.Refresh(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

type recordingPublisher struct {
	jobs        []mailer.EmailJob
	hadDeadline bool
	err         error
}

func (p *recordingPublisher) PublishJSON(ctx context.Context, body any) error {
	_, p.hadDeadline = ctx.Deadline()
	p.jobs = append(p.jobs, body.(mailer.EmailJob))
	return p.err
}

func TestQueueNotifier(t *testing.T) {
	cfg := &config.Config{
		MailSendEnabled:    true,
		MailPublishTimeout: time.Second,
		ActivationURL:      "http://app.test/api/users/confirm",
		AppName:            "sample",
	}
	u := &entity.User{ID: "u1", Name: "Alice", Email: "a@x.com"}

	t.Run("publishes confirm job", func(t *testing.T) {
		pub := &recordingPublisher{}
		n := NewQueueNotifier(pub, cfg, helpers.NewDiscardLogger())

		require.NoError(t, n.SendConfirmationEmail(context.Background(), u, "tok"))
		require.Len(t, pub.jobs, 1)
		job := pub.jobs[0]
		assert.Equal(t, "a@x.com", job.To)
		assert.Equal(t, mailtpl.ConfirmEmail, job.Template)
		assert.Equal(t, "http://app.test/api/users/confirm/tok", job.Data["ActivationURL"])
		assert.True(t, pub.hadDeadline)
	})

	t.Run("carries client info", func(t *testing.T) {
		pub := &recordingPublisher{}
		n := NewQueueNotifier(pub, cfg, helpers.NewDiscardLogger())
		ctx := WithClientInfo(context.Background(), ClientInfo{IP: " 10.1.2.3 ", UserAgent: "curl/8"})

		require.NoError(t, n.SendConfirmationEmail(ctx, u, "tok"))
		require.Len(t, pub.jobs, 1)
		assert.Equal(t, "10.1.2.3", pub.jobs[0].Data["IP"])
		assert.Equal(t, "curl/8", pub.jobs[0].Data["UserAgent"])
	})

	t.Run("survives cancelled request context", func(t *testing.T) {
		pub := &recordingPublisher{}
		n := NewQueueNotifier(pub, cfg, helpers.NewDiscardLogger())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		require.NoError(t, n.SendConfirmationEmail(ctx, u, "tok"))
		assert.Len(t, pub.jobs, 1)
	})

	t.Run("returns publish error", func(t *testing.T) {
		pub := &recordingPublisher{err: errors.New("closed")}
		n := NewQueueNotifier(pub, cfg, helpers.NewDiscardLogger())
		assert.Error(t, n.SendConfirmationEmail(context.Background(), u, "tok"))
	})

	t.Run("disabled only logs", func(t *testing.T) {
		pub := &recordingPublisher{}
		off := *cfg
		off.MailSendEnabled = false
		n := NewQueueNotifier(pub, &off, helpers.NewDiscardLogger())

		require.NoError(t, n.SendConfirmationEmail(context.Background(), u, "tok"))
		assert.Empty(t, pub.jobs)
	})
}
