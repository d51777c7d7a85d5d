package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/sample-social/config"
)

func TestRenderConfirmEmail(t *testing.T) {
	cfg := &config.Config{AppName: "Sample", CompanyName: "Sample Inc"}
	data := NewConfirmEmailData(cfg, "Alice", "a@x.com", "http://localhost/api/users/confirm/tok",
		WithTime(time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC)),
		WithIP("10.0.0.1"),
	)

	subject, text, html, err := Render(ConfirmEmail, data)
	require.NoError(t, err)

	assert.Equal(t, "Thanks for signing up to Sample! Please confirm your email.", subject)
	assert.Contains(t, text, "Hi Alice,")
	assert.Contains(t, text, "http://localhost/api/users/confirm/tok")
	assert.Contains(t, html, `href="http://localhost/api/users/confirm/tok"`)
	assert.Contains(t, html, "from 10.0.0.1")
}

func TestRenderEscapesHTML(t *testing.T) {
	cfg := &config.Config{}
	data := NewConfirmEmailData(cfg, "<script>x</script>", "a@x.com", "http://x")

	_, text, html, err := Render(ConfirmEmail, data)
	require.NoError(t, err)
	assert.Contains(t, text, "Hi <script>x</script>,")
	assert.NotContains(t, html, "<script>x</script>")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := Render("missing", map[string]any{})
	assert.Error(t, err)
}

func TestDefaultFn(t *testing.T) {
	assert.Equal(t, "fb", defaultFn("fb", ""))
	assert.Equal(t, "fb", defaultFn("fb", nil))
	assert.Equal(t, "fb", defaultFn("fb", 0))
	assert.Equal(t, "v", defaultFn("fb", "v"))
}
