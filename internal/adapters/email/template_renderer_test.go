package email

import (
	"testing"

	"eventfinder/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateRenderer_Welcome(t *testing.T) {
	r := NewTemplateRenderer()
	subject, html, text, err := r.Render("welcome", domain.WelcomeMessageEmailData{Email: "<ada>@example.com", UserID: 7})
	require.NoError(t, err)
	assert.Equal(t, "Welcome to Eventfinder", subject)
	assert.Contains(t, html, "&lt;ada&gt;@example.com")
	assert.Contains(t, text, "<ada>@example.com")
}

func TestTemplateRenderer_UnknownTemplate(t *testing.T) {
	_, _, _, err := NewTemplateRenderer().Render("missing", nil)
	require.ErrorIs(t, err, ErrUnknownTemplate)
	assert.Contains(t, err.Error(), `"missing"`)
}
