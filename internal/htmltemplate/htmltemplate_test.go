package htmltemplate

import (
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ExecuteHTMLTemplate(t *testing.T) {
	t.Run("returns an error for an unknown template", func(t *testing.T) {
		_, err := ExecuteHTMLTemplate("nope.tmpl", nil)
		assert.ErrorContains(t, err, "executing html template")
	})

	t.Run("empty body template wraps the body in html", func(t *testing.T) {
		html, err := ExecuteHTMLTemplateForEmailEmptyBody(EmptyBodyEmailTemplate{Body: template.HTML("<p>hello</p>")})
		require.NoError(t, err)
		assert.Contains(t, html, "<p>hello</p>")
		assert.Contains(t, html, "<html>")
	})
}

func Test_ExecuteHTMLTemplateForOTPEmailMessage(t *testing.T) {
	html, err := ExecuteHTMLTemplateForOTPEmailMessage(OTPEmailMessageTemplate{
		OTPCode:          "123456",
		OrganizationName: "MeridianPay",
	})
	require.NoError(t, err)
	assert.Contains(t, html, "123456")
	assert.Contains(t, html, "MeridianPay")
}

func Test_ExecuteHTMLTemplateForForgotPasswordEmailMessage(t *testing.T) {
	html, err := ExecuteHTMLTemplateForForgotPasswordEmailMessage(ForgotPasswordEmailMessageTemplate{
		ResetToken:        "tok123",
		ResetPasswordLink: "https://example.com/reset",
		OrganizationName:  "MeridianPay",
	})
	require.NoError(t, err)
	assert.Contains(t, html, "tok123")
	assert.Contains(t, html, "https://example.com/reset")
}
