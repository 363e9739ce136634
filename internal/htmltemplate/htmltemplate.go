package htmltemplate

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed tmpl/*.tmpl
var Tmpl embed.FS

// ExecuteHTMLTemplate renders one of the embedded email templates with the
// given data. The EmailStyle function is made available to every template.
func ExecuteHTMLTemplate(templateName string, data interface{}) (string, error) {
	funcMap := template.FuncMap{
		"EmailStyle": func() template.HTML {
			return emailStyle
		},
	}

	t, err := template.New("").Funcs(funcMap).ParseFS(Tmpl, "tmpl/*.tmpl")
	if err != nil {
		return "", fmt.Errorf("error parsing embedded template files: %w", err)
	}

	var executedTemplate bytes.Buffer
	err = t.ExecuteTemplate(&executedTemplate, templateName, data)
	if err != nil {
		return "", fmt.Errorf("executing html template: %w", err)
	}

	return executedTemplate.String(), nil
}

type EmptyBodyEmailTemplate struct {
	Body template.HTML
}

func ExecuteHTMLTemplateForEmailEmptyBody(data EmptyBodyEmailTemplate) (string, error) {
	return ExecuteHTMLTemplate("empty_body.tmpl", data)
}

type InvitationEmailMessageTemplate struct {
	FirstName          string
	Role               string
	ForgotPasswordLink string
	OrganizationName   string
}

func ExecuteHTMLTemplateForInvitationEmailMessage(data InvitationEmailMessageTemplate) (string, error) {
	return ExecuteHTMLTemplate("invitation_message.tmpl", data)
}

type ForgotPasswordEmailMessageTemplate struct {
	ResetToken        string
	ResetPasswordLink string
	OrganizationName  string
}

func ExecuteHTMLTemplateForForgotPasswordEmailMessage(data ForgotPasswordEmailMessageTemplate) (string, error) {
	return ExecuteHTMLTemplate("forgot_password_message.tmpl", data)
}

type OTPEmailMessageTemplate struct {
	OTPCode          string
	OrganizationName string
}

func ExecuteHTMLTemplateForOTPEmailMessage(data OTPEmailMessageTemplate) (string, error) {
	return ExecuteHTMLTemplate("otp_message.tmpl", data)
}

// emailStyle is the inline CSS shared by all email templates.
const emailStyle = template.HTML(`
    <style>
        body {
			font-family: Helvetica, Arial, sans-serif;
			line-height: 1.5;
			color: #1a1a2e;
			background-color: #ffffff;
			margin: 0;
			padding: 24px;
		}
		p {
			margin-bottom: 14px;
		}
		.button {
			display: inline-block;
			padding: 12px 24px;
			background-color: #16325c;
			color: #ffffff;
			text-decoration: none;
			border-radius: 4px;
			font-weight: bold;
		}
		.button:hover {
			background-color: #0b2545;
		}
    </style>
`)
