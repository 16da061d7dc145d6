package email

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// TemplateType はメールテンプレートの種類を定義します
type TemplateType string

const (
	TemplateWelcome       TemplateType = "welcome"
	TemplateEmailVerify   TemplateType = "email_verify"
	TemplatePasswordReset TemplateType = "password_reset"
)

// TemplateData はテンプレートデータを定義します
type TemplateData struct {
	AppName    string
	UserName   string
	ActionURL  string
	ActionText string
	ExpiresIn  string
}

const layoutTemplate = `{{define "layout"}}<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{template "title" .}}</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h1 style="color: #2563eb;">{{template "title" .}}</h1>
        <p>Hi {{.UserName}},</p>
        {{template "body" .}}
        {{if .ActionURL}}
        <p style="margin: 30px 0;">
            <a href="{{.ActionURL}}" style="background-color: #2563eb; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px;">{{.ActionText}}</a>
        </p>
        {{end}}
        {{if .ExpiresIn}}<p style="color: #666; font-size: 14px;">This link expires in {{.ExpiresIn}}.</p>{{end}}
        <hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">
        <p style="font-size: 12px; color: #666;">This is an automated message from {{.AppName}}.</p>
    </div>
</body>
</html>{{end}}`

var templateBodies = map[TemplateType]string{
	TemplateWelcome: `{{define "title"}}Welcome to {{.AppName}}{{end}}
{{define "body"}}<p>Thanks for creating an account. You can sign in at any time to browse the shop and track your orders.</p>{{end}}`,

	TemplateEmailVerify: `{{define "title"}}Confirm your email address{{end}}
{{define "body"}}<p>Please confirm that this is your email address by clicking the button below.</p>{{end}}`,

	TemplatePasswordReset: `{{define "title"}}Reset your password{{end}}
{{define "body"}}<p>We received a request to reset the password for your account.</p>
<p>If you did not make this request, you can safely ignore this email.</p>{{end}}`,
}

var templates = mustParseTemplates()

func mustParseTemplates() map[TemplateType]*template.Template {
	m := make(map[TemplateType]*template.Template, len(templateBodies))
	for typ, body := range templateBodies {
		t := template.Must(template.New(string(typ)).Parse(layoutTemplate))
		m[typ] = template.Must(t.Parse(body))
	}
	return m
}

// RenderTemplate はテンプレートをレンダリングします
func RenderTemplate(templateType TemplateType, data TemplateData) (string, error) {
	tmpl, ok := templates[templateType]
	if !ok {
		return "", fmt.Errorf("template not found: %s", templateType)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return buf.String(), nil
}

// HumanizeDuration は有効期間をメール本文用の表記に変換します
func HumanizeDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return ""
	case d%time.Hour == 0:
		return plural(int(d/time.Hour), "hour")
	case d%time.Minute == 0:
		return plural(int(d/time.Minute), "minute")
	default:
		return d.String()
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
