package core

import (
	"context"
	"strings"
	"text/template"

	"github.com/pkg/errors"
)

const (
	absenceTmplName = "absence"
	marksTmplName   = "marks"
)

var notificationTemplates = template.Must(
	template.New(absenceTmplName).Option("missingkey=error").Parse(
		"Dear Parent {{.ParentName}}, your child {{.StudentName}} is absent today ({{.Date}}). " +
			"Reason: {{.Reason}}. Please contact the college if needed.",
	),
)

func init() {
	template.Must(notificationTemplates.New(marksTmplName).Parse(
		"Dear Parent {{.ParentName}}, your child {{.StudentName}} has scored {{.Marks}} in {{.Subject}} - {{.Exam}}.",
	))
}

type (
	Recipient struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
		Email string `json:"email"`
	}

	Notification struct {
		To      Recipient `json:"to"`
		Subject string    `json:"subject"`
		Body    string    `json:"body"`
	}

	// Notifier is any service that can deliver a Notification to a parent.
	Notifier interface {
		Notify(ctx context.Context, n Notification) error
	}

	AbsenceData struct {
		ParentName  string
		StudentName string
		Date        string
		Reason      string
	}

	MarksData struct {
		ParentName  string
		StudentName string
		Subject     string
		Exam        string
		Marks       string
	}
)

func renderNotification(to Recipient, subject, tmplName string, data interface{}) (Notification, error) {
	var body strings.Builder
	if err := notificationTemplates.ExecuteTemplate(&body, tmplName, data); err != nil {
		return Notification{}, errors.Wrapf(err, "rendering %s notification", tmplName)
	}
	return Notification{To: to, Subject: subject, Body: body.String()}, nil
}

func NewAbsenceNotification(to Recipient, data AbsenceData) (Notification, error) {
	return renderNotification(to, "Absence notice", absenceTmplName, data)
}

func NewMarksNotification(to Recipient, data MarksData) (Notification, error) {
	return renderNotification(to, "Marks update", marksTmplName, data)
}

// SanitizePhone keeps the digits of `raw`, and a leading "+" if present.
func SanitizePhone(raw string) string {
	raw = strings.TrimPrefix(CleanString(raw), "whatsapp:")
	var b strings.Builder
	for i, r := range raw {
		if (r >= '0' && r <= '9') || (r == '+' && i == 0) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// WhatsAppAddress formats a phone number the way WhatsApp gateways expect it.
func WhatsAppAddress(phone string) string {
	if num := SanitizePhone(phone); num != "" {
		return "whatsapp:" + num
	}
	return ""
}
