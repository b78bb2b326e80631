package service

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/contactrelay/contact-api/internal/domain"
	"github.com/contactrelay/contact-api/internal/email"
)

// nl2br escapes s and then converts newlines to line breaks, so user
// text can never smuggle markup into the rendered mail.
func nl2br(s string) template.HTML {
	escaped := template.HTMLEscapeString(s)
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}

var notificationHTML = template.Must(template.New("notification").
	Funcs(template.FuncMap{"nl2br": nl2br}).
	Parse(`<h2>New Contact Form Submission</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Subject:</strong> {{.Subject}}</p>
<p><strong>Message:</strong></p>
<p>{{nl2br .Message}}</p>
<hr>
<p><small>Received {{.Received}} from {{.SourceIP}}</small></p>
`))

type notificationData struct {
	Name     string
	Email    string
	Subject  string
	Message  string
	Received string
	SourceIP string
}

func renderNotification(sub *domain.Submission, subjectPrefix string) email.Message {
	received := sub.ReceivedAt
	if received.IsZero() {
		received = time.Now().UTC()
	}
	data := notificationData{
		Name:     sub.Name,
		Email:    sub.Email,
		Subject:  sub.Subject,
		Message:  sub.Message,
		Received: received.Format(time.RFC1123),
		SourceIP: sub.SourceIP,
	}

	var html strings.Builder
	// The template is a compile-time constant; execution over plain
	// strings cannot fail.
	_ = notificationHTML.Execute(&html, data)

	text := fmt.Sprintf(
		"New Contact Form Submission\n\nName: %s\nEmail: %s\nSubject: %s\n\nMessage:\n%s\n\nReceived %s from %s\n",
		sub.Name, sub.Email, sub.Subject, sub.Message, data.Received, sub.SourceIP,
	)

	return email.Message{
		Subject:  subjectPrefix + sub.Subject,
		TextBody: text,
		HTMLBody: html.String(),
	}
}
