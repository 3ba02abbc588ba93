package notify

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"teachtime/internal/models"
)

// Message is the channel-ready content for one user's daily reminder.
// Produced by Compose, consumed by the channel clients.
type Message struct {
	// Email content.
	Subject  string
	HTMLBody string
	TextBody string

	// Short summary for SMS.
	SMSText string

	// Push notification content.
	PushTitle string
	PushBody  string

	// Structured data carried alongside the rendered text.
	SiteURL      string
	PendingCount int
	Incomplete   []models.Task
	Completed    []models.Task
}

var emailHTMLTmpl = htmltemplate.Must(htmltemplate.New("email_html").Parse(`<html>
<body>
<h2>Hi {{.Name}}, here is your task summary for today</h2>
{{if .Incomplete}}<h3>Pending ({{len .Incomplete}})</h3>
<ul>
{{range .Incomplete}}<li>{{.Text}} <em>[{{.Priority}}/{{.Category}}]</em></li>
{{end}}</ul>
{{else}}<p>🎉 All your tasks are complete for today!</p>
{{end}}{{if .Completed}}<h3>Completed ({{len .Completed}})</h3>
<ul>
{{range .Completed}}<li><s>{{.Text}}</s></li>
{{end}}</ul>
{{end}}<p><a href="{{.SiteURL}}">Open your dashboard</a></p>
</body>
</html>
`))

var emailTextTmpl = texttemplate.Must(texttemplate.New("email_text").Parse(`Hi {{.Name}}, here is your task summary for today.

{{if .Incomplete}}Pending ({{len .Incomplete}}):
{{range .Incomplete}}  - {{.Text}} [{{.Priority}}/{{.Category}}]
{{end}}{{else}}All your tasks are complete for today!
{{end}}{{if .Completed}}
Completed ({{len .Completed}}):
{{range .Completed}}  - {{.Text}}
{{end}}{{end}}
Dashboard: {{.SiteURL}}
`))

type emailContext struct {
	Name       string
	Incomplete []models.Task
	Completed  []models.Task
	SiteURL    string
}

// Compose turns a user and their tasks due today into channel-specific
// content. Pure transformation: safe for an empty task slice, no I/O.
func Compose(user models.User, tasks []models.Task, siteURL string) (*Message, error) {
	var incomplete, completed []models.Task
	for _, t := range tasks {
		if t.Completed {
			completed = append(completed, t)
		} else {
			incomplete = append(incomplete, t)
		}
	}

	name := user.DisplayName()
	pending := len(incomplete)

	msg := &Message{
		Subject:      fmt.Sprintf("Daily Task Reminder - %s", name),
		SiteURL:      siteURL,
		PendingCount: pending,
		Incomplete:   incomplete,
		Completed:    completed,
	}

	if pending == 0 {
		msg.SMSText = fmt.Sprintf("Hi %s! 🎉 All your tasks are complete for today!", name)
		msg.PushTitle = "All Done! 🎉"
		msg.PushBody = "You've completed all your tasks for today!"
	} else {
		msg.SMSText = fmt.Sprintf("Hi %s! You have %d pending task%s today. Check your dashboard: %s",
			name, pending, plural(pending), siteURL)
		msg.PushTitle = fmt.Sprintf("Task Reminder (%d pending)", pending)
		msg.PushBody = fmt.Sprintf("You have %d task%s waiting for you.", pending, plural(pending))
	}

	ec := emailContext{Name: name, Incomplete: incomplete, Completed: completed, SiteURL: siteURL}

	var html bytes.Buffer
	if err := emailHTMLTmpl.Execute(&html, ec); err != nil {
		return nil, fmt.Errorf("render email html: %w", err)
	}
	msg.HTMLBody = html.String()

	var text bytes.Buffer
	if err := emailTextTmpl.Execute(&text, ec); err != nil {
		return nil, fmt.Errorf("render email text: %w", err)
	}
	msg.TextBody = text.String()

	return msg, nil
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
