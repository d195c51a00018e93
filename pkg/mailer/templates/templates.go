package templates

import (
	"bytes"
	"fmt"
	"html/template"
)

// Branding holds the footer/header fields shared by all templates.
type Branding struct {
	CompanyName    string
	CompanyAddress string
	LogoURL        string
	SupportURL     string
	PrivacyURL     string
	UnsubscribeURL string
}

const baseHTML = `<!DOCTYPE html>
<html>
<body style="font-family:Helvetica,Arial,sans-serif;background:#f6f5f2;margin:0;padding:24px">
  <table role="presentation" width="100%" style="max-width:560px;margin:0 auto;background:#ffffff;border-radius:8px">
    <tr><td style="padding:32px">
      {{if .Branding.LogoURL}}<img src="{{.Branding.LogoURL}}" alt="{{.Branding.CompanyName}}" height="36" style="margin-bottom:16px">{{end}}
      <h2 style="margin:0 0 12px;color:#2d4a22">{{.Title}}</h2>
      {{.Body}}
      {{if .ActionURL}}<p style="margin:24px 0"><a href="{{.ActionURL}}" style="background:#2d4a22;color:#fff;padding:12px 20px;border-radius:6px;text-decoration:none">{{.ActionLabel}}</a></p>{{end}}
      <p style="color:#8a8a8a;font-size:12px;margin-top:32px">
        {{.Branding.CompanyName}}{{if .Branding.CompanyAddress}} · {{.Branding.CompanyAddress}}{{end}}
        {{if .Branding.UnsubscribeURL}}<br><a href="{{.Branding.UnsubscribeURL}}" style="color:#8a8a8a">Afmelden voor e-mails</a>{{end}}
      </p>
    </td></tr>
  </table>
</body>
</html>`

var base = template.Must(template.New("base").Parse(baseHTML))

type renderData struct {
	Branding    Branding
	Title       string
	Body        template.HTML
	ActionURL   string
	ActionLabel string
}

// Subjects per event type.
func Subject(event string, data map[string]any) string {
	switch event {
	case "welcome":
		return "Welkom bij Dorpsplein"
	case "new_message":
		return "Je hebt een nieuw bericht"
	case "new_order":
		return "Nieuwe bestelling ontvangen"
	case "order_update":
		return "Update over je bestelling"
	case "new_follower":
		return "Je hebt een nieuwe volger"
	default:
		return "Notificatie"
	}
}

// Render builds subject, text and HTML bodies for a queued event email.
func Render(event string, b Branding, data map[string]any) (subject, text, html string, err error) {
	subject = Subject(event, data)
	name := str(data, "Name")

	var body, actionURL, actionLabel string
	switch event {
	case "welcome":
		body = fmt.Sprintf("<p>Hoi %s,</p><p>Je account is aangemaakt. Zet je eerste gerecht, oogst of ontwerp op het dorpsplein.</p>", esc(name))
		actionURL = str(data, "WelcomeURL")
		actionLabel = "Naar je profiel"
		text = fmt.Sprintf("Hoi %s, je account is aangemaakt.", name)
	case "new_message":
		body = fmt.Sprintf("<p>Hoi %s,</p><p>%s heeft je een bericht gestuurd.</p>", esc(name), esc(str(data, "From")))
		text = fmt.Sprintf("Hoi %s, %s heeft je een bericht gestuurd.", name, str(data, "From"))
	case "new_order":
		body = fmt.Sprintf("<p>Hoi %s,</p><p>Er is een bestelling geplaatst voor \"%s\".</p>", esc(name), esc(str(data, "ListingTitle")))
		text = fmt.Sprintf("Hoi %s, er is een bestelling geplaatst voor %q.", name, str(data, "ListingTitle"))
	case "order_update":
		body = fmt.Sprintf("<p>Hoi %s,</p><p>De status van je bestelling is nu: %s.</p>", esc(name), esc(str(data, "Status")))
		text = fmt.Sprintf("Hoi %s, de status van je bestelling is nu: %s.", name, str(data, "Status"))
	case "new_follower":
		body = fmt.Sprintf("<p>Hoi %s,</p><p>%s volgt je nu.</p>", esc(name), esc(str(data, "Follower")))
		text = fmt.Sprintf("Hoi %s, %s volgt je nu.", name, str(data, "Follower"))
	default:
		body = "<p>Je hebt een nieuwe notificatie.</p>"
		text = "Je hebt een nieuwe notificatie."
	}

	var buf bytes.Buffer
	err = base.Execute(&buf, renderData{
		Branding:    b,
		Title:       subject,
		Body:        template.HTML(body),
		ActionURL:   actionURL,
		ActionLabel: actionLabel,
	})
	if err != nil {
		return "", "", "", err
	}
	return subject, text, buf.String(), nil
}

func str(data map[string]any, key string) string {
	if data == nil {
		return ""
	}
	if v, ok := data[key]; ok {
		return fmt.Sprintf("%v", v)
	}
	return ""
}

func esc(s string) string {
	return template.HTMLEscapeString(s)
}
