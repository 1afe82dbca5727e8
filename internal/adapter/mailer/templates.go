package mailer

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/jmkivinen/trialreg/internal/domain"
)

// templateData is the rendering context for one registration email.
type templateData struct {
	Event        *domain.Event
	Registration *domain.Registration
	Cancelled    bool
}

// Renderer renders the per-language subject and body of a template.
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer parses the built-in email templates.
func NewRenderer() (*Renderer, error) {
	parsed := make(map[string]*template.Template, len(templateTexts))
	for name, text := range templateTexts {
		tmpl, err := template.New(name).Parse(text)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		parsed[name] = tmpl
	}
	return &Renderer{templates: parsed}, nil
}

// Render produces the subject and body for a template in the registration's
// language, falling back to Finnish. The cancelled flag picks the
// cancellation variant where the template has one.
func (r *Renderer) Render(id domain.TemplateID, event *domain.Event, reg *domain.Registration, cancelled bool) (subject, body string, err error) {
	data := templateData{Event: event, Registration: reg, Cancelled: cancelled}
	tmpl, ok := r.templates[templateName(id, reg.Language)]
	if !ok {
		tmpl, ok = r.templates[templateName(id, "fi")]
	}
	if !ok {
		return "", "", fmt.Errorf("template %s: %w", id, domain.ErrNotFound)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render template %s: %w", id, err)
	}

	// First line is the subject, the rest is the body.
	subject, body, _ = strings.Cut(buf.String(), "\n")
	return subject, strings.TrimSpace(body) + "\n", nil
}

func templateName(id domain.TemplateID, language string) string {
	if language == "" {
		language = "fi"
	}
	return string(id) + "." + language
}

// templateTexts holds the raw templates, one per template id and language.
// The first line of each is the subject.
var templateTexts = map[string]string{
	"picked.fi": `Koepaikkailmoitus - {{.Event.Name}}
Hei {{.Registration.Handler.Name}},

olet saanut koepaikan kokeesta {{.Event.Name}} ({{.Event.StartDate}}).
Luokka: {{.Registration.Class}}.

Ystävällisin terveisin,
järjestäjä`,

	"picked.en": `Participation notice - {{.Event.Name}}
Hello {{.Registration.Handler.Name}},

you have been given a place in {{.Event.Name}} ({{.Event.StartDate}}).
Class: {{.Registration.Class}}.

Best regards,
the organizer`,

	"invitation.fi": `Koekutsu - {{.Event.Name}}
Hei {{.Registration.Handler.Name}},

tervetuloa kokeeseen {{.Event.Name}}.
{{- if .Registration.Group}}
Ryhmä: {{.Registration.Group.Key}}{{if .Registration.Group.Time}} ({{.Registration.Group.Time}}){{end}}.
{{- end}}

Ystävällisin terveisin,
järjestäjä`,

	"invitation.en": `Invitation - {{.Event.Name}}
Hello {{.Registration.Handler.Name}},

welcome to {{.Event.Name}}.
{{- if .Registration.Group}}
Group: {{.Registration.Group.Key}}{{if .Registration.Group.Time}} ({{.Registration.Group.Time}}){{end}}.
{{- end}}

Best regards,
the organizer`,

	"reserve.fi": `Varasijailmoitus - {{.Event.Name}}
Hei {{.Registration.Handler.Name}},

olet varasijalla {{if .Registration.Group}}{{.Registration.Group.Number}}{{end}} kokeessa {{.Event.Name}}.
Ilmoitamme heti, jos koepaikka vapautuu.

Ystävällisin terveisin,
järjestäjä`,

	"reserve.en": `Reserve placement notice - {{.Event.Name}}
Hello {{.Registration.Handler.Name}},

you are on reserve position {{if .Registration.Group}}{{.Registration.Group.Number}}{{end}} for {{.Event.Name}}.
We will let you know as soon as a place opens up.

Best regards,
the organizer`,

	"registration.fi": `Vahvistus ilmoittautumisesta - {{.Event.Name}}
Hei {{.Registration.Handler.Name}},

{{if .Cancelled -}}
ilmoittautumisesi kokeeseen {{.Event.Name}} on peruttu.
{{- else -}}
ilmoittautumisesi kokeeseen {{.Event.Name}} on vastaanotettu.
{{- end}}

Ystävällisin terveisin,
järjestäjä`,

	"registration.en": `Registration confirmation - {{.Event.Name}}
Hello {{.Registration.Handler.Name}},

{{if .Cancelled -}}
your entry to {{.Event.Name}} has been cancelled.
{{- else -}}
your entry to {{.Event.Name}} has been received.
{{- end}}

Best regards,
the organizer`,
}
