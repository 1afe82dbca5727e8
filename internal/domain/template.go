package domain

// TemplateID names an email template.
type TemplateID string

const (
	TemplatePicked       TemplateID = "picked"
	TemplateInvitation   TemplateID = "invitation"
	TemplateReserve      TemplateID = "reserve"
	TemplateRegistration TemplateID = "registration"
)

// TemplateContext distinguishes variants of the same template id, e.g. the
// registration template sent on cancellation.
type TemplateContext string

const (
	ContextNone   TemplateContext = ""
	ContextCancel TemplateContext = "cancel"
)

// templateLabels holds the human-readable label per template and language.
// The label appears in audit entries and the lastEmail summary.
var templateLabels = map[string]map[TemplateID]string{
	"fi": {
		TemplatePicked:       "Koepaikkailmoitus",
		TemplateInvitation:   "Koekutsu",
		TemplateReserve:      "Varasijailmoitus",
		TemplateRegistration: "Vahvistus ilmoittautumisesta",
	},
	"en": {
		TemplatePicked:       "Participation notice",
		TemplateInvitation:   "Invitation",
		TemplateReserve:      "Reserve placement notice",
		TemplateRegistration: "Registration confirmation",
	},
}

// TemplateLabel returns the label for a template in the given language,
// falling back to Finnish, the organization's default.
func TemplateLabel(id TemplateID, language string) string {
	if labels, ok := templateLabels[language]; ok {
		if label, ok := labels[id]; ok {
			return label
		}
	}
	return templateLabels["fi"][id]
}
