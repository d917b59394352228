package message

// Locale identifies a rendering language for message content.
type Locale string

const (
	// LocaleGerman is the primary audit-log locale.
	LocaleGerman Locale = "de-DE"
	// LocaleEnglish is the fallback locale.
	LocaleEnglish Locale = "en-GB"
)

// Severity classifies a message for rendering and audit persistence.
type Severity string

const (
	// SeverityInfo marks a note that does not affect the produced records.
	SeverityInfo Severity = "info"
	// SeverityWarning marks a condition that skipped or degraded a document.
	SeverityWarning Severity = "warning"
	// SeverityError marks a condition that voided a document's records.
	SeverityError Severity = "error"
)

// Message is one structured, bilingual audit entry.
type Message struct {
	Content  map[Locale]string
	Metadata map[string]any
	Severity Severity
}

// New builds a message from its parts. Constructors in this package should be
// preferred; New exists for external collaborators that emit their own
// messages through the same channel.
func New(severity Severity, content map[Locale]string, metadata map[string]any) Message {
	if metadata == nil {
		metadata = map[string]any{}
	}

	return Message{Content: content, Metadata: metadata, Severity: severity}
}

// Text returns the content for the given locale, falling back to English.
func (m Message) Text(locale Locale) string {
	if text, ok := m.Content[locale]; ok {
		return text
	}

	return m.Content[LocaleEnglish]
}
