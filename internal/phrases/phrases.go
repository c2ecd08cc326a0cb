// Package phrases holds the static button-to-phrase configuration. The table
// is build-time data; it is not mutable at runtime.
package phrases

// DefaultLanguage is the fallback when a button has no phrase for the
// requested language.
const DefaultLanguage = "en"

// Languages supported by the phrase table.
var Languages = []string{"en", "hi", "it", "de", "fr", "es"}

// Button is one configured button: a display label and its phrase per language.
type Button struct {
	Label string
	Texts map[string]string
}

var table = map[string]Button{
	"BTN1": {Label: "Help", Texts: map[string]string{
		"en": "I need help",
		"hi": "मुझे मदद चाहिए",
		"it": "Ho bisogno di aiuto",
		"de": "Ich brauche Hilfe",
		"fr": "J'ai besoin d'aide",
		"es": "Necesito ayuda",
	}},
	"BTN2": {Label: "Medicines please", Texts: map[string]string{
		"en": "Medicines please",
		"hi": "कृपया दवाएं दें",
		"it": "Medicinali per favore",
		"de": "Medikamente bitte",
		"fr": "Médicaments s'il vous plaît",
		"es": "Medicinas por favor",
	}},
	"BTN3": {Label: "Water", Texts: map[string]string{
		"en": "I need water",
		"hi": "मुझे पानी चाहिए",
		"it": "Ho bisogno di acqua",
		"de": "Ich brauche Wasser",
		"fr": "J'ai besoin d'eau",
		"es": "Necesito agua",
	}},
	"BTN4": {Label: "I need rest", Texts: map[string]string{
		"en": "I need rest",
		"hi": "मुझे आराम चाहिए",
		"it": "Ho bisogno di riposo",
		"de": "Ich brauche Ruhe",
		"fr": "J'ai besoin de repos",
		"es": "Necesito descanso",
	}},
	"BTN5": {Label: "Come here", Texts: map[string]string{
		"en": "Please come here",
		"hi": "कृपया यहाँ आइए",
		"it": "Per favore vieni qui",
		"de": "Bitte komm her",
		"fr": "S'il vous plaît, venez ici",
		"es": "Por favor ven aquí",
	}},
	"BTN6": {Label: "Emergency", Texts: map[string]string{
		"en": "Emergency!",
		"hi": "आपातकाल!",
		"it": "Emergenza!",
		"de": "Notfall!",
		"fr": "Urgence!",
		"es": "¡Emergencia!",
	}},
}

// EmergencyButton is the button code that triggers caretaker alerting.
const EmergencyButton = "BTN6"

// Resolve returns the configured phrase for a button in the given language,
// falling back to English when the language is absent from the button's
// table. The second return value is false when the button code is unknown.
func Resolve(button, language string) (string, bool) {
	b, ok := table[button]
	if !ok {
		return "", false
	}
	if text, ok := b.Texts[language]; ok {
		return text, true
	}
	return b.Texts[DefaultLanguage], true
}

// Label returns the display label for a button code.
func Label(button string) (string, bool) {
	b, ok := table[button]
	if !ok {
		return "", false
	}
	return b.Label, true
}

// Buttons returns the configured button codes in a stable order.
func Buttons() []string {
	return []string{"BTN1", "BTN2", "BTN3", "BTN4", "BTN5", "BTN6"}
}
