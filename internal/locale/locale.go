// Package locale holds the read-only localization table consumed by the
// assistant core. The table is fixed at process start; callers receive
// copies, never the underlying maps.
package locale

// Bundle is the greeting and label set for one language.
type Bundle struct {
	Greeting string
	Labels   map[string]string
}

// DefaultLanguage is used whenever a session carries no language of its own.
const DefaultLanguage = "en"

var bundles = map[string]Bundle{
	"en": {
		Greeting: "Hi! I'm your home services assistant. How can I help today?",
		Labels: map[string]string{
			"reviews":    "Top reviews",
			"providers":  "Recommended providers",
			"follow_up":  "You might also want to know",
			"typing":     "Assistant is typing",
			"attachment": "Attachment received",
			"voice":      "Voice message received",
		},
	},
	"es": {
		Greeting: "¡Hola! Soy tu asistente de servicios para el hogar. ¿En qué puedo ayudarte?",
		Labels: map[string]string{
			"reviews":    "Mejores reseñas",
			"providers":  "Proveedores recomendados",
			"follow_up":  "También te puede interesar",
			"typing":     "El asistente está escribiendo",
			"attachment": "Archivo recibido",
			"voice":      "Mensaje de voz recibido",
		},
	},
	"fr": {
		Greeting: "Bonjour ! Je suis votre assistant services à domicile. Comment puis-je aider ?",
		Labels: map[string]string{
			"reviews":    "Meilleurs avis",
			"providers":  "Prestataires recommandés",
			"follow_up":  "Vous pourriez aussi vouloir savoir",
			"typing":     "L'assistant écrit",
			"attachment": "Pièce jointe reçue",
			"voice":      "Message vocal reçu",
		},
	},
}

// For resolves the bundle for a language code, falling back to the default
// language for unknown codes. The returned labels map is a copy.
func For(language string) Bundle {
	bundle, ok := bundles[language]
	if !ok {
		bundle = bundles[DefaultLanguage]
	}
	labels := make(map[string]string, len(bundle.Labels))
	for key, value := range bundle.Labels {
		labels[key] = value
	}
	return Bundle{Greeting: bundle.Greeting, Labels: labels}
}

// Supported reports whether the language has its own bundle.
func Supported(language string) bool {
	_, ok := bundles[language]
	return ok
}
