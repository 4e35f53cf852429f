package intent

import (
	"strings"

	"quotebot/internal/model"
)

const spanishMarkers = "áéíóúñü¿¡ÁÉÍÓÚÑÜ"

var spanishWords = []string{
	"hola", "gracias", "por favor", "precio", "presupuesto", "reserva", "ubicacion",
	"ciudad", "estado", "cuanto", "cuantas", "evento", "quiero", "necesito", "cotizacion",
}

var (
	switchToSpanish = []string{"espanol", "español", "espanol por favor", "spanish"}
	switchToEnglish = []string{"english", "ingles", "inglés"}
)

// DetectLanguage infere o idioma da frase. Com o idioma fixado pelo usuário a detecção
// é ignorada e o idioma atual é mantido.
func DetectLanguage(text string, current model.Language, pinned bool) model.Language {
	if pinned {
		return current
	}
	if strings.ContainsAny(text, spanishMarkers) || matchesAny(text, spanishWords) {
		return model.LangES
	}
	return model.LangEN
}

// LanguageSwitch reconhece um pedido explícito de troca de idioma ("spanish", "english").
// Espanhol é verificado primeiro.
func LanguageSwitch(text string) (model.Language, bool) {
	if matchesAny(text, switchToSpanish) {
		return model.LangES, true
	}
	if matchesAny(text, switchToEnglish) {
		return model.LangEN, true
	}
	return "", false
}
