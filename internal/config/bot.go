package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"quotebot/internal/model"
)

// Ids das mensagens configuráveis.
const (
	MsgGreeting               = "greeting"
	MsgLocationPrompt         = "locationPrompt"
	MsgSerenadeLocationPrompt = "serenadeLocationPrompt"
	MsgHoursPrompt            = "hoursPrompt"
	MsgStartTimePrompt        = "startTimePrompt"
	MsgCalculating            = "calculating"
	MsgUnavailable            = "unavailable"
	MsgFallback               = "fallback"
	MsgNoProblem              = "noProblem"
	MsgThanks                 = "thanks"
	MsgHoursFormatHint        = "hoursFormatHint"
	MsgLanguageSetEnglish     = "languageSetEnglish"
	MsgLanguageSetSpanish     = "languageSetSpanish"
)

type Links struct {
	ContactURL string `yaml:"contact_url" json:"contact_url"`
	BookingURL string `yaml:"booking_url" json:"booking_url"`
}

type FAQEntry struct {
	Keywords  []string   `yaml:"keywords"`
	Response  model.Text `yaml:"response"`
	AllowHTML bool       `yaml:"allow_html"`
}

// Bot é a configuração do assistente consumida na montagem. Somente leitura depois de carregada.
type Bot struct {
	Title            string
	LogoSrc          string
	Standalone       bool
	WidgetButtonText string
	Links            Links
	APIBase          string
	FAQEntries       []FAQEntry
	QuoteKeywords    []string
	SerenadeKeywords []string
	Strings          map[string]model.Text
}

// Text devolve o texto bilíngue de uma mensagem configurada.
func (b *Bot) Text(id string) model.Text {
	return b.Strings[id]
}

// Message resolve uma mensagem configurada no idioma pedido.
func (b *Bot) Message(id string, lang model.Language) string {
	return b.Text(id).Resolve(lang)
}

// botFile espelha o YAML. Ponteiros e slices nil indicam "não informado".
type botFile struct {
	Title            string                `yaml:"title"`
	LogoSrc          string                `yaml:"logo_src"`
	Standalone       bool                  `yaml:"standalone"`
	WidgetButtonText string                `yaml:"widget_button_text"`
	Links            *Links                `yaml:"links"`
	APIBase          string                `yaml:"api_base"`
	FAQEntries       []FAQEntry            `yaml:"faq_entries"`
	QuoteKeywords    []string              `yaml:"quote_keywords"`
	SerenadeKeywords []string              `yaml:"serenade_keywords"`
	Strings          map[string]model.Text `yaml:"strings"`
}

func DefaultBot() *Bot {
	return &Bot{
		Title:            "Website Assistant",
		WidgetButtonText: "Get a Quote",
		Links: Links{
			ContactURL: "/contact.html",
			BookingURL: "/booking.html",
		},
		FAQEntries: []FAQEntry{},
		QuoteKeywords: []string{
			"quote", "estimate", "pricing", "price", "cost", "rate", "how much",
			"presupuesto", "precio", "cuanto", "cuanto cuesta",
		},
		SerenadeKeywords: []string{"serenade", "few songs", "small package"},
		Strings:          defaultStrings(),
	}
}

func defaultStrings() map[string]model.Text {
	return map[string]model.Text{
		MsgGreeting: {
			EN: "Hi! Ask me a question or request a quote.",
			ES: "Hola! Hazme una pregunta o solicita un estimado.",
		},
		MsgLocationPrompt: {
			EN: "What is the event location (city and state)?",
			ES: "Cual es la ubicacion del evento (ciudad y estado)?",
		},
		MsgSerenadeLocationPrompt: {
			EN: "What is the serenade location (city and state)?",
			ES: "Cual es la ubicacion de la serenata (ciudad y estado)?",
		},
		MsgHoursPrompt: {
			EN: "How many hours do you need?",
			ES: "Cuantas horas necesitas?",
		},
		MsgStartTimePrompt: {
			EN: "What time does the performance start? Example: 7:30pm. If unsure, say 'not sure'.",
			ES: "A que hora empieza? Ejemplo: 7:30pm. Si no sabes, escribe 'no se'.",
		},
		MsgCalculating: {
			EN: "Checking distance and preparing your estimate...",
			ES: "Calculando distancia y preparando tu estimado...",
		},
		MsgUnavailable: {
			EN: "I cannot reach the pricing service right now. Please contact us.",
			ES: "No puedo acceder al servicio de precios ahora. Por favor contactanos.",
		},
		MsgFallback: {
			EN: "I can help with booking, pricing, and common questions. Ask another question or request a quote.",
			ES: "Puedo ayudar con reservas, precios y preguntas comunes. Haz otra pregunta o solicita un estimado.",
		},
		MsgNoProblem: {
			EN: "No problem. Ask me anything else.",
			ES: "Sin problema. Preguntame algo mas.",
		},
		MsgThanks: {
			EN: "You are welcome. Let me know if you need anything else.",
			ES: "De nada. Dime si necesitas algo mas.",
		},
		MsgHoursFormatHint: {
			EN: "Please enter hours as a number. Example: 2 or 2.5.",
			ES: "Escribe las horas como numero. Ejemplo: 2 o 2.5.",
		},
		MsgLanguageSetEnglish: {
			EN: "Language set to English.",
			ES: "Idioma cambiado a ingles.",
		},
		MsgLanguageSetSpanish: {
			EN: "Language set to Spanish.",
			ES: "Idioma cambiado a espanol.",
		},
	}
}

// LoadBot lê a configuração YAML e aplica sobre os valores padrão. Caminho vazio
// devolve só os padrões.
func LoadBot(path string) (*Bot, error) {
	if path == "" {
		return DefaultBot(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bot config: %w", err)
	}
	return ParseBot(data)
}

func ParseBot(data []byte) (*Bot, error) {
	var f botFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse bot config: %w", err)
	}

	bot := DefaultBot()
	if f.Title != "" {
		bot.Title = f.Title
	}
	bot.LogoSrc = f.LogoSrc
	bot.Standalone = f.Standalone
	if f.WidgetButtonText != "" {
		bot.WidgetButtonText = f.WidgetButtonText
	}
	if f.Links != nil {
		if f.Links.ContactURL != "" {
			bot.Links.ContactURL = f.Links.ContactURL
		}
		if f.Links.BookingURL != "" {
			bot.Links.BookingURL = f.Links.BookingURL
		}
	}
	bot.APIBase = strings.TrimSpace(f.APIBase)
	// Listas só substituem o padrão quando presentes no arquivo (mesmo vazias)
	if f.FAQEntries != nil {
		bot.FAQEntries = f.FAQEntries
	}
	if f.QuoteKeywords != nil {
		bot.QuoteKeywords = f.QuoteKeywords
	}
	if f.SerenadeKeywords != nil {
		bot.SerenadeKeywords = f.SerenadeKeywords
	}
	for id, text := range f.Strings {
		bot.Strings[id] = text
	}
	return bot, nil
}

// ResolveAPIBase aplica a prioridade: variável de ambiente, depois arquivo do bot.
// Barra final é removida; vazio significa serviço indisponível.
func ResolveAPIBase(env string, bot *Bot) string {
	base := strings.TrimSpace(env)
	if base == "" && bot != nil {
		base = bot.APIBase
	}
	return strings.TrimSuffix(base, "/")
}
