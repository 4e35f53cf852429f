package quote

import (
	"html"
	"strconv"
	"strings"

	"quotebot/internal/config"
	"quotebot/internal/model"
)

type labels struct {
	estimated   string
	rate        string
	perHour     string
	distance    string
	minHours    string
	hoursBilled string
}

var quoteLabels = map[model.Language]labels{
	model.LangEN: {
		estimated:   "Estimated total",
		rate:        "Rate",
		perHour:     "hour",
		distance:    "Distance",
		minHours:    "Minimum hours",
		hoursBilled: "Hours billed",
	},
	model.LangES: {
		estimated:   "Estimado total",
		rate:        "Tarifa",
		perHour:     "hora",
		distance:    "Distancia",
		minHours:    "Horas minimas",
		hoursBilled: "Horas cobradas",
	},
}

var defaultQuoteNote = model.Text{
	EN: "Estimate only. Availability is confirmed by email.",
	ES: "Solo es un estimado. La disponibilidad se confirma por correo.",
}

// ContactLink monta o link para a página de contato.
func ContactLink(links config.Links, lang model.Language) string {
	label := model.Text{EN: "Contact page", ES: "pagina de contacto"}.Resolve(lang)
	return link(links.ContactURL, label)
}

func BookingLink(links config.Links, lang model.Language) string {
	label := model.Text{EN: "Booking page", ES: "pagina de reservas"}.Resolve(lang)
	return link(links.BookingURL, label)
}

func link(href, label string) string {
	return `<a class="chatbot-link" href="` + html.EscapeString(href) + `">` + label + `</a>`
}

func contactReply(serverMsg string, links config.Links, lang model.Language) string {
	line := "Please use the " + ContactLink(links, lang) + "."
	if lang == model.LangES {
		line = "Por favor usa la " + ContactLink(links, lang) + "."
	}
	return strings.TrimSpace(html.EscapeString(serverMsg) + " " + line)
}

// quoteReply monta a mensagem, o detalhamento (só campos presentes) e a chamada para reserva.
func quoteReply(serverMsg string, resp *model.QuoteResponse, links config.Links, lang model.Language) string {
	msg := html.EscapeString(serverMsg)
	if msg == "" {
		msg = defaultQuoteNote.Resolve(lang)
	}

	l := quoteLabels[lang]
	var parts []string
	if resp.Estimate != nil {
		parts = append(parts, "<strong>"+l.estimated+":</strong> $"+formatNumber(*resp.Estimate))
	}
	if resp.Rate != nil {
		parts = append(parts, "<strong>"+l.rate+":</strong> $"+formatNumber(*resp.Rate)+"/"+l.perHour)
	}
	if resp.DistanceMiles != nil {
		parts = append(parts, "<strong>"+l.distance+":</strong> "+formatNumber(*resp.DistanceMiles)+" mi")
	}
	if resp.MinimumHours != nil {
		parts = append(parts, "<strong>"+l.minHours+":</strong> "+formatNumber(*resp.MinimumHours))
	}
	if resp.HoursBilled != nil {
		parts = append(parts, "<strong>"+l.hoursBilled+":</strong> "+formatNumber(*resp.HoursBilled))
	}

	cta := "If you want to confirm availability, submit the " + BookingLink(links, lang) + "."
	if lang == model.LangES {
		cta = "Si quieres confirmar disponibilidad, envia la " + BookingLink(links, lang) + "."
	}

	detail := ""
	if len(parts) > 0 {
		detail = "<br>" + strings.Join(parts, "<br>")
	}
	return msg + detail + "<br><br>" + cta
}

func apologyReply(links config.Links, lang model.Language) string {
	if lang == model.LangES {
		return "Lo siento, no pude calcularlo. Por favor usa la " + ContactLink(links, lang) + "."
	}
	return "Sorry, I could not calculate that. Please use the " + ContactLink(links, lang) + "."
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
