package chat

import (
	"context"
	"html"
	"strings"

	"github.com/rs/zerolog"

	"quotebot/internal/config"
	"quotebot/internal/dialogue"
	"quotebot/internal/intent"
	"quotebot/internal/model"
	"quotebot/internal/observability"
	"quotebot/internal/quote"
)

// Controller orquestra um turno da conversa: troca de idioma, detecção de idioma,
// slot pendente, classificação de intenção e resposta, nessa ordem.
type Controller struct {
	bot        *config.Bot
	classifier *intent.Classifier
	dialogue   *dialogue.Dialogue
	gateway    *quote.Gateway
	log        zerolog.Logger
}

func NewController(bot *config.Bot, gateway *quote.Gateway, log zerolog.Logger) *Controller {
	return &Controller{
		bot:        bot,
		classifier: intent.NewClassifier(bot),
		dialogue:   dialogue.New(bot),
		gateway:    gateway,
		log:        observability.Component(log, "chat"),
	}
}

// HandleTurn processa uma mensagem do usuário e devolve o próximo estado e as respostas.
// Mensagem vazia não altera nada.
func (c *Controller) HandleTurn(ctx context.Context, st model.ConversationState, raw string) (model.ConversationState, []model.Message) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return st, nil
	}
	lowered := strings.ToLower(trimmed)

	if lang, ok := intent.LanguageSwitch(lowered); ok {
		next, msg := c.SetLanguage(st, lang)
		c.track("language_switch", next)
		return next, []model.Message{msg}
	}

	st.Language = intent.DetectLanguage(trimmed, st.Language, st.LanguagePinned)

	// Slot pendente tem prioridade sobre qualquer classificação
	if st.PendingSlot != model.SlotNone {
		route := "slot_" + string(st.PendingSlot)
		step := c.dialogue.Advance(st, trimmed)
		c.track(route, step.State)
		if !step.Dispatch {
			return step.State, step.Messages
		}
		msgs := append(step.Messages, c.gateway.Request(ctx, step.State)...)
		return step.State.ResetQuote(), msgs
	}

	res := c.classifier.Classify(trimmed)
	c.track(string(res.Intent), st)

	switch res.Intent {
	case intent.IntentGreeting:
		return st, c.say(st, config.MsgGreeting)
	case intent.IntentThanks:
		return st, c.say(st, config.MsgThanks)
	case intent.IntentQuote:
		step := c.dialogue.Start(st, model.ServiceStandard)
		return step.State, step.Messages
	case intent.IntentSerenade:
		step := c.dialogue.Start(st, model.ServiceSerenade)
		return step.State, step.Messages
	case intent.IntentFAQ:
		return st, []model.Message{{
			Text:      res.FAQ.Response.Resolve(st.Language),
			AllowHTML: res.FAQ.AllowHTML,
		}}
	}
	return st, c.say(st, config.MsgFallback)
}

// SetLanguage fixa o idioma (pedido explícito ou botão de idioma) e confirma no novo idioma.
func (c *Controller) SetLanguage(st model.ConversationState, lang model.Language) (model.ConversationState, model.Message) {
	st.Language = model.ParseLanguage(string(lang))
	st.LanguagePinned = true

	id := config.MsgLanguageSetEnglish
	if st.Language == model.LangES {
		id = config.MsgLanguageSetSpanish
	}
	return st, model.TextMessage(c.bot.Message(id, st.Language))
}

// Greeting é a saudação bilíngue exibida ao montar o widget.
func (c *Controller) Greeting() model.Message {
	greeting := c.bot.Text(config.MsgGreeting)
	var sb strings.Builder
	for _, lang := range []model.Language{model.LangEN, model.LangES} {
		sb.WriteString(`<div class="chatbot-greeting"><span class="chatbot-lang-badge">`)
		sb.WriteString(strings.ToUpper(string(lang)))
		sb.WriteString(`</span><span>`)
		sb.WriteString(html.EscapeString(greeting.Resolve(lang)))
		sb.WriteString(`</span></div>`)
	}
	return model.HTMLMessage(sb.String())
}

func (c *Controller) say(st model.ConversationState, id string) []model.Message {
	return []model.Message{model.TextMessage(c.bot.Message(id, st.Language))}
}

func (c *Controller) track(route string, st model.ConversationState) {
	observability.TurnsTotal.WithLabelValues(route).Inc()
	c.log.Debug().
		Str("route", route).
		Str("pending_slot", string(st.PendingSlot)).
		Str("language", string(st.Language)).
		Bool("language_pinned", st.LanguagePinned).
		Msg("turn handled")
}
