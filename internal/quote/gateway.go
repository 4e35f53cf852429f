package quote

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"quotebot/internal/config"
	"quotebot/internal/dialogue"
	"quotebot/internal/model"
	"quotebot/internal/observability"
)

// LeadRecorder guarda as tentativas de orçamento concluídas.
type LeadRecorder interface {
	Record(ctx context.Context, lead model.Lead) error
}

// Gateway pede o orçamento ao serviço remoto e transforma a resposta em mensagens.
type Gateway struct {
	bot        *config.Bot
	client     *Client
	translator Translator
	recorder   LeadRecorder
	log        zerolog.Logger
}

type Option func(*Gateway)

func WithTranslator(t Translator) Option {
	return func(g *Gateway) { g.translator = t }
}

func WithRecorder(r LeadRecorder) Option {
	return func(g *Gateway) { g.recorder = r }
}

func WithLogger(log zerolog.Logger) Option {
	return func(g *Gateway) { g.log = observability.Component(log, "quote") }
}

// NewGateway cria o gateway. client nil significa serviço não configurado. Sem tradutor
// explícito o próprio client (/translate) é usado.
func NewGateway(bot *config.Bot, client *Client, opts ...Option) *Gateway {
	g := &Gateway{bot: bot, client: client, log: zerolog.Nop()}
	if client != nil {
		g.translator = client
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// BuildRequest monta o pedido a partir dos slots coletados. Serenata sempre pede 1 hora.
func BuildRequest(st model.ConversationState) model.QuoteRequest {
	req := model.QuoteRequest{
		Location:  st.Location,
		Hours:     dialogue.FormatHours(st.Hours),
		StartTime: st.StartTime,
	}
	if st.ServiceType == model.ServiceSerenade {
		req.Hours = "1"
		req.ServiceType = string(model.ServiceSerenade)
	}
	return req
}

// Request executa o pedido de orçamento e devolve as mensagens do turno. Nunca falha:
// erros viram mensagens para o usuário. O chamador reseta o diálogo em qualquer caso.
func (g *Gateway) Request(ctx context.Context, st model.ConversationState) []model.Message {
	lang := st.Language
	if g.client == nil || g.client.Base() == "" {
		g.finish(ctx, st, model.OutcomeUnavailable, nil)
		return []model.Message{model.TextMessage(g.bot.Message(config.MsgUnavailable, lang))}
	}

	msgs := []model.Message{{
		Text:      g.bot.Message(config.MsgCalculating, lang),
		Transient: true,
	}}

	resp, err := g.client.Quote(ctx, BuildRequest(st))
	if err != nil {
		g.log.Warn().Err(err).Str("service_type", string(st.ServiceType)).Msg("quote request failed")
		g.finish(ctx, st, model.OutcomeError, nil)
		return append(msgs, model.HTMLMessage(apologyReply(g.bot.Links, lang)))
	}

	switch resp.RouteTo {
	case model.RouteContact:
		text := contactReply(g.localize(ctx, lang, resp.Message), g.bot.Links, lang)
		g.finish(ctx, st, model.OutcomeContact, nil)
		return append(msgs, model.HTMLMessage(text))

	case model.RouteQuote:
		text := quoteReply(g.localize(ctx, lang, resp.Message), resp, g.bot.Links, lang)
		g.finish(ctx, st, model.OutcomeQuote, resp.Estimate)
		return append(msgs, model.HTMLMessage(text))
	}

	g.log.Info().Str("route_to", resp.RouteTo).Msg("unknown route from pricing service")
	g.finish(ctx, st, model.OutcomeOther, nil)
	return append(msgs, model.TextMessage(g.bot.Message(config.MsgNoProblem, lang)))
}

// localize traduz mensagens do servidor para espanhol quando necessário. Falha na
// tradução nunca bloqueia a resposta.
func (g *Gateway) localize(ctx context.Context, lang model.Language, msg string) string {
	if lang != model.LangES || msg == "" || g.translator == nil {
		return msg
	}
	translated, err := g.translator.Translate(ctx, msg, model.LangES)
	if err != nil {
		observability.TranslateFallbacks.Inc()
		g.log.Warn().Err(err).Msg("translation failed, using original text")
		return msg
	}
	return translated
}

func (g *Gateway) finish(ctx context.Context, st model.ConversationState, outcome model.Outcome, estimate *float64) {
	observability.QuoteOutcomes.WithLabelValues(string(outcome)).Inc()
	g.log.Info().
		Str("outcome", string(outcome)).
		Str("service_type", string(st.ServiceType)).
		Str("language", string(st.Language)).
		Msg("quote attempt finished")

	if g.recorder == nil {
		return
	}
	req := BuildRequest(st)
	lead := model.Lead{
		ID:          uuid.NewString(),
		Location:    req.Location,
		Hours:       req.Hours,
		StartTime:   req.StartTime,
		ServiceType: st.ServiceType,
		Language:    st.Language,
		Outcome:     outcome,
		Estimate:    estimate,
		CreatedAt:   time.Now().UTC(),
	}
	if err := g.recorder.Record(ctx, lead); err != nil {
		g.log.Error().Err(err).Str("lead_id", lead.ID).Msg("failed to record lead")
	}
}
