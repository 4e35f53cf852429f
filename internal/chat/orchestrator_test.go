package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotebot/internal/config"
	"quotebot/internal/model"
	"quotebot/internal/quote"
)

func testBot() *config.Bot {
	bot := config.DefaultBot()
	bot.FAQEntries = []config.FAQEntry{
		{
			Keywords: []string{"services", "what do you offer", "servicios"},
			Response: model.Text{EN: "We provide live music.", ES: "Ofrecemos musica en vivo."},
		},
		{
			Keywords: []string{"hours", "open", "horario"},
			Response: model.Text{EN: "We answer inquiries daily from 9am to 8pm."},
		},
		{
			Keywords:  []string{"book", "booking"},
			Response:  model.Text{EN: `Use the <a href="/booking.html">booking page</a>.`},
			AllowHTML: true,
		},
	}
	return bot
}

func newTestController(bot *config.Bot, client *quote.Client) *Controller {
	return NewController(bot, quote.NewGateway(bot, client), zerolog.Nop())
}

func texts(msgs []model.Message) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Text)
	}
	return out
}

func TestHandleTurn_QuoteIntentStartsDialogue(t *testing.T) {
	bot := testBot()
	c := newTestController(bot, nil)

	st, msgs := c.HandleTurn(context.Background(), model.NewConversationState(), "how much for a wedding?")
	require.Len(t, msgs, 1)
	assert.Equal(t, bot.Message(config.MsgLocationPrompt, model.LangEN), msgs[0].Text)
	assert.Equal(t, model.SlotLocation, st.PendingSlot)
	assert.Equal(t, model.ServiceStandard, st.ServiceType)
}

func TestHandleTurn_FullFlowWithoutServiceIsUnavailable(t *testing.T) {
	bot := testBot()
	c := newTestController(bot, nil)
	ctx := context.Background()

	st := model.NewConversationState()
	var msgs []model.Message
	var visited []model.Slot
	for _, in := range []string{"I need a quote", "Austin, TX", "3", "8pm"} {
		st, msgs = c.HandleTurn(ctx, st, in)
		visited = append(visited, st.PendingSlot)
	}

	assert.Equal(t, []model.Slot{model.SlotLocation, model.SlotHours, model.SlotStartTime, model.SlotNone}, visited)
	require.Len(t, msgs, 1)
	assert.Equal(t, bot.Message(config.MsgUnavailable, model.LangEN), msgs[0].Text)
	assert.Equal(t, model.NewConversationState(), st)
}

func TestHandleTurn_SerenadeFlow(t *testing.T) {
	var calls atomic.Int32
	var got model.QuoteRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"routeTo":"quote","rate":300,"estimate":300,"distanceMiles":8.2}`))
	}))
	defer srv.Close()

	bot := testBot()
	c := newTestController(bot, quote.NewClient(srv.URL, time.Second))
	ctx := context.Background()

	st, msgs := c.HandleTurn(ctx, model.NewConversationState(), "price for a serenade")
	assert.Equal(t, model.ServiceSerenade, st.ServiceType)
	assert.Equal(t, bot.Message(config.MsgSerenadeLocationPrompt, model.LangEN), msgs[0].Text)

	st, msgs = c.HandleTurn(ctx, st, "Houston, TX")
	assert.Equal(t, model.SlotNone, st.PendingSlot)
	assert.Equal(t, model.ServiceStandard, st.ServiceType)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, model.QuoteRequest{Location: "Houston, TX", Hours: "1", ServiceType: "serenade"}, got)

	require.Len(t, msgs, 2)
	assert.True(t, msgs[0].Transient)
	assert.Contains(t, msgs[1].Text, "<strong>Distance:</strong> 8.2 mi")
}

func TestHandleTurn_ServiceErrorResetsDialogue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestController(testBot(), quote.NewClient(srv.URL, time.Second))
	st := model.NewConversationState()
	st.PendingSlot = model.SlotStartTime
	st.Location = "Austin"
	st.Hours = 2

	st, msgs := c.HandleTurn(context.Background(), st, "not sure")
	assert.Equal(t, model.SlotNone, st.PendingSlot)
	assert.Empty(t, st.Location)
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[1].Text, "Sorry, I could not calculate that.")
}

func TestHandleTurn_SlotFillingBeatsClassification(t *testing.T) {
	bot := testBot()
	c := newTestController(bot, nil)
	ctx := context.Background()

	st := model.NewConversationState()
	st.PendingSlot = model.SlotHours

	// "hours" é palavra-chave de FAQ, mas a resposta vale como horas
	next, msgs := c.HandleTurn(ctx, st, "3 hours")
	assert.Equal(t, model.SlotStartTime, next.PendingSlot)
	assert.Equal(t, 3.0, next.Hours)
	assert.Equal(t, bot.Message(config.MsgStartTimePrompt, model.LangEN), msgs[0].Text)

	next, msgs = c.HandleTurn(ctx, st, "what are your hours?")
	assert.Equal(t, model.SlotHours, next.PendingSlot)
	assert.Equal(t, bot.Message(config.MsgHoursFormatHint, model.LangEN), msgs[0].Text)

	// um local com palavra-chave de orçamento continua sendo o local
	st.PendingSlot = model.SlotLocation
	next, _ = c.HandleTurn(ctx, st, "Rate Street, open plaza")
	assert.Equal(t, "Rate Street, open plaza", next.Location)
	assert.Equal(t, model.SlotHours, next.PendingSlot)
}

func TestHandleTurn_HoursRetryKeepsState(t *testing.T) {
	bot := testBot()
	c := newTestController(bot, nil)

	st := model.NewConversationState()
	st.PendingSlot = model.SlotHours
	st.Location = "Austin"

	next, msgs := c.HandleTurn(context.Background(), st, "abc")
	assert.Equal(t, st, next)
	assert.Equal(t, []string{bot.Message(config.MsgHoursFormatHint, model.LangEN)}, texts(msgs))
}

func TestHandleTurn_NegationAbortsLocation(t *testing.T) {
	bot := testBot()
	c := newTestController(bot, nil)

	st, _ := c.HandleTurn(context.Background(), model.NewConversationState(), "quote")
	st, msgs := c.HandleTurn(context.Background(), st, "nope")
	assert.Equal(t, model.SlotNone, st.PendingSlot)
	assert.Equal(t, []string{bot.Message(config.MsgNoProblem, model.LangEN)}, texts(msgs))
}

func TestHandleTurn_LanguagePinning(t *testing.T) {
	bot := testBot()
	c := newTestController(bot, nil)
	ctx := context.Background()

	st, msgs := c.HandleTurn(ctx, model.NewConversationState(), "Spanish please")
	assert.Equal(t, model.LangES, st.Language)
	assert.True(t, st.LanguagePinned)
	assert.Equal(t, []string{"Idioma cambiado a espanol."}, texts(msgs))

	// detecção suspensa: inglês continua respondendo em espanhol
	st, msgs = c.HandleTurn(ctx, st, "thank you")
	assert.Equal(t, model.LangES, st.Language)
	assert.Equal(t, []string{bot.Message(config.MsgThanks, model.LangES)}, texts(msgs))

	st, msgs = c.HandleTurn(ctx, st, "english")
	assert.Equal(t, model.LangEN, st.Language)
	assert.True(t, st.LanguagePinned)
	assert.Equal(t, []string{"Language set to English."}, texts(msgs))

	st, _ = c.HandleTurn(ctx, st, "¡Hola! ¿Cuánto cuesta?")
	assert.Equal(t, model.LangEN, st.Language)
}

func TestHandleTurn_AutoDetectsLanguage(t *testing.T) {
	bot := testBot()
	c := newTestController(bot, nil)
	ctx := context.Background()

	st, msgs := c.HandleTurn(ctx, model.NewConversationState(), "hola")
	assert.Equal(t, model.LangES, st.Language)
	assert.False(t, st.LanguagePinned)
	assert.Equal(t, []string{bot.Message(config.MsgGreeting, model.LangES)}, texts(msgs))

	st, _ = c.HandleTurn(ctx, st, "hello")
	assert.Equal(t, model.LangEN, st.Language)
}

func TestHandleTurn_LanguageSwitchDuringSlotKeepsSlot(t *testing.T) {
	c := newTestController(testBot(), nil)

	st := model.NewConversationState()
	st.PendingSlot = model.SlotLocation
	st, msgs := c.HandleTurn(context.Background(), st, "español")
	assert.Equal(t, model.SlotLocation, st.PendingSlot)
	assert.Empty(t, st.Location)
	assert.Len(t, msgs, 1)
}

func TestHandleTurn_Intents(t *testing.T) {
	bot := testBot()
	c := newTestController(bot, nil)
	ctx := context.Background()
	st := model.NewConversationState()

	_, msgs := c.HandleTurn(ctx, st, "Hello!")
	assert.Equal(t, bot.Message(config.MsgGreeting, model.LangEN), msgs[0].Text)

	_, msgs = c.HandleTurn(ctx, st, "thanks")
	assert.Equal(t, bot.Message(config.MsgThanks, model.LangEN), msgs[0].Text)

	_, msgs = c.HandleTurn(ctx, st, "What do you offer?")
	assert.Equal(t, "We provide live music.", msgs[0].Text)
	assert.False(t, msgs[0].AllowHTML)

	_, msgs = c.HandleTurn(ctx, st, "can I book online")
	assert.True(t, msgs[0].AllowHTML)

	_, msgs = c.HandleTurn(ctx, st, "tell me a joke")
	assert.Equal(t, bot.Message(config.MsgFallback, model.LangEN), msgs[0].Text)

	// orçamento vence FAQ na mesma frase
	next, _ := c.HandleTurn(ctx, st, "what are your hours and price")
	assert.Equal(t, model.SlotLocation, next.PendingSlot)
}

func TestHandleTurn_EmptyInput(t *testing.T) {
	c := newTestController(testBot(), nil)
	st := model.NewConversationState()
	st.PendingSlot = model.SlotHours

	next, msgs := c.HandleTurn(context.Background(), st, "   ")
	assert.Equal(t, st, next)
	assert.Empty(t, msgs)
}

func TestSetLanguage(t *testing.T) {
	c := newTestController(testBot(), nil)

	st, msg := c.SetLanguage(model.NewConversationState(), model.LangES)
	assert.Equal(t, model.LangES, st.Language)
	assert.True(t, st.LanguagePinned)
	assert.Equal(t, "Idioma cambiado a espanol.", msg.Text)
}

func TestGreeting(t *testing.T) {
	bot := testBot()
	bot.Strings[config.MsgGreeting] = model.Text{EN: "Hi <you>", ES: "Hola"}
	c := newTestController(bot, nil)

	msg := c.Greeting()
	assert.True(t, msg.AllowHTML)
	assert.Equal(t,
		`<div class="chatbot-greeting"><span class="chatbot-lang-badge">EN</span><span>Hi &lt;you&gt;</span></div>`+
			`<div class="chatbot-greeting"><span class="chatbot-lang-badge">ES</span><span>Hola</span></div>`,
		msg.Text)
}
