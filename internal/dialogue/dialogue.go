package dialogue

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"quotebot/internal/config"
	"quotebot/internal/intent"
	"quotebot/internal/model"
)

// Step é o resultado de uma transição. Com Dispatch verdadeiro todos os slots foram
// coletados e o chamador deve pedir o orçamento e depois resetar o estado.
type Step struct {
	State    model.ConversationState
	Messages []model.Message
	Dispatch bool
}

// Dialogue é a máquina de estados de coleta de slots do orçamento:
// NONE -> LOCATION -> HOURS -> START_TIME -> dispatch, ou NONE -> LOCATION -> dispatch
// para serenata.
type Dialogue struct {
	bot *config.Bot
}

func New(bot *config.Bot) *Dialogue {
	return &Dialogue{bot: bot}
}

// Start inicia um novo fluxo de orçamento, descartando qualquer slot anterior.
func (d *Dialogue) Start(st model.ConversationState, service model.ServiceType) Step {
	st = st.ResetQuote()
	st.ServiceType = service
	st.PendingSlot = model.SlotLocation

	prompt := config.MsgLocationPrompt
	if service == model.ServiceSerenade {
		prompt = config.MsgSerenadeLocationPrompt
	}
	return d.reply(st, prompt)
}

// Advance trata a resposta do usuário para o slot pendente.
func (d *Dialogue) Advance(st model.ConversationState, text string) Step {
	text = strings.TrimSpace(text)
	lowered := strings.ToLower(text)

	switch st.PendingSlot {
	case model.SlotLocation:
		if intent.IsNegative(lowered) {
			return d.reply(st.ResetQuote(), config.MsgNoProblem)
		}
		st.Location = text
		st.PendingSlot = model.SlotNone
		if st.ServiceType == model.ServiceSerenade {
			return Step{State: st, Dispatch: true}
		}
		st.PendingSlot = model.SlotHours
		return d.reply(st, config.MsgHoursPrompt)

	case model.SlotHours:
		hours, ok := ParseHours(text)
		if !ok {
			// único ponto de repetição: o estado continua em HOURS
			return d.reply(st, config.MsgHoursFormatHint)
		}
		st.Hours = hours
		st.PendingSlot = model.SlotStartTime
		return d.reply(st, config.MsgStartTimePrompt)

	case model.SlotStartTime:
		if !intent.IsNotSure(lowered) {
			st.StartTime = text
		}
		st.PendingSlot = model.SlotNone
		return Step{State: st, Dispatch: true}
	}

	return Step{State: st}
}

func (d *Dialogue) reply(st model.ConversationState, id string) Step {
	return Step{
		State:    st,
		Messages: []model.Message{model.TextMessage(d.bot.Message(id, st.Language))},
	}
}

var hoursPattern = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)\s*(?:hours|hour|hrs|hr|h|horas|hora)?(?:$|[^\p{L}\p{N}])`)

// ParseHours extrai um número positivo do início da resposta, opcionalmente seguido de
// uma unidade ("2", "2.5", "2 hours", "2h", "3 horas", "2,5").
func ParseHours(raw string) (float64, bool) {
	m := hoursPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(raw)))
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) || v <= 0 {
		return 0, false
	}
	return v, true
}

// FormatHours formata horas para o pedido de orçamento: 2 -> "2", 2.5 -> "2.5".
func FormatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}
