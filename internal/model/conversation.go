package model

type Language string

const (
	LangEN Language = "en"
	LangES Language = "es"
)

// ParseLanguage normaliza um código de idioma; qualquer coisa diferente de "es" vira inglês.
func ParseLanguage(code string) Language {
	if code == string(LangES) {
		return LangES
	}
	return LangEN
}

// Other retorna o outro idioma suportado.
func (l Language) Other() Language {
	if l == LangES {
		return LangEN
	}
	return LangES
}

// Slot é a informação que o diálogo de orçamento está aguardando.
type Slot string

const (
	SlotNone      Slot = ""
	SlotLocation  Slot = "location"
	SlotHours     Slot = "hours"
	SlotStartTime Slot = "start_time"
)

type ServiceType string

const (
	ServiceStandard ServiceType = "standard"
	ServiceSerenade ServiceType = "serenade"
)

// ConversationState é o estado de uma conversa montada. É um valor: cada etapa recebe
// o estado atual e devolve o próximo.
type ConversationState struct {
	PendingSlot    Slot        `json:"pending_slot"`
	ServiceType    ServiceType `json:"service_type"`
	Location       string      `json:"location,omitempty"`
	Hours          float64     `json:"hours,omitempty"`
	StartTime      string      `json:"start_time,omitempty"`
	Language       Language    `json:"language"`
	LanguagePinned bool        `json:"language_pinned"`
}

func NewConversationState() ConversationState {
	return ConversationState{
		PendingSlot: SlotNone,
		ServiceType: ServiceStandard,
		Language:    LangEN,
	}
}

// ResetQuote limpa os slots do orçamento e mantém a escolha de idioma.
func (s ConversationState) ResetQuote() ConversationState {
	return ConversationState{
		PendingSlot:    SlotNone,
		ServiceType:    ServiceStandard,
		Language:       s.Language,
		LanguagePinned: s.LanguagePinned,
	}
}

// Normalize corrige estados carregados de fora (ex: JSON antigo no redis).
func (s ConversationState) Normalize() ConversationState {
	s.Language = ParseLanguage(string(s.Language))
	if s.ServiceType != ServiceSerenade {
		s.ServiceType = ServiceStandard
	}
	switch s.PendingSlot {
	case SlotNone, SlotLocation, SlotHours, SlotStartTime:
	default:
		s.PendingSlot = SlotNone
	}
	return s
}
