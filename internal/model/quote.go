package model

import "time"

// QuoteRequest é o corpo enviado para POST {base}/quote.
type QuoteRequest struct {
	Location    string `json:"location"`
	Hours       string `json:"hours"`
	StartTime   string `json:"start_time"`
	ServiceType string `json:"service_type"`
}

const (
	RouteContact = "contact"
	RouteQuote   = "quote"
)

// QuoteResponse é a resposta do serviço de preços. Campos numéricos ausentes (ou null)
// ficam nil e não aparecem no detalhamento.
type QuoteResponse struct {
	RouteTo       string   `json:"routeTo"`
	Message       string   `json:"message,omitempty"`
	Estimate      *float64 `json:"estimate,omitempty"`
	Rate          *float64 `json:"rate,omitempty"`
	DistanceMiles *float64 `json:"distanceMiles,omitempty"`
	MinimumHours  *float64 `json:"minimumHours,omitempty"`
	HoursBilled   *float64 `json:"hoursBilled,omitempty"`
}

type TranslateRequest struct {
	Text       string `json:"text"`
	TargetLang string `json:"target_lang"`
	SourceLang string `json:"source_lang"`
}

type TranslateResponse struct {
	Text string `json:"text"`
}

// Outcome de uma tentativa de orçamento, usado em métricas e leads.
type Outcome string

const (
	OutcomeQuote       Outcome = "quote"
	OutcomeContact     Outcome = "contact"
	OutcomeOther       Outcome = "other"
	OutcomeError       Outcome = "error"
	OutcomeUnavailable Outcome = "unavailable"
)

// Lead registra uma tentativa de orçamento concluída.
type Lead struct {
	ID          string
	Location    string
	Hours       string
	StartTime   string
	ServiceType ServiceType
	Language    Language
	Outcome     Outcome
	Estimate    *float64
	CreatedAt   time.Time
}
