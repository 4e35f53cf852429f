package intent

import (
	"strings"

	"quotebot/internal/config"
)

type Intent string

const (
	IntentGreeting Intent = "greeting"
	IntentThanks   Intent = "thanks"
	IntentQuote    Intent = "quote"
	IntentSerenade Intent = "serenade"
	IntentFAQ      Intent = "faq"
	IntentFallback Intent = "fallback"
)

var (
	greetingPhrases = []string{"hi", "hello", "hey", "hola", "buenas", "buenos dias", "buenas tardes", "buenas noches"}
	thanksPhrases   = []string{"thanks", "thank you", "gracias", "thx"}
	negativePhrases = []string{"no", "nope", "nah", "not now", "no gracias"}
	notSurePhrases  = []string{"not sure", "unsure", "idk", "i do not know", "i don't know", "no se", "no sé"}
)

// Result é o resultado da classificação. FAQ só é preenchido para IntentFAQ.
type Result struct {
	Intent Intent
	FAQ    *config.FAQEntry
}

// Rule é uma regra da lista ordenada. A primeira regra que casar decide a intenção.
type Rule struct {
	Name  Intent
	Match func(text string) (Result, bool)
}

type Classifier struct {
	quoteKeywords    []string
	serenadeKeywords []string
	faq              []config.FAQEntry
	rules            []Rule
}

func NewClassifier(bot *config.Bot) *Classifier {
	c := &Classifier{
		quoteKeywords:    bot.QuoteKeywords,
		serenadeKeywords: bot.SerenadeKeywords,
		faq:              bot.FAQEntries,
	}
	// A ordem importa: empate é resolvido pela posição na lista, nunca por especificidade.
	c.rules = []Rule{
		{Name: IntentGreeting, Match: c.matchGreeting},
		{Name: IntentThanks, Match: c.matchThanks},
		{Name: IntentQuote, Match: c.matchQuote},
		{Name: IntentFAQ, Match: c.matchFAQ},
	}
	return c
}

// Classify avalia as regras em ordem sobre a frase já sem espaços nas pontas.
func (c *Classifier) Classify(text string) Result {
	lowered := strings.ToLower(strings.TrimSpace(text))
	for _, rule := range c.rules {
		if res, ok := rule.Match(lowered); ok {
			return res
		}
	}
	return Result{Intent: IntentFallback}
}

func (c *Classifier) Rules() []Rule {
	return c.rules
}

func (c *Classifier) matchGreeting(text string) (Result, bool) {
	return Result{Intent: IntentGreeting}, IsGreeting(text)
}

func (c *Classifier) matchThanks(text string) (Result, bool) {
	return Result{Intent: IntentThanks}, IsThanks(text)
}

func (c *Classifier) matchQuote(text string) (Result, bool) {
	if !c.IsQuote(text) {
		return Result{}, false
	}
	// serenata vence quando as duas listas casam
	if c.IsSerenade(text) {
		return Result{Intent: IntentSerenade}, true
	}
	return Result{Intent: IntentQuote}, true
}

func (c *Classifier) matchFAQ(text string) (Result, bool) {
	entry := c.FindFAQ(text)
	if entry == nil {
		return Result{}, false
	}
	return Result{Intent: IntentFAQ, FAQ: entry}, true
}

func (c *Classifier) IsQuote(text string) bool {
	return matchesAny(text, c.quoteKeywords)
}

func (c *Classifier) IsSerenade(text string) bool {
	return matchesAny(text, c.serenadeKeywords)
}

// FindFAQ devolve a primeira entrada (na ordem configurada) com alguma palavra-chave presente.
func (c *Classifier) FindFAQ(text string) *config.FAQEntry {
	for i := range c.faq {
		if matchesAny(text, c.faq[i].Keywords) {
			return &c.faq[i]
		}
	}
	return nil
}

func IsGreeting(text string) bool {
	return hasPrefixAny(strings.TrimSpace(text), greetingPhrases)
}

func IsThanks(text string) bool {
	return matchesAny(text, thanksPhrases)
}

func IsNegative(text string) bool {
	return hasPrefixAny(strings.TrimSpace(text), negativePhrases)
}

func IsNotSure(text string) bool {
	return matchesAny(text, notSurePhrases)
}
