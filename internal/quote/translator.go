package quote

import (
	"context"
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"quotebot/internal/model"
)

// Translator traduz mensagens livres do servidor. Qualquer erro faz o gateway usar o
// texto original.
type Translator interface {
	Translate(ctx context.Context, text string, target model.Language) (string, error)
}

// OpenAITranslator é uma alternativa ao endpoint /translate, com o mesmo contrato.
type OpenAITranslator struct {
	client *openai.Client
	model  string
}

func NewOpenAITranslator(client *openai.Client, model string) *OpenAITranslator {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAITranslator{client: client, model: model}
}

var languageNames = map[model.Language]string{
	model.LangEN: "English",
	model.LangES: "Spanish",
}

func (t *OpenAITranslator) Translate(ctx context.Context, text string, target model.Language) (string, error) {
	resp, err := t.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: t.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role: openai.ChatMessageRoleSystem,
					Content: "Translate the user's text to " + languageNames[target] +
						". Reply with the translation only, keep numbers and prices unchanged.",
				},
				{Role: openai.ChatMessageRoleUser, Content: text},
			},
			Temperature: 0.0,
		},
	)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty translation")
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", errors.New("empty translation")
	}
	return out, nil
}
