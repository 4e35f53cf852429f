package model

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Text é um texto bilíngue. No YAML aceita tanto {en, es} quanto uma string simples,
// que vale para os dois idiomas.
type Text struct {
	EN string `json:"en,omitempty" yaml:"en"`
	ES string `json:"es,omitempty" yaml:"es"`
}

// Resolve devolve o texto no idioma pedido, caindo para o outro idioma se estiver vazio.
func (t Text) Resolve(lang Language) string {
	if lang == LangES {
		if t.ES != "" {
			return t.ES
		}
		return t.EN
	}
	if t.EN != "" {
		return t.EN
	}
	return t.ES
}

func (t Text) IsZero() bool {
	return t.EN == "" && t.ES == ""
}

func (t *Text) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*t = Text{EN: s, ES: s}
		return nil
	case yaml.MappingNode:
		var raw struct {
			EN string `yaml:"en"`
			ES string `yaml:"es"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		*t = Text{EN: raw.EN, ES: raw.ES}
		return nil
	}
	return fmt.Errorf("line %d: bilingual text must be a string or {en, es}", node.Line)
}

// Message é uma resposta do bot pronta para a camada de apresentação.
type Message struct {
	Text      string `json:"text"`
	AllowHTML bool   `json:"allow_html"`
	// Transient marca avisos intermediários ("calculando...") que a UI pode substituir.
	Transient bool `json:"transient,omitempty"`
}

func TextMessage(text string) Message {
	return Message{Text: text}
}

func HTMLMessage(text string) Message {
	return Message{Text: text, AllowHTML: true}
}
