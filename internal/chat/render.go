package chat

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"quotebot/internal/model"
)

var lineBreak = regexp.MustCompile(`(?i)<br\s*/?>`)

// PlainText converte uma resposta HTML do bot em texto para o terminal: <br> vira
// quebra de linha e links mostram o destino entre parênteses.
func PlainText(msg model.Message) string {
	if !msg.AllowHTML {
		return msg.Text
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(lineBreak.ReplaceAllString(msg.Text, "\n")))
	if err != nil {
		return msg.Text
	}

	doc.Find(".chatbot-lang-badge").Each(func(_ int, s *goquery.Selection) {
		s.SetText("[" + s.Text() + "] ")
	})
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok && href != "" {
			s.SetText(s.Text() + " (" + href + ")")
		}
	})
	doc.Find("div").Each(func(_ int, s *goquery.Selection) {
		s.SetText(s.Text() + "\n")
	})

	lines := strings.Split(doc.Text(), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
