package intent

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Matches verifica se keyword aparece em text como termo inteiro, sem diferenciar
// maiúsculas. Letras e números Unicode contam como parte da palavra, então "rate"
// não casa dentro de "desperate" e "cancion" não casa dentro de "canciones".
func Matches(text, keyword string) bool {
	needle := strings.ToLower(strings.TrimSpace(keyword))
	if needle == "" {
		return false
	}
	haystack := strings.ToLower(text)

	for offset := 0; offset <= len(haystack)-len(needle); {
		idx := strings.Index(haystack[offset:], needle)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(needle)
		if boundaryBefore(haystack, start) && boundaryAfter(haystack, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(haystack[start:])
		offset = start + size
	}
	return false
}

// HasPrefixWord verifica se text começa com phrase seguida de fim ou separador.
func HasPrefixWord(text, phrase string) bool {
	text = strings.ToLower(text)
	phrase = strings.ToLower(phrase)
	if phrase == "" || !strings.HasPrefix(text, phrase) {
		return false
	}
	return boundaryAfter(text, len(phrase))
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

func matchesAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if Matches(text, k) {
			return true
		}
	}
	return false
}

func hasPrefixAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if HasPrefixWord(text, p) {
			return true
		}
	}
	return false
}
