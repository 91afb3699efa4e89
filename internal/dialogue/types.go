// Package dialogue tracks per-user conversation history, weighting turns by
// type, recency, and length so the completion prompt carries the parts of the
// conversation that still matter.
package dialogue

import "strings"

// Turn types, from most to least important.
const (
	TypeOrder        = "order"
	TypeQuestion     = "question"
	TypePreference   = "preference"
	TypeConfirmation = "confirmation"
	TypeGreeting     = "greeting"
	TypeDefault      = "default"
)

var typeWeights = map[string]float64{
	TypeOrder:        1.5,
	TypeQuestion:     1.2,
	TypePreference:   1.2,
	TypeConfirmation: 1.1,
	TypeGreeting:     0.5,
	TypeDefault:      1.0,
}

// Classification checks the keyword lists in this order; the first list with
// a substring match wins. Order keywords go first so "как оформить заказ"
// classifies as an order, not a question.
var typeKeywords = []struct {
	turnType string
	keywords []string
}{
	{TypeOrder, []string{
		"заказ", "купить", "оформить", "букет", "розы",
		"доставка", "оплата",
	}},
	{TypeQuestion, []string{
		"как", "где", "когда", "сколько", "почему",
		"какой", "какая", "какие",
	}},
	{TypePreference, []string{
		"нравится", "хочу", "предпочитаю", "люблю",
		"не люблю", "красный", "белый", "розовый",
	}},
	{TypeConfirmation, []string{
		"да", "нет", "подтверждаю", "согласен",
		"хорошо", "ок", "верно",
	}},
	{TypeGreeting, []string{
		"привет", "здравствуйте", "добрый день",
		"доброе утро", "добрый вечер", "пока", "до свидания",
	}},
}

// Words too common to signal topical overlap between two messages.
var stopWords = map[string]struct{}{
	"и": {}, "в": {}, "на": {}, "с": {}, "по": {},
	"к": {}, "у": {}, "о": {}, "за": {},
}

// Classify determines the turn type from the message content.
func Classify(content string) string {
	lower := strings.ToLower(content)
	for _, tk := range typeKeywords {
		for _, kw := range tk.keywords {
			if strings.Contains(lower, kw) {
				return tk.turnType
			}
		}
	}
	return TypeDefault
}

// hasCommonKeywords reports whether two messages share at least one word
// that is not a stop word.
func hasCommonKeywords(a, b string) bool {
	wordsA := strings.Fields(strings.ToLower(a))
	setB := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(b)) {
		setB[w] = struct{}{}
	}

	for _, w := range wordsA {
		if _, stop := stopWords[w]; stop {
			continue
		}
		if _, ok := setB[w]; ok {
			return true
		}
	}
	return false
}
