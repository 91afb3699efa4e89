package knowledge

import "strings"

// category groups the query vocabulary for one topic of the knowledge base.
// Keywords identify the topic directly; related words are weaker signals.
type category struct {
	keywords []string
	related  []string
}

var categories = map[string]category{
	"акции": {
		keywords: []string{"акция", "акции", "скидка", "скидки", "предложение", "специальное", "текущие", "действуют"},
		related:  []string{"бесплатно", "процент", "выгода", "дешевле", "новый", "клиент", "первый"},
	},
	"программа_лояльности": {
		keywords: []string{"программа", "лояльность", "баллы", "бонусы", "накопить", "накопление", "программе"},
		related:  []string{"скидка", "vip", "клиент", "постоянный", "использовать", "потратить"},
	},
	"корпоративные": {
		keywords: []string{"корпоратив", "компания", "фирма", "бизнес", "юридическое", "корпоративный"},
		related:  []string{"документы", "отсрочка", "безнал", "счет", "договор", "менеджер"},
	},
	"контакты": {
		keywords: []string{"контакт", "связь", "позвонить", "написать", "адрес", "контакты"},
		related:  []string{"телефон", "whatsapp", "адрес", "instagram", "почта"},
	},
	"время_работы": {
		keywords: []string{"время", "часы", "работаете", "открыты", "график", "режим"},
		related:  []string{"режим", "выходные", "перерыв", "закрыты", "доставка"},
	},
	"оплата": {
		keywords: []string{"оплата", "платить", "оплатить", "деньги", "kaspi", "каспи"},
		related:  []string{"наличные", "перевод", "счет", "карта", "терминал"},
	},
	"доставка": {
		keywords: []string{"доставка", "привезти", "доставить", "привоз", "курьер"},
		related:  []string{"курьер", "самовывоз", "время", "зона", "бесплатно"},
	},
}

// tokensMatch reports whether either token contains the other. Cheap stemming
// for Russian inflections: "доставка" matches "доставкой" and vice versa.
func tokensMatch(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// matchesAny reports whether word matches any entry of vocab.
func matchesAny(word string, vocab []string) bool {
	for _, v := range vocab {
		if tokensMatch(word, v) {
			return true
		}
	}
	return false
}

// detectQueryCategory picks the category whose vocabulary best covers the
// query words. Keyword matches count double; returns "" when nothing matches.
func detectQueryCategory(queryWords []string) string {
	best := ""
	bestScore := 0

	for name, cat := range categories {
		score := 0
		for _, word := range queryWords {
			if matchesAny(word, cat.keywords) {
				score += 2
			}
			if matchesAny(word, cat.related) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = name
		}
	}
	return best
}

// detectSectionCategory picks the category whose keywords appear most often
// among the section's tokens.
func detectSectionCategory(sectionTokens []string) string {
	best := ""
	bestScore := 0

	for name, cat := range categories {
		score := 0
		for _, kw := range cat.keywords {
			if matchesAny(kw, sectionTokens) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = name
		}
	}
	return best
}
