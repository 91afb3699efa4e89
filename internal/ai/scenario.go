package ai

import "strings"

// Scenario is the conversational intent of a customer message, used to pick
// the guidance block of the system prompt.
type Scenario string

const (
	ScenarioOrder        Scenario = "order"
	ScenarioAvailability Scenario = "availability"
	ScenarioFAQ          Scenario = "faq"
	ScenarioGeneral      Scenario = "general"
)

// Ordered rule table; the first list with a match wins. Order keywords come
// first so a priced order request is still treated as an order.
var scenarioKeywords = []struct {
	scenario Scenario
	keywords []string
}{
	{ScenarioOrder, []string{
		"заказать", "заказ", "оформить", "купить", "доставить", "доставка",
		"привезти", "курьер", "хочу букет",
	}},
	{ScenarioAvailability, []string{
		"есть ли", "в наличии", "наличие", "какие", "сколько стоит",
		"сколько стоят", "цена", "цены", "почем", "ассортимент",
	}},
	{ScenarioFAQ, []string{
		"работаете", "режим работы", "график", "до скольки", "со скольки",
		"где находится", "адрес", "как добраться", "оплата", "как оплатить",
		"самовывоз", "контакт", "телефон",
	}},
}

var scenarioGuidance = map[Scenario]string{
	ScenarioOrder: "Клиент хочет оформить заказ. Уточни состав букета, дату и " +
		"адрес доставки, затем предложи подтвердить заказ у менеджера.",
	ScenarioAvailability: "Клиент спрашивает о наличии и ценах. Отвечай строго по " +
		"актуальному ассортименту, называй цену и количество в наличии.",
	ScenarioFAQ: "Клиент задает общий вопрос о магазине. Отвечай по информации " +
		"из базы знаний, не придумывай детали.",
	ScenarioGeneral: "",
}

// DetectScenario maps a message to an intent by substring lookup against the
// rule table.
func DetectScenario(text string) Scenario {
	lower := strings.ToLower(text)
	for _, rule := range scenarioKeywords {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.scenario
			}
		}
	}
	return ScenarioGeneral
}

// Replies containing any of these admissions get escalated to the knowledge
// document's review section.
var uncertaintyPhrases = []string{
	"не знаю",
	"не могу ответить",
	"нет информации",
	"не нашел информации",
	"не нашла информации",
	"затрудняюсь ответить",
	"не располагаю",
	"уточните у менеджера",
	"обратитесь к менеджеру",
}

// SoundsUncertain reports whether a generated reply admits it could not
// answer the question.
func SoundsUncertain(reply string) bool {
	lower := strings.ToLower(reply)
	for _, phrase := range uncertaintyPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
