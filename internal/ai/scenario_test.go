package ai_test

import (
	"testing"

	"github.com/cvetykz/flowerbot/internal/ai"
)

func TestDetectScenario(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want ai.Scenario
	}{
		{"availability question", "Какие розы у вас есть?", ai.ScenarioAvailability},
		{"price question", "Сколько стоят лилии?", ai.ScenarioAvailability},
		{"order request", "Хочу заказать букет", ai.ScenarioOrder},
		{"delivery request", "Можете доставить цветы?", ai.ScenarioOrder},
		{"working hours", "До скольки вы работаете?", ai.ScenarioFAQ},
		{"location", "Где находится магазин?", ai.ScenarioFAQ},
		{"order wins over price", "Хочу заказать букет, сколько стоит?", ai.ScenarioOrder},
		{"no keywords", "Спасибо большое!", ai.ScenarioGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ai.DetectScenario(tt.text); got != tt.want {
				t.Errorf("DetectScenario(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestSoundsUncertain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		reply string
		want  bool
	}{
		{"admits ignorance", "К сожалению, я не знаю ответа на этот вопрос.", true},
		{"no information", "У меня нет информации о подписке на букеты.", true},
		{"redirects to manager", "Обратитесь к менеджеру для уточнения деталей.", true},
		{"uppercase phrase", "НЕ МОГУ ОТВЕТИТЬ на этот вопрос.", true},
		{"confident answer", "Розы стоят 1500 тенге, в наличии 20 штук.", false},
		{"empty reply", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ai.SoundsUncertain(tt.reply); got != tt.want {
				t.Errorf("SoundsUncertain(%q) = %v, want %v", tt.reply, got, tt.want)
			}
		})
	}
}
