package ai

import (
	"regexp"
	"sort"
	"strings"
)

// Emotion categories detected in customer messages.
const (
	EmotionPositive = "positive"
	EmotionNegative = "negative"
	EmotionUrgent   = "urgent"
	EmotionConfused = "confused"
)

var emotionVocabulary = map[string][]string{
	EmotionPositive: {
		"спасибо", "отлично", "супер", "круто", "классно", "прекрасно",
		"замечательно", "великолепно", "❤️", "😊", "👍", "нравится",
		"доволен", "рад", "счастлив",
	},
	EmotionNegative: {
		"плохо", "ужасно", "отвратительно", "недоволен", "разочарован",
		"жаль", "жалко", "грустно", "😞", "👎", "не нравится", "ненавижу",
		"отстой", "ужас",
	},
	EmotionUrgent: {
		"срочно", "быстрее", "немедленно", "сейчас", "скорее", "спешу",
		"успеть", "сегодня", "как можно быстрее", "⚡️",
	},
	EmotionConfused: {
		"не понимаю", "непонятно", "как это", "что это", "зачем",
		"почему", "🤔", "странно", "сложно",
	},
}

// Negative and urgent signals outrank positive ones when picking a tone.
var emotionWeights = map[string]float64{
	EmotionPositive: 1.0,
	EmotionNegative: 1.2,
	EmotionUrgent:   1.5,
	EmotionConfused: 0.8,
}

var (
	highIntensityPatterns = []*regexp.Regexp{
		regexp.MustCompile(`очень\s+\pL+`),
		regexp.MustCompile(`крайне\s+\pL+`),
		regexp.MustCompile(`сильно\s+\pL+`),
		regexp.MustCompile(`!!+`),
		regexp.MustCompile(`(?i)ОЧЕНЬ`),
		regexp.MustCompile(`(?i)СРОЧНО`),
	}
	lowIntensityPatterns = []*regexp.Regexp{
		regexp.MustCompile(`немного\s+\pL+`),
		regexp.MustCompile(`слегка\s+\pL+`),
		regexp.MustCompile(`чуть\s+\pL+`),
		regexp.MustCompile(`возможно`),
		regexp.MustCompile(`наверное`),
		regexp.MustCompile(`может быть`),
	}
	emotionWhitespaceRe = regexp.MustCompile(`\s+`)
)

// EmotionAnalysis summarizes the emotional signals of one message.
type EmotionAnalysis struct {
	Scores          map[string]float64
	Dominant        []string
	Intensity       float64
	Recommendations []string
}

// AnalyzeEmotion scores a message against the emotion vocabularies. Each
// matched keyword adds its category weight; intensity markers scale the
// result up to a factor of two. Dominant categories are those scoring at
// least half of the maximum.
func AnalyzeEmotion(text string) EmotionAnalysis {
	processed := emotionWhitespaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(text)), " ")

	intensity := 1.0
	for _, re := range highIntensityPatterns {
		if re.MatchString(processed) {
			intensity *= 1.5
		}
	}
	for _, re := range lowIntensityPatterns {
		if re.MatchString(processed) {
			intensity *= 0.7
		}
	}
	if intensity > 2.0 {
		intensity = 2.0
	}

	scores := make(map[string]float64, len(emotionVocabulary))
	for emotion, keywords := range emotionVocabulary {
		score := 0.0
		for _, kw := range keywords {
			if strings.Contains(processed, kw) {
				score += emotionWeights[emotion]
			}
		}
		scores[emotion] = score * intensity
	}

	maxScore := 0.0
	for _, s := range scores {
		if s > maxScore {
			maxScore = s
		}
	}

	var dominant []string
	if maxScore > 0 {
		for emotion, s := range scores {
			if s >= maxScore*0.5 {
				dominant = append(dominant, emotion)
			}
		}
		sort.Strings(dominant)
	}

	return EmotionAnalysis{
		Scores:          scores,
		Dominant:        dominant,
		Intensity:       intensity,
		Recommendations: recommendations(dominant),
	}
}

// PromptNote renders the analysis as a tone instruction for the system
// prompt. Empty when no emotion was detected.
func (a EmotionAnalysis) PromptNote() string {
	if len(a.Recommendations) == 0 || len(a.Dominant) == 0 {
		return ""
	}
	return "Эмоциональный фон клиента: " + strings.Join(a.Dominant, ", ") +
		". Рекомендации: " + strings.Join(a.Recommendations, "; ") + "."
}

func recommendations(dominant []string) []string {
	var recs []string
	for _, emotion := range dominant {
		switch emotion {
		case EmotionNegative:
			recs = append(recs, "Проявить особое внимание и эмпатию", "Предложить альтернативные варианты")
		case EmotionUrgent:
			recs = append(recs, "Ускорить обработку запроса", "Предложить экспресс-варианты")
		case EmotionConfused:
			recs = append(recs, "Дать более подробное объяснение", "Использовать простые формулировки")
		case EmotionPositive:
			recs = append(recs, "Поддержать позитивный настрой", "Предложить дополнительные опции")
		}
	}
	if len(recs) == 0 {
		recs = append(recs, "Использовать нейтральный тон")
	}
	return recs
}
