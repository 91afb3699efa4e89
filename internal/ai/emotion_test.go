package ai_test

import (
	"strings"
	"testing"

	"github.com/cvetykz/flowerbot/internal/ai"
)

func TestAnalyzeEmotion(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name             string
		text             string
		expectedDominant string
	}{
		{
			name:             "positive",
			text:             "Спасибо, всё отлично!",
			expectedDominant: ai.EmotionPositive,
		},
		{
			name:             "negative",
			text:             "Это ужасно, я недоволен доставкой",
			expectedDominant: ai.EmotionNegative,
		},
		{
			name:             "urgent",
			text:             "Нужен букет срочно, сегодня",
			expectedDominant: ai.EmotionUrgent,
		},
		{
			name:             "confused",
			text:             "Я не понимаю, зачем это нужно",
			expectedDominant: ai.EmotionConfused,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			analysis := ai.AnalyzeEmotion(tc.text)

			found := false
			for _, d := range analysis.Dominant {
				if d == tc.expectedDominant {
					found = true
				}
			}
			if !found {
				t.Errorf("expected dominant emotion %q, got %v", tc.expectedDominant, analysis.Dominant)
			}
		})
	}
}

func TestAnalyzeEmotionNeutral(t *testing.T) {
	t.Parallel()

	analysis := ai.AnalyzeEmotion("Какие цветы есть в наличии")

	if len(analysis.Dominant) != 0 {
		t.Errorf("expected no dominant emotions, got %v", analysis.Dominant)
	}
	if analysis.PromptNote() != "" {
		t.Errorf("expected empty prompt note, got %q", analysis.PromptNote())
	}
}

func TestAnalyzeEmotionIntensity(t *testing.T) {
	t.Parallel()

	calm := ai.AnalyzeEmotion("немного грустно")
	loud := ai.AnalyzeEmotion("ОЧЕНЬ грустно!!!")

	if loud.Intensity <= calm.Intensity {
		t.Errorf("expected higher intensity for emphatic text: calm=%v loud=%v",
			calm.Intensity, loud.Intensity)
	}
	if loud.Scores[ai.EmotionNegative] <= calm.Scores[ai.EmotionNegative] {
		t.Errorf("expected intensity to scale the negative score: calm=%v loud=%v",
			calm.Scores[ai.EmotionNegative], loud.Scores[ai.EmotionNegative])
	}
}

func TestPromptNoteMentionsRecommendations(t *testing.T) {
	t.Parallel()

	analysis := ai.AnalyzeEmotion("Срочно нужен букет!")

	note := analysis.PromptNote()
	if !strings.Contains(note, "urgent") {
		t.Errorf("expected urgent in prompt note, got %q", note)
	}
	if !strings.Contains(note, "экспресс") {
		t.Errorf("expected express recommendation in note, got %q", note)
	}
}
