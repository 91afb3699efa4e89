package knowledge_test

import (
	"reflect"
	"testing"

	"github.com/cvetykz/flowerbot/internal/knowledge"
)

func TestParseSections(t *testing.T) {
	t.Parallel()

	doc := `# База знаний Cvety.kz
Общее описание магазина.

## Доставка
Доставка по городу 2000 тенге.
Бесплатно от 20000 тенге.

### Зоны доставки
Центр и ближние районы.

## Оплата
Принимаем Kaspi и наличные.
`

	sections := knowledge.ParseSections(doc)

	if len(sections) != 4 {
		t.Fatalf("expected 4 sections, got %d", len(sections))
	}

	testCases := []struct {
		name          string
		index         int
		expectedTitle string
		expectedLevel int
		expectedPath  []string
	}{
		{
			name:          "root section",
			index:         0,
			expectedTitle: "# База знаний Cvety.kz",
			expectedLevel: 1,
			expectedPath:  []string{"# База знаний Cvety.kz"},
		},
		{
			name:          "delivery section",
			index:         1,
			expectedTitle: "## Доставка",
			expectedLevel: 2,
			expectedPath:  []string{"# База знаний Cvety.kz", "## Доставка"},
		},
		{
			name:          "nested zones section",
			index:         2,
			expectedTitle: "### Зоны доставки",
			expectedLevel: 3,
			expectedPath:  []string{"# База знаний Cvety.kz", "## Доставка", "### Зоны доставки"},
		},
		{
			name:          "payment pops nested path",
			index:         3,
			expectedTitle: "## Оплата",
			expectedLevel: 2,
			expectedPath:  []string{"# База знаний Cvety.kz", "## Оплата"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s := sections[tc.index]
			if s.Title != tc.expectedTitle {
				t.Errorf("title: expected %q, got %q", tc.expectedTitle, s.Title)
			}
			if s.Level != tc.expectedLevel {
				t.Errorf("level: expected %d, got %d", tc.expectedLevel, s.Level)
			}
			if !reflect.DeepEqual(s.Path, tc.expectedPath) {
				t.Errorf("path: expected %v, got %v", tc.expectedPath, s.Path)
			}
		})
	}
}

func TestParseSectionsDropsEmpty(t *testing.T) {
	t.Parallel()

	doc := "# Заголовок\n## Пустая секция\n## Секция с текстом\nТекст.\n"

	sections := knowledge.ParseSections(doc)

	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].Title != "## Секция с текстом" {
		t.Errorf("unexpected section kept: %q", sections[0].Title)
	}
}
