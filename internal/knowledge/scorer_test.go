package knowledge_test

import (
	"strings"
	"testing"

	"github.com/cvetykz/flowerbot/internal/knowledge"
)

const testDoc = `# База знаний Cvety.kz
Магазин цветов в Алматы.

## Доставка
Доставка по городу 2000 тенге.
Бесплатно от 20000 тенге.

## Оплата
Принимаем Kaspi и наличные.
`

func TestSelectRelevantPicksMatchingSection(t *testing.T) {
	t.Parallel()

	sections := knowledge.ParseSections(testDoc)

	result := knowledge.SelectRelevant("сколько стоит доставка", sections, 2)

	if !strings.HasPrefix(result, "Доставка:") {
		t.Errorf("expected delivery section first, got:\n%s", result)
	}
	if !strings.Contains(result, "2000 тенге") {
		t.Errorf("expected delivery price in result, got:\n%s", result)
	}
}

func TestSelectRelevantNoMatch(t *testing.T) {
	t.Parallel()

	sections := knowledge.ParseSections(testDoc)

	result := knowledge.SelectRelevant("абракадабра", sections, 2)

	if result != knowledge.NoRelevantInfo {
		t.Errorf("expected no-match sentinel, got:\n%s", result)
	}
}

func TestSelectRelevantSkipsTrainingSections(t *testing.T) {
	t.Parallel()

	doc := `# База знаний
Общее описание.

## Примеры диалогов
Клиент спрашивает про доставку, курьер привозит доставку.

## Оплата
Kaspi терминал.
`
	sections := knowledge.ParseSections(doc)

	result := knowledge.SelectRelevant("доставка", sections, 2)

	if strings.Contains(result, "курьер привозит") {
		t.Errorf("training dialogue section must be excluded, got:\n%s", result)
	}
}

func TestSelectRelevantDeduplicatesLines(t *testing.T) {
	t.Parallel()

	doc := `# База знаний
Общее описание.

## Доставка
Доставка по городу 2000 тенге.

## Условия доставки
Доставка по городу 2000 тенге.
Курьер звонит за час.
`
	sections := knowledge.ParseSections(doc)

	result := knowledge.SelectRelevant("доставка курьер", sections, 2)

	if strings.Count(result, "2000 тенге") != 1 {
		t.Errorf("expected duplicated line exactly once, got:\n%s", result)
	}
}

func TestSelectRelevantTieKeepsDocumentOrder(t *testing.T) {
	t.Parallel()

	// Both sections score identically for the query: one content match,
	// no title or path matches, same token count, same heading depth.
	doc := `# База знаний
## Каталог
### Весенние букеты
Тюльпаны желтые стоят 2000 тенге
### Праздничные букеты
Тюльпаны красные стоят 2500 тенге
`
	sections := knowledge.ParseSections(doc)

	result := knowledge.SelectRelevant("тюльпаны", sections, 2)

	first := strings.Index(result, "Весенние букеты")
	second := strings.Index(result, "Праздничные букеты")
	if first == -1 || second == -1 {
		t.Fatalf("expected both tied sections in result, got:\n%s", result)
	}
	if first > second {
		t.Errorf("tied sections must keep document order, got:\n%s", result)
	}

	// Swapping the sections in the document must swap the output order.
	swapped := `# База знаний
## Каталог
### Праздничные букеты
Тюльпаны красные стоят 2500 тенге
### Весенние букеты
Тюльпаны желтые стоят 2000 тенге
`
	result = knowledge.SelectRelevant("тюльпаны", knowledge.ParseSections(swapped), 2)

	if strings.Index(result, "Праздничные букеты") > strings.Index(result, "Весенние букеты") {
		t.Errorf("tied sections must follow the swapped document order, got:\n%s", result)
	}
}

func TestSelectRelevantLimitsSections(t *testing.T) {
	t.Parallel()

	sections := knowledge.ParseSections(testDoc)

	result := knowledge.SelectRelevant("сколько стоит доставка", sections, 1)

	if strings.Contains(result, "Оплата:") {
		t.Errorf("expected a single section, got:\n%s", result)
	}
}
