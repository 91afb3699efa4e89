package knowledge

import (
	"sort"
	"strings"
)

// NoRelevantInfo is returned when no section clears the relevance threshold.
const NoRelevantInfo = "Извините, я не нашел релевантной информации по вашему вопросу. Попробуйте переформулировать вопрос или уточнить, что именно вас интересует."

// Unavailable is returned when no document snapshot could be loaded.
const Unavailable = "База знаний временно недоступна"

// Scoring parameters. Tuned on real shop dialogues; treat as a set.
const (
	contentMatchWeight   = 4.0
	titleMatchWeight     = 6.0
	categoryBoost        = 1.5
	categoryKeywordBonus = 3.0
	categoryRelatedBonus = 1.0
	longSectionWords     = 50
	shortSectionBoost    = 1.2
	topLevelPenalty      = 0.8
	exactTitleBoost      = 1.5
	pathMatchBoost       = 0.2
	relevanceThreshold   = 2.0
)

// Sections whose heading path mentions these words hold training dialogues
// and service notes, not customer-facing facts.
var skipPathKeywords = []string{"пример", "диалог", "тест", "обучение", "вопрос"}

// scoredSection pairs a section with its computed relevance.
type scoredSection struct {
	section Section
	score   float64
}

// SelectRelevant scores every section against the query and renders the top
// maxSections as a context block for the completion prompt. Lines repeated
// across the chosen sections appear only once. Returns NoRelevantInfo when
// nothing scores above the threshold.
func SelectRelevant(query string, sections []Section, maxSections int) string {
	query = strings.ToLower(query)
	queryWords := strings.Fields(query)
	queryCategory := detectQueryCategory(queryWords)

	var scored []scoredSection
	for _, section := range sections {
		pathText := strings.ToLower(strings.Join(section.Path, " "))
		if containsAnyWord(pathText, skipPathKeywords) {
			continue
		}

		title := cleanTitle(section.Title)
		content := strings.TrimSpace(section.Content)
		sectionText := strings.ToLower(title + " " + content)
		tokens := strings.Fields(sectionText)
		titleTokens := strings.Fields(strings.ToLower(title))

		score := 0.0

		queryMatches := countMatches(queryWords, tokens)
		score += float64(queryMatches) * contentMatchWeight

		titleMatches := countMatches(queryWords, titleTokens)
		score += float64(titleMatches) * titleMatchWeight

		if queryCategory != "" && detectSectionCategory(tokens) == queryCategory {
			score *= categoryBoost

			cat := categories[queryCategory]
			score += float64(countMatches(cat.keywords, tokens)) * categoryKeywordBonus
			score += float64(countMatches(cat.related, tokens)) * categoryRelatedBonus
		}

		wordCount := len(tokens)
		if wordCount > longSectionWords {
			penalty := float64(wordCount-longSectionWords) / 100
			score /= 1 + penalty
		}
		if wordCount <= longSectionWords && queryMatches > 0 {
			score *= shortSectionBoost
		}

		if len(section.Path) <= 2 {
			score *= topLevelPenalty
		}

		for _, word := range titleTokens {
			if word == query {
				score *= exactTitleBoost
				break
			}
		}

		if pathMatches := countMatches(queryWords, strings.Fields(pathText)); pathMatches > 0 {
			score *= 1 + float64(pathMatches)*pathMatchBoost
		}

		if score > relevanceThreshold {
			scored = append(scored, scoredSection{section: section, score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	return renderSections(scored, maxSections)
}

// renderSections formats the top sections as "path > path:\ncontent" blocks,
// deduplicating lines that repeat or contain each other across sections.
func renderSections(scored []scoredSection, maxSections int) string {
	type block struct {
		path    string
		content string
	}
	var blocks []block
	var usedLines []string

	for _, ss := range scored {
		content := strings.TrimSpace(strings.ReplaceAll(ss.section.Content, "#", ""))

		var cleanLines []string
		for _, line := range strings.Split(content, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || lineSeen(line, usedLines) {
				continue
			}
			cleanLines = append(cleanLines, line)
			usedLines = append(usedLines, line)
		}
		if len(cleanLines) == 0 {
			continue
		}

		// The root heading is the document title; skip it in the breadcrumb.
		var cleanPath []string
		for _, p := range ss.section.Path[1:] {
			cp := cleanTitle(p)
			if cp != "" && !strings.HasPrefix(cp, "База знаний") {
				cleanPath = append(cleanPath, cp)
			}
		}
		if len(cleanPath) == 0 {
			continue
		}

		blocks = append(blocks, block{
			path:    strings.Join(cleanPath, " > "),
			content: strings.Join(cleanLines, "\n"),
		})
		if len(blocks) >= maxSections {
			break
		}
	}

	if len(blocks) == 0 {
		return NoRelevantInfo
	}

	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		parts = append(parts, b.path+":\n\n"+b.content)
	}
	return strings.TrimSpace(strings.Join(parts, "\n\n"))
}

// countMatches counts how many words have at least one containment match
// among tokens.
func countMatches(words, tokens []string) int {
	count := 0
	for _, word := range words {
		if matchesAny(word, tokens) {
			count++
		}
	}
	return count
}

func containsAnyWord(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func lineSeen(line string, used []string) bool {
	for _, u := range used {
		if strings.Contains(u, line) || strings.Contains(line, u) {
			return true
		}
	}
	return false
}
