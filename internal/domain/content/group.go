package content

import (
	"fmt"
	"strings"

	"convocast-go/internal/domain/confluence"
)

// topicKeywords are title/content markers that usually indicate a
// documentation topic worth its own episode.
var topicKeywords = []string{
	"api", "setup", "config", "install", "deploy", "test", "guide",
	"tutorial", "architecture", "design", "development", "security",
	"authentication", "database", "frontend", "backend", "service",
}

// PageGroup is a set of related pages processed into one episode.
type PageGroup struct {
	Name     string
	Pages    []confluence.Page
	Combined string
}

// groupPages clusters pages by topic. Small inputs become one
// comprehensive group; larger inputs are split by keyword matches with a
// catch-all group for whatever remains. Group order is deterministic.
func groupPages(pages []confluence.Page) []PageGroup {
	if len(pages) <= 3 {
		return []PageGroup{{
			Name:     "Comprehensive Onboarding Guide",
			Pages:    pages,
			Combined: combinePageContents(pages),
		}}
	}

	var groups []PageGroup
	grouped := make(map[string]bool)

	for _, keyword := range extractTopicKeywords(pages) {
		var related []confluence.Page
		for _, page := range pages {
			if grouped[page.ID] {
				continue
			}
			if strings.Contains(strings.ToLower(page.Title), keyword) ||
				strings.Contains(contentPrefix(page.Content, 500), keyword) {
				related = append(related, page)
			}
		}

		if len(related) >= 2 {
			groups = append(groups, PageGroup{
				Name:     capitalize(keyword) + " Documentation",
				Pages:    related,
				Combined: combinePageContents(related),
			})
			for _, page := range related {
				grouped[page.ID] = true
			}
		}
	}

	var ungrouped []confluence.Page
	for _, page := range pages {
		if !grouped[page.ID] {
			ungrouped = append(ungrouped, page)
		}
	}
	if len(ungrouped) > 0 {
		groups = append(groups, PageGroup{
			Name:     "General Documentation",
			Pages:    ungrouped,
			Combined: combinePageContents(ungrouped),
		})
	}

	return groups
}

// extractTopicKeywords returns up to five topic markers: known keywords
// found in the joined titles first, then words shared by at least two
// titles, deduplicated in first-seen order.
func extractTopicKeywords(pages []confluence.Page) []string {
	var titles []string
	for _, page := range pages {
		titles = append(titles, page.Title)
	}
	allTitles := strings.ToLower(strings.Join(titles, " "))

	var found []string
	for _, keyword := range topicKeywords {
		if strings.Contains(allTitles, keyword) {
			found = append(found, keyword)
		}
	}

	wordCounts := make(map[string]int)
	var wordOrder []string
	for _, page := range pages {
		for _, word := range strings.Fields(page.Title) {
			if len(word) <= 3 {
				continue
			}
			word = strings.ToLower(word)
			if wordCounts[word] == 0 {
				wordOrder = append(wordOrder, word)
			}
			wordCounts[word]++
		}
	}
	for _, word := range wordOrder {
		if wordCounts[word] >= 2 {
			found = append(found, word)
		}
	}

	seen := make(map[string]bool)
	var keywords []string
	for _, keyword := range found {
		if seen[keyword] {
			continue
		}
		seen[keyword] = true
		keywords = append(keywords, keyword)
		if len(keywords) == 5 {
			break
		}
	}
	return keywords
}

// combinePageContents concatenates page bodies under per-page headers so
// the model can attribute information to its source.
func combinePageContents(pages []confluence.Page) string {
	var b strings.Builder
	for _, page := range pages {
		fmt.Fprintf(&b, "\n\n=== %s ===\n%s", page.Title, strings.TrimSpace(page.Content))
	}
	return strings.TrimSpace(b.String())
}

func contentPrefix(content string, limit int) string {
	lower := strings.ToLower(content)
	if len(lower) > limit {
		return lower[:limit]
	}
	return lower
}

func capitalize(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + word[1:]
}
