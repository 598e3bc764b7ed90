package content

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	defaultExcerptLength = 240
	wordsPerMinute       = 200
)

// analyzePost derives excerpt, outline, word count, and reading time from the
// post's rendered HTML. Posts without HTML fall back to the Markdown body for
// the text-derived fields.
func analyzePost(record *Post, excerptLimit int) {
	if record == nil {
		return
	}
	if excerptLimit <= 0 {
		excerptLimit = defaultExcerptLength
	}

	if strings.TrimSpace(record.HTML) == "" {
		record.Outline = nil
		record.WordCount = len(strings.Fields(record.Body))
		record.ReadingTime = readingTime(record.WordCount)
		if record.Excerpt == "" {
			record.Excerpt = excerptFromText(record.Summary, record.Body, excerptLimit)
		}
		return
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(record.HTML))
	if err != nil {
		record.WordCount = len(strings.Fields(record.Body))
		record.ReadingTime = readingTime(record.WordCount)
		return
	}

	record.Outline = collectOutline(doc)
	record.WordCount = len(strings.Fields(doc.Text()))
	record.ReadingTime = readingTime(record.WordCount)
	if record.Excerpt == "" {
		record.Excerpt = excerptFromDocument(doc, record.Summary, excerptLimit)
	}
}

func collectOutline(doc *goquery.Document) []Heading {
	var outline []Heading
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, sel *goquery.Selection) {
		if len(sel.Nodes) == 0 {
			return
		}
		text := strings.TrimSpace(sel.Text())
		if text == "" {
			return
		}
		id, _ := sel.Attr("id")
		outline = append(outline, Heading{
			ID:    id,
			Level: headingLevel(sel.Nodes[0].Data),
			Text:  text,
		})
	})
	return outline
}

func headingLevel(name string) int {
	if len(name) == 2 && name[0] == 'h' {
		if level := int(name[1] - '0'); level >= 1 && level <= 6 {
			return level
		}
	}
	return 0
}

func excerptFromDocument(doc *goquery.Document, summary *string, limit int) string {
	if text := summaryText(summary); text != "" {
		return truncateText(text, limit)
	}

	var excerpt string
	doc.Find("p").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		if text == "" {
			return true
		}
		excerpt = text
		return false
	})
	if excerpt == "" {
		excerpt = strings.TrimSpace(doc.Text())
	}
	return truncateText(excerpt, limit)
}

func excerptFromText(summary *string, body string, limit int) string {
	if text := summaryText(summary); text != "" {
		return truncateText(text, limit)
	}
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return truncateText(line, limit)
	}
	return ""
}

func summaryText(summary *string) string {
	if summary == nil {
		return ""
	}
	return strings.TrimSpace(*summary)
}

func truncateText(text string, limit int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	cut := string(runes[:limit])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " ,;:.") + "…"
}

func readingTime(words int) int {
	if words <= 0 {
		return 1
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}
