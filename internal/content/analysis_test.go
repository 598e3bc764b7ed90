package content

import (
	"strings"
	"testing"
)

func TestAnalyzePostDerivesOutlineAndCounts(t *testing.T) {
	record := &Post{
		HTML: "<h2 id=\"intro\">Intro</h2>\n<p>one two three four five</p>\n<h3 id=\"deeper\">Deeper</h3>\n<p>six seven</p>",
	}

	analyzePost(record, 0)

	if len(record.Outline) != 2 {
		t.Fatalf("expected 2 headings, got %v", record.Outline)
	}
	if record.Outline[0].ID != "intro" || record.Outline[0].Level != 2 {
		t.Fatalf("unexpected first heading %+v", record.Outline[0])
	}
	if record.Outline[1].Level != 3 {
		t.Fatalf("expected h3 level, got %+v", record.Outline[1])
	}
	if record.WordCount != 9 {
		t.Fatalf("expected 9 words, got %d", record.WordCount)
	}
	if record.ReadingTime != 1 {
		t.Fatalf("expected 1 minute, got %d", record.ReadingTime)
	}
	if record.Excerpt != "one two three four five" {
		t.Fatalf("expected first paragraph excerpt, got %q", record.Excerpt)
	}
}

func TestAnalyzePostSummaryWinsOverParagraph(t *testing.T) {
	summary := " Hand written summary. "
	record := &Post{
		Summary: &summary,
		HTML:    "<p>Derived paragraph.</p>",
	}

	analyzePost(record, 0)

	if record.Excerpt != "Hand written summary." {
		t.Fatalf("expected summary excerpt, got %q", record.Excerpt)
	}
}

func TestAnalyzePostFallsBackToBody(t *testing.T) {
	record := &Post{
		Body: "# Heading Line\n\nBody starts here with words.\n\nMore text.",
	}

	analyzePost(record, 0)

	if record.Outline != nil {
		t.Fatalf("expected no outline without HTML, got %v", record.Outline)
	}
	if record.WordCount == 0 {
		t.Fatal("expected body word count")
	}
	if record.Excerpt != "Body starts here with words." {
		t.Fatalf("expected first body line excerpt, got %q", record.Excerpt)
	}
}

func TestTruncateTextCutsAtWordBoundary(t *testing.T) {
	text := strings.Repeat("alpha beta ", 40)

	out := truncateText(text, 32)

	if !strings.HasSuffix(out, "…") {
		t.Fatalf("expected ellipsis suffix, got %q", out)
	}
	if len([]rune(out)) > 33 {
		t.Fatalf("expected bounded excerpt, got %d runes", len([]rune(out)))
	}
	if strings.Contains(out, "  ") {
		t.Fatalf("expected collapsed whitespace, got %q", out)
	}
}

func TestTruncateTextKeepsShortText(t *testing.T) {
	if out := truncateText("short text.", 240); out != "short text." {
		t.Fatalf("expected text unchanged, got %q", out)
	}
}

func TestReadingTimeMinimumOneMinute(t *testing.T) {
	cases := []struct {
		words   int
		minutes int
	}{
		{0, 1},
		{1, 1},
		{200, 1},
		{201, 2},
		{400, 2},
		{401, 3},
	}

	for _, tc := range cases {
		if got := readingTime(tc.words); got != tc.minutes {
			t.Fatalf("readingTime(%d) = %d, expected %d", tc.words, got, tc.minutes)
		}
	}
}
