package parser

import (
	"strings"
	"testing"
)

func TestHugoParserExtractSelfClosingAndPaired(t *testing.T) {
	parser := NewHugoParser()
	input := `Intro {{< youtube dQw4w9WgXcQ >}} mid {{< alert type="info" >}}Stay safe!{{< /alert >}} end`

	transformed, shortcodes, err := parser.Extract(input)
	if err != nil {
		t.Fatalf("Extract() unexpected error: %v", err)
	}

	want := "Intro @@shortcode:0@@ mid @@shortcode:1@@ end"
	if transformed != want {
		t.Fatalf("expected transformed %q, got %q", want, transformed)
	}
	if len(shortcodes) != 2 {
		t.Fatalf("expected 2 shortcodes, got %d", len(shortcodes))
	}

	youtube := shortcodes[0]
	if youtube.Name != "youtube" {
		t.Fatalf("expected first shortcode youtube, got %s", youtube.Name)
	}
	if got := youtube.Params["param1"]; got != "dQw4w9WgXcQ" {
		t.Fatalf("expected positional param dQw4w9WgXcQ, got %v", got)
	}
	if youtube.Raw != "{{< youtube dQw4w9WgXcQ >}}" {
		t.Fatalf("expected raw start tag preserved, got %q", youtube.Raw)
	}

	alert := shortcodes[1]
	if alert.Inner != "Stay safe!" {
		t.Fatalf("expected inner content 'Stay safe!', got %q", alert.Inner)
	}
	if got := alert.Params["type"]; got != "info" {
		t.Fatalf("expected type info, got %v", got)
	}
	if alert.Raw != `{{< alert type="info" >}}Stay safe!{{< /alert >}}` {
		t.Fatalf("expected raw paired source preserved, got %q", alert.Raw)
	}
}

func TestHugoParserExtractNested(t *testing.T) {
	parser := NewHugoParser()
	input := `{{< alert type="warning" >}}Watch {{< youtube abc123 >}} now{{< /alert >}}`

	transformed, shortcodes, err := parser.Extract(input)
	if err != nil {
		t.Fatalf("Extract() unexpected error: %v", err)
	}

	if transformed != "@@shortcode:1@@" {
		t.Fatalf("expected single outer placeholder, got %q", transformed)
	}
	if len(shortcodes) != 2 {
		t.Fatalf("expected 2 shortcodes, got %d", len(shortcodes))
	}
	if shortcodes[0].Name != "youtube" {
		t.Fatalf("expected inner shortcode first, got %s", shortcodes[0].Name)
	}
	if shortcodes[1].Inner != "Watch @@shortcode:0@@ now" {
		t.Fatalf("expected inner placeholder in outer content, got %q", shortcodes[1].Inner)
	}
	if shortcodes[1].Raw != input {
		t.Fatalf("expected outer raw to span the whole block, got %q", shortcodes[1].Raw)
	}
}

func TestHugoParserQuotedParamsKeepSpaces(t *testing.T) {
	parser := NewHugoParser()
	input := `{{< alert type="info" title="Heads up" >}}Body{{< /alert >}}`

	_, shortcodes, err := parser.Extract(input)
	if err != nil {
		t.Fatalf("Extract() unexpected error: %v", err)
	}
	if len(shortcodes) != 1 {
		t.Fatalf("expected 1 shortcode, got %d", len(shortcodes))
	}
	if got := shortcodes[0].Params["title"]; got != "Heads up" {
		t.Fatalf("expected quoted title with space, got %v", got)
	}
}

func TestHugoParserMixedPositionalAndNamedParams(t *testing.T) {
	parser := NewHugoParser()

	_, shortcodes, err := parser.Extract(`{{< youtube dQw4 start=30 >}}`)
	if err != nil {
		t.Fatalf("Extract() unexpected error: %v", err)
	}
	params := shortcodes[0].Params
	if got := params["param1"]; got != "dQw4" {
		t.Fatalf("expected positional param dQw4, got %v", got)
	}
	if got := params["start"]; got != "30" {
		t.Fatalf("expected named start=30, got %v", got)
	}
}

func TestHugoParserMismatchedClosure(t *testing.T) {
	parser := NewHugoParser()
	input := `{{< alert type="warning" >}}Oops{{< /youtube >}}`

	if _, _, err := parser.Extract(input); err == nil {
		t.Fatal("expected error for mismatched shortcode closure")
	}
}

func TestHugoParserUnterminated(t *testing.T) {
	parser := NewHugoParser()
	input := `{{< alert type="info" >}}outer {{< alert type="info" >}}inner{{< /alert >}}`

	_, _, err := parser.Extract(input)
	if err == nil {
		t.Fatal("expected error for unterminated shortcode")
	}
	if !strings.Contains(err.Error(), "unterminated") {
		t.Fatalf("expected unterminated error, got %v", err)
	}
}

func TestPlaceholderFormatIsMarkdownInert(t *testing.T) {
	got := Placeholder(3)
	if got != "@@shortcode:3@@" {
		t.Fatalf("expected @@shortcode:3@@, got %q", got)
	}
	for _, ch := range []string{"<", ">", "*", "_", "`", "["} {
		if strings.Contains(got, ch) {
			t.Fatalf("placeholder contains markdown-significant character %q", ch)
		}
	}
}
