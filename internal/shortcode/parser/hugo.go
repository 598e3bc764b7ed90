package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

// PlaceholderFormat is the marker emitted in place of each extracted
// shortcode. The token is plain text so Markdown conversion passes it through
// untouched and callers can substitute rendered output afterwards.
const PlaceholderFormat = "@@shortcode:%d@@"

// Placeholder returns the extraction marker for the shortcode at index.
func Placeholder(index int) string {
	return fmt.Sprintf(PlaceholderFormat, index)
}

var (
	startTagPattern = regexp.MustCompile(`{{<\s*([^\s/>]+)([^>]*)>}}`)
	endTagPattern   = regexp.MustCompile(`{{<\s*/\s*([^\s>]+)\s*>}}`)
)

// HugoParser parses Hugo-style shortcodes ({{< name param >}}).
type HugoParser struct {
}

// NewHugoParser creates a parser instance.
func NewHugoParser() *HugoParser {
	return &HugoParser{}
}

// Parse returns the list of parsed shortcodes in the content.
func (p *HugoParser) Parse(content string) ([]interfaces.ParsedShortcode, error) {
	_, shortcodes, err := p.Extract(content)
	return shortcodes, err
}

// Extract replaces shortcodes with placeholders and returns both the
// transformed content and the extracted invocations. Paired shortcodes nest;
// inner invocations complete before their enclosing one, so an entry's Inner
// may carry placeholders of lower indices.
func (p *HugoParser) Extract(content string) (string, []interfaces.ParsedShortcode, error) {
	type stackEntry struct {
		name        string
		startIndex  int
		sourceStart int
		params      map[string]any
	}

	var (
		result     []rune
		shortcodes []interfaces.ParsedShortcode
		stack      []stackEntry
		position   int
	)

	appendString := func(s string) {
		result = append(result, []rune(s)...)
	}

	for position < len(content) {
		loc := startTagPattern.FindStringIndex(content[position:])
		endLoc := endTagPattern.FindStringIndex(content[position:])

		if loc == nil && endLoc == nil {
			appendString(content[position:])
			break
		}

		startPos := -1
		if loc != nil {
			startPos = position + loc[0]
		}

		endPos := -1
		if endLoc != nil {
			endPos = position + endLoc[0]
		}

		if startPos >= 0 && (endPos == -1 || startPos < endPos) {
			appendString(content[position:startPos])

			matches := startTagPattern.FindStringSubmatch(content[startPos:])
			if len(matches) < 2 {
				return "", nil, fmt.Errorf("invalid shortcode start tag at position %d", startPos)
			}
			name := matches[1]
			rawParams := strings.TrimSpace(matches[2])
			params := parseParams(rawParams)

			// A start tag without a matching end tag anywhere in the
			// remainder is treated as self-closing.
			remainder := content[startPos+len(matches[0]):]
			endMatcher := regexp.MustCompile(fmt.Sprintf(`{{<\s*/\s*%s\s*>}}`, regexp.QuoteMeta(name)))
			if loc := endMatcher.FindStringIndex(remainder); loc == nil {
				appendString(Placeholder(len(shortcodes)))
				shortcodes = append(shortcodes, interfaces.ParsedShortcode{
					Name:   name,
					Params: params,
					Raw:    matches[0],
				})
				position = startPos + len(matches[0])
				continue
			}

			stack = append(stack, stackEntry{
				name:        name,
				startIndex:  len(result),
				sourceStart: startPos,
				params:      params,
			})

			position = startPos + len(matches[0])
			continue
		}

		if endPos >= 0 {
			appendString(content[position:endPos])

			matches := endTagPattern.FindStringSubmatch(content[endPos:])
			if len(matches) < 2 {
				return "", nil, fmt.Errorf("invalid shortcode end tag at position %d", endPos)
			}
			name := matches[1]
			if len(stack) == 0 {
				return "", nil, fmt.Errorf("unexpected closing shortcode %s at position %d", name, endPos)
			}

			entry := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if entry.name != name {
				return "", nil, fmt.Errorf("mismatched shortcode end tag %s, expected %s", name, entry.name)
			}

			inner := string(result[entry.startIndex:])
			result = result[:entry.startIndex]

			appendString(Placeholder(len(shortcodes)))

			shortcodes = append(shortcodes, interfaces.ParsedShortcode{
				Name:   name,
				Params: entry.params,
				Inner:  inner,
				Raw:    content[entry.sourceStart : endPos+len(matches[0])],
			})

			position = endPos + len(matches[0])
			continue
		}
	}

	if len(stack) > 0 {
		return "", nil, fmt.Errorf("unterminated shortcode %s", stack[len(stack)-1].name)
	}

	return string(result), shortcodes, nil
}

var paramPattern = regexp.MustCompile(`([A-Za-z_][\w-]*)\s*=\s*"([^"]*)"|([A-Za-z_][\w-]*)\s*=\s*(\S+)|"([^"]*)"|(\S+)`)

// parseParams tokenises the attribute list of a start tag. Both key="quoted value"
// and key=bare forms are supported; bare or quoted tokens without a key become
// positional parameters (param1, param2, ...).
func parseParams(raw string) map[string]any {
	if raw == "" {
		return map[string]any{}
	}

	params := map[string]any{}
	for _, m := range paramPattern.FindAllStringSubmatch(raw, -1) {
		switch {
		case m[1] != "":
			params[m[1]] = m[2]
		case m[3] != "":
			params[m[3]] = m[4]
		default:
			value := m[6]
			if strings.HasPrefix(m[0], `"`) {
				value = m[5]
			}
			params[fmt.Sprintf("param%d", len(params)+1)] = value
		}
	}
	return params
}

// Ensure HugoParser implements interfaces.ShortcodeParser.
var _ interfaces.ShortcodeParser = (*HugoParser)(nil)
