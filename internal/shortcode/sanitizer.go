package shortcode

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Sanitizer applies conservative output checks: it rejects inline script tags,
// enforces URL schemes, and refuses inline event handler attributes.
type Sanitizer struct {
	allowedSchemes map[string]struct{}
}

// NewSanitizer returns a sanitizer allowing http/https URLs.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{
		allowedSchemes: map[string]struct{}{
			"http":  {},
			"https": {},
			"":      {},
		},
	}
}

// Sanitize rejects obvious script injections while preserving safe markup.
func (s *Sanitizer) Sanitize(html string) (string, error) {
	lower := strings.ToLower(html)
	if strings.Contains(lower, "<script") {
		return "", fmt.Errorf("shortcode: script tags are not allowed")
	}
	return html, nil
}

// ValidateURL ensures the URL has an allowed scheme.
func (s *Sanitizer) ValidateURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}

	if _, ok := s.allowedSchemes[strings.ToLower(parsed.Scheme)]; !ok {
		return fmt.Errorf("shortcode: url scheme %q not permitted", parsed.Scheme)
	}
	return nil
}

// ValidateParams rejects inline event handler keys (onload, onerror, ...) and
// applies ValidateURL to every parameter the schema declares as a URL.
func (s *Sanitizer) ValidateParams(schema interfaces.ShortcodeSchema, params map[string]any) error {
	for key := range params {
		if strings.HasPrefix(strings.ToLower(key), "on") {
			return fmt.Errorf("shortcode: attribute %q not permitted", key)
		}
	}

	for _, param := range schema.Params {
		if param.Type != interfaces.ShortcodeParamURL {
			continue
		}
		value, ok := params[param.Name]
		if !ok {
			continue
		}
		raw, ok := value.(string)
		if !ok {
			continue
		}
		if err := s.ValidateURL(raw); err != nil {
			return err
		}
	}
	return nil
}
