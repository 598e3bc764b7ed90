package themes

import (
	"fmt"
	"html/template"
	"sort"
	"strings"

	gotheme "github.com/goliatone/go-theme"
)

// DefaultCSSPrefix namespaces the generated custom properties.
const DefaultCSSPrefix = "blog"

// Stylesheet renders the CSS custom property block the base layout injects.
// Tokens come from the go-theme selection when it resolved any; otherwise
// the theme's own manifest supplies them, so a theme stays styled even when
// no selection is available.
func Stylesheet(theme *Theme, selection *gotheme.Selection, variant, prefix string) template.CSS {
	var tokens map[string]string
	if selection != nil {
		tokens = selection.Tokens()
	}
	if len(tokens) == 0 && theme != nil && theme.Manifest != nil {
		tokens = theme.Manifest.VariantTokens(variant)
	}
	return cssVariableBlock(tokens, prefix)
}

func cssVariableBlock(tokens map[string]string, prefix string) template.CSS {
	if len(tokens) == 0 {
		return ""
	}
	prefix = strings.TrimSpace(strings.Trim(prefix, "-"))

	names := make([]string, 0, len(tokens))
	for name := range tokens {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, name := range names {
		value := strings.TrimSpace(tokens[name])
		key := strings.TrimSpace(name)
		if key == "" || value == "" {
			continue
		}
		if prefix != "" {
			fmt.Fprintf(&b, "  --%s-%s: %s;\n", prefix, key, value)
		} else {
			fmt.Fprintf(&b, "  --%s: %s;\n", key, value)
		}
	}
	b.WriteString("}\n")
	return template.CSS(b.String())
}
