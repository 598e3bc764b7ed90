package interfaces

import (
	"io"
)

// TemplateRenderer abstracts the theme template engine consumed by the
// generator. Render and RenderTemplate resolve a named theme template;
// RenderString parses inline content. The optional writers receive the
// rendered output in addition to the returned string.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
