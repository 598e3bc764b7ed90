package themes

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

// ErrTemplateNotFound indicates a render request named an unknown template.
var ErrTemplateNotFound = errors.New("themes: template not found")

// Engine renders pages through the theme's html/template stack. The base
// layout and the partials parse once, then clone per page template so every
// page kind defines its own "content" block without name collisions.
type Engine struct {
	theme      *Theme
	baseURL    string
	dateFormat string

	mu      sync.Mutex
	funcs   template.FuncMap
	global  any
	started bool

	once       sync.Once
	layoutName string
	sets       map[string]*template.Template
	parseErr   error
}

// EngineOption configures the engine.
type EngineOption func(*Engine)

// WithEngineBaseURL sets the base URL the absURL helper prefixes onto
// root-relative paths.
func WithEngineBaseURL(baseURL string) EngineOption {
	return func(e *Engine) {
		e.baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	}
}

// WithEngineDateFormat overrides the layout formatDate renders with.
func WithEngineDateFormat(layout string) EngineOption {
	return func(e *Engine) {
		if strings.TrimSpace(layout) != "" {
			e.dateFormat = layout
		}
	}
}

// WithEngineFuncs merges additional template funcs into the engine set.
func WithEngineFuncs(funcs template.FuncMap) EngineOption {
	return func(e *Engine) {
		for name, fn := range funcs {
			if strings.TrimSpace(name) == "" || fn == nil {
				continue
			}
			e.funcs[name] = fn
		}
	}
}

// NewEngine builds a renderer for the theme.
func NewEngine(theme *Theme, opts ...EngineOption) (*Engine, error) {
	if theme == nil || theme.Manifest == nil || theme.FS == nil {
		return nil, fmt.Errorf("themes: theme required")
	}
	engine := &Engine{
		theme:      theme,
		dateFormat: "January 2, 2006",
	}
	engine.funcs = template.FuncMap{
		"formatDate": engine.formatDate,
		"absURL":     engine.absURL,
		"safeHTML":   toHTML,
		"safeCSS":    toCSS,
		"global":     engine.globalData,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(engine)
		}
	}
	return engine, nil
}

var _ interfaces.TemplateRenderer = (*Engine)(nil)

// Render renders the page template registered for name (a page kind such as
// "post") inside the theme layout.
func (e *Engine) Render(name string, data any, out ...io.Writer) (string, error) {
	return e.RenderTemplate(name, data, out...)
}

// RenderTemplate behaves like Render.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if err := e.ensureTemplates(); err != nil {
		return "", err
	}
	set, ok := e.sets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}

	var writer io.Writer
	var buffer *bytes.Buffer
	if len(out) > 0 && out[0] != nil {
		writer = out[0]
	} else {
		buffer = &bytes.Buffer{}
		writer = buffer
	}

	if err := set.ExecuteTemplate(writer, e.layoutName, data); err != nil {
		return "", fmt.Errorf("themes: render %s: %w", name, err)
	}
	if buffer != nil {
		return buffer.String(), nil
	}
	return "", nil
}

// RenderString parses and renders an inline template with the engine's
// helper funcs available.
func (e *Engine) RenderString(content string, data any, out ...io.Writer) (string, error) {
	tpl, err := template.New("inline").Funcs(e.snapshotFuncs()).Parse(content)
	if err != nil {
		return "", fmt.Errorf("themes: parse inline template: %w", err)
	}

	var writer io.Writer
	var buffer *bytes.Buffer
	if len(out) > 0 && out[0] != nil {
		writer = out[0]
	} else {
		buffer = &bytes.Buffer{}
		writer = buffer
	}

	if err := tpl.Execute(writer, data); err != nil {
		return "", fmt.Errorf("themes: render inline template: %w", err)
	}
	if buffer != nil {
		return buffer.String(), nil
	}
	return "", nil
}

// RegisterFilter exposes fn to templates as a two argument helper. The
// template stack parses once, so filters must register before the first
// render.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("themes: filter name required")
	}
	if fn == nil {
		return fmt.Errorf("themes: filter func required")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return fmt.Errorf("themes: filter %s registered after templates were parsed", name)
	}
	e.funcs[name] = func(input any, params ...any) (any, error) {
		var param any
		if len(params) > 0 {
			param = params[0]
		}
		return fn(input, param)
	}
	return nil
}

// GlobalContext stores data templates reach through the global helper.
func (e *Engine) GlobalContext(data any) error {
	e.mu.Lock()
	e.global = data
	e.mu.Unlock()
	return nil
}

func (e *Engine) ensureTemplates() error {
	e.mu.Lock()
	e.started = true
	e.mu.Unlock()
	e.once.Do(func() {
		e.parseErr = e.parse()
	})
	return e.parseErr
}

func (e *Engine) parse() error {
	manifest := e.theme.Manifest
	funcs := e.snapshotFuncs()

	files := []string{path.Join(e.theme.Dir, manifest.Layout)}
	partialNames := make([]string, 0, len(manifest.Partials))
	for name := range manifest.Partials {
		partialNames = append(partialNames, name)
	}
	sort.Strings(partialNames)
	for _, name := range partialNames {
		files = append(files, path.Join(e.theme.Dir, manifest.Partials[name]))
	}

	base, err := template.New("theme").Funcs(funcs).ParseFS(e.theme.FS, files...)
	if err != nil {
		return fmt.Errorf("themes: parse layout: %w", err)
	}
	e.layoutName = path.Base(manifest.Layout)

	kinds := make([]string, 0, len(manifest.Templates))
	for kind := range manifest.Templates {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	sets := make(map[string]*template.Template, len(kinds))
	for _, kind := range kinds {
		set, err := base.Clone()
		if err != nil {
			return fmt.Errorf("themes: clone layout for %s: %w", kind, err)
		}
		set, err = set.ParseFS(e.theme.FS, path.Join(e.theme.Dir, manifest.Templates[kind]))
		if err != nil {
			return fmt.Errorf("themes: parse template %s: %w", kind, err)
		}
		sets[strings.ToLower(strings.TrimSpace(kind))] = set
	}
	e.sets = sets
	return nil
}

func (e *Engine) snapshotFuncs() template.FuncMap {
	e.mu.Lock()
	defer e.mu.Unlock()
	funcs := make(template.FuncMap, len(e.funcs))
	for name, fn := range e.funcs {
		funcs[name] = fn
	}
	return funcs
}

func (e *Engine) globalData() any {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.global
}

func (e *Engine) formatDate(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.Format(e.dateFormat)
}

func (e *Engine) absURL(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		if e.baseURL == "" {
			return "/"
		}
		return e.baseURL
	}
	if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return p
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if e.baseURL == "" {
		return p
	}
	return e.baseURL + p
}

func toHTML(value any) template.HTML {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case template.HTML:
		return v
	case string:
		return template.HTML(v)
	default:
		return template.HTML(fmt.Sprint(v))
	}
}

func toCSS(value any) template.CSS {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case template.CSS:
		return v
	case string:
		return template.CSS(v)
	default:
		return template.CSS(fmt.Sprint(v))
	}
}
