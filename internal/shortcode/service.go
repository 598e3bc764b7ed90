package shortcode

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-blog/internal/logging"
	parserpkg "github.com/goliatone/go-blog/internal/shortcode/parser"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Service orchestrates shortcode parsing and rendering for post content.
type Service struct {
	registry     interfaces.ShortcodeRegistry
	renderer     interfaces.ShortcodeRenderer
	parser       interfaces.ShortcodeParser
	defaultCache interfaces.CacheProvider
	logger       interfaces.Logger
}

// ServiceOption customises service behaviour.
type ServiceOption func(*Service)

// WithParser overrides the Hugo-style parser used to extract shortcodes.
func WithParser(parser interfaces.ShortcodeParser) ServiceOption {
	return func(s *Service) {
		if parser != nil {
			s.parser = parser
		}
	}
}

// WithDefaultCache supplies the cache provider handed to the renderer on every pass.
func WithDefaultCache(cache interfaces.CacheProvider) ServiceOption {
	return func(s *Service) {
		if cache != nil {
			s.defaultCache = cache
		}
	}
}

// WithLogger attaches a logger used for structured diagnostics.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService constructs a shortcode service using the supplied registry and renderer.
func NewService(registry interfaces.ShortcodeRegistry, renderer interfaces.ShortcodeRenderer, opts ...ServiceOption) *Service {
	service := &Service{
		registry: registry,
		renderer: renderer,
		parser:   parserpkg.NewHugoParser(),
		logger:   logging.NoOp(),
	}

	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Process renders any shortcodes found within the content string, returning
// the resulting HTML. It is equivalent to Extract followed immediately by
// Expand; callers that convert Markdown between the two phases should use
// those methods directly.
func (s *Service) Process(ctx context.Context, content string, opts interfaces.ShortcodeProcessOptions) (string, error) {
	if strings.TrimSpace(content) == "" {
		return content, nil
	}
	if s.renderer == nil || s.parser == nil {
		return "", fmt.Errorf("shortcode: service not initialised")
	}

	transformed, parsed, err := s.Extract(content)
	if err != nil {
		return "", err
	}
	if len(parsed) == 0 {
		return transformed, nil
	}
	return s.Expand(ctx, transformed, parsed, opts)
}

// Extract replaces every shortcode invocation with a plain-text placeholder
// and returns the invocations in resolution order.
func (s *Service) Extract(content string) (string, []interfaces.ParsedShortcode, error) {
	if s.parser == nil {
		return "", nil, fmt.Errorf("shortcode: service not initialised")
	}

	transformed, parsed, err := s.parser.Extract(content)
	if err != nil {
		s.baseLogger(nil).Error("shortcode.extract_failed", "error", err)
		return "", nil, err
	}
	return transformed, parsed, nil
}

// Expand renders each extracted shortcode and substitutes the output for its
// placeholder in content. Shortcodes arrive innermost first, so earlier
// renders are folded into the inner content of enclosing invocations before
// those render. Unknown shortcodes abort the pass unless opts.LeaveUnknown is
// set, in which case the original source text is restored verbatim.
func (s *Service) Expand(ctx context.Context, content string, shortcodes []interfaces.ParsedShortcode, opts interfaces.ShortcodeProcessOptions) (string, error) {
	if len(shortcodes) == 0 {
		return content, nil
	}
	if s.renderer == nil {
		return "", fmt.Errorf("shortcode: service not initialised")
	}

	logger := s.baseLogger(ctx)

	shortcodeCtx := interfaces.ShortcodeContext{
		Context: ctx,
		Cache:   s.defaultCache,
	}
	if shortcodeCtx.Context == nil {
		shortcodeCtx.Context = context.Background()
	}

	rendered := make([]string, len(shortcodes))
	output := content
	for idx, sc := range shortcodes {
		inner := sc.Inner
		for j := idx - 1; j >= 0; j-- {
			inner = strings.ReplaceAll(inner, parserpkg.Placeholder(j), rendered[j])
		}

		html, err := s.renderer.Render(shortcodeCtx, sc.Name, sc.Params, inner)
		switch {
		case err == nil:
			rendered[idx] = string(html)
		case opts.LeaveUnknown && errors.Is(err, ErrUnknownShortcode):
			rendered[idx] = sc.Raw
			logger.Debug("shortcode.left_literal", "shortcode", sc.Name, "index", idx)
		default:
			logger.Error("shortcode.render_failed", "shortcode", sc.Name, "index", idx, "error", err)
			return "", err
		}

		placeholder := parserpkg.Placeholder(idx)
		// Markdown conversion wraps a placeholder standing on its own line in
		// a paragraph; unwrap it so block output is not nested inside <p>.
		output = strings.ReplaceAll(output, "<p>"+placeholder+"</p>", rendered[idx])
		output = strings.ReplaceAll(output, placeholder, rendered[idx])
	}

	logger.Debug("shortcode.process_completed", "shortcodes", len(shortcodes))
	return output, nil
}

// Registry exposes the underlying shortcode registry.
func (s *Service) Registry() interfaces.ShortcodeRegistry {
	return s.registry
}

// Ensure Service complies with interfaces.ShortcodeService.
var _ interfaces.ShortcodeService = (*Service)(nil)

type noOpService struct{}

// NewNoOpService returns a shortcode service that leaves content untouched.
func NewNoOpService() interfaces.ShortcodeService {
	return noOpService{}
}

func (noOpService) Process(_ context.Context, content string, _ interfaces.ShortcodeProcessOptions) (string, error) {
	return content, nil
}

func (noOpService) Extract(content string) (string, []interfaces.ParsedShortcode, error) {
	return content, nil, nil
}

func (noOpService) Expand(_ context.Context, content string, _ []interfaces.ParsedShortcode, _ interfaces.ShortcodeProcessOptions) (string, error) {
	return content, nil
}

func (s *Service) baseLogger(ctx context.Context) interfaces.Logger {
	logger := s.logger
	if logger == nil {
		logger = logging.NoOp()
	}
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	return logger
}
