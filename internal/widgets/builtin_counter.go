package widgets

import (
	"bytes"
	"context"
	"encoding/json"
	"html/template"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-blog/internal/counter"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
	"github.com/google/uuid"
)

// CounterWidgetName is the registry key of the built-in counter widget.
const CounterWidgetName = "counter"

// CounterDefinition returns the registration input for the built-in counter
// widget: a numeric display with increment and decrement controls backed by
// a bounded counter cell.
func CounterDefinition() RegisterDefinitionInput {
	description := "Interactive counter with increment and decrement controls"
	category := "interactive"
	icon := "plus-minus"
	return RegisterDefinitionInput{
		Name:        CounterWidgetName,
		Description: &description,
		Schema: map[string]any{
			"fields": []any{
				map[string]any{"name": "label", "type": "text"},
				map[string]any{"name": "start", "schema": map[string]any{"type": "number", "minimum": 0}},
			},
		},
		Defaults: map[string]any{
			"label": "Counter",
			"start": 0,
		},
		Category: &category,
		Icon:     &icon,
	}
}

// CounterRegistration bundles the counter definition with its renderer.
func CounterRegistration(renderer *CounterRenderer) Registration {
	return Registration{
		Definition: CounterDefinition,
		Renderer:   renderer,
	}
}

// CounterRenderer renders counter widget instances bound to live state
// cells. Each instance gets one cell, created on first use and seeded from
// the instance's start configuration; every render reads the cell's current
// value so the fragment always reflects live state.
type CounterRenderer struct {
	mu     sync.Mutex
	cells  map[uuid.UUID]interfaces.CounterCell
	logger interfaces.Logger
}

// NewCounterRenderer constructs a renderer with no bound cells.
func NewCounterRenderer(logger interfaces.Logger) *CounterRenderer {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &CounterRenderer{
		cells:  make(map[uuid.UUID]interfaces.CounterCell),
		logger: logger,
	}
}

// Cell returns the live counter cell bound to the instance, creating and
// seeding it on first use.
func (r *CounterRenderer) Cell(instance *Instance) interfaces.CounterCell {
	if instance == nil {
		return counter.New(counter.WithLogger(r.logger))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if cell, ok := r.cells[instance.ID]; ok {
		return cell
	}
	cell := counter.New(
		counter.WithStart(configInt(instance.Configuration, "start", 0)),
		counter.WithLogger(r.logger),
	)
	r.cells[instance.ID] = cell
	return cell
}

var counterTemplate = template.Must(template.New("widget_counter").Parse(
	`<div class="widget widget-counter" data-widget="counter" data-instance="{{.InstanceID}}" data-value="{{.Value}}">
<span class="widget-counter-label">{{.Label}}</span>
<output class="widget-counter-value" aria-live="polite">{{.Value}}</output>
<button type="button" class="widget-counter-increment" data-action="increment" aria-label="increment {{.Label}}">+</button>
<button type="button" class="widget-counter-decrement" data-action="decrement" aria-label="decrement {{.Label}}">-</button>
</div>`))

type counterViewData struct {
	InstanceID string
	Label      string
	Value      int
}

// Render emits the counter fragment with the bound cell's current value.
func (r *CounterRenderer) Render(_ context.Context, _ *Definition, instance *Instance) (string, error) {
	if instance == nil {
		return "", ErrInstanceIDRequired
	}

	cell := r.Cell(instance)
	data := counterViewData{
		InstanceID: instance.ID.String(),
		Label:      configString(instance.Configuration, "label", "Counter"),
		Value:      cell.Value(),
	}

	var buf bytes.Buffer
	if err := counterTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func configString(config map[string]any, key, fallback string) string {
	if raw, ok := config[key]; ok {
		if value, ok := raw.(string); ok && strings.TrimSpace(value) != "" {
			return value
		}
	}
	return fallback
}

func configInt(config map[string]any, key string, fallback int) int {
	raw, ok := config[key]
	if !ok {
		return fallback
	}
	switch value := raw.(type) {
	case int:
		return value
	case int64:
		return int(value)
	case float64:
		return int(value)
	case json.Number:
		if n, err := value.Int64(); err == nil {
			return int(n)
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return n
		}
	}
	return fallback
}
