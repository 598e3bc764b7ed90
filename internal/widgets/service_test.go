package widgets

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-blog/internal/identity"
	"github.com/google/uuid"
)

var widgetClock = func() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func newWidgetService(t *testing.T, opts ...ServiceOption) Service {
	t.Helper()
	base := []ServiceOption{WithClock(widgetClock)}
	return NewService(NewMemoryDefinitionRepository(), NewMemoryInstanceRepository(), append(base, opts...)...)
}

func TestRegisterDefinitionSuccess(t *testing.T) {
	svc := newWidgetService(t)

	definition, err := svc.RegisterDefinition(context.Background(), CounterDefinition())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if definition.Name != CounterWidgetName {
		t.Fatalf("expected canonical name, got %q", definition.Name)
	}
	if definition.ID != identity.WidgetDefinitionUUID(CounterWidgetName) {
		t.Fatalf("expected deterministic definition id, got %s", definition.ID)
	}
	if definition.Defaults["label"] != "Counter" {
		t.Fatalf("expected defaults cloned, got %v", definition.Defaults)
	}
	if !definition.CreatedAt.Equal(widgetClock()) {
		t.Fatalf("expected clock timestamps, got %s", definition.CreatedAt)
	}
}

func TestRegisterDefinitionValidations(t *testing.T) {
	svc := newWidgetService(t)
	ctx := context.Background()

	if _, err := svc.RegisterDefinition(ctx, RegisterDefinitionInput{}); !errors.Is(err, ErrDefinitionNameRequired) {
		t.Fatalf("expected ErrDefinitionNameRequired, got %v", err)
	}
	if _, err := svc.RegisterDefinition(ctx, RegisterDefinitionInput{Name: "empty"}); !errors.Is(err, ErrDefinitionSchemaRequired) {
		t.Fatalf("expected ErrDefinitionSchemaRequired, got %v", err)
	}

	input := CounterDefinition()
	input.Defaults = map[string]any{"rogue": true}
	if _, err := svc.RegisterDefinition(ctx, input); !errors.Is(err, ErrDefinitionDefaultsInvalid) {
		t.Fatalf("expected ErrDefinitionDefaultsInvalid for unknown field, got %v", err)
	}

	input = CounterDefinition()
	input.Defaults = map[string]any{"start": -1}
	if _, err := svc.RegisterDefinition(ctx, input); !errors.Is(err, ErrDefinitionDefaultsInvalid) {
		t.Fatalf("expected ErrDefinitionDefaultsInvalid for negative start, got %v", err)
	}
}

func TestRegisterDefinitionDuplicate(t *testing.T) {
	svc := newWidgetService(t)
	ctx := context.Background()

	if _, err := svc.RegisterDefinition(ctx, CounterDefinition()); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.RegisterDefinition(ctx, CounterDefinition()); !errors.Is(err, ErrDefinitionExists) {
		t.Fatalf("expected ErrDefinitionExists, got %v", err)
	}
}

func TestCreateInstanceMergesDefaults(t *testing.T) {
	svc := newWidgetService(t)
	ctx := context.Background()

	definition, err := svc.RegisterDefinition(ctx, CounterDefinition())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	instance, err := svc.CreateInstance(ctx, CreateInstanceInput{
		DefinitionID:  definition.ID,
		Configuration: map[string]any{"label": "Clicks"},
	})
	if err != nil {
		t.Fatalf("create instance: %v", err)
	}

	if instance.Configuration["label"] != "Clicks" {
		t.Fatalf("expected label override, got %v", instance.Configuration)
	}
	if instance.Configuration["start"] != 0 {
		t.Fatalf("expected start default, got %v", instance.Configuration["start"])
	}
}

func TestCreateInstanceRejectsInvalidConfiguration(t *testing.T) {
	svc := newWidgetService(t)
	ctx := context.Background()

	definition, err := svc.RegisterDefinition(ctx, CounterDefinition())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err = svc.CreateInstance(ctx, CreateInstanceInput{
		DefinitionID:  definition.ID,
		Configuration: map[string]any{"rogue": 1},
	})
	if !errors.Is(err, ErrInstanceConfigurationInvalid) {
		t.Fatalf("expected rejection of unknown field, got %v", err)
	}

	_, err = svc.CreateInstance(ctx, CreateInstanceInput{
		DefinitionID:  definition.ID,
		Configuration: map[string]any{"start": -3},
	})
	if !errors.Is(err, ErrInstanceConfigurationInvalid) {
		t.Fatalf("expected rejection of negative start, got %v", err)
	}

	_, err = svc.CreateInstance(ctx, CreateInstanceInput{DefinitionID: definition.ID, Position: -1})
	if !errors.Is(err, ErrInstancePositionInvalid) {
		t.Fatalf("expected ErrInstancePositionInvalid, got %v", err)
	}
}

func TestEnsureInstanceIsIdempotentForKeys(t *testing.T) {
	svc := newWidgetService(t)
	ctx := context.Background()

	definition, err := svc.RegisterDefinition(ctx, CounterDefinition())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	input := CreateInstanceInput{
		DefinitionID:  definition.ID,
		Key:           "sidebar",
		Configuration: map[string]any{"start": 5},
	}

	first, err := svc.EnsureInstance(ctx, input)
	if err != nil {
		t.Fatalf("ensure first: %v", err)
	}
	second, err := svc.EnsureInstance(ctx, input)
	if err != nil {
		t.Fatalf("ensure second: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("expected stable instance id, got %s and %s", first.ID, second.ID)
	}
	if first.ID != identity.WidgetInstanceUUID(definition.ID, "sidebar") {
		t.Fatalf("expected deterministic keyed id, got %s", first.ID)
	}

	all, err := svc.ListAllInstances(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected single instance, got %d", len(all))
	}
}

func TestUpdateInstanceRevalidatesConfiguration(t *testing.T) {
	svc := newWidgetService(t)
	ctx := context.Background()

	definition, err := svc.RegisterDefinition(ctx, CounterDefinition())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	instance, err := svc.CreateInstance(ctx, CreateInstanceInput{DefinitionID: definition.ID})
	if err != nil {
		t.Fatalf("create instance: %v", err)
	}

	if _, err := svc.UpdateInstance(ctx, UpdateInstanceInput{
		InstanceID:    instance.ID,
		Configuration: map[string]any{"rogue": true},
	}); !errors.Is(err, ErrInstanceConfigurationInvalid) {
		t.Fatalf("expected configuration rejection, got %v", err)
	}

	updated, err := svc.UpdateInstance(ctx, UpdateInstanceInput{
		InstanceID:    instance.ID,
		Configuration: map[string]any{"label": "Tally", "start": 7},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Configuration["label"] != "Tally" || updated.Configuration["start"] != 7 {
		t.Fatalf("expected updated configuration, got %v", updated.Configuration)
	}
}

func TestDeleteDefinitionInUse(t *testing.T) {
	svc := newWidgetService(t)
	ctx := context.Background()

	definition, err := svc.RegisterDefinition(ctx, CounterDefinition())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	instance, err := svc.CreateInstance(ctx, CreateInstanceInput{DefinitionID: definition.ID})
	if err != nil {
		t.Fatalf("create instance: %v", err)
	}

	if err := svc.DeleteDefinition(ctx, definition.ID); !errors.Is(err, ErrDefinitionInUse) {
		t.Fatalf("expected ErrDefinitionInUse, got %v", err)
	}

	if err := svc.DeleteInstance(ctx, instance.ID); err != nil {
		t.Fatalf("delete instance: %v", err)
	}
	if err := svc.DeleteDefinition(ctx, definition.ID); err != nil {
		t.Fatalf("delete definition: %v", err)
	}
}

func TestSyncRegistryRegistersBuiltins(t *testing.T) {
	registry := NewRegistry()
	registry.RegisterFactory(CounterWidgetName, CounterRegistration(NewCounterRenderer(nil)))

	svc := newWidgetService(t, WithRegistry(registry))

	definition, err := svc.GetDefinitionByName(context.Background(), CounterWidgetName)
	if err != nil {
		t.Fatalf("expected builtin registered at construction, got %v", err)
	}
	if definition.Defaults["start"] != 0 {
		t.Fatalf("expected counter defaults, got %v", definition.Defaults)
	}
}

func TestCounterRenderReflectsLiveCell(t *testing.T) {
	renderer := NewCounterRenderer(nil)
	registry := NewRegistry()
	registry.RegisterFactory(CounterWidgetName, CounterRegistration(renderer))

	svc := newWidgetService(t, WithRegistry(registry))
	ctx := context.Background()

	definition, err := svc.GetDefinitionByName(ctx, CounterWidgetName)
	if err != nil {
		t.Fatalf("get definition: %v", err)
	}

	instance, err := svc.CreateInstance(ctx, CreateInstanceInput{
		DefinitionID:  definition.ID,
		Key:           "post-demo",
		Configuration: map[string]any{"label": "Demo", "start": 2},
	})
	if err != nil {
		t.Fatalf("create instance: %v", err)
	}

	html, err := svc.Render(ctx, instance.ID)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(html, `data-value="2"`) {
		t.Fatalf("expected seeded value in fragment, got %s", html)
	}
	if !strings.Contains(html, ">Demo<") {
		t.Fatalf("expected label in fragment, got %s", html)
	}

	cell := renderer.Cell(instance)
	cell.Increment()

	html, err = svc.Render(ctx, instance.ID)
	if err != nil {
		t.Fatalf("render after increment: %v", err)
	}
	if !strings.Contains(html, `data-value="3"`) {
		t.Fatalf("expected live value in fragment, got %s", html)
	}

	var fragments []string
	cell.OnChange(func(int) {
		refreshed, renderErr := svc.Render(ctx, instance.ID)
		if renderErr != nil {
			t.Fatalf("render inside observer: %v", renderErr)
		}
		fragments = append(fragments, refreshed)
	})

	cell.Decrement()
	if len(fragments) != 1 {
		t.Fatalf("expected one re-render, got %d", len(fragments))
	}
	if !strings.Contains(fragments[0], `data-value="2"`) {
		t.Fatalf("expected post-transition value in re-render, got %s", fragments[0])
	}
}

func TestRenderWithoutRenderer(t *testing.T) {
	svc := newWidgetService(t)
	ctx := context.Background()

	definition, err := svc.RegisterDefinition(ctx, CounterDefinition())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	instance, err := svc.CreateInstance(ctx, CreateInstanceInput{DefinitionID: definition.ID})
	if err != nil {
		t.Fatalf("create instance: %v", err)
	}

	if _, err := svc.Render(ctx, instance.ID); !errors.Is(err, ErrRendererNotRegistered) {
		t.Fatalf("expected ErrRendererNotRegistered, got %v", err)
	}
}

func TestRenderMissingInstance(t *testing.T) {
	svc := newWidgetService(t)

	_, err := svc.Render(context.Background(), uuid.New())
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
