package shortcode

import (
	"errors"
	"testing"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

func TestRegistryRegisterAndGet(t *testing.T) {
	registry := NewRegistry(NewValidator())

	err := registry.Register(interfaces.ShortcodeDefinition{
		Name:     "Badge",
		Template: "<span>badge</span>",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if _, ok := registry.Get("badge"); !ok {
		t.Fatal("expected lowercase lookup to find definition")
	}
	if _, ok := registry.Get("BADGE"); !ok {
		t.Fatal("expected case-insensitive lookup to find definition")
	}
}

func TestRegistryRejectsDuplicate(t *testing.T) {
	registry := NewRegistry(NewValidator())
	def := interfaces.ShortcodeDefinition{Name: "badge", Template: "<span/>"}

	if err := registry.Register(def); err != nil {
		t.Fatalf("first Register returned error: %v", err)
	}
	if err := registry.Register(def); !errors.Is(err, ErrDuplicateDefinition) {
		t.Fatalf("expected ErrDuplicateDefinition, got %v", err)
	}
}

func TestRegistryRejectsInvalidDefinition(t *testing.T) {
	registry := NewRegistry(NewValidator())

	if err := registry.Register(interfaces.ShortcodeDefinition{}); !errors.Is(err, ErrInvalidDefinition) {
		t.Fatalf("expected ErrInvalidDefinition for missing name, got %v", err)
	}

	err := registry.Register(interfaces.ShortcodeDefinition{
		Name: "broken",
		Schema: interfaces.ShortcodeSchema{
			Params: []interfaces.ShortcodeParam{{Name: "value", Type: "decimal"}},
		},
	})
	if !errors.Is(err, ErrInvalidDefinition) {
		t.Fatalf("expected ErrInvalidDefinition for unknown param type, got %v", err)
	}
}

func TestNewBuiltInRegistrySeedsStockShortcodes(t *testing.T) {
	registry, err := NewBuiltInRegistry(NewValidator())
	if err != nil {
		t.Fatalf("NewBuiltInRegistry returned error: %v", err)
	}

	for _, name := range []string{"youtube", "alert", "gallery", "figure", "code"} {
		if _, ok := registry.Get(name); !ok {
			t.Fatalf("expected builtin %s to be registered", name)
		}
	}
}

func TestNewBuiltInRegistryAppendsExtras(t *testing.T) {
	extra := interfaces.ShortcodeDefinition{Name: "badge", Template: "<span/>"}

	registry, err := NewBuiltInRegistry(NewValidator(), extra)
	if err != nil {
		t.Fatalf("NewBuiltInRegistry returned error: %v", err)
	}
	if _, ok := registry.Get("badge"); !ok {
		t.Fatal("expected extra definition to be registered")
	}

	if _, err := NewBuiltInRegistry(NewValidator(), extra, extra); !errors.Is(err, ErrDuplicateDefinition) {
		t.Fatalf("expected duplicate extra to fail seeding, got %v", err)
	}
}

func TestRegistryListSortedAndRemove(t *testing.T) {
	registry := NewRegistry(NewValidator())

	for _, name := range []string{"zeta", "alpha"} {
		if err := registry.Register(interfaces.ShortcodeDefinition{Name: name, Template: "<i/>"}); err != nil {
			t.Fatalf("Register %s returned error: %v", name, err)
		}
	}

	list := registry.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 definitions, got %d", len(list))
	}
	if list[0].Name != "alpha" || list[1].Name != "zeta" {
		t.Fatalf("expected name-ordered list, got %s, %s", list[0].Name, list[1].Name)
	}

	registry.Remove("ALPHA")
	if _, ok := registry.Get("alpha"); ok {
		t.Fatal("expected alpha to be removed")
	}
	if len(registry.List()) != 1 {
		t.Fatalf("expected 1 definition after removal, got %d", len(registry.List()))
	}
}
