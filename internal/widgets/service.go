package widgets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-blog/internal/identity"
	"github.com/goliatone/go-blog/internal/validation"
	"github.com/google/uuid"
)

// Service exposes widget management and rendering capabilities.
type Service interface {
	RegisterDefinition(ctx context.Context, input RegisterDefinitionInput) (*Definition, error)
	GetDefinition(ctx context.Context, id uuid.UUID) (*Definition, error)
	GetDefinitionByName(ctx context.Context, name string) (*Definition, error)
	ListDefinitions(ctx context.Context) ([]*Definition, error)
	DeleteDefinition(ctx context.Context, id uuid.UUID) error
	SyncRegistry(ctx context.Context) error

	CreateInstance(ctx context.Context, input CreateInstanceInput) (*Instance, error)
	EnsureInstance(ctx context.Context, input CreateInstanceInput) (*Instance, error)
	UpdateInstance(ctx context.Context, input UpdateInstanceInput) (*Instance, error)
	GetInstance(ctx context.Context, id uuid.UUID) (*Instance, error)
	ListInstancesByDefinition(ctx context.Context, definitionID uuid.UUID) ([]*Instance, error)
	ListAllInstances(ctx context.Context) ([]*Instance, error)
	DeleteInstance(ctx context.Context, id uuid.UUID) error

	Render(ctx context.Context, instanceID uuid.UUID) (string, error)
}

// RegisterDefinitionInput captures the information required to register a widget definition.
type RegisterDefinitionInput struct {
	Name        string
	Description *string
	Schema      map[string]any
	Defaults    map[string]any
	Category    *string
	Icon        *string
}

// CreateInstanceInput defines the payload required to create a widget instance.
// A non-empty Key derives a deterministic instance ID so repeated builds bind
// the same instance.
type CreateInstanceInput struct {
	DefinitionID  uuid.UUID
	Key           string
	Configuration map[string]any
	Position      int
}

// UpdateInstanceInput defines mutable fields for a widget instance.
type UpdateInstanceInput struct {
	InstanceID    uuid.UUID
	Configuration map[string]any
	Position      *int
}

var (
	ErrDefinitionNameRequired    = errors.New("widgets: definition name required")
	ErrDefinitionSchemaRequired  = errors.New("widgets: definition schema required")
	ErrDefinitionSchemaInvalid   = errors.New("widgets: definition schema invalid")
	ErrDefinitionExists          = errors.New("widgets: definition already exists")
	ErrDefinitionDefaultsInvalid = errors.New("widgets: defaults rejected by schema")
	ErrDefinitionInUse           = errors.New("widgets: definition has active instances")

	ErrInstanceDefinitionRequired   = errors.New("widgets: definition id required")
	ErrInstanceIDRequired           = errors.New("widgets: instance id required")
	ErrInstancePositionInvalid      = errors.New("widgets: position cannot be negative")
	ErrInstanceConfigurationInvalid = errors.New("widgets: configuration rejected by schema")
	ErrRendererNotRegistered        = errors.New("widgets: no renderer registered for widget")
)

// IDGenerator produces identifiers for keyless widget instances.
type IDGenerator func() uuid.UUID

// ServiceOption configures widget service behaviour.
type ServiceOption func(*service)

// WithClock overrides the time source used by the service.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator overrides the ID generator used for keyless instances.
func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithRegistry injects a widget registry that provides built-in and host-defined widgets.
func WithRegistry(reg *Registry) ServiceOption {
	return func(s *service) {
		if reg != nil {
			s.registry = reg
		}
	}
}

type service struct {
	definitions DefinitionRepository
	instances   InstanceRepository
	now         func() time.Time
	id          IDGenerator
	registry    *Registry
}

// NewService constructs a widget service instance. Registered registry
// definitions are synced into the repository on construction.
func NewService(defRepo DefinitionRepository, instRepo InstanceRepository, opts ...ServiceOption) Service {
	s := &service{
		definitions: defRepo,
		instances:   instRepo,
		now:         time.Now,
		id:          uuid.New,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.applyRegistry(context.Background())

	return s
}

// RegisterDefinition validates and stores a widget definition. Definition
// identifiers derive from the canonical name, so re-registration across
// process restarts yields stable IDs.
func (s *service) RegisterDefinition(ctx context.Context, input RegisterDefinitionInput) (*Definition, error) {
	name := canonicalKey(input.Name)
	if name == "" {
		return nil, ErrDefinitionNameRequired
	}
	if len(input.Schema) == 0 {
		return nil, ErrDefinitionSchemaRequired
	}

	if err := validation.ValidateSchema(input.Schema); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDefinitionSchemaInvalid, err)
	}
	if err := validateDefaultsAgainstSchema(input.Schema, input.Defaults); err != nil {
		return nil, err
	}

	if existing, err := s.definitions.GetByName(ctx, name); err == nil && existing != nil {
		return nil, ErrDefinitionExists
	} else if err != nil {
		var nf *NotFoundError
		if !errors.As(err, &nf) {
			return nil, err
		}
	}

	now := s.now()
	definition := &Definition{
		ID:          identity.WidgetDefinitionUUID(name),
		Name:        name,
		Description: cloneString(input.Description),
		Schema:      deepCloneMap(input.Schema),
		Defaults:    deepCloneMap(input.Defaults),
		Category:    cloneString(input.Category),
		Icon:        cloneString(input.Icon),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	return s.definitions.Create(ctx, definition)
}

func (s *service) GetDefinition(ctx context.Context, id uuid.UUID) (*Definition, error) {
	return s.definitions.GetByID(ctx, id)
}

func (s *service) GetDefinitionByName(ctx context.Context, name string) (*Definition, error) {
	return s.definitions.GetByName(ctx, canonicalKey(name))
}

func (s *service) ListDefinitions(ctx context.Context) ([]*Definition, error) {
	return s.definitions.List(ctx)
}

func (s *service) DeleteDefinition(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return &NotFoundError{Resource: "widget_definition", Key: ""}
	}
	instances, err := s.instances.ListByDefinition(ctx, id)
	if err != nil {
		return err
	}
	if len(instances) > 0 {
		return ErrDefinitionInUse
	}
	return s.definitions.Delete(ctx, id)
}

// SyncRegistry registers any registry definitions missing from the repository.
func (s *service) SyncRegistry(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s.applyRegistry(ctx)
	return nil
}

func (s *service) applyRegistry(ctx context.Context) {
	if s.registry == nil {
		return
	}
	for _, entry := range s.registry.List() {
		if entry.Name == "" {
			continue
		}
		if _, err := s.definitions.GetByName(ctx, canonicalKey(entry.Name)); err == nil {
			continue
		}
		_, _ = s.RegisterDefinition(ctx, entry)
	}
}

func (s *service) CreateInstance(ctx context.Context, input CreateInstanceInput) (*Instance, error) {
	if input.DefinitionID == uuid.Nil {
		return nil, ErrInstanceDefinitionRequired
	}
	if input.Position < 0 {
		return nil, ErrInstancePositionInvalid
	}

	definition, err := s.definitions.GetByID(ctx, input.DefinitionID)
	if err != nil {
		return nil, err
	}

	if err := validateConfiguration(definition.Schema, input.Configuration); err != nil {
		return nil, err
	}

	key := strings.TrimSpace(input.Key)
	id := s.id()
	if key != "" {
		id = identity.WidgetInstanceUUID(definition.ID, key)
	}

	now := s.now()
	instance := &Instance{
		ID:            id,
		DefinitionID:  definition.ID,
		Key:           key,
		Configuration: mergeConfiguration(definition.Defaults, input.Configuration),
		Position:      input.Position,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	return s.instances.Create(ctx, instance)
}

// EnsureInstance returns the existing instance bound to the input's key, or
// creates one. Keyless inputs always create.
func (s *service) EnsureInstance(ctx context.Context, input CreateInstanceInput) (*Instance, error) {
	key := strings.TrimSpace(input.Key)
	if key == "" || input.DefinitionID == uuid.Nil {
		return s.CreateInstance(ctx, input)
	}

	id := identity.WidgetInstanceUUID(input.DefinitionID, key)
	existing, err := s.instances.GetByID(ctx, id)
	if err == nil {
		return existing, nil
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		return nil, err
	}
	return s.CreateInstance(ctx, input)
}

func (s *service) UpdateInstance(ctx context.Context, input UpdateInstanceInput) (*Instance, error) {
	if input.InstanceID == uuid.Nil {
		return nil, ErrInstanceIDRequired
	}
	if input.Position != nil && *input.Position < 0 {
		return nil, ErrInstancePositionInvalid
	}

	instance, err := s.instances.GetByID(ctx, input.InstanceID)
	if err != nil {
		return nil, err
	}

	definition, err := s.definitions.GetByID(ctx, instance.DefinitionID)
	if err != nil {
		return nil, err
	}

	if input.Configuration != nil {
		if err := validateConfiguration(definition.Schema, input.Configuration); err != nil {
			return nil, err
		}
		instance.Configuration = mergeConfiguration(definition.Defaults, input.Configuration)
	}
	if input.Position != nil {
		instance.Position = *input.Position
	}
	instance.UpdatedAt = s.now()

	return s.instances.Update(ctx, instance)
}

func (s *service) GetInstance(ctx context.Context, id uuid.UUID) (*Instance, error) {
	return s.instances.GetByID(ctx, id)
}

func (s *service) ListInstancesByDefinition(ctx context.Context, definitionID uuid.UUID) ([]*Instance, error) {
	return s.instances.ListByDefinition(ctx, definitionID)
}

func (s *service) ListAllInstances(ctx context.Context) ([]*Instance, error) {
	return s.instances.ListAll(ctx)
}

func (s *service) DeleteInstance(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrInstanceIDRequired
	}
	return s.instances.Delete(ctx, id)
}

// Render resolves the instance's definition and delegates to the renderer
// registered under the definition name.
func (s *service) Render(ctx context.Context, instanceID uuid.UUID) (string, error) {
	if instanceID == uuid.Nil {
		return "", ErrInstanceIDRequired
	}

	instance, err := s.instances.GetByID(ctx, instanceID)
	if err != nil {
		return "", err
	}

	definition, err := s.definitions.GetByID(ctx, instance.DefinitionID)
	if err != nil {
		return "", err
	}

	if s.registry == nil {
		return "", ErrRendererNotRegistered
	}
	renderer := s.registry.Renderer(definition.Name)
	if renderer == nil {
		return "", ErrRendererNotRegistered
	}

	return renderer.Render(ctx, definition, instance)
}

func validateConfiguration(schema map[string]any, configuration map[string]any) error {
	if configuration == nil {
		return nil
	}
	allowed := allowedFields(schema)
	if len(allowed) > 0 {
		for key := range configuration {
			if !allowed[key] {
				return ErrInstanceConfigurationInvalid
			}
		}
	}
	if err := validation.ValidatePartialPayload(schema, configuration); err != nil {
		return fmt.Errorf("%w: %v", ErrInstanceConfigurationInvalid, err)
	}
	return nil
}

func validateDefaultsAgainstSchema(schema map[string]any, defaults map[string]any) error {
	if defaults == nil {
		return nil
	}
	allowed := allowedFields(schema)
	if len(allowed) > 0 {
		for key := range defaults {
			if !allowed[key] {
				return ErrDefinitionDefaultsInvalid
			}
		}
	}
	if err := validation.ValidatePartialPayload(schema, defaults); err != nil {
		return fmt.Errorf("%w: %v", ErrDefinitionDefaultsInvalid, err)
	}
	return nil
}

func allowedFields(schema map[string]any) map[string]bool {
	if len(schema) == 0 {
		return map[string]bool{}
	}
	fields, ok := schema["fields"]
	if !ok {
		return map[string]bool{}
	}

	result := make(map[string]bool)
	switch typed := fields.(type) {
	case []any:
		for _, entry := range typed {
			if fieldMap, ok := entry.(map[string]any); ok {
				if name, ok := fieldMap["name"].(string); ok {
					name = strings.TrimSpace(name)
					if name != "" {
						result[name] = true
					}
				}
			}
		}
	case []map[string]any:
		for _, fieldMap := range typed {
			if name, ok := fieldMap["name"].(string); ok {
				name = strings.TrimSpace(name)
				if name != "" {
					result[name] = true
				}
			}
		}
	}
	return result
}

func mergeConfiguration(base map[string]any, overlay map[string]any) map[string]any {
	merged := deepCloneMap(base)
	if merged == nil {
		merged = make(map[string]any)
	}
	for key, value := range overlay {
		merged[key] = deepCloneValue(value)
	}
	if len(merged) == 0 {
		return nil
	}
	return merged
}

func cloneString(src *string) *string {
	if src == nil {
		return nil
	}
	cloned := strings.Clone(*src)
	return &cloned
}

func deepCloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for key, value := range src {
		out[key] = deepCloneValue(value)
	}
	return out
}

func deepCloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return deepCloneMap(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = deepCloneValue(item)
		}
		return out
	default:
		return value
	}
}
