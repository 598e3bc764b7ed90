package widgets

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrFeatureDisabled indicates the widget feature is disabled via configuration.
var ErrFeatureDisabled = errors.New("widgets: feature disabled")

type noOpService struct{}

// NewNoOpService returns a Service implementation that always reports the feature as disabled.
func NewNoOpService() Service {
	return noOpService{}
}

func (noOpService) RegisterDefinition(context.Context, RegisterDefinitionInput) (*Definition, error) {
	return nil, ErrFeatureDisabled
}

func (noOpService) GetDefinition(context.Context, uuid.UUID) (*Definition, error) {
	return nil, ErrFeatureDisabled
}

func (noOpService) GetDefinitionByName(context.Context, string) (*Definition, error) {
	return nil, ErrFeatureDisabled
}

func (noOpService) ListDefinitions(context.Context) ([]*Definition, error) {
	return nil, ErrFeatureDisabled
}

func (noOpService) DeleteDefinition(context.Context, uuid.UUID) error {
	return ErrFeatureDisabled
}

func (noOpService) SyncRegistry(context.Context) error {
	return ErrFeatureDisabled
}

func (noOpService) CreateInstance(context.Context, CreateInstanceInput) (*Instance, error) {
	return nil, ErrFeatureDisabled
}

func (noOpService) EnsureInstance(context.Context, CreateInstanceInput) (*Instance, error) {
	return nil, ErrFeatureDisabled
}

func (noOpService) UpdateInstance(context.Context, UpdateInstanceInput) (*Instance, error) {
	return nil, ErrFeatureDisabled
}

func (noOpService) GetInstance(context.Context, uuid.UUID) (*Instance, error) {
	return nil, ErrFeatureDisabled
}

func (noOpService) ListInstancesByDefinition(context.Context, uuid.UUID) ([]*Instance, error) {
	return nil, ErrFeatureDisabled
}

func (noOpService) ListAllInstances(context.Context) ([]*Instance, error) {
	return nil, ErrFeatureDisabled
}

func (noOpService) DeleteInstance(context.Context, uuid.UUID) error {
	return ErrFeatureDisabled
}

func (noOpService) Render(context.Context, uuid.UUID) (string, error) {
	return "", ErrFeatureDisabled
}
