package shortcode

import "errors"

var (
	// ErrDuplicateDefinition indicates the shortcode name is already registered.
	ErrDuplicateDefinition = errors.New("shortcode: duplicate definition")
	// ErrInvalidDefinition indicates the definition failed validation.
	ErrInvalidDefinition = errors.New("shortcode: invalid definition")
	// ErrUnknownShortcode indicates content referenced a shortcode that has no
	// registered definition.
	ErrUnknownShortcode = errors.New("shortcode: unknown shortcode")
)
