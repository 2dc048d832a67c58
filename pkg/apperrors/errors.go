package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrUnknownFieldType = errors.New("unknown field type")
)

// InvalidFieldSpecError reports a field specification that is structurally
// invalid (missing key/label/type, unknown type, duplicate key, bad options).
type InvalidFieldSpecError struct {
	Reason string
}

func (e *InvalidFieldSpecError) Error() string {
	return fmt.Sprintf("invalid field spec: %s", e.Reason)
}

// NoDefinitionError indicates that no active definition exists for a model type.
type NoDefinitionError struct {
	ModelType string
}

func (e *NoDefinitionError) Error() string {
	return fmt.Sprintf("no custom field definition found for model type %q", e.ModelType)
}

// UnknownFieldError indicates that a field key is not declared in the
// active definition for the entity's model type.
type UnknownFieldError struct {
	Key string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("custom field %q is not defined for this model", e.Key)
}

// RequiredFieldEmptyError indicates an empty write to a required field.
type RequiredFieldEmptyError struct {
	Key string
}

func (e *RequiredFieldEmptyError) Error() string {
	return fmt.Sprintf("custom field %q is required", e.Key)
}

// InvalidOptionError indicates a select-field write whose value matches no
// declared option.
type InvalidOptionError struct {
	Key   string
	Value string
}

func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("invalid option %q for select field %q", e.Value, e.Key)
}
