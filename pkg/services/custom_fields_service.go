package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/xoshbin/customfields/pkg/apperrors"
	"github.com/xoshbin/customfields/pkg/models"
	"github.com/xoshbin/customfields/pkg/repositories"
	"github.com/xoshbin/customfields/pkg/validation"
)

// CustomFieldsService is the capability host entities use to interact with
// their custom fields. The model-type label map is injected once at
// construction; there is no ambient registry to consult later.
type CustomFieldsService interface {
	// Attach resolves the entity's active definition and loads its value
	// collection. The returned Attachment is the sole entry point for
	// reading and writing the entity's custom fields.
	Attach(ctx context.Context, entity models.EntityRef) (*Attachment, error)

	// PurgeEntity hard-deletes every value row of an entity instance.
	// Hosts call this from their entity-deletion hook, before the instance
	// itself is removed. Returns the number of rows deleted.
	PurgeEntity(ctx context.Context, entity models.EntityRef) (int64, error)

	// ModelTypes returns the configured model-type-to-label map.
	ModelTypes() map[string]string
}

type customFieldsService struct {
	defRepo    repositories.DefinitionRepository
	valueRepo  repositories.ValueRepository
	modelTypes map[string]string
	logger     *zap.Logger
}

// NewCustomFieldsService creates a CustomFieldsService. modelTypes maps
// entity type tags to display labels for admin tooling; it does not gate
// Attach, which works for any type tag that has a definition.
func NewCustomFieldsService(
	defRepo repositories.DefinitionRepository,
	valueRepo repositories.ValueRepository,
	modelTypes map[string]string,
	logger *zap.Logger,
) CustomFieldsService {
	return &customFieldsService{
		defRepo:    defRepo,
		valueRepo:  valueRepo,
		modelTypes: modelTypes,
		logger:     logger,
	}
}

var _ CustomFieldsService = (*customFieldsService)(nil)

func (s *customFieldsService) Attach(ctx context.Context, entity models.EntityRef) (*Attachment, error) {
	def, err := s.defRepo.GetByModelType(ctx, entity.Type)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve definition: %w", err)
	}

	a := &Attachment{svc: s, entity: entity, def: def}
	if err := a.reload(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *customFieldsService) PurgeEntity(ctx context.Context, entity models.EntityRef) (int64, error) {
	deleted, err := s.valueRepo.DeleteForEntity(ctx, entity)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info("Purged custom field values",
			zap.String("entity_type", entity.Type),
			zap.Int64("entity_id", entity.ID),
			zap.Int64("deleted", deleted))
	}
	return deleted, nil
}

func (s *customFieldsService) ModelTypes() map[string]string {
	out := make(map[string]string, len(s.modelTypes))
	for k, v := range s.modelTypes {
		out[k] = v
	}
	return out
}

// FieldState pairs a declared field spec with the entity's current value
// for it. Value is nil when no row is stored yet.
type FieldState struct {
	Spec     models.FieldSpec `json:"definition"`
	Value    any              `json:"value"`
	HasValue bool             `json:"has_value"`
}

// Attachment is one entity instance's view of its custom fields: the active
// definition plus the loaded value collection. Reads hit the loaded
// collection, not the database; writes go through the repository and then
// reload the collection so subsequent reads in the same unit of work see
// them.
type Attachment struct {
	svc    *customFieldsService
	entity models.EntityRef
	def    *models.Definition
	values map[string]*models.Value
}

// Definition returns the active definition for the entity's type, or nil.
func (a *Attachment) Definition() *models.Definition {
	return a.def
}

// Value returns the cast value for key, or nil when no value is stored.
// Missing keys are not an error on the read path.
func (a *Attachment) Value(key string) (any, error) {
	v, ok := a.values[key]
	if !ok {
		return nil, nil
	}
	return v.CastValue(a.def)
}

// SetValue validates and writes one field value. The write is an upsert:
// a second set on the same key overwrites in place.
func (a *Attachment) SetValue(ctx context.Context, key string, input any) error {
	if a.def == nil {
		return &apperrors.NoDefinitionError{ModelType: a.entity.Type}
	}

	spec := a.def.FieldSpec(key)
	if spec == nil {
		return &apperrors.UnknownFieldError{Key: key}
	}

	if spec.Required && models.IsEmptyInput(input) {
		return &apperrors.RequiredFieldEmptyError{Key: key}
	}

	if spec.Type == models.FieldTypeSelect && !models.IsEmptyInput(input) {
		s := cast.ToString(input)
		if !spec.HasOption(s) {
			return &apperrors.InvalidOptionError{Key: key, Value: s}
		}
	}

	value := a.values[key]
	if value == nil {
		value = &models.Value{
			DefinitionID: a.def.ID,
			Entity:       a.entity,
			FieldKey:     key,
		}
	}
	if err := value.SetValue(a.def, input); err != nil {
		return err
	}

	if err := a.svc.valueRepo.Upsert(ctx, value); err != nil {
		return err
	}

	return a.reload(ctx)
}

// SetValues applies SetValue per entry: declared fields first in definition
// order, then undeclared keys in sorted order (those fail with
// UnknownFieldError). Not transactional — a failure partway leaves the
// entries already applied committed. Callers needing atomicity wrap the
// call in their own transaction boundary.
func (a *Attachment) SetValues(ctx context.Context, values map[string]any) error {
	if a.def == nil {
		return &apperrors.NoDefinitionError{ModelType: a.entity.Type}
	}

	remaining := make(map[string]bool, len(values))
	for key := range values {
		remaining[key] = true
	}

	for _, spec := range a.def.Fields {
		if _, ok := values[spec.Key]; !ok {
			continue
		}
		if err := a.SetValue(ctx, spec.Key, values[spec.Key]); err != nil {
			return err
		}
		delete(remaining, spec.Key)
	}

	leftover := make([]string, 0, len(remaining))
	for key := range remaining {
		leftover = append(leftover, key)
	}
	sort.Strings(leftover)
	for _, key := range leftover {
		if err := a.SetValue(ctx, key, values[key]); err != nil {
			return err
		}
	}

	return nil
}

// RemoveValue deletes the stored value for key, if any. Returns whether a
// row was deleted.
func (a *Attachment) RemoveValue(ctx context.Context, key string) (bool, error) {
	deleted, err := a.svc.valueRepo.Delete(ctx, a.entity, key)
	if err != nil {
		return false, err
	}
	if deleted {
		if err := a.reload(ctx); err != nil {
			return true, err
		}
	}
	return deleted, nil
}

// HasValue reports whether a non-empty value is stored for key.
func (a *Attachment) HasValue(key string) bool {
	v, ok := a.values[key]
	return ok && v.HasValue()
}

// AllValues returns every stored value cast to its field type, keyed by
// field key.
func (a *Attachment) AllValues() (map[string]any, error) {
	out := make(map[string]any, len(a.values))
	for key, v := range a.values {
		typed, err := v.CastValue(a.def)
		if err != nil {
			return nil, fmt.Errorf("failed to cast field %q: %w", key, err)
		}
		out[key] = typed
	}
	return out, nil
}

// FieldsWithValues joins every declared field spec with the entity's
// current value. Fields without a stored value appear with a nil value.
func (a *Attachment) FieldsWithValues() (map[string]FieldState, error) {
	out := make(map[string]FieldState)
	if a.def == nil {
		return out, nil
	}

	for _, spec := range a.def.Fields {
		state := FieldState{Spec: spec, HasValue: a.HasValue(spec.Key)}
		if v, ok := a.values[spec.Key]; ok {
			typed, err := v.CastValue(a.def)
			if err != nil {
				return nil, fmt.Errorf("failed to cast field %q: %w", spec.Key, err)
			}
			state.Value = typed
		}
		out[spec.Key] = state
	}
	return out, nil
}

// ValidateValues dry-runs the full rule set of every declared field against
// the supplied inputs, without writing anything. The result maps field keys
// to violation messages; an empty map means everything passes. Inputs for
// undeclared keys are ignored.
func (a *Attachment) ValidateValues(values map[string]any) map[string][]string {
	errs := make(map[string][]string)
	if a.def == nil {
		return errs
	}

	for _, spec := range a.def.Fields {
		rules := spec.AppliedValidationRules()
		if msgs := validation.Evaluate(values[spec.Key], rules); len(msgs) > 0 {
			errs[spec.Key] = msgs
		}
	}
	return errs
}

// DisplayValue formats the stored value for key for user-facing rendering;
// "" when absent or non-displayable.
func (a *Attachment) DisplayValue(key string) string {
	v, ok := a.values[key]
	if !ok {
		return ""
	}
	return v.DisplayValue(a.def)
}

// SearchableValues returns display values for every field that has one,
// keyed by field key. Feeds global-search indexing.
func (a *Attachment) SearchableValues() map[string]string {
	out := make(map[string]string)
	for key, v := range a.values {
		if display := v.DisplayValue(a.def); display != "" {
			out[key] = display
		}
	}
	return out
}

func (a *Attachment) reload(ctx context.Context) error {
	values, err := a.svc.valueRepo.GetForEntity(ctx, a.entity)
	if err != nil {
		return fmt.Errorf("failed to load values: %w", err)
	}

	a.values = make(map[string]*models.Value, len(values))
	for _, v := range values {
		a.values[v.FieldKey] = v
	}
	return nil
}
