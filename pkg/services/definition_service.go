package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xoshbin/customfields/pkg/apperrors"
	"github.com/xoshbin/customfields/pkg/models"
	"github.com/xoshbin/customfields/pkg/repositories"
)

// DefinitionService owns definition lifecycle and field-list mutations.
// Every write path re-validates the full definition before persisting, so
// an invalid or duplicate-keyed spec can never reach storage through this
// service.
type DefinitionService interface {
	Create(ctx context.Context, def *models.Definition) error
	Update(ctx context.Context, def *models.Definition) error
	// Delete removes a definition; its value rows go with it via the
	// storage-level cascade.
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*models.Definition, error)
	// GetForModelType returns the active definition for a model type, or
	// nil. This is the entity-facing lookup.
	GetForModelType(ctx context.Context, modelType string) (*models.Definition, error)
	// FindByModelType returns the definition for a model type regardless of
	// its active state, or nil. Admin tooling resolves through this so a
	// deactivated definition stays reachable for re-apply and delete.
	FindByModelType(ctx context.Context, modelType string) (*models.Definition, error)
	List(ctx context.Context) ([]*models.Definition, error)

	// AddField appends a validated spec to the definition's field list.
	AddField(ctx context.Context, definitionID uuid.UUID, spec models.FieldSpec) error
	// UpdateField replaces the first spec matching key; false when no match.
	UpdateField(ctx context.Context, definitionID uuid.UUID, key string, spec models.FieldSpec) (bool, error)
	// RemoveField deletes all specs matching key; false when no match.
	// Existing values under the removed key are not touched — they become
	// orphaned and unresolvable through the façade.
	RemoveField(ctx context.Context, definitionID uuid.UUID, key string) (bool, error)

	// Validate runs the full structural check and returns errors keyed by
	// field list index. Empty map means valid.
	Validate(def *models.Definition) map[int][]string
}

type definitionService struct {
	defRepo repositories.DefinitionRepository
	logger  *zap.Logger
}

// NewDefinitionService creates a DefinitionService.
func NewDefinitionService(defRepo repositories.DefinitionRepository, logger *zap.Logger) DefinitionService {
	return &definitionService{defRepo: defRepo, logger: logger}
}

var _ DefinitionService = (*definitionService)(nil)

func (s *definitionService) Create(ctx context.Context, def *models.Definition) error {
	def.SetFields(def.Fields)
	if err := s.checkValid(def); err != nil {
		return err
	}

	if err := s.defRepo.Create(ctx, def); err != nil {
		return err
	}

	s.logger.Info("Created custom field definition",
		zap.String("model_type", def.ModelType),
		zap.Int("fields", len(def.Fields)))
	return nil
}

func (s *definitionService) Update(ctx context.Context, def *models.Definition) error {
	def.SetFields(def.Fields)
	if err := s.checkValid(def); err != nil {
		return err
	}

	if err := s.defRepo.Update(ctx, def); err != nil {
		return err
	}

	s.logger.Info("Updated custom field definition",
		zap.String("model_type", def.ModelType),
		zap.Int("fields", len(def.Fields)))
	return nil
}

func (s *definitionService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.defRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Deleted custom field definition", zap.String("id", id.String()))
	return nil
}

func (s *definitionService) Get(ctx context.Context, id uuid.UUID) (*models.Definition, error) {
	return s.defRepo.GetByID(ctx, id)
}

func (s *definitionService) GetForModelType(ctx context.Context, modelType string) (*models.Definition, error) {
	return s.defRepo.GetByModelType(ctx, modelType)
}

func (s *definitionService) FindByModelType(ctx context.Context, modelType string) (*models.Definition, error) {
	defs, err := s.defRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, def := range defs {
		if def.ModelType == modelType {
			return def, nil
		}
	}
	return nil, nil
}

func (s *definitionService) List(ctx context.Context) ([]*models.Definition, error) {
	return s.defRepo.List(ctx)
}

func (s *definitionService) AddField(ctx context.Context, definitionID uuid.UUID, spec models.FieldSpec) error {
	def, err := s.defRepo.GetByID(ctx, definitionID)
	if err != nil {
		return err
	}

	if err := def.AddField(spec); err != nil {
		return err
	}

	if err := s.defRepo.Update(ctx, def); err != nil {
		return fmt.Errorf("failed to persist field addition: %w", err)
	}
	return nil
}

func (s *definitionService) UpdateField(ctx context.Context, definitionID uuid.UUID, key string, spec models.FieldSpec) (bool, error) {
	def, err := s.defRepo.GetByID(ctx, definitionID)
	if err != nil {
		return false, err
	}

	replaced, err := def.UpdateField(key, spec)
	if err != nil || !replaced {
		return false, err
	}

	if err := s.defRepo.Update(ctx, def); err != nil {
		return false, fmt.Errorf("failed to persist field update: %w", err)
	}
	return true, nil
}

func (s *definitionService) RemoveField(ctx context.Context, definitionID uuid.UUID, key string) (bool, error) {
	def, err := s.defRepo.GetByID(ctx, definitionID)
	if err != nil {
		return false, err
	}

	if !def.RemoveField(key) {
		return false, nil
	}

	if err := s.defRepo.Update(ctx, def); err != nil {
		return false, fmt.Errorf("failed to persist field removal: %w", err)
	}
	return true, nil
}

func (s *definitionService) Validate(def *models.Definition) map[int][]string {
	return def.Validate()
}

func (s *definitionService) checkValid(def *models.Definition) error {
	errs := def.Validate()
	if len(errs) == 0 {
		return nil
	}

	indexes := make([]int, 0, len(errs))
	for i := range errs {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	parts := make([]string, 0, len(indexes))
	for _, i := range indexes {
		parts = append(parts, fmt.Sprintf("field %d: %s", i, strings.Join(errs[i], ", ")))
	}
	return &apperrors.InvalidFieldSpecError{Reason: strings.Join(parts, "; ")}
}
