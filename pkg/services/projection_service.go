package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/xoshbin/customfields/pkg/models"
	"github.com/xoshbin/customfields/pkg/repositories"
)

// FieldPathPrefix is the dotted prefix table and search layers use to
// address custom fields on a record, e.g. "custom_fields.industry".
const FieldPathPrefix = "custom_fields."

// TableColumn is the rendering metadata for one table-visible custom field.
type TableColumn struct {
	Key     string                `json:"key"`
	Label   string                `json:"label"`
	Type    models.FieldType      `json:"type"`
	Options []models.SelectOption `json:"options,omitempty"`
}

// Path returns the dotted column path for this field.
func (c TableColumn) Path() string {
	return FieldPathPrefix + c.Key
}

// ProjectionService derives which custom fields list/table layers should
// render, search and sort on. Read-only consumer of the definition store.
type ProjectionService interface {
	// TableColumns returns the table-visible fields of a model type in
	// display order. Empty when the type has no active definition.
	TableColumns(ctx context.Context, modelType string) ([]TableColumn, error)

	// SearchablePaths returns dotted field paths usable for text search:
	// table-visible fields of text, textarea or select type.
	SearchablePaths(ctx context.Context, modelType string) ([]string, error)

	// SortablePaths returns dotted field paths usable for sorting: every
	// table-visible field.
	SortablePaths(ctx context.Context, modelType string) ([]string, error)
}

type projectionService struct {
	defRepo repositories.DefinitionRepository
}

// NewProjectionService creates a ProjectionService.
func NewProjectionService(defRepo repositories.DefinitionRepository) ProjectionService {
	return &projectionService{defRepo: defRepo}
}

var _ ProjectionService = (*projectionService)(nil)

func (s *projectionService) TableColumns(ctx context.Context, modelType string) ([]TableColumn, error) {
	specs, err := s.tableVisibleSpecs(ctx, modelType)
	if err != nil {
		return nil, err
	}

	columns := make([]TableColumn, 0, len(specs))
	for _, spec := range specs {
		columns = append(columns, TableColumn{
			Key:     spec.Key,
			Label:   spec.Label,
			Type:    spec.Type,
			Options: spec.Options,
		})
	}
	return columns, nil
}

func (s *projectionService) SearchablePaths(ctx context.Context, modelType string) ([]string, error) {
	specs, err := s.tableVisibleSpecs(ctx, modelType)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, spec := range specs {
		switch spec.Type {
		case models.FieldTypeText, models.FieldTypeTextarea, models.FieldTypeSelect:
			paths = append(paths, FieldPathPrefix+spec.Key)
		}
	}
	return paths, nil
}

func (s *projectionService) SortablePaths(ctx context.Context, modelType string) ([]string, error) {
	specs, err := s.tableVisibleSpecs(ctx, modelType)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, spec := range specs {
		paths = append(paths, FieldPathPrefix+spec.Key)
	}
	return paths, nil
}

// tableVisibleSpecs returns the show_in_table fields of the active
// definition, sorted by their explicit order.
func (s *projectionService) tableVisibleSpecs(ctx context.Context, modelType string) ([]models.FieldSpec, error) {
	def, err := s.defRepo.GetByModelType(ctx, modelType)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve definition: %w", err)
	}
	if def == nil {
		return nil, nil
	}

	var specs []models.FieldSpec
	for _, spec := range def.Fields {
		if spec.ShowInTable.Bool() {
			specs = append(specs, spec)
		}
	}
	sort.SliceStable(specs, func(i, j int) bool {
		return specs[i].Order < specs[j].Order
	})
	return specs, nil
}
