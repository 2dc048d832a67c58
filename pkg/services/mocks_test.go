package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/xoshbin/customfields/pkg/apperrors"
	"github.com/xoshbin/customfields/pkg/models"
)

// mockDefinitionRepo implements repositories.DefinitionRepository in memory.
type mockDefinitionRepo struct {
	defs      map[uuid.UUID]*models.Definition
	createErr error
	getErr    error
}

func newMockDefinitionRepo() *mockDefinitionRepo {
	return &mockDefinitionRepo{defs: make(map[uuid.UUID]*models.Definition)}
}

func (m *mockDefinitionRepo) Create(_ context.Context, def *models.Definition) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.defs {
		if existing.ModelType == def.ModelType {
			return apperrors.ErrConflict
		}
	}
	// mirror the real repository's pre-write normalization
	def.Fields = models.NormalizeFieldSpecs(def.Fields)
	def.ID = uuid.New()
	def.CreatedAt = time.Now()
	def.UpdatedAt = def.CreatedAt
	m.defs[def.ID] = cloneDefinition(def)
	return nil
}

func (m *mockDefinitionRepo) Update(_ context.Context, def *models.Definition) error {
	if _, ok := m.defs[def.ID]; !ok {
		return apperrors.ErrNotFound
	}
	def.Fields = models.NormalizeFieldSpecs(def.Fields)
	def.UpdatedAt = time.Now()
	m.defs[def.ID] = cloneDefinition(def)
	return nil
}

func (m *mockDefinitionRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.defs[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(m.defs, id)
	return nil
}

func (m *mockDefinitionRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Definition, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	def, ok := m.defs[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return cloneDefinition(def), nil
}

func (m *mockDefinitionRepo) GetByModelType(_ context.Context, modelType string) (*models.Definition, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, def := range m.defs {
		if def.ModelType == modelType && def.IsActive {
			return cloneDefinition(def), nil
		}
	}
	return nil, nil
}

func (m *mockDefinitionRepo) List(_ context.Context) ([]*models.Definition, error) {
	var out []*models.Definition
	for _, def := range m.defs {
		out = append(out, cloneDefinition(def))
	}
	return out, nil
}

func cloneDefinition(def *models.Definition) *models.Definition {
	c := *def
	c.Fields = make([]models.FieldSpec, len(def.Fields))
	copy(c.Fields, def.Fields)
	return &c
}

type valueKey struct {
	entityType string
	entityID   int64
	fieldKey   string
}

// mockValueRepo implements repositories.ValueRepository in memory with the
// same upsert-by-unique-triple semantics as the real table.
type mockValueRepo struct {
	values    map[valueKey]*models.Value
	upsertErr error
}

func newMockValueRepo() *mockValueRepo {
	return &mockValueRepo{values: make(map[valueKey]*models.Value)}
}

func (m *mockValueRepo) key(entity models.EntityRef, fieldKey string) valueKey {
	return valueKey{entityType: entity.Type, entityID: entity.ID, fieldKey: fieldKey}
}

func (m *mockValueRepo) Upsert(_ context.Context, value *models.Value) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	k := m.key(value.Entity, value.FieldKey)
	if existing, ok := m.values[k]; ok {
		value.ID = existing.ID
		value.CreatedAt = existing.CreatedAt
	} else {
		value.ID = uuid.New()
		value.CreatedAt = time.Now()
	}
	value.UpdatedAt = time.Now()
	stored := *value
	m.values[k] = &stored
	return nil
}

func (m *mockValueRepo) Get(_ context.Context, entity models.EntityRef, fieldKey string) (*models.Value, error) {
	v, ok := m.values[m.key(entity, fieldKey)]
	if !ok {
		return nil, nil
	}
	c := *v
	return &c, nil
}

func (m *mockValueRepo) GetForEntity(_ context.Context, entity models.EntityRef) ([]*models.Value, error) {
	var out []*models.Value
	for k, v := range m.values {
		if k.entityType == entity.Type && k.entityID == entity.ID {
			c := *v
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *mockValueRepo) Delete(_ context.Context, entity models.EntityRef, fieldKey string) (bool, error) {
	k := m.key(entity, fieldKey)
	if _, ok := m.values[k]; !ok {
		return false, nil
	}
	delete(m.values, k)
	return true, nil
}

func (m *mockValueRepo) DeleteForEntity(_ context.Context, entity models.EntityRef) (int64, error) {
	var deleted int64
	for k := range m.values {
		if k.entityType == entity.Type && k.entityID == entity.ID {
			delete(m.values, k)
			deleted++
		}
	}
	return deleted, nil
}

func (m *mockValueRepo) CountForDefinition(_ context.Context, definitionID uuid.UUID) (int64, error) {
	var count int64
	for _, v := range m.values {
		if v.DefinitionID == definitionID {
			count++
		}
	}
	return count, nil
}

// partnerDefinition builds the scenario definition used across service
// tests: industry(text), priority(select), established_date(date),
// is_preferred(boolean), annual_revenue(number).
func partnerDefinition() *models.Definition {
	return &models.Definition{
		ModelType: "partner",
		Name:      models.LocalizedText{"en": "Partners"},
		IsActive:  true,
		Fields: []models.FieldSpec{
			{Key: "industry", Label: "Industry", Type: models.FieldTypeText, Order: 0, ShowInTable: true},
			{Key: "priority", Label: "Priority", Type: models.FieldTypeSelect, Order: 1, ShowInTable: true,
				Options: []models.SelectOption{
					{Value: "high", Label: "High"},
					{Value: "medium", Label: "Medium"},
					{Value: "low", Label: "Low"},
				}},
			{Key: "established_date", Label: "Established", Type: models.FieldTypeDate, Order: 2, ShowInTable: true},
			{Key: "is_preferred", Label: "Preferred", Type: models.FieldTypeBoolean, Order: 3},
			{Key: "annual_revenue", Label: "Annual Revenue", Type: models.FieldTypeNumber, Order: 4, ShowInTable: true},
		},
	}
}
