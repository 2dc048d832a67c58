package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/xoshbin/customfields/pkg/apperrors"
	"github.com/xoshbin/customfields/pkg/database"
	"github.com/xoshbin/customfields/pkg/models"
)

// DefinitionRepository provides data access for custom field definitions.
// model_type uniqueness is enforced by the database unique constraint, not
// pre-checked here; a duplicate create surfaces as apperrors.ErrConflict.
type DefinitionRepository interface {
	Create(ctx context.Context, def *models.Definition) error
	Update(ctx context.Context, def *models.Definition) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Definition, error)
	// GetByModelType returns the single active definition for a model type,
	// or nil when none exists.
	GetByModelType(ctx context.Context, modelType string) (*models.Definition, error)
	List(ctx context.Context) ([]*models.Definition, error)
}

type definitionRepository struct {
	db *database.DB
}

// NewDefinitionRepository creates a DefinitionRepository backed by db.
func NewDefinitionRepository(db *database.DB) DefinitionRepository {
	return &definitionRepository{db: db}
}

var _ DefinitionRepository = (*definitionRepository)(nil)

func (r *definitionRepository) Create(ctx context.Context, def *models.Definition) error {
	def.Fields = models.NormalizeFieldSpecs(def.Fields)
	now := time.Now()

	query := `
		INSERT INTO custom_field_definitions (
			model_type, name, description, is_active, field_definitions,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		def.ModelType,
		jsonbValue(def.Name),
		jsonbValue(def.Description),
		def.IsActive,
		mustJSON(def.Fields),
		now,
		now,
	).Scan(&def.ID, &def.CreatedAt, &def.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("definition for model type %q already exists: %w", def.ModelType, apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to create definition: %w", err)
	}

	return nil
}

func (r *definitionRepository) Update(ctx context.Context, def *models.Definition) error {
	def.Fields = models.NormalizeFieldSpecs(def.Fields)

	query := `
		UPDATE custom_field_definitions
		SET model_type = $2, name = $3, description = $4, is_active = $5,
		    field_definitions = $6, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		def.ID,
		def.ModelType,
		jsonbValue(def.Name),
		jsonbValue(def.Description),
		def.IsActive,
		mustJSON(def.Fields),
	).Scan(&def.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		if isUniqueViolation(err) {
			return fmt.Errorf("definition for model type %q already exists: %w", def.ModelType, apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to update definition: %w", err)
	}

	return nil
}

// Delete removes a definition. Value rows referencing it are removed by the
// ON DELETE CASCADE foreign key in the same statement.
func (r *definitionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM custom_field_definitions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete definition: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *definitionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Definition, error) {
	query := definitionSelect + ` WHERE id = $1`

	def, err := scanDefinition(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return def, nil
}

func (r *definitionRepository) GetByModelType(ctx context.Context, modelType string) (*models.Definition, error) {
	query := definitionSelect + ` WHERE model_type = $1 AND is_active`

	def, err := scanDefinition(r.db.QueryRow(ctx, query, modelType))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return def, nil
}

func (r *definitionRepository) List(ctx context.Context) ([]*models.Definition, error) {
	query := definitionSelect + ` ORDER BY model_type`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query definitions: %w", err)
	}
	defer rows.Close()

	var defs []*models.Definition
	for rows.Next() {
		def, err := scanDefinition(rows)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate definitions: %w", err)
	}

	return defs, nil
}

const definitionSelect = `
	SELECT id, model_type, name, description, is_active, field_definitions,
	       created_at, updated_at
	FROM custom_field_definitions`

func scanDefinition(row pgx.Row) (*models.Definition, error) {
	var d models.Definition
	var name, description, fields []byte

	err := row.Scan(
		&d.ID,
		&d.ModelType,
		&name,
		&description,
		&d.IsActive,
		&fields,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan definition: %w", err)
	}

	if err := unmarshalJSONB(name, &d.Name); err != nil {
		return nil, fmt.Errorf("failed to unmarshal name: %w", err)
	}
	if err := unmarshalJSONB(description, &d.Description); err != nil {
		return nil, fmt.Errorf("failed to unmarshal description: %w", err)
	}
	if err := unmarshalJSONB(fields, &d.Fields); err != nil {
		return nil, fmt.Errorf("failed to unmarshal field_definitions: %w", err)
	}

	return &d, nil
}

// ============================================================================
// Helper Functions
// ============================================================================

// unmarshalJSONB decodes a JSONB column, treating NULL/"null" as absent.
func unmarshalJSONB(data []byte, dst any) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	return json.Unmarshal(data, dst)
}

// jsonbValue converts a value for JSONB insertion, storing NULL for empty
// maps so absent display metadata stays absent.
func jsonbValue(m models.LocalizedText) any {
	if len(m) == 0 {
		return nil
	}
	return m
}

// mustJSON marshals v for a JSONB parameter. The models involved contain
// nothing unmarshalable, so a failure here is a programming error.
func mustJSON(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("failed to marshal JSONB parameter: %v", err))
	}
	return data
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
