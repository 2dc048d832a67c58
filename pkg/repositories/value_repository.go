package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/xoshbin/customfields/pkg/database"
	"github.com/xoshbin/customfields/pkg/models"
)

// ValueRepository provides data access for stored custom field values.
// Uniqueness of (customizable_type, customizable_id, field_key) is owned by
// the database constraint; Upsert rides it for one-statement overwrite
// semantics.
type ValueRepository interface {
	// Upsert inserts the value row or, when the entity already holds a value
	// for the field key, overwrites it in place.
	Upsert(ctx context.Context, value *models.Value) error
	Get(ctx context.Context, entity models.EntityRef, fieldKey string) (*models.Value, error)
	GetForEntity(ctx context.Context, entity models.EntityRef) ([]*models.Value, error)
	// Delete removes a single value row; returns false when none matched.
	Delete(ctx context.Context, entity models.EntityRef, fieldKey string) (bool, error)
	// DeleteForEntity removes every value row of an entity instance. Run by
	// the host's entity-deletion hook before the instance itself goes away.
	DeleteForEntity(ctx context.Context, entity models.EntityRef) (int64, error)
	CountForDefinition(ctx context.Context, definitionID uuid.UUID) (int64, error)
}

type valueRepository struct {
	db *database.DB
}

// NewValueRepository creates a ValueRepository backed by db.
func NewValueRepository(db *database.DB) ValueRepository {
	return &valueRepository{db: db}
}

var _ ValueRepository = (*valueRepository)(nil)

func (r *valueRepository) Upsert(ctx context.Context, value *models.Value) error {
	query := `
		INSERT INTO custom_field_values (
			definition_id, customizable_type, customizable_id, field_key,
			field_value, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, now(), now())
		ON CONFLICT (customizable_type, customizable_id, field_key)
		DO UPDATE SET field_value = EXCLUDED.field_value, updated_at = now()
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		value.DefinitionID,
		value.Entity.Type,
		value.Entity.ID,
		value.FieldKey,
		mustJSON(value.Payload),
	).Scan(&value.ID, &value.CreatedAt, &value.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert value for field %q: %w", value.FieldKey, err)
	}

	return nil
}

func (r *valueRepository) Get(ctx context.Context, entity models.EntityRef, fieldKey string) (*models.Value, error) {
	query := valueSelect + `
		WHERE customizable_type = $1 AND customizable_id = $2 AND field_key = $3`

	value, err := scanValue(r.db.QueryRow(ctx, query, entity.Type, entity.ID, fieldKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return value, nil
}

func (r *valueRepository) GetForEntity(ctx context.Context, entity models.EntityRef) ([]*models.Value, error) {
	query := valueSelect + `
		WHERE customizable_type = $1 AND customizable_id = $2
		ORDER BY field_key`

	rows, err := r.db.Query(ctx, query, entity.Type, entity.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query values: %w", err)
	}
	defer rows.Close()

	var values []*models.Value
	for rows.Next() {
		value, err := scanValue(rows)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate values: %w", err)
	}

	return values, nil
}

func (r *valueRepository) Delete(ctx context.Context, entity models.EntityRef, fieldKey string) (bool, error) {
	query := `
		DELETE FROM custom_field_values
		WHERE customizable_type = $1 AND customizable_id = $2 AND field_key = $3`

	result, err := r.db.Exec(ctx, query, entity.Type, entity.ID, fieldKey)
	if err != nil {
		return false, fmt.Errorf("failed to delete value for field %q: %w", fieldKey, err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *valueRepository) DeleteForEntity(ctx context.Context, entity models.EntityRef) (int64, error) {
	query := `
		DELETE FROM custom_field_values
		WHERE customizable_type = $1 AND customizable_id = $2`

	result, err := r.db.Exec(ctx, query, entity.Type, entity.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete values for entity: %w", err)
	}
	return result.RowsAffected(), nil
}

func (r *valueRepository) CountForDefinition(ctx context.Context, definitionID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM custom_field_values WHERE definition_id = $1`,
		definitionID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count values: %w", err)
	}
	return count, nil
}

const valueSelect = `
	SELECT id, definition_id, customizable_type, customizable_id, field_key,
	       field_value, created_at, updated_at
	FROM custom_field_values`

func scanValue(row pgx.Row) (*models.Value, error) {
	var v models.Value
	var payload []byte

	err := row.Scan(
		&v.ID,
		&v.DefinitionID,
		&v.Entity.Type,
		&v.Entity.ID,
		&v.FieldKey,
		&payload,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan value: %w", err)
	}

	// Parse the untyped JSONB document into the strict payload variant here,
	// at the storage boundary.
	if err := v.Payload.UnmarshalJSON(payload); err != nil {
		return nil, fmt.Errorf("failed to parse field_value for %q: %w", v.FieldKey, err)
	}

	return &v, nil
}
