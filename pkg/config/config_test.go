package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, int32(10), cfg.Database.MaxConnections)
	assert.Equal(t, "en", cfg.CustomFields.DefaultLocale)
	assert.NotNil(t, cfg.CustomFields.ModelTypes)
	assert.Empty(t, cfg.CustomFields.ModelTypes)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("PGHOST", "db.internal")
	t.Setenv("PGPASSWORD", "s3cret")
	t.Setenv("CUSTOM_FIELDS_DEFAULT_LOCALE", "ar")
	t.Setenv("CUSTOM_FIELDS_MODEL_TYPES", "partner=Partner, invoice=Invoice")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, "ar", cfg.CustomFields.DefaultLocale)
	assert.Equal(t, map[string]string{
		"partner": "Partner",
		"invoice": "Invoice",
	}, cfg.CustomFields.ModelTypes)
}

func TestLoad_InvalidModelTypes(t *testing.T) {
	t.Setenv("CUSTOM_FIELDS_MODEL_TYPES", "partner")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected type=label")
}

func TestLoad_MissingFileFallsBackToEnv(t *testing.T) {
	t.Setenv("PGDATABASE", "cf_test")

	cfg, err := Load("does-not-exist.yaml")
	require.NoError(t, err)
	assert.Equal(t, "cf_test", cfg.Database.Database)
}

func TestParseModelTypes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[string]string
		wantErr bool
	}{
		{
			name:  "single pair",
			input: "partner=Partner",
			want:  map[string]string{"partner": "Partner"},
		},
		{
			name:  "multiple pairs with spaces",
			input: " partner = Partner , product = Product ",
			want:  map[string]string{"partner": "Partner", "product": "Product"},
		},
		{
			name:  "trailing comma ignored",
			input: "partner=Partner,",
			want:  map[string]string{"partner": "Partner"},
		},
		{
			name:    "missing label",
			input:   "partner=",
			wantErr: true,
		},
		{
			name:    "missing separator",
			input:   "partner",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseModelTypes(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDatabaseConfig_URL(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5433,
		User:     "cf",
		Password: "pw",
		Database: "customfields",
		SSLMode:  "disable",
	}
	assert.Equal(t, "postgres://cf:pw@localhost:5433/customfields?sslmode=disable", cfg.URL())
}
