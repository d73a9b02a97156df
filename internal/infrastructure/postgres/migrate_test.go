package postgres

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateURL(t *testing.T) {
	cases := map[string]string{
		"postgres://u:p@db:5432/sgpme?sslmode=disable":   "pgx5://u:p@db:5432/sgpme?sslmode=disable",
		"postgresql://u:p@db:5432/sgpme?sslmode=require": "pgx5://u:p@db:5432/sgpme?sslmode=require",
		"pgx5://u:p@db/sgpme":                            "pgx5://u:p@db/sgpme",
	}
	for in, want := range cases {
		assert.Equal(t, want, migrateURL(in), in)
	}
}

func TestMigrationsEmbebidas(t *testing.T) {
	ups, err := fs.Glob(migrationsFS, "migrations/*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(migrationsFS, "migrations/*.down.sql")
	require.NoError(t, err)
	assert.NotEmpty(t, ups)
	assert.Len(t, downs, len(ups), "cada migración tiene su reversa")

	schema, err := fs.ReadFile(migrationsFS, "migrations/0001_init.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(schema), "CONSTRAINT categorias_nombre_key UNIQUE (nombre)")
}

func TestValidID(t *testing.T) {
	assert.True(t, validID("5f1c2a7e-8a44-4c55-9a3e-1d2b3c4d5e6f"))
	assert.False(t, validID("12"))
	assert.False(t, validID(""))
}
