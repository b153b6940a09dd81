package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrationURL(t *testing.T) {
	tests := map[string]string{
		"postgres://u:p@db:5432/mesh?sslmode=disable": "pgx5://u:p@db:5432/mesh?sslmode=disable",
		"postgresql://u:p@db:5432/mesh":               "pgx5://u:p@db:5432/mesh",
		"pgx5://u:p@db:5432/mesh":                     "pgx5://u:p@db:5432/mesh",
		"host=db user=u dbname=mesh":                  "host=db user=u dbname=mesh",
	}
	for in, want := range tests {
		assert.Equal(t, want, MigrationURL(in), in)
	}
}
