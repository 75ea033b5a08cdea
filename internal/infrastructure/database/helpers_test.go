package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: UniqueViolationCode, ConstraintName: "designs_share_code_key"})

	assert.True(t, IsUniqueViolation(err, ""))
	assert.True(t, IsUniqueViolation(err, "designs_share_code_key"))
	assert.False(t, IsUniqueViolation(err, "charms_slug_key"))
	assert.False(t, IsUniqueViolation(errors.New("boom"), ""))
}

func TestIsForeignKeyViolation(t *testing.T) {
	assert.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: ForeignKeyViolationCode}))
	assert.False(t, IsForeignKeyViolation(&pgconn.PgError{Code: UniqueViolationCode}))
}

func TestBuildConnectionStringEscapes(t *testing.T) {
	db := NewPostgresDB(&DBConfig{Host: "h", Port: 5432, Username: "u", Password: "p@ss", DBName: "d"})
	assert.Equal(t, "postgresql://u:p%40ss@h:5432/d?sslmode=disable", db.buildConnectionString())
}
