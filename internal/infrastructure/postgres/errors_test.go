package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPgCode(t *testing.T) {
	wrapped := fmt.Errorf("insert: %w", &pgconn.PgError{Code: codeUniqueViolation})
	assert.Equal(t, codeUniqueViolation, pgCode(wrapped))
	assert.Equal(t, "", pgCode(errors.New("boom")))
}

func TestValidID(t *testing.T) {
	assert.True(t, validID("3f1b8a4e-2c1d-4e5f-9a6b-7c8d9e0f1a2b"))
	assert.False(t, validID("3f1b8a4e-2c1d-4e5f-9a6b-7c8d9e0f1a2b", "42"))
	assert.False(t, validID(""))
}
