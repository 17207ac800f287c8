package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert registration: %w", &pgconn.PgError{Code: "23505", ConstraintName: "event_registrations_event_id_user_id_key"})

	assert.True(t, IsUniqueViolation(err))
	assert.True(t, IsDuplicateConstraintError(err, "event_registrations_event_id_user_id_key"))
	assert.False(t, IsDuplicateConstraintError(err, "team_members_user_id_key"))
	assert.False(t, IsForeignKeyViolation(err))
}

func TestOtherCodes(t *testing.T) {
	assert.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, IsCheckViolation(&pgconn.PgError{Code: "23514"}))
	assert.False(t, IsUniqueViolation(errors.New("connection reset")))
}
