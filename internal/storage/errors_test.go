package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/bloodbank-backend/pkg/errors"
)

func TestLookupError(t *testing.T) {
	id := uuid.New()
	err := LookupError(fmt.Errorf("wrapped: %w", ErrNotFound), "donor", id)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	require.Equal(t, map[string]any{"resource": "donor", "id": id.String()}, pkgerrors.As(err).Details())

	err = LookupError(errors.New("connection reset"), "donor", id)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestWriteError(t *testing.T) {
	require.True(t, pkgerrors.IsCode(WriteError(ErrConflict, "create donor", "email taken"), pkgerrors.CodeConflict))
	require.True(t, pkgerrors.IsCode(WriteError(ErrNotFound, "update donor", ""), pkgerrors.CodeNotFound))
	require.True(t, pkgerrors.IsCode(WriteError(errors.New("boom"), "create donor", ""), pkgerrors.CodeDependency))
}
