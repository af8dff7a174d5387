package storage

import (
	"errors"

	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/bloodbank-backend/pkg/errors"
)

// LookupError maps a repository Get failure onto the API error codes.
func LookupError(err error, resource string, id uuid.UUID) error {
	if errors.Is(err, ErrNotFound) {
		return pkgerrors.NotFound(resource, id)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load "+resource)
}

// WriteError maps a repository Create/Update failure; conflictMsg is used
// when a uniqueness rule was violated.
func WriteError(err error, action, conflictMsg string) error {
	switch {
	case errors.Is(err, ErrConflict):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, conflictMsg)
	case errors.Is(err, ErrNotFound):
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, action+": record not found")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
	}
}
