package memory

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/bloodbank-backend/internal/storage"
	"github.com/angelmondragon/bloodbank-backend/pkg/pagination"
)

// stamps fills id and timestamps the way the relational adapter does.
func stamps(id *uuid.UUID, createdAt, updatedAt *time.Time, now time.Time) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
	if createdAt.IsZero() {
		*createdAt = now
	}
	*updatedAt = now
}

func lookup[T any](rows map[uuid.UUID]T, id uuid.UUID) (*T, error) {
	row, ok := rows[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &row, nil
}

// page filters rows, orders them newest first and applies the cursor window.
func page[T any](rows map[uuid.UUID]T, match func(T) bool, key func(T) pagination.Cursor, q storage.PageQuery) []T {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if !match(row) {
			continue
		}
		if q.After != nil {
			k := key(row)
			if !q.After.Follows(k.CreatedAt, k.ID) {
				continue
			}
		}
		out = append(out, row)
	}
	slices.SortFunc(out, func(a, b T) int {
		ka, kb := key(a), key(b)
		if c := kb.CreatedAt.Compare(ka.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(kb.ID.String(), ka.ID.String())
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

func count[T any](rows map[uuid.UUID]T, match func(T) bool) int64 {
	var n int64
	for _, row := range rows {
		if match(row) {
			n++
		}
	}
	return n
}

func containsFold(needle string, haystack ...string) bool {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return true
	}
	for _, h := range haystack {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}

func eqPtr[T comparable](want *T, got T) bool {
	return want == nil || *want == got
}

func eqOptional[T comparable](want *T, got *T) bool {
	if want == nil {
		return true
	}
	return got != nil && *got == *want
}
