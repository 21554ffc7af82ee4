// Package pagination implements cursor (seek) pagination over collections
// ordered by (created_at desc, id desc).
//
// A cursor is the id of the last row of the previous page. It is used only
// as a seek boundary: the enclosing query is already scoped to the caller,
// so the cursor row itself is never checked for existence or ownership.
package pagination

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// Page sizes used by the read endpoints.
const (
	OrderPageSize        int32 = 10
	NotificationPageSize int32 = 20
)

var ErrInvalidCursor = errors.New("invalid cursor")

// Page is one slice of a collection. NextCursor is nil when the page came
// back short, which marks the end of the collection.
type Page[T any] struct {
	Items      []T
	NextCursor *int64
}

// Fetcher loads at most limit rows strictly after cursor. An invalid
// (null) cursor means the first page.
type Fetcher[T any] func(ctx context.Context, cursor pgtype.Int8, limit int32) ([]T, error)

// ParseCursor parses a cursor query value. An empty value means no cursor.
func ParseCursor(s string) (*int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return nil, ErrInvalidCursor
	}
	return &id, nil
}

// Seek runs fetch for one page and derives the next cursor from the last row.
func Seek[T any](ctx context.Context, size int32, cursor *int64, fetch Fetcher[T], idOf func(T) int64) (Page[T], error) {
	if size <= 0 {
		return Page[T]{}, fmt.Errorf("page size must be > 0, got %d", size)
	}

	arg := pgtype.Int8{}
	if cursor != nil {
		arg = pgtype.Int8{Int64: *cursor, Valid: true}
	}

	rows, err := fetch(ctx, arg, size)
	if err != nil {
		return Page[T]{}, err
	}
	return NewPage(rows, size, idOf), nil
}

// NewPage wraps rows already fetched with a limit of size.
func NewPage[T any](rows []T, size int32, idOf func(T) int64) Page[T] {
	if size > 0 && len(rows) > int(size) {
		rows = rows[:size]
	}
	if rows == nil {
		rows = []T{}
	}

	page := Page[T]{Items: rows}
	if size > 0 && len(rows) == int(size) {
		last := idOf(rows[len(rows)-1])
		page.NextCursor = &last
	}
	return page
}
