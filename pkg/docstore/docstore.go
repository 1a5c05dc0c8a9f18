// Package docstore is a thin adapter over a remote document store. Documents
// are addressed by slash-separated paths alternating collection and document
// segments ("users/u1/friends/u2"). The store guarantees atomicity only
// within a single transaction or batch; everything built on top of it is
// responsible for its own cross-document invariants.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

var (
	// ErrNotFound is returned when a referenced document is absent.
	ErrNotFound = errors.New("document not found")

	// ErrConflict is returned when a transaction was retried and still
	// failed on a concurrent write. Callers may retry the whole operation.
	ErrConflict = errors.New("transaction conflict")

	// ErrMalformed wraps a decode failure of a fetched document.
	ErrMalformed = errors.New("malformed document")
)

type Fields map[string]any

type incValue struct {
	delta int64
}

// Inc returns a field transform that atomically adds delta to a numeric
// field. Usable as a value in Set and Update field maps, inside or outside a
// transaction. A missing field is treated as zero.
func Inc(delta int64) any {
	return incValue{delta: delta}
}

type Document struct {
	Path   string
	Fields Fields
}

// ID returns the last path segment.
func (d *Document) ID() string {
	i := strings.LastIndexByte(d.Path, '/')
	return d.Path[i+1:]
}

// CollectionOf returns the collection path a document path belongs to.
func CollectionOf(path string) string {
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return ""
	}
	return path[:i]
}

// GroupOf returns the collection id (the last collection segment) of a
// document path, the key used by collection-group queries.
func GroupOf(path string) string {
	parts := strings.Split(path, "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-2]
}

// ValidateDocPath checks that path addresses a document, meaning an even,
// non-zero number of non-empty segments.
func ValidateDocPath(path string) error {
	parts := strings.Split(path, "/")
	if len(parts) == 0 || len(parts)%2 != 0 {
		return fmt.Errorf("invalid document path %q", path)
	}

	for _, p := range parts {
		if p == "" {
			return fmt.Errorf("invalid document path %q", path)
		}
	}

	return nil
}

type Op int

const (
	OpEqual Op = iota
	OpArrayContains
)

type Filter struct {
	Field string
	Op    Op
	Value any
}

func Where(field string, op Op, value any) Filter {
	return Filter{Field: field, Op: op, Value: value}
}

type Query struct {
	Filters []Filter
	OrderBy string
	Desc    bool
	Limit   int
}

type setOptions struct {
	merge bool
}

type SetOption func(*setOptions)

// Merge makes Set merge the given fields into an existing document instead
// of replacing it. The document is created if absent either way.
func Merge() SetOption {
	return func(o *setOptions) { o.merge = true }
}

// Handle is the read/write surface shared by the store itself and a
// transaction body.
type Handle interface {
	Get(ctx context.Context, path string) (*Document, error)
	Set(ctx context.Context, path string, fields Fields, opts ...SetOption) error
	Update(ctx context.Context, path string, fields Fields) error
	Delete(ctx context.Context, path string) error
}

// Batch groups writes for a single atomic, non-retrying commit.
type Batch interface {
	Set(path string, fields Fields, opts ...SetOption)
	Update(path string, fields Fields)
	Delete(path string)
	Commit(ctx context.Context) error
}

type Store interface {
	Handle

	// RunTransaction runs fn with a transactional handle. The body is
	// retried automatically when a concurrent write invalidates one of its
	// reads; a body that keeps failing surfaces ErrConflict.
	RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Handle) error) error

	Batch() Batch

	// Query scans one collection.
	Query(ctx context.Context, collection string, q Query) ([]Document, error)

	// QueryGroup scans every collection whose id matches collectionID,
	// regardless of parent. This is the reverse-lookup primitive.
	QueryGroup(ctx context.Context, collectionID string, q Query) ([]Document, error)
}

// Decode maps a document's fields onto out. Field names follow json tags.
// Times stored as RFC3339 strings decode into time.Time. A failure is
// reported as ErrMalformed.
func Decode(doc *Document, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           out,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}

	if err := dec.Decode(map[string]any(doc.Fields)); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformed, doc.Path, err)
	}

	return nil
}
