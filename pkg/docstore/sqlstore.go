package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// SQLStore persists documents as JSON rows through gorm, one row per
// document with a version column for optimistic transaction validation.
// Field filters and ordering are evaluated client-side after a collection
// scan, which keeps the adapter portable across mysql and sqlite.
type SQLStore struct {
	db *gorm.DB
}

type sqlDocument struct {
	Path       string `gorm:"primaryKey;size:512"`
	Collection string `gorm:"index;size:512"`
	GroupID    string `gorm:"column:group_id;index;size:128"`
	Data       []byte
	Version    int64
	UpdatedAt  time.Time
}

func (sqlDocument) TableName() string {
	return "documents"
}

func NewSQLStore(db *gorm.DB) (*SQLStore, error) {
	if err := db.AutoMigrate(&sqlDocument{}); err != nil {
		return nil, err
	}

	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Get(ctx context.Context, path string) (*Document, error) {
	if err := ValidateDocPath(path); err != nil {
		return nil, err
	}

	var row sqlDocument
	err := s.db.WithContext(ctx).Take(&row, "path = ?", path).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	fields, err := unmarshalFields(row.Data)
	if err != nil {
		return nil, err
	}

	return &Document{Path: path, Fields: fields}, nil
}

func (s *SQLStore) Set(ctx context.Context, path string, fields Fields, opts ...SetOption) error {
	if err := ValidateDocPath(path); err != nil {
		return err
	}

	var o setOptions
	for _, opt := range opts {
		opt(&o)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return applySQLSet(tx, path, fields, o.merge)
	})
}

func (s *SQLStore) Update(ctx context.Context, path string, fields Fields) error {
	if err := ValidateDocPath(path); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return applySQLUpdate(tx, path, fields)
	})
}

func (s *SQLStore) Delete(ctx context.Context, path string) error {
	if err := ValidateDocPath(path); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Delete(&sqlDocument{}, "path = ?", path).Error
}

func (s *SQLStore) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Handle) error) error {
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		handle := &sqlTx{store: s, reads: map[string]int64{}}
		if err := fn(ctx, handle); err != nil {
			return err
		}

		committed, err := handle.commit(ctx)
		if err != nil {
			return err
		}
		if committed {
			return nil
		}
	}

	return ErrConflict
}

type sqlTx struct {
	store *SQLStore
	reads map[string]int64
	ops   []memoryOp
}

func (t *sqlTx) Get(ctx context.Context, path string) (*Document, error) {
	if err := ValidateDocPath(path); err != nil {
		return nil, err
	}

	fields := Fields{}
	exists := false

	var row sqlDocument
	err := t.store.db.WithContext(ctx).Take(&row, "path = ?", path).Error
	switch {
	case err == nil:
		t.reads[path] = row.Version
		if fields, err = unmarshalFields(row.Data); err != nil {
			return nil, err
		}
		exists = true
	case errors.Is(err, gorm.ErrRecordNotFound):
		t.reads[path] = 0
	default:
		return nil, err
	}

	// Reads observe the transaction's own pending writes.
	fields, exists = applyPendingOps(fields, exists, t.ops, path)
	if !exists {
		return nil, ErrNotFound
	}

	return &Document{Path: path, Fields: fields}, nil
}

func (t *sqlTx) Set(ctx context.Context, path string, fields Fields, opts ...SetOption) error {
	if err := ValidateDocPath(path); err != nil {
		return err
	}

	var o setOptions
	for _, opt := range opts {
		opt(&o)
	}

	kind := "set"
	if o.merge {
		kind = "merge"
	}
	t.ops = append(t.ops, memoryOp{kind: kind, path: path, fields: cloneFields(fields)})
	return nil
}

func (t *sqlTx) Update(ctx context.Context, path string, fields Fields) error {
	if err := ValidateDocPath(path); err != nil {
		return err
	}

	t.ops = append(t.ops, memoryOp{kind: "update", path: path, fields: cloneFields(fields)})
	return nil
}

func (t *sqlTx) Delete(ctx context.Context, path string) error {
	if err := ValidateDocPath(path); err != nil {
		return err
	}

	t.ops = append(t.ops, memoryOp{kind: "delete", path: path})
	return nil
}

func (t *sqlTx) commit(ctx context.Context) (bool, error) {
	conflicted := false
	err := t.store.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for path, version := range t.reads {
			var row sqlDocument
			err := tx.Take(&row, "path = ?", path).Error
			current := int64(0)
			if err == nil {
				current = row.Version
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			if current != version {
				conflicted = true
				return gorm.ErrInvalidTransaction
			}
		}

		for _, op := range t.ops {
			var err error
			switch op.kind {
			case "set":
				err = applySQLSet(tx, op.path, op.fields, false)
			case "merge":
				err = applySQLSet(tx, op.path, op.fields, true)
			case "update":
				err = applySQLUpdate(tx, op.path, op.fields)
			case "delete":
				err = tx.Delete(&sqlDocument{}, "path = ?", op.path).Error
			}
			if err != nil {
				return err
			}
		}

		return nil
	})

	if conflicted {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

func (s *SQLStore) Batch() Batch {
	return &sqlBatch{store: s}
}

type sqlBatch struct {
	store *SQLStore
	ops   []memoryOp
}

func (b *sqlBatch) Set(path string, fields Fields, opts ...SetOption) {
	var o setOptions
	for _, opt := range opts {
		opt(&o)
	}

	kind := "set"
	if o.merge {
		kind = "merge"
	}
	b.ops = append(b.ops, memoryOp{kind: kind, path: path, fields: cloneFields(fields)})
}

func (b *sqlBatch) Update(path string, fields Fields) {
	b.ops = append(b.ops, memoryOp{kind: "update", path: path, fields: cloneFields(fields)})
}

func (b *sqlBatch) Delete(path string) {
	b.ops = append(b.ops, memoryOp{kind: "delete", path: path})
}

func (b *sqlBatch) Commit(ctx context.Context) error {
	for _, op := range b.ops {
		if err := ValidateDocPath(op.path); err != nil {
			return err
		}
	}

	return b.store.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, op := range b.ops {
			var err error
			switch op.kind {
			case "set":
				err = applySQLSet(tx, op.path, op.fields, false)
			case "merge":
				err = applySQLSet(tx, op.path, op.fields, true)
			case "update":
				err = applySQLUpdate(tx, op.path, op.fields)
			case "delete":
				err = tx.Delete(&sqlDocument{}, "path = ?", op.path).Error
			}
			if err != nil {
				return err
			}
		}

		return nil
	})
}

func (s *SQLStore) Query(ctx context.Context, collection string, q Query) ([]Document, error) {
	return s.scan(ctx, "collection = ?", collection, q)
}

func (s *SQLStore) QueryGroup(ctx context.Context, collectionID string, q Query) ([]Document, error) {
	return s.scan(ctx, "group_id = ?", collectionID, q)
}

func (s *SQLStore) scan(ctx context.Context, cond, arg string, q Query) ([]Document, error) {
	var rows []sqlDocument
	if err := s.db.WithContext(ctx).Where(cond, arg).Find(&rows).Error; err != nil {
		return nil, err
	}

	var result []Document
	for _, row := range rows {
		fields, err := unmarshalFields(row.Data)
		if err != nil {
			return nil, err
		}
		if !matchQuery(fields, q) {
			continue
		}
		result = append(result, Document{Path: row.Path, Fields: fields})
	}

	return sortAndLimit(result, q), nil
}

func applySQLSet(tx *gorm.DB, path string, fields Fields, merge bool) error {
	var row sqlDocument
	err := tx.Take(&row, "path = ?", path).Error
	notFound := errors.Is(err, gorm.ErrRecordNotFound)
	if err != nil && !notFound {
		return err
	}

	current := Fields{}
	if !notFound && merge {
		if current, err = unmarshalFields(row.Data); err != nil {
			return err
		}
	}

	data, err := json.Marshal(applyTransforms(current, fields))
	if err != nil {
		return err
	}

	if notFound {
		return tx.Create(&sqlDocument{
			Path:       path,
			Collection: CollectionOf(path),
			GroupID:    GroupOf(path),
			Data:       data,
			Version:    1,
		}).Error
	}

	return tx.Model(&sqlDocument{}).Where("path = ?", path).Updates(map[string]any{
		"data":    data,
		"version": row.Version + 1,
	}).Error
}

func applySQLUpdate(tx *gorm.DB, path string, fields Fields) error {
	var row sqlDocument
	err := tx.Take(&row, "path = ?", path).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	current, err := unmarshalFields(row.Data)
	if err != nil {
		return err
	}

	data, err := json.Marshal(applyTransforms(current, fields))
	if err != nil {
		return err
	}

	return tx.Model(&sqlDocument{}).Where("path = ?", path).Updates(map[string]any{
		"data":    data,
		"version": row.Version + 1,
	}).Error
}

func unmarshalFields(data []byte) (Fields, error) {
	if len(data) == 0 {
		return Fields{}, nil
	}

	var fields Fields
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, errors.Join(ErrMalformed, err)
	}

	return fields, nil
}
