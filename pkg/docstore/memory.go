package docstore

import (
	"context"
	"sync"
)

// maxTxAttempts bounds the optimistic retry loop of a transaction body.
const maxTxAttempts = 10

// MemoryStore is a fully in-process Store with the same transactional
// semantics as the remote backends: optimistic transactions validated
// against per-document versions, atomic batches, and collection-group
// scans. It backs the test suites and can serve as a local development
// store.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]*memoryDoc
}

type memoryDoc struct {
	fields  Fields
	version uint64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: map[string]*memoryDoc{}}
}

func (s *MemoryStore) Get(ctx context.Context, path string) (*Document, error) {
	if err := ValidateDocPath(path); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[path]
	if !ok {
		return nil, ErrNotFound
	}

	return &Document{Path: path, Fields: cloneFields(doc.fields)}, nil
}

func (s *MemoryStore) Set(ctx context.Context, path string, fields Fields, opts ...SetOption) error {
	if err := ValidateDocPath(path); err != nil {
		return err
	}

	var o setOptions
	for _, opt := range opts {
		opt(&o)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.applySet(path, fields, o.merge)
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, path string, fields Fields) error {
	if err := ValidateDocPath(path); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyUpdate(path, fields)
}

func (s *MemoryStore) Delete(ctx context.Context, path string) error {
	if err := ValidateDocPath(path); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyDelete(path)
	return nil
}

// applySet, applyUpdate and applyDelete require s.mu held for writing.
func (s *MemoryStore) applySet(path string, fields Fields, merge bool) {
	doc, ok := s.docs[path]
	if !ok {
		doc = &memoryDoc{fields: Fields{}}
		s.docs[path] = doc
	}

	if merge {
		doc.fields = applyTransforms(doc.fields, fields)
	} else {
		doc.fields = applyTransforms(Fields{}, fields)
	}
	doc.version++
}

func (s *MemoryStore) applyUpdate(path string, fields Fields) error {
	doc, ok := s.docs[path]
	if !ok {
		return ErrNotFound
	}

	doc.fields = applyTransforms(doc.fields, fields)
	doc.version++
	return nil
}

func (s *MemoryStore) applyDelete(path string) {
	delete(s.docs, path)
}

func (s *MemoryStore) version(path string) uint64 {
	if doc, ok := s.docs[path]; ok {
		return doc.version
	}
	return 0
}

func (s *MemoryStore) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Handle) error) error {
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		tx := &memoryTx{store: s, reads: map[string]uint64{}}
		if err := fn(ctx, tx); err != nil {
			return err
		}

		committed, err := tx.commit()
		if err != nil {
			return err
		}
		if committed {
			return nil
		}
	}

	return ErrConflict
}

type memoryTx struct {
	store *MemoryStore
	reads map[string]uint64
	ops   []memoryOp
}

type memoryOp struct {
	kind   string // "set", "merge", "update", "delete"
	path   string
	fields Fields
}

// applyPendingOps folds a transaction's buffered ops for path over the
// state read from the store, so transactional reads observe their own
// pending writes, including merge and update transforms.
func applyPendingOps(fields Fields, exists bool, ops []memoryOp, path string) (Fields, bool) {
	for _, op := range ops {
		if op.path != path {
			continue
		}

		switch op.kind {
		case "set":
			fields = applyTransforms(Fields{}, op.fields)
			exists = true
		case "merge":
			fields = applyTransforms(fields, op.fields)
			exists = true
		case "update":
			if exists {
				fields = applyTransforms(fields, op.fields)
			}
		case "delete":
			fields = Fields{}
			exists = false
		}
	}

	return fields, exists
}

func (t *memoryTx) Get(ctx context.Context, path string) (*Document, error) {
	if err := ValidateDocPath(path); err != nil {
		return nil, err
	}

	t.store.mu.RLock()
	t.reads[path] = t.store.version(path)
	fields := Fields{}
	doc, exists := t.store.docs[path]
	if exists {
		fields = cloneFields(doc.fields)
	}
	t.store.mu.RUnlock()

	// Reads observe the transaction's own pending writes.
	fields, exists = applyPendingOps(fields, exists, t.ops, path)
	if !exists {
		return nil, ErrNotFound
	}

	return &Document{Path: path, Fields: fields}, nil
}

func (t *memoryTx) Set(ctx context.Context, path string, fields Fields, opts ...SetOption) error {
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

func (t *memoryTx) Update(ctx context.Context, path string, fields Fields) error {
	if err := ValidateDocPath(path); err != nil {
		return err
	}

	t.ops = append(t.ops, memoryOp{kind: "update", path: path, fields: cloneFields(fields)})
	return nil
}

func (t *memoryTx) Delete(ctx context.Context, path string) error {
	if err := ValidateDocPath(path); err != nil {
		return err
	}

	t.ops = append(t.ops, memoryOp{kind: "delete", path: path})
	return nil
}

// commit validates the read set and applies buffered writes atomically. The
// boolean result is false when a concurrent write invalidated a read and the
// body must be retried.
func (t *memoryTx) commit() (bool, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	for path, version := range t.reads {
		if t.store.version(path) != version {
			return false, nil
		}
	}

	// Update targets are validated before anything is applied, so a failed
	// commit leaves the store untouched. A target may be created or removed
	// by an earlier op in the same transaction.
	exists := map[string]bool{}
	docExists := func(path string) bool {
		if v, ok := exists[path]; ok {
			return v
		}
		_, ok := t.store.docs[path]
		return ok
	}
	for _, op := range t.ops {
		switch op.kind {
		case "set", "merge":
			exists[op.path] = true
		case "delete":
			exists[op.path] = false
		case "update":
			if !docExists(op.path) {
				return false, ErrNotFound
			}
		}
	}

	for _, op := range t.ops {
		switch op.kind {
		case "set":
			t.store.applySet(op.path, op.fields, false)
		case "merge":
			t.store.applySet(op.path, op.fields, true)
		case "update":
			if err := t.store.applyUpdate(op.path, op.fields); err != nil {
				return false, err
			}
		case "delete":
			t.store.applyDelete(op.path)
		}
	}

	return true, nil
}

func (s *MemoryStore) Batch() Batch {
	return &memoryBatch{store: s}
}

type memoryBatch struct {
	store *MemoryStore
	ops   []memoryOp
}

func (b *memoryBatch) Set(path string, fields Fields, opts ...SetOption) {
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

func (b *memoryBatch) Update(path string, fields Fields) {
	b.ops = append(b.ops, memoryOp{kind: "update", path: path, fields: cloneFields(fields)})
}

func (b *memoryBatch) Delete(path string) {
	b.ops = append(b.ops, memoryOp{kind: "delete", path: path})
}

func (b *memoryBatch) Commit(ctx context.Context) error {
	for _, op := range b.ops {
		if err := ValidateDocPath(op.path); err != nil {
			return err
		}
	}

	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	// Updates are validated up front so a failed batch applies nothing.
	for _, op := range b.ops {
		if op.kind != "update" {
			continue
		}
		if _, ok := b.store.docs[op.path]; !ok {
			return ErrNotFound
		}
	}

	for _, op := range b.ops {
		switch op.kind {
		case "set":
			b.store.applySet(op.path, op.fields, false)
		case "merge":
			b.store.applySet(op.path, op.fields, true)
		case "update":
			if err := b.store.applyUpdate(op.path, op.fields); err != nil {
				return err
			}
		case "delete":
			b.store.applyDelete(op.path)
		}
	}

	return nil
}

func (s *MemoryStore) Query(ctx context.Context, collection string, q Query) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []Document
	for path, doc := range s.docs {
		if CollectionOf(path) != collection {
			continue
		}
		if !matchQuery(doc.fields, q) {
			continue
		}
		result = append(result, Document{Path: path, Fields: cloneFields(doc.fields)})
	}

	return sortAndLimit(result, q), nil
}

func (s *MemoryStore) QueryGroup(ctx context.Context, collectionID string, q Query) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []Document
	for path, doc := range s.docs {
		if GroupOf(path) != collectionID {
			continue
		}
		if !matchQuery(doc.fields, q) {
			continue
		}
		result = append(result, Document{Path: path, Fields: cloneFields(doc.fields)})
	}

	return sortAndLimit(result, q), nil
}
