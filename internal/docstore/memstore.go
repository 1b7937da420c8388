package docstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

var _ Store = (*MemStore)(nil)

// MemStore is the in-memory Store used in unit tests and local development.
// It is the reference for subscription semantics: every acknowledged mutation
// is reflected in the next snapshot delivered to subscribers of that path.
type MemStore struct {
	mu      sync.Mutex
	docs    map[string]map[string]map[string]any // path -> id -> fields
	order   map[string][]string                  // insertion order of ids per path
	subs    map[string]map[int]chan Snapshot
	nextSub int
}

func NewMemStore() *MemStore {
	return &MemStore{
		docs:  make(map[string]map[string]map[string]any),
		order: make(map[string][]string),
		subs:  make(map[string]map[int]chan Snapshot),
	}
}

func (ms *MemStore) Subscribe(_ context.Context, path string) (<-chan Snapshot, func(), error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	// buffer of 1 with latest-wins coalescing, a slow subscriber only ever
	// skips intermediate snapshots, never the most recent one
	ch := make(chan Snapshot, 1)
	id := ms.nextSub
	ms.nextSub++

	if ms.subs[path] == nil {
		ms.subs[path] = make(map[int]chan Snapshot)
	}
	ms.subs[path][id] = ch

	ch <- ms.snapshotLocked(path)

	var unsubOnce sync.Once
	unsubscribe := func() {
		unsubOnce.Do(func() {
			ms.mu.Lock()
			defer ms.mu.Unlock()
			delete(ms.subs[path], id)
			close(ch)
		})
	}

	return ch, unsubscribe, nil
}

func (ms *MemStore) GetOnce(_ context.Context, path string) (Snapshot, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.snapshotLocked(path), nil
}

func (ms *MemStore) Create(_ context.Context, path string, fields map[string]any) (string, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	id := uuid.NewString()
	ms.createLocked(path, id, fields)
	ms.notifyLocked(path)

	return id, nil
}

func (ms *MemStore) Update(_ context.Context, path, id string, fields map[string]any) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if err := ms.updateLocked(path, id, fields); err != nil {
		return err
	}
	ms.notifyLocked(path)

	return nil
}

func (ms *MemStore) Delete(_ context.Context, path, id string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.deleteLocked(path, id)
	ms.notifyLocked(path)

	return nil
}

func (ms *MemStore) Batch(_ context.Context, ops []Op) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	// all-or-nothing: check every update target before touching anything,
	// an update may target a document created earlier in the same batch
	created := make(map[[2]string]struct{})
	for _, op := range ops {
		switch op.Kind {
		case OpCreate:
			if op.ID != "" {
				created[[2]string{op.Path, op.ID}] = struct{}{}
			}
		case OpUpdate:
			if _, ok := created[[2]string{op.Path, op.ID}]; ok {
				continue
			}
			if _, ok := ms.docs[op.Path][op.ID]; !ok {
				return fmt.Errorf("batch op [update %s/%s]: %w", op.Path, op.ID, ErrNotFound)
			}
		case OpDelete:
			delete(created, [2]string{op.Path, op.ID})
		}
	}

	touched := make(map[string]struct{})
	for _, op := range ops {
		switch op.Kind {
		case OpCreate:
			id := op.ID
			if id == "" {
				id = uuid.NewString()
			}
			ms.createLocked(op.Path, id, op.Fields)
		case OpUpdate:
			if err := ms.updateLocked(op.Path, op.ID, op.Fields); err != nil {
				return err
			}
		case OpDelete:
			ms.deleteLocked(op.Path, op.ID)
		}
		touched[op.Path] = struct{}{}
	}

	for path := range touched {
		ms.notifyLocked(path)
	}

	return nil
}

func (ms *MemStore) createLocked(path, id string, fields map[string]any) {
	if ms.docs[path] == nil {
		ms.docs[path] = make(map[string]map[string]any)
	}
	if _, exists := ms.docs[path][id]; !exists {
		ms.order[path] = append(ms.order[path], id)
	}
	ms.docs[path][id] = copyFields(fields)
}

func (ms *MemStore) updateLocked(path, id string, fields map[string]any) error {
	doc, ok := ms.docs[path][id]
	if !ok {
		return fmt.Errorf("update %s/%s: %w", path, id, ErrNotFound)
	}
	for k, v := range fields {
		doc[k] = copyValue(v)
	}
	return nil
}

func (ms *MemStore) deleteLocked(path, id string) {
	if _, ok := ms.docs[path][id]; !ok {
		return
	}
	delete(ms.docs[path], id)
	ids := ms.order[path]
	for i, existing := range ids {
		if existing == id {
			ms.order[path] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
}

// snapshotLocked returns a deep copy so subscribers never alias store internals.
func (ms *MemStore) snapshotLocked(path string) Snapshot {
	snapshot := make(Snapshot, 0, len(ms.order[path]))
	for _, id := range ms.order[path] {
		snapshot = append(snapshot, Document{
			ID:     id,
			Fields: copyFields(ms.docs[path][id]),
		})
	}
	return snapshot
}

func (ms *MemStore) notifyLocked(path string) {
	snapshot := ms.snapshotLocked(path)
	for _, ch := range ms.subs[path] {
		select {
		case <-ch: // drop the stale pending snapshot
		default:
		}
		ch <- snapshot
	}
}

func copyFields(fields map[string]any) map[string]any {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = copyValue(v)
	}
	return copied
}

func copyValue(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		return copyFields(typed)
	case []any:
		copied := make([]any, len(typed))
		for i, elem := range typed {
			copied[i] = copyValue(elem)
		}
		return copied
	default:
		return v
	}
}
