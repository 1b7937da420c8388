// Package docstore is the persistence layer for all user fitness data. Every
// collection is a flat set of documents with opaque string ids, addressed by a
// user-scoped path. Subscribers receive the full current snapshot of a path on
// every change, never deltas.
package docstore

import (
	"context"
	"errors"
	"fmt"
)

// Collection names under users/<uid>/.
const (
	CollMuscleGroups     = "muscleGroups"
	CollSubcategories    = "subcategories"
	CollExercises        = "exercises"
	CollRoutines         = "routines"
	CollPersonalRecords  = "personalRecords"
	CollBodyMeasurements = "bodyMeasurements"
	CollProfile          = "profile"
	CollAppState         = "appState"

	// singleton document ids
	DocProfileMain = "main"
	DocPRFavorites = "prFavorites"
)

var ErrNotFound = errors.New("document not found")

// WriteError wraps a storage failure on a mutating operation.
type WriteError struct {
	Op   string
	Path string
	Err  error
}

func (we *WriteError) Error() string {
	return fmt.Sprintf("write error [%s %s]: %s", we.Op, we.Path, we.Err)
}

func (we *WriteError) Unwrap() error {
	return we.Err
}

type Document struct {
	ID     string
	Fields map[string]any
}

// Snapshot is the complete current content of one collection path.
type Snapshot []Document

type OpKind int

const (
	OpCreate OpKind = iota
	OpUpdate
	OpDelete
)

// Op is a single mutation within a Batch. For OpCreate the ID may be
// pre-generated by the caller (needed when later ops in the same batch
// reference it in their path), or left empty to let the store assign one.
type Op struct {
	Kind   OpKind
	Path   string
	ID     string
	Fields map[string]any
}

type Store interface {
	// Subscribe delivers the current snapshot immediately, then a fresh
	// snapshot after every acknowledged mutation of the path. The returned
	// func tears the subscription down and is safe to call more than once.
	Subscribe(ctx context.Context, path string) (<-chan Snapshot, func(), error)
	GetOnce(ctx context.Context, path string) (Snapshot, error)
	Create(ctx context.Context, path string, fields map[string]any) (string, error)
	// Update merges the given fields into the document. Fails with
	// ErrNotFound if the id does not exist.
	Update(ctx context.Context, path, id string, fields map[string]any) error
	// Delete is idempotent, removing an already absent id is not an error.
	Delete(ctx context.Context, path, id string) error
	// Batch applies all ops atomically, all-or-nothing.
	Batch(ctx context.Context, ops []Op) error
}

func UserCollection(userID, collection string) string {
	return fmt.Sprintf("users/%s/%s", userID, collection)
}

func RoutineDaysPath(userID, routineID string) string {
	return fmt.Sprintf("users/%s/%s/%s/days", userID, CollRoutines, routineID)
}
