// Package store provides shape libraries: collections of shapes that layers
// reference by ID.
//
// [Library] is the synchronous in-memory collection a document owns. [Store]
// is the context-aware persistence interface used to share shapes between
// documents; [Memory] implements it in memory and the sqlite subpackage
// implements it on disk.
package store

import (
	"context"
	"sync"

	derrors "github.com/matzehuels/drawkit/pkg/errors"
	"github.com/matzehuels/drawkit/pkg/shape"
)

// Store persists shapes by ID.
//
// Get returns an error with code [derrors.ErrCodeNotFound] for unknown IDs.
// Put inserts or replaces. Delete of an unknown ID is not an error.
type Store interface {
	Put(ctx context.Context, s *shape.Shape) error
	Get(ctx context.Context, id string) (*shape.Shape, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*shape.Shape, error)
	Close() error
}

// Memory is a Store backed by a [Library] and safe for concurrent use.
// Shapes are copied on the way in and out.
type Memory struct {
	mu  sync.RWMutex
	lib *Library
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{lib: NewLibrary()}
}

func (m *Memory) Put(_ context.Context, s *shape.Shape) error {
	if s == nil {
		return derrors.New(derrors.ErrCodeInvalidInput, "cannot store nil shape")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lib.Put(s.Clone())
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (*shape.Shape, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.lib.Get(id)
	if !ok {
		return nil, derrors.New(derrors.ErrCodeNotFound, "shape %q not found", id)
	}
	return s.Clone(), nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lib.Remove(id)
	return nil
}

func (m *Memory) List(_ context.Context) ([]*shape.Shape, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	shapes := m.lib.Shapes()
	for i, s := range shapes {
		shapes[i] = s.Clone()
	}
	return shapes, nil
}

func (m *Memory) Close() error { return nil }

// Import copies every shape of lib into s.
func Import(ctx context.Context, s Store, lib *Library) (int, error) {
	n := 0
	for _, sh := range lib.Shapes() {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if err := s.Put(ctx, sh); err != nil {
			return n, derrors.Wrap(derrors.ErrCodeInternal, err, "store shape %s", sh.ID())
		}
		n++
	}
	return n, nil
}
