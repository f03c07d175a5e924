// Package operation provides the domain model for async publish operations.
// An Operation moves through a linear lifecycle:
//
//	pending → running → complete | failed.
//
// The store is the authoritative source of truth for operation state; HTTP
// handlers read and write exclusively through it.
package operation

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomasbasham/artifact-publish/internal/upload"
)

// Status represents the lifecycle state of an operation.
type Status string

const (
	StatusPending  Status = "pending"
	StatusRunning  Status = "running"
	StatusComplete Status = "complete"
	StatusFailed   Status = "failed"
)

// Operation represents a single async publish job: one batch of artifacts
// destined for one path.
type Operation struct {
	ID          string    `json:"id"`
	Status      Status    `json:"status"`
	Destination string    `json:"destination"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Artifacts lists the stored metadata of the uploaded batch. Empty until
	// the operation reaches StatusComplete.
	Artifacts []upload.StoredMetadata `json:"artifacts,omitempty"`

	// DryRun records whether the operation ran without backend transfers.
	DryRun bool `json:"dry_run,omitempty"`

	// Error is non-empty if the operation reached StatusFailed.
	Error string `json:"error,omitempty"`
}

// Store is the interface for persisting and retrieving operations. The
// in-memory implementation below is suitable for a single instance; a
// database-backed implementation would satisfy the same interface for
// multi-instance deployments.
type Store interface {
	Create(destination string) (*Operation, error)
	Get(id string) (*Operation, error)
	MarkRunning(id string) error
	MarkComplete(id string, artifacts []upload.StoredMetadata) error
	MarkFailed(id string, err error) error
}

// MemoryStore is a concurrency-safe in-memory Store implementation.
type MemoryStore struct {
	mu  sync.RWMutex
	ops map[string]*Operation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{ops: make(map[string]*Operation)}
}

func (s *MemoryStore) Create(destination string) (*Operation, error) {
	op := &Operation{
		ID:          uuid.New().String(),
		Status:      StatusPending,
		Destination: destination,
		DryRun:      upload.DryRun(),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	s.mu.Lock()
	s.ops[op.ID] = op
	s.mu.Unlock()

	return op, nil
}

func (s *MemoryStore) Get(id string) (*Operation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	op, ok := s.ops[id]
	if !ok {
		return nil, fmt.Errorf("operation %q not found", id)
	}
	// Return a copy to prevent callers from mutating internal state.
	copy := *op
	return &copy, nil
}

func (s *MemoryStore) MarkRunning(id string) error {
	return s.update(id, func(op *Operation) {
		op.Status = StatusRunning
	})
}

func (s *MemoryStore) MarkComplete(id string, artifacts []upload.StoredMetadata) error {
	return s.update(id, func(op *Operation) {
		op.Status = StatusComplete
		op.Artifacts = artifacts
	})
}

func (s *MemoryStore) MarkFailed(id string, err error) error {
	return s.update(id, func(op *Operation) {
		op.Status = StatusFailed
		op.Error = err.Error()
	})
}

func (s *MemoryStore) update(id string, fn func(*Operation)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	op, ok := s.ops[id]
	if !ok {
		return fmt.Errorf("operation %q not found", id)
	}
	fn(op)
	op.UpdatedAt = time.Now()
	return nil
}
