package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/vsinha/bomview/pkg/domain/entities"
	"github.com/vsinha/bomview/pkg/domain/repositories"
)

// OperationRepository provides in-memory operation storage indexed by make method
type OperationRepository struct {
	mu         sync.RWMutex
	operations []entities.OperationRecord
	byMethod   map[string][]int
}

// NewOperationRepository creates a new in-memory operation repository
func NewOperationRepository(expectedOperations int) *OperationRepository {
	return &OperationRepository{
		operations: make([]entities.OperationRecord, 0, expectedOperations),
		byMethod:   make(map[string][]int),
	}
}

// Verify interface compliance
var _ repositories.OperationRepository = (*OperationRepository)(nil)

// LoadOperations appends operations to the repository
func (r *OperationRepository) LoadOperations(ops []entities.OperationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, op := range ops {
		r.addOperation(op)
	}
	return nil
}

// AddOperation adds a single operation
func (r *OperationRepository) AddOperation(op entities.OperationRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.addOperation(op)
}

func (r *OperationRepository) addOperation(op entities.OperationRecord) {
	index := len(r.operations)
	r.operations = append(r.operations, op)
	r.byMethod[op.MakeMethodID] = append(r.byMethod[op.MakeMethodID], index)
}

// GetOperations returns a copy of the make method's operations sorted by order.
// Operations with the same order keep their load order.
func (r *OperationRepository) GetOperations(_ context.Context, makeMethodID string) ([]entities.OperationRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	indexes := r.byMethod[makeMethodID]
	ops := make([]entities.OperationRecord, 0, len(indexes))
	for _, index := range indexes {
		ops = append(ops, r.operations[index])
	}
	sort.SliceStable(ops, func(i, j int) bool {
		return ops[i].Order < ops[j].Order
	})
	return ops, nil
}

// Count returns the number of stored operations
func (r *OperationRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.operations)
}
