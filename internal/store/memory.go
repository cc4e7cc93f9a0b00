package store

import (
	"context"
	"sync"

	"github.com/jimezsa/jobtrackr/internal/models"
)

// Memory is an in-process store for dry runs and tests.
type Memory struct {
	mu          sync.Mutex
	rows        []Row
	keys        map[models.IdentityKey]struct{}
	nextID      int64
	existsCalls int
	insertCalls int

	// FailExists and FailInsert inject errors when set.
	FailExists func(models.IdentityKey) error
	FailInsert func(Row) error
}

var _ Store = (*Memory)(nil)

func NewMemory(seed ...Row) *Memory {
	m := &Memory{keys: map[models.IdentityKey]struct{}{}}
	for _, row := range seed {
		m.add(row)
	}
	return m
}

func (m *Memory) Exists(_ context.Context, key models.IdentityKey) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.existsCalls++
	if m.FailExists != nil {
		if err := m.FailExists(key); err != nil {
			return false, err
		}
	}
	_, ok := m.keys[key]
	return ok, nil
}

func (m *Memory) Insert(_ context.Context, row Row) (Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.insertCalls++
	if m.FailInsert != nil {
		if err := m.FailInsert(row); err != nil {
			return Row{}, err
		}
	}
	return m.add(row), nil
}

func (m *Memory) add(row Row) Row {
	m.nextID++
	row.ID = m.nextID
	m.rows = append(m.rows, row)
	m.keys[row.Key()] = struct{}{}
	return row
}

// Rows returns a copy of the stored rows in insert order.
func (m *Memory) Rows() []Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Row(nil), m.rows...)
}

// Calls returns how many Exists and Insert calls were made.
func (m *Memory) Calls() (exists int, inserts int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.existsCalls, m.insertCalls
}
