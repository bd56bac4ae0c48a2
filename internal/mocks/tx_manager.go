package mocks

import (
	"context"
	"sync"

	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/repository"
	"github.com/stretchr/testify/mock"
)

var _ repository.TxManager = (*TxManager)(nil)

// TxManager runs fn inline and counts outcomes. An expectation that returns
// an error fails the transaction before fn runs.
type TxManager struct {
	mock.Mock

	mu        sync.Mutex
	commits   int
	rollbacks int
}

func (m *TxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	err := m.Called(ctx, fn).Error(0)
	if err == nil {
		err = fn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.rollbacks++
	} else {
		m.commits++
	}

	return err
}

func (m *TxManager) Commits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commits
}

func (m *TxManager) Rollbacks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rollbacks
}
