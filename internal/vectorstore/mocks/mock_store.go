package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"complianceapi/internal/model"
	"complianceapi/internal/vectorstore"
)

// MockStore is a mock implementation of vectorstore.Store.
type MockStore struct {
	mock.Mock
}

var _ vectorstore.Store = (*MockStore)(nil)

func (m *MockStore) EnsureCollection(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStore) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockStore) Add(ctx context.Context, docs []model.ReferenceDocument) error {
	args := m.Called(ctx, docs)
	return args.Error(0)
}

func (m *MockStore) Query(ctx context.Context, embedding []float32, n int) ([]model.SimilarDocument, error) {
	args := m.Called(ctx, embedding, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SimilarDocument), args.Error(1)
}
