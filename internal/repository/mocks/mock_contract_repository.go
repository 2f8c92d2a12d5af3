package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"complianceapi/internal/model"
	"complianceapi/internal/repository"
)

type MockContractRepository struct {
	mock.Mock
}

var _ repository.ContractRepository = (*MockContractRepository)(nil)

func (m *MockContractRepository) Create(ctx context.Context, c *model.Contract) (*model.Contract, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contract), args.Error(1)
}

func (m *MockContractRepository) FindByID(ctx context.Context, id string) (*model.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contract), args.Error(1)
}

func (m *MockContractRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Contract], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Contract]), args.Error(1)
}

func (m *MockContractRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockContractRepository) SaveAnalysis(ctx context.Context, a *model.ContractAnalysis) (*model.ContractAnalysis, error) {
	args := m.Called(ctx, a)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ContractAnalysis), args.Error(1)
}

func (m *MockContractRepository) LatestAnalysis(ctx context.Context, contractID string) (*model.ContractAnalysis, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ContractAnalysis), args.Error(1)
}
