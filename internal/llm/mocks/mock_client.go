package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"complianceapi/internal/llm"
	"complianceapi/internal/model"
)

type MockClient struct {
	mock.Mock
}

var _ llm.Client = (*MockClient)(nil)

func (m *MockClient) ExtractClauses(ctx context.Context, text string) ([]model.Clause, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Clause), args.Error(1)
}

func (m *MockClient) AnalyzeContract(ctx context.Context, contractText, similar string) (*model.Report, error) {
	args := m.Called(ctx, contractText, similar)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Report), args.Error(1)
}
