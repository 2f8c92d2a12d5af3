package mocks

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"complianceapi/internal/model"
	"complianceapi/internal/service"
)

type MockContractService struct {
	mock.Mock
}

var _ service.ContractService = (*MockContractService)(nil)

func (m *MockContractService) Process(ctx context.Context, r io.Reader, filename, contentType string, size int64) (*service.ProcessResult, error) {
	args := m.Called(ctx, r, filename, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProcessResult), args.Error(1)
}

func (m *MockContractService) List(ctx context.Context, limit, offset int) (*service.ContractListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ContractListResult), args.Error(1)
}

func (m *MockContractService) Get(ctx context.Context, id string) (*model.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contract), args.Error(1)
}

func (m *MockContractService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockContractService) Open(ctx context.Context, id string) (io.ReadCloser, *model.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(*model.Contract), args.Error(2)
}

func (m *MockContractService) DownloadURL(ctx context.Context, id string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, id, expiry)
	return args.String(0), args.Error(1)
}

type MockAnalysisService struct {
	mock.Mock
}

var _ service.AnalysisService = (*MockAnalysisService)(nil)

func (m *MockAnalysisService) Analyze(ctx context.Context, clauses []model.Clause) (*model.Report, error) {
	args := m.Called(ctx, clauses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Report), args.Error(1)
}

func (m *MockAnalysisService) AnalyzeStored(ctx context.Context, contractID string) (*model.ContractAnalysis, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ContractAnalysis), args.Error(1)
}

func (m *MockAnalysisService) LatestAnalysis(ctx context.Context, contractID string) (*model.ContractAnalysis, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ContractAnalysis), args.Error(1)
}
