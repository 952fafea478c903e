package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/lorrc/ticket-report-backend/internal/core/domain"
	"github.com/lorrc/ticket-report-backend/internal/core/ports"
)

// MockDatasetStore is a mock implementation of ports.DatasetStore
type MockDatasetStore struct {
	mock.Mock
}

func NewMockDatasetStore() *MockDatasetStore {
	return &MockDatasetStore{}
}

func (m *MockDatasetStore) Put(ctx context.Context, dataset *domain.Dataset) error {
	args := m.Called(ctx, dataset)
	return args.Error(0)
}

func (m *MockDatasetStore) Get(ctx context.Context, id string) (*domain.Dataset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dataset), args.Error(1)
}

// MockDatasetService is a mock implementation of ports.DatasetService
type MockDatasetService struct {
	mock.Mock
}

func NewMockDatasetService() *MockDatasetService {
	return &MockDatasetService{}
}

func (m *MockDatasetService) Ingest(ctx context.Context, name string, raw io.Reader) (*ports.IngestResult, error) {
	args := m.Called(ctx, name, raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.IngestResult), args.Error(1)
}

func (m *MockDatasetService) GetDataset(ctx context.Context, id string) (*domain.Dataset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dataset), args.Error(1)
}

// MockReportService is a mock implementation of ports.ReportService
type MockReportService struct {
	mock.Mock
}

func NewMockReportService() *MockReportService {
	return &MockReportService{}
}

func (m *MockReportService) BuildReport(ctx context.Context, params ports.ReportParams) (*domain.Report, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *MockReportService) FilterTickets(ctx context.Context, params ports.ListTicketsParams) ([]domain.Ticket, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ticket), args.Error(1)
}
