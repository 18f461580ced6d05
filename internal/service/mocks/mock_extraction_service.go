package mocks

import (
	"context"
	"io"

	"docextract/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockExtractionService struct {
	mock.Mock
}

func (m *MockExtractionService) Extract(ctx context.Context, r io.Reader, filename string) ([]model.PageResult, error) {
	args := m.Called(ctx, r, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PageResult), args.Error(1)
}
