package mocks

import (
	"context"

	"docextract/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockDetector struct {
	mock.Mock
}

func (m *MockDetector) Detect(ctx context.Context, imagePath string) ([]model.TextRegion, error) {
	args := m.Called(ctx, imagePath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TextRegion), args.Error(1)
}
