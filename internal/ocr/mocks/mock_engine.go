package mocks

import (
	"context"

	"docextract/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) Recognize(ctx context.Context, imagePath string) (model.OcrResult, error) {
	args := m.Called(ctx, imagePath)
	return args.Get(0).(model.OcrResult), args.Error(1)
}
