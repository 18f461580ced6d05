package mocks

import (
	"context"

	"docextract/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockStructurer struct {
	mock.Mock
}

func (m *MockStructurer) Structure(ctx context.Context, text string) (model.StructuredFields, error) {
	args := m.Called(ctx, text)
	return args.Get(0).(model.StructuredFields), args.Error(1)
}
