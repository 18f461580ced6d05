package mocks

import (
	"io"

	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Save(name string, r io.Reader) (string, error) {
	args := m.Called(name, r)
	return args.String(0), args.Error(1)
}

func (m *MockStore) Remove(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

func (m *MockStore) Dir() string {
	args := m.Called()
	return args.String(0)
}
