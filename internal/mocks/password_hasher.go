package mocks

import (
	"github.com/stretchr/testify/mock"
	"github.com/zahid-akhtar7979/wildlife-api/internal/service/auth"
)

// MockPasswordHasher is a testify mock of auth.PasswordHasher.
type MockPasswordHasher struct {
	mock.Mock
}

var _ auth.PasswordHasher = (*MockPasswordHasher)(nil)

// Hash mocks auth.PasswordHasher.Hash
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

// Compare mocks auth.PasswordVerifier.Compare
func (m *MockPasswordHasher) Compare(hashedPassword, password string) error {
	return m.Called(hashedPassword, password).Error(0)
}
