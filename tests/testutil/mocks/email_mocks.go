package mocks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockEmailSender is a mock of service.EmailSender
type MockEmailSender struct {
	mock.Mock
}

func NewMockEmailSender(t *testing.T) *MockEmailSender {
	m := &MockEmailSender{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockEmailSender) SendWelcome(ctx context.Context, to, userName, loginURL string) error {
	args := m.Called(ctx, to, userName, loginURL)
	return args.Error(0)
}

func (m *MockEmailSender) SendEmailVerification(ctx context.Context, to, userName, verifyURL string, expiresIn time.Duration) error {
	args := m.Called(ctx, to, userName, verifyURL, expiresIn)
	return args.Error(0)
}

func (m *MockEmailSender) SendPasswordReset(ctx context.Context, to, userName, resetURL string, expiresIn time.Duration) error {
	args := m.Called(ctx, to, userName, resetURL, expiresIn)
	return args.Error(0)
}
