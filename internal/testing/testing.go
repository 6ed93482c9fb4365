// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/lysn-labs/lysn-cli/internal/models"
)

// MockAuthService is a test double for the auth flow's backend surface.
// Every call succeeds with fixed data.
type MockAuthService struct{}

func (m *MockAuthService) RequestOTP(ctx context.Context, email, name string) error {
	return nil
}

func (m *MockAuthService) VerifyOTP(ctx context.Context, email, code, name string) (*models.Session, error) {
	return &models.Session{Token: "mock_token", Email: email, Name: name}, nil
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*models.Session, error) {
	return &models.Session{Token: "mock_token", Email: email}, nil
}

func (m *MockAuthService) RequestPasswordReset(ctx context.Context, email string) error {
	return nil
}

func (m *MockAuthService) VerifyPasswordReset(ctx context.Context, email, code, newPassword string) error {
	return nil
}

func (m *MockAuthService) SetPassword(ctx context.Context, oldPassword, newPassword string) error {
	return nil
}

func (m *MockAuthService) Me(ctx context.Context) (*models.User, error) {
	return &models.User{Email: "mock@example.com", Name: "Mock User"}, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
