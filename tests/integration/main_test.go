// Package integration contains integration tests for the API
package integration

import (
	"os"
	"testing"

	"github.com/Hamzaidb/repo-saas/tests/testutil"
)

// TestMain is the entry point for all integration tests in this package
func TestMain(m *testing.M) {
	code := m.Run()

	testutil.CleanupTestEnvironment()

	os.Exit(code)
}
