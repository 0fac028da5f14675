// Package testing switches the process into test mode when imported by a
// test binary, so command entrypoints and config loading skip runtime side
// effects.
package testing

import (
	"os"
	"sync"
	stdtesting "testing"
)

// TestTokenSecret signs bearer tokens in HTTP tests.
const TestTokenSecret = "test-secret-0123456789abcdef0123456789"

var once sync.Once

func ensureTestMode() {
	once.Do(func() {
		_ = os.Setenv("RENTALDESK_TEST_MODE", "1")
		setDefault("AUTH_TOKEN_SECRET", TestTokenSecret)
		setDefault("GOTENBERG_URL", "http://127.0.0.1:0")
		setDefault("ENV_FILE", os.DevNull)
	})
}

func setDefault(key, value string) {
	if os.Getenv(key) == "" {
		_ = os.Setenv(key, value)
	}
}

func init() {
	ensureTestMode()
}

// TestMain can be reused by packages that declare no TestMain of their own.
func TestMain(m *stdtesting.M) {
	ensureTestMode()
	os.Exit(m.Run())
}
