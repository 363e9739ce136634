package utils

import (
	"os"
	"strings"
	"testing"
)

// ClearTestEnvironment removes all envs from the test environment. It's
// useful to make tests independent from the localhost environment variables.
func ClearTestEnvironment(t *testing.T) {
	t.Helper()

	for _, env := range os.Environ() {
		key := env[:strings.Index(env, "=")]
		t.Setenv(key, "")
	}
}
