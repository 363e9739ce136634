package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_toAbsolutePath(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string returns empty",
			input:    "",
			expected: "",
		},
		{
			name:     "absolute path unchanged",
			input:    "/etc/wallet-platform/.env",
			expected: "/etc/wallet-platform/.env",
		},
		{
			name:     "relative path converted to absolute",
			input:    "deploy/.env",
			expected: filepath.Join(cwd, "deploy/.env"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := toAbsolutePath(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func Test_parseEnvFileFlag(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{
			name:     "no flag present",
			args:     []string{"wallet-platform", "serve"},
			expected: "",
		},
		{
			name:     "flag with space separator",
			args:     []string{"wallet-platform", "--env-file", "/srv/wallet-platform/.env", "serve"},
			expected: "/srv/wallet-platform/.env",
		},
		{
			name:     "flag with equals separator",
			args:     []string{"wallet-platform", "serve", "--env-file=/srv/wallet-platform/.env"},
			expected: "/srv/wallet-platform/.env",
		},
		{
			name:     "flag with missing value at end",
			args:     []string{"wallet-platform", "serve", "--env-file"},
			expected: "",
		},
		{
			name:     "similar flag name ignored",
			args:     []string{"wallet-platform", "--env-file-path", "/srv/wallet-platform/.env"},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			originalArgs := os.Args
			t.Cleanup(func() { os.Args = originalArgs })

			os.Args = tt.args
			result := parseEnvFileFlag()
			assert.Equal(t, tt.expected, result)
		})
	}
}

func Test_determineEnvFilePath(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	tests := []struct {
		name     string
		args     []string
		envVar   string
		expected string
	}{
		{
			name:     "nothing set returns empty",
			args:     []string{"wallet-platform"},
			expected: "",
		},
		{
			name:     "flag takes precedence over env var",
			args:     []string{"wallet-platform", "--env-file", "/srv/flag/.env"},
			envVar:   "/srv/envvar/.env",
			expected: "/srv/flag/.env",
		},
		{
			name:     "env var used when no flag",
			args:     []string{"wallet-platform"},
			envVar:   "/srv/envvar/.env",
			expected: "/srv/envvar/.env",
		},
		{
			name:     "relative flag path converted to absolute",
			args:     []string{"wallet-platform", "--env-file", "deploy/.env"},
			expected: filepath.Join(cwd, "deploy/.env"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			originalArgs := os.Args
			t.Cleanup(func() { os.Args = originalArgs })
			os.Args = tt.args

			if tt.envVar != "" {
				t.Setenv(envFileEnvVar, tt.envVar)
			}

			result := determineEnvFilePath()
			assert.Equal(t, tt.expected, result)
		})
	}
}

func Test_LoadEnvFile(t *testing.T) {
	t.Run("loads env file referenced by the flag", func(t *testing.T) {
		tmpDir := t.TempDir()
		envPath := filepath.Join(tmpDir, ".env")
		err := os.WriteFile(envPath, []byte("WP_TEST_LOAD_VAR=loaded-from-file\n"), 0o644)
		require.NoError(t, err)

		originalArgs := os.Args
		t.Cleanup(func() {
			os.Args = originalArgs
			require.NoError(t, os.Unsetenv("WP_TEST_LOAD_VAR"))
		})
		os.Args = []string{"wallet-platform", "--env-file", envPath}

		err = LoadEnvFile()
		assert.NoError(t, err)
		assert.Equal(t, "loaded-from-file", os.Getenv("WP_TEST_LOAD_VAR"))
	})

	t.Run("returns error for nonexistent explicit file", func(t *testing.T) {
		originalArgs := os.Args
		t.Cleanup(func() { os.Args = originalArgs })
		os.Args = []string{"wallet-platform", "--env-file", "/nonexistent/path/.env"}

		err := LoadEnvFile()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "loading env file /nonexistent/path/.env")
	})

	t.Run("tolerates a missing default .env file", func(t *testing.T) {
		tmpDir := t.TempDir()
		originalWd, err := os.Getwd()
		require.NoError(t, err)
		require.NoError(t, os.Chdir(tmpDir))
		t.Cleanup(func() { require.NoError(t, os.Chdir(originalWd)) })

		originalArgs := os.Args
		t.Cleanup(func() { os.Args = originalArgs })
		os.Args = []string{"wallet-platform"}

		err = LoadEnvFile()
		assert.NoError(t, err)
	})
}
