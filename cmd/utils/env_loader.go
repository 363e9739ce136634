package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	envFileFlag   = "--env-file"
	envFileEnvVar = "ENV_FILE"
)

// LoadEnvFile loads environment variables from a dotenv file before cobra
// and viper run. The file is resolved from the --env-file flag first, then
// the ENV_FILE environment variable, then a .env in the working directory.
func LoadEnvFile() error {
	envFilePath := determineEnvFilePath()

	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil {
			return fmt.Errorf("loading env file %s: %w", envFilePath, err)
		}
		return nil
	}

	return loadDefaultEnvFile()
}

func determineEnvFilePath() string {
	if path := parseEnvFileFlag(); path != "" {
		return toAbsolutePath(path)
	}

	if path := os.Getenv(envFileEnvVar); path != "" {
		return toAbsolutePath(path)
	}

	return ""
}

// parseEnvFileFlag scans os.Args directly because the env file must be
// loaded before cobra parses the flags.
func parseEnvFileFlag() string {
	for i, arg := range os.Args {
		switch {
		case strings.HasPrefix(arg, envFileFlag+"="):
			return strings.TrimPrefix(arg, envFileFlag+"=")
		case arg == envFileFlag && i+1 < len(os.Args):
			return os.Args[i+1]
		}
	}
	return ""
}

func toAbsolutePath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

// loadDefaultEnvFile loads environment variables from the default .env file,
// tolerating its absence.
func loadDefaultEnvFile() error {
	err := godotenv.Load()
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("loading .env file: %w", err)
}
