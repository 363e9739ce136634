package utils

import (
	"github.com/sirupsen/logrus"

	"github.com/meridianpay/wallet-platform-backend/internal/crashtracker"
)

// GlobalOptionsType holds the CLI options shared by every command.
type GlobalOptionsType struct {
	LogLevel     logrus.Level
	SentryDSN    string
	Environment  string
	Version      string
	GitCommit    string
	DatabaseURL  string
	DatabaseName string
	BaseURL      string
}

// PopulateCrashTrackerOptions fills the crash tracker options from the global
// options.
func (g GlobalOptionsType) PopulateCrashTrackerOptions(crashTrackerOptions *crashtracker.CrashTrackerOptions) {
	if crashTrackerOptions.CrashTrackerType == crashtracker.CrashTrackerTypeSentry {
		crashTrackerOptions.SentryDSN = g.SentryDSN
	}
	crashTrackerOptions.Environment = g.Environment
	crashTrackerOptions.GitCommit = g.GitCommit
}
