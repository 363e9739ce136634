package main

import (
	"context"

	"github.com/meridianpay/wallet-platform-backend/cmd"
	cmdUtils "github.com/meridianpay/wallet-platform-backend/cmd/utils"
	"github.com/meridianpay/wallet-platform-backend/internal/logging"
)

// Version is the official version of this application.
const Version = "1.3.0"

// GitCommit is populated at build time by
// go build -ldflags "-X main.GitCommit=$GIT_COMMIT"
var GitCommit string

func main() {
	// The log level starts at Trace so logs work from the start. It is
	// overwritten in cmd/root.go once the log-level option is parsed.
	logging.SetLevel("trace")

	ctx := context.Background()
	if err := cmdUtils.LoadEnvFile(); err != nil {
		logging.L(ctx).Warnf("Error loading env file: %v", err)
	}

	rootCmd := cmd.SetupCLI(Version, GitCommit)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logging.L(ctx).Fatalf("Error executing command: %v", err)
	}
}
