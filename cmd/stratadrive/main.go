// Command stratadrive is an interactive shell for a remote drive:
// browse folders, search, upload, share, and manage the trash from a
// terminal.
package main

import (
	"fmt"
	"os"

	"github.com/dalemusser/stratadrive/internal/app/bootstrap"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	coreCfg, appCfg, err := bootstrap.LoadConfig(logger)
	if err != nil {
		logger.Error("loading config", zap.Error(err))
		os.Exit(1)
	}
	if err := bootstrap.ValidateConfig(coreCfg, appCfg, logger); err != nil {
		logger.Error("invalid config", zap.Error(err))
		os.Exit(1)
	}

	deps, err := bootstrap.BuildDeps(appCfg, printNotifier{}, logger)
	if err != nil {
		logger.Error("building dependencies", zap.Error(err))
		os.Exit(1)
	}

	sh := newShell(deps, os.Stdin, os.Stdout)
	if err := sh.run(); err != nil {
		logger.Error("shell exited", zap.Error(err))
		os.Exit(1)
	}
}

// printNotifier writes notifications straight to the terminal.
type printNotifier struct{}

func (printNotifier) Success(msg string) { fmt.Println(msg) }
func (printNotifier) Error(msg string)   { fmt.Println("error:", msg) }
