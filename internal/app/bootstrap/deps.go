// internal/app/bootstrap/deps.go
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dalemusser/stratadrive/internal/app/features/browse"
	"github.com/dalemusser/stratadrive/internal/app/features/share"
	"github.com/dalemusser/stratadrive/internal/app/features/shared"
	"github.com/dalemusser/stratadrive/internal/app/features/trash"
	"github.com/dalemusser/stratadrive/internal/app/features/uploads"
	"github.com/dalemusser/stratadrive/internal/app/gateway"
	"github.com/dalemusser/stratadrive/internal/app/system/notify"
	"github.com/dalemusser/stratadrive/internal/app/system/session"
	"github.com/dalemusser/stratadrive/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Deps bundles the wired application components. Everything downstream of
// configuration hangs off this struct: the shell consumes it, and tests
// can build one against a fake server.
type Deps struct {
	Logger   *zap.Logger
	Session  session.Provider
	Gateway  *gateway.Client
	Notifier notify.Notifier

	Browse  *browse.Controller
	Trash   *trash.Controller
	Shared  *shared.Controller
	Share   *share.Service
	Uploads *uploads.Runner
}

// BuildDeps constructs the component graph from validated configuration:
// session accessor, gateway, then the feature controllers on top.
func BuildDeps(appCfg AppConfig, notifier notify.Notifier, logger *zap.Logger) (*Deps, error) {
	token := appCfg.Token
	if token == "" && appCfg.TokenFile != "" {
		raw, err := os.ReadFile(appCfg.TokenFile)
		if err != nil {
			return nil, fmt.Errorf("reading token file: %w", err)
		}
		token = strings.TrimSpace(string(raw))
	}

	sess := session.NewStatic(token, logger)

	gw, err := gateway.New(gateway.Config{
		BaseURL: appCfg.BaseURL,
		Timeout: appCfg.HTTPTimeout,
		Session: sess,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}

	timeouts.Configure(timeouts.Config{
		Mutate: appCfg.MutateTimeout,
		List:   appCfg.ListTimeout,
		Batch:  appCfg.BatchTimeout,
	})

	if notifier == nil {
		notifier = notify.NewLog(logger)
	}

	shareSvc := share.New(gw, notifier, logger)

	// The runner's refresh closes over the browse controller built just
	// after it; batches only run once both exist.
	var browseCtrl *browse.Controller
	runner := uploads.NewRunner(uploads.Config{
		Uploader:    gw,
		Refresh:     browseRefresh(&browseCtrl),
		Concurrency: appCfg.UploadConcurrency,
		Notifier:    notifier,
		Logger:      logger,
	})

	browseCtrl = browse.New(browse.Config{
		Gateway:  gw,
		Uploader: runner,
		Opener:   shareSvc,
		Notifier: notifier,
		Logger:   logger,
		Sort:     appCfg.DefaultSort,
	})

	return &Deps{
		Logger:   logger,
		Session:  sess,
		Gateway:  gw,
		Notifier: notifier,
		Browse:   browseCtrl,
		Trash:    trash.New(gw, notifier, logger),
		Shared:   shared.New(gw, notifier, logger),
		Share:    shareSvc,
		Uploads:  runner,
	}, nil
}

func browseRefresh(ctrl **browse.Controller) func(ctx context.Context) {
	return func(ctx context.Context) {
		if *ctrl != nil {
			(*ctrl).Refresh(ctx)
		}
	}
}
