package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dshills/gitrange/internal/config"
	"github.com/dshills/gitrange/internal/gitctx"
	"github.com/dshills/gitrange/internal/plugin"
	"github.com/dshills/gitrange/internal/site"
)

// session is one command's view of the repository and docs tree.
type session struct {
	cfg    config.Config
	build  *plugin.BuildContext
	files  site.Files
	logger *log.Logger
}

// loadConfig reads the effective configuration. Errors are usage errors.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig, buildOverrides())
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newSession(ctx context.Context, cfg config.Config) (*session, error) {
	logger := newLogger()
	if !cfg.Listed {
		logger.Printf("warn: %s is not listed under plugins in %s", config.PluginName, cfg.Path)
	}

	repo, err := gitctx.Open(ctx, cfg.BaseDir(),
		gitctx.WithRunner(gitctx.ExecRunner{Timeout: cfg.Timeout()}),
		gitctx.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	b, err := plugin.New(ctx, cfg, repo, logger)
	if err != nil {
		return nil, err
	}
	files, err := site.Discover(cfg.DocsPath())
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, build: b, files: files, logger: logger}, nil
}

// fail reports a runtime error and sets the exit code. The command itself
// returns nil so Cobra does not print usage.
func fail(err error) error {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	exitCode = ExitRuntimeError
	return nil
}
