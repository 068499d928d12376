package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bnema/rsessions/internal/adapters/liveness/process"
	sessionsrender "github.com/bnema/rsessions/internal/adapters/render/sessions"
	"github.com/bnema/rsessions/internal/adapters/storage/local"
	"github.com/bnema/rsessions/internal/adapters/storage/shared"
	"github.com/bnema/rsessions/internal/application"
	"github.com/bnema/rsessions/internal/config"
	"github.com/bnema/rsessions/internal/domain"
	"github.com/bnema/rsessions/internal/ports"
	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

var errNotWired = errors.New("command dependencies are not wired")

type app struct {
	cfg      config.Config
	logger   *log.Logger
	storage  ports.SessionStorage
	registry *application.Registry
	global   *application.GlobalActiveSessions
	render   func([]*application.ActiveSession, sessionsrender.RenderOptions) (string, error)
	now      func() time.Time
}

func (a *app) wire(v *viper.Viper, home string, stderr io.Writer) error {
	cfg, err := config.Load(v)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := log.NewWithOptions(stderr, log.Options{
		Level:           cfg.LogLevel,
		Prefix:          "rsessions",
		ReportTimestamp: true,
	})
	if cfg.ConfigFile != "" {
		logger.Debug("config loaded", "file", cfg.ConfigFile)
	}

	storage, err := newStorage(cfg, logger)
	if err != nil {
		return err
	}

	if strings.TrimSpace(home) == "" {
		home, err = os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home directory: %w", err)
		}
	}

	opts := []application.Option{
		application.WithLogger(logger),
		application.WithLivenessChecker(process.Checker{}),
		application.WithHostname(cfg.Node),
	}

	*a = app{
		cfg:      cfg,
		logger:   logger,
		storage:  storage,
		registry: application.NewRegistry(storage, domain.ScopeForHome(home), opts...),
		global:   application.NewGlobalActiveSessions(storage, opts...),
		render:   sessionsrender.Render,
		now:      time.Now,
	}

	return nil
}

func (a *app) ready() error {
	if a.registry == nil {
		return errNotWired
	}

	return nil
}

func newStorage(cfg config.Config, logger *log.Logger) (ports.SessionStorage, error) {
	switch cfg.Backend {
	case config.BackendShared:
		storage, err := shared.NewStorage(cfg.StorageRoot, shared.WithLogger(logger), shared.WithNode(cfg.Node))
		if err != nil {
			return nil, fmt.Errorf("wire shared session storage: %w", err)
		}
		logger.Debug("using shared session storage", "root", storage.Root(), "node", storage.Node())
		return storage, nil
	default:
		storage, err := local.NewStorage(cfg.StorageRoot, local.WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("wire local session storage: %w", err)
		}
		logger.Debug("using local session storage", "root", storage.Root())
		return storage, nil
	}
}
