package app

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/five82/haven/internal/api"
	"github.com/five82/haven/internal/config"
	"github.com/five82/haven/internal/logging"
	"github.com/five82/haven/internal/notify"
	"github.com/five82/haven/internal/prefs"
	"github.com/five82/haven/internal/services"
	"github.com/five82/haven/internal/state"
	"github.com/five82/haven/internal/ui"
)

// Options configure the haven application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/haven/prefs.toml
	PollEvery  int    // seconds; zero uses the configured interval
	Token      string // overrides the configured token when set
}

// Run boots the haven TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	logFile, err := logging.OpenFile(cfg.LogPath)
	if err != nil {
		return err
	}
	defer logFile.Close()

	env, err := Wire(cfg, opts, logFile)
	if err != nil {
		return err
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		env.Logger.Warn("using default preferences", "error", err)
	}

	env.Logger.Info("haven starting", "api_url", cfg.APIURL, "signed_in", env.Containers.Deps.Session.SignedIn())

	StartPoller(ctx, env.Containers, env.PollInterval)

	return ui.Run(ui.Options{
		Context:    ctx,
		Containers: env.Containers,
		Toasts:     env.Toasts,
		Config:     &cfg,
		PollTick:   time.Second,
		Prefs:      userPrefs,
		PrefsPath:  opts.PrefsPath,
	})
}

// Env is the wired object graph shared by the poller and the UI.
type Env struct {
	Logger       *slog.Logger
	Toasts       *notify.Center
	Containers   *state.Containers
	PollInterval time.Duration
}

// Wire builds the client, services and containers for cfg. Log records go
// to w.
func Wire(cfg config.Config, opts Options, w io.Writer) (*Env, error) {
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat == "text", w)
	if err != nil {
		return nil, errors.Wrap(err, "init logger")
	}

	toasts := notify.NewCenter(notify.WithLogger(logger))
	client, err := api.NewClient(cfg.APIURL,
		api.WithTimeout(cfg.Timeout),
		api.WithNotifier(toasts),
		api.WithLogger(logger),
	)
	if err != nil {
		return nil, errors.Wrap(err, "init api client")
	}

	token := cfg.Token
	if opts.Token != "" {
		token = opts.Token
	}

	interval := cfg.PollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	containers := state.NewContainers(state.Deps{
		Services: services.New(client),
		Session:  state.NewSession(token),
		Toasts:   toasts,
		Logger:   logger,
	})
	return &Env{Logger: logger, Toasts: toasts, Containers: containers, PollInterval: interval}, nil
}
