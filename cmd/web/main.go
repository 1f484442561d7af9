package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/joho/godotenv"
	"github.com/myrjola/avalanchemystery/internal/artwork"
	"github.com/myrjola/avalanchemystery/internal/broker"
	"github.com/myrjola/avalanchemystery/internal/casegen"
	"github.com/myrjola/avalanchemystery/internal/cluegen"
	"github.com/myrjola/avalanchemystery/internal/envstruct"
	"github.com/myrjola/avalanchemystery/internal/errors"
	"github.com/myrjola/avalanchemystery/internal/glossary"
	"github.com/myrjola/avalanchemystery/internal/jobs"
	"github.com/myrjola/avalanchemystery/internal/logging"
	"github.com/myrjola/avalanchemystery/internal/mystery"
	"github.com/myrjola/avalanchemystery/internal/pprofserver"
	"github.com/myrjola/avalanchemystery/internal/repositories"
	"github.com/myrjola/avalanchemystery/internal/sqlite"
	"github.com/myrjola/avalanchemystery/internal/textgen"
)

type application struct {
	logger         *slog.Logger
	sessionManager *scs.SessionManager
	mysteries      *mystery.Manager
	cases          *casegen.Synthesizer
	glossary       *glossary.Glossary
	audits         *repositories.GenerationRepository
	caseJobs       *broker.ChannelBroker[string, caseJobEvent]
	secureCookies  bool
	now            func() time.Time
}

type config struct {
	// Addr is the address the HTTP server listens on. Port 0 picks a free port.
	Addr string `env:"MYSTERY_ADDR" envDefault:"localhost:4000"`
	// PprofPort is the loopback port for pprof. Empty disables it.
	PprofPort      string        `env:"MYSTERY_PPROF_PORT" envDefault:":6060"`
	SqliteURL      string        `env:"MYSTERY_SQLITE_URL" envDefault:"./mystery.sqlite"`
	SecureCookies  bool          `env:"MYSTERY_SECURE_COOKIES" envDefault:"true"`
	SettleInterval time.Duration `env:"MYSTERY_SETTLE_INTERVAL" envDefault:"1m"`
	ClueInventory  int           `env:"MYSTERY_CLUE_INVENTORY" envDefault:"15"`
}

type options struct {
	textBackend textgen.Backend
	illustrator mystery.Illustrator
}

type option func(*options)

// withTextBackend bypasses the configured text generation provider.
func withTextBackend(b textgen.Backend) option {
	return func(o *options) { o.textBackend = b }
}

// withIllustrator bypasses the configured artwork pipeline.
func withIllustrator(i mystery.Illustrator) option {
	return func(o *options) { o.illustrator = i }
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool), opts ...option) error {
	var (
		cfg        config
		textCfg    textgen.Config
		artworkCfg artwork.Config
		err        error
	)
	for _, v := range []any{&cfg, &textCfg, &artworkCfg} {
		if err = envstruct.Populate(v, lookupEnv); err != nil {
			return errors.Wrap(err, "populate config")
		}
	}
	if cfg.ClueInventory < 0 {
		return errors.New("clue inventory must not be negative", slog.Int("clue_inventory", cfg.ClueInventory))
	}
	o := options{textBackend: nil, illustrator: nil}
	for _, opt := range opts {
		opt(&o)
	}

	pprofserver.Launch(ctx, cfg.PprofPort, logger)

	var db *sqlite.Database
	if db, err = sqlite.NewDatabase(ctx, cfg.SqliteURL, logger); err != nil {
		return errors.Wrap(err, "open database", slog.String("url", cfg.SqliteURL))
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.LogAttrs(ctx, slog.LevelError, "close database", errors.SlogError(closeErr))
		}
	}()

	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.NewWithCleanupInterval(db.ReadWrite.DB, 24*time.Hour) //nolint:mnd // daily
	sessionManager.Lifetime = 12 * time.Hour                                                    //nolint:mnd // half a day
	sessionManager.Cookie.Secure = cfg.SecureCookies

	var text *textgen.Client
	if o.textBackend != nil {
		text = textgen.NewWithBackend(logger, o.textBackend)
	} else {
		text = textgen.New(logger, textCfg)
	}
	defer func() {
		if closeErr := text.Close(); closeErr != nil {
			logger.LogAttrs(ctx, slog.LevelError, "close text generation", errors.SlogError(closeErr))
		}
	}()

	g := glossary.Default()
	audits := repositories.NewGenerationRepository(db, logger)
	cases := casegen.New(logger, text, g, casegen.WithRecorder(audits))
	clues := cluegen.New(logger, text, g)

	managerOpts := []mystery.Option{mystery.WithInventorySize(cfg.ClueInventory)}
	illustrator := o.illustrator
	if illustrator == nil && artworkCfg.Enabled() && textCfg.OpenAIAPIKey != "" {
		var store *artwork.Store
		if store, err = artwork.NewS3Store(ctx, artworkCfg); err != nil {
			return errors.Wrap(err, "configure artwork store")
		}
		illustrator = artwork.NewStudio(logger, artwork.NewOpenAIPainter(textCfg.OpenAIAPIKey), store)
	}
	if illustrator != nil {
		managerOpts = append(managerOpts, mystery.WithIllustrator(illustrator))
	}
	mysteries := mystery.NewManager(logger, cases, clues, managerOpts...)

	var scheduler *jobs.Scheduler
	if scheduler, err = jobs.NewScheduler(logger); err != nil {
		return errors.Wrap(err, "create scheduler")
	}
	if err = scheduler.Every(ctx, "settle-expired", cfg.SettleInterval, jobs.NewSettler(logger, mysteries)); err != nil {
		return errors.Wrap(err, "schedule settlement")
	}
	if err = scheduler.Every(ctx, "optimize-database", time.Hour, jobs.NewDatabaseOptimizer(logger, db)); err != nil {
		return errors.Wrap(err, "schedule database optimization")
	}
	scheduler.Start()
	defer func() {
		if shutdownErr := scheduler.Shutdown(); shutdownErr != nil {
			logger.LogAttrs(ctx, slog.LevelError, "shutdown scheduler", errors.SlogError(shutdownErr))
		}
	}()

	caseJobs := broker.NewChannelBroker[string, caseJobEvent]()
	go caseJobs.Start()
	defer caseJobs.Stop()

	app := application{
		logger:         logger,
		sessionManager: sessionManager,
		mysteries:      mysteries,
		cases:          cases,
		glossary:       g,
		audits:         audits,
		caseJobs:       caseJobs,
		secureCookies:  cfg.SecureCookies,
		now:            time.Now,
	}

	return app.configureAndStartServer(ctx, cfg.Addr)
}

func main() {
	ctx := context.Background()
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.LogAttrs(ctx, slog.LevelError, "failure loading .env", errors.SlogError(err))
		os.Exit(1)
	}

	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
