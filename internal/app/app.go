package app

import (
	"context"
	"fmt"
	"time"

	"github.com/crewops/automation-engine/internal/config"
	"github.com/crewops/automation-engine/internal/server"
	"github.com/crewops/automation-engine/pkg/action"
	actionBuiltin "github.com/crewops/automation-engine/pkg/action/builtin"
	"github.com/crewops/automation-engine/pkg/common"
	"github.com/crewops/automation-engine/pkg/engine"
	"github.com/crewops/automation-engine/pkg/rule"
	"github.com/crewops/automation-engine/pkg/service"
	"github.com/cenkalti/backoff/v4"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// App holds all application dependencies and manages the application lifecycle.
type App struct {
	cfg               *config.Config
	redisClient       *redis.Client
	eng               *engine.Engine
	recorder          *engine.MemoryRecorder
	metricsServer     *server.MetricsServer
	shutdownTelemetry func(context.Context) error

	thresholdStop chan struct{}
	thresholdDone chan struct{}
}

// New creates and initializes a new application instance. Components
// are initialized in dependency order: Redis, collaborators, action
// handlers, engine, rule set, servers, telemetry.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logrus.Info("initializing application...")

	app := &App{cfg: cfg}

	if err := app.initRedis(ctx); err != nil {
		return nil, fmt.Errorf("failed to init Redis: %w", err)
	}

	if err := app.initEngine(); err != nil {
		return nil, fmt.Errorf("failed to init engine: %w", err)
	}

	if err := app.loadRules(); err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}

	app.metricsServer = server.NewMetricsServer(cfg.MetricsPort, "/metrics")
	if err := app.metricsServer.Setup(); err != nil {
		return nil, fmt.Errorf("failed to set up metrics server: %w", err)
	}

	if cfg.OtelEnabled {
		shutdown, err := server.SetupTelemetry(ctx, cfg.ServiceName, cfg.Environment, common.GetEnvInt("TELEMETRY_ID", 0))
		if err != nil {
			return nil, fmt.Errorf("failed to set up telemetry: %w", err)
		}
		app.shutdownTelemetry = shutdown
	}

	logrus.Info("application initialized")
	return app, nil
}

// initRedis initializes the Redis client with exponential-backoff
// connection retry.
func (a *App) initRedis(ctx context.Context) error {
	client := redis.NewClient(&redis.Options{
		Addr:         a.cfg.RedisHost + ":" + a.cfg.RedisPort,
		Password:     a.cfg.RedisPassword,
		DB:           0, // use default DB
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	b := backoff.NewExponentialBackOff()
	maxRetries := backoff.WithMaxRetries(b, 5)

	err := backoff.Retry(
		func() error {
			_, err := client.Ping(ctx).Result()
			if err != nil {
				logrus.Warnf("Redis connection failed: %v, retrying...", err)
				return err
			}
			return nil
		},
		maxRetries,
	)

	if err != nil {
		return err
	}

	a.redisClient = client
	logrus.Info("Redis client initialized")
	return nil
}

// initEngine wires the collaborators, built-in action handlers and the
// engine itself.
func (a *App) initEngine() error {
	storage := service.NewRedisStorage(a.redisClient)

	deps := &actionBuiltin.Dependencies{
		Storage:  storage,
		Matcher:  service.NewRatingMatcher(),
		Notifier: service.NewLogNotifier(),
		Mailer:   service.NewLogMailer(),
	}

	handlers := action.NewRegistry()
	if err := actionBuiltin.Register(handlers, deps); err != nil {
		return err
	}
	logrus.Infof("registered %d action handlers", handlers.Count())

	a.recorder = engine.NewMemoryRecorder(0)

	eng, err := engine.New(engine.Options{
		Handlers:      handlers,
		Metrics:       service.NewRedisMetricsProvider(a.redisClient),
		TickInterval:  time.Duration(a.cfg.TickIntervalSeconds) * time.Second,
		ActionTimeout: time.Duration(a.cfg.ActionTimeoutSeconds) * time.Second,
		Recorder:      a.recorder,
	})
	if err != nil {
		return err
	}

	a.eng = eng
	logrus.Info("initialized automation engine")
	return nil
}

// loadRules registers the default rule set from the YAML config file.
func (a *App) loadRules() error {
	cfg, err := rule.LoadConfig(a.cfg.RulesConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load rule configuration from %s: %w", a.cfg.RulesConfigPath, err)
	}

	for _, r := range cfg.Build() {
		if err := a.eng.AddRule(r); err != nil {
			return fmt.Errorf("failed to register rule %s: %w", r.ID, err)
		}
	}

	logrus.Infof("registered %d rules from %s", len(cfg.Rules), a.cfg.RulesConfigPath)
	return nil
}

// Engine returns the automation engine, the surface the host process
// calls to trigger events or execute rules directly.
func (a *App) Engine() *engine.Engine {
	return a.eng
}
